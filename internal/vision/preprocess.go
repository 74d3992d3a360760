package vision

import (
	"image"

	"gocv.io/x/gocv"
)

// Preprocess converts an input image to a cleaned binary image suitable
// for grid detection: grayscale, light blur, adaptive threshold, and a
// morphological close to seal hairline gaps. The caller closes the
// returned Mat.
func Preprocess(img gocv.Mat) gocv.Mat {
	var gray gocv.Mat
	if img.Channels() > 1 {
		gray = gocv.NewMat()
		gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)
	} else {
		gray = img.Clone()
	}
	defer gray.Close()

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: 3, Y: 3}, 0, 0, gocv.BorderDefault)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.AdaptiveThreshold(blurred, &thresh, 255,
		gocv.AdaptiveThresholdGaussian, gocv.ThresholdBinary, 11, 2)

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Point{X: 2, Y: 2})
	defer kernel.Close()

	cleaned := gocv.NewMat()
	gocv.MorphologyEx(thresh, &cleaned, gocv.MorphClose, kernel)
	return cleaned
}
