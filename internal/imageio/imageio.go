// Package imageio loads puzzle images into OpenCV matrices and bridges
// between gocv.Mat and the standard library image types.
//
// An unreadable or undecodable input is the one fatal condition in the
// whole pipeline; everything downstream degrades instead of failing.
package imageio

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"gocv.io/x/gocv"

	_ "golang.org/x/image/tiff"
)

// ReadFile decodes an image file into a BGR Mat. The caller closes the Mat.
func ReadFile(path string) (gocv.Mat, error) {
	mat := gocv.IMRead(path, gocv.IMReadColor)
	if !mat.Empty() {
		return mat, nil
	}

	// OpenCV could not read it directly; fall back to the Go decoders,
	// which also cover TIFF via golang.org/x/image.
	f, err := os.Open(path)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("open image %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("decode image %s: %w", path, err)
	}
	return ToMat(img)
}

// Decode decodes an in-memory image buffer into a BGR Mat.
// The caller closes the Mat.
func Decode(buf []byte) (gocv.Mat, error) {
	mat, err := gocv.IMDecode(buf, gocv.IMReadColor)
	if err == nil && !mat.Empty() {
		return mat, nil
	}
	if err == nil {
		mat.Close()
	}
	return gocv.Mat{}, fmt.Errorf("decode image buffer: unsupported or corrupt data")
}

// ToMat converts a Go image.Image to a BGR gocv.Mat. The caller closes it.
func ToMat(img image.Image) (gocv.Mat, error) {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= 0 || height <= 0 {
		return gocv.Mat{}, fmt.Errorf("convert image: empty bounds")
	}

	mat := gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC3)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			// OpenCV uses BGR ordering
			mat.SetUCharAt(y, x*3+0, uint8(b>>8))
			mat.SetUCharAt(y, x*3+1, uint8(g>>8))
			mat.SetUCharAt(y, x*3+2, uint8(r>>8))
		}
	}
	return mat, nil
}

// ToGrayImage converts a single-channel Mat to a Go grayscale image.
func ToGrayImage(mat gocv.Mat) (*image.Gray, error) {
	if mat.Empty() {
		return nil, fmt.Errorf("convert mat: empty matrix")
	}
	if mat.Channels() != 1 {
		return nil, fmt.Errorf("convert mat: expected 1 channel, got %d", mat.Channels())
	}

	h, w := mat.Rows(), mat.Cols()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Pix[y*img.Stride+x] = mat.GetUCharAt(y, x)
		}
	}
	return img, nil
}
