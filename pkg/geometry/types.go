// Package geometry provides basic geometric types used throughout the application.
package geometry

import (
	"math"
)

// Point2D represents a 2D point with floating-point coordinates.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance returns the Euclidean distance to another point.
func (p Point2D) Distance(other Point2D) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Sum returns x+y. The top-left corner of a quadrilateral minimizes it,
// the bottom-right maximizes it.
func (p Point2D) Sum() float64 {
	return p.X + p.Y
}

// Diff returns x-y. The top-right corner maximizes it, the bottom-left
// minimizes it.
func (p Point2D) Diff() float64 {
	return p.X - p.Y
}

// RectInt represents a rectangle with integer coordinates.
type RectInt struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Empty returns true if the rectangle has no area.
func (r RectInt) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Clamp restricts the rectangle to an image of the given dimensions.
func (r RectInt) Clamp(imgWidth, imgHeight int) RectInt {
	out := r
	if out.X < 0 {
		out.Width += out.X
		out.X = 0
	}
	if out.Y < 0 {
		out.Height += out.Y
		out.Y = 0
	}
	if out.X+out.Width > imgWidth {
		out.Width = imgWidth - out.X
	}
	if out.Y+out.Height > imgHeight {
		out.Height = imgHeight - out.Y
	}
	return out
}
