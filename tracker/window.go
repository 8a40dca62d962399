package tracker

import (
	"errors"
	"fmt"
	"image"
)

var (
	// ErrInvalidImage is returned when the image to scan is empty or not a
	// single channel binary image
	ErrInvalidImage = errors.New("invalid tracking image")
	// ErrInvalidWindow is returned when the search window has non-positive
	// dimensions or does not fit inside the image
	ErrInvalidWindow = errors.New("invalid search window")
)

// Point is an estimated lane center in image coordinates
type Point struct {
	X, Y int
}

// Pt returns the point as an image.Point
func (p Point) Pt() image.Point {
	return image.Pt(p.X, p.Y)
}

// Window is the rectangle scanned at each step of the sliding window search
type Window struct {
	X      int
	Y      int
	Width  int
	Height int
}

// NewBottomWindow returns a window of the given size anchored on the bottom
// edge of the image with its horizontal center as close to centerX as the
// image width allows
func NewBottomWindow(imgWidth, imgHeight, width, height, centerX int) Window {

	x := centerX - width/2

	if x+width > imgWidth {
		x = imgWidth - width
	}

	if x < 0 {
		x = 0
	}

	return Window{
		X:      x,
		Y:      imgHeight - height,
		Width:  width,
		Height: height,
	}
}

// Rect returns the window as an image.Rectangle
func (w Window) Rect() image.Rectangle {
	return image.Rect(w.X, w.Y, w.X+w.Width, w.Y+w.Height)
}

// CenterX returns the horizontal center of the window
func (w Window) CenterX() float64 {
	return float64(w.X) + float64(w.Width)/2
}

// CenterY returns the vertical center of the window in whole pixels
func (w Window) CenterY() int {
	return w.Y + w.Height/2
}

// Steps returns the number of steps a search starting at this window takes
// to reach the top of the image, including the final step at y = 0
func (w Window) Steps() int {
	if w.Height <= 0 {
		return 0
	}
	return (w.Y+w.Height-1)/w.Height + 1
}

// Validate checks the window has positive dimensions and lies fully inside
// an image of the given size
func (w Window) Validate(imgWidth, imgHeight int) error {

	if w.Width <= 0 || w.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidWindow, w.Width, w.Height)
	}

	if w.Width > imgWidth || w.Height > imgHeight {
		return fmt.Errorf("%w: size %dx%d exceeds image %dx%d", ErrInvalidWindow,
			w.Width, w.Height, imgWidth, imgHeight)
	}

	if w.X < 0 || w.Y < 0 || w.X+w.Width > imgWidth || w.Y+w.Height > imgHeight {
		return fmt.Errorf("%w: %v outside image %dx%d", ErrInvalidWindow,
			w.Rect(), imgWidth, imgHeight)
	}

	return nil
}
