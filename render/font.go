package render

import (
	"gocv.io/x/gocv"
	"image/color"
)

// Font defines the parameters for rendering text on an image using GoCV
type Font struct {
	Face      gocv.HersheyFont
	Scale     float64
	Color     color.RGBA
	Thickness int
	LineType  gocv.LineType
	// Padding to place around text
	LeftPad   int
	TopPad    int
	BottomPad int
	// Background is the color of the banner drawn behind status text
	Background color.RGBA
}

// DefaultFont returns default font settings
func DefaultFont() Font {
	return Font{
		Face:       gocv.FontHersheySimplex,
		Scale:      0.5,
		Color:      Pink,
		Thickness:  1,
		LineType:   gocv.LineAA,
		LeftPad:    4,
		TopPad:     4,
		BottomPad:  6,
		Background: Black,
	}
}
