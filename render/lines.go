package render

import (
	"image"
	"image/color"

	"github.com/PHANTOM0122/Lane-detection/postprocess"
	"github.com/PHANTOM0122/Lane-detection/preprocess"
	"gocv.io/x/gocv"
)

// LineStyle defines how line segments are drawn
type LineStyle struct {
	Color     color.RGBA
	Thickness int
}

// DefaultLineStyle returns blue lines two pixels thick
func DefaultLineStyle() LineStyle {
	return LineStyle{
		Color:     Blue,
		Thickness: 2,
	}
}

// Segments draws the detected line segments on the image
func Segments(img *gocv.Mat, segs []postprocess.Segment, style LineStyle) {
	for _, s := range segs {
		gocv.Line(img, s.P1(), s.P2(), style.Color, style.Thickness)
	}
}

// ROI draws the outline of the region of interest trapezoid
func ROI(img *gocv.Mat, trap preprocess.Trapezoid, clr color.RGBA, thickness int) {

	pv := gocv.NewPointsVectorFromPoints([][]image.Point{trap.Points()})
	defer pv.Close()

	gocv.Polylines(img, pv, true, clr, thickness)
}
