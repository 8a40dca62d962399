package render

import (
	"image/color"

	"github.com/PHANTOM0122/Lane-detection/tracker"
	"gocv.io/x/gocv"
)

// TrailStyle defines the parameters used for rendering the centerline trace
type TrailStyle struct {
	LineColor     color.RGBA
	LineThickness int
	// CircleColor is the color of the circle marking each trace point, a
	// radius of zero skips drawing the circles
	CircleColor  color.RGBA
	CircleRadius int
}

// DefaultTrailStyle returns default trail style settings
func DefaultTrailStyle() TrailStyle {
	return TrailStyle{
		LineColor:     Yellow,
		LineThickness: 1,
		CircleColor:   Pink,
		CircleRadius:  3,
	}
}

// Trace draws the centerline trace on the image, a line joining each point
// bottom to top with a filled circle on every point
func Trace(img *gocv.Mat, trace []tracker.Point, style TrailStyle) {

	for i := 1; i < len(trace); i++ {
		// draw line segment of trail
		gocv.Line(img, trace[i-1].Pt(), trace[i].Pt(),
			style.LineColor, style.LineThickness)
	}

	if style.CircleRadius <= 0 {
		return
	}

	for _, pt := range trace {
		gocv.Circle(img, pt.Pt(), style.CircleRadius, style.CircleColor, -1)
	}
}
