package preprocess

import (
	"image"

	"gocv.io/x/gocv"
)

// Resizer defines the struct used for scaling video frames down to the
// processing width and mapping results back to the source frame
type Resizer struct {
	// srcWidth is the width of the source image
	srcWidth int
	// srcHeight is the height of the source image
	srcHeight int
	// destWidth is the width to scale to
	destWidth int
	// destHeight is derived from destWidth keeping the source aspect
	destHeight int
	// scale is the factor from source to destination
	scale float64
}

// NewResizer returns a resizer used for scaling an image to destWidth whilst
// maintaining the image aspect.  A destWidth of zero or one that is not
// smaller than srcWidth disables scaling.
func NewResizer(srcWidth, srcHeight, destWidth int) *Resizer {
	r := &Resizer{
		srcWidth:  srcWidth,
		srcHeight: srcHeight,
		destWidth: destWidth,
	}

	// precalculate scaling dimensions
	r.preCalc()

	return r
}

// preCalc the scaling factor and destination height
func (r *Resizer) preCalc() {

	if r.destWidth <= 0 || r.destWidth >= r.srcWidth || r.srcWidth <= 0 {
		r.destWidth = r.srcWidth
		r.destHeight = r.srcHeight
		r.scale = 1
		return
	}

	r.scale = float64(r.destWidth) / float64(r.srcWidth)
	r.destHeight = int(float64(r.srcHeight) * r.scale)

	if r.destHeight < 1 {
		r.destHeight = 1
	}
}

// Enabled returns true if the resizer changes the image size
func (r *Resizer) Enabled() bool {
	return r.scale != 1
}

// Resize scales src into dest using area interpolation
func (r *Resizer) Resize(src gocv.Mat, dest *gocv.Mat) {

	if !r.Enabled() {
		src.CopyTo(dest)
		return
	}

	gocv.Resize(src, dest, image.Pt(r.destWidth, r.destHeight),
		0, 0, gocv.InterpolationArea)
}

// ToSource maps a point in the scaled image back to the source image
func (r *Resizer) ToSource(pt image.Point) image.Point {

	if !r.Enabled() {
		return pt
	}

	return image.Pt(
		int(float64(pt.X)/r.scale+0.5),
		int(float64(pt.Y)/r.scale+0.5),
	)
}

// ScaleFactor returns the scale factor from source to destination
func (r *Resizer) ScaleFactor() float64 {
	return r.scale
}

// DestWidth returns the width of the scaled image
func (r *Resizer) DestWidth() int {
	return r.destWidth
}

// DestHeight returns the height of the scaled image
func (r *Resizer) DestHeight() int {
	return r.destHeight
}

// SrcWidth returns the width of the source image
func (r *Resizer) SrcWidth() int {
	return r.srcWidth
}

// SrcHeight returns the height of the source image
func (r *Resizer) SrcHeight() int {
	return r.srcHeight
}
