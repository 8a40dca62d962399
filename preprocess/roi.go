package preprocess

import (
	"fmt"
	"image"
	"image/color"
	"math"

	clipper "github.com/ctessum/go.clipper"
	"gocv.io/x/gocv"
)

// ROIParams defines the trapezoid shaped region of interest as ratios of the
// image dimensions.  The bottom edge of the trapezoid always lies on the
// bottom of the image.
type ROIParams struct {
	// BottomWidth is the width of the bottom edge as a ratio of image width
	BottomWidth float64 `yaml:"bottomWidth"`
	// TopWidth is the width of the top edge as a ratio of image width
	TopWidth float64 `yaml:"topWidth"`
	// Height of the trapezoid as a ratio of image height
	Height float64 `yaml:"height"`
	// Margin in pixels to grow (positive) or shrink (negative) the trapezoid
	// by before rasterizing.  Zero uses the exact trapezoid.
	Margin int `yaml:"margin"`
}

// DefaultROIParams returns the region of interest used for a forward facing
// dash camera
func DefaultROIParams() ROIParams {
	return ROIParams{
		BottomWidth: 0.85,
		TopWidth:    0.07,
		Height:      0.4,
	}
}

// Validate checks all ratios are within [0,1]
func (p ROIParams) Validate() error {

	ratios := []struct {
		name string
		val  float64
	}{
		{"bottom width", p.BottomWidth},
		{"top width", p.TopWidth},
		{"height", p.Height},
	}

	for _, r := range ratios {
		if math.IsNaN(r.val) || r.val < 0 || r.val > 1 {
			return fmt.Errorf("%w: %s ratio %v not in [0,1]", ErrInvalidROI,
				r.name, r.val)
		}
	}

	return nil
}

// Trapezoid holds the region of interest vertices in the order bottom-left,
// top-left, top-right, bottom-right
type Trapezoid [4]image.Point

// NewTrapezoid calculates the region of interest vertices for an image of
// the given dimensions.  Coordinates are rounded to the nearest pixel.
func NewTrapezoid(width, height int, params ROIParams) (Trapezoid, error) {

	if width <= 0 || height <= 0 {
		return Trapezoid{}, fmt.Errorf("%w: %dx%d", ErrEmptyImage, width, height)
	}

	if err := params.Validate(); err != nil {
		return Trapezoid{}, err
	}

	w := float64(width)
	h := float64(height)

	bottomInset := int(math.Round(w * (1 - params.BottomWidth) / 2))
	topInset := int(math.Round(w * (1 - params.TopWidth) / 2))
	topY := int(math.Round(h - h*params.Height))

	return Trapezoid{
		image.Pt(bottomInset, height),
		image.Pt(topInset, topY),
		image.Pt(width-topInset, topY),
		image.Pt(width-bottomInset, height),
	}, nil
}

// Points returns the vertices as a slice
func (t Trapezoid) Points() []image.Point {
	return t[:]
}

// Polygons returns the polygon(s) to rasterize for the mask.  With no margin
// this is the trapezoid itself, otherwise the trapezoid is offset using mitered
// joins so the corners stay sharp.
func (t Trapezoid) Polygons(margin int) [][]image.Point {

	if margin == 0 {
		return [][]image.Point{t.Points()}
	}

	var path clipper.Path

	for _, pt := range t {
		path = append(path, &clipper.IntPoint{X: clipper.CInt(pt.X), Y: clipper.CInt(pt.Y)})
	}

	co := clipper.NewClipperOffset()
	co.AddPath(path, clipper.JtMiter, clipper.EtClosedPolygon)

	solution := co.Execute(float64(margin))

	polys := make([][]image.Point, 0, len(solution))

	for _, sol := range solution {
		poly := make([]image.Point, 0, len(sol))
		for _, pt := range sol {
			poly = append(poly, image.Pt(int(pt.X), int(pt.Y)))
		}
		if len(poly) >= 3 {
			polys = append(polys, poly)
		}
	}

	return polys
}

// NewROIMask returns a single channel mask of the given dimensions with the
// region of interest filled with 255 and everything else 0.  The caller must
// Close the returned Mat.  No Mat is allocated when an error is returned.
func NewROIMask(width, height int, params ROIParams) (gocv.Mat, error) {

	trap, err := NewTrapezoid(width, height, params)

	if err != nil {
		return gocv.Mat{}, err
	}

	mask := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0),
		height, width, gocv.MatTypeCV8UC1)

	polys := trap.Polygons(params.Margin)

	if len(polys) == 0 {
		// margin shrank the region away entirely
		return mask, nil
	}

	pv := gocv.NewPointsVectorFromPoints(polys)
	defer pv.Close()

	gocv.FillPolyWithParams(&mask, pv, color.RGBA{R: 255, G: 255, B: 255, A: 255},
		gocv.Line8, 0, image.Pt(0, 0))

	return mask, nil
}

// MaskROI zeroes all pixels of src outside of the region of interest and
// writes the result to dest.  Pixels inside the region are copied unchanged.
// src may be single channel or BGR, dest may be the same Mat as src.
func MaskROI(src gocv.Mat, dest *gocv.Mat, params ROIParams) error {

	if err := checkImage(src, gocv.MatTypeCV8UC1, gocv.MatTypeCV8UC3); err != nil {
		return fmt.Errorf("mask roi: %w", err)
	}

	mask, err := NewROIMask(src.Cols(), src.Rows(), params)

	if err != nil {
		return fmt.Errorf("mask roi: %w", err)
	}

	defer mask.Close()

	out := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0),
		src.Rows(), src.Cols(), src.Type())
	defer out.Close()

	if src.Channels() == 1 {
		gocv.BitwiseAnd(src, mask, &out)
	} else {
		gocv.BitwiseAndWithMask(src, src, &out, mask)
	}

	out.CopyTo(dest)

	return nil
}
