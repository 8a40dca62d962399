package preprocess

import (
	"fmt"

	"gocv.io/x/gocv"
)

// ColorRange is an inclusive per channel lower/upper bound.  The color space
// the bounds apply to is defined by where the range is used, see ColorParams
type ColorRange struct {
	Lower [3]uint8 `yaml:"lower"`
	Upper [3]uint8 `yaml:"upper"`
}

// Validate checks that no channel has a lower bound above its upper bound
func (c ColorRange) Validate() error {
	for i := 0; i < 3; i++ {
		if c.Lower[i] > c.Upper[i] {
			return fmt.Errorf("%w: channel %d lower %d > upper %d",
				ErrInvalidRange, i, c.Lower[i], c.Upper[i])
		}
	}
	return nil
}

// Contains returns true if the three channel pixel value lies inside the range
func (c ColorRange) Contains(px [3]uint8) bool {
	for i := 0; i < 3; i++ {
		if px[i] < c.Lower[i] || px[i] > c.Upper[i] {
			return false
		}
	}
	return true
}

// scalars returns the bounds as gocv Scalars for use with InRange
func (c ColorRange) scalars() (gocv.Scalar, gocv.Scalar) {
	lb := gocv.NewScalar(float64(c.Lower[0]), float64(c.Lower[1]),
		float64(c.Lower[2]), 0)
	ub := gocv.NewScalar(float64(c.Upper[0]), float64(c.Upper[1]),
		float64(c.Upper[2]), 0)
	return lb, ub
}

// ColorParams holds the two color ranges used to find lane marking candidate
// pixels
type ColorParams struct {
	// White is tested against the BGR pixel values
	White ColorRange `yaml:"white"`
	// Yellow is tested against the HSV (OpenCV 0-180 hue) pixel values
	Yellow ColorRange `yaml:"yellow"`
}

// DefaultColorParams returns the white and yellow road paint ranges
func DefaultColorParams() ColorParams {
	return ColorParams{
		White: ColorRange{
			Lower: [3]uint8{200, 200, 200},
			Upper: [3]uint8{255, 255, 255},
		},
		Yellow: ColorRange{
			Lower: [3]uint8{10, 100, 100},
			Upper: [3]uint8{40, 255, 255},
		},
	}
}

// Validate checks both color ranges
func (p ColorParams) Validate() error {
	if err := p.White.Validate(); err != nil {
		return fmt.Errorf("white: %w", err)
	}
	if err := p.Yellow.Validate(); err != nil {
		return fmt.Errorf("yellow: %w", err)
	}
	return nil
}

// FilterColors keeps only the pixels of the BGR src image that fall in the
// white (BGR) or yellow (HSV) range, all other pixels are set to zero.  Pixels
// kept retain their original BGR color.  Where a pixel matches both ranges the
// two contributions are added with saturation at 255.  The result is written
// to dest which has the same size and type as src, src is not modified.
func FilterColors(src gocv.Mat, dest *gocv.Mat, params ColorParams) error {

	if err := checkImage(src, gocv.MatTypeCV8UC3); err != nil {
		return fmt.Errorf("filter colors: %w", err)
	}

	if err := params.Validate(); err != nil {
		return fmt.Errorf("filter colors: %w", err)
	}

	rows, cols := src.Rows(), src.Cols()
	zero := gocv.NewScalar(0, 0, 0, 0)

	// filter white pixels
	whiteMask := gocv.NewMat()
	defer whiteMask.Close()
	lb, ub := params.White.scalars()
	gocv.InRangeWithScalar(src, lb, ub, &whiteMask)

	whiteImg := gocv.NewMatWithSizeFromScalar(zero, rows, cols, src.Type())
	defer whiteImg.Close()
	gocv.BitwiseAndWithMask(src, src, &whiteImg, whiteMask)

	// filter yellow pixels in HSV space but keep the BGR values
	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(src, &hsv, gocv.ColorBGRToHSV)

	yellowMask := gocv.NewMat()
	defer yellowMask.Close()
	lb, ub = params.Yellow.scalars()
	gocv.InRangeWithScalar(hsv, lb, ub, &yellowMask)

	yellowImg := gocv.NewMatWithSizeFromScalar(zero, rows, cols, src.Type())
	defer yellowImg.Close()
	gocv.BitwiseAndWithMask(src, src, &yellowImg, yellowMask)

	// combine, gocv.Add saturates uint8 channels
	gocv.Add(whiteImg, yellowImg, dest)

	return nil
}
