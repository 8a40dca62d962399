package preprocess

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

// matsEqual returns true if both Mats have identical pixel values
func matsEqual(a, b gocv.Mat) bool {
	if a.Rows() != b.Rows() || a.Cols() != b.Cols() || a.Type() != b.Type() {
		return false
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.Compare(a, b, &diff, gocv.CompareNE)

	if diff.Channels() > 1 {
		gray := gocv.NewMat()
		defer gray.Close()
		gocv.CvtColor(diff, &gray, gocv.ColorBGRToGray)
		return gocv.CountNonZero(gray) == 0
	}

	return gocv.CountNonZero(diff) == 0
}

func TestNewTrapezoid(t *testing.T) {

	tests := []struct {
		width    int
		height   int
		expected Trapezoid
	}{
		{200, 100, Trapezoid{
			image.Pt(15, 100), image.Pt(93, 60), image.Pt(107, 60), image.Pt(185, 100),
		}},
		{1280, 720, Trapezoid{
			image.Pt(96, 720), image.Pt(595, 432), image.Pt(685, 432), image.Pt(1184, 720),
		}},
	}

	for _, tc := range tests {
		trap, err := NewTrapezoid(tc.width, tc.height, DefaultROIParams())
		require.NoError(t, err)
		assert.Equal(t, tc.expected, trap, "image %dx%d", tc.width, tc.height)

		for _, pt := range trap {
			assert.True(t, pt.X >= 0 && pt.X <= tc.width && pt.Y >= 0 && pt.Y <= tc.height,
				"vertex %v outside image", pt)
		}

		assert.Equal(t, tc.height, trap[0].Y)
		assert.Equal(t, tc.height, trap[3].Y)
	}
}

func TestNewTrapezoidInvalid(t *testing.T) {

	_, err := NewTrapezoid(0, 100, DefaultROIParams())
	assert.ErrorIs(t, err, ErrEmptyImage)

	_, err = NewTrapezoid(100, -1, DefaultROIParams())
	assert.ErrorIs(t, err, ErrEmptyImage)

	params := DefaultROIParams()
	params.BottomWidth = 1.5

	_, err = NewTrapezoid(100, 100, params)
	assert.ErrorIs(t, err, ErrInvalidROI)
}

func TestMaskROI(t *testing.T) {

	img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 0, 0, 0), 100, 200,
		gocv.MatTypeCV8UC1)
	defer img.Close()

	out := gocv.NewMat()
	defer out.Close()

	require.NoError(t, MaskROI(img, &out, DefaultROIParams()))

	assert.Equal(t, 100, out.Rows())
	assert.Equal(t, 200, out.Cols())
	assert.Equal(t, gocv.MatTypeCV8UC1, out.Type())

	// inside the trapezoid
	assert.Equal(t, uint8(255), out.GetUCharAt(99, 100))
	assert.Equal(t, uint8(255), out.GetUCharAt(70, 100))
	assert.Equal(t, uint8(255), out.GetUCharAt(95, 30))

	// outside the trapezoid
	assert.Equal(t, uint8(0), out.GetUCharAt(0, 0))
	assert.Equal(t, uint8(0), out.GetUCharAt(99, 5))
	assert.Equal(t, uint8(0), out.GetUCharAt(99, 195))
	assert.Equal(t, uint8(0), out.GetUCharAt(50, 100))
	assert.Equal(t, uint8(0), out.GetUCharAt(65, 40))

	// mask is strictly 0/255 and matches the rasterized region
	mask, err := NewROIMask(200, 100, DefaultROIParams())
	require.NoError(t, err)
	defer mask.Close()

	assert.True(t, matsEqual(mask, out))
}

func TestMaskROIKeepsInputValues(t *testing.T) {

	img := gocv.NewMatWithSize(100, 200, gocv.MatTypeCV8UC1)
	defer img.Close()

	for r := 0; r < img.Rows(); r++ {
		for c := 0; c < img.Cols(); c++ {
			img.SetUCharAt(r, c, uint8((r*7+c*3)%256))
		}
	}

	mask, err := NewROIMask(200, 100, DefaultROIParams())
	require.NoError(t, err)
	defer mask.Close()

	out := gocv.NewMat()
	defer out.Close()

	require.NoError(t, MaskROI(img, &out, DefaultROIParams()))

	for r := 0; r < img.Rows(); r++ {
		for c := 0; c < img.Cols(); c++ {
			m := mask.GetUCharAt(r, c)
			require.True(t, m == 0 || m == 255, "partial mask value %d", m)

			want := uint8(0)
			if m == 255 {
				want = img.GetUCharAt(r, c)
			}
			require.Equal(t, want, out.GetUCharAt(r, c), "pixel (%d,%d)", r, c)
		}
	}

	// idempotent, also checks dest may alias src
	again := out.Clone()
	defer again.Close()

	require.NoError(t, MaskROI(again, &again, DefaultROIParams()))
	assert.True(t, matsEqual(out, again))
}

func TestMaskROIColor(t *testing.T) {

	img := newBGR(100, 200, [3]uint8{10, 20, 30})
	defer img.Close()

	out := gocv.NewMat()
	defer out.Close()

	require.NoError(t, MaskROI(img, &out, DefaultROIParams()))

	assert.Equal(t, gocv.MatTypeCV8UC3, out.Type())
	assert.Equal(t, [3]uint8{10, 20, 30}, getBGR(out, 99, 100))
	assert.Equal(t, [3]uint8{0, 0, 0}, getBGR(out, 0, 0))
}

func TestMaskROIMargin(t *testing.T) {

	count := func(margin int) int {
		params := DefaultROIParams()
		params.Margin = margin

		mask, err := NewROIMask(200, 100, params)
		require.NoError(t, err)
		defer mask.Close()

		return gocv.CountNonZero(mask)
	}

	exact := count(0)
	grown := count(5)
	shrunk := count(-5)

	assert.Greater(t, exact, 0)
	assert.Greater(t, grown, exact)
	assert.Less(t, shrunk, exact)
}

func TestMaskROIErrors(t *testing.T) {

	out := gocv.NewMat()
	defer out.Close()

	empty := gocv.NewMat()
	defer empty.Close()

	assert.ErrorIs(t, MaskROI(empty, &out, DefaultROIParams()), ErrEmptyImage)

	img := gocv.NewMatWithSize(10, 10, gocv.MatTypeCV8UC1)
	defer img.Close()

	params := DefaultROIParams()
	params.Height = -0.1

	assert.ErrorIs(t, MaskROI(img, &out, params), ErrInvalidROI)

	// failed masks allocate nothing
	mask, err := NewROIMask(10, 10, params)
	assert.ErrorIs(t, err, ErrInvalidROI)
	assert.Nil(t, mask.Ptr())

	mask, err = NewROIMask(0, 10, DefaultROIParams())
	assert.ErrorIs(t, err, ErrEmptyImage)
	assert.Nil(t, mask.Ptr())
}
