package tracker

import (
	"fmt"
	"math"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/stat"
)

// TrackCenterline walks the search window from its starting position up to
// the top of the binary image, returning one estimated lane center per step
// ordered bottom to top.
//
// At each step the center is the mean x of the nonzero pixels inside the
// window, or the window's own center when it holds none.  A window holding
// pixels is then shifted horizontally by the offset between the two, clamped
// to stay inside the image.  The window then moves up by its height.  Once the window reaches y = 0 that
// step is the last.
func TrackCenterline(img gocv.Mat, win Window) ([]Point, error) {

	if img.Empty() || img.Rows() <= 0 || img.Cols() <= 0 {
		return nil, fmt.Errorf("%w: empty image", ErrInvalidImage)
	}

	if img.Type() != gocv.MatTypeCV8UC1 {
		return nil, fmt.Errorf("%w: expected 8 bit single channel, got type %d",
			ErrInvalidImage, int(img.Type()))
	}

	imgWidth, imgHeight := img.Cols(), img.Rows()

	if err := win.Validate(imgWidth, imgHeight); err != nil {
		return nil, err
	}

	steps := win.Steps()
	points := make([]Point, 0, steps)

	locations := gocv.NewMat()
	defer locations.Close()

	for i := 0; i < steps; i++ {

		last := win.Y == 0
		currX := win.CenterX()

		avgX := currX
		xs := nonZeroX(img, win, &locations)

		if len(xs) > 0 {
			avgX = stat.Mean(xs, nil)
		}

		point := Point{
			X: int(math.RoundToEven(avgX)),
			Y: win.CenterY(),
		}
		points = append(points, point)

		if last {
			break
		}

		// recenter on the estimate keeping the window inside the image, an
		// empty window keeps its position
		if len(xs) > 0 {
			win.X = int(float64(win.X) + float64(point.X) - currX)
		}

		if win.X < 0 {
			win.X = 0
		}

		if win.X+win.Width > imgWidth {
			win.X = imgWidth - win.Width
		}

		win.Y -= win.Height

		if win.Y < 0 {
			win.Y = 0
		}
	}

	return points, nil
}

// nonZeroX returns the image x coordinates of all nonzero pixels inside the
// window
func nonZeroX(img gocv.Mat, win Window, locations *gocv.Mat) []float64 {

	region := img.Region(win.Rect())
	defer region.Close()

	if gocv.CountNonZero(region) == 0 {
		return nil
	}

	gocv.FindNonZero(region, locations)

	xs := make([]float64, locations.Rows())

	for i := range xs {
		loc := locations.GetVeciAt(i, 0)
		xs[i] = float64(win.X + int(loc[0]))
	}

	return xs
}
