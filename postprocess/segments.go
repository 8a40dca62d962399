package postprocess

import (
	"errors"
	"fmt"
	"image"
	"math"

	"gocv.io/x/gocv"
)

// ErrInvalidEdges is returned when the edge image is empty or not single
// channel
var ErrInvalidEdges = errors.New("invalid edge image")

// Segment is a line segment found in the edge image
type Segment struct {
	X1, Y1 int
	X2, Y2 int
}

// P1 returns the start point of the segment
func (s Segment) P1() image.Point {
	return image.Pt(s.X1, s.Y1)
}

// P2 returns the end point of the segment
func (s Segment) P2() image.Point {
	return image.Pt(s.X2, s.Y2)
}

// Length returns the euclidean length of the segment
func (s Segment) Length() float64 {
	return math.Hypot(float64(s.X2-s.X1), float64(s.Y2-s.Y1))
}

// HoughParams are the probabilistic Hough transform settings
type HoughParams struct {
	// Rho is the distance resolution in pixels
	Rho float32 `yaml:"rho"`
	// Theta is the angle resolution in radians
	Theta float32 `yaml:"theta"`
	// Threshold is the minimum number of votes (intersections)
	Threshold int `yaml:"threshold"`
	// MinLineLength rejects segments shorter than this
	MinLineLength float32 `yaml:"minLineLength"`
	// MaxLineGap is the largest gap between points joined into one segment
	MaxLineGap float32 `yaml:"maxLineGap"`
}

// DefaultHoughParams returns the line detector settings tuned for lane
// markings in 720p dash camera footage
func DefaultHoughParams() HoughParams {
	return HoughParams{
		Rho:           1,
		Theta:         math.Pi / 180,
		Threshold:     40,
		MinLineLength: 40,
		MaxLineGap:    10,
	}
}

// Validate checks the resolutions and threshold are positive
func (p HoughParams) Validate() error {
	if p.Rho <= 0 || p.Theta <= 0 {
		return fmt.Errorf("hough resolution must be positive, rho %v theta %v",
			p.Rho, p.Theta)
	}
	if p.Threshold <= 0 {
		return fmt.Errorf("hough threshold must be positive, got %d", p.Threshold)
	}
	if p.MinLineLength < 0 || p.MaxLineGap < 0 {
		return fmt.Errorf("hough line length and gap must not be negative")
	}
	return nil
}

// HoughSegments runs the probabilistic Hough transform on a binary edge image
// and returns the segments found
func HoughSegments(edges gocv.Mat, params HoughParams) ([]Segment, error) {

	if edges.Empty() || edges.Channels() != 1 {
		return nil, ErrInvalidEdges
	}

	if err := params.Validate(); err != nil {
		return nil, err
	}

	lines := gocv.NewMat()
	defer lines.Close()

	gocv.HoughLinesPWithParams(edges, &lines, params.Rho, params.Theta,
		params.Threshold, params.MinLineLength, params.MaxLineGap)

	segs := make([]Segment, 0, lines.Rows())

	for i := 0; i < lines.Rows(); i++ {
		l := lines.GetVeciAt(i, 0)
		segs = append(segs, Segment{
			X1: int(l[0]), Y1: int(l[1]),
			X2: int(l[2]), Y2: int(l[3]),
		})
	}

	return segs, nil
}
