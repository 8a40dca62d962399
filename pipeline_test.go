package lanedetect

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gocv.io/x/gocv"
)

var (
	white  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	yellow = color.RGBA{R: 255, G: 255, B: 0, A: 255}
	gray   = color.RGBA{R: 90, G: 90, B: 90, A: 255}
)

// newRoad returns a synthetic 320x180 dash camera frame with a yellow left
// lane marking, a white right lane marking and a gray line outside the road
func newRoad() gocv.Mat {
	img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 180, 320,
		gocv.MatTypeCV8UC3)

	gocv.Line(&img, image.Pt(60, 179), image.Pt(145, 112), yellow, 4)
	gocv.Line(&img, image.Pt(260, 179), image.Pt(175, 112), white, 4)
	gocv.Line(&img, image.Pt(5, 20), image.Pt(300, 20), gray, 4)

	return img
}

func TestPipelineProcess(t *testing.T) {

	pl, err := NewPipeline(DefaultConfig())
	require.NoError(t, err)
	defer pl.Close()

	pl.SetLogger(zaptest.NewLogger(t))

	frame := newRoad()
	defer frame.Close()

	res, err := pl.Process(frame)
	require.NoError(t, err)
	defer res.Close()

	assert.Equal(t, int64(1), res.FrameID)
	assert.Equal(t, 1.0, res.Scale)

	assert.Equal(t, gocv.MatTypeCV8UC3, res.Filtered.Type())
	assert.Equal(t, gocv.MatTypeCV8UC1, res.Masked.Type())
	assert.Equal(t, frame.Rows(), res.Masked.Rows())
	assert.Equal(t, frame.Cols(), res.Masked.Cols())

	// the gray line is removed by the color filter, the sky by the mask
	sky := res.Masked.Region(image.Rect(0, 0, frame.Cols(), 100))
	defer sky.Close()
	assert.Equal(t, 0, gocv.CountNonZero(sky))
	assert.Greater(t, gocv.CountNonZero(res.Masked), 0)

	assert.NotEmpty(t, res.Segments)
	for _, s := range res.Segments {
		assert.GreaterOrEqual(t, s.Y1, 100)
		assert.GreaterOrEqual(t, s.Y2, 100)
	}

	// ceil(180 / 20) steps, bottom to top
	require.Len(t, res.Trace, 9)
	assert.Equal(t, 170, res.Trace[0].Y)
	assert.Equal(t, 10, res.Trace[len(res.Trace)-1].Y)

	assert.Equal(t, image.Pt(24, 180), res.ROI[0])
	assert.True(t, res.Timing.Total() >= 0)

	// frames are numbered
	res2, err := pl.Process(frame)
	require.NoError(t, err)
	defer res2.Close()

	assert.Equal(t, int64(2), res2.FrameID)
	assert.Equal(t, res.Segments, res2.Segments)
	assert.Equal(t, res.Trace, res2.Trace)
}

func TestPipelineProcessScaled(t *testing.T) {

	cfg := DefaultConfig()
	cfg.ProcessWidth = 160
	cfg.Hough.Threshold = 20
	cfg.Hough.MinLineLength = 20

	pl, err := NewPipeline(cfg)
	require.NoError(t, err)
	defer pl.Close()

	frame := newRoad()
	defer frame.Close()

	res, err := pl.Process(frame)
	require.NoError(t, err)
	defer res.Close()

	assert.Equal(t, 0.5, res.Scale)
	assert.Equal(t, 90, res.Masked.Rows())
	assert.Equal(t, 160, res.Masked.Cols())

	// processed at 160x90 with 20px steps is 5 steps, mapped back to source
	require.Len(t, res.Trace, 5)
	assert.Equal(t, 20, res.Trace[len(res.Trace)-1].Y)

	bounds := image.Rect(0, 0, frame.Cols()+1, frame.Rows()+1)

	for _, pt := range res.Trace {
		assert.True(t, pt.Pt().In(bounds), "trace point %v", pt)
	}

	for _, s := range res.Segments {
		assert.True(t, s.P1().In(bounds) && s.P2().In(bounds), "segment %v", s)
	}

	assert.Equal(t, image.Pt(24, 180), res.ROI[0])
}

func TestPipelineErrors(t *testing.T) {

	cfg := DefaultConfig()
	cfg.ROI.TopWidth = 2

	_, err := NewPipeline(cfg)
	assert.Error(t, err)

	pl, err := NewPipeline(DefaultConfig())
	require.NoError(t, err)
	defer pl.Close()

	empty := gocv.NewMat()
	defer empty.Close()

	_, err = pl.Process(empty)
	assert.Error(t, err)

	// grayscale frames are rejected by the color filter
	gray := gocv.NewMatWithSize(40, 40, gocv.MatTypeCV8UC1)
	defer gray.Close()

	_, err = pl.Process(gray)
	assert.Error(t, err)

	// window taller than the frame
	cfg = DefaultConfig()
	cfg.Window.Height = 100

	small, err := NewPipeline(cfg)
	require.NoError(t, err)
	defer small.Close()

	frame := gocv.NewMatWithSize(50, 50, gocv.MatTypeCV8UC3)
	defer frame.Close()

	_, err = small.Process(frame)
	assert.Error(t, err)
}
