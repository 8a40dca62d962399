package lanedetect

import (
	"fmt"
	"time"

	"github.com/PHANTOM0122/Lane-detection/postprocess"
	"github.com/PHANTOM0122/Lane-detection/postprocess/result"
	"github.com/PHANTOM0122/Lane-detection/preprocess"
	"github.com/PHANTOM0122/Lane-detection/tracker"
	"go.uber.org/zap"
	"gocv.io/x/gocv"
)

// Pipeline runs the lane localization stages over video frames.  A Pipeline
// keeps a working buffer so it must only be used by one goroutine at a time,
// use a Pool to process frames in parallel.
type Pipeline struct {
	// cfg is the validated pipeline config
	cfg Config
	// log receives per frame debug output
	log *zap.Logger
	// ids numbers the processed frames
	ids *result.IDGenerator
	// resizer scales frames to the processing width, recreated when the
	// frame size changes
	resizer *preprocess.Resizer
	// scaled is the working Mat frames are resized into
	scaled gocv.Mat
}

// NewPipeline returns a Pipeline for the given config
func NewPipeline(cfg Config) (*Pipeline, error) {

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("error creating pipeline: %w", err)
	}

	return &Pipeline{
		cfg:    cfg,
		log:    zap.NewNop(),
		ids:    result.NewIDGenerator(),
		scaled: gocv.NewMat(),
	}, nil
}

// SetLogger sets the logger used for per frame debug output
func (p *Pipeline) SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	p.log = l
}

// SetIDGenerator replaces the frame numbering source, used to share
// numbering between pipelines
func (p *Pipeline) SetIDGenerator(ids *result.IDGenerator) {
	p.ids = ids
}

// Config returns the pipeline config
func (p *Pipeline) Config() Config {
	return p.cfg
}

// Close frees the working buffer
func (p *Pipeline) Close() error {
	return p.scaled.Close()
}

// Process runs the pipeline on a BGR frame.  The frame is not modified.  The
// caller must Close the returned Result.
func (p *Pipeline) Process(frame gocv.Mat) (*Result, error) {

	timing := Timing{Start: time.Now()}

	if frame.Empty() {
		return nil, fmt.Errorf("error processing frame: %w", preprocess.ErrEmptyImage)
	}

	work := p.scale(frame)

	res := &Result{
		FrameID:  p.ids.GetNext(),
		Filtered: gocv.NewMat(),
		Edges:    gocv.NewMat(),
		Masked:   gocv.NewMat(),
		Scale:    p.resizer.ScaleFactor(),
	}

	err := p.run(work, res, &timing)

	if err != nil {
		res.Close()
		return nil, fmt.Errorf("error processing frame %d: %w", res.FrameID, err)
	}

	res.Timing = timing

	p.log.Debug("processed frame",
		zap.Int64("frame", res.FrameID),
		zap.Int("segments", len(res.Segments)),
		zap.Int("trace", len(res.Trace)),
		zap.Duration("filter", timing.Filter()),
		zap.Duration("edges", timing.Edges()),
		zap.Duration("mask", timing.Mask()),
		zap.Duration("segmentsTime", timing.Segments()),
		zap.Duration("traceTime", timing.Trace()),
		zap.Duration("total", timing.Total()),
	)

	return res, nil
}

// scale resizes the frame to the processing width if one is configured and
// returns the Mat to process
func (p *Pipeline) scale(frame gocv.Mat) gocv.Mat {

	if p.resizer == nil || p.resizer.SrcWidth() != frame.Cols() ||
		p.resizer.SrcHeight() != frame.Rows() {

		p.resizer = preprocess.NewResizer(frame.Cols(), frame.Rows(), p.cfg.ProcessWidth)

		p.log.Debug("frame size",
			zap.Int("width", frame.Cols()),
			zap.Int("height", frame.Rows()),
			zap.Int("processWidth", p.resizer.DestWidth()),
			zap.Int("processHeight", p.resizer.DestHeight()),
		)
	}

	if !p.resizer.Enabled() {
		return frame
	}

	p.resizer.Resize(frame, &p.scaled)

	return p.scaled
}

// run executes each stage writing outputs to res
func (p *Pipeline) run(work gocv.Mat, res *Result, timing *Timing) error {

	var err error

	if err = preprocess.FilterColors(work, &res.Filtered, p.cfg.Colors); err != nil {
		return err
	}
	timing.FilterEnd = time.Now()

	if err = preprocess.DetectEdges(res.Filtered, &res.Edges, p.cfg.Edges); err != nil {
		return err
	}
	timing.EdgesEnd = time.Now()

	if err = preprocess.MaskROI(res.Edges, &res.Masked, p.cfg.ROI); err != nil {
		return err
	}

	res.ROI, err = preprocess.NewTrapezoid(work.Cols(), work.Rows(), p.cfg.ROI)

	if err != nil {
		return err
	}
	timing.MaskEnd = time.Now()

	res.Segments, err = postprocess.HoughSegments(res.Masked, p.cfg.Hough)

	if err != nil {
		return err
	}
	timing.SegmentsEnd = time.Now()

	win, err := p.cfg.Window.Window(work.Cols(), work.Rows())

	if err != nil {
		return err
	}

	res.Trace, err = tracker.TrackCenterline(res.Masked, win)

	if err != nil {
		return err
	}
	timing.TraceEnd = time.Now()

	p.toSource(res)

	return nil
}

// toSource maps the geometric outputs back to source frame coordinates
func (p *Pipeline) toSource(res *Result) {

	if !p.resizer.Enabled() {
		return
	}

	for i, pt := range res.ROI {
		res.ROI[i] = p.resizer.ToSource(pt)
	}

	for i, s := range res.Segments {
		p1 := p.resizer.ToSource(s.P1())
		p2 := p.resizer.ToSource(s.P2())
		res.Segments[i] = postprocess.Segment{X1: p1.X, Y1: p1.Y, X2: p2.X, Y2: p2.Y}
	}

	for i, pt := range res.Trace {
		src := p.resizer.ToSource(pt.Pt())
		res.Trace[i] = tracker.Point{X: src.X, Y: src.Y}
	}
}
