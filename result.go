package lanedetect

import (
	"time"

	"github.com/PHANTOM0122/Lane-detection/postprocess"
	"github.com/PHANTOM0122/Lane-detection/preprocess"
	"github.com/PHANTOM0122/Lane-detection/tracker"
	"gocv.io/x/gocv"
)

// Timing holds the time each stage of processing a frame finished
type Timing struct {
	Start       time.Time
	FilterEnd   time.Time
	EdgesEnd    time.Time
	MaskEnd     time.Time
	SegmentsEnd time.Time
	TraceEnd    time.Time
}

// Filter returns the time spent on color segmentation, including any resize
func (t Timing) Filter() time.Duration {
	return t.FilterEnd.Sub(t.Start)
}

// Edges returns the time spent on grayscale, blur and edge detection
func (t Timing) Edges() time.Duration {
	return t.EdgesEnd.Sub(t.FilterEnd)
}

// Mask returns the time spent masking the region of interest
func (t Timing) Mask() time.Duration {
	return t.MaskEnd.Sub(t.EdgesEnd)
}

// Segments returns the time spent finding line segments
func (t Timing) Segments() time.Duration {
	return t.SegmentsEnd.Sub(t.MaskEnd)
}

// Trace returns the time spent tracking the centerline
func (t Timing) Trace() time.Duration {
	return t.TraceEnd.Sub(t.SegmentsEnd)
}

// Total returns the time taken to process the frame
func (t Timing) Total() time.Duration {
	return t.TraceEnd.Sub(t.Start)
}

// Result is the output of processing one frame.  Segments, Trace and ROI are
// in source frame coordinates, the Mats are at processing resolution.
type Result struct {
	// FrameID is the sequence number the pipeline assigned to the frame
	FrameID int64
	// Filtered is the color segmented BGR image
	Filtered gocv.Mat
	// Edges is the binary edge image before masking
	Edges gocv.Mat
	// Masked is the edge image restricted to the region of interest
	Masked gocv.Mat
	// ROI is the region of interest trapezoid
	ROI preprocess.Trapezoid
	// Segments are the line segments found in the masked edges
	Segments []postprocess.Segment
	// Trace is the lane centerline, bottom to top
	Trace []tracker.Point
	// Scale is the factor from source frame to processing resolution
	Scale float64
	Timing Timing
}

// Close frees the Mats held by the result
func (r *Result) Close() error {
	var err error

	for _, m := range []*gocv.Mat{&r.Filtered, &r.Edges, &r.Masked} {
		if e := m.Close(); e != nil && err == nil {
			err = e
		}
	}

	return err
}
