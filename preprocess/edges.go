package preprocess

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// EdgeParams are the settings for grayscale blur and Canny edge detection
type EdgeParams struct {
	// BlurKernel is the Gaussian kernel size, must be odd and positive
	BlurKernel int `yaml:"blurKernel"`
	// BlurSigma is the Gaussian sigma, 0 derives it from the kernel size
	BlurSigma float64 `yaml:"blurSigma"`
	// LowThreshold and HighThreshold are the Canny hysteresis thresholds
	LowThreshold  float32 `yaml:"lowThreshold"`
	HighThreshold float32 `yaml:"highThreshold"`
}

// DefaultEdgeParams returns a 3x3 blur and Canny thresholds of 150/255
func DefaultEdgeParams() EdgeParams {
	return EdgeParams{
		BlurKernel:    3,
		BlurSigma:     0,
		LowThreshold:  150,
		HighThreshold: 255,
	}
}

// Validate checks the kernel size and thresholds
func (p EdgeParams) Validate() error {
	if p.BlurKernel <= 0 || p.BlurKernel%2 == 0 {
		return fmt.Errorf("blur kernel must be odd and positive, got %d", p.BlurKernel)
	}
	if p.LowThreshold < 0 || p.HighThreshold < p.LowThreshold {
		return fmt.Errorf("canny thresholds invalid, low %v high %v",
			p.LowThreshold, p.HighThreshold)
	}
	return nil
}

// DetectEdges converts src to grayscale, blurs it and runs Canny edge
// detection writing the binary edge image to dest.  src may be BGR or
// already single channel.
func DetectEdges(src gocv.Mat, dest *gocv.Mat, params EdgeParams) error {

	if err := checkImage(src, gocv.MatTypeCV8UC1, gocv.MatTypeCV8UC3); err != nil {
		return fmt.Errorf("detect edges: %w", err)
	}

	if err := params.Validate(); err != nil {
		return fmt.Errorf("detect edges: %w", err)
	}

	gray := gocv.NewMat()
	defer gray.Close()

	if src.Channels() == 3 {
		gocv.CvtColor(src, &gray, gocv.ColorBGRToGray)
	} else {
		src.CopyTo(&gray)
	}

	gocv.GaussianBlur(gray, &gray, image.Pt(params.BlurKernel, params.BlurKernel),
		params.BlurSigma, params.BlurSigma, gocv.BorderDefault)

	gocv.Canny(gray, dest, params.LowThreshold, params.HighThreshold)

	return nil
}
