package lanedetect

import (
	"fmt"
	"math"
	"os"

	"github.com/PHANTOM0122/Lane-detection/postprocess"
	"github.com/PHANTOM0122/Lane-detection/preprocess"
	"github.com/PHANTOM0122/Lane-detection/tracker"
	"gopkg.in/yaml.v3"
)

// WindowParams defines the starting search window of the centerline tracker
// relative to the processed image
type WindowParams struct {
	// WidthRatio is the window width as a ratio of image width
	WidthRatio float64 `yaml:"widthRatio"`
	// Height is the vertical step size in pixels
	Height int `yaml:"height"`
	// CenterRatio is the starting horizontal center as a ratio of image width
	CenterRatio float64 `yaml:"centerRatio"`
}

// DefaultWindowParams returns a quarter image wide window starting at the
// bottom center of the image
func DefaultWindowParams() WindowParams {
	return WindowParams{
		WidthRatio:  0.25,
		Height:      20,
		CenterRatio: 0.5,
	}
}

// Validate checks the ratios and step height
func (w WindowParams) Validate() error {
	if math.IsNaN(w.WidthRatio) || w.WidthRatio <= 0 || w.WidthRatio > 1 {
		return fmt.Errorf("%w: width ratio %v not in (0,1]", tracker.ErrInvalidWindow,
			w.WidthRatio)
	}
	if math.IsNaN(w.CenterRatio) || w.CenterRatio < 0 || w.CenterRatio > 1 {
		return fmt.Errorf("%w: center ratio %v not in [0,1]", tracker.ErrInvalidWindow,
			w.CenterRatio)
	}
	if w.Height <= 0 {
		return fmt.Errorf("%w: height %d", tracker.ErrInvalidWindow, w.Height)
	}
	return nil
}

// Window returns the bottom anchored starting window for an image of the
// given size
func (w WindowParams) Window(imgWidth, imgHeight int) (tracker.Window, error) {

	if err := w.Validate(); err != nil {
		return tracker.Window{}, err
	}

	width := int(math.Round(w.WidthRatio * float64(imgWidth)))

	if width < 1 {
		width = 1
	}

	if w.Height > imgHeight {
		return tracker.Window{}, fmt.Errorf("%w: height %d exceeds image height %d",
			tracker.ErrInvalidWindow, w.Height, imgHeight)
	}

	centerX := int(math.Round(w.CenterRatio * float64(imgWidth)))

	return tracker.NewBottomWindow(imgWidth, imgHeight, width, w.Height, centerX), nil
}

// Config holds all settings of the lane detection pipeline.  The values are
// fixed for the life of a Pipeline.
type Config struct {
	// ProcessWidth scales frames down to this width before processing, zero
	// processes frames at their native size
	ProcessWidth int                     `yaml:"processWidth"`
	Colors       preprocess.ColorParams  `yaml:"colors"`
	ROI          preprocess.ROIParams    `yaml:"roi"`
	Edges        preprocess.EdgeParams   `yaml:"edges"`
	Hough        postprocess.HoughParams `yaml:"hough"`
	Window       WindowParams            `yaml:"window"`
}

// DefaultConfig returns the default pipeline settings
func DefaultConfig() Config {
	return Config{
		Colors: preprocess.DefaultColorParams(),
		ROI:    preprocess.DefaultROIParams(),
		Edges:  preprocess.DefaultEdgeParams(),
		Hough:  postprocess.DefaultHoughParams(),
		Window: DefaultWindowParams(),
	}
}

// Validate checks every section of the config
func (c Config) Validate() error {

	if c.ProcessWidth < 0 {
		return fmt.Errorf("process width must not be negative, got %d", c.ProcessWidth)
	}

	if err := c.Colors.Validate(); err != nil {
		return fmt.Errorf("colors: %w", err)
	}

	if err := c.ROI.Validate(); err != nil {
		return fmt.Errorf("roi: %w", err)
	}

	if err := c.Edges.Validate(); err != nil {
		return fmt.Errorf("edges: %w", err)
	}

	if err := c.Hough.Validate(); err != nil {
		return fmt.Errorf("hough: %w", err)
	}

	if err := c.Window.Validate(); err != nil {
		return fmt.Errorf("window: %w", err)
	}

	return nil
}

// LoadConfig reads a YAML config file.  Settings missing from the file keep
// their default values.
func LoadConfig(file string) (Config, error) {

	cfg := DefaultConfig()

	data, err := os.ReadFile(file)

	if err != nil {
		return cfg, fmt.Errorf("error opening config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config file %s: %w", file, err)
	}

	return cfg, nil
}
