package lanedetect

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/PHANTOM0122/Lane-detection/preprocess"
	"github.com/PHANTOM0122/Lane-detection/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "lanes.yaml")
	require.NoError(t, os.WriteFile(file, []byte(body), 0o644))
	return file
}

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 0.85, cfg.ROI.BottomWidth)
	assert.Equal(t, 0.07, cfg.ROI.TopWidth)
	assert.Equal(t, 0.4, cfg.ROI.Height)
	assert.Equal(t, [3]uint8{200, 200, 200}, cfg.Colors.White.Lower)
	assert.Equal(t, [3]uint8{40, 255, 255}, cfg.Colors.Yellow.Upper)
}

func TestLoadConfig(t *testing.T) {

	file := writeConfig(t, `
processWidth: 640
roi:
  bottomWidth: 0.9
  margin: -4
colors:
  yellow:
    lower: [15, 80, 80]
    upper: [35, 255, 255]
hough:
  threshold: 20
window:
  height: 30
`)

	cfg, err := LoadConfig(file)
	require.NoError(t, err)

	assert.Equal(t, 640, cfg.ProcessWidth)
	assert.Equal(t, 0.9, cfg.ROI.BottomWidth)
	assert.Equal(t, -4, cfg.ROI.Margin)
	assert.Equal(t, [3]uint8{15, 80, 80}, cfg.Colors.Yellow.Lower)
	assert.Equal(t, 20, cfg.Hough.Threshold)
	assert.Equal(t, 30, cfg.Window.Height)

	// unspecified settings keep their defaults
	assert.Equal(t, 0.07, cfg.ROI.TopWidth)
	assert.Equal(t, DefaultConfig().Colors.White, cfg.Colors.White)
	assert.Equal(t, DefaultConfig().Edges, cfg.Edges)
	assert.Equal(t, float32(40), cfg.Hough.MinLineLength)
	assert.Equal(t, 0.25, cfg.Window.WidthRatio)
}

func TestLoadConfigErrors(t *testing.T) {

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "roi: [not, a, map]"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "roi:\n  height: 1.5\n"))
	assert.ErrorIs(t, err, preprocess.ErrInvalidROI)

	_, err = LoadConfig(writeConfig(t, "colors:\n  white:\n    lower: [255, 0, 0]\n    upper: [0, 255, 255]\n"))
	assert.ErrorIs(t, err, preprocess.ErrInvalidRange)

	_, err = LoadConfig(writeConfig(t, "window:\n  widthRatio: 0\n"))
	assert.ErrorIs(t, err, tracker.ErrInvalidWindow)
}

func TestWindowParamsWindow(t *testing.T) {

	win, err := DefaultWindowParams().Window(100, 100)
	require.NoError(t, err)
	assert.Equal(t, tracker.Window{X: 38, Y: 80, Width: 25, Height: 20}, win)

	params := WindowParams{WidthRatio: 0.2, Height: 20, CenterRatio: 1}
	win, err = params.Window(100, 100)
	require.NoError(t, err)
	assert.Equal(t, tracker.Window{X: 80, Y: 80, Width: 20, Height: 20}, win)

	params.Height = 200
	_, err = params.Window(100, 100)
	assert.ErrorIs(t, err, tracker.ErrInvalidWindow)
}

func TestLoadConfigSample(t *testing.T) {

	cfg, err := LoadConfig(filepath.Join("example", "data", "lanes.yaml"))
	require.NoError(t, err)

	def := DefaultConfig()

	assert.Equal(t, 640, cfg.ProcessWidth)
	assert.Equal(t, def.Colors, cfg.Colors)
	assert.Equal(t, def.ROI, cfg.ROI)
	assert.Equal(t, def.Edges, cfg.Edges)
	assert.Equal(t, def.Window, cfg.Window)
	assert.Equal(t, def.Hough.Threshold, cfg.Hough.Threshold)
	assert.InDelta(t, def.Hough.Theta, cfg.Hough.Theta, 1e-6)
}
