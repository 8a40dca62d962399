package preprocess

import (
	"image"
	"testing"

	"gocv.io/x/gocv"
)

func TestResize(t *testing.T) {

	tests := []struct {
		srcWidth       int
		srcHeight      int
		destWidth      int
		expectedWidth  int
		expectedHeight int
		expectedScale  float64
	}{
		{1280, 720, 640, 640, 360, 0.5},
		{800, 1000, 200, 200, 250, 0.25},
		{800, 800, 0, 800, 800, 1},
		{640, 480, 1280, 640, 480, 1},
	}

	for _, tc := range tests {
		img := gocv.NewMatWithSize(tc.srcHeight, tc.srcWidth, gocv.MatTypeCV8UC1)

		resizedImg := gocv.NewMat()

		resizer := NewResizer(tc.srcWidth, tc.srcHeight, tc.destWidth)

		resizer.Resize(img, &resizedImg)

		if resizedImg.Cols() != tc.expectedWidth || resizedImg.Rows() != tc.expectedHeight {
			t.Errorf("Test failed for src (%d, %d): size wrong, expected %dx%d, got %dx%d",
				tc.srcWidth, tc.srcHeight, tc.expectedWidth, tc.expectedHeight,
				resizedImg.Cols(), resizedImg.Rows())
		}

		if resizer.ScaleFactor() != tc.expectedScale {
			t.Errorf("Test failed for src (%d, %d): Scalefactor incorrect, expected %f, got %f",
				tc.srcWidth, tc.srcHeight, tc.expectedScale, resizer.ScaleFactor())
		}

		img.Close()
		resizedImg.Close()
	}
}

func TestResizerToSource(t *testing.T) {

	r := NewResizer(1280, 720, 640)

	got := r.ToSource(image.Pt(100, 50))

	if got != image.Pt(200, 100) {
		t.Errorf("expected (200,100), got %v", got)
	}

	noop := NewResizer(640, 480, 0)

	if got := noop.ToSource(image.Pt(7, 9)); got != image.Pt(7, 9) {
		t.Errorf("expected point unchanged, got %v", got)
	}
}
