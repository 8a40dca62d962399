package render

import (
	"fmt"
	"image/color"

	"gocv.io/x/gocv"
)

// MaskOverlay tints the pixels of the BGR image where the single channel mask
// is nonzero, blending the given color in with alpha transparency.  Used to
// show the lane pixels that survived the filter and region of interest.
func MaskOverlay(img *gocv.Mat, mask gocv.Mat, clr color.RGBA, alpha float32) error {

	// get dimensions
	width := img.Cols()
	height := img.Rows()

	if mask.Cols() != width || mask.Rows() != height || mask.Channels() != 1 ||
		img.Channels() != 3 {
		return fmt.Errorf("mask overlay: mask %dx%dx%d does not fit image %dx%dx%d",
			mask.Cols(), mask.Rows(), mask.Channels(), width, height, img.Channels())
	}

	// it is too slow to manipulate pixel by pixel using GoCV due to slowness
	// over CGO.  So we copy the bytes from the source image and manipulate
	// the bytes directly before copying back to a Mat
	imgData := img.ToBytes()
	maskData := mask.ToBytes()

	for j := 0; j < height; j++ {
		for k := 0; k < width; k++ {

			if maskData[j*width+k] == 0 {
				continue
			}

			// calculate position in the byte slice
			pixelPos := j*width*3 + k*3

			// get original pixel colors directly from the byte slice
			b, g, r := imgData[pixelPos+0], imgData[pixelPos+1], imgData[pixelPos+2]

			// calculate blended colors based on alpha transparency
			imgData[pixelPos+0] = uint8(float32(b)*(1-alpha) + float32(clr.B)*alpha)
			imgData[pixelPos+1] = uint8(float32(g)*(1-alpha) + float32(clr.G)*alpha)
			imgData[pixelPos+2] = uint8(float32(r)*(1-alpha) + float32(clr.R)*alpha)
		}
	}

	// copy back to the original mat
	tmpImg, err := gocv.NewMatFromBytes(height, width, gocv.MatTypeCV8UC3, imgData)

	if err != nil {
		return fmt.Errorf("mask overlay: %w", err)
	}

	defer tmpImg.Close()
	tmpImg.CopyTo(img)

	return nil
}
