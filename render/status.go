package render

import (
	"image"

	"gocv.io/x/gocv"
)

// Status blanks out a banner across the top of the image and writes one line
// of text per entry on it
func Status(img *gocv.Mat, lines []string, font Font) {

	if len(lines) == 0 {
		return
	}

	lineHeight := gocv.GetTextSize("Ag", font.Face, font.Scale, font.Thickness).Y +
		font.TopPad + font.BottomPad

	// blank out background video
	rect := image.Rect(0, 0, img.Cols(), lineHeight*len(lines))
	gocv.Rectangle(img, rect, font.Background, -1)

	for i, text := range lines {
		pos := image.Pt(font.LeftPad, (i+1)*lineHeight-font.BottomPad)

		gocv.PutTextWithParams(img, text, pos, font.Face, font.Scale, font.Color,
			font.Thickness, font.LineType, false)
	}
}
