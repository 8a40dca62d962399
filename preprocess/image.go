package preprocess

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"
)

var (
	// ErrEmptyImage is returned when a stage is given a Mat with no pixels
	ErrEmptyImage = errors.New("image is empty or has non-positive dimensions")
	// ErrChannels is returned when a Mat has the wrong number of channels or
	// is not 8 bit per channel
	ErrChannels = errors.New("unsupported image type")
	// ErrInvalidRange is returned when a color range has lower > upper
	ErrInvalidRange = errors.New("invalid color range")
	// ErrInvalidROI is returned for region of interest ratios outside [0,1]
	ErrInvalidROI = errors.New("invalid region of interest")
)

// checkImage validates the Mat is non-empty and of one of the given types
func checkImage(img gocv.Mat, types ...gocv.MatType) error {

	if img.Empty() || img.Rows() <= 0 || img.Cols() <= 0 {
		return ErrEmptyImage
	}

	for _, t := range types {
		if img.Type() == t {
			return nil
		}
	}

	return fmt.Errorf("%w: got type %d with %d channels", ErrChannels,
		int(img.Type()), img.Channels())
}
