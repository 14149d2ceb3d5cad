package raster

import (
	"fmt"

	"github.com/disintegration/imaging"
)

// ResizeOption is resize option
type ResizeOption struct {
	Width   int
	Height  int
	Percent float64
}

// Resize resizes img with the Lanczos filter. If one of width or height is
// 0, the image aspect ratio is preserved; if both are 0, Percent applies.
// The result is an 8-bit direct image with the channel count of img.
func Resize(img *Image, option *ResizeOption) (*Image, error) {
	return option.do(img)
}

func (r *ResizeOption) do(base *Image) (*Image, error) {
	width, height := r.Width, r.Height
	if width == 0 && height == 0 {
		width = int(float64(base.width) * r.Percent / 100)
	}
	if width < 0 || height < 0 || (width == 0 && height == 0) {
		return nil, fmt.Errorf("%w: bad resize %dx%d", ErrInvalidArgument, r.Width, r.Height)
	}

	resized, err := FromImage(imaging.Resize(base.ToImage(), width, height, imaging.Lanczos))
	if err != nil {
		return nil, err
	}
	if resized.channels == base.channels {
		return resized, nil
	}

	// Resized images come back as RGBA; select the channels of base.
	var coeff []float64
	switch base.channels {
	case 1:
		coeff = []float64{1, 0, 0, 0}
	case 2:
		coeff = []float64{1, 0, 0, 0, 0, 0, 0, 1}
	default:
		coeff = []float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0}
	}
	dst := new(Image)
	if err := Convert(dst, resized, coeff, base.channels, 4); err != nil {
		return nil, err
	}
	return dst, nil
}
