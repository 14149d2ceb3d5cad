package raster

import (
	"errors"
	"fmt"
	"image"
)

// SplitMode defines the mode in which the image will be split
type SplitMode int

const (
	// SplitHorizontalMode splits the image horizontally
	SplitHorizontalMode SplitMode = iota
	// SplitVerticalMode splits the image vertically
	SplitVerticalMode
)

func split(base image.Rectangle, n int, mode SplitMode) (rects []image.Rectangle) {
	var width, height int
	if mode == SplitHorizontalMode {
		width = base.Dx() / n
		height = base.Dy()
	} else {
		width = base.Dx()
		height = base.Dy() / n
	}
	if width == 0 || height == 0 {
		return
	}
	for i := range n {
		var r image.Rectangle
		if mode == SplitHorizontalMode {
			r = image.Rect(
				base.Min.X+width*i, base.Min.Y,
				base.Min.X+width*(i+1), base.Min.Y+height,
			)
		} else {
			r = image.Rect(
				base.Min.X, base.Min.Y+height*i,
				base.Min.X+width, base.Min.Y+height*(i+1),
			)
		}
		rects = append(rects, r)
	}
	return
}

// Crop returns a copy of the part of img inside r.
func (img *Image) Crop(r image.Rectangle) (*Image, error) {
	if !r.In(img.Bounds()) || r.Empty() {
		return nil, fmt.Errorf("%w: crop %v outside of %v", ErrInvalidArgument, r, img.Bounds())
	}
	dst, err := img.SameKind(r.Dx(), r.Dy())
	if err != nil {
		return nil, err
	}
	switch {
	case img.kind == Paletted:
		copyRows[uint8](dst, img, r.Min.X, r.Min.Y, (*Image).Indexes, (*Image).SetIndexes)
	case img.bits == Bits8:
		copyRows[Color](dst, img, r.Min.X, r.Min.Y, (*Image).Row, (*Image).SetRow)
	default:
		copyRows[FColor](dst, img, r.Min.X, r.Min.Y, (*Image).RowF, (*Image).SetRowF)
	}
	return dst, nil
}

// Split splits an image into n smaller images based on the specified split mode.
// If n is less than 1, or the image cannot be split, it returns an error.
func Split(base *Image, n int, mode SplitMode) (imgs []*Image, err error) {
	if n < 1 {
		return nil, errors.New("invalid number of parts: must be at least 1")
	}
	rects := split(base.Bounds(), n, mode)
	if len(rects) == 0 {
		return nil, errors.New("failed to split the image: invalid dimensions or n is too large")
	}
	for _, rect := range rects {
		img, err := base.Crop(rect)
		if err != nil {
			return nil, err
		}
		imgs = append(imgs, img)
	}
	return
}

// SplitHorizontal splits an image into n parts horizontally.
func SplitHorizontal(base *Image, n int) ([]*Image, error) {
	return Split(base, n, SplitHorizontalMode)
}

// SplitVertical splits an image into n parts vertically.
func SplitVertical(base *Image, n int) ([]*Image, error) {
	return Split(base, n, SplitVerticalMode)
}
