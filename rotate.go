package raster

import (
	"fmt"
	"slices"
)

// rowFunc reads or writes pixels [x0, x1) of row y, as the row methods of
// Image do.
type rowFunc[T any] func(img *Image, x0, x1, y int, buf []T) int

// Rotate90 rotates src clockwise by 90, 180 or 270 degrees and returns the
// result as a new image of the same kind. Paletted images keep their
// palette; only the indexes move.
func Rotate90(src *Image, degrees int) (*Image, error) {
	Logger().Debug("rotate90", "src", src, "degrees", degrees)

	var dst *Image
	var err error
	switch degrees {
	case 180:
		dst, err = src.SameKind(src.width, src.height)
	case 90, 270:
		dst, err = src.SameKind(src.height, src.width)
	default:
		return nil, fmt.Errorf("%w: can only rotate by 90, 180 or 270 degrees, got %d", ErrInvalidArgument, degrees)
	}
	if err != nil {
		return nil, err
	}

	switch {
	case src.kind == Paletted:
		rotate[uint8](src, dst, degrees, (*Image).Indexes, (*Image).SetIndexes)
	case src.bits == Bits8:
		rotate[Color](src, dst, degrees, (*Image).Row, (*Image).SetRow)
	default:
		rotate[FColor](src, dst, degrees, (*Image).RowF, (*Image).SetRowF)
	}
	return dst, nil
}

func rotate[T any](src, dst *Image, degrees int, get, put rowFunc[T]) {
	w, h := src.width, src.height
	vals := make([]T, w)

	if degrees == 180 {
		for y := range h {
			get(src, 0, w, y, vals)
			slices.Reverse(vals)
			put(dst, 0, w, h-y-1, vals)
		}
		return
	}

	// 90: source rows become columns from right to left.
	tx, txinc := h-1, -1
	tystart, tyinc := 0, 1
	if degrees == 270 {
		tx, txinc = 0, 1
		tystart, tyinc = w-1, -1
	}
	for y := range h {
		get(src, 0, w, y, vals)
		ty := tystart
		for x := range w {
			put(dst, tx, tx+1, ty, vals[x:x+1])
			ty += tyinc
		}
		tx += txinc
	}
}

// FlipDirection selects the axis of Flip.
type FlipDirection int

// Flip directions.
const (
	// FlipHorizontal mirrors left and right.
	FlipHorizontal FlipDirection = iota
	// FlipVertical mirrors top and bottom.
	FlipVertical
	// FlipBoth mirrors both ways, the same as a 180 degree rotation.
	FlipBoth
)

// Flip mirrors img in place.
func (img *Image) Flip(dir FlipDirection) error {
	Logger().Debug("flip", "img", img, "direction", dir)

	if dir < FlipHorizontal || dir > FlipBoth {
		return fmt.Errorf("%w: unknown flip direction %d", ErrInvalidArgument, dir)
	}
	switch {
	case img.kind == Paletted:
		flip[uint8](img, dir, (*Image).Indexes, (*Image).SetIndexes)
	case img.bits == Bits8:
		flip[Color](img, dir, (*Image).Row, (*Image).SetRow)
	default:
		flip[FColor](img, dir, (*Image).RowF, (*Image).SetRowF)
	}
	return nil
}

func flip[T any](img *Image, dir FlipDirection, get, put rowFunc[T]) {
	w, h := img.width, img.height
	top := make([]T, w)

	if dir == FlipHorizontal {
		for y := range h {
			get(img, 0, w, y, top)
			slices.Reverse(top)
			put(img, 0, w, y, top)
		}
		return
	}

	bottom := make([]T, w)
	for y := range h / 2 {
		get(img, 0, w, y, top)
		get(img, 0, w, h-y-1, bottom)
		if dir == FlipBoth {
			slices.Reverse(top)
			slices.Reverse(bottom)
		}
		put(img, 0, w, y, bottom)
		put(img, 0, w, h-y-1, top)
	}
	if dir == FlipBoth && h%2 == 1 {
		get(img, 0, w, h/2, top)
		slices.Reverse(top)
		put(img, 0, w, h/2, top)
	}
}
