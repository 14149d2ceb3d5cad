package raster

import (
	"fmt"
	"math"
)

// Background is the color of destination pixels that have no source pixel.
// When both fields are set, Color is used for 8-bit and paletted images and
// FColor for floating point images. When neither is set the background is
// zero in every channel.
type Background struct {
	Color  *Color
	FColor *FColor
}

func (bg *Background) color(channels int) (c Color) {
	switch {
	case bg == nil:
	case bg.Color != nil:
		c = *bg.Color
	case bg.FColor != nil:
		for ch := range channels {
			f := bg.FColor[ch]
			switch {
			case f < 0:
				c[ch] = 0
			case f > 1:
				c[ch] = 255
			default:
				c[ch] = uint8(f * 255)
			}
		}
	}
	return
}

func (bg *Background) fcolor(channels int) (c FColor) {
	switch {
	case bg == nil:
	case bg.FColor != nil:
		c = *bg.FColor
	case bg.Color != nil:
		for ch := range channels {
			c[ch] = float64(bg.Color[ch]) / 255
		}
	}
	return
}

// MatrixTransform returns a width x height image of the same kind as src
// where each pixel (x, y) is sampled from src at m applied to (x, y).
//
// Direct images are sampled with bilinear interpolation; when the image has
// an alpha channel, color channels are weighted by alpha so that transparent
// pixels do not bleed into their neighbors. Paletted images use the nearest
// pixel. Pixels mapped outside src, or where m degenerates, get the
// background color; a paletted image gets the palette entry closest to it.
func MatrixTransform(src *Image, width, height int, m Matrix, bg *Background) (*Image, error) {
	Logger().Debug("matrix transform", "src", src, "width", width, "height", height, "matrix", m)

	dst, err := src.SameKind(width, height)
	if err != nil {
		return nil, fmt.Errorf("matrix transform: %w", err)
	}

	switch {
	case src.kind == Paletted:
		transformPaletted(src, dst, m, bg)
	case src.bits == Bits8:
		transformDirect[Color](src, dst, m, bg.color(src.channels), (*Image).Row, (*Image).SetRow, interpColor)
	default:
		transformDirect[FColor](src, dst, m, bg.fcolor(src.channels), (*Image).RowF, (*Image).SetRowF, interpFColor)
	}
	return dst, nil
}

// RotateExact rotates src clockwise by angle radians about its center onto
// a canvas large enough to hold the whole result.
func RotateExact(src *Image, angle float64, bg *Background) (*Image, error) {
	m, width, height := RotateMatrix(src.width, src.height, angle)
	return MatrixTransform(src, width, height, m, bg)
}

// sampler fetches single source pixels, substituting the background for
// pixels that cannot be read.
type sampler[T any] struct {
	src  *Image
	get  rowFunc[T]
	back T
	one  []T
}

func (s *sampler[T]) at(x, y int) T {
	if s.get(s.src, x, x+1, y, s.one) == 1 {
		return s.one[0]
	}
	return s.back
}

func transformDirect[T Color | FColor](
	src, dst *Image, m Matrix, back T,
	get, put rowFunc[T],
	interp func(before, after T, pos float64, channels int) T,
) {
	s := &sampler[T]{src: src, get: get, back: back, one: make([]T, 1)}
	w, h := float64(src.width), float64(src.height)
	channels := src.channels

	vals := make([]T, dst.width)
	for y := range dst.height {
		for x := range dst.width {
			sx, sy, ok := m.Apply(float64(x), float64(y))
			if !ok || sx < -1 || sx >= w || sy < -1 || sy >= h {
				vals[x] = back
				continue
			}

			fx, fy := math.Floor(sx), math.Floor(sy)
			ix, iy := int(fx), int(fy)
			switch xfrac, yfrac := sx != math.Trunc(sx), sy != math.Trunc(sy); {
			case xfrac && yfrac:
				top := interp(s.at(ix, iy), s.at(ix+1, iy), sx, channels)
				bottom := interp(s.at(ix, iy+1), s.at(ix+1, iy+1), sx, channels)
				vals[x] = interp(top, bottom, sy, channels)
			case xfrac:
				vals[x] = interp(s.at(ix, int(sy)), s.at(ix+1, int(sy)), sx, channels)
			case yfrac:
				vals[x] = interp(s.at(int(sx), iy), s.at(int(sx), iy+1), sy, channels)
			default:
				vals[x] = s.at(int(sx), int(sy))
			}
		}
		put(dst, 0, dst.width, y, vals)
	}
}

func transformPaletted(src, dst *Image, m Matrix, bg *Background) {
	var back uint8
	if p := src.pal(); len(p.palette) > 0 {
		back = uint8(p.nearestColor(bg.color(src.channels)))
	}

	w, h := float64(src.width), float64(src.height)
	vals := make([]uint8, dst.width)
	for y := range dst.height {
		for x := range dst.width {
			sx, sy, ok := m.Apply(float64(x), float64(y))
			if !ok || sx < -0.5 || sx >= w-0.5 || sy < -0.5 || sy >= h-0.5 {
				vals[x] = back
				continue
			}
			ix, iy := int(sx+0.5), int(sy+0.5)
			if src.Indexes(ix, ix+1, iy, vals[x:x+1]) != 1 {
				vals[x] = back
			}
		}
		dst.SetIndexes(0, dst.width, y, vals)
	}
}

// interpColor blends two 8-bit colors, pos being the weight of after.
// Only the fractional part of pos is used.
func interpColor(before, after Color, pos float64, channels int) (out Color) {
	pos -= math.Floor(pos)
	if channels == 1 || channels == 3 {
		for ch := range channels {
			out[ch] = uint8((1-pos)*float64(before[ch]) + pos*float64(after[ch]))
		}
		return
	}

	alpha := channels - 1
	cover := limit(int((1-pos)*float64(before[alpha])+pos*float64(after[alpha])), 0, 255)
	if cover != 0 {
		beforeAlpha := float64(before[alpha]) / 255
		afterAlpha := float64(after[alpha]) / 255
		totalAlpha := beforeAlpha*(1-pos) + afterAlpha*pos
		for ch := range alpha {
			level := ((1-pos)*float64(before[ch])*beforeAlpha + pos*float64(after[ch])*afterAlpha) / totalAlpha
			out[ch] = uint8(limit(int(level+0.5), 0, 255))
		}
	}
	out[alpha] = uint8(cover)
	return
}

// interpFColor is interpColor for floating point colors.
func interpFColor(before, after FColor, pos float64, channels int) (out FColor) {
	pos -= math.Floor(pos)
	if channels == 1 || channels == 3 {
		for ch := range channels {
			out[ch] = (1-pos)*before[ch] + pos*after[ch]
		}
		return
	}

	alpha := channels - 1
	cover := limit((1-pos)*before[alpha]+pos*after[alpha], 0, 1)
	if cover != 0 {
		totalAlpha := before[alpha]*(1-pos) + after[alpha]*pos
		for ch := range alpha {
			level := ((1-pos)*before[ch]*before[alpha] + pos*after[ch]*after[alpha]) / totalAlpha
			out[ch] = limit(level, 0, 1)
		}
	}
	out[alpha] = cover
	return
}
