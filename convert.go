package raster

import "fmt"

// channelMatrix is an out x in coefficient matrix applied to pixels with
// src source channels.
type channelMatrix struct {
	coeff   []float64
	out, in int
	ilimit  int
}

// apply computes coeff * [c..., full] where full stands in for every input
// channel the source does not have.
func (m *channelMatrix) apply(c *[MaxChannels]float64, full float64) (work [MaxChannels]float64) {
	for j := range m.out {
		row := m.coeff[m.in*j : m.in*(j+1)]
		for i := range m.ilimit {
			work[j] += row[i] * c[i]
		}
		if m.ilimit < m.in {
			work[j] += row[m.ilimit] * full
		}
	}
	return
}

// apply8 transforms an 8-bit color. Results at or above top become 255,
// everything else is truncated.
func (m *channelMatrix) apply8(c Color, top float64) (out Color) {
	var in [MaxChannels]float64
	for i := range m.ilimit {
		in[i] = float64(c[i])
	}
	work := m.apply(&in, 255.9)
	for j := range m.out {
		switch {
		case work[j] < 0:
			out[j] = 0
		case work[j] >= top:
			out[j] = 255
		default:
			out[j] = uint8(work[j])
		}
	}
	return
}

func (m *channelMatrix) applyF(c FColor) (out FColor) {
	in := [MaxChannels]float64(c)
	work := m.apply(&in, 1)
	for j := range m.out {
		out[j] = limit(work[j], 0, 1)
	}
	return
}

// Convert transforms the channels of src into dst through the coefficient
// matrix coeff, which has outChannels rows of inChannels values:
//
//	dst[x,y] = coeff * [src[x,y]..., 1]
//
// Coefficients past the source channel count multiply full intensity.
// dst is recreated when its size, channel count, storage model or palette
// capacity does not fit the result. For paletted images only the palette is
// transformed and the indexes are copied. dst and src may be the same image.
func Convert(dst, src *Image, coeff []float64, outChannels, inChannels int) error {
	Logger().Debug("convert", "dst", dst, "src", src, "outChannels", outChannels, "inChannels", inChannels)

	if outChannels > MaxChannels {
		return fmt.Errorf("%w: cannot have output channels > %d", ErrConfiguration, MaxChannels)
	}
	if outChannels < 1 || inChannels < 0 {
		return fmt.Errorf("%w: bad channel counts %d x %d", ErrInvalidArgument, outChannels, inChannels)
	}
	if len(coeff) < outChannels*inChannels {
		return fmt.Errorf("%w: need %d coefficients, got %d", ErrInvalidArgument, outChannels*inChannels, len(coeff))
	}

	// dst may have to be reshaped before src is read.
	if dst == src {
		out := new(Image)
		if err := Convert(out, src, coeff, outChannels, inChannels); err != nil {
			return err
		}
		dst.reshape(out)
		return nil
	}

	m := &channelMatrix{
		coeff:  coeff,
		out:    outChannels,
		in:     inChannels,
		ilimit: min(inChannels, src.channels),
	}
	if dst.kind == Direct || src.kind == Direct {
		return convertDirect(dst, src, m)
	}
	return convertPaletted(dst, src, m)
}

func convertDirect(dst, src *Image, m *channelMatrix) error {
	if dst.kind != Direct || dst.channels != m.out || dst.width != src.width || dst.height != src.height {
		var fresh *Image
		var err error
		if src.kind == Direct {
			fresh, err = src.SameKindChannels(src.width, src.height, m.out)
		} else {
			fresh, err = New(src.width, src.height, m.out)
		}
		if err != nil {
			return err
		}
		dst.reshape(fresh)
	}

	w := src.width
	if dst.bits == Bits8 && src.bits == Bits8 {
		vals := make([]Color, w)
		for y := range src.height {
			src.Row(0, w, y, vals)
			for x := range vals {
				vals[x] = m.apply8(vals[x], 256)
			}
			dst.SetRow(0, w, y, vals)
		}
		return nil
	}

	vals := make([]FColor, w)
	for y := range src.height {
		src.RowF(0, w, y, vals)
		for x := range vals {
			vals[x] = m.applyF(vals[x])
		}
		dst.SetRowF(0, w, y, vals)
	}
	return nil
}

func convertPaletted(dst, src *Image, m *channelMatrix) error {
	if dst.channels != m.out || dst.width != src.width || dst.height != src.height ||
		dst.MaxColors() < src.ColorCount() {
		fresh, err := NewPaletted(src.width, src.height, m.out, src.MaxColors())
		if err != nil {
			return err
		}
		dst.reshape(fresh)
	}

	colors := src.Palette()
	for i := range colors {
		colors[i] = m.apply8(colors[i], 255)
	}
	if outCount := dst.ColorCount(); len(colors) < outCount {
		dst.SetColors(0, colors)
	} else {
		dst.SetColors(0, colors[:outCount])
		dst.AddColors(colors[outCount:]...)
	}

	vals := make([]uint8, src.width)
	for y := range src.height {
		src.Indexes(0, src.width, y, vals)
		dst.SetIndexes(0, src.width, y, vals)
	}
	return nil
}
