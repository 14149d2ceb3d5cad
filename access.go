package raster

import "golang.org/x/exp/constraints"

// storage is implemented by each pixel representation. Ranges passed in
// are already clipped to the image and to the length of the buffer.
type storage interface {
	row(x0, x1, y int, dst []Color)
	rowF(x0, x1, y int, dst []FColor)
	setRow(x0, x1, y int, src []Color)
	setRowF(x0, x1, y int, src []FColor)
	// indexes and setIndexes return the number of pixels processed.
	indexes(x0, x1, y int, dst []uint8) int
	setIndexes(x0, x1, y int, src []uint8) int
}

// span clips [x0, x1) on row y to the image and to n pixels.
func (img *Image) span(x0, x1, y, n int) (int, bool) {
	if y < 0 || y >= img.height || x0 < 0 || x0 >= img.width {
		return 0, false
	}
	x1 = min(x1, img.width, x0+n)
	if x1 <= x0 {
		return 0, false
	}
	return x1, true
}

// Row reads pixels [x0, x1) of row y into dst and returns the number read.
func (img *Image) Row(x0, x1, y int, dst []Color) int {
	x1, ok := img.span(x0, x1, y, len(dst))
	if !ok {
		return 0
	}
	img.store.row(x0, x1, y, dst)
	return x1 - x0
}

// RowF is like Row with floating point samples.
func (img *Image) RowF(x0, x1, y int, dst []FColor) int {
	x1, ok := img.span(x0, x1, y, len(dst))
	if !ok {
		return 0
	}
	img.store.rowF(x0, x1, y, dst)
	return x1 - x0
}

// SetRow writes src to pixels [x0, x1) of row y and returns the number
// written. On a paletted image every color is mapped to a palette entry.
func (img *Image) SetRow(x0, x1, y int, src []Color) int {
	x1, ok := img.span(x0, x1, y, len(src))
	if !ok {
		return 0
	}
	img.store.setRow(x0, x1, y, src)
	return x1 - x0
}

// SetRowF is like SetRow with floating point samples.
func (img *Image) SetRowF(x0, x1, y int, src []FColor) int {
	x1, ok := img.span(x0, x1, y, len(src))
	if !ok {
		return 0
	}
	img.store.setRowF(x0, x1, y, src)
	return x1 - x0
}

// Indexes reads the palette indexes of pixels [x0, x1) of row y.
// It returns 0 for a direct image.
func (img *Image) Indexes(x0, x1, y int, dst []uint8) int {
	x1, ok := img.span(x0, x1, y, len(dst))
	if !ok {
		return 0
	}
	return img.store.indexes(x0, x1, y, dst)
}

// SetIndexes writes palette indexes to pixels [x0, x1) of row y. Writing
// stops at the first index that is not in the palette. It returns 0 for a
// direct image.
func (img *Image) SetIndexes(x0, x1, y int, src []uint8) int {
	x1, ok := img.span(x0, x1, y, len(src))
	if !ok {
		return 0
	}
	return img.store.setIndexes(x0, x1, y, src)
}

// Pixel returns the color at (x, y).
func (img *Image) Pixel(x, y int) (Color, bool) {
	var c [1]Color
	n := img.Row(x, x+1, y, c[:])
	return c[0], n == 1
}

// SetPixel sets the color at (x, y).
func (img *Image) SetPixel(x, y int, c Color) bool {
	return img.SetRow(x, x+1, y, []Color{c}) == 1
}

// PixelF returns the floating point color at (x, y).
func (img *Image) PixelF(x, y int) (FColor, bool) {
	var c [1]FColor
	n := img.RowF(x, x+1, y, c[:])
	return c[0], n == 1
}

// SetPixelF sets the floating point color at (x, y).
func (img *Image) SetPixelF(x, y int, c FColor) bool {
	return img.SetRowF(x, x+1, y, []FColor{c}) == 1
}

//
// direct, 8 bits per sample
//

type direct8 struct {
	width, channels int
	pix             []uint8
}

func (s *direct8) offset(x, y int) int { return (y*s.width + x) * s.channels }

func (s *direct8) row(x0, x1, y int, dst []Color) {
	i := s.offset(x0, y)
	for x := range x1 - x0 {
		var c Color
		copy(c[:s.channels], s.pix[i:i+s.channels])
		dst[x] = c
		i += s.channels
	}
}

func (s *direct8) rowF(x0, x1, y int, dst []FColor) {
	i := s.offset(x0, y)
	for x := range x1 - x0 {
		var c FColor
		for ch := range s.channels {
			c[ch] = float64(s.pix[i+ch]) / 255
		}
		dst[x] = c
		i += s.channels
	}
}

func (s *direct8) setRow(x0, x1, y int, src []Color) {
	i := s.offset(x0, y)
	for x := range x1 - x0 {
		copy(s.pix[i:i+s.channels], src[x][:s.channels])
		i += s.channels
	}
}

func (s *direct8) setRowF(x0, x1, y int, src []FColor) {
	i := s.offset(x0, y)
	for x := range x1 - x0 {
		for ch := range s.channels {
			s.pix[i+ch] = sample8(src[x][ch])
		}
		i += s.channels
	}
}

func (*direct8) indexes(int, int, int, []uint8) int    { return 0 }
func (*direct8) setIndexes(int, int, int, []uint8) int { return 0 }

//
// direct, floating point samples
//

type directFloat struct {
	width, channels int
	pix             []float64
}

func (s *directFloat) offset(x, y int) int { return (y*s.width + x) * s.channels }

func (s *directFloat) row(x0, x1, y int, dst []Color) {
	i := s.offset(x0, y)
	for x := range x1 - x0 {
		var c Color
		for ch := range s.channels {
			c[ch] = sample8(s.pix[i+ch])
		}
		dst[x] = c
		i += s.channels
	}
}

func (s *directFloat) rowF(x0, x1, y int, dst []FColor) {
	i := s.offset(x0, y)
	for x := range x1 - x0 {
		var c FColor
		copy(c[:s.channels], s.pix[i:i+s.channels])
		dst[x] = c
		i += s.channels
	}
}

func (s *directFloat) setRow(x0, x1, y int, src []Color) {
	i := s.offset(x0, y)
	for x := range x1 - x0 {
		for ch := range s.channels {
			s.pix[i+ch] = float64(src[x][ch]) / 255
		}
		i += s.channels
	}
}

func (s *directFloat) setRowF(x0, x1, y int, src []FColor) {
	i := s.offset(x0, y)
	for x := range x1 - x0 {
		copy(s.pix[i:i+s.channels], src[x][:s.channels])
		i += s.channels
	}
}

func (*directFloat) indexes(int, int, int, []uint8) int    { return 0 }
func (*directFloat) setIndexes(int, int, int, []uint8) int { return 0 }

//
// paletted
//

type paletted struct {
	width, channels int
	pix             []uint8
	palette         []Color
	maxColors       int
}

// mask clears the samples beyond the channel count.
func (p *paletted) mask(c Color) Color {
	for ch := p.channels; ch < MaxChannels; ch++ {
		c[ch] = 0
	}
	return c
}

// index returns the palette entry for c, adding it when there is room.
func (p *paletted) index(c Color) uint8 {
	c = p.mask(c)
	for i, e := range p.palette {
		if e == c {
			return uint8(i)
		}
	}
	if len(p.palette) < p.maxColors {
		p.palette = append(p.palette, c)
		return uint8(len(p.palette) - 1)
	}
	return uint8(p.nearestColor(c))
}

// at returns the color of pixel i. Pixels of a palette that has not been
// filled yet read as zero.
func (p *paletted) at(i int) Color {
	if j := int(p.pix[i]); j < len(p.palette) {
		return p.palette[j]
	}
	return Color{}
}

func (p *paletted) row(x0, x1, y int, dst []Color) {
	i := y*p.width + x0
	for x := range x1 - x0 {
		dst[x] = p.at(i + x)
	}
}

func (p *paletted) rowF(x0, x1, y int, dst []FColor) {
	i := y*p.width + x0
	for x := range x1 - x0 {
		c := p.at(i + x)
		var f FColor
		for ch := range p.channels {
			f[ch] = float64(c[ch]) / 255
		}
		dst[x] = f
	}
}

func (p *paletted) setRow(x0, x1, y int, src []Color) {
	i := y*p.width + x0
	for x := range x1 - x0 {
		p.pix[i+x] = p.index(src[x])
	}
}

func (p *paletted) setRowF(x0, x1, y int, src []FColor) {
	i := y*p.width + x0
	for x := range x1 - x0 {
		var c Color
		for ch := range p.channels {
			c[ch] = sample8(src[x][ch])
		}
		p.pix[i+x] = p.index(c)
	}
}

func (p *paletted) indexes(x0, x1, y int, dst []uint8) int {
	i := y*p.width + x0
	return copy(dst[:x1-x0], p.pix[i:i+x1-x0])
}

func (p *paletted) setIndexes(x0, x1, y int, src []uint8) int {
	i := y*p.width + x0
	for x := range x1 - x0 {
		if int(src[x]) >= len(p.palette) {
			return x
		}
		p.pix[i+x] = src[x]
	}
	return x1 - x0
}

// limit clamps v to [lo, hi].
func limit[T constraints.Integer | constraints.Float](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// sample8 rounds a floating point sample to 8 bits.
func sample8(f float64) uint8 {
	return uint8(limit(f*255+0.5, 0, 255))
}
