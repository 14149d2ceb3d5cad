package raster

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// FromImage copies img into a new Image.
//
// *image.Paletted becomes a paletted image with 3 channels, or 4 when the
// palette has translucent entries. *image.Gray becomes a 1 channel image and
// 16-bit images become floating point images. Everything else is
// normalised to 4 channel non-premultiplied RGBA.
func FromImage(img image.Image) (*Image, error) {
	b := img.Bounds()
	switch src := img.(type) {
	case *image.Paletted:
		return fromPaletted(src)
	case *image.Gray:
		dst, err := New(b.Dx(), b.Dy(), 1)
		if err != nil {
			return nil, err
		}
		d := dst.store.(*direct8)
		for y := range b.Dy() {
			i := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(d.pix[y*d.width:(y+1)*d.width], src.Pix[i:i+b.Dx()])
		}
		return dst, nil
	case *image.Gray16:
		dst, err := NewFloat(b.Dx(), b.Dy(), 1)
		if err != nil {
			return nil, err
		}
		row := make([]FColor, b.Dx())
		for y := range b.Dy() {
			for x := range row {
				row[x] = FColor{float64(src.Gray16At(b.Min.X+x, b.Min.Y+y).Y) / 0xffff}
			}
			dst.SetRowF(0, len(row), y, row)
		}
		return dst, nil
	case *image.NRGBA64, *image.RGBA64:
		dst, err := NewFloat(b.Dx(), b.Dy(), 4)
		if err != nil {
			return nil, err
		}
		row := make([]FColor, b.Dx())
		for y := range b.Dy() {
			for x := range row {
				c := color.NRGBA64Model.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA64)
				row[x] = FColor{
					float64(c.R) / 0xffff,
					float64(c.G) / 0xffff,
					float64(c.B) / 0xffff,
					float64(c.A) / 0xffff,
				}
			}
			dst.SetRowF(0, len(row), y, row)
		}
		return dst, nil
	}

	src := imaging.Clone(img)
	dst, err := New(src.Rect.Dx(), src.Rect.Dy(), 4)
	if err != nil {
		return nil, err
	}
	copy(dst.store.(*direct8).pix, src.Pix)
	return dst, nil
}

func fromPaletted(src *image.Paletted) (*Image, error) {
	b := src.Bounds()
	channels := 3
	palette := make([]Color, len(src.Palette))
	for i, c := range src.Palette {
		n := color.NRGBAModel.Convert(c).(color.NRGBA)
		palette[i] = Color{n.R, n.G, n.B, n.A}
		if n.A != 0xff {
			channels = 4
		}
	}

	dst, err := NewPaletted(b.Dx(), b.Dy(), channels, max(len(palette), 1))
	if err != nil {
		return nil, err
	}
	dst.AddColors(palette...)
	for y := range b.Dy() {
		i := src.PixOffset(b.Min.X, b.Min.Y+y)
		dst.SetIndexes(0, b.Dx(), y, src.Pix[i:i+b.Dx()])
	}
	return dst, nil
}

// nrgba maps the channels of c to a color.NRGBA: 1 channel is gray, 2 is
// gray and alpha, 3 is RGB and 4 is RGBA.
func nrgba(c Color, channels int) color.NRGBA {
	switch channels {
	case 1:
		return color.NRGBA{c[0], c[0], c[0], 0xff}
	case 2:
		return color.NRGBA{c[0], c[0], c[0], c[1]}
	case 3:
		return color.NRGBA{c[0], c[1], c[2], 0xff}
	}
	return color.NRGBA{c[0], c[1], c[2], c[3]}
}

func nrgba64(c FColor, channels int) color.NRGBA64 {
	s := func(f float64) uint16 { return uint16(limit(f*0xffff+0.5, 0, 0xffff)) }
	switch channels {
	case 1:
		return color.NRGBA64{s(c[0]), s(c[0]), s(c[0]), 0xffff}
	case 2:
		return color.NRGBA64{s(c[0]), s(c[0]), s(c[0]), s(c[1])}
	case 3:
		return color.NRGBA64{s(c[0]), s(c[1]), s(c[2]), 0xffff}
	}
	return color.NRGBA64{s(c[0]), s(c[1]), s(c[2]), s(c[3])}
}

// ToImage copies img into a standard library image: *image.Paletted for
// paletted images, *image.Gray for 1 channel 8-bit images, *image.NRGBA64
// for floating point images and *image.NRGBA otherwise.
func (img *Image) ToImage() image.Image {
	r := img.Bounds()
	switch {
	case img.kind == Paletted:
		p := img.pal()
		palette := make(color.Palette, len(p.palette))
		for i, c := range p.palette {
			palette[i] = nrgba(c, img.channels)
		}
		if len(palette) == 0 {
			// Every index is 0 and reads as the zero color.
			palette = color.Palette{nrgba(Color{}, img.channels)}
		}
		dst := image.NewPaletted(r, palette)
		copy(dst.Pix, p.pix)
		return dst
	case img.bits == BitsDouble:
		dst := image.NewNRGBA64(r)
		row := make([]FColor, img.width)
		for y := range img.height {
			img.RowF(0, img.width, y, row)
			for x, c := range row {
				dst.SetNRGBA64(x, y, nrgba64(c, img.channels))
			}
		}
		return dst
	case img.channels == 1:
		dst := image.NewGray(r)
		copy(dst.Pix, img.store.(*direct8).pix)
		return dst
	}

	dst := image.NewNRGBA(r)
	row := make([]Color, img.width)
	for y := range img.height {
		img.Row(0, img.width, y, row)
		for x, c := range row {
			dst.SetNRGBA(x, y, nrgba(c, img.channels))
		}
	}
	return dst
}
