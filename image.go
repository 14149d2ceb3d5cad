// Package raster is an in-memory 2D raster engine.
//
// Images either store channel samples per pixel (direct images, 8-bit or
// floating point) or an index into a bounded palette (paletted images).
// The package converts channels through coefficient matrices, rotates by
// quarter turns, and remaps pixels through 3x3 homogeneous matrices with
// bilinear interpolation.
package raster

import (
	"fmt"
	"image"
	"math"
)

// MaxChannels is the maximum number of channels an image can have.
const MaxChannels = 4

// MaxPaletteSize is the largest palette a paletted image can hold.
const MaxPaletteSize = 256

// Kind is the storage model of an image.
type Kind int

// Storage models. The zero Kind belongs to the empty zero Image, which is
// only useful as a Convert destination.
const (
	Direct Kind = iota + 1
	Paletted
)

func (k Kind) String() string {
	switch k {
	case Direct:
		return "direct"
	case Paletted:
		return "paletted"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Bits is the sample precision of an image.
type Bits int

// Sample precisions. Paletted images always report Bits8.
const (
	Bits8      Bits = 8
	BitsDouble Bits = 64
)

// Color is a pixel with 8-bit samples.
type Color [MaxChannels]uint8

// FColor is a pixel with floating point samples in the range [0, 1].
type FColor [MaxChannels]float64

// Image is a raster of width x height pixels with 1 to MaxChannels channels.
//
// An Image is not safe for concurrent mutation.
type Image struct {
	width, height int
	channels      int
	kind          Kind
	bits          Bits
	store         storage
}

func checkSize(width, height, channels, sampleSize int) error {
	if width < 1 || height < 1 {
		return fmt.Errorf("%w: image sizes must be positive, got %dx%d", ErrInvalidArgument, width, height)
	}
	if channels < 1 || channels > MaxChannels {
		return fmt.Errorf("%w: channels must be between 1 and %d, got %d", ErrInvalidArgument, MaxChannels, channels)
	}
	if width > math.MaxInt/height/channels/sampleSize {
		return fmt.Errorf("%w: integer overflow calculating image allocation", ErrAllocation)
	}
	return nil
}

// New returns a direct image with 8-bit samples.
func New(width, height, channels int) (*Image, error) {
	if err := checkSize(width, height, channels, 1); err != nil {
		return nil, err
	}
	return &Image{
		width:    width,
		height:   height,
		channels: channels,
		kind:     Direct,
		bits:     Bits8,
		store: &direct8{
			width:    width,
			channels: channels,
			pix:      make([]uint8, width*height*channels),
		},
	}, nil
}

// NewFloat returns a direct image with floating point samples.
func NewFloat(width, height, channels int) (*Image, error) {
	if err := checkSize(width, height, channels, 8); err != nil {
		return nil, err
	}
	return &Image{
		width:    width,
		height:   height,
		channels: channels,
		kind:     Direct,
		bits:     BitsDouble,
		store: &directFloat{
			width:    width,
			channels: channels,
			pix:      make([]float64, width*height*channels),
		},
	}, nil
}

// NewPaletted returns a paletted image whose palette can hold up to
// maxColors entries. The palette starts empty and every index is 0, so
// pixels read as the zero color until entries are added.
func NewPaletted(width, height, channels, maxColors int) (*Image, error) {
	if err := checkSize(width, height, channels, 1); err != nil {
		return nil, err
	}
	if maxColors < 1 || maxColors > MaxPaletteSize {
		return nil, fmt.Errorf("%w: palette size must be between 1 and %d, got %d", ErrInvalidArgument, MaxPaletteSize, maxColors)
	}
	return &Image{
		width:    width,
		height:   height,
		channels: channels,
		kind:     Paletted,
		bits:     Bits8,
		store: &paletted{
			width:     width,
			channels:  channels,
			pix:       make([]uint8, width*height),
			palette:   make([]Color, 0, maxColors),
			maxColors: maxColors,
		},
	}, nil
}

// SameKind returns a new image of the given size with the same storage
// model, precision and channel count as img. A paletted image gets a copy
// of img's palette.
func (img *Image) SameKind(width, height int) (*Image, error) {
	return img.SameKindChannels(width, height, img.channels)
}

// SameKindChannels is like SameKind but with a different channel count.
func (img *Image) SameKindChannels(width, height, channels int) (*Image, error) {
	switch {
	case img.kind == Paletted:
		p := img.store.(*paletted)
		dst, err := NewPaletted(width, height, channels, p.maxColors)
		if err != nil {
			return nil, err
		}
		dst.AddColors(p.palette...)
		return dst, nil
	case img.bits == BitsDouble:
		return NewFloat(width, height, channels)
	default:
		return New(width, height, channels)
	}
}

// reshape replaces the backing storage of img with that of fresh.
// Callers do this once before writing any pixel.
func (img *Image) reshape(fresh *Image) {
	*img = *fresh
}

// Width returns the width of the image.
func (img *Image) Width() int { return img.width }

// Height returns the height of the image.
func (img *Image) Height() int { return img.height }

// Channels returns the number of channels of the image.
func (img *Image) Channels() int { return img.channels }

// Kind returns the storage model of the image.
func (img *Image) Kind() Kind { return img.kind }

// Bits returns the sample precision of the image.
func (img *Image) Bits() Bits { return img.bits }

// Bounds returns the image rectangle, anchored at the origin.
func (img *Image) Bounds() image.Rectangle { return image.Rect(0, 0, img.width, img.height) }

func (img *Image) String() string {
	return fmt.Sprintf("%s %dx%dx%d/%d", img.kind, img.width, img.height, img.channels, img.bits)
}

//
// palette
//

func (img *Image) pal() *paletted {
	p, _ := img.store.(*paletted)
	return p
}

// ColorCount returns the number of palette entries, or 0 for a direct image.
func (img *Image) ColorCount() int {
	if p := img.pal(); p != nil {
		return len(p.palette)
	}
	return 0
}

// MaxColors returns the palette capacity, or 0 for a direct image.
func (img *Image) MaxColors() int {
	if p := img.pal(); p != nil {
		return p.maxColors
	}
	return 0
}

// Palette returns a copy of the palette.
func (img *Image) Palette() []Color {
	if p := img.pal(); p != nil {
		return append([]Color(nil), p.palette...)
	}
	return nil
}

// Colors copies palette entries starting at index start into dst.
// It fails if the range is not within the palette.
func (img *Image) Colors(start int, dst []Color) bool {
	p := img.pal()
	if p == nil || start < 0 || start+len(dst) > len(p.palette) {
		return false
	}
	copy(dst, p.palette[start:])
	return true
}

// SetColors overwrites palette entries starting at index start.
// It fails if the range is not within the palette.
func (img *Image) SetColors(start int, colors []Color) bool {
	p := img.pal()
	if p == nil || start < 0 || start+len(colors) > len(p.palette) {
		return false
	}
	for i, c := range colors {
		p.palette[start+i] = p.mask(c)
	}
	return true
}

// AddColors appends colors to the palette and returns the index of the
// first one. It fails without changes if the palette would overflow.
func (img *Image) AddColors(colors ...Color) (int, bool) {
	p := img.pal()
	if p == nil || len(p.palette)+len(colors) > p.maxColors {
		return -1, false
	}
	index := len(p.palette)
	for _, c := range colors {
		p.palette = append(p.palette, p.mask(c))
	}
	return index, true
}

// FindColor returns the index of the first palette entry equal to c.
func (img *Image) FindColor(c Color) (int, bool) {
	p := img.pal()
	if p == nil {
		return -1, false
	}
	c = p.mask(c)
	for i, e := range p.palette {
		if e == c {
			return i, true
		}
	}
	return -1, false
}

// nearestColor returns the palette index with the smallest sum of absolute
// channel differences to c. Ties go to the lowest index.
func (p *paletted) nearestColor(c Color) int {
	best, bestDist := 0, math.MaxInt
	for i, e := range p.palette {
		var dist int
		for ch := range p.channels {
			d := int(c[ch]) - int(e[ch])
			if d < 0 {
				d = -d
			}
			dist += d
		}
		if dist < bestDist {
			best, bestDist = i, dist
		}
	}
	return best
}
