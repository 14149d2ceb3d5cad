package raster

import (
	"io"
	"math"
	"path/filepath"
	"reflect"
)

var defaultFormat = FormatOption{Format: JPEG}

// ConvertOption is a channel conversion step. With Gray set the
// coefficients are chosen from the image's channel count.
type ConvertOption struct {
	Coeff       []float64
	OutChannels int
	InChannels  int
	Gray        bool
}

// RotateOption is a rotation step. Multiples of 90 degrees are exact
// quarter turns, any other angle is resampled onto a larger canvas.
type RotateOption struct {
	Degrees    float64
	Background *Background
}

// TransformOption is a matrix transform step. A zero Width or Height keeps
// that dimension of the image.
type TransformOption struct {
	Width, Height int
	Matrix        Matrix
	Background    *Background
}

// Options represents options that can be used to configure a image operation.
// Steps run in the order Flip, Channels, Resize, Rotate, Transform.
type Options struct {
	Flip      *FlipDirection
	Channels  *ConvertOption
	Resize    *ResizeOption
	Rotate    *RotateOption
	Transform *TransformOption
	Format    FormatOption
}

// NewOptions creates a new option with default setting.
func NewOptions() Options {
	return Options{Format: defaultFormat}
}

// SetFlip sets the value for the Flip field.
func (opts *Options) SetFlip(dir FlipDirection) *Options {
	opts.Flip = &dir
	return opts
}

// SetConvert sets the value for the Channels field.
func (opts *Options) SetConvert(coeff []float64, outChannels, inChannels int) *Options {
	opts.Channels = &ConvertOption{Coeff: coeff, OutChannels: outChannels, InChannels: inChannels}
	return opts
}

// SetGray sets a Channels step producing grayscale, keeping alpha.
func (opts *Options) SetGray() *Options {
	opts.Channels = &ConvertOption{Gray: true}
	return opts
}

// SetResize sets the value for the Resize field.
func (opts *Options) SetResize(width, height int, percent float64) *Options {
	opts.Resize = &ResizeOption{Width: width, Height: height, Percent: percent}
	return opts
}

// SetRotate sets the value for the Rotate field.
func (opts *Options) SetRotate(degrees float64, bg *Background) *Options {
	opts.Rotate = &RotateOption{Degrees: degrees, Background: bg}
	return opts
}

// SetTransform sets the value for the Transform field.
func (opts *Options) SetTransform(width, height int, m Matrix, bg *Background) *Options {
	opts.Transform = &TransformOption{Width: width, Height: height, Matrix: m, Background: bg}
	return opts
}

// SetFormat sets the value for the Format field.
func (opts *Options) SetFormat(f string, options ...EncodeOption) (err error) {
	opts.Format, err = setFormat(f, options...)
	return
}

// Process applies every configured step to base and returns the result.
func (opts *Options) Process(base *Image) (img *Image, err error) {
	img = base
	if opts.Flip != nil {
		if img, err = img.SameKind(img.width, img.height); err != nil {
			return
		}
		copyImage(img, base)
		if err = img.Flip(*opts.Flip); err != nil {
			return
		}
	}
	if opts.Channels != nil {
		if img, err = opts.Channels.do(img); err != nil {
			return
		}
	}
	if opts.Resize != nil {
		if img, err = opts.Resize.do(img); err != nil {
			return
		}
	}
	if opts.Rotate != nil {
		if img, err = opts.Rotate.do(img); err != nil {
			return
		}
	}
	if opts.Transform != nil {
		t := opts.Transform
		width, height := t.Width, t.Height
		if width == 0 {
			width = img.width
		}
		if height == 0 {
			height = img.height
		}
		if img, err = MatrixTransform(img, width, height, t.Matrix, t.Background); err != nil {
			return
		}
	}
	return
}

// Convert image according options opts.
func (opts *Options) Convert(w io.Writer, base *Image) error {
	img, err := opts.Process(base)
	if err != nil {
		return err
	}

	if reflect.DeepEqual(opts.Format, FormatOption{}) {
		opts.Format = defaultFormat
	}

	return opts.Format.Encode(w, img)
}

// ConvertExt convert filename's ext according image format.
func (opts *Options) ConvertExt(filename string) string {
	return filename[0:len(filename)-len(filepath.Ext(filename))] + "." + formatExts[opts.Format.Format]
}

func (c *ConvertOption) do(base *Image) (*Image, error) {
	coeff, out, in := c.Coeff, c.OutChannels, c.InChannels
	if c.Gray {
		coeff, out, in = grayMatrix(base.channels)
	}
	dst := new(Image)
	if err := Convert(dst, base, coeff, out, in); err != nil {
		return nil, err
	}
	return dst, nil
}

// grayMatrix returns luminance coefficients for an image with the given
// number of channels. Alpha is carried over.
func grayMatrix(channels int) (coeff []float64, out, in int) {
	switch channels {
	case 1:
		return []float64{1}, 1, 1
	case 2:
		return []float64{1, 0, 0, 1}, 2, 2
	case 3:
		return []float64{0.222, 0.707, 0.071}, 1, 3
	}
	return []float64{
		0.222, 0.707, 0.071, 0,
		0, 0, 0, 1,
	}, 2, 4
}

func (r *RotateOption) do(base *Image) (*Image, error) {
	degrees := math.Mod(r.Degrees, 360)
	if degrees < 0 {
		degrees += 360
	}
	switch degrees {
	case 0:
		return base, nil
	case 90, 180, 270:
		return Rotate90(base, int(degrees))
	}
	return RotateExact(base, degrees*math.Pi/180, r.Background)
}

// copyImage copies the pixels of src into dst of the same kind and size.
func copyImage(dst, src *Image) {
	switch {
	case src.kind == Paletted:
		copyRows[uint8](dst, src, 0, 0, (*Image).Indexes, (*Image).SetIndexes)
	case src.bits == Bits8:
		copyRows[Color](dst, src, 0, 0, (*Image).Row, (*Image).SetRow)
	default:
		copyRows[FColor](dst, src, 0, 0, (*Image).RowF, (*Image).SetRowF)
	}
}

// copyRows copies the rectangle of dst's size at (x0, y0) of src into dst.
func copyRows[T any](dst, src *Image, x0, y0 int, get, put rowFunc[T]) {
	vals := make([]T, dst.width)
	for y := range dst.height {
		get(src, x0, x0+dst.width, y0+y, vals)
		put(dst, 0, dst.width, y, vals)
	}
}
