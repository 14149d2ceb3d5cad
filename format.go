package raster

import (
	"fmt"
	"image/draw"
	_ "image/jpeg" // decode jpeg format
	"image/png"
	"io"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	_ "github.com/sunshineplan/pdf"  // decode pdf format
	_ "github.com/sunshineplan/tiff" // decode tiff format
	_ "golang.org/x/image/bmp"       // decode bmp format
	_ "golang.org/x/image/webp"      // decode webp format
)

// Format is an image file format.
type Format imaging.Format

// Image file formats.
const (
	JPEG Format = iota
	PNG
	GIF
	TIFF
	BMP
)

var formatExts = map[Format]string{
	JPEG: "jpg",
	PNG:  "png",
	GIF:  "gif",
	TIFF: "tif",
	BMP:  "bmp",
}

func (f Format) String() string {
	if ext, ok := formatExts[f]; ok {
		return ext
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// FormatFromExtension parses image format from filename extension:
// "jpg" (or "jpeg"), "png", "gif", "tif" (or "tiff") and "bmp" are supported.
func FormatFromExtension(ext string) (Format, error) {
	f, err := imaging.FormatFromExtension(strings.TrimPrefix(ext, "."))
	if err != nil {
		return -1, err
	}
	return Format(f), nil
}

// UnmarshalText implements encoding.TextUnmarshaler so a Format can be used
// with flag.TextVar.
func (f *Format) UnmarshalText(text []byte) error {
	format, err := FormatFromExtension(string(text))
	if err != nil {
		return err
	}
	*f = format
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// EncodeOption sets an optional parameter for the Encode and Save functions.
type EncodeOption imaging.EncodeOption

// Quality returns an EncodeOption that sets the output JPEG quality.
// Quality ranges from 1 to 100 inclusive, higher is better.
func Quality(quality int) EncodeOption {
	return EncodeOption(imaging.JPEGQuality(quality))
}

// GIFNumColors returns an EncodeOption that sets the maximum number of colors
// used in the GIF-encoded image. It ranges from 1 to 256. Default is 256.
func GIFNumColors(numColors int) EncodeOption {
	return EncodeOption(imaging.GIFNumColors(numColors))
}

// GIFQuantizer returns an EncodeOption that sets the quantizer that is used to produce
// a palette of the GIF-encoded image.
func GIFQuantizer(quantizer draw.Quantizer) EncodeOption {
	return EncodeOption(imaging.GIFQuantizer(quantizer))
}

// GIFDrawer returns an EncodeOption that sets the drawer that is used to convert
// the source image to the desired palette of the GIF-encoded image.
func GIFDrawer(drawer draw.Drawer) EncodeOption {
	return EncodeOption(imaging.GIFDrawer(drawer))
}

// PNGCompressionLevel returns an EncodeOption that sets the compression level
// of the PNG-encoded image. Default is png.DefaultCompression.
func PNGCompressionLevel(level png.CompressionLevel) EncodeOption {
	return EncodeOption(imaging.PNGCompressionLevel(level))
}

// FormatOption is format option
type FormatOption struct {
	Format       Format
	EncodeOption []EncodeOption
}

func setFormat(f string, options ...EncodeOption) (fo FormatOption, err error) {
	if fo.Format, err = FormatFromExtension(f); err != nil {
		return
	}
	fo.EncodeOption = options
	return
}

// Encode writes the image img to w according format option.
func (f *FormatOption) Encode(w io.Writer, img *Image) error {
	if _, ok := formatExts[f.Format]; !ok {
		return fmt.Errorf("%w: unsupported image format %d", ErrInvalidArgument, f.Format)
	}
	var opts []imaging.EncodeOption
	for _, i := range f.EncodeOption {
		opts = append(opts, imaging.EncodeOption(i))
	}
	return imaging.Encode(w, img.ToImage(), imaging.Format(f.Format), opts...)
}

type decodeConfig struct {
	autoOrientation bool
}

var defaultDecodeConfig = decodeConfig{
	autoOrientation: true,
}

// DecodeOption sets an optional parameter for the Decode and Open functions.
type DecodeOption func(*decodeConfig)

// AutoOrientation returns a DecodeOption that sets the auto-orientation mode.
// If auto-orientation is enabled, the image will be transformed after decoding
// according to the EXIF orientation tag (if present). By default it's enabled.
func AutoOrientation(enabled bool) DecodeOption {
	return func(c *decodeConfig) {
		c.autoOrientation = enabled
	}
}

// Decode reads an image from r.
// Formats registered with the image package are decoded as well.
func Decode(r io.Reader, opts ...DecodeOption) (*Image, error) {
	cfg := defaultDecodeConfig
	for _, option := range opts {
		option(&cfg)
	}

	img, err := imaging.Decode(r, imaging.AutoOrientation(cfg.autoOrientation))
	if err != nil {
		return nil, err
	}
	return FromImage(img)
}

// Open loads an image from file.
func Open(file string, opts ...DecodeOption) (*Image, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Decode(f, opts...)
}

// Write image according format option
func Write(w io.Writer, img *Image, option *FormatOption) error {
	return option.Encode(w, img)
}

// Save saves image according format option
func Save(output string, img *Image, option *FormatOption) error {
	f, err := os.Create(output)
	if err != nil {
		return err
	}
	defer f.Close()

	return option.Encode(f, img)
}
