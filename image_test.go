package raster

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// newImage returns an 8-bit direct image filled row by row with pix.
func newImage(t *testing.T, width, height, channels int, pix ...Color) *Image {
	t.Helper()
	img, err := New(width, height, channels)
	if err != nil {
		t.Fatal(err)
	}
	for y := range height {
		if n := img.SetRow(0, width, y, pix[y*width:(y+1)*width]); n != width {
			t.Fatalf("SetRow wrote %d pixels, want %d", n, width)
		}
	}
	return img
}

// newFloatImage is newImage for floating point images.
func newFloatImage(t *testing.T, width, height, channels int, pix ...FColor) *Image {
	t.Helper()
	img, err := NewFloat(width, height, channels)
	if err != nil {
		t.Fatal(err)
	}
	for y := range height {
		img.SetRowF(0, width, y, pix[y*width:(y+1)*width])
	}
	return img
}

// newPalettedImage returns a paletted image with the given palette and
// indexes.
func newPalettedImage(t *testing.T, width, height, channels int, palette []Color, index ...uint8) *Image {
	t.Helper()
	img, err := NewPaletted(width, height, channels, MaxPaletteSize)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := img.AddColors(palette...); !ok {
		t.Fatal("AddColors failed")
	}
	for y := range height {
		if n := img.SetIndexes(0, width, y, index[y*width:(y+1)*width]); n != width {
			t.Fatalf("SetIndexes wrote %d pixels, want %d", n, width)
		}
	}
	return img
}

func pixels(img *Image) []Color {
	var pix []Color
	row := make([]Color, img.Width())
	for y := range img.Height() {
		img.Row(0, img.Width(), y, row)
		pix = append(pix, row...)
	}
	return pix
}

func fpixels(img *Image) []FColor {
	var pix []FColor
	row := make([]FColor, img.Width())
	for y := range img.Height() {
		img.RowF(0, img.Width(), y, row)
		pix = append(pix, row...)
	}
	return pix
}

func indexes(img *Image) []uint8 {
	var pix []uint8
	row := make([]uint8, img.Width())
	for y := range img.Height() {
		img.Indexes(0, img.Width(), y, row)
		pix = append(pix, row...)
	}
	return pix
}

// compare fails unless the two images have the same shape and pixels.
func compare(t *testing.T, want, got *Image) {
	t.Helper()
	if want.String() != got.String() {
		t.Fatalf("wrong image: want %s, got %s", want, got)
	}
	var diff string
	switch {
	case want.Kind() == Paletted:
		diff = cmp.Diff(want.Palette(), got.Palette()) + cmp.Diff(indexes(want), indexes(got))
	case want.Bits() == BitsDouble:
		diff = cmp.Diff(fpixels(want), fpixels(got))
	default:
		diff = cmp.Diff(pixels(want), pixels(got))
	}
	if diff != "" {
		t.Fatalf("pixels differ (-want +got):\n%s", diff)
	}
}

func TestNew(t *testing.T) {
	for i, tc := range []struct {
		width, height, channels int
		want                    error
	}{
		{1, 1, 1, nil},
		{10, 20, MaxChannels, nil},
		{0, 1, 1, ErrInvalidArgument},
		{1, -1, 1, ErrInvalidArgument},
		{1, 1, 0, ErrInvalidArgument},
		{1, 1, MaxChannels + 1, ErrInvalidArgument},
		{1 << 40, 1 << 40, 1, ErrAllocation},
	} {
		_, err := New(tc.width, tc.height, tc.channels)
		if !errors.Is(err, tc.want) {
			t.Errorf("#%d: want %v, got %v", i, tc.want, err)
		}
		_, err = NewFloat(tc.width, tc.height, tc.channels)
		if !errors.Is(err, tc.want) {
			t.Errorf("#%d float: want %v, got %v", i, tc.want, err)
		}
	}

	if _, err := NewPaletted(1, 1, 3, 0); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("palette size 0: want ErrInvalidArgument, got %v", err)
	}
	if _, err := NewPaletted(1, 1, 3, MaxPaletteSize+1); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("palette size %d: want ErrInvalidArgument, got %v", MaxPaletteSize+1, err)
	}
}

func TestSameKind(t *testing.T) {
	palette := []Color{{1, 2, 3}, {4, 5, 6}}
	p := newPalettedImage(t, 2, 1, 3, palette, 0, 1)
	dst, err := p.SameKind(5, 7)
	if err != nil {
		t.Fatal(err)
	}
	if dst.Kind() != Paletted || dst.Width() != 5 || dst.Height() != 7 || dst.MaxColors() != MaxPaletteSize {
		t.Fatalf("unexpected image %s", dst)
	}
	if diff := cmp.Diff(palette, dst.Palette()); diff != "" {
		t.Errorf("palette not copied (-want +got):\n%s", diff)
	}

	f, _ := NewFloat(1, 1, 2)
	if dst, _ := f.SameKindChannels(3, 3, 4); dst.Bits() != BitsDouble || dst.Channels() != 4 {
		t.Errorf("unexpected image %s", dst)
	}
}

func TestRowClipping(t *testing.T) {
	img := newImage(t, 3, 2, 1, Color{1}, Color{2}, Color{3}, Color{4}, Color{5}, Color{6})
	buf := make([]Color, 5)
	for i, tc := range []struct {
		x0, x1, y int
		want      int
	}{
		{0, 3, 0, 3},
		{1, 5, 1, 2},
		{-1, 2, 0, 0},
		{3, 4, 0, 0},
		{0, 3, 2, 0},
		{0, 3, -1, 0},
		{2, 1, 0, 0},
	} {
		if n := img.Row(tc.x0, tc.x1, tc.y, buf); n != tc.want {
			t.Errorf("#%d: Row returned %d, want %d", i, n, tc.want)
		}
	}
	if n := img.Row(0, 3, 0, buf[:1]); n != 1 {
		t.Errorf("short buffer: Row returned %d, want 1", n)
	}
	if n := img.Row(1, 3, 1, buf); n != 2 || buf[0] != (Color{5}) || buf[1] != (Color{6}) {
		t.Errorf("Row(1, 3, 1) = %d %v", n, buf[:2])
	}
	if n := img.Indexes(0, 3, 0, make([]uint8, 3)); n != 0 {
		t.Errorf("Indexes on a direct image returned %d", n)
	}
}

func TestSampleConversion(t *testing.T) {
	img := newImage(t, 2, 1, 2, Color{0, 255}, Color{51, 102})
	want := []FColor{{0, 1}, {0.2, 0.4}}
	if diff := cmp.Diff(want, fpixels(img)); diff != "" {
		t.Errorf("RowF (-want +got):\n%s", diff)
	}

	f := newFloatImage(t, 3, 1, 1, FColor{-1}, FColor{0.5}, FColor{2})
	if diff := cmp.Diff([]Color{{0}, {128}, {255}}, pixels(f)); diff != "" {
		t.Errorf("Row on float image (-want +got):\n%s", diff)
	}

	if !img.SetPixelF(1, 0, FColor{1, 0.5}) {
		t.Fatal("SetPixelF failed")
	}
	if c, ok := img.Pixel(1, 0); !ok || c != (Color{255, 128}) {
		t.Errorf("Pixel(1, 0) = %v, %v", c, ok)
	}
	if _, ok := img.Pixel(2, 0); ok {
		t.Error("Pixel outside the image want false")
	}
}

func TestPalette(t *testing.T) {
	img, err := NewPaletted(2, 2, 3, 3)
	if err != nil {
		t.Fatal(err)
	}
	if i, ok := img.AddColors(Color{255, 0, 0, 99}, Color{0, 255, 0}); !ok || i != 0 {
		t.Fatalf("AddColors = %d, %v", i, ok)
	}
	if _, ok := img.AddColors(Color{1}, Color{2}); ok {
		t.Error("AddColors past capacity want false")
	}
	if img.ColorCount() != 2 {
		t.Errorf("ColorCount = %d, want 2", img.ColorCount())
	}
	if i, ok := img.FindColor(Color{255, 0, 0}); !ok || i != 0 {
		t.Errorf("FindColor = %d, %v; samples beyond the channels are ignored", i, ok)
	}
	if !img.SetColors(1, []Color{{0, 0, 255}}) {
		t.Error("SetColors failed")
	}
	if img.SetColors(2, []Color{{0, 0, 255}}) {
		t.Error("SetColors past the palette want false")
	}
	got := make([]Color, 2)
	if !img.Colors(0, got) {
		t.Fatal("Colors failed")
	}
	if diff := cmp.Diff([]Color{{255, 0, 0}, {0, 0, 255}}, got); diff != "" {
		t.Errorf("Colors (-want +got):\n%s", diff)
	}

	// Writing colors maps them to palette entries, adding new ones while
	// there is room and using the nearest one afterwards.
	img.SetRow(0, 2, 0, []Color{{0, 0, 255}, {10, 10, 10}})
	img.SetRow(0, 2, 1, []Color{{250, 5, 5}, {10, 10, 10}})
	if diff := cmp.Diff([]uint8{1, 2, 0, 2}, indexes(img)); diff != "" {
		t.Errorf("indexes (-want +got):\n%s", diff)
	}

	if n := img.SetIndexes(0, 2, 0, []uint8{1, 3}); n != 1 {
		t.Errorf("SetIndexes with an index past the palette wrote %d, want 1", n)
	}

	direct, _ := New(1, 1, 3)
	if direct.ColorCount() != 0 || direct.MaxColors() != 0 || direct.Palette() != nil {
		t.Error("direct image has a palette")
	}
	if _, ok := direct.AddColors(Color{}); ok {
		t.Error("AddColors on a direct image want false")
	}
}

// newSample returns a width x height gradient. The alpha channel of 2 and
// 4 channel images is opaque.
func newSample(t *testing.T, width, height, channels int) *Image {
	t.Helper()
	img, err := New(width, height, channels)
	if err != nil {
		t.Fatal(err)
	}
	row := make([]Color, width)
	for y := range height {
		for x := range row {
			for ch := range channels {
				row[x][ch] = uint8((x*7 + y*13 + ch*50) % 256)
			}
			if channels%2 == 0 {
				row[x][channels-1] = 0xff
			}
		}
		img.SetRow(0, width, y, row)
	}
	return img
}
