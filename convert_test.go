package raster

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestConvertIdentity(t *testing.T) {
	src := newImage(t, 2, 2, 3, red, Color{1, 2, 3}, Color{254, 128, 7}, white)
	dst := new(Image)
	if err := Convert(dst, src, []float64{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}, 3, 3); err != nil {
		t.Fatal(err)
	}
	compare(t, src, dst)
}

func TestConvertClamp(t *testing.T) {
	src := newImage(t, 1, 1, 1, Color{1})
	fsrc := newFloatImage(t, 1, 1, 1, FColor{1})
	testCase := []struct {
		coeff []float64
		want  uint8
		fwant float64
	}{
		{[]float64{-5}, 0, 0},
		{[]float64{300}, 255, 1},
		{[]float64{0.5}, 0, 0.5},
		{[]float64{100.9}, 100, 1},
	}
	for _, tc := range testCase {
		dst := new(Image)
		if err := Convert(dst, src, tc.coeff, 1, 1); err != nil {
			t.Fatal(err)
		}
		if c, _ := dst.Pixel(0, 0); c[0] != tc.want {
			t.Errorf("coeff %v: want %d, got %d", tc.coeff, tc.want, c[0])
		}

		fdst := new(Image)
		if err := Convert(fdst, fsrc, tc.coeff, 1, 1); err != nil {
			t.Fatal(err)
		}
		if fdst.Bits() != BitsDouble {
			t.Fatalf("destination not created as float: %s", fdst)
		}
		if c, _ := fdst.PixelF(0, 0); c[0] != tc.fwant {
			t.Errorf("float coeff %v: want %g, got %g", tc.coeff, tc.fwant, c[0])
		}
	}
}

func TestConvertFullIntensity(t *testing.T) {
	// The matrix has more input channels than the source, so the last
	// column multiplies full intensity.
	src := newImage(t, 2, 1, 1, Color{0}, Color{200})
	testCase := []struct {
		coeff []float64
		want  []Color
	}{
		{[]float64{0, 1}, []Color{{255}, {255}}},
		{[]float64{0, 0.5}, []Color{{127}, {127}}},
		{[]float64{-1, 1}, []Color{{255}, {55}}},
	}
	for _, tc := range testCase {
		dst := new(Image)
		if err := Convert(dst, src, tc.coeff, 1, 2); err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(tc.want, pixels(dst)); diff != "" {
			t.Errorf("coeff %v (-want +got):\n%s", tc.coeff, diff)
		}
	}

	fsrc := newFloatImage(t, 1, 1, 1, FColor{0.25})
	dst := new(Image)
	if err := Convert(dst, fsrc, []float64{1, 0.5}, 1, 2); err != nil {
		t.Fatal(err)
	}
	if c, _ := dst.PixelF(0, 0); c[0] != 0.75 {
		t.Errorf("float full intensity: want 0.75, got %g", c[0])
	}
}

func TestConvertAddAlpha(t *testing.T) {
	src := newImage(t, 2, 1, 3, Color{10, 20, 30}, Color{40, 50, 60})
	dst := new(Image)
	if err := Convert(dst, src, []float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}, 4, 4); err != nil {
		t.Fatal(err)
	}
	if dst.Channels() != 4 {
		t.Fatalf("want 4 channels, got %d", dst.Channels())
	}
	if diff := cmp.Diff([]Color{{10, 20, 30, 255}, {40, 50, 60, 255}}, pixels(dst)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestConvertReshape(t *testing.T) {
	src := newImage(t, 3, 2, 3, make([]Color, 6)...)
	dst, err := NewFloat(1, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if err := Convert(dst, src, []float64{1, 0, 0}, 1, 3); err != nil {
		t.Fatal(err)
	}
	if dst.Width() != 3 || dst.Height() != 2 || dst.Channels() != 1 || dst.Bits() != Bits8 {
		t.Errorf("destination not reshaped: %s", dst)
	}

	// A destination of the right shape is written in place, keeping its
	// precision.
	dst, _ = NewFloat(3, 2, 1)
	if err := Convert(dst, src, []float64{0, 0, 0, 1}, 1, 4); err != nil {
		t.Fatal(err)
	}
	if dst.Bits() != BitsDouble {
		t.Errorf("destination recreated: %s", dst)
	}
	for _, c := range fpixels(dst) {
		if c[0] != 1 {
			t.Fatalf("want full intensity, got %g", c[0])
		}
	}
}

func TestConvertInPlace(t *testing.T) {
	img := newImage(t, 2, 1, 3, Color{100, 100, 100}, Color{200, 200, 200})
	if err := Convert(img, img, []float64{1, 0, 0}, 1, 3); err != nil {
		t.Fatal(err)
	}
	if img.Channels() != 1 {
		t.Fatalf("unexpected image %s", img)
	}
	if diff := cmp.Diff([]Color{{100}, {200}}, pixels(img)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	p := newPalettedImage(t, 2, 1, 3, []Color{{10, 20, 30}, {40, 50, 60}}, 1, 0)
	if err := Convert(p, p, []float64{0, 0, 1, 0, 1, 0, 1, 0, 0}, 3, 3); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]Color{{30, 20, 10}, {60, 50, 40}}, p.Palette()); diff != "" {
		t.Errorf("palette (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]uint8{1, 0}, indexes(p)); diff != "" {
		t.Errorf("indexes (-want +got):\n%s", diff)
	}

	// A failed call leaves the image alone.
	if err := Convert(img, img, []float64{1}, MaxChannels+1, 1); err == nil {
		t.Fatal("want error")
	}
	if diff := cmp.Diff([]Color{{100}, {200}}, pixels(img)); diff != "" {
		t.Errorf("image changed by a failed call (-want +got):\n%s", diff)
	}
}

func TestConvertPaletted(t *testing.T) {
	src := newPalettedImage(t, 2, 2, 3, []Color{{255, 0, 0}, {0, 0, 255}, {100, 100, 100}}, 0, 1, 2, 0)
	dst := new(Image)
	if err := Convert(dst, src, []float64{0.5, 0, 0.5}, 1, 3); err != nil {
		t.Fatal(err)
	}
	if dst.Kind() != Paletted || dst.Channels() != 1 || dst.MaxColors() != src.MaxColors() {
		t.Fatalf("unexpected destination %s", dst)
	}
	if diff := cmp.Diff([]Color{{127}, {127}, {100}}, dst.Palette()); diff != "" {
		t.Errorf("palette (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(indexes(src), indexes(dst)); diff != "" {
		t.Errorf("indexes (-want +got):\n%s", diff)
	}

	// Palette entries are clamped at 255.
	if err := Convert(dst, src, []float64{1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 2}, 4, 4); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]Color{{255, 0, 0, 255}, {0, 0, 0, 255}, {100, 0, 0, 255}}, dst.Palette()); diff != "" {
		t.Errorf("palette (-want +got):\n%s", diff)
	}
}

func TestConvertPalettedKeepsExtraEntries(t *testing.T) {
	src := newPalettedImage(t, 2, 1, 1, []Color{{10}, {20}}, 1, 0)
	dst := newPalettedImage(t, 2, 1, 1, []Color{{1}, {2}, {3}}, 2, 2)
	if err := Convert(dst, src, []float64{2}, 1, 1); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]Color{{20}, {40}, {3}}, dst.Palette()); diff != "" {
		t.Errorf("palette (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]uint8{1, 0}, indexes(dst)); diff != "" {
		t.Errorf("indexes (-want +got):\n%s", diff)
	}
}

func TestConvertErrors(t *testing.T) {
	src := newImage(t, 1, 1, 3, red)
	dst := new(Image)
	if err := Convert(dst, src, make([]float64, 15), MaxChannels+1, 3); !errors.Is(err, ErrConfiguration) {
		t.Errorf("too many output channels: want ErrConfiguration, got %v", err)
	}
	if err := Convert(dst, src, make([]float64, 3), 0, 3); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("no output channels: want ErrInvalidArgument, got %v", err)
	}
	if err := Convert(dst, src, make([]float64, 5), 2, 3); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("short matrix: want ErrInvalidArgument, got %v", err)
	}
}
