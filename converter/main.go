package main

import (
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/sunshineplan/progressbar"
	"github.com/sunshineplan/raster"
	"github.com/sunshineplan/utils/log"
	"github.com/vharitonsky/iniflags"
	"golang.org/x/sync/errgroup"
)

var (
	src             = flag.String("src", "", "")
	dst             = flag.String("dst", "output", "")
	force           = flag.Bool("force", false, "")
	pdf             = flag.Bool("pdf", false, "")
	format          = flag.String("format", "jpg", "")
	quality         = flag.Int("quality", 75, "")
	gray            = flag.Bool("gray", false, "")
	rotate          = flag.Float64("rotate", 0, "")
	background      = flag.String("background", "", "")
	matrix          = flag.String("matrix", "", "")
	width           = flag.Int("width", 0, "")
	height          = flag.Int("height", 0, "")
	percent         = flag.Float64("percent", 0, "")
	autoOrientation = flag.Bool("auto-orientation", true, "")
	worker          = flag.Int("worker", 5, "")
	quiet           = flag.Bool("quiet", false, "")
	debug           = flag.Bool("debug", false, "")
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Usage of %s:\n", os.Args[0])
	fmt.Println(`
  --src
		source file or directory
  --dst
		destination directory (default: output)
  --force
		force overwrite (default: false)
  --pdf
		include pdf files when scanning a directory (default: false)
  --format
		output format (jpg, jpeg, png, gif, tif, tiff and bmp are supported, default: jpg)
  --quality
		set jpeg quality (range 1-100, default: 75)
  --gray
		convert to grayscale, keeping alpha (default: false)
  --rotate
		rotate clockwise by degrees; multiples of 90 are exact, other angles enlarge the canvas
  --background
		background color of uncovered pixels as hex rrggbb or rrggbbaa (default: transparent black)
  --matrix
		3x3 destination to source matrix, 9 comma separated numbers in row order
  --width
		resize width, or output width of --matrix (default: source width).
		If one of width or height is 0, the image aspect ratio is preserved.
  --height
		resize height, or output height of --matrix (default: source height).
  --percent
		resize percent, only when both of width and height are 0.
  --auto-orientation
		apply the EXIF orientation tag when decoding (default: true)
  --worker
		number of images converted at once (default: 5)
  --quiet
		do not print progress (default: false)
  --debug
		log engine operations (default: false)`)
}

func main() {
	var code int
	defer func() { os.Exit(code) }()

	self, err := os.Executable()
	if err != nil {
		log.Error("Failed to get self path", "error", err)
		code = 1
		return
	}

	flag.Usage = usage
	iniflags.SetConfigFile(filepath.Join(filepath.Dir(self), "config.ini"))
	iniflags.SetAllowMissingConfigFile(true)
	iniflags.Parse()

	if *debug {
		raster.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	task, err := newTask()
	if err != nil {
		log.Error("Bad options", "error", err)
		code = 1
		return
	}

	srcInfo, err := os.Stat(*src)
	if err != nil {
		log.Error("Failed to get source", "name", *src, "error", err)
		code = 1
		return
	}

	dstInfo, err := os.Stat(*dst)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if err := os.MkdirAll(*dst, 0755); err != nil {
				log.Error("Failed to create destination", "path", *dst, "error", err)
				code = 1
				return
			}
			dstInfo, _ = os.Stat(*dst)
		} else {
			log.Error("Failed to get destination", "name", *dst, "error", err)
			code = 1
			return
		}
	}
	if !dstInfo.Mode().IsDir() {
		log.Error("Destination is not a directory", "name", *dst)
		code = 1
		return
	}

	switch mode := srcInfo.Mode(); {
	case mode.IsDir():
		images := loadImages(*src, *pdf)
		total := len(images)
		log.Info("Scan done", "total", total)

		var converted, skipped, failed atomic.Int64
		pb := progressbar.New(total)
		if !*quiet {
			pb.Start()
		}
		var g errgroup.Group
		g.SetLimit(max(*worker, 1))
		for _, image := range images {
			g.Go(func() error {
				defer pb.Add(1)

				rel, err := filepath.Rel(*src, image)
				if err != nil {
					log.Error("Failed to get relative path", "image", image, "error", err)
					failed.Add(1)
					return nil
				}
				output := task.ConvertExt(filepath.Join(*dst, rel))
				switch err := convert(task, image, output, *force); {
				case err == nil:
					converted.Add(1)
					if *debug {
						log.Info("Converted", "image", image, "output", output)
					}
				case errors.Is(err, errSkip):
					skipped.Add(1)
					if *debug {
						log.Info("Skip", "output", output)
					}
				default:
					failed.Add(1)
				}
				return nil
			})
		}
		g.Wait()
		if !*quiet {
			pb.Done()
		}
		log.Info("Done", "converted", converted.Load(), "skipped", skipped.Load(), "failed", failed.Load())
		if failed.Load() > 0 {
			code = 1
		}

	case mode.IsRegular():
		output := task.ConvertExt(filepath.Join(*dst, filepath.Base(*src)))
		if err := convert(task, *src, output, *force); err != nil {
			if errors.Is(err, errSkip) {
				log.Error("Destination already exist", "output", output)
			}
			code = 1
			return
		}
		log.Info("Done", "output", output)

	default:
		log.Error("Unknown source", "name", *src)
		code = 1
	}
}

func newTask() (*raster.Options, error) {
	task := raster.NewOptions()
	if err := task.SetFormat(*format, raster.Quality(*quality)); err != nil {
		return nil, err
	}

	bg, err := parseBackground(*background)
	if err != nil {
		return nil, err
	}

	if *gray {
		task.SetGray()
	}
	if *matrix != "" {
		m, err := parseMatrix(*matrix)
		if err != nil {
			return nil, err
		}
		task.SetTransform(*width, *height, m, bg)
	} else if *width != 0 || *height != 0 || *percent != 0 {
		task.SetResize(*width, *height, *percent)
	}
	if *rotate != 0 {
		task.SetRotate(*rotate, bg)
	}
	return &task, nil
}

// parseBackground parses rrggbb or rrggbbaa. An empty string means no
// background.
func parseBackground(s string) (*raster.Background, error) {
	if s == "" {
		return nil, nil
	}
	b, err := hex.DecodeString(strings.TrimPrefix(s, "#"))
	if err != nil || (len(b) != 3 && len(b) != 4) {
		return nil, fmt.Errorf("bad background color %q", s)
	}
	c := raster.Color{b[0], b[1], b[2], 0xff}
	if len(b) == 4 {
		c[3] = b[3]
	}
	return &raster.Background{Color: &c}, nil
}

func parseMatrix(s string) (m raster.Matrix, err error) {
	fields := strings.Split(s, ",")
	if len(fields) != len(m) {
		return m, fmt.Errorf("matrix needs %d numbers, got %d", len(m), len(fields))
	}
	for i, f := range fields {
		if m[i], err = strconv.ParseFloat(strings.TrimSpace(f), 64); err != nil {
			return m, fmt.Errorf("bad matrix element %q: %w", f, err)
		}
	}
	return
}
