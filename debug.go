package faceeval

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// DebugSink receives the intermediate images produced during the evaluation.
// Implementations must be safe for concurrent use when the same sink is
// shared between pipelines running in parallel.
type DebugSink interface {
	Show(name string, img image.Image)
}

var (
	markerColor    = color.NRGBA{R: 0xff, A: 0xff}
	highlightColor = color.NRGBA{G: 0xff, A: 0xff}
	surfaceColor   = color.NRGBA{A: 0xff}
)

// DirSink saves every received image as a numbered PNG file into a directory.
type DirSink struct {
	Dir string
	// Logger, when set, receives a warning for every image which could not be saved.
	Logger *zap.Logger

	mu  sync.Mutex
	seq int
}

var _ DebugSink = (*DirSink)(nil)

// NewDirSink creates the destination directory if it does not exist.
func NewDirSink(dir string) (*DirSink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "unable to create the debug directory %s", dir)
	}
	return &DirSink{Dir: dir}, nil
}

// Show writes the image to disk. Failures are logged only, the debug output
// has no influence on the evaluation result. A nil sink discards the image.
func (s *DirSink) Show(name string, img image.Image) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	fname := filepath.Join(s.Dir, fmt.Sprintf("%04d_%s.png", s.seq, name))
	if err := imaging.Save(img, fname); err != nil && s.Logger != nil {
		s.Logger.Warn("unable to save the debug image",
			zap.String("file", fname),
			zap.Error(err),
		)
	}
}

// Annotate draws the bounding box and the landmark points over a copy of the image.
// The left eye and the left mouth corner are marked in a distinct color.
func Annotate(src image.Image, box BoundingBox, lm Landmarks) *image.NRGBA {
	dst := imaging.Clone(src)
	drawRect(dst, box.Rect(), 2, markerColor)

	for i, pt := range lm {
		col := markerColor
		if i == LeftEyeIdx || i == MouthLeftIdx {
			col = highlightColor
		}
		drawCircle(dst, pt, 2, col)
	}
	return dst
}

// annotateSurface marks the remapped landmarks on a copy of the intrinsic surface.
func annotateSurface(in *Intrinsic) *image.NRGBA {
	dst := imaging.Clone(in.Surface)
	for _, pt := range in.Landmarks {
		drawCircle(dst, pt, 5, surfaceColor)
	}
	return dst
}

// drawRect draws the outline of the rectangle with the given line thickness.
func drawRect(dst draw.Image, r image.Rectangle, thickness int, col color.Color) {
	uni := image.NewUniform(col)
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+thickness),
		image.Rect(r.Min.X, r.Max.Y-thickness, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+thickness, r.Max.Y),
		image.Rect(r.Max.X-thickness, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(dst, e.Intersect(dst.Bounds()), uni, image.Point{}, draw.Src)
	}
}

// drawCircle draws a filled circle centered at pt.
func drawCircle(dst draw.Image, pt image.Point, radius int, col color.Color) {
	b := dst.Bounds()
	for y := -radius; y <= radius; y++ {
		for x := -radius; x <= radius; x++ {
			if x*x+y*y > radius*radius {
				continue
			}
			p := pt.Add(image.Pt(x, y))
			if p.In(b) {
				dst.Set(p.X, p.Y, col)
			}
		}
	}
}
