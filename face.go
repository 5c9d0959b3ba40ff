package faceeval

import (
	"image"

	"github.com/pkg/errors"
)

// LandmarkCount is the number of facial landmarks consumed by the checks.
const LandmarkCount = 5

// ErrInvalidInput is returned when the evaluation inputs are malformed.
var ErrInvalidInput = errors.New("invalid input")

// BoundingBox locates the face in the source image. The coordinates
// are allowed to extend outside of the image.
type BoundingBox struct {
	XMin, YMin, XMax, YMax int
}

// Rect returns the box as an image.Rectangle.
func (b BoundingBox) Rect() image.Rectangle {
	return image.Rect(b.XMin, b.YMin, b.XMax, b.YMax)
}

// Add translates the box by p.
func (b BoundingBox) Add(p image.Point) BoundingBox {
	return BoundingBox{b.XMin + p.X, b.YMin + p.Y, b.XMax + p.X, b.YMax + p.Y}
}

// Sub translates the box by -p.
func (b BoundingBox) Sub(p image.Point) BoundingBox {
	return b.Add(image.Point{-p.X, -p.Y})
}

// Landmarks holds the facial keypoints in canonical order:
// left eye, right eye, nose, left mouth corner, right mouth corner.
type Landmarks [LandmarkCount]image.Point

// Landmark indexes.
const (
	LeftEyeIdx = iota
	RightEyeIdx
	NoseIdx
	MouthLeftIdx
	MouthRightIdx
)

// Add translates every landmark by p.
func (lm Landmarks) Add(p image.Point) Landmarks {
	for i := range lm {
		lm[i] = lm[i].Add(p)
	}
	return lm
}

// Sub translates every landmark by -p.
func (lm Landmarks) Sub(p image.Point) Landmarks {
	return lm.Add(image.Point{-p.X, -p.Y})
}

// NewLandmarks builds the landmark set from a slice of points.
// It fails if the slice does not hold exactly five points.
func NewLandmarks(pts []image.Point) (Landmarks, error) {
	var lm Landmarks
	if len(pts) != LandmarkCount {
		return lm, errors.Wrapf(ErrInvalidInput, "expected %d landmarks, got %d", LandmarkCount, len(pts))
	}
	copy(lm[:], pts)
	return lm, nil
}

// checkImage verifies that the image exists and has a positive area.
func checkImage(name string, img image.Image) error {
	if img == nil {
		return errors.Wrapf(ErrInvalidInput, "missing %s image", name)
	}
	if b := img.Bounds(); b.Dx() <= 0 || b.Dy() <= 0 {
		return errors.Wrapf(ErrInvalidInput, "%s image has non-positive dimensions %dx%d", name, b.Dx(), b.Dy())
	}
	return nil
}
