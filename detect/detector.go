// Package detect locates a single face in an image and prepares the inputs
// consumed by the quality pipeline: the bounding box, the five facial
// landmarks and the aligned face crop.
package detect

import (
	"fmt"
	"image"

	"github.com/faceeval/faceeval"
	"github.com/pkg/errors"
)

var (
	// ErrNoFace is matched by the error returned when no face is found.
	ErrNoFace = errors.New("no face detected")
	// ErrMultipleFaces is matched by the error returned when more than one face is found.
	ErrMultipleFaces = errors.New("multiple faces detected")
	// ErrLandmarkNotFound is returned when a facial landmark could not be localized.
	ErrLandmarkNotFound = errors.New("facial landmark not found")
)

// Face is a single detected face.
type Face struct {
	Box       faceeval.BoundingBox
	Landmarks faceeval.Landmarks
	Aligned   *image.NRGBA
	Score     float32
}

// Detector finds exactly one face in the image. Zero and multiple
// detections are reported with a *FaceCountError.
type Detector interface {
	Detect(img image.Image) (*Face, error)
}

// FaceCountError reports a detection count other than one.
type FaceCountError struct {
	Count int
}

func (e *FaceCountError) Error() string {
	if e.Count == 0 {
		return ErrNoFace.Error()
	}
	return fmt.Sprintf("%s: %d", ErrMultipleFaces.Error(), e.Count)
}

// Is makes the error match ErrNoFace or ErrMultipleFaces.
func (e *FaceCountError) Is(target error) bool {
	switch target {
	case ErrNoFace:
		return e.Count == 0
	case ErrMultipleFaces:
		return e.Count > 1
	}
	return false
}

// checkCount returns nil when exactly one face was found.
func checkCount(n int) error {
	if n == 1 {
		return nil
	}
	return &FaceCountError{Count: n}
}
