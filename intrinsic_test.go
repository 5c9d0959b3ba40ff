package faceeval

import (
	"image"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestIntrinsic_Build(t *testing.T) {
	assert := assert.New(t)

	in, aligned, err := IntrinsicBuilder{}.Build(
		uniformNRGBA(100, 100, 128), uniformNRGBA(112, 112, 128), frontalLandmarks(), faceBox,
	)
	assert.NoError(err)
	assert.Equal(image.Rect(0, 0, IntrinsicSize, IntrinsicSize), in.Surface.Bounds())
	assert.Equal(image.Rect(0, 0, 112, 112), aligned.Bounds())
	assert.Equal(intrinsicLandmarks(), in.Landmarks)
	assert.Equal(uint8(128), in.Surface.GrayAt(128, 128).Y)
}

func TestIntrinsic_ClampsTheBox(t *testing.T) {
	in, _, err := IntrinsicBuilder{}.Build(
		uniformNRGBA(100, 100, 128), uniformNRGBA(112, 112, 128), frontalLandmarks(),
		BoundingBox{XMin: -28, YMin: -28, XMax: 128, YMax: 128},
	)
	assert.NoError(t, err)
	// The box is clamped to the whole frame, so the scale is 2.56.
	assert.Equal(t, image.Pt(89, 102), in.Landmarks[LeftEyeIdx])
}

func TestIntrinsic_EmptyCrop(t *testing.T) {
	_, _, err := IntrinsicBuilder{}.Build(
		uniformNRGBA(100, 100, 128), uniformNRGBA(112, 112, 128), frontalLandmarks(),
		BoundingBox{XMin: 100, YMin: 100, XMax: 140, YMax: 140},
	)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}
