package faceeval

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPyramid_Levels(t *testing.T) {
	assert := assert.New(t)

	pyramid := BuildPyramid(uniformGray(5, 4, 10))
	assert.Len(pyramid, PyramidLevels)

	// The most upsampled level comes first.
	assert.Equal(image.Rect(0, 0, 40, 32), pyramid[0].Bounds())
	assert.Equal(image.Rect(0, 0, 20, 16), pyramid[1].Bounds())

	for _, level := range pyramid {
		for _, v := range level.Pix {
			assert.Equal(uint8(10), v)
		}
	}
}
