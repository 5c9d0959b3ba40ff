package faceeval

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBox_Check(t *testing.T) {
	bv := BoxValidator{LargeRatio: 0.9, SmallRatio: 0.2}
	bounds := image.Rect(0, 0, 100, 100)

	testCases := []struct {
		name string
		box  BoundingBox
		want Kind
	}{
		{"whole frame", BoundingBox{0, 0, 100, 100}, BoxLarge},
		{"tiny box", BoundingBox{0, 0, 10, 10}, BoxSmall},
		{"small ratio is inclusive", BoundingBox{0, 0, 20, 100}, BoxSmall},
		{"outside of the frame", BoundingBox{-80, -80, -30, -30}, BoxOutside},
		{"left overhang", BoundingBox{-40, 10, 20, 70}, BoxOutside},
		{"centered", BoundingBox{25, 0, 75, 100}, Pass},
		{"slight overhang", BoundingBox{-5, 20, 55, 80}, Pass},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, bv.Check(bounds, tc.box).Kind)
		})
	}
}

func TestBox_OutOfBoundsArea(t *testing.T) {
	assert.Equal(t, 0.0, outOfBoundsArea(100, 100, BoundingBox{10, 10, 90, 90}))
	assert.Equal(t, 3200.0, outOfBoundsArea(100, 100, BoundingBox{-80, -80, -30, -30}))
	assert.Equal(t, 4800.0, outOfBoundsArea(100, 100, BoundingBox{-40, 10, 20, 70}))
}
