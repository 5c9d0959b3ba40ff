package faceeval

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func grayOf(v uint8) color.Gray {
	return color.Gray{Y: v}
}

func newLightingEvaluator() LightingEvaluator {
	return LightingEvaluator{DarkThreshold: 0.7, BrightThreshold: 0.7, TailBins: 30}
}

// mixed returns a 10x1 image with n pixels of value v, the others being mid gray.
func mixed(n int, v uint8) *image.Gray {
	img := uniformGray(10, 1, 128)
	for i := 0; i < n; i++ {
		img.Pix[i] = v
	}
	return img
}

func TestLighting_EvalLevel(t *testing.T) {
	le := newLightingEvaluator()

	testCases := []struct {
		name string
		img  *image.Gray
		want Kind
	}{
		{"black", uniformGray(4, 4, 0), LightingDark},
		{"white", uniformGray(4, 4, 255), LightingBright},
		{"mid gray", uniformGray(4, 4, 128), Pass},
		{"last dark bin", uniformGray(4, 4, 29), LightingDark},
		{"first mid bin", uniformGray(4, 4, 30), Pass},
		{"first bright bin", uniformGray(4, 4, 226), LightingBright},
		{"last mid bin", uniformGray(4, 4, 225), Pass},
		{"dark share equal to the threshold", mixed(7, 0), Pass},
		{"dark share above the threshold", mixed(8, 0), LightingDark},
		{"bright share above the threshold", mixed(8, 250), LightingBright},
		{"empty", image.NewGray(image.Rectangle{}), Pass},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, le.EvalLevel(tc.img))
		})
	}
}

func TestLighting_EvalOverall(t *testing.T) {
	le := newLightingEvaluator()

	assert.Equal(t, verdictOf(LightingDark), le.EvalOverall(uniformGray(8, 8, 5)))
	assert.Equal(t, verdictOf(LightingBright), le.EvalOverall(uniformGray(8, 8, 250)))
	assert.Equal(t, verdictOf(Pass), le.EvalOverall(uniformGray(8, 8, 128)))
}
