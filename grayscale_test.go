package faceeval

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

const ImgWidth = 10
const ImgHeight = 10

func TestGrayscale(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, ImgWidth, ImgHeight))
	for i := 0; i < img.Bounds().Dx(); i++ {
		for j := 0; j < img.Bounds().Dy(); j++ {
			img.Set(i, j, color.RGBA{177, 177, 177, 255})
		}
	}

	gray := Grayscale(img)
	for i := 0; i < gray.Bounds().Dx(); i++ {
		for j := 0; j < gray.Bounds().Dy(); j++ {
			if v := gray.GrayAt(i, j).Y; v != 177 {
				t.Errorf("Gray value expected to be 177. Got %v", v)
			}
		}
	}
}

func TestGrayscale_LumaWeights(t *testing.T) {
	assert := assert.New(t)

	img := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{G: 255, A: 255})
	img.SetNRGBA(2, 0, color.NRGBA{B: 255, A: 255})

	gray := Grayscale(img)
	assert.Equal(uint8(76), gray.GrayAt(0, 0).Y)
	assert.Equal(uint8(150), gray.GrayAt(1, 0).Y)
	assert.Equal(uint8(29), gray.GrayAt(2, 0).Y)
}

func TestGrayscale_MovesTheOriginToZero(t *testing.T) {
	src := image.NewGray(image.Rect(5, 5, 10, 8))
	src.SetGray(5, 5, color.Gray{Y: 42})
	src.SetGray(9, 7, color.Gray{Y: 7})

	gray := Grayscale(src)
	assert.Equal(t, image.Rect(0, 0, 5, 3), gray.Bounds())
	assert.Equal(t, uint8(42), gray.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(7), gray.GrayAt(4, 2).Y)
}

func TestGrayscale_RoundsToNearest(t *testing.T) {
	assert := assert.New(t)

	img := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	// 0.299*2 = 0.598 and 0.587*100 = 58.7 round up, 0.114*4 = 0.456 rounds down.
	img.SetNRGBA(0, 0, color.NRGBA{R: 2, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{G: 100, A: 255})
	img.SetNRGBA(2, 0, color.NRGBA{B: 4, A: 255})

	gray := Grayscale(img)
	assert.Equal(uint8(1), gray.GrayAt(0, 0).Y)
	assert.Equal(uint8(59), gray.GrayAt(1, 0).Y)
	assert.Equal(uint8(0), gray.GrayAt(2, 0).Y)

	// The generic path agrees with the NRGBA fast path.
	rgba := image.NewRGBA(img.Bounds())
	for x := 0; x < 3; x++ {
		rgba.Set(x, 0, img.At(x, 0))
	}
	assert.Equal(gray.Pix, Grayscale(rgba).Pix)
}
