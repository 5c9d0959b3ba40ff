package faceeval

import (
	"bytes"
	"image"
	"image/color"
	"image/color/palette"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImage_ImgToNRGBA(t *testing.T) {
	rect := image.Rect(-1, -1, 15, 15)
	colors := palette.Plan9

	nrgba := image.NewNRGBA(rect)
	ycbcr := image.NewYCbCr(rect, image.YCbCrSubsampleRatio444)
	paletted := image.NewPaletted(rect, colors)
	i := 0
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			c := colors[i%len(colors)]
			nrgba.Set(x, y, c)
			paletted.Set(x, y, c)

			r, g, b, _ := c.RGBA()
			yy, cb, cr := color.RGBToYCbCr(uint8(r>>8), uint8(g>>8), uint8(b>>8))
			ycbcr.Y[ycbcr.YOffset(x, y)] = yy
			ycbcr.Cb[ycbcr.COffset(x, y)] = cb
			ycbcr.Cr[ycbcr.COffset(x, y)] = cr
			i++
		}
	}

	testCases := []struct {
		name string
		img  image.Image
	}{
		{"NRGBA", nrgba},
		{"YCbCr-444", ycbcr},
		{"Paletted", paletted},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dst := imgToNRGBA(tc.img)
			assert.Equal(t, image.Rect(0, 0, rect.Dx(), rect.Dy()), dst.Bounds())

			for y := rect.Min.Y; y < rect.Max.Y; y++ {
				for x := rect.Min.X; x < rect.Max.X; x++ {
					want := color.NRGBAModel.Convert(tc.img.At(x, y)).(color.NRGBA)
					got := dst.NRGBAAt(x-rect.Min.X, y-rect.Min.Y)
					if !closeColors(got, want, 1) {
						t.Fatalf("pixel (%d, %d): got %v want %v", x, y, got, want)
					}
				}
			}
		})
	}
}

// closeColors compares the color channels allowing a small rounding difference.
func closeColors(a, b color.NRGBA, delta int) bool {
	ca := []uint8{a.R, a.G, a.B, a.A}
	cb := []uint8{b.R, b.G, b.B, b.A}
	for i := range ca {
		d := int(ca[i]) - int(cb[i])
		if d < -delta || d > delta {
			return false
		}
	}
	return true
}

func TestImage_ImgToNRGBAKeepsZeroOriginImages(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	assert.Same(t, src, imgToNRGBA(src))
}

func TestImage_DecodeImage(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, png.Encode(&buf, uniformGray(6, 4, 77)))

	img, err := DecodeImage(&buf)
	assert.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 6, 4), img.Bounds())
	assert.Equal(t, color.NRGBA{R: 77, G: 77, B: 77, A: 255}, img.NRGBAAt(3, 2))

	_, err = DecodeImage(bytes.NewReader([]byte("garbage")))
	assert.Error(t, err)
}

func TestImage_OpenImage(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "face.png")
	f, err := os.Create(path)
	assert.NoError(t, err)
	assert.NoError(t, png.Encode(f, uniformGray(3, 3, 10)))
	assert.NoError(t, f.Close())

	img, err := OpenImage(path)
	assert.NoError(t, err)
	assert.Equal(t, 3, img.Bounds().Dx())

	text := filepath.Join(dir, "face.txt")
	assert.NoError(t, os.WriteFile(text, []byte("not an image"), 0644))
	_, err = OpenImage(text)
	assert.Error(t, err)

	_, err = OpenImage(filepath.Join(dir, "missing.png"))
	assert.Error(t, err)
}

func TestImage_CropGray(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 8, 8))
	for i := range src.Pix {
		src.Pix[i] = uint8(i)
	}

	dst := cropGray(src, image.Rect(2, 3, 5, 7))
	assert.Equal(t, image.Rect(0, 0, 3, 4), dst.Bounds())
	assert.Equal(t, src.GrayAt(2, 3), dst.GrayAt(0, 0))
	assert.Equal(t, src.GrayAt(4, 6), dst.GrayAt(2, 3))
}
