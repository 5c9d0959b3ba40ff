package faceeval

import (
	"image"
)

// Grayscale converts the image to an 8 bit grayscale surface with its
// min point at (0, 0), using the ITU-R BT.601 luma weights.
func Grayscale(src image.Image) *image.Gray {
	bounds := src.Bounds()
	dx, dy := bounds.Dx(), bounds.Dy()
	dst := image.NewGray(image.Rect(0, 0, dx, dy))

	switch src := src.(type) {
	case *image.Gray:
		for y := 0; y < dy; y++ {
			si := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(dst.Pix[y*dst.Stride:y*dst.Stride+dx], src.Pix[si:si+dx])
		}
	case *image.NRGBA:
		for y := 0; y < dy; y++ {
			si := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			di := y * dst.Stride
			for x := 0; x < dx; x++ {
				r, g, b := src.Pix[si], src.Pix[si+1], src.Pix[si+2]
				dst.Pix[di+x] = luma(r, g, b)
				si += 4
			}
		}
	default:
		for y := 0; y < dy; y++ {
			di := y * dst.Stride
			for x := 0; x < dx; x++ {
				r, g, b, _ := src.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
				dst.Pix[di+x] = luma(uint8(r>>8), uint8(g>>8), uint8(b>>8))
			}
		}
	}
	return dst
}

// Fixed point BT.601 weights with 14 fractional bits.
const (
	lumaR     = 4899
	lumaG     = 9617
	lumaB     = 1868
	lumaShift = 14
)

// luma combines 8 bit color channels into an 8 bit intensity, rounded to the nearest integer.
func luma(r, g, b uint8) uint8 {
	return uint8((lumaR*uint32(r) + lumaG*uint32(g) + lumaB*uint32(b) + 1<<(lumaShift-1)) >> lumaShift)
}
