package faceeval

import (
	"image"
	"math"
)

// bilateralParams groups the bilateral filter settings.
// Diameter is the pixel neighborhood used during filtering, SigmaColor and
// SigmaSpace control how far away in intensity, respectively in distance
// two pixels can be to still influence each other.
type bilateralParams struct {
	Diameter   int
	SigmaColor float64
	SigmaSpace float64
}

var (
	// intrinsicFilter smooths the resized bounding box crop.
	intrinsicFilter = bilateralParams{Diameter: 10, SigmaColor: 100, SigmaSpace: 100}
	// alignedFilter smooths the aligned crop.
	alignedFilter = bilateralParams{Diameter: 5, SigmaColor: 50, SigmaSpace: 50}
)

// BilateralFilter applies an edge preserving smoothing filter over a grayscale image.
// Every output pixel is the average of its circular neighborhood weighted both by
// the spatial distance and by the intensity difference to the center pixel.
// Pixels outside of the image are mirrored without repeating the border pixel.
// See https://en.wikipedia.org/wiki/Bilateral_filter
func BilateralFilter(src *image.Gray, diameter int, sigmaColor, sigmaSpace float64) *image.Gray {
	if sigmaColor <= 0 {
		sigmaColor = 1
	}
	if sigmaSpace <= 0 {
		sigmaSpace = 1
	}

	radius := diameter / 2
	if diameter <= 0 {
		radius = int(math.Round(sigmaSpace * 1.5))
	}
	if radius < 1 {
		radius = 1
	}

	var (
		colorCoeff = -0.5 / (sigmaColor * sigmaColor)
		spaceCoeff = -0.5 / (sigmaSpace * sigmaSpace)
		colorTable [256]float64
	)
	for i := range colorTable {
		colorTable[i] = math.Exp(float64(i*i) * colorCoeff)
	}

	// Precompute the spatial weights of the circular neighborhood.
	type offset struct {
		dx, dy int
		w      float64
	}
	kernel := make([]offset, 0, (2*radius+1)*(2*radius+1))
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			r := math.Sqrt(float64(dx*dx + dy*dy))
			if r > float64(radius) {
				continue
			}
			kernel = append(kernel, offset{dx, dy, math.Exp(r * r * spaceCoeff)})
		}
	}

	b := src.Bounds()
	width, height := b.Dx(), b.Dy()
	dst := image.NewGray(image.Rect(0, 0, width, height))

	pixel := func(x, y int) int {
		return int(src.Pix[src.PixOffset(b.Min.X+reflect101(x, width), b.Min.Y+reflect101(y, height))])
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			center := pixel(x, y)
			var sum, wsum float64

			for _, k := range kernel {
				val := pixel(x+k.dx, y+k.dy)
				diff := val - center
				if diff < 0 {
					diff = -diff
				}
				w := k.w * colorTable[diff]
				sum += float64(val) * w
				wsum += w
			}
			dst.Pix[y*dst.Stride+x] = uint8(math.Round(sum / wsum))
		}
	}
	return dst
}

// reflect101 mirrors an out of range coordinate back into [0, n),
// e.g. for n = 5: -2 -> 2, -1 -> 1, 5 -> 3, 6 -> 2.
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		}
		if i >= n {
			i = 2*(n-1) - i
		}
	}
	return i
}

func (bp bilateralParams) apply(src *image.Gray) *image.Gray {
	return BilateralFilter(src, bp.Diameter, bp.SigmaColor, bp.SigmaSpace)
}
