package faceeval

import (
	"image"

	"github.com/disintegration/imaging"
)

const (
	// pyramidUpsamples is the number of successive 2x upsampling steps.
	pyramidUpsamples = 3
	// PyramidLevels is the number of levels kept after the upsampling.
	PyramidLevels = 2
)

// Pyramid holds the same image at decreasing resolutions; the first level is the finest.
type Pyramid []*image.Gray

// BuildPyramid upsamples the image three times by a factor of two and keeps the
// two largest results, most upsampled first.
func BuildPyramid(img *image.Gray) Pyramid {
	ladder := make([]*image.Gray, 0, pyramidUpsamples+1)
	ladder = append(ladder, img)

	for i := 0; i < pyramidUpsamples; i++ {
		ladder = append(ladder, pyrUp(ladder[len(ladder)-1]))
	}

	pyramid := make(Pyramid, 0, PyramidLevels)
	for i := len(ladder) - 1; i >= 0 && len(pyramid) < PyramidLevels; i-- {
		pyramid = append(pyramid, ladder[i])
	}
	return pyramid
}

// pyrUp doubles the image size and smooths the result with a gaussian kernel.
func pyrUp(img *image.Gray) *image.Gray {
	b := img.Bounds()
	up := imaging.Resize(img, b.Dx()*2, b.Dy()*2, imaging.Gaussian)
	return grayFromNRGBA(up)
}
