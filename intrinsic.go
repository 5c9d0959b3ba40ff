package faceeval

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/faceeval/faceeval/utils"
	"github.com/pkg/errors"
)

// IntrinsicSize is the side length of the intrinsic surface.
const IntrinsicSize = 256

// Intrinsic is the denoised grayscale face surface used by the occlusion analysis,
// together with the landmarks remapped into its coordinate space.
type Intrinsic struct {
	Surface   *image.Gray
	Landmarks Landmarks
}

// IntrinsicBuilder derives the analysis surfaces from the source image and the aligned crop.
type IntrinsicBuilder struct {
	Sink DebugSink
}

// Build crops the bounding box out of the image, normalizes it to a fixed size
// and denoises it, then denoises the aligned crop as well. The returned aligned
// surface keeps the size of the aligned crop.
func (ib IntrinsicBuilder) Build(img, aligned image.Image, lm Landmarks, box BoundingBox) (*Intrinsic, *image.Gray, error) {
	src := imgToNRGBA(img)
	w, h := src.Bounds().Dx(), src.Bounds().Dy()

	xMin, yMin := utils.Clamp(box.XMin, w), utils.Clamp(box.YMin, h)
	xMax, yMax := utils.Clamp(box.XMax, w), utils.Clamp(box.YMax, h)

	cropW, cropH := xMax-xMin, yMax-yMin
	if cropW <= 0 || cropH <= 0 {
		return nil, nil, errors.Wrapf(ErrInvalidInput, "bounding box %v does not overlap the %dx%d image", box.Rect(), w, h)
	}

	cropped := imaging.Crop(src, image.Rect(xMin, yMin, xMax, yMax))
	canvas := imaging.Resize(cropped, IntrinsicSize, IntrinsicSize, imaging.Linear)

	var remapped Landmarks
	sx := float64(IntrinsicSize) / float64(cropW)
	sy := float64(IntrinsicSize) / float64(cropH)
	for i, pt := range lm {
		remapped[i] = image.Pt(
			int(float64(pt.X-xMin)*sx),
			int(float64(pt.Y-yMin)*sy),
		)
	}

	in := &Intrinsic{
		Surface:   intrinsicFilter.apply(Grayscale(canvas)),
		Landmarks: remapped,
	}
	alignedSurface := alignedFilter.apply(Grayscale(aligned))

	if ib.Sink != nil {
		ib.Sink.Show("intrinsic", annotateSurface(in))
		ib.Sink.Show("aligned", alignedSurface)
	}
	return in, alignedSurface, nil
}
