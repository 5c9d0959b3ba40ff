package faceeval

import (
	"image"
	"math"

	"github.com/faceeval/faceeval/utils"
)

// Region is a labeled crop of the intrinsic surface around a landmark group.
type Region struct {
	Label Label
	Image *image.Gray
}

// Empty reports whether the clamped region collapsed to zero pixels.
func (r Region) Empty() bool {
	return r.Image == nil || r.Image.Bounds().Empty()
}

// RegionExtractor cuts the eye, nose and lips regions out of the intrinsic surface.
type RegionExtractor struct {
	HorizontalRadius int
	VerticalRadius   int
}

// Extract returns the four landmark regions in the order left eye, right eye, nose, lips.
// A region whose bounds collapse after clamping is returned empty.
func (re RegionExtractor) Extract(in *Intrinsic) []Region {
	var (
		hr = re.HorizontalRadius
		vr = re.VerticalRadius
		lm = in.Landmarks
	)
	// The nose region extends mostly upwards, towards the eyes.
	above := int(math.RoundToEven(1.5 * float64(vr)))
	below := int(math.RoundToEven(0.5 * float64(vr)))

	leye, reye, nose := lm[LeftEyeIdx], lm[RightEyeIdx], lm[NoseIdx]
	ml, mr := lm[MouthLeftIdx], lm[MouthRightIdx]

	bounds := []struct {
		label Label
		rect  [4]int
	}{
		{LeftEye, [4]int{leye.X - hr, leye.Y - vr, leye.X + hr, leye.Y + vr}},
		{RightEye, [4]int{reye.X - hr, reye.Y - vr, reye.X + hr, reye.Y + vr}},
		{Nose, [4]int{nose.X - hr, nose.Y - above, nose.X + hr, nose.Y + below}},
		{Lips, [4]int{ml.X, utils.Min(ml.Y, mr.Y) - vr, mr.X, utils.Max(ml.Y, mr.Y) + vr}},
	}

	regions := make([]Region, 0, len(bounds))
	for _, b := range bounds {
		regions = append(regions, Region{
			Label: b.label,
			Image: cropClamped(in.Surface, b.rect),
		})
	}
	return regions
}

// cropClamped clamps the x0, y0, x1, y1 bounds into the surface and crops it.
// Inverted bounds produce an empty image.
func cropClamped(src *image.Gray, r [4]int) *image.Gray {
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	x0, y0 := utils.Clamp(r[0], w), utils.Clamp(r[1], h)
	x1, y1 := utils.Clamp(r[2], w), utils.Clamp(r[3], h)

	if x1 <= x0 || y1 <= y0 {
		return image.NewGray(image.Rectangle{})
	}
	return cropGray(src, image.Rect(x0, y0, x1, y1))
}
