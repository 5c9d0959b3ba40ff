package faceeval

import (
	"image"

	"github.com/faceeval/faceeval/utils"
)

// outsideRatio is the fraction of the box lying outside of the frame
// above which the box is rejected.
const outsideRatio = 0.5

// BoxValidator checks the bounding box size and position against the frame.
type BoxValidator struct {
	LargeRatio float64
	SmallRatio float64
}

// Check returns the bounding box verdict for an image of the given bounds.
func (bv BoxValidator) Check(bounds image.Rectangle, box BoundingBox) Verdict {
	w, h := bounds.Dx(), bounds.Dy()
	areaBox := float64(utils.Abs(box.XMax-box.XMin) * utils.Abs(box.YMax-box.YMin))
	areaImg := float64(w * h)

	ratio := areaBox / areaImg
	if ratio >= bv.LargeRatio {
		return verdictOf(BoxLarge)
	}
	if ratio <= bv.SmallRatio {
		return verdictOf(BoxSmall)
	}

	if outOfBoundsArea(w, h, box)/areaBox > outsideRatio {
		return verdictOf(BoxOutside)
	}
	return verdictOf(Pass)
}

// outOfBoundsArea approximates the box area lying outside of a w x h frame
// as the sum of each overhang multiplied by the box extension along the other
// axis. It is not an exact intersection and can over count at the corners.
func outOfBoundsArea(w, h int, box BoundingBox) float64 {
	outXMin := utils.Max(0, -box.XMin)
	outYMin := utils.Max(0, -box.YMin)
	outXMax := utils.Max(0, box.XMax-w)
	outYMax := utils.Max(0, box.YMax-h)

	outW := (box.XMax - box.XMin) - (utils.Max(0, box.XMin) - utils.Min(w, box.XMax))
	outH := (box.YMax - box.YMin) - (utils.Max(0, box.YMin) - utils.Min(h, box.YMax))

	area := utils.Max(0, outW*outYMin) +
		utils.Max(0, outW*outYMax) +
		utils.Max(0, outH*outXMin) +
		utils.Max(0, outH*outXMax)

	return float64(area)
}
