package faceeval

import (
	"image"
	"math"
)

// minArea replaces a vanishing triangle area used as a ratio denominator.
const minArea = 1e-10

// PoseEstimator checks the head orientation from the landmark geometry.
// It compares the areas of two pairs of "butterfly" triangles: a turned
// head shrinks one side of the face, a pitched head shrinks the upper or
// the lower half of it.
type PoseEstimator struct {
	HorizontalRatio float64
	VerticalRatio   float64
}

// Check returns the pose verdict for the given landmarks.
func (pe PoseEstimator) Check(lm Landmarks) Verdict {
	h1, h2 := areaRatios(
		triangleArea(lm[LeftEyeIdx], lm[NoseIdx], lm[MouthLeftIdx]),
		triangleArea(lm[RightEyeIdx], lm[NoseIdx], lm[MouthRightIdx]),
	)
	v1, v2 := areaRatios(
		triangleArea(lm[NoseIdx], lm[MouthLeftIdx], lm[MouthRightIdx]),
		triangleArea(lm[LeftEyeIdx], lm[RightEyeIdx], lm[NoseIdx]),
	)

	if h1 >= pe.HorizontalRatio || h2 >= pe.HorizontalRatio {
		return verdictOf(PoseHorizontal)
	}
	if v1 >= pe.VerticalRatio || v2 >= pe.VerticalRatio {
		return verdictOf(PoseVertical)
	}
	return verdictOf(Pass)
}

// areaRatios returns a1/a2 and a2/a1. A zero denominator is substituted
// with minArea before its ratio is computed, so the substitution of a2
// carries over into the second ratio.
func areaRatios(a1, a2 float64) (float64, float64) {
	if a2 == 0 {
		a2 = minArea
	}
	r1 := a1 / a2

	if a1 == 0 {
		a1 = minArea
	}
	return r1, a2 / a1
}

// triangleArea computes the triangle area with Heron's formula.
func triangleArea(p1, p2, p3 image.Point) float64 {
	a := side(p1, p2)
	b := side(p2, p3)
	c := side(p1, p3)
	s := (a + b + c) / 2

	// Rounding can push the radicand of a degenerate triangle below zero.
	return math.Sqrt(math.Max(0, s*(s-a)*(s-b)*(s-c)))
}

func side(p1, p2 image.Point) float64 {
	return math.Hypot(float64(p1.X-p2.X), float64(p1.Y-p2.Y))
}
