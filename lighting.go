package faceeval

import (
	"image"

	"go.uber.org/zap"
)

// LightingEvaluator detects under and overexposed faces from the intensity histogram.
type LightingEvaluator struct {
	DarkThreshold   float64
	BrightThreshold float64
	TailBins        int
	Sink            DebugSink
	Logger          *zap.Logger
}

// EvalLevel classifies a single image as Pass, LightingDark or LightingBright by
// comparing the share of pixels in the lowest and the highest histogram bins
// against the thresholds.
func (le LightingEvaluator) EvalLevel(img *image.Gray) Kind {
	var hist [256]int
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y) : img.PixOffset(b.Min.X, y)+b.Dx()]
		for _, v := range row {
			hist[v]++
		}
	}

	total := b.Dx() * b.Dy()
	if total == 0 {
		return Pass
	}

	var dark, bright int
	for i := 0; i < le.TailBins; i++ {
		dark += hist[i]
		bright += hist[len(hist)-1-i]
	}

	log := le.logger()
	switch {
	case float64(dark)/float64(total) > le.DarkThreshold:
		log.Debug("dark level",
			zap.Int("dark_pixels", dark),
			zap.Float64("threshold", float64(total)*le.DarkThreshold),
		)
		return LightingDark
	case float64(bright)/float64(total) > le.BrightThreshold:
		log.Debug("bright level",
			zap.Int("bright_pixels", bright),
			zap.Float64("threshold", float64(total)*le.BrightThreshold),
		)
		return LightingBright
	}
	return Pass
}

// EvalOverall evaluates the pyramid levels of the aligned surface and returns
// the first lighting failure found.
func (le LightingEvaluator) EvalOverall(aligned *image.Gray) Verdict {
	for _, level := range BuildPyramid(aligned) {
		if kind := le.EvalLevel(level); kind != Pass {
			if le.Sink != nil {
				le.Sink.Show("lighting", level)
			}
			return verdictOf(kind)
		}
	}
	return verdictOf(Pass)
}

func (le LightingEvaluator) logger() *zap.Logger {
	if le.Logger == nil {
		return zap.NewNop()
	}
	return le.Logger
}
