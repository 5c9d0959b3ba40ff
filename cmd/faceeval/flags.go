package main

import (
	"flag"

	"github.com/faceeval/faceeval"
	"github.com/pkg/errors"
)

// thresholdFlags binds a command line flag to every quality threshold.
type thresholdFlags struct {
	dark, bright       *float64
	tailBins           *int
	vertical           *float64
	horizontal         *float64
	bboxLarge          *float64
	bboxSmall          *float64
	occlusionWindow    *int
	occlusionThreshold *float64
	hRadius, vRadius   *int
}

// registerThresholds defines the threshold flags on the flag set,
// using the values of def as flag defaults.
func registerThresholds(fs *flag.FlagSet, def faceeval.Config) *thresholdFlags {
	return &thresholdFlags{
		dark:               fs.Float64("dark", def.DarkThreshold, "Fraction of dark pixels marking the face as badly lit"),
		bright:             fs.Float64("bright", def.BrightThreshold, "Fraction of bright pixels marking the face as overexposed"),
		tailBins:           fs.Int("tail", def.HistogramTailBins, "Number of histogram bins counted as dark, respectively bright"),
		vertical:           fs.Float64("vratio", def.VerticalRatio, "Triangle area ratio above which the head is pitched"),
		horizontal:         fs.Float64("hratio", def.HorizontalRatio, "Triangle area ratio above which the head is turned"),
		bboxLarge:          fs.Float64("large", def.BBoxLargeRatio, "Box to image area ratio above which the box is too large"),
		bboxSmall:          fs.Float64("small", def.BBoxSmallRatio, "Box to image area ratio below which the box is too small"),
		occlusionWindow:    fs.Int("window", def.OcclusionWindow, "Width of the intensity window scanned for occlusions"),
		occlusionThreshold: fs.Float64("occlusion", def.OcclusionThreshold, "Fraction of a landmark region covered by an occluding blob"),
		hRadius:            fs.Int("hradius", def.HorizontalRadius, "Horizontal extent of the landmark regions"),
		vRadius:            fs.Int("vradius", def.VerticalRadius, "Vertical extent of the landmark regions"),
	}
}

// apply overrides the configuration with the flags explicitly set on the command line.
func (tf *thresholdFlags) apply(fs *flag.FlagSet, cfg *faceeval.Config) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "dark":
			cfg.DarkThreshold = *tf.dark
		case "bright":
			cfg.BrightThreshold = *tf.bright
		case "tail":
			cfg.HistogramTailBins = *tf.tailBins
		case "vratio":
			cfg.VerticalRatio = *tf.vertical
		case "hratio":
			cfg.HorizontalRatio = *tf.horizontal
		case "large":
			cfg.BBoxLargeRatio = *tf.bboxLarge
		case "small":
			cfg.BBoxSmallRatio = *tf.bboxSmall
		case "window":
			cfg.OcclusionWindow = *tf.occlusionWindow
		case "occlusion":
			cfg.OcclusionThreshold = *tf.occlusionThreshold
		case "hradius":
			cfg.HorizontalRadius = *tf.hRadius
		case "vradius":
			cfg.VerticalRadius = *tf.vRadius
		}
	})
}

// resolveConfig merges the defaults, the optional yaml file and the explicitly
// set flags, in this order, and validates the result.
func resolveConfig(path string, fs *flag.FlagSet, tf *thresholdFlags) (faceeval.Config, error) {
	cfg := faceeval.DefaultConfig()
	if path != "" {
		var err error
		// The file is validated together with the flag overrides.
		if cfg, err = faceeval.LoadConfig(path); err != nil && !errors.Is(err, faceeval.ErrInvalidConfig) {
			return cfg, err
		}
	}
	tf.apply(fs, &cfg)
	return cfg, cfg.Validate()
}
