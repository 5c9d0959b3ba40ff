package faceeval

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned when the configuration is out of range.
var ErrInvalidConfig = errors.New("invalid configuration")

var validate = validator.New()

// Config holds the thresholds used by the quality checks.
type Config struct {
	// DarkThreshold is the fraction of dark pixels which marks the face as badly lit.
	DarkThreshold float64 `yaml:"dark_threshold" validate:"gt=0,lte=1"`
	// BrightThreshold is the fraction of bright pixels which marks the face as overexposed.
	BrightThreshold float64 `yaml:"bright_threshold" validate:"gt=0,lte=1"`
	// HistogramTailBins is the number of histogram bins counted as dark, respectively bright.
	HistogramTailBins int `yaml:"histogram_tail_bins" validate:"min=1,max=128"`

	// VerticalRatio is the triangle area ratio above which the head is pitched.
	VerticalRatio float64 `yaml:"vertical_ratio" validate:"gt=0"`
	// HorizontalRatio is the triangle area ratio above which the head is turned.
	HorizontalRatio float64 `yaml:"horizontal_ratio" validate:"gt=0"`

	// BBoxLargeRatio is the box to image area ratio above which the box is too large.
	BBoxLargeRatio float64 `yaml:"bbox_large_ratio" validate:"gt=0,lte=1"`
	// BBoxSmallRatio is the box to image area ratio below which the box is too small.
	BBoxSmallRatio float64 `yaml:"bbox_small_ratio" validate:"gte=0,ltfield=BBoxLargeRatio"`

	// OcclusionWindow is the width of the intensity window scanned for occluding blobs.
	OcclusionWindow int `yaml:"occlusion_window" validate:"min=2,max=100"`
	// OcclusionThreshold is the fraction of a region a single blob has to cover.
	OcclusionThreshold float64 `yaml:"occlusion_threshold" validate:"gt=0,lte=1"`

	// HorizontalRadius and VerticalRadius define the landmark region extent.
	HorizontalRadius int `yaml:"horizontal_radius" validate:"min=1"`
	VerticalRadius   int `yaml:"vertical_radius" validate:"min=1"`
}

// DefaultConfig returns the default thresholds.
func DefaultConfig() Config {
	return Config{
		DarkThreshold:      0.7,
		BrightThreshold:    0.7,
		HistogramTailBins:  30,
		VerticalRatio:      4,
		HorizontalRatio:    6,
		BBoxLargeRatio:     0.9,
		BBoxSmallRatio:     0.2,
		OcclusionWindow:    30,
		OcclusionThreshold: 0.8,
		HorizontalRadius:   32,
		VerticalRadius:     25,
	}
}

// LoadConfig reads a yaml file on top of the default configuration.
// Keys missing from the file keep their default value.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "unable to read the config file %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "unable to decode the config file %s", path)
	}
	return cfg, cfg.Validate()
}

// Validate checks that every threshold is within its allowed range.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return errors.Wrapf(ErrInvalidConfig, "%s failed on the %q rule (value %v)", fe.Field(), fe.Tag(), fe.Value())
		}
		return errors.Wrap(ErrInvalidConfig, err.Error())
	}
	return nil
}
