package faceeval

import (
	"image"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// minOccludedLandmarks is the number of occluded regions at which the face is rejected.
const minOccludedLandmarks = 2

// Sample groups the inputs of a single face evaluation. The box and the
// landmarks are expressed in the coordinate space of Image, so for an image
// whose bounds do not start at (0, 0) they are offset by its min point.
type Sample struct {
	Image     image.Image
	Aligned   image.Image
	Landmarks Landmarks
	Box       BoundingBox
}

// stage is one check of the pipeline.
type stage struct {
	name string
	run  func(*Sample) (Verdict, error)
}

// Option customizes the pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger used to trace the checks.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithDebugSink enables the debug output of the intermediate images.
func WithDebugSink(sink DebugSink) Option {
	return func(p *Pipeline) {
		p.sink = sink
	}
}

// Pipeline runs the quality checks in order: bounding box, pose, then lighting
// and occlusion. It is immutable once built and safe for concurrent use.
type Pipeline struct {
	cfg    Config
	logger *zap.Logger
	sink   DebugSink

	box       BoxValidator
	pose      PoseEstimator
	intrinsic IntrinsicBuilder
	lighting  LightingEvaluator
	occlusion OcclusionDetector
	stages    []stage
}

// NewPipeline validates the configuration and builds the checks.
func NewPipeline(cfg Config, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Pipeline{
		cfg:    cfg,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}

	p.box = BoxValidator{
		LargeRatio: cfg.BBoxLargeRatio,
		SmallRatio: cfg.BBoxSmallRatio,
	}
	p.pose = PoseEstimator{
		HorizontalRatio: cfg.HorizontalRatio,
		VerticalRatio:   cfg.VerticalRatio,
	}
	p.intrinsic = IntrinsicBuilder{Sink: p.sink}
	p.lighting = LightingEvaluator{
		DarkThreshold:   cfg.DarkThreshold,
		BrightThreshold: cfg.BrightThreshold,
		TailBins:        cfg.HistogramTailBins,
		Sink:            p.sink,
		Logger:          p.logger,
	}
	p.occlusion = OcclusionDetector{
		Window:    cfg.OcclusionWindow,
		Threshold: cfg.OcclusionThreshold,
		Regions: RegionExtractor{
			HorizontalRadius: cfg.HorizontalRadius,
			VerticalRadius:   cfg.VerticalRadius,
		},
		Sink:   p.sink,
		Logger: p.logger,
	}

	p.stages = []stage{
		{name: "bounding_box", run: p.checkBox},
		{name: "pose", run: p.checkPose},
		{name: "surface", run: p.checkSurface},
	}
	return p, nil
}

// Config returns the configuration the pipeline was built with.
func (p *Pipeline) Config() Config {
	return p.cfg
}

// Run evaluates a single face and returns the first failing verdict, or a pass.
// An error is returned only when the inputs are malformed.
func (p *Pipeline) Run(img, aligned image.Image, lm Landmarks, box BoundingBox) (Verdict, error) {
	return p.Evaluate(&Sample{
		Image:     img,
		Aligned:   aligned,
		Landmarks: lm,
		Box:       box,
	})
}

// Evaluate is like Run but takes the inputs grouped into a Sample.
func (p *Pipeline) Evaluate(s *Sample) (Verdict, error) {
	if s == nil {
		return Verdict{}, errors.Wrap(ErrInvalidInput, "missing sample")
	}
	if err := checkImage("source", s.Image); err != nil {
		return Verdict{}, err
	}
	if err := checkImage("aligned", s.Aligned); err != nil {
		return Verdict{}, err
	}

	// The checks index the source image from (0, 0).
	if off := s.Image.Bounds().Min; off != (image.Point{}) {
		local := *s
		local.Box = s.Box.Sub(off)
		local.Landmarks = s.Landmarks.Sub(off)
		s = &local
	}

	for _, st := range p.stages {
		v, err := st.run(s)
		if err != nil {
			return Verdict{}, errors.Wrapf(err, "%s check", st.name)
		}
		p.logger.Debug("check done",
			zap.String("check", st.name),
			zap.Stringer("verdict", v),
		)
		if !v.Passed() {
			return v, nil
		}
	}
	return verdictOf(Pass), nil
}

func (p *Pipeline) checkBox(s *Sample) (Verdict, error) {
	return p.box.Check(s.Image.Bounds(), s.Box), nil
}

func (p *Pipeline) checkPose(s *Sample) (Verdict, error) {
	return p.pose.Check(s.Landmarks), nil
}

// checkSurface runs the lighting evaluation first, then the occlusion analysis.
func (p *Pipeline) checkSurface(s *Sample) (Verdict, error) {
	in, aligned, err := p.intrinsic.Build(s.Image, s.Aligned, s.Landmarks, s.Box)
	if err != nil {
		return Verdict{}, err
	}

	if v := p.lighting.EvalOverall(aligned); !v.Passed() {
		return v, nil
	}

	var occluded []Label
	for _, res := range p.occlusion.DetectAcrossLandmarks(in) {
		if res.Skipped {
			p.logger.Debug("empty landmark region skipped", zap.String("landmark", string(res.Label)))
			continue
		}
		if res.Occluded {
			occluded = append(occluded, res.Label)
		}
	}

	if len(occluded) < minOccludedLandmarks {
		return verdictOf(Pass), nil
	}
	return Verdict{Kind: Occluded, Landmarks: occluded}, nil
}
