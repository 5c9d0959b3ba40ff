package detect

import (
	"image"
	"os"

	pigo "github.com/esimov/pigo/core"
	"github.com/faceeval/faceeval"
	"github.com/pkg/errors"
)

// PigoConfig holds the cascade files and the detection parameters of the pigo detector.
type PigoConfig struct {
	// FaceCascade is the path of the facefinder cascade file.
	FaceCascade string
	// PuplocCascade is the path of the pupil localization cascade file.
	PuplocCascade string
	// FlpCascadeDir is the directory holding the facial landmark point cascades.
	FlpCascadeDir string

	MinSize      int
	MaxSize      int
	ShiftFactor  float64
	ScaleFactor  float64
	IoUThreshold float64
	// ScoreThreshold discards the detections with a lower quality score.
	ScoreThreshold float32
	// Perturbs is the number of perturbations used by the landmark localization.
	Perturbs int

	// NoseCascade and MouthCascade name the flp cascades used for the nose tip
	// and the mouth corners. The right mouth corner uses the flipped cascade.
	NoseCascade  string
	MouthCascade string

	// AlignedSize is the side length of the aligned crop.
	AlignedSize int
}

// DefaultPigoConfig returns the detection parameters, without cascade paths.
func DefaultPigoConfig() PigoConfig {
	return PigoConfig{
		MinSize:        20,
		MaxSize:        1000,
		ShiftFactor:    0.1,
		ScaleFactor:    1.1,
		IoUThreshold:   0.2,
		ScoreThreshold: 5.0,
		Perturbs:       63,
		NoseCascade:    "lp93",
		MouthCascade:   "lp84",
		AlignedSize:    AlignedSize,
	}
}

// PigoDetector detects faces and facial landmarks with the pigo cascades.
type PigoDetector struct {
	cfg    PigoConfig
	faces  *pigo.Pigo
	pupils *pigo.PuplocCascade
	nose   *pigo.PuplocCascade
	mouth  *pigo.PuplocCascade
}

var _ Detector = (*PigoDetector)(nil)

// NewPigoDetector unpacks the cascade files.
func NewPigoDetector(cfg PigoConfig) (*PigoDetector, error) {
	data, err := os.ReadFile(cfg.FaceCascade)
	if err != nil {
		return nil, errors.Wrap(err, "error reading the facefinder cascade file")
	}
	// Unpack the binary file. This will return the number of cascade trees,
	// the tree depth, the threshold and the prediction from tree's leaf nodes.
	faces, err := pigo.NewPigo().Unpack(data)
	if err != nil {
		return nil, errors.Wrap(err, "error unpacking the facefinder cascade file")
	}

	data, err = os.ReadFile(cfg.PuplocCascade)
	if err != nil {
		return nil, errors.Wrap(err, "error reading the puploc cascade file")
	}
	pupils, err := pigo.NewPuplocCascade().UnpackCascade(data)
	if err != nil {
		return nil, errors.Wrap(err, "error unpacking the puploc cascade file")
	}

	flpcs, err := pigo.NewPuplocCascade().ReadCascadeDir(cfg.FlpCascadeDir)
	if err != nil {
		return nil, errors.Wrap(err, "error unpacking the facial landmark points cascades")
	}
	nose, err := flpCascade(flpcs, cfg.NoseCascade)
	if err != nil {
		return nil, err
	}
	mouth, err := flpCascade(flpcs, cfg.MouthCascade)
	if err != nil {
		return nil, err
	}

	return &PigoDetector{
		cfg:    cfg,
		faces:  faces,
		pupils: pupils,
		nose:   nose,
		mouth:  mouth,
	}, nil
}

func flpCascade(flpcs map[string][]*pigo.FlpCascade, name string) (*pigo.PuplocCascade, error) {
	cs, ok := flpcs[name]
	if !ok || len(cs) == 0 {
		return nil, errors.Errorf("missing the %s facial landmark cascade", name)
	}
	if cs[0].PuplocCascade == nil {
		return nil, errors.Errorf("could not unpack the %s facial landmark cascade", name)
	}
	return cs[0].PuplocCascade, nil
}

// Detect runs the face detection and, when exactly one face is found,
// localizes its landmarks and aligns it.
func (d *PigoDetector) Detect(img image.Image) (*Face, error) {
	b := img.Bounds()
	// pigo.RgbToGrayscale assumes the image starts at (0, 0).
	imgParams := pigo.ImageParams{
		Pixels: faceeval.Grayscale(img).Pix,
		Rows:   b.Dy(),
		Cols:   b.Dx(),
		Dim:    b.Dx(),
	}

	dets := d.faces.RunCascade(pigo.CascadeParams{
		MinSize:     d.cfg.MinSize,
		MaxSize:     d.cfg.MaxSize,
		ShiftFactor: d.cfg.ShiftFactor,
		ScaleFactor: d.cfg.ScaleFactor,
		ImageParams: imgParams,
	}, 0.0)
	dets = d.faces.ClusterDetections(dets, d.cfg.IoUThreshold)

	var faces []pigo.Detection
	for _, det := range dets {
		if det.Q > d.cfg.ScoreThreshold {
			faces = append(faces, det)
		}
	}
	if err := checkCount(len(faces)); err != nil {
		return nil, err
	}
	det := faces[0]

	lm, err := d.landmarks(det, imgParams)
	if err != nil {
		return nil, err
	}

	// The detection coordinates are relative to the image min point.
	half := det.Scale / 2
	box := faceeval.BoundingBox{
		XMin: det.Col - half,
		YMin: det.Row - half,
		XMax: det.Col + half,
		YMax: det.Row + half,
	}.Add(b.Min)
	lm = lm.Add(b.Min)

	return &Face{
		Box:       box,
		Landmarks: lm,
		Aligned:   Align(img, lm, d.cfg.AlignedSize),
		Score:     det.Q,
	}, nil
}

// landmarks localizes the pupils first, then uses them to find the nose tip and the mouth corners.
func (d *PigoDetector) landmarks(det pigo.Detection, imgParams pigo.ImageParams) (faceeval.Landmarks, error) {
	var lm faceeval.Landmarks

	scale := float32(det.Scale)
	leftEye := d.pupils.RunDetector(pigo.Puploc{
		Row:      det.Row - int(0.085*scale),
		Col:      det.Col - int(0.185*scale),
		Scale:    scale * 0.4,
		Perturbs: d.cfg.Perturbs,
	}, imgParams, 0.0, false)
	rightEye := d.pupils.RunDetector(pigo.Puploc{
		Row:      det.Row - int(0.085*scale),
		Col:      det.Col + int(0.185*scale),
		Scale:    scale * 0.4,
		Perturbs: d.cfg.Perturbs,
	}, imgParams, 0.0, false)

	if !found(leftEye) || !found(rightEye) {
		return lm, errors.Wrap(ErrLandmarkNotFound, "pupils")
	}

	nose := d.nose.GetLandmarkPoint(leftEye, rightEye, imgParams, d.cfg.Perturbs, false)
	mouthLeft := d.mouth.GetLandmarkPoint(leftEye, rightEye, imgParams, d.cfg.Perturbs, false)
	mouthRight := d.mouth.GetLandmarkPoint(leftEye, rightEye, imgParams, d.cfg.Perturbs, true)

	for _, c := range []struct {
		name string
		p    *pigo.Puploc
	}{
		{"nose", nose},
		{"left mouth corner", mouthLeft},
		{"right mouth corner", mouthRight},
	} {
		if !found(c.p) {
			return lm, errors.Wrap(ErrLandmarkNotFound, c.name)
		}
	}

	lm[faceeval.LeftEyeIdx] = point(leftEye)
	lm[faceeval.RightEyeIdx] = point(rightEye)
	lm[faceeval.NoseIdx] = point(nose)
	lm[faceeval.MouthLeftIdx] = point(mouthLeft)
	lm[faceeval.MouthRightIdx] = point(mouthRight)

	// Keep the canonical order, the left points have the smaller abscissa.
	if lm[faceeval.LeftEyeIdx].X > lm[faceeval.RightEyeIdx].X {
		lm[faceeval.LeftEyeIdx], lm[faceeval.RightEyeIdx] = lm[faceeval.RightEyeIdx], lm[faceeval.LeftEyeIdx]
	}
	if lm[faceeval.MouthLeftIdx].X > lm[faceeval.MouthRightIdx].X {
		lm[faceeval.MouthLeftIdx], lm[faceeval.MouthRightIdx] = lm[faceeval.MouthRightIdx], lm[faceeval.MouthLeftIdx]
	}
	return lm, nil
}

func found(p *pigo.Puploc) bool {
	return p != nil && p.Row > 0 && p.Col > 0
}

func point(p *pigo.Puploc) image.Point {
	return image.Pt(p.Col, p.Row)
}
