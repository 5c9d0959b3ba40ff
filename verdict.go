package faceeval

import "strings"

// Kind enumerates the possible outcomes of a quality check.
type Kind int

// The verdict kinds, in the order the checks can produce them.
const (
	Pass Kind = iota
	BoxLarge
	BoxSmall
	BoxOutside
	PoseHorizontal
	PoseVertical
	LightingDark
	LightingBright
	Occluded
)

var kindNames = map[Kind]string{
	Pass:           "PASS",
	BoxLarge:       "Inappropriate Bounding Box: Large",
	BoxSmall:       "Inappropriate Bounding Box: Small",
	BoxOutside:     "Inappropriate Bounding Box: Outside Image",
	PoseHorizontal: "Bad Pose: Horizontal",
	PoseVertical:   "Bad Pose: Vertical",
	LightingDark:   "Bad Lighting: Dark",
	LightingBright: "Bad Lighting: Bright",
	// The occlusion composite keeps its historical label so that
	// consumers matching on the text keep working.
	Occluded: "Dimly Lit",
}

// String returns the label of the verdict kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Label names one of the four analysed landmark regions.
type Label string

// The landmark region labels.
const (
	LeftEye  Label = "Left Eye"
	RightEye Label = "Right Eye"
	Nose     Label = "Nose"
	Lips     Label = "Lips"
)

// Verdict is the result of a quality evaluation. Landmarks is only
// populated for the Occluded kind and lists the failing regions.
type Verdict struct {
	Kind      Kind
	Landmarks []Label
}

// Passed reports whether the verdict is a pass.
func (v Verdict) Passed() bool {
	return v.Kind == Pass
}

// String formats the verdict the way it is reported to the caller.
func (v Verdict) String() string {
	if v.Kind != Occluded {
		return v.Kind.String()
	}
	labels := make([]string, len(v.Landmarks))
	for i, l := range v.Landmarks {
		labels[i] = string(l)
	}
	return strings.TrimSpace(v.Kind.String() + ": " + strings.Join(labels, " "))
}

// MarshalText implements encoding.TextMarshaler.
func (v Verdict) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func verdictOf(k Kind) Verdict {
	return Verdict{Kind: k}
}
