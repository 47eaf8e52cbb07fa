package models

import (
	"encoding/json"
	"fmt"
)

// Class is a rank in the ordered set of asymptotic complexity classes.
type Class int

const (
	ClassConstant Class = iota
	ClassLogarithmic
	ClassLinear
	ClassLinearithmic
	ClassQuadratic
	ClassCubicOrWorse
)

var classNames = [...]string{
	ClassConstant:     "O(1)",
	ClassLogarithmic:  "O(log n)",
	ClassLinear:       "O(n)",
	ClassLinearithmic: "O(n log n)",
	ClassQuadratic:    "O(n²)",
	ClassCubicOrWorse: "O(n³)+",
}

func (c Class) String() string {
	if c < ClassConstant || c > ClassCubicOrWorse {
		return "unknown"
	}
	return classNames[c]
}

// Rank returns the position of the class in the ordering, O(1) being 0.
func (c Class) Rank() int {
	return int(c)
}

func (c Class) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Class) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseClass(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseClass maps a display string back to its class.
func ParseClass(s string) (Class, error) {
	for i, name := range classNames {
		if name == s {
			return Class(i), nil
		}
	}
	return ClassConstant, fmt.Errorf("unknown complexity class %q", s)
}

// MaxClass returns the highest ranked of the given classes, O(1) when empty.
func MaxClass(classes ...Class) Class {
	out := ClassConstant
	for _, c := range classes {
		if c > out {
			out = c
		}
	}
	return out
}

// LoopDepthClass maps a loop nesting depth to its time contribution.
func LoopDepthClass(depth int) Class {
	switch {
	case depth <= 0:
		return ClassConstant
	case depth == 1:
		return ClassLinear
	case depth == 2:
		return ClassQuadratic
	default:
		return ClassCubicOrWorse
	}
}

// Evidence justifies one contribution to a complexity classification.
type Evidence struct {
	Line         int    `json:"line,omitempty"`
	Reason       string `json:"reason"`
	Contribution Class  `json:"contribution"`
	Snippet      string `json:"snippet"`
}

// Estimate is the time and space classification plus its supporting evidence.
type Estimate struct {
	Time          Class      `json:"time"`
	Space         Class      `json:"space"`
	TimeEvidence  []Evidence `json:"time_evidence"`
	SpaceEvidence []Evidence `json:"space_evidence"`
}
