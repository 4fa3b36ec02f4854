package strength

import (
	"encoding/json"
	"strings"
)

type Level int

const (
	VeryWeak Level = iota
	Weak
	Medium
	Strong
	VeryStrong
)

// LevelFor maps a score to its level, checking the thresholds from the top.
func LevelFor(score int) Level {
	switch {
	case score >= 85:
		return VeryStrong
	case score >= 70:
		return Strong
	case score >= 50:
		return Medium
	case score >= 25:
		return Weak
	default:
		return VeryWeak
	}
}

func (l Level) String() string {
	switch l {
	case VeryWeak:
		return "Very Weak"
	case Weak:
		return "Weak"
	case Medium:
		return "Medium"
	case Strong:
		return "Strong"
	case VeryStrong:
		return "Very Strong"
	default:
		return "Unknown"
	}
}

// Verdict is the lowercase form stored with a security check of type "password".
func (l Level) Verdict() string {
	return strings.ToLower(l.String())
}

// Color is a display hint, from red for Very Weak to dark green for Very Strong.
func (l Level) Color() string {
	switch l {
	case VeryStrong:
		return "darkgreen"
	case Strong:
		return "green"
	case Medium:
		return "yellow"
	case Weak:
		return "orange"
	default:
		return "red"
	}
}

func (l Level) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}
