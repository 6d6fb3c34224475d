package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// HintKind tags which categorical attribute a Hint refers to.
type HintKind string

const (
	HintKindNone       HintKind = ""
	HintKindLiftType   HintKind = "lift_type"
	HintKindDifficulty HintKind = "difficulty"
)

// Hint is an optional categorical attribute reported by a source next to a
// facility name. It is used only to narrow ambiguous matches.
type Hint struct {
	Kind  HintKind `json:"kind,omitempty"`
	Value string   `json:"value,omitempty"`
}

// NoHint returns the empty hint.
func NoHint() Hint { return Hint{} }

// LiftTypeHint returns a hint on the lift type of a facility.
func LiftTypeHint(value string) Hint {
	return newHint(HintKindLiftType, value)
}

// DifficultyHint returns a hint on the difficulty of a run.
func DifficultyHint(value string) Hint {
	return newHint(HintKindDifficulty, value)
}

func newHint(kind HintKind, value string) Hint {
	value = strings.TrimSpace(value)
	if value == "" {
		return Hint{}
	}
	return Hint{Kind: kind, Value: value}
}

// IsNone reports whether the hint carries no information.
func (h Hint) IsNone() bool {
	return h.Kind == HintKindNone || strings.TrimSpace(h.Value) == ""
}

// AppliesTo reports whether the hint describes the category attribute of the given kind.
func (h Hint) AppliesTo(kind EntityKind) bool {
	switch h.Kind {
	case HintKindLiftType:
		return kind == EntityKindLift
	case HintKindDifficulty:
		return kind == EntityKindRun
	default:
		return false
	}
}

// Matches reports whether the entity's category attribute agrees with the hint.
func (h Hint) Matches(entity ReferenceEntity) bool {
	if h.IsNone() || !h.AppliesTo(entity.Kind) {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(entity.CategoryAttribute), strings.TrimSpace(h.Value))
}

func (h Hint) String() string {
	if h.IsNone() {
		return "none"
	}
	return fmt.Sprintf("%s=%s", h.Kind, h.Value)
}

// ForKind types a kindless hint for records of the given entity kind: lift
// type for lifts, difficulty for runs. Typed hints are returned unchanged.
func (h Hint) ForKind(kind EntityKind) Hint {
	if h.Kind != HintKindNone {
		return h
	}
	if kind == EntityKindRun {
		return DifficultyHint(h.Value)
	}
	return LiftTypeHint(h.Value)
}

// UnmarshalJSON accepts either a bare string, which yields a kindless hint, or
// a {kind, value} object. Unknown kinds are rejected.
func (h *Hint) UnmarshalJSON(data []byte) error {
	var value string
	if err := json.Unmarshal(data, &value); err == nil {
		*h = newHint(HintKindNone, value)
		return nil
	}

	var raw struct {
		Kind  HintKind `json:"kind"`
		Value string   `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw.Kind {
	case HintKindNone, HintKindLiftType, HintKindDifficulty:
	default:
		return fmt.Errorf("unknown hint kind %q", raw.Kind)
	}
	*h = newHint(raw.Kind, raw.Value)
	return nil
}
