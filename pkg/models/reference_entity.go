package models

// EntityKind identifies which reference table an entity came from.
type EntityKind string

const (
	EntityKindLift EntityKind = "lift"
	EntityKindRun  EntityKind = "run"
)

// ReferenceEntity is a canonical facility record from the reference catalog.
// Name is not unique: several entities may share it.
type ReferenceEntity struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	ScopeIDs []string   `json:"scope_ids"`
	Kind     EntityKind `json:"kind"`
	// CategoryAttribute is the lift type for lifts and the difficulty for runs.
	// Empty when the reference row carries none.
	CategoryAttribute string `json:"category_attribute,omitempty"`
}
