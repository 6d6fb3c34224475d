package models

// ExtractedRecord is a facility as reported by a resort source.
type ExtractedRecord struct {
	Name string `json:"name"`
	Hint Hint   `json:"hint,omitzero"`
	// Status is the raw operating status string. It plays no part in matching.
	Status string `json:"status,omitempty"`
}
