package resolver

import (
	"encoding/json"
	"errors"

	"github.com/Ramsey-B/edelweiss/pkg/extractor"
	"github.com/Ramsey-B/edelweiss/pkg/models"
)

var (
	// ErrNoScope is returned when a request names neither a resort nor scope ids.
	ErrNoScope = errors.New("a resort id or at least one scope id is required")
	// ErrUnknownResort is returned when a request names a resort missing from the registry.
	ErrUnknownResort = errors.New("unknown resort")
	// ErrInvalidPayload is returned when a raw payload cannot be extracted.
	ErrInvalidPayload = errors.New("invalid payload")
)

// Request asks for the facilities of one resort to be resolved. Records may be
// given directly, extracted from a raw payload, or both.
type Request struct {
	ResortID   string                   `json:"resort_id,omitempty"`
	ScopeIDs   []string                 `json:"scope_ids,omitempty"`
	Lifts      []models.ExtractedRecord `json:"lifts,omitempty" validate:"dive"`
	Runs       []models.ExtractedRecord `json:"runs,omitempty" validate:"dive"`
	Payload    json.RawMessage          `json:"payload,omitempty"`
	Extraction *extractor.Mapping       `json:"extraction,omitempty"`
}

// Outcome pairs a resolution with the error that prevented it, for batch calls.
type Outcome struct {
	Resolution *models.Resolution `json:"resolution,omitempty"`
	Err        error              `json:"-"`
	Error      string             `json:"error,omitempty"`
}

// cacheKey holds what determines a resolution's content.
type cacheKey struct {
	ScopeIDs []string                 `json:"scope_ids"`
	Lifts    []models.ExtractedRecord `json:"lifts"`
	Runs     []models.ExtractedRecord `json:"runs"`
}
