// Package status maps raw multilingual facility status strings to a normalized status.
package status

import (
	"strings"

	"github.com/Ramsey-B/edelweiss/pkg/models"
	"github.com/Ramsey-B/edelweiss/pkg/normalizers"
)

var known = map[string]models.Status{
	// English
	"open":               models.StatusOpen,
	"opened":             models.StatusOpen,
	"operating":          models.StatusOpen,
	"running":            models.StatusOpen,
	"available":          models.StatusOpen,
	"in service":         models.StatusOpen,
	"closed":             models.StatusClosed,
	"close":              models.StatusClosed,
	"not operating":      models.StatusClosed,
	"unavailable":        models.StatusClosed,
	"out of service":     models.StatusClosed,
	"stopped":            models.StatusClosed,
	"suspended":          models.StatusClosed,
	"on hold":            models.StatusClosed,
	"maintenance":        models.StatusClosed,
	"wind hold":          models.StatusClosed,
	"forecast":           models.StatusExpectedToOpen,
	"scheduled":          models.StatusExpectedToOpen,
	"expected":           models.StatusExpectedToOpen,
	"planned":            models.StatusExpectedToOpen,
	"opening soon":       models.StatusExpectedToOpen,
	"will open":          models.StatusExpectedToOpen,
	"waiting":            models.StatusExpectedToOpen,
	"out of period":      models.StatusNotExpectedToOpen,
	"out of season":      models.StatusNotExpectedToOpen,
	"seasonal closure":   models.StatusNotExpectedToOpen,
	"not available":      models.StatusNotExpectedToOpen,
	"permanently closed": models.StatusNotExpectedToOpen,
	"decommissioned":     models.StatusNotExpectedToOpen,

	// French
	"ouvert":            models.StatusOpen,
	"ouverte":           models.StatusOpen,
	"en service":        models.StatusOpen,
	"en fonctionnement": models.StatusOpen,
	"ferme":             models.StatusClosed,
	"fermee":            models.StatusClosed,
	"hors service":      models.StatusClosed,
	"suspendu":          models.StatusClosed,
	"arrete":            models.StatusClosed,
	"arret vent":        models.StatusClosed,
	"en attente":        models.StatusExpectedToOpen,
	"prevu":             models.StatusExpectedToOpen,
	"prevision":         models.StatusExpectedToOpen,
	"hors periode":      models.StatusNotExpectedToOpen,
	"hors saison":       models.StatusNotExpectedToOpen,

	// German
	"offen":                 models.StatusOpen,
	"geoffnet":              models.StatusOpen,
	"in betrieb":            models.StatusOpen,
	"geschlossen":           models.StatusClosed,
	"gesperrt":              models.StatusClosed,
	"außer betrieb":         models.StatusClosed,
	"ausser betrieb":        models.StatusClosed,
	"wind pause":            models.StatusClosed,
	"geplant":               models.StatusExpectedToOpen,
	"erwartet":              models.StatusExpectedToOpen,
	"saisonschluss":         models.StatusNotExpectedToOpen,
	"außerhalb der saison":  models.StatusNotExpectedToOpen,
	"ausserhalb der saison": models.StatusNotExpectedToOpen,

	// Italian
	"aperto":         models.StatusOpen,
	"aperta":         models.StatusOpen,
	"in funzione":    models.StatusOpen,
	"chiuso":         models.StatusClosed,
	"chiusa":         models.StatusClosed,
	"fuori servizio": models.StatusClosed,
	"sospeso":        models.StatusClosed,
	"previsto":       models.StatusExpectedToOpen,
	"programmato":    models.StatusExpectedToOpen,
	"fuori stagione": models.StatusNotExpectedToOpen,

	// Spanish
	"abierto":            models.StatusOpen,
	"abierta":            models.StatusOpen,
	"operativo":          models.StatusOpen,
	"cerrado":            models.StatusClosed,
	"cerrada":            models.StatusClosed,
	"suspendido":         models.StatusClosed,
	"programado":         models.StatusExpectedToOpen,
	"fuera de temporada": models.StatusNotExpectedToOpen,
}

// compact indexes the table by key with spaces removed, for sources that
// send identifiers like OUT_OF_PERIOD or OUTOFSEASON.
var compact = func() map[string]models.Status {
	m := make(map[string]models.Status, len(known))
	for k, v := range known {
		m[strings.ReplaceAll(k, " ", "")] = v
	}
	return m
}()

// Lookup returns the normalized status of a raw status string and whether it is known.
func Lookup(raw string) (models.Status, bool) {
	key := normalizers.ApplyChain(raw, "trim", "lowercase", "compose", "fold_accents", "collapse_separators", "trim")
	if key == "" {
		return models.StatusUnknown, false
	}

	if s, ok := known[key]; ok {
		return s, true
	}
	if s, ok := compact[strings.ReplaceAll(key, " ", "")]; ok {
		return s, true
	}
	return models.StatusUnknown, false
}

// Normalize returns the normalized status of a raw status string, or unknown.
func Normalize(raw string) models.Status {
	s, _ := Lookup(raw)
	return s
}
