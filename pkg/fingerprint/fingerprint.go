package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Generate creates a deterministic fingerprint for a value.
// The fingerprint is a SHA256 hash of its JSON encoding; struct fields keep
// declaration order and map keys are sorted, so equal values hash equally.
func Generate(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	hash := sha256.Sum256(b)
	return hex.EncodeToString(hash[:]), nil
}
