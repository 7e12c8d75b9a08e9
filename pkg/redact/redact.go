// Package redact keeps upstream secrets out of logs and storage keys.
package redact

import (
	"crypto/sha256"
	"encoding/hex"
)

// Mask shows the first and last three characters of value. Values of six
// characters or fewer are fully hidden; an empty value stays empty.
func Mask(value string) string {
	if value == "" {
		return ""
	}
	runes := []rune(value)
	if len(runes) <= 6 {
		return "***"
	}
	return string(runes[:3]) + "***" + string(runes[len(runes)-3:])
}

// Fingerprint is a stable, non-reversible identifier for a secret, used where
// a session has to be referenced without storing it.
func Fingerprint(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:16])
}
