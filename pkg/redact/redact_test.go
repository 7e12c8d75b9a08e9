package redact

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMask(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"empty", "", ""},
		{"short", "abc", "***"},
		{"six chars", "abcdef", "***"},
		{"seven chars", "abcdefg", "abc***efg"},
		{"session id", "abcdef123456", "abc***456"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Mask(tt.value))
		})
	}
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint("abcdef123456")

	assert.Len(t, a, 32)
	assert.Equal(t, a, Fingerprint("abcdef123456"))
	assert.NotEqual(t, a, Fingerprint("abcdef123457"))
	assert.NotContains(t, a, "abcdef")
}
