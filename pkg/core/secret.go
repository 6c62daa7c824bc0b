package core

import (
	"encoding/json"
	"log/slog"
	"unicode/utf8"
)

// PreviewSuffix is appended to every secret preview.
const PreviewSuffix = "..."

// Secret represents sensitive values that should be redacted in log and notification output.
type Secret struct {
	Value string
	// Source names where the value came from, e.g. the environment variable.
	Source string
}

// NewSecret wraps a raw value as a Secret.
func NewSecret(value, source string) Secret {
	return Secret{Value: value, Source: source}
}

// Empty reports whether the secret carries no value.
func (s Secret) Empty() bool {
	return s.Value == ""
}

// Redacted returns a redacted representation for display.
func (s Secret) Redacted() string {
	if s.Value == "" {
		return ""
	}
	return "REDACTED"
}

// Preview returns the first n characters of the value followed by "...".
// Values shorter than n are shown in full before the suffix.
func (s Secret) Preview(n int) string {
	if n <= 0 {
		return PreviewSuffix
	}
	if utf8.RuneCountInString(s.Value) <= n {
		return s.Value + PreviewSuffix
	}
	runes := []rune(s.Value)
	return string(runes[:n]) + PreviewSuffix
}

// MarshalJSON ensures secrets are never serialized in cleartext.
func (s Secret) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Redacted())
}

// String returns the redacted value for fmt printing.
func (s Secret) String() string {
	return s.Redacted()
}

// LogValue keeps slog from printing the cleartext value.
func (s Secret) LogValue() slog.Value {
	return slog.StringValue(s.Redacted())
}
