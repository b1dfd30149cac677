package config

import "strings"

// Toggle is a boolean environment value that remembers whether it was set.
// Unrecognised values are treated as unset.
type Toggle struct {
	set   bool
	value bool
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *Toggle) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "1", "true", "yes", "y", "on":
		*t = Toggle{set: true, value: true}
	case "0", "false", "no", "n", "off":
		*t = Toggle{set: true, value: false}
	default:
		*t = Toggle{}
	}
	return nil
}

// Or returns the toggle's value, or fallback when it was not set
func (t Toggle) Or(fallback bool) bool {
	if !t.set {
		return fallback
	}
	return t.value
}
