// Package featureflags evaluates deployment-level feature flags defined in a
// simple key=value list, e.g. "strict_transitions=on,review_stream=off".
package featureflags

import "strings"

// Flag names consumed by the application.
const (
	// StrictTransitions enforces the submission status transition graph
	// instead of accepting any enumerated status. Off by default; the loose
	// behavior matches the historical review workflow.
	StrictTransitions = "strict_transitions"
)

// Manager holds parsed flags.
type Manager struct {
	flags map[string]string
}

// NewManager creates a feature-flag manager from a comma-separated config string.
func NewManager(raw string) *Manager {
	out := make(map[string]string)

	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := normalize(parts[0])
		value := normalize(parts[1])
		if key == "" || value == "" {
			continue
		}
		out[key] = value
	}

	return &Manager{flags: out}
}

// Enabled returns whether a flag is switched on. Supported values:
// on/true/1 and off/false/0; anything else reads as off.
func (m *Manager) Enabled(name string) bool {
	if m == nil {
		return false
	}
	switch m.flags[normalize(name)] {
	case "on", "true", "1":
		return true
	}
	return false
}

// Raw returns a copy of configured flags.
func (m *Manager) Raw() map[string]string {
	out := make(map[string]string, len(m.flags))
	for k, v := range m.flags {
		out[k] = v
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
