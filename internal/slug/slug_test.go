package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "America 2025", "america-2025"},
		{"uppercase", "SUMMER Gala", "summer-gala"},
		{"punctuation stripped", "Bob's Big Event!", "bobs-big-event"},
		{"underscores collapse", "hello__world", "hello-world"},
		{"mixed separators", "a _- b", "a-b"},
		{"leading and trailing junk", "  --wedding--  ", "wedding"},
		{"empty falls back", "", "project"},
		{"only invalid chars falls back", "!!!", "project"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestMakeUniqueness(t *testing.T) {
	assert.Equal(t, "project", Make("", nil))
	assert.Equal(t, "america-2025", Make("America 2025", nil))
	assert.Equal(t, "test", Make("test", []string{"other"}))
	assert.Equal(t, "test-1", Make("test", []string{"test"}))
	assert.Equal(t, "test-2", Make("test", []string{"test", "test-1"}))
	assert.Equal(t, "test-3", Make("test", []string{"test", "test-1", "test-2"}))
}

func TestMakeAlwaysValidAndUnused(t *testing.T) {
	existing := []string{"gala", "gala-1", "project"}
	inputs := []string{"Gala", "", "  --  ", "Ünïcode Päry", "a_b_c"}

	for _, in := range inputs {
		got := Make(in, existing)
		assert.True(t, IsValid(got), "Make(%q) produced invalid slug %q", in, got)
		assert.NotContains(t, existing, got)
	}
}

func TestIsValid(t *testing.T) {
	valid := []string{"a", "abc", "a-b", "summer-gala-2025", "x1-2y"}
	invalid := []string{"", "-abc", "abc-", "a--b", "ABC", "a_b", "a b", "é"}

	for _, s := range valid {
		assert.True(t, IsValid(s), "expected %q valid", s)
	}
	for _, s := range invalid {
		assert.False(t, IsValid(s), "expected %q invalid", s)
	}
}
