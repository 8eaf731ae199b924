package agents

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTool struct {
	name string
}

func (s *stubTool) Name() string        { return s.name }
func (s *stubTool) Description() string { return "stub" }

// TestRegistry_RegisterAndGet verifies basic registration and lookup
func TestRegistry_RegisterAndGet(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(&stubTool{name: "alpha"}))

	tool, err := registry.Get("alpha")
	require.NoError(t, err)
	assert.Equal(t, "alpha", tool.Name())
}

// TestRegistry_UnknownCapability verifies the typed error for missing tools
func TestRegistry_UnknownCapability(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.Get("nonexistent")
	require.Error(t, err)

	var unknownErr *UnknownToolError
	require.True(t, errors.As(err, &unknownErr))
	assert.Equal(t, "nonexistent", unknownErr.Capability)
	t.Log("PASS: Unknown capability surfaces as UnknownToolError")
}

// TestRegistry_DuplicateRegistration verifies duplicate names are rejected
func TestRegistry_DuplicateRegistration(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(&stubTool{name: "alpha"}))

	err := registry.Register(&stubTool{name: "alpha"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

// TestRegistry_EmptyNameRejected verifies nameless tools are rejected
func TestRegistry_EmptyNameRejected(t *testing.T) {
	registry := NewRegistry()
	assert.Error(t, registry.Register(&stubTool{name: ""}))
}

// TestRegistry_NamesSorted verifies capability enumeration is sorted
func TestRegistry_NamesSorted(t *testing.T) {
	registry := NewRegistry()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, registry.Register(&stubTool{name: name}))
	}

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, registry.Names())
}
