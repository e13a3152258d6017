package environment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOsEnvProvider(t *testing.T) {
	t.Setenv("TEST1", "VALUE1")
	t.Setenv("TEST2", "VALUE2")

	provider := NewOsEnvProvider()

	value, ok := provider.Get(t.Context(), "TEST1")
	assert.True(t, ok)
	assert.Equal(t, "VALUE1", value)

	value, ok = provider.Get(t.Context(), "TEST2")
	assert.True(t, ok)
	assert.Equal(t, "VALUE2", value)

	value, ok = provider.Get(t.Context(), "DOES_NOT_EXIST_BKMR")
	assert.False(t, ok)
	assert.Empty(t, value)
}

func TestEnvListProvider(t *testing.T) {
	provider := NewEnvListProvider([]string{"NAME=LSP", "EMPTY="})

	value, ok := provider.Get(t.Context(), "NAME")
	assert.True(t, ok)
	assert.Equal(t, "LSP", value)

	value, ok = provider.Get(t.Context(), "EMPTY")
	assert.True(t, ok)
	assert.Empty(t, value)

	_, ok = provider.Get(t.Context(), "MISSING")
	assert.False(t, ok)
}
