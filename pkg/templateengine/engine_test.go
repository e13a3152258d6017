package templateengine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysid/bkmr/pkg/environment"
)

func TestRenderEnvGlobalWithDefault(t *testing.T) {
	env := environment.NewEnvListProvider([]string{"NAME=LSP"})
	e := NewEngine(env, nil)

	out, err := e.Render(context.Background(), "echo {{ env('NAME','World') }}!")
	require.NoError(t, err)
	assert.Equal(t, "echo LSP!", out)

	out, err = e.Render(context.Background(), "{{ env('MISSING','fallback') }}")
	require.NoError(t, err)
	assert.Equal(t, "fallback", out)
}

func TestRenderRawEscapePassesThrough(t *testing.T) {
	e := NewEngine(environment.NewEnvListProvider(nil), nil)
	input := "export DB={% raw %}${DB_URL}{% endraw %}"
	out, err := e.Render(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "export DB=${DB_URL}", out)
}

func TestRenderShellFilter(t *testing.T) {
	e := NewEngine(environment.NewEnvListProvider(nil), func(ctx context.Context, cmd string) (string, error) {
		return "captured:" + cmd, nil
	})
	out, err := e.Render(context.Background(), "{{ 'whoami' | shell }}")
	require.NoError(t, err)
	assert.Equal(t, "captured:whoami", out)
}

func TestRenderDateFilters(t *testing.T) {
	e := NewEngine(environment.NewEnvListProvider(nil), nil)
	e.Now = func() time.Time { return time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC) }

	out, err := e.Render(context.Background(), "{{ current_date | subtract_days(1) }}")
	require.NoError(t, err)
	assert.Equal(t, "2026-07-30", out)

	out, err = e.Render(context.Background(), "{{ current_date | add_days(2) }}")
	require.NoError(t, err)
	assert.Equal(t, "2026-08-02", out)
}

func TestRenderUnknownFilterReturnsTemplateError(t *testing.T) {
	e := NewEngine(environment.NewEnvListProvider(nil), nil)
	_, err := e.Render(context.Background(), "{{ current_date | bogus }}")
	require.Error(t, err)
	var terr *TemplateError
	assert.ErrorAs(t, err, &terr)
}
