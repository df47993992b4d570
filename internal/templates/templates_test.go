package templates

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_FallsBackToEnglish(t *testing.T) {
	for _, lang := range []string{"", "EN", "de"} {
		bundle, err := Load(lang)
		require.NoError(t, err)
		require.Equal(t, "en", bundle.Lang())
	}
}

func TestRender(t *testing.T) {
	en, err := Load("en")
	require.NoError(t, err)
	msg, err := en.Render("cli.parse_invalid", map[string]any{"Path": "/srv/dimer.json", "Count": 2})
	require.NoError(t, err)
	require.Equal(t, "/srv/dimer.json has 2 problem(s)", msg)

	ru, err := Load("ru")
	require.NoError(t, err)
	msg, err = ru.Render("tool.init_created", map[string]any{"Path": "dimer.json"})
	require.NoError(t, err)
	require.Equal(t, "Создан dimer.json", msg)
}

func TestRender_Errors(t *testing.T) {
	bundle, err := Load("en")
	require.NoError(t, err)

	_, err = bundle.Render("missing.key", nil)
	require.ErrorContains(t, err, "template not found")

	_, err = bundle.Render("limits.max_total", map[string]any{})
	require.Error(t, err)

	var nilBundle *Bundle
	_, err = nilBundle.Render("limits.max_total", nil)
	require.Error(t, err)
}

func TestCatalogsShareKeys(t *testing.T) {
	en, err := Load("en")
	require.NoError(t, err)
	ru, err := Load("ru")
	require.NoError(t, err)

	require.Len(t, ru.templates, len(en.templates))
	for key := range en.templates {
		require.Contains(t, ru.templates, key)
	}
}

func TestText(t *testing.T) {
	bundle, err := Load("en")
	require.NoError(t, err)

	require.Equal(t, "Created dimer.json", Text(bundle, "cli.init_created", map[string]any{"Path": "dimer.json"}, "fallback"))
	require.Equal(t, "fallback", Text(bundle, "missing.key", nil, "fallback"))
	require.Equal(t, "fallback", Text(nil, "cli.init_created", nil, "fallback"))
}
