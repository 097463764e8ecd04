package markdown

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

// stripANSI removes ANSI escape codes from a string for easier testing.
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

func TestNew(t *testing.T) {
	r, err := New(80, "")
	require.NoError(t, err, "unexpected error")
	require.NotNil(t, r, "expected non-nil renderer")
	require.Equal(t, 80, r.Width())
}

func TestNew_LightStyle(t *testing.T) {
	r, err := New(76, "light")
	require.NoError(t, err)
	require.NotNil(t, r)
}

func TestRenderer_Render_Heading(t *testing.T) {
	r, err := New(80, "")
	require.NoError(t, err, "New error")

	result, err := r.Render("# Cartão CNPJ\n\nConteúdo")
	require.NoError(t, err, "Render error")

	stripped := stripANSI(result)
	require.Contains(t, stripped, "Cartão CNPJ")
	require.Contains(t, stripped, "Conteúdo")
}

func TestRenderer_Render_LabelList(t *testing.T) {
	r, err := New(80, "")
	require.NoError(t, err, "New error")

	result, err := r.Render("- **CNPJ:** 11.222.333/0001-81\n- **UF:** SP")
	require.NoError(t, err, "Render error")

	// Strip ANSI codes since glamour inserts codes between characters
	stripped := stripANSI(result)
	require.Contains(t, stripped, "11.222.333/0001-81")
	require.Contains(t, stripped, "UF")
}

func TestRenderer_Render_EmptyString(t *testing.T) {
	r, err := New(80, "")
	require.NoError(t, err, "New error")

	result, err := r.Render("")
	require.NoError(t, err, "Render error")

	require.LessOrEqual(t, len(result), 10, "expected minimal output for empty string, got: %q", result)
}
