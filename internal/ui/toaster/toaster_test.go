package toaster

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	m := New()

	assert.False(t, m.Visible())
	assert.Empty(t, m.View())
}

func TestShow(t *testing.T) {
	m := New().Show("Consulta concluída", StyleSuccess)

	assert.True(t, m.Visible())
	assert.Contains(t, m.View(), "Consulta concluída")
}

func TestHide(t *testing.T) {
	m := New().Show("Consulta concluída", StyleSuccess).Hide()

	assert.False(t, m.Visible())
	assert.Empty(t, m.View())
}

func TestShow_ReplacesExisting(t *testing.T) {
	m := New().
		Show("Primeira", StyleSuccess).
		Show("Segunda", StyleError)

	assert.True(t, m.Visible())
	assert.Contains(t, m.View(), "Segunda")
	assert.NotContains(t, m.View(), "Primeira")
}

func TestView_EmptyWhenMessageEmpty(t *testing.T) {
	m := Model{visible: true, message: ""}

	assert.Empty(t, m.View())
}

func TestView_StyleSuccess(t *testing.T) {
	view := New().Show("Exportado!", StyleSuccess).View()

	assert.Contains(t, view, "✅")
	assert.Contains(t, view, "Exportado!")
	assert.Contains(t, view, "╭") // Rounded border corner
}

func TestView_StyleError(t *testing.T) {
	view := New().Show("Erro de conexão", StyleError).View()

	assert.Contains(t, view, "❌")
	assert.Contains(t, view, "Erro de conexão")
	assert.Contains(t, view, "╭")
}

func TestView_StyleInfo(t *testing.T) {
	view := New().Show("Configuração recarregada", StyleInfo).View()

	assert.Contains(t, view, "ℹ️")
	assert.Contains(t, view, "Configuração recarregada")
	assert.Contains(t, view, "╭")
}

func TestView_StyleWarn(t *testing.T) {
	view := New().Show("Limite de requisições atingido", StyleWarn).View()

	assert.Contains(t, view, "⚠️")
	assert.Contains(t, view, "Limite de requisições atingido")
	assert.Contains(t, view, "╭")
}

func TestScheduleDismiss(t *testing.T) {
	cmd := ScheduleDismiss(0)
	assert.NotNil(t, cmd)
}

func TestShow_ImmutableModel(t *testing.T) {
	m1 := New()
	m2 := m1.Show("Olá", StyleSuccess)

	assert.False(t, m1.Visible())
	assert.True(t, m2.Visible())
}
