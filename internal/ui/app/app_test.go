package app

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/exp/teatest"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/require"

	"github.com/rafaelsouza280292/consulta-cnpj/internal/config"
	"github.com/rafaelsouza280292/consulta-cnpj/internal/pubsub"
	"github.com/rafaelsouza280292/consulta-cnpj/internal/registry"
	"github.com/rafaelsouza280292/consulta-cnpj/internal/session"
	"github.com/rafaelsouza280292/consulta-cnpj/internal/watcher"
)

func TestMain(m *testing.M) {
	zone.NewGlobal()
	m.Run()
}

const sampleBody = `{
	"taxId": "11222333000181",
	"alias": "Empresa Exemplo",
	"founded": "2010-05-20",
	"status": {"text": "Ativa"},
	"company": {
		"name": "Empresa Exemplo LTDA",
		"equity": 150000,
		"members": [
			{"person": {"name": "Maria da Silva"}, "role": {"text": "Sócio-Administrador"}}
		]
	},
	"address": {
		"street": "Rua das Flores",
		"number": "100",
		"district": "Centro",
		"city": "São Paulo",
		"state": "SP",
		"zip": "01001000"
	},
	"mainActivity": {"id": 6201501, "text": "Desenvolvimento de programas de computador sob encomenda"},
	"sideActivities": [],
	"registrations": []
}`

func newTestModel(t *testing.T, handler http.HandlerFunc) Model {
	t.Helper()

	var opts []registry.Option
	if handler != nil {
		server := httptest.NewServer(handler)
		t.Cleanup(server.Close)
		opts = append(opts, registry.WithBaseURL(server.URL))
	}
	client := registry.NewClient(opts...)
	t.Cleanup(client.Close)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	cfg := config.Defaults()
	cfg.Export.Dir = t.TempDir()

	return New(ctx, Options{
		Client:  client,
		Session: session.New(),
		Config:  cfg,
	})
}

func TestView_EmptyState(t *testing.T) {
	m := newTestModel(t, nil)

	view := ansi.Strip(m.View())
	require.Contains(t, view, "Digite um CNPJ e pressione Enter")
	require.Contains(t, view, "Geral")
	require.Contains(t, view, "Cartão")
}

func TestUpdate_InputMasksAsTyped(t *testing.T) {
	m := newTestModel(t, nil)

	var model tea.Model = m
	for _, r := range "11222333000181" {
		model, _ = model.(Model).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	require.Equal(t, "11.222.333/0001-81", model.(Model).input.Value())
}

func TestUpdate_InputIgnoresLetters(t *testing.T) {
	m := newTestModel(t, nil)

	var model tea.Model = m
	for _, r := range "11abc222" {
		model, _ = model.(Model).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	require.Equal(t, "11.222", model.(Model).input.Value())
}

func TestUpdate_InvalidCodeShowsToastWithoutNetwork(t *testing.T) {
	m := newTestModel(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be made for invalid input")
	})
	m.input.SetValue("123")

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	updated := model.(Model)

	require.True(t, updated.toast.Visible())
	require.Contains(t, ansi.Strip(updated.toast.View()), "CNPJ inválido. Digite 14 dígitos numéricos.")
	require.False(t, updated.looking)
}

func TestView_LoadingIndicator(t *testing.T) {
	m := newTestModel(t, nil)
	m.looking = true

	require.Contains(t, ansi.Strip(m.View()), "Consultando...")
}

func TestView_StatusBarShowsHeldResult(t *testing.T) {
	m := newTestModel(t, nil)

	require.NotContains(t, ansi.Strip(m.View()), "✓")

	model, _ := m.Update(lookupResultMsg{
		code:   "11222333000181",
		record: &registry.Record{Company: registry.Company{Name: "Empresa Exemplo LTDA"}},
	})

	require.Contains(t, ansi.Strip(model.(Model).View()), "✓ 11.222.333/0001-81")
}

func TestUpdate_TabCycling(t *testing.T) {
	m := newTestModel(t, nil)

	var model tea.Model = m
	model, _ = model.(Model).Update(tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, tabAddress, model.(Model).activeTab)

	model, _ = model.(Model).Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	model, _ = model.(Model).Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	require.Equal(t, tabCard, model.(Model).activeTab)
}

func TestUpdate_LookupResultError(t *testing.T) {
	m := newTestModel(t, nil)

	model, _ := m.Update(lookupResultMsg{
		code: "11222333000181",
		err: &registry.Failure{
			Kind:    registry.KindNotFound,
			Message: "CNPJ 11222333000181 não encontrado ou inválido na base da API.",
		},
	})
	updated := model.(Model)

	require.Contains(t, ansi.Strip(updated.View()), "não encontrado ou inválido na base da API")
	require.Nil(t, updated.sections)
}

func TestUpdate_ExportWithoutResult(t *testing.T) {
	m := newTestModel(t, nil)

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlE})
	updated := model.(Model)

	require.True(t, updated.toast.Visible())
	require.Contains(t, ansi.Strip(updated.toast.View()), "Nenhum resultado para exportar.")
}

func TestApp_LookupFlowRendersResult(t *testing.T) {
	m := newTestModel(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleBody))
	})

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(100, 32))

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("11222333000181")})
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("Empresa Exemplo LTDA"))
	}, teatest.WithDuration(5*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))
}

func TestUpdate_ConfigChangeTriggersReload(t *testing.T) {
	m := newTestModel(t, nil)

	reloaded := config.Defaults()
	reloaded.Theme.Highlight = "#ABCDEF"
	m.reload = func() (config.Config, error) { return reloaded, nil }

	model, cmd := m.Update(pubsub.Event[watcher.ChangeEvent]{
		Type:    pubsub.UpdatedEvent,
		Payload: watcher.ChangeEvent{Path: "config.yaml"},
	})
	require.NotNil(t, cmd)

	// The reload command resolves to a configReloadedMsg carrying the
	// fresh settings.
	model, _ = model.(Model).Update(configReloadedMsg{cfg: reloaded})
	updated := model.(Model)

	require.Equal(t, "#ABCDEF", updated.cfg.Theme.Highlight)
	require.True(t, updated.toast.Visible())
}

func TestCardMarkdown(t *testing.T) {
	m := newTestModel(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleBody))
	})

	record, err := m.client.Lookup(context.Background(), "11222333000181")
	require.NoError(t, err)

	m.sess.Store("11222333000181", record, time.Date(2026, 8, 23, 10, 30, 0, 0, time.UTC))

	var model tea.Model
	model, _ = m.Update(lookupResultMsg{code: "11222333000181", record: record})
	updated := model.(Model)
	updated.activeTab = tabCard

	view := ansi.Strip(updated.View())
	require.Contains(t, view, "Cartão CNPJ")
	require.Contains(t, view, "Empresa Exemplo LTDA")
}
