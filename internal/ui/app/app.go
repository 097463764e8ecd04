// Package app contains the root Bubble Tea model: the CNPJ input, the
// lookup lifecycle, the tabbed result display, and export actions.
package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/rafaelsouza280292/consulta-cnpj/internal/cnpj"
	"github.com/rafaelsouza280292/consulta-cnpj/internal/config"
	"github.com/rafaelsouza280292/consulta-cnpj/internal/export"
	"github.com/rafaelsouza280292/consulta-cnpj/internal/keys"
	"github.com/rafaelsouza280292/consulta-cnpj/internal/log"
	"github.com/rafaelsouza280292/consulta-cnpj/internal/presentation"
	"github.com/rafaelsouza280292/consulta-cnpj/internal/pubsub"
	"github.com/rafaelsouza280292/consulta-cnpj/internal/registry"
	"github.com/rafaelsouza280292/consulta-cnpj/internal/session"
	"github.com/rafaelsouza280292/consulta-cnpj/internal/ui/markdown"
	"github.com/rafaelsouza280292/consulta-cnpj/internal/ui/styles"
	"github.com/rafaelsouza280292/consulta-cnpj/internal/ui/toaster"
	"github.com/rafaelsouza280292/consulta-cnpj/internal/watcher"
)

// Tab indices, in display order.
const (
	tabGeneral = iota
	tabAddress
	tabActivities
	tabMembers
	tabRegistrations
	tabCard
	tabCount
)

var tabNames = [tabCount]string{"Geral", "Endereço", "Atividades", "Sócios", "Inscrições", "Cartão"}

// tabZoneID returns the bubblezone ID for a tab.
func tabZoneID(i int) string {
	return fmt.Sprintf("tab-%d", i)
}

const toastDuration = 4 * time.Second

// lookupResultMsg carries the outcome of a finished lookup.
type lookupResultMsg struct {
	code   string
	record *registry.Record
	err    error
}

// exportDoneMsg carries the outcome of a file export.
type exportDoneMsg struct {
	path string
	err  error
}

// configReloadedMsg carries a freshly re-read configuration.
type configReloadedMsg struct {
	cfg config.Config
	err error
}

// ReloadFunc re-reads the configuration from disk.
type ReloadFunc func() (config.Config, error)

// Options wires the model's collaborators.
type Options struct {
	Client  *registry.Client
	Session *session.State
	Config  config.Config

	// ConfigPath is where status bar toggles are persisted. Empty disables
	// persistence.
	ConfigPath string

	// Reload and ConfigEvents enable live config reload. Both may be nil.
	Reload       ReloadFunc
	ConfigEvents *pubsub.Broker[watcher.ChangeEvent]
}

// Model is the root TUI model.
type Model struct {
	ctx     context.Context
	client  *registry.Client
	sess    *session.State
	cfg     config.Config
	cfgPath string
	reload  ReloadFunc

	input textinput.Model
	spin  spinner.Model
	keys  keys.KeyMap
	toast toaster.Model

	notices      *pubsub.ContinuousListener[registry.Notice]
	configEvents *pubsub.ContinuousListener[watcher.ChangeEvent]
	md           *markdown.Renderer

	activeTab int
	sections  []presentation.Section
	errMsg    string
	looking   bool

	width  int
	height int
}

// New creates the root model. ctx scopes the in-flight lookup and the
// notice subscription; cancel it on shutdown.
func New(ctx context.Context, opts Options) Model {
	input := textinput.New()
	input.Placeholder = "00.000.000/0000-00"
	input.CharLimit = 18
	input.Width = 24
	input.PlaceholderStyle = lipgloss.NewStyle().Foreground(styles.TextPlaceholderColor)
	input.Focus()

	spin := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(styles.SpinnerColor)),
	)

	md, err := markdown.New(76, opts.Config.UI.MarkdownStyle)
	if err != nil {
		// The card tab falls back to plain text.
		log.ErrorErr(log.CatUI, "Markdown renderer init failed", err)
		md = nil
	}

	var configEvents *pubsub.ContinuousListener[watcher.ChangeEvent]
	if opts.ConfigEvents != nil {
		configEvents = pubsub.NewContinuousListener(ctx, opts.ConfigEvents)
	}

	return Model{
		ctx:          ctx,
		client:       opts.Client,
		sess:         opts.Session,
		cfg:          opts.Config,
		cfgPath:      opts.ConfigPath,
		reload:       opts.Reload,
		input:        input,
		spin:         spin,
		keys:         keys.DefaultKeyMap(),
		toast:        toaster.New(),
		notices:      pubsub.NewContinuousListener(ctx, opts.Client.Notices()),
		configEvents: configEvents,
		md:           md,
	}
}

// Init starts the input cursor blink and the background listeners.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.notices.Listen(), m.configListenCmd())
}

// configListenCmd waits for the next config file change event.
func (m Model) configListenCmd() tea.Cmd {
	if m.configEvents == nil {
		return nil
	}
	return m.configEvents.Listen()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case spinner.TickMsg:
		if !m.looking {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case lookupResultMsg:
		return m.handleLookupResult(msg)

	case pubsub.Event[registry.Notice]:
		m.toast = m.toast.Show(msg.Payload.Message, toaster.StyleWarn)
		// Keep the wait notice visible while short waits elapse.
		dismiss := msg.Payload.Wait
		if dismiss > toastDuration {
			dismiss = toastDuration
		}
		return m, tea.Batch(m.notices.Listen(), toaster.ScheduleDismiss(dismiss))

	case exportDoneMsg:
		if msg.err != nil {
			m.toast = m.toast.Show(fmt.Sprintf("Erro ao exportar: %v", msg.err), toaster.StyleError)
		} else {
			m.toast = m.toast.Show(fmt.Sprintf("Exportado: %s", msg.path), toaster.StyleSuccess)
		}
		return m, toaster.ScheduleDismiss(toastDuration)

	case pubsub.Event[watcher.ChangeEvent]:
		if m.reload == nil {
			return m, m.configListenCmd()
		}
		reload := m.reload
		return m, tea.Batch(m.configListenCmd(), func() tea.Msg {
			cfg, err := reload()
			return configReloadedMsg{cfg: cfg, err: err}
		})

	case configReloadedMsg:
		if msg.err != nil {
			log.ErrorErr(log.CatConfig, "Config reload failed", msg.err)
			m.toast = m.toast.Show(fmt.Sprintf("Erro ao recarregar configuração: %v", msg.err), toaster.StyleError)
			return m, toaster.ScheduleDismiss(toastDuration)
		}
		m.cfg = msg.cfg
		styles.ApplyTheme(msg.cfg.Theme.Highlight, msg.cfg.Theme.Subtle, msg.cfg.Theme.Error, msg.cfg.Theme.Success)
		log.Info(log.CatConfig, "Config reloaded")
		m.toast = m.toast.Show("Configuração recarregada", toaster.StyleInfo)
		return m, toaster.ScheduleDismiss(toastDuration)

	case toaster.DismissMsg:
		m.toast = m.toast.Hide()
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Lookup):
		return m.startLookup()

	case key.Matches(msg, m.keys.NextTab):
		m.activeTab = (m.activeTab + 1) % tabCount
		return m, nil

	case key.Matches(msg, m.keys.PrevTab):
		m.activeTab = (m.activeTab + tabCount - 1) % tabCount
		return m, nil

	case key.Matches(msg, m.keys.ExportXLSX):
		return m.startExport(exportXLSX)

	case key.Matches(msg, m.keys.ExportCard):
		return m.startExport(exportCard)

	case key.Matches(msg, m.keys.ToggleStatusBar):
		m.cfg.UI.ShowStatusBar = !m.cfg.UI.ShowStatusBar
		return m, m.persistUICmd()

	case key.Matches(msg, m.keys.Clear):
		m.input.SetValue("")
		return m, nil
	}

	// Everything else edits the input, which re-masks as digits arrive.
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if masked := cnpj.Format(m.input.Value()); masked != m.input.Value() {
		m.input.SetValue(masked)
		m.input.CursorEnd()
	}
	return m, cmd
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	for i := 0; i < tabCount; i++ {
		if z := zone.Get(tabZoneID(i)); z != nil && z.InBounds(msg) {
			m.activeTab = i
			break
		}
	}
	return m, nil
}

// startLookup validates the input and launches the lookup command. The
// validity gate runs here so invalid input never reaches the network.
func (m Model) startLookup() (tea.Model, tea.Cmd) {
	code, err := cnpj.Validate(m.input.Value())
	if err != nil {
		m.toast = m.toast.Show("CNPJ inválido. Digite 14 dígitos numéricos.", toaster.StyleError)
		return m, toaster.ScheduleDismiss(toastDuration)
	}

	if m.sess.Holds(code) {
		// Same code as the held result: redisplay without re-querying.
		m.sections = presentation.FromRecord(code, m.sess.Record())
		m.errMsg = ""
		m.activeTab = tabGeneral
		return m, nil
	}

	if m.looking {
		m.toast = m.toast.Show("Consulta em andamento, aguarde...", toaster.StyleInfo)
		return m, toaster.ScheduleDismiss(toastDuration)
	}

	m.looking = true
	m.errMsg = ""
	client := m.client
	ctx := m.ctx
	return m, tea.Batch(m.spin.Tick, func() tea.Msg {
		record, err := client.Lookup(ctx, code)
		return lookupResultMsg{code: code, record: record, err: err}
	})
}

func (m Model) handleLookupResult(msg lookupResultMsg) (tea.Model, tea.Cmd) {
	m.looking = false

	if msg.err != nil {
		message := msg.err.Error()
		if failure, ok := registry.AsFailure(msg.err); ok {
			message = failure.Message
		}
		m.errMsg = message
		m.sections = nil
		m.toast = m.toast.Show(message, toaster.StyleError)
		return m, toaster.ScheduleDismiss(toastDuration)
	}

	m.sess.Store(msg.code, msg.record, time.Now())
	m.sections = presentation.FromRecord(msg.code, msg.record)
	m.errMsg = ""
	m.activeTab = tabGeneral
	return m, nil
}

type exportKind int

const (
	exportXLSX exportKind = iota
	exportCard
)

// startExport writes the held result to the export directory.
func (m Model) startExport(kind exportKind) (tea.Model, tea.Cmd) {
	if m.sess.Record() == nil {
		m.toast = m.toast.Show("Nenhum resultado para exportar.", toaster.StyleError)
		return m, toaster.ScheduleDismiss(toastDuration)
	}

	code := m.sess.Code()
	sections := presentation.FromRecord(code, m.sess.Record())
	queriedAt := m.sess.QueriedAt()
	dir := m.cfg.Export.Dir
	if dir == "" {
		dir = "."
	}

	return m, func() tea.Msg {
		var (
			path string
			err  error
		)
		switch kind {
		case exportCard:
			path = filepath.Join(dir, fmt.Sprintf("cartao_%s.txt", code))
			err = export.WriteCard(path, sections, queriedAt)
		default:
			path = filepath.Join(dir, fmt.Sprintf("consulta_%s.xlsx", code))
			err = export.WriteXLSX(path, presentation.Flatten(sections))
		}
		return exportDoneMsg{path: path, err: err}
	}
}

// persistUICmd saves the UI block of the config file, preserving comments.
func (m Model) persistUICmd() tea.Cmd {
	if m.cfgPath == "" {
		return nil
	}
	path := m.cfgPath
	ui := m.cfg.UI
	return func() tea.Msg {
		if err := config.SaveUI(path, ui); err != nil {
			log.ErrorErr(log.CatConfig, "Failed to persist UI settings", err, "path", path)
		}
		return nil
	}
}

// View renders the full screen.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.headerView())
	b.WriteString("\n")
	b.WriteString(m.tabBarView())
	b.WriteString("\n")
	b.WriteString(m.contentView())

	if m.toast.Visible() {
		b.WriteString("\n")
		b.WriteString(m.toast.View())
	}

	if m.cfg.UI.ShowStatusBar {
		b.WriteString("\n")
		b.WriteString(m.statusBarView())
	}

	return zone.Scan(b.String())
}

func (m Model) headerView() string {
	box := styles.InputBoxFocusedStyle.Render(m.input.View())
	if m.looking {
		loading := m.spin.View() + styles.LoadingStyle.Render(" Consultando...")
		return lipgloss.JoinHorizontal(lipgloss.Center, box, "  ", loading)
	}
	return box
}

func (m Model) tabBarView() string {
	rendered := make([]string, 0, tabCount)
	for i, name := range tabNames {
		style := styles.TabInactiveStyle
		if i == m.activeTab {
			style = styles.TabActiveStyle
		}
		rendered = append(rendered, zone.Mark(tabZoneID(i), style.Render(name)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) contentView() string {
	if m.errMsg != "" {
		return styles.ErrorStyle.Render(m.errMsg)
	}
	if m.sections == nil {
		return styles.EmptyStateStyle.Render("Digite um CNPJ e pressione Enter para consultar.")
	}
	if m.activeTab == tabCard {
		return m.cardView()
	}
	return m.sectionView(m.sections[m.activeTab])
}

func (m Model) sectionView(section presentation.Section) string {
	var b strings.Builder
	b.WriteString(styles.SectionTitleStyle.Render(section.Title))
	b.WriteString("\n")
	for _, field := range section.Fields {
		label := styles.FieldLabelStyle.Render(field.Label + ":")
		value := styles.FieldValueStyle.Render(field.Value)
		b.WriteString(fmt.Sprintf("  %s %s\n", label, value))
	}
	return b.String()
}

// cardView renders the card report. A markdown rendition is preferred;
// the plain text layout is the fallback when glamour is unavailable.
func (m Model) cardView() string {
	if m.md == nil {
		return export.Card(m.sections, m.sess.QueriedAt())
	}
	out, err := m.md.Render(cardMarkdown(m.sections, m.sess.QueriedAt()))
	if err != nil {
		log.ErrorErr(log.CatUI, "Card markdown render failed", err)
		return export.Card(m.sections, m.sess.QueriedAt())
	}
	return out
}

// cardMarkdown builds the markdown source for the card preview tab.
func cardMarkdown(sections []presentation.Section, queriedAt time.Time) string {
	var b strings.Builder
	b.WriteString("# Cartão CNPJ\n\n")
	for _, section := range sections {
		b.WriteString("## " + section.Title + "\n\n")
		for _, field := range section.Fields {
			b.WriteString(fmt.Sprintf("- **%s:** %s\n", field.Label, field.Value))
		}
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("*Consulta realizada em %s*\n", queriedAt.Format("02/01/2006 15:04:05")))
	return b.String()
}

func (m Model) statusBarView() string {
	bindings := []key.Binding{
		m.keys.Lookup,
		m.keys.NextTab,
		m.keys.ExportXLSX,
		m.keys.ExportCard,
		m.keys.ToggleStatusBar,
		m.keys.Quit,
	}
	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		help := binding.Help()
		parts = append(parts, help.Key+" "+help.Desc)
	}
	bar := strings.Join(parts, " • ")
	if m.sess.Record() != nil {
		badge := styles.ResultBadgeStyle.Render("✓ " + cnpj.Format(m.sess.Code()))
		bar = badge + "  " + bar
	}
	return styles.StatusBarStyle.Render(bar)
}
