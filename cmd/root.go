package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rafaelsouza280292/consulta-cnpj/internal/config"
	"github.com/rafaelsouza280292/consulta-cnpj/internal/log"
	"github.com/rafaelsouza280292/consulta-cnpj/internal/registry"
	"github.com/rafaelsouza280292/consulta-cnpj/internal/session"
	"github.com/rafaelsouza280292/consulta-cnpj/internal/tracing"
	"github.com/rafaelsouza280292/consulta-cnpj/internal/ui/app"
	"github.com/rafaelsouza280292/consulta-cnpj/internal/ui/styles"
	"github.com/rafaelsouza280292/consulta-cnpj/internal/watcher"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var (
	version   = "dev"
	cfgFile   string
	debugMode bool
	cfg       config.Config
)

var rootCmd = &cobra.Command{
	Use:     "consulta-cnpj",
	Short:   "Consulta de CNPJ na base pública",
	Long:    `Consulta dados cadastrais de empresas brasileiras pelo CNPJ, com exibição em abas e exportação para planilha (xlsx) ou cartão (txt).`,
	Version: version,
	RunE:    runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/consulta-cnpj/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false,
		"write debug logs to debug.log")
	rootCmd.Flags().Bool("no-auto-reload", false,
		"disable automatic reload when the config file changes")
	rootCmd.PersistentFlags().String("export-dir", "",
		"directory for exported files")

	_ = viper.BindPFlag("export.dir", rootCmd.PersistentFlags().Lookup("export-dir"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("auto_reload", defaults.AutoReload)
	viper.SetDefault("registry.base_url", defaults.Registry.BaseURL)
	viper.SetDefault("registry.timeout", defaults.Registry.Timeout)
	viper.SetDefault("registry.retry_wait", defaults.Registry.RetryWait)
	viper.SetDefault("ui.show_status_bar", defaults.UI.ShowStatusBar)
	viper.SetDefault("ui.markdown_style", defaults.UI.MarkdownStyle)
	viper.SetDefault("theme.highlight", defaults.Theme.Highlight)
	viper.SetDefault("theme.subtle", defaults.Theme.Subtle)
	viper.SetDefault("theme.error", defaults.Theme.Error)
	viper.SetDefault("theme.success", defaults.Theme.Success)
	viper.SetDefault("export.dir", defaults.Export.Dir)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .consulta-cnpj/config.yaml (current directory)
		// 2. ~/.config/consulta-cnpj/config.yaml (user config)
		if _, err := os.Stat(".consulta-cnpj/config.yaml"); err == nil {
			viper.SetConfigFile(".consulta-cnpj/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "consulta-cnpj"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create default at .consulta-cnpj/config.yaml
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			defaultPath := ".consulta-cnpj/config.yaml"
			if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
				viper.SetConfigFile(defaultPath)
				_ = viper.ReadInConfig()
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	_ = viper.Unmarshal(&cfg)
}

// initLogging enables the debug log when requested via flag or env var.
func initLogging() (func(), error) {
	if !debugMode && os.Getenv("CONSULTA_CNPJ_DEBUG") == "" {
		return func() {}, nil
	}
	return log.InitWithTeaLog("debug.log", "consulta-cnpj")
}

// newTracingProvider builds the trace provider from config, defaulting the
// file exporter path when unset.
func newTracingProvider() (*tracing.Provider, error) {
	filePath := cfg.Tracing.FilePath
	if cfg.Tracing.Enabled && cfg.Tracing.Exporter == "file" && filePath == "" {
		filePath = config.DefaultTracesFilePath()
	}
	return tracing.NewProvider(tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		Exporter:     cfg.Tracing.Exporter,
		FilePath:     filePath,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		SampleRate:   cfg.Tracing.SampleRate,
	})
}

// newRegistryClient builds the lookup client from config.
func newRegistryClient(provider *tracing.Provider) *registry.Client {
	return registry.NewClient(
		registry.WithBaseURL(cfg.Registry.BaseURL),
		registry.WithRetryWait(cfg.Registry.RetryWait),
		registry.WithHTTPClient(&http.Client{Timeout: cfg.Registry.Timeout}),
		registry.WithTracer(provider.Tracer()),
	)
}

// reloadConfig re-reads the config file and returns the fresh settings.
func reloadConfig() (config.Config, error) {
	if err := viper.ReadInConfig(); err != nil {
		return config.Config{}, fmt.Errorf("re-reading config: %w", err)
	}
	var fresh config.Config
	if err := viper.Unmarshal(&fresh); err != nil {
		return config.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := config.Validate(fresh); err != nil {
		return config.Config{}, err
	}
	return fresh, nil
}

func runApp(cmd *cobra.Command, args []string) error {
	cleanupLog, err := initLogging()
	if err != nil {
		return fmt.Errorf("initializing debug log: %w", err)
	}
	defer cleanupLog()

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if noAutoReload, _ := cmd.Flags().GetBool("no-auto-reload"); noAutoReload {
		cfg.AutoReload = false
	}

	provider, err := newTracingProvider()
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() { _ = provider.Shutdown(context.Background()) }()

	client := newRegistryClient(provider)
	defer client.Close()

	// Where status bar toggles are persisted
	configFilePath := viper.ConfigFileUsed()
	if configFilePath == "" {
		configFilePath = ".consulta-cnpj/config.yaml"
	}

	var (
		watcherHandle *watcher.Watcher
		reload        app.ReloadFunc
	)
	if cfg.AutoReload && configFilePath != "" {
		if w, werr := watcher.New(watcher.DefaultConfig(configFilePath)); werr == nil {
			if serr := w.Start(); serr == nil {
				watcherHandle = w
				reload = reloadConfig
			} else {
				_ = w.Stop()
			}
		}
		// Watcher init errors are non-fatal; the app works without live reload.
	}

	styles.ApplyTheme(cfg.Theme.Highlight, cfg.Theme.Subtle, cfg.Theme.Error, cfg.Theme.Success)
	zone.NewGlobal()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appOpts := app.Options{
		Client:     client,
		Session:    session.New(),
		Config:     cfg,
		ConfigPath: configFilePath,
		Reload:     reload,
	}
	if watcherHandle != nil {
		appOpts.ConfigEvents = watcherHandle.Broker()
	}
	model := app.New(ctx, appOpts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err = p.Run()

	cancel()
	if watcherHandle != nil {
		if stopErr := watcherHandle.Stop(); stopErr != nil && err == nil {
			err = stopErr
		}
	}

	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
