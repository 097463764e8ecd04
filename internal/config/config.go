// Package config provides configuration types, defaults, and persistence
// for consulta-cnpj.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rafaelsouza280292/consulta-cnpj/internal/log"
)

// Config holds all configuration options.
type Config struct {
	AutoReload bool           `mapstructure:"auto_reload"`
	Registry   RegistryConfig `mapstructure:"registry"`
	UI         UIConfig       `mapstructure:"ui"`
	Theme      ThemeConfig    `mapstructure:"theme"`
	Export     ExportConfig   `mapstructure:"export"`
	Tracing    TracingConfig  `mapstructure:"tracing"`
}

// RegistryConfig holds remote registry settings.
type RegistryConfig struct {
	// BaseURL is the registry endpoint, path-keyed by the canonical code.
	BaseURL string `mapstructure:"base_url"`

	// Timeout bounds a single HTTP attempt.
	Timeout time.Duration `mapstructure:"timeout"`

	// RetryWait is the fixed pause before retrying a rate-limited lookup.
	// There is no retry cap.
	RetryWait time.Duration `mapstructure:"retry_wait"`
}

// UIConfig holds user interface options.
type UIConfig struct {
	ShowStatusBar bool   `mapstructure:"show_status_bar"`
	MarkdownStyle string `mapstructure:"markdown_style"` // "dark" (default) or "light"
}

// ThemeConfig holds color customization options (hex colors).
type ThemeConfig struct {
	Highlight string `mapstructure:"highlight"`
	Subtle    string `mapstructure:"subtle"`
	Error     string `mapstructure:"error"`
	Success   string `mapstructure:"success"`
}

// ExportConfig holds export output settings.
type ExportConfig struct {
	// Dir is where xlsx and card files are written. Default: current dir.
	Dir string `mapstructure:"dir"`
}

// TracingConfig holds optional lookup tracing configuration.
type TracingConfig struct {
	// Enabled controls whether tracing is active. Default: false.
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the export backend.
	// Options: "none", "file", "stdout", "otlp". Default: "file".
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for the "file" exporter.
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for the "otlp" exporter.
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0). Default: 1.0.
	SampleRate float64 `mapstructure:"sample_rate"`
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		AutoReload: true,
		Registry: RegistryConfig{
			BaseURL:   "https://open.cnpja.com",
			Timeout:   30 * time.Second,
			RetryWait: 60 * time.Second,
		},
		UI: UIConfig{
			ShowStatusBar: true,
			MarkdownStyle: "dark",
		},
		Theme: ThemeConfig{
			Highlight: "#FFC300",
			Subtle:    "#6B7280",
			Error:     "#FF5555",
			Success:   "#73F59F",
		},
		Export: ExportConfig{
			Dir: ".",
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     "",
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
	}
}

// DefaultTracesFilePath returns the default path for trace file export, or
// empty string if the home dir is unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "consulta-cnpj", "traces", "traces.jsonl")
}

// Validate checks the configuration for errors. Empty values use defaults.
func Validate(cfg Config) error {
	if cfg.Registry.BaseURL == "" {
		return fmt.Errorf("registry.base_url must not be empty")
	}
	if cfg.Registry.RetryWait <= 0 {
		return fmt.Errorf("registry.retry_wait must be positive, got %v", cfg.Registry.RetryWait)
	}
	if cfg.Registry.Timeout <= 0 {
		return fmt.Errorf("registry.timeout must be positive, got %v", cfg.Registry.Timeout)
	}

	switch cfg.UI.MarkdownStyle {
	case "", "dark", "light":
	default:
		return fmt.Errorf("ui.markdown_style must be \"dark\" or \"light\", got %q", cfg.UI.MarkdownStyle)
	}

	return validateTracing(cfg.Tracing)
}

func validateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	switch tracing.Exporter {
	case "", "none", "file", "stdout", "otlp":
	default:
		return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
	}

	if tracing.Enabled {
		if tracing.Exporter == "file" && tracing.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}

	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with
// comments.
func DefaultConfigTemplate() string {
	return `# consulta-cnpj Configuration

# Re-read theme and UI settings when this file changes
auto_reload: true

# Remote registry settings
registry:
  base_url: https://open.cnpja.com
  timeout: 30s       # Per-attempt HTTP timeout
  retry_wait: 60s    # Fixed wait before retrying a rate-limited lookup.
                     # Retries are uncapped: the lookup waits as long as
                     # the registry keeps answering 429.

# UI settings
ui:
  show_status_bar: true   # Show keybinding hints at the bottom
  # markdown_style: dark  # Card preview style: "dark" (default) or "light"

# Theme colors (hex)
theme:
  highlight: "#FFC300"
  subtle: "#6B7280"
  error: "#FF5555"
  success: "#73F59F"

# Export output directory for xlsx and card files
export:
  dir: .

# Lookup tracing (off by default)
# tracing:
#   enabled: false
#   exporter: file                 # none, file, stdout, otlp
#   file_path: ~/.config/consulta-cnpj/traces/traces.jsonl
#   otlp_endpoint: localhost:4317  # For the otlp exporter
#   sample_rate: 1.0
`
}

// WriteDefaultConfig creates a config file at the given path with default
// settings and comments. Creates the parent directory if needed.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
