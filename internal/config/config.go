package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/ukaji3/adbundle-go/pkg/adbundle"
	"github.com/ukaji3/adbundle-go/pkg/adbundle/analyst"
	"github.com/ukaji3/adbundle-go/pkg/adbundle/parser"
	"gopkg.in/yaml.v3"
)

// Config holds all adbundle configuration.
type Config struct {
	// Gemini analyst settings
	Gemini GeminiConfig `yaml:"gemini"`

	// Sheet markers, tried in order against every sheet name
	Sheets []parser.SheetMarker `yaml:"sheets"`

	// Column keywords for the creative sheet
	Keywords parser.FieldKeywords `yaml:"keywords"`

	// Bundle output
	Output OutputConfig `yaml:"output"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// GeminiConfig configures the hosted model.
type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
	// PollInterval and PollTimeout govern the wait for video processing.
	PollInterval string `yaml:"poll_interval"`
	PollTimeout  string `yaml:"poll_timeout"`
	// SystemInstructionFile replaces the built-in advisor prompt.
	SystemInstructionFile string `yaml:"system_instruction_file"`
}

// OutputConfig configures the bundle.
type OutputConfig struct {
	Mode         string `yaml:"mode"` // light, standard
	SummaryAlias string `yaml:"summary_alias"`
	VideoCounts  *bool  `yaml:"video_counts,omitempty"`
	// MinHeaderCells is the fewest non-empty cells a header row may have.
	MinHeaderCells int `yaml:"min_header_cells"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// DefaultConfig returns the GMV MAX report configuration.
func DefaultConfig() *Config {
	return &Config{
		Gemini: GeminiConfig{
			Model:        analyst.DefaultModel,
			PollInterval: analyst.DefaultPollInterval.String(),
			PollTimeout:  analyst.DefaultPollTimeout.String(),
		},
		Sheets:   adbundle.DefaultMarkers(),
		Keywords: adbundle.DefaultKeywords(),
		Output: OutputConfig{
			Mode:           string(adbundle.ModeStandard),
			SummaryAlias:   adbundle.DefaultSummaryAlias,
			MinHeaderCells: parser.DefaultTableParams().MinHeaderCells,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Variables from a .env file in the working directory are loaded
// before environment overrides are applied.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case errors.Is(err, os.ErrNotExist):
			// Use defaults
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	// .env is optional
	_ = godotenv.Load()

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Gemini.APIKey = key
	}
	if model := os.Getenv("ADBUNDLE_MODEL"); model != "" {
		c.Gemini.Model = model
	}
	if level := os.Getenv("ADBUNDLE_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// Options converts the configuration into extraction options.
func (c *Config) Options() adbundle.Options {
	opts := adbundle.DefaultOptions()
	if c.Output.Mode != "" {
		opts.Mode = adbundle.Mode(c.Output.Mode)
	}
	if len(c.Sheets) > 0 {
		opts.Markers = c.Sheets
	}
	opts.Keywords = c.Keywords
	if c.Output.SummaryAlias != "" {
		opts.SummaryAlias = c.Output.SummaryAlias
	}
	opts.IncludeVideoCounts = c.Output.VideoCounts
	if c.Output.MinHeaderCells > 0 {
		opts.Table.MinHeaderCells = c.Output.MinHeaderCells
	}
	return opts
}

// AnalystConfig converts the Gemini section into analyst settings.
func (c *Config) AnalystConfig() (analyst.Config, error) {
	ac := analyst.Config{Model: c.Gemini.Model}

	var err error
	if ac.PollInterval, err = parseDuration("poll_interval", c.Gemini.PollInterval); err != nil {
		return ac, err
	}
	if ac.PollTimeout, err = parseDuration("poll_timeout", c.Gemini.PollTimeout); err != nil {
		return ac, err
	}

	if c.Gemini.SystemInstructionFile != "" {
		data, err := os.ReadFile(c.Gemini.SystemInstructionFile)
		if err != nil {
			return ac, fmt.Errorf("failed to read system instruction: %w", err)
		}
		ac.SystemInstruction = string(data)
	}
	return ac, nil
}

func parseDuration(field, s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid gemini.%s %q: %w", field, s, err)
	}
	return d, nil
}
