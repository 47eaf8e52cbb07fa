// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"coderefine/internal/analyzer/detectors"
	"coderefine/internal/models"
	"coderefine/internal/scoring"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "CODEREFINE"

// Config represents the configuration for coderefine
type Config struct {
	Version string `yaml:"version" json:"version"`

	// Analysis settings
	Analysis AnalysisConfig `yaml:"analysis" json:"analysis"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Individual checks
	Rules RulesConfig `yaml:"rules" json:"rules"`

	Summarizer SummarizerConfig `yaml:"summarizer" json:"summarizer"`
	History    HistoryConfig    `yaml:"history" json:"history"`
	Server     ServerConfig     `yaml:"server" json:"server"`
	Logging    LoggingConfig    `yaml:"logging" json:"logging"`
}

type AnalysisConfig struct {
	// Quality score label cut points
	ScoreThresholds ScoreThresholds `yaml:"score_thresholds" json:"score_thresholds"`

	// Lines longer than this are formatting issues
	MaxLineLength int `yaml:"max_line_length" json:"max_line_length"`

	// Characters of an overlong line kept in the message
	SnippetLength int `yaml:"snippet_length" json:"snippet_length"`

	// Language used when none is given: auto, python or c
	DefaultLanguage string `yaml:"default_language" json:"default_language"`

	// Parallel analysis
	MaxWorkers int `yaml:"max_workers" json:"max_workers"`
}

type ScoreThresholds struct {
	Good       int `yaml:"good" json:"good"`             // >= 90
	Acceptable int `yaml:"acceptable" json:"acceptable"` // >= 70
}

type OutputConfig struct {
	// Default output format
	Format string `yaml:"format" json:"format"`

	// Colorized output
	Colors bool `yaml:"colors" json:"colors"`

	// Verbosity level
	Verbose bool `yaml:"verbose" json:"verbose"`

	// Show suggestions
	ShowSuggestions bool `yaml:"show_suggestions" json:"show_suggestions"`

	// Output file path (optional)
	OutputFile string `yaml:"output_file,omitempty" json:"output_file,omitempty"`
}

// RulesConfig switches individual checks on and off.
type RulesConfig struct {
	UnusedVariable       bool `yaml:"unused_variable" json:"unused_variable"`
	BadPractice          bool `yaml:"bad_practice" json:"bad_practice"`
	UnreachableCode      bool `yaml:"unreachable_code" json:"unreachable_code"`
	NestedLoop           bool `yaml:"nested_loop" json:"nested_loop"`
	LenInLoop            bool `yaml:"len_in_loop" json:"len_in_loop"`
	Formatting           bool `yaml:"formatting" json:"formatting"`
	MissingSemicolon     bool `yaml:"missing_semicolon" json:"missing_semicolon"`
	SuspiciousAssignment bool `yaml:"suspicious_assignment" json:"suspicious_assignment"`
	Balance              bool `yaml:"balance" json:"balance"`
}

type SummarizerConfig struct {
	Enabled    bool          `yaml:"enabled" json:"enabled"`
	Endpoint   string        `yaml:"endpoint,omitempty" json:"endpoint,omitempty"`
	APIKey     string        `yaml:"api_key,omitempty" json:"-"`
	Deployment string        `yaml:"deployment,omitempty" json:"deployment,omitempty"`
	Timeout    time.Duration `yaml:"timeout" json:"timeout"`
	MaxBullets int           `yaml:"max_bullets" json:"max_bullets"`
}

type HistoryConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Driver  string `yaml:"driver" json:"driver"` // sqlite or json
	Path    string `yaml:"path" json:"path"`
	User    string `yaml:"user" json:"user"`
}

type ServerConfig struct {
	Addr         string        `yaml:"addr" json:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" json:"write_timeout"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" json:"max_body_bytes"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"` // console or json
	File   string `yaml:"file,omitempty" json:"file,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		Analysis: AnalysisConfig{
			ScoreThresholds: ScoreThresholds{
				Good:       90,
				Acceptable: 70,
			},
			MaxLineLength:   detectors.DefaultMaxLineLength,
			SnippetLength:   detectors.DefaultSnippetLength,
			DefaultLanguage: "auto",
			MaxWorkers:      4,
		},
		Output: OutputConfig{
			Format:          "console",
			Colors:          true,
			Verbose:         false,
			ShowSuggestions: true,
		},
		Rules: RulesConfig{
			UnusedVariable:       true,
			BadPractice:          true,
			UnreachableCode:      true,
			NestedLoop:           true,
			LenInLoop:            true,
			Formatting:           true,
			MissingSemicolon:     true,
			SuspiciousAssignment: true,
			Balance:              true,
		},
		Summarizer: SummarizerConfig{
			Enabled:    false,
			Timeout:    15 * time.Second,
			MaxBullets: 5,
		},
		History: HistoryConfig{
			Enabled: false,
			Driver:  "sqlite",
			Path:    filepath.Join(".coderefine", "history.db"),
			User:    "local",
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 60 * time.Second,
			MaxBodyBytes: 1 << 20,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from file or returns default. Environment
// variables prefixed with CODEREFINE_ override file values.
func LoadConfig(configPath string) (*Config, error) {
	// If no config path provided, look for default config files
	if configPath == "" {
		configPath = findConfigFile()
	}

	config := DefaultConfig()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
		}
	}

	if err := config.applyEnv(); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// envBindings maps config keys to the environment variables that set them.
// The first variable found wins.
var envBindings = map[string][]string{
	"summarizer.endpoint":   {"CODEREFINE_SUMMARIZER_ENDPOINT", "AZURE_OPENAI_ENDPOINT"},
	"summarizer.api_key":    {"CODEREFINE_SUMMARIZER_API_KEY", "AZURE_OPENAI_KEY"},
	"summarizer.deployment": {"CODEREFINE_SUMMARIZER_DEPLOYMENT", "AZURE_OPENAI_DEPLOYMENT_ID"},
	"summarizer.enabled":    {"CODEREFINE_SUMMARIZER_ENABLED"},
	"history.path":          {"CODEREFINE_HISTORY_PATH"},
	"history.driver":        {"CODEREFINE_HISTORY_DRIVER"},
	"history.user":          {"CODEREFINE_HISTORY_USER"},
	"server.addr":           {"CODEREFINE_SERVER_ADDR"},
	"logging.level":         {"CODEREFINE_LOG_LEVEL"},
	"logging.format":        {"CODEREFINE_LOG_FORMAT"},
}

func (c *Config) applyEnv() error {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for key, names := range envBindings {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	setString := func(key string, dst *string) {
		if s := v.GetString(key); s != "" {
			*dst = s
		}
	}
	setString("summarizer.endpoint", &c.Summarizer.Endpoint)
	setString("summarizer.api_key", &c.Summarizer.APIKey)
	setString("summarizer.deployment", &c.Summarizer.Deployment)
	setString("history.path", &c.History.Path)
	setString("history.driver", &c.History.Driver)
	setString("history.user", &c.History.User)
	setString("server.addr", &c.Server.Addr)
	setString("logging.level", &c.Logging.Level)
	setString("logging.format", &c.Logging.Format)

	if v.IsSet("summarizer.enabled") {
		c.Summarizer.Enabled = v.GetBool("summarizer.enabled")
	}
	return nil
}

// findConfigFile looks for config files in common locations
func findConfigFile() string {
	possiblePaths := []string{
		".coderefine.yml",
		".coderefine.yaml",
		"coderefine.yml",
		"coderefine.yaml",
		".config/coderefine.yml",
		".config/coderefine.yaml",
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	st := c.Analysis.ScoreThresholds
	if st.Good > 100 || st.Acceptable < 0 || st.Good <= st.Acceptable {
		return fmt.Errorf("score thresholds must satisfy 100 >= good > acceptable >= 0")
	}

	validFormats := []string{"console", "json"}
	if !slices.Contains(validFormats, c.Output.Format) {
		return fmt.Errorf("invalid output format: %s (valid: %v)", c.Output.Format, validFormats)
	}

	if c.Analysis.MaxWorkers < 1 {
		return fmt.Errorf("max_workers must be at least 1")
	}

	if c.Analysis.MaxLineLength < 1 || c.Analysis.SnippetLength < 1 {
		return fmt.Errorf("max_line_length and snippet_length must be positive")
	}

	if lang := c.Analysis.DefaultLanguage; lang != "" && lang != "auto" {
		if _, err := models.ParseLanguage(lang); err != nil {
			return fmt.Errorf("default_language: %w", err)
		}
	}

	if c.History.Enabled && !slices.Contains([]string{"sqlite", "json"}, c.History.Driver) {
		return fmt.Errorf("invalid history driver: %s (valid: sqlite, json)", c.History.Driver)
	}

	if c.Summarizer.MaxBullets < 1 {
		return fmt.Errorf("summarizer max_bullets must be at least 1")
	}

	if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Logging.Level, err)
	}
	if !slices.Contains([]string{"console", "json"}, c.Logging.Format) {
		return fmt.Errorf("invalid log format: %s (valid: console, json)", c.Logging.Format)
	}

	return nil
}

// SaveConfig saves configuration to file
func (c *Config) SaveConfig(configPath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GenerateConfig creates a sample configuration file
func GenerateConfig(configPath string) error {
	config := DefaultConfig()
	return config.SaveConfig(configPath)
}

// IsRuleEnabled checks if a specific rule is enabled
func (c *Config) IsRuleEnabled(rule string) bool {
	switch rule {
	case detectors.RuleUnusedVariable:
		return c.Rules.UnusedVariable
	case detectors.RuleBadPractice:
		return c.Rules.BadPractice
	case detectors.RuleUnreachableCode:
		return c.Rules.UnreachableCode
	case detectors.RuleNestedLoop:
		return c.Rules.NestedLoop
	case detectors.RuleLenInLoop:
		return c.Rules.LenInLoop
	case detectors.RuleFormatting:
		return c.Rules.Formatting
	case detectors.RuleMissingSemicolon:
		return c.Rules.MissingSemicolon
	case detectors.RuleSuspiciousAssignment:
		return c.Rules.SuspiciousAssignment
	case detectors.RuleBalance:
		return c.Rules.Balance
	default:
		return false
	}
}

// DetectorOptions converts the analysis and rule settings for the checkers.
func (c *Config) DetectorOptions() detectors.Options {
	opts := detectors.Options{
		MaxLineLength: c.Analysis.MaxLineLength,
		SnippetLength: c.Analysis.SnippetLength,
		Disabled:      make(map[string]bool),
	}
	for _, rule := range []string{
		detectors.RuleUnusedVariable,
		detectors.RuleBadPractice,
		detectors.RuleUnreachableCode,
		detectors.RuleNestedLoop,
		detectors.RuleLenInLoop,
		detectors.RuleFormatting,
		detectors.RuleMissingSemicolon,
		detectors.RuleSuspiciousAssignment,
		detectors.RuleBalance,
	} {
		if !c.IsRuleEnabled(rule) {
			opts.Disabled[rule] = true
		}
	}
	return opts
}

// Thresholds returns the score label cut points.
func (c *Config) Thresholds() scoring.Thresholds {
	return scoring.Thresholds{
		Good:       c.Analysis.ScoreThresholds.Good,
		Acceptable: c.Analysis.ScoreThresholds.Acceptable,
	}
}
