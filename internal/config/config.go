// Package config provides TOML configuration for the pyfront tools.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/hassan/pyfront/internal/lexer"
	"github.com/hassan/pyfront/internal/lint"
	"github.com/hassan/pyfront/internal/parser"
	"github.com/hassan/pyfront/internal/semantic"
)

// EnvVar names the environment variable that points at a config file.
const EnvVar = "PYFRONT_CONFIG"

// Config holds all settings.
type Config struct {
	Lexer    LexerConfig    `toml:"lexer"`
	Parser   ParserConfig   `toml:"parser"`
	Analyzer AnalyzerConfig `toml:"analyzer"`
	Lint     LintConfig     `toml:"lint"`
	Output   OutputConfig   `toml:"output"`
	Log      LogConfig      `toml:"log"`
	Batch    BatchConfig    `toml:"batch"`
}

// LexerConfig tunes tokenization.
type LexerConfig struct {
	// NormalizeIdentifiers is a pointer so that an explicit false in the
	// file is distinguishable from a missing key.
	NormalizeIdentifiers *bool `toml:"normalize_identifiers"`
}

// ParserConfig tunes parsing.
type ParserConfig struct {
	MaxNestingDepth int   `toml:"max_nesting_depth"`
	SuggestKeywords *bool `toml:"suggest_keywords"`
}

// AnalyzerConfig tunes semantic analysis.
type AnalyzerConfig struct {
	ExtraBuiltins []string `toml:"extra_builtins"`
}

// LintConfig controls the warning passes run after a clean analysis.
type LintConfig struct {
	Enabled *bool    `toml:"enabled"`
	Disable []string `toml:"disable"`
}

// OutputConfig controls how results are printed.
type OutputConfig struct {
	// Color is one of "auto", "always" or "never".
	Color string `toml:"color"`

	// Format is the default AST dump format: "text", "json" or "yaml".
	Format string `toml:"format"`
}

// LogConfig controls diagnostic logging of the tools themselves.
type LogConfig struct {
	Level string `toml:"level"`
}

// BatchConfig controls multi-file checking.
type BatchConfig struct {
	Workers  int      `toml:"workers"`
	Timeout  Duration `toml:"timeout"`
	Patterns []string `toml:"patterns"`
}

// Duration wraps time.Duration for TOML parsing.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from a TOML file.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		return nil, fmt.Errorf("unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadFromEnv loads the file named by PYFRONT_CONFIG, falling back to
// ./pyfront.toml and then to the user config directory. When none exist
// it returns Default().
func LoadFromEnv() (*Config, error) {
	if path := os.Getenv(EnvVar); path != "" {
		return Load(path)
	}

	candidates := []string{"./pyfront.toml"}
	if dir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, "pyfront", "config.toml"))
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return Load(p)
		}
	}
	return Default(), nil
}

// applyDefaults sets default values for missing configuration.
func (c *Config) applyDefaults() {
	// Lexer
	if c.Lexer.NormalizeIdentifiers == nil {
		c.Lexer.NormalizeIdentifiers = boolPtr(true)
	}

	// Parser
	if c.Parser.MaxNestingDepth == 0 {
		c.Parser.MaxNestingDepth = parser.DefaultMaxNestingDepth
	}
	if c.Parser.SuggestKeywords == nil {
		c.Parser.SuggestKeywords = boolPtr(true)
	}

	// Lint
	if c.Lint.Enabled == nil {
		c.Lint.Enabled = boolPtr(true)
	}

	// Output
	if c.Output.Color == "" {
		c.Output.Color = "auto"
	}
	if c.Output.Format == "" {
		c.Output.Format = "text"
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = "warn"
	}

	// Batch
	if c.Batch.Workers == 0 {
		c.Batch.Workers = 4
	}
	if c.Batch.Timeout.Duration == 0 {
		c.Batch.Timeout.Duration = 30 * time.Second
	}
	if len(c.Batch.Patterns) == 0 {
		c.Batch.Patterns = []string{"*.py"}
	}
}

// Validate reports the first setting that is out of range.
func (c *Config) Validate() error {
	if c.Parser.MaxNestingDepth < 0 {
		return fmt.Errorf("parser.max_nesting_depth must be positive, got %d", c.Parser.MaxNestingDepth)
	}
	if c.Batch.Workers < 0 {
		return fmt.Errorf("batch.workers must be positive, got %d", c.Batch.Workers)
	}
	for _, name := range c.Lint.Disable {
		if !slices.Contains(lint.PassNames(), name) {
			return fmt.Errorf("lint.disable: unknown pass %q (known: %s)", name, strings.Join(lint.PassNames(), ", "))
		}
	}
	switch c.Output.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("output.color must be auto, always or never, got %q", c.Output.Color)
	}
	switch c.Output.Format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("output.format must be text, json or yaml, got %q", c.Output.Format)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	return nil
}

// LexerOptions converts the [lexer] section.
func (c *Config) LexerOptions() lexer.Options {
	opts := lexer.DefaultOptions()
	if c.Lexer.NormalizeIdentifiers != nil {
		opts.NormalizeIdentifiers = *c.Lexer.NormalizeIdentifiers
	}
	return opts
}

// ParserOptions converts the [parser] section.
func (c *Config) ParserOptions() parser.Options {
	opts := parser.DefaultOptions()
	if c.Parser.MaxNestingDepth > 0 {
		opts.MaxNestingDepth = c.Parser.MaxNestingDepth
	}
	if c.Parser.SuggestKeywords != nil {
		opts.SuggestKeywords = *c.Parser.SuggestKeywords
	}
	return opts
}

// AnalyzerOptions converts the [analyzer] section.
func (c *Config) AnalyzerOptions() semantic.Options {
	return semantic.Options{ExtraBuiltins: c.Analyzer.ExtraBuiltins}
}

// Linter returns the linter described by the [lint] section, or nil when
// linting is off.
func (c *Config) Linter() *lint.Linter {
	if c.Lint.Enabled != nil && !*c.Lint.Enabled {
		return nil
	}
	return lint.New(c.Lint.Disable...)
}

func boolPtr(b bool) *bool {
	return &b
}
