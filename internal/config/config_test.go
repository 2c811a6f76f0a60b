package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pyfront.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDuration_UnmarshalText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"seconds", "30s", 30 * time.Second, false},
		{"milliseconds", "250ms", 250 * time.Millisecond, false},
		{"complex", "1m30s", 90 * time.Second, false},
		{"invalid", "soon", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.input))

			if (err != nil) != tt.wantErr {
				t.Errorf("UnmarshalText() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && d.Duration != tt.expected {
				t.Errorf("UnmarshalText() = %v, want %v", d.Duration, tt.expected)
			}
		})
	}
}

func TestDuration_MarshalText(t *testing.T) {
	d := Duration{90 * time.Second}
	result, err := d.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText() error = %v", err)
	}
	if string(result) != "1m30s" {
		t.Errorf("MarshalText() = %v, want 1m30s", string(result))
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if !*cfg.Lexer.NormalizeIdentifiers {
		t.Errorf("Lexer.NormalizeIdentifiers = false, want true")
	}
	if cfg.Parser.MaxNestingDepth != 200 {
		t.Errorf("Parser.MaxNestingDepth = %v, want 200", cfg.Parser.MaxNestingDepth)
	}
	if !*cfg.Parser.SuggestKeywords {
		t.Errorf("Parser.SuggestKeywords = false, want true")
	}
	if !*cfg.Lint.Enabled || len(cfg.Lint.Disable) != 0 {
		t.Errorf("Lint = %+v, want enabled with nothing disabled", cfg.Lint)
	}
	if cfg.Output.Color != "auto" {
		t.Errorf("Output.Color = %v, want auto", cfg.Output.Color)
	}
	if cfg.Output.Format != "text" {
		t.Errorf("Output.Format = %v, want text", cfg.Output.Format)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %v, want warn", cfg.Log.Level)
	}
	if cfg.Batch.Workers != 4 {
		t.Errorf("Batch.Workers = %v, want 4", cfg.Batch.Workers)
	}
	if cfg.Batch.Timeout.Duration != 30*time.Second {
		t.Errorf("Batch.Timeout = %v, want 30s", cfg.Batch.Timeout.Duration)
	}
	if len(cfg.Batch.Patterns) != 1 || cfg.Batch.Patterns[0] != "*.py" {
		t.Errorf("Batch.Patterns = %v, want [*.py]", cfg.Batch.Patterns)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[lexer]
normalize_identifiers = false

[parser]
max_nesting_depth = 50
suggest_keywords = false

[analyzer]
extra_builtins = ["__name__", "__file__"]

[lint]
disable = ["unreachable"]

[output]
color = "never"
format = "yaml"

[log]
level = "debug"

[batch]
workers = 8
timeout = "5s"
patterns = ["*.py", "*.pyi"]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if *cfg.Lexer.NormalizeIdentifiers {
		t.Errorf("Lexer.NormalizeIdentifiers = true, want false")
	}
	if cfg.Parser.MaxNestingDepth != 50 {
		t.Errorf("Parser.MaxNestingDepth = %v, want 50", cfg.Parser.MaxNestingDepth)
	}
	if *cfg.Parser.SuggestKeywords {
		t.Errorf("Parser.SuggestKeywords = true, want false")
	}
	if got := strings.Join(cfg.Analyzer.ExtraBuiltins, ","); got != "__name__,__file__" {
		t.Errorf("Analyzer.ExtraBuiltins = %v, want __name__,__file__", got)
	}
	if !*cfg.Lint.Enabled || len(cfg.Lint.Disable) != 1 || cfg.Lint.Disable[0] != "unreachable" {
		t.Errorf("Lint = %+v, want enabled without unreachable", cfg.Lint)
	}
	if cfg.Output.Color != "never" || cfg.Output.Format != "yaml" {
		t.Errorf("Output = %+v, want never/yaml", cfg.Output)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %v, want debug", cfg.Log.Level)
	}
	if cfg.Batch.Workers != 8 {
		t.Errorf("Batch.Workers = %v, want 8", cfg.Batch.Workers)
	}
	if cfg.Batch.Timeout.Duration != 5*time.Second {
		t.Errorf("Batch.Timeout = %v, want 5s", cfg.Batch.Timeout.Duration)
	}
	if len(cfg.Batch.Patterns) != 2 {
		t.Errorf("Batch.Patterns = %v, want 2 patterns", cfg.Batch.Patterns)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "[batch]\nworkers = 2\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Batch.Workers != 2 {
		t.Errorf("Batch.Workers = %v, want 2", cfg.Batch.Workers)
	}
	if cfg.Parser.MaxNestingDepth != 200 {
		t.Errorf("Parser.MaxNestingDepth = %v, want 200", cfg.Parser.MaxNestingDepth)
	}
	if !*cfg.Lexer.NormalizeIdentifiers {
		t.Errorf("Lexer.NormalizeIdentifiers = false, want true")
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"syntax", "[parser\n", "failed to parse config"},
		{"unknown key", "[parser]\ndepth = 3\n", "unknown config keys"},
		{"bad color", "[output]\ncolor = \"rainbow\"\n", "output.color"},
		{"bad format", "[output]\nformat = \"xml\"\n", "output.format"},
		{"bad level", "[log]\nlevel = \"loud\"\n", "log.level"},
		{"negative workers", "[batch]\nworkers = -1\n", "batch.workers"},
		{"bad duration", "[batch]\ntimeout = \"soon\"\n", "failed to parse config"},
		{"unknown lint pass", "[lint]\ndisable = [\"style\"]\n", "unknown pass \"style\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatalf("Load() error = nil, want %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil || !strings.Contains(err.Error(), "config file not found") {
		t.Errorf("Load() error = %v, want config file not found", err)
	}
}

func TestLoad_ExpandsEnv(t *testing.T) {
	path := writeConfig(t, "[log]\nlevel = \"error\"\n")
	t.Setenv("PYFRONT_TEST_DIR", filepath.Dir(path))

	cfg, err := Load("$PYFRONT_TEST_DIR/pyfront.toml")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("Log.Level = %v, want error", cfg.Log.Level)
	}
}

func TestLoadFromEnv(t *testing.T) {
	path := writeConfig(t, "[batch]\nworkers = 3\n")
	t.Setenv(EnvVar, path)

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
	if cfg.Batch.Workers != 3 {
		t.Errorf("Batch.Workers = %v, want 3", cfg.Batch.Workers)
	}
}

func TestLoadFromEnv_FallsBackToDefault(t *testing.T) {
	home := t.TempDir()
	t.Setenv(EnvVar, "")
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
	if cfg.Batch.Workers != 4 {
		t.Errorf("Batch.Workers = %v, want 4", cfg.Batch.Workers)
	}
}

func TestOptionsConversion(t *testing.T) {
	cfg := Default()
	*cfg.Lexer.NormalizeIdentifiers = false
	cfg.Parser.MaxNestingDepth = 12
	*cfg.Parser.SuggestKeywords = false
	cfg.Analyzer.ExtraBuiltins = []string{"__name__"}

	if cfg.LexerOptions().NormalizeIdentifiers {
		t.Errorf("LexerOptions().NormalizeIdentifiers = true, want false")
	}
	popts := cfg.ParserOptions()
	if popts.MaxNestingDepth != 12 || popts.SuggestKeywords {
		t.Errorf("ParserOptions() = %+v, want depth 12 without suggestions", popts)
	}
	if got := cfg.AnalyzerOptions().ExtraBuiltins; len(got) != 1 || got[0] != "__name__" {
		t.Errorf("AnalyzerOptions().ExtraBuiltins = %v, want [__name__]", got)
	}
}

func TestLinter(t *testing.T) {
	cfg := Default()
	if got := cfg.Linter().Passes(); len(got) != 2 {
		t.Errorf("Linter().Passes() = %v, want both passes", got)
	}

	cfg.Lint.Disable = []string{"constant-condition"}
	if got := cfg.Linter().Passes(); len(got) != 1 || got[0] != "unreachable" {
		t.Errorf("Linter().Passes() = %v, want [unreachable]", got)
	}

	*cfg.Lint.Enabled = false
	if l := cfg.Linter(); l != nil {
		t.Errorf("Linter() = %v, want nil when disabled", l)
	}
}
