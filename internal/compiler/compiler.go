// Package compiler drives the front-end pipeline.
//
// PIPELINE:
//  1. Lexical analysis (tokenization), fail-fast
//  2. Syntax analysis (parsing), with statement-level recovery
//  3. Semantic analysis (name resolution, scope checks), only on a clean
//     parse
//  4. Lint passes, after semantic analysis when [lint] is enabled; they
//     only ever add warnings
//
// Each stage's errors are converted to diag.Diagnostic. The stages
// themselves never log; the driver logs timings and counts at debug level.
package compiler

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/hassan/pyfront/internal/config"
	"github.com/hassan/pyfront/internal/diag"
	"github.com/hassan/pyfront/internal/lexer"
	"github.com/hassan/pyfront/internal/parser"
	"github.com/hassan/pyfront/internal/parser/ast"
	"github.com/hassan/pyfront/internal/semantic"
	"github.com/hassan/pyfront/internal/symtab"
)

// Compiler runs the pipeline with one configuration. It holds no
// per-unit state and is safe for concurrent use.
type Compiler struct {
	cfg    *config.Config
	logger *slog.Logger
}

// New creates a compiler. A nil cfg means config.Default(); a nil logger
// discards log output.
func New(cfg *config.Config, logger *slog.Logger) *Compiler {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Compiler{cfg: cfg, logger: logger}
}

// Config returns the configuration the compiler runs with.
func (c *Compiler) Config() *config.Config {
	return c.cfg
}

// Result is the outcome of running the pipeline on one unit.
type Result struct {
	Filename string
	Source   string

	// Tokens is nil when lexing failed.
	Tokens []lexer.Token

	// Module is nil when lexing failed. After parse errors it holds the
	// statements that parsed cleanly.
	Module *ast.Module

	// Table and Analyzer are nil unless the analyzer ran.
	Table    *symtab.Table
	Analyzer *semantic.Analyzer

	// Stage is the last stage that ran.
	Stage diag.Stage

	// Diagnostics holds errors and lint warnings in pipeline order.
	Diagnostics []diag.Diagnostic
	Duration    time.Duration
}

// OK reports whether the unit produced no errors. Warnings do not count.
func (r *Result) OK() bool {
	return r.Errors() == 0
}

// Errors returns the number of error diagnostics.
func (r *Result) Errors() int {
	errs, _ := diag.Count(r.Diagnostics)
	return errs
}

// Warnings returns the number of warning diagnostics.
func (r *Result) Warnings() int {
	_, warnings := diag.Count(r.Diagnostics)
	return warnings
}

// Tokenize runs the lexer only.
func (c *Compiler) Tokenize(source, filename string) ([]lexer.Token, error) {
	start := time.Now()
	tokens, err := lexer.NewWithOptions(source, filename, c.cfg.LexerOptions()).Tokenize()
	c.logger.Debug("lexed",
		"file", filename,
		"tokens", len(tokens),
		"duration", time.Since(start),
		"ok", err == nil,
	)
	return tokens, err
}

// Parse runs the lexer and the parser.
func (c *Compiler) Parse(source, filename string) *Result {
	start := time.Now()
	res := &Result{Filename: filename, Source: source}
	c.parse(res)
	res.Duration = time.Since(start)
	return res
}

// Check runs the whole pipeline.
func (c *Compiler) Check(source, filename string) *Result {
	start := time.Now()
	res := &Result{Filename: filename, Source: source}
	if c.parse(res) {
		c.analyze(res)
		c.lint(res)
	}
	res.Duration = time.Since(start)

	c.logger.Debug("checked",
		"file", filename,
		"stage", res.Stage.String(),
		"errors", res.Errors(),
		"warnings", res.Warnings(),
		"duration", res.Duration,
	)
	return res
}

// parse fills in Tokens and Module and reports whether the unit parsed
// cleanly.
func (c *Compiler) parse(res *Result) bool {
	res.Stage = diag.StageLexer
	tokens, err := c.Tokenize(res.Source, res.Filename)
	if err != nil {
		var syntaxErr *lexer.SyntaxError
		if errors.As(err, &syntaxErr) {
			res.Diagnostics = append(res.Diagnostics, diag.FromSyntax(syntaxErr))
		}
		return false
	}
	res.Tokens = tokens

	res.Stage = diag.StageParser
	start := time.Now()
	mod, parseErrs := parser.Parse(tokens, c.cfg.ParserOptions())
	res.Module = mod
	res.Diagnostics = append(res.Diagnostics, diag.FromParseErrors(parseErrs)...)
	c.logger.Debug("parsed",
		"file", res.Filename,
		"statements", len(mod.Body),
		"errors", len(parseErrs),
		"duration", time.Since(start),
	)
	return len(parseErrs) == 0
}

func (c *Compiler) analyze(res *Result) {
	res.Stage = diag.StageAnalyzer
	start := time.Now()
	a := semantic.New(c.cfg.AnalyzerOptions())
	table, semErrs := a.Analyze(res.Module)
	res.Analyzer = a
	res.Table = table
	res.Diagnostics = append(res.Diagnostics, diag.FromSemanticErrors(semErrs)...)
	c.logger.Debug("analyzed",
		"file", res.Filename,
		"scopes", table.Len(),
		"errors", len(semErrs),
		"duration", time.Since(start),
	)
}

func (c *Compiler) lint(res *Result) {
	linter := c.cfg.Linter()
	if linter == nil {
		return
	}
	res.Stage = diag.StageLint
	start := time.Now()
	findings, stats := linter.Run(res.Module)
	res.Diagnostics = append(res.Diagnostics, diag.FromFindings(findings)...)
	c.logger.Debug("linted",
		"file", res.Filename,
		"findings", stats.String(),
		"duration", time.Since(start),
	)
}
