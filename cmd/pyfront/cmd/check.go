package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hassan/pyfront/internal/compiler"
)

var watch bool

var checkCmd = &cobra.Command{
	Use:   "check <file|dir>...",
	Short: "Check files for syntax and name errors",
	Long: `Runs the whole front end on every file and reports lexical, syntax and
semantic errors with the offending source line.

Directories are searched recursively for files matching batch.patterns.
Files are checked concurrently with batch.workers workers. With --watch
the files are checked again whenever they change, until interrupted.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVarP(&watch, "watch", "w", false, "re-check when files change")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	c := newCompiler()

	if len(args) == 1 && args[0] == "-" {
		source, filename, err := readSource(cmd, "-")
		if err != nil {
			return err
		}
		res := c.Check(source, filename)
		results := []compiler.FileResult{{Path: filename, Result: res}}
		if report(cmd.OutOrStdout(), cmd.ErrOrStderr(), results) > 0 {
			return errProblems
		}
		return nil
	}

	if watch {
		return runWatch(cmd, c, args)
	}

	paths, err := c.ExpandPaths(args)
	if err != nil {
		return err
	}
	results := c.CheckFiles(cmd.Context(), paths)
	if report(cmd.OutOrStdout(), cmd.ErrOrStderr(), results) > 0 {
		return errProblems
	}
	return nil
}

func runWatch(cmd *cobra.Command, c *compiler.Compiler, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	w, err := c.NewWatcher(args, func(results []compiler.FileResult) {
		fmt.Fprintf(out, "[%s] ", time.Now().Format("15:04:05"))
		report(out, errOut, results)
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "Watching for changes, press Ctrl+C to stop")
	return w.Run(ctx)
}

// report prints the diagnostics of every result and a summary line, and
// returns the number of files with errors. Warnings are printed and
// counted but never fail a file.
func report(out, errOut io.Writer, results []compiler.FileResult) int {
	renderer := newRenderer(errOut)
	failed, problems, warnings := 0, 0, 0
	for _, r := range results {
		if r.Err != nil {
			printError(errOut, r.Err)
			failed++
			continue
		}
		if len(r.Result.Diagnostics) == 0 {
			continue
		}
		renderer.Render(r.Result.Source, r.Result.Diagnostics)
		warnings += r.Result.Warnings()
		if !r.Result.OK() {
			failed++
			problems += r.Result.Errors()
		}
	}

	summary := plural(len(results), "file") + ": "
	if failed == 0 {
		summary += "no problems"
	} else {
		summary += fmt.Sprintf("%s in %s", plural(problems, "problem"), plural(failed, "file"))
	}
	if warnings > 0 {
		summary += ", " + plural(warnings, "warning")
	}
	fmt.Fprintln(out, summary)
	return failed
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
