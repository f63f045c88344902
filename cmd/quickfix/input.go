// cmd/quickfix/input.go
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/julianshen/quickfix/internal/collector"
	"github.com/julianshen/quickfix/internal/config"
	"github.com/julianshen/quickfix/internal/idecontext"
	"github.com/julianshen/quickfix/internal/parser"
	"github.com/julianshen/quickfix/internal/runner"
	"github.com/julianshen/quickfix/internal/tui"
)

// Terminal interaction hooks, replaced in tests.
var (
	isInteractive = func(in io.Reader) bool { return tui.IsTerminal(in) }

	askInstruction = func(ctx context.Context, file string, in io.Reader, out io.Writer) (string, error) {
		return tui.NewInstructionForm(file).Run(ctx, in, out)
	}

	confirm = func(ctx context.Context, form *tui.ConfirmForm, in io.Reader, out io.Writer) (bool, error) {
		return form.Run(ctx, in, out)
	}
)

// contextFlags selects where the IDE context comes from: a context file or
// a source file plus caret and selection.
type contextFlags struct {
	contextPath string
	source      string
	line        int
	column      int
	selectStart int
	selectEnd   int
}

func (f *contextFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.contextPath, "context", "", "IDE context file, JSON or YAML (- for stdin)")
	cmd.Flags().StringVar(&f.source, "source", "", "source file to collect context from")
	cmd.Flags().IntVar(&f.line, "line", 0, "caret line (1-based) in --source")
	cmd.Flags().IntVar(&f.column, "column", 0, "caret column (1-based) in --source")
	f.registerSelection(cmd)
}

func (f *contextFlags) registerSelection(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.selectStart, "select-start", 0, "first selected line (1-based)")
	cmd.Flags().IntVar(&f.selectEnd, "select-end", 0, "last selected line (default: --select-start)")
}

// readsStdin reports whether the context itself comes from stdin.
func (f *contextFlags) readsStdin() bool { return f.contextPath == "-" }

// selection returns the selected line range, or nil when none was given.
func (f *contextFlags) selection() *collector.Range {
	if f.selectStart <= 0 {
		return nil
	}
	end := f.selectEnd
	if end < f.selectStart {
		end = f.selectStart
	}
	return &collector.Range{StartLine: f.selectStart, EndLine: end}
}

// load returns the context named by the flags. With neither --context nor
// --source it returns nil, which renders as an absent context.
func (f *contextFlags) load(cmd *cobra.Command, cfg *config.Config) (*idecontext.Context, error) {
	switch {
	case f.contextPath != "" && f.source != "":
		return nil, fmt.Errorf("use either --context or --source, not both")
	case f.contextPath == "-":
		data, err := runner.ReadFileOrStdin("-", cmd.InOrStdin())
		if err != nil {
			return nil, err
		}
		c := idecontext.Decode(data)
		if c == nil {
			c = idecontext.DecodeYAML(data)
		}
		return c, nil
	case f.contextPath != "":
		return idecontext.Load(f.contextPath)
	case f.source != "":
		src, err := os.ReadFile(f.source)
		if err != nil {
			return nil, fmt.Errorf("reading source file: %w", err)
		}
		col := collector.New(collector.Options{
			WindowLines:  cfg.Collector.WindowLines,
			CommentLimit: cfg.Collector.CommentLimit,
		})
		return col.Collect(cmd.Context(), collector.Request{
			Path:      f.source,
			Source:    src,
			Caret:     parser.Position{Line: f.line, Column: f.column},
			Selection: f.selection(),
		}), nil
	default:
		log.Debug().Msg("no context given, building prompt without IDE context")
		return nil, nil
	}
}
