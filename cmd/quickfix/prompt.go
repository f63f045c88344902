// cmd/quickfix/prompt.go
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/julianshen/quickfix/internal/config"
	"github.com/julianshen/quickfix/internal/idecontext"
	"github.com/julianshen/quickfix/internal/output"
	"github.com/julianshen/quickfix/internal/parser"
	"github.com/julianshen/quickfix/internal/runner"
	"github.com/julianshen/quickfix/internal/tui"
)

// outputFlags control how a built prompt is printed.
type outputFlags struct {
	format string
	render bool
}

func (f *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.format, "output", "o", "text", "output format: text, json, markdown")
	cmd.Flags().BoolVar(&f.render, "render", false, "render the prompt as styled markdown")
}

// write prints res in the chosen format. With --render, text output is
// passed through Glamour; the "notty" style is used off a terminal.
func (f *outputFlags) write(out io.Writer, res *output.Result) error {
	formatter, err := output.New(f.format)
	if err != nil {
		return err
	}
	data, err := formatter.Format(res)
	if err != nil {
		return fmt.Errorf("formatting result: %w", err)
	}

	if f.render && (f.format == "" || f.format == "text" || f.format == "markdown") {
		style := "notty"
		if tui.IsTerminal(out) {
			style = "dark"
		}
		r, err := tui.NewMarkdownRenderer(style, tui.Width(out))
		if err != nil {
			return err
		}
		rendered, err := r.Render(string(data))
		if err != nil {
			return fmt.Errorf("rendering prompt: %w", err)
		}
		data = []byte(rendered)
	}

	_, err = out.Write(data)
	return err
}

// newPromptRunner opens the history when enabled and returns a runner over
// it with its cleanup function.
func newPromptRunner(cfg *config.Config) (*runner.PromptRunner, func(), error) {
	history, closeFn, err := openHistory(cfg)
	if err != nil {
		return nil, nil, err
	}
	var rec runner.Recorder
	if history != nil {
		rec = history
	}
	return runner.NewPromptRunner(rec), closeFn, nil
}

func promptCmd(opts *rootOptions) *cobra.Command {
	var (
		cf              contextFlags
		of              outputFlags
		instruction     string
		instructionFile string
		interactive     bool
	)

	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Build the Quick Fix prompt",
		Long: `Build the Quick Fix prompt from an IDE context and the user's request.

The context comes from --context (a JSON or YAML file, - for stdin) or is
collected from --source at --line/--column. The request comes from
--instruction, --instruction-file, piped stdin, or an interactive form.`,
		Example: `  quickfix prompt --source Order.java --line 14 -i "handle empty items"
  quickfix prompt --context ctx.json --instruction-file request.txt -o json
  echo "add javadoc" | quickfix prompt --source Order.java --select-start 10 --select-end 20`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			ideCtx, err := cf.load(cmd, cfg)
			if err != nil {
				return err
			}

			text, err := resolveInstruction(cmd, ideCtx, instruction, instructionFile, interactive, cf.readsStdin())
			if err != nil {
				return err
			}

			pr, closeFn, err := newPromptRunner(cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			return of.write(cmd.OutOrStdout(), pr.QuickFix(ideCtx, text))
		},
	}

	cf.register(cmd)
	of.register(cmd)
	cmd.Flags().StringVarP(&instruction, "instruction", "i", "", "what the Quick Fix should do")
	cmd.Flags().StringVar(&instructionFile, "instruction-file", "", "read the instruction from a file")
	cmd.Flags().BoolVar(&interactive, "interactive", false, "ask for the instruction in a form")
	return cmd
}

// resolveInstruction picks the instruction from flags, a file, piped stdin
// or, on a terminal, the interactive form.
func resolveInstruction(cmd *cobra.Command, ideCtx *idecontext.Context, flag, file string, interactive, contextOnStdin bool) (string, error) {
	in := cmd.InOrStdin()
	active := ""
	if ideCtx.HasActive() {
		active = ideCtx.Active
	}

	if interactive {
		return promptForInstruction(cmd, active)
	}

	var stdin io.Reader
	if !contextOnStdin && !isInteractive(in) {
		stdin = in
	}
	text, err := runner.ResolveInput(flag, file, stdin)
	if errors.Is(err, runner.ErrNoInput) && isInteractive(in) {
		return promptForInstruction(cmd, active)
	}
	return text, err
}

func promptForInstruction(cmd *cobra.Command, file string) (string, error) {
	text, err := askInstruction(cmd.Context(), file, cmd.InOrStdin(), cmd.ErrOrStderr())
	if errors.Is(err, tui.ErrCancelled) {
		return "", &runner.ExitError{Code: 130}
	}
	return text, err
}

func contextCmd(opts *rootOptions) *cobra.Command {
	var (
		cf          contextFlags
		of          outputFlags
		agentID     string
		agentPrompt string
	)

	cmd := &cobra.Command{
		Use:   "context",
		Short: "Build the context section with an optional agent role",
		Long: `Build the context section of a prompt: the agent role block, the
file path advisory and the rendered IDE context.

The agent role comes from --agent-prompt, the agent named by --agent, or
the selected agent, in that order.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			ideCtx, err := cf.load(cmd, cfg)
			if err != nil {
				return err
			}

			role := agentPrompt
			label := ""
			if role == "" {
				st := agentStore(cfg)
				label = agentID
				if label == "" {
					label = st.Selected()
				}
				role, err = st.Resolve(agentID)
				if err != nil {
					return err
				}
			}

			pr, closeFn, err := newPromptRunner(cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			return of.write(cmd.OutOrStdout(), pr.Context(ideCtx, label, role))
		},
	}

	cf.register(cmd)
	of.register(cmd)
	cmd.Flags().StringVar(&agentID, "agent", "", "agent id whose prompt becomes the role block")
	cmd.Flags().StringVar(&agentPrompt, "agent-prompt", "", "literal agent role text")
	return cmd
}

func collectCmd(opts *rootOptions) *cobra.Command {
	var (
		cf        contextFlags
		functions bool
	)

	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Print the IDE context collected from a source file",
		Long: `Collect the IDE context for a caret or selection in a source file and
print it as JSON, in the shape the prompt command accepts with --context.
With --functions, list the functions in the file with their line ranges
instead, to help pick a --line or selection.`,
		Example: `  quickfix collect --source Order.java --line 14 > ctx.json
  quickfix collect --source Order.java --functions`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cf.source == "" {
				return fmt.Errorf("--source is required")
			}
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			if functions {
				return listFunctions(cmd, cf.source)
			}
			ideCtx, err := cf.load(cmd, cfg)
			if err != nil {
				return err
			}
			data, err := ideCtx.Encode()
			if err != nil {
				return fmt.Errorf("encoding context: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	cmd.Flags().StringVar(&cf.source, "source", "", "source file to collect context from")
	cmd.Flags().IntVar(&cf.line, "line", 0, "caret line (1-based)")
	cmd.Flags().IntVar(&cf.column, "column", 0, "caret column (1-based)")
	cf.registerSelection(cmd)
	cmd.Flags().BoolVar(&functions, "functions", false, "list functions and their line ranges")
	return cmd
}

func listFunctions(cmd *cobra.Command, path string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading source file: %w", err)
	}
	tree, err := parser.NewParser().Parse(cmd.Context(), path, source)
	if err != nil {
		return err
	}
	defer tree.Close()

	out := cmd.OutOrStdout()
	funcs := tree.Functions()
	if len(funcs) == 0 {
		fmt.Fprintln(out, "No functions found.")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LINES\tNAME\tSIGNATURE")
	for _, f := range funcs {
		fmt.Fprintf(w, "%d-%d\t%s\t%s\n", f.StartLine, f.EndLine, f.Name, f.Signature)
	}
	return w.Flush()
}
