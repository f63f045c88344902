// cmd/quickfix/apply.go
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/julianshen/quickfix/internal/config"
	"github.com/julianshen/quickfix/internal/fix"
	"github.com/julianshen/quickfix/internal/runner"
	"github.com/julianshen/quickfix/internal/store"
	"github.com/julianshen/quickfix/internal/tui"
)

// writeTarget writes the fixed document. Replaced in tests.
var writeTarget = os.WriteFile

func applyCmd(opts *rootOptions) *cobra.Command {
	var (
		sel      contextFlags
		file     string
		response string
		runID    string
		yes      bool
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply the code block of a model reply to a file",
		Long: `Extract the first fenced code block from a model reply and replace the
selected lines of --file with it, or the whole file when no selection is
given. A diff preview is shown first and the change is confirmed unless
--yes is set.

Exit codes: 0 applied, 2 declined, 3 no code block in the reply.`,
		Example: `  quickfix apply --file Order.java --response reply.md
  quickfix apply --file Order.java --select-start 12 --select-end 18 --yes < reply.md`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if file == "" {
				return fmt.Errorf("--file is required")
			}
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}

			reply, err := runner.ReadFileOrStdin(response, cmd.InOrStdin())
			if err != nil {
				return err
			}
			info, err := os.Stat(file)
			if err != nil {
				return fmt.Errorf("reading target file: %w", err)
			}
			doc, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("reading target file: %w", err)
			}

			a := &applier{
				cmd:    cmd,
				cfg:    cfg,
				file:   file,
				doc:    string(doc),
				perm:   info.Mode().Perm(),
				reply:  string(reply),
				yes:    yes,
				dryRun: dryRun,
			}
			if r := sel.selection(); r != nil {
				span, err := fix.LineSpan(a.doc, r.StartLine, r.EndLine)
				if err != nil {
					return err
				}
				a.sel = &span
			}

			outcome, err := a.run()
			if err != nil {
				return err
			}
			if runID != "" && !dryRun {
				finishRun(cfg, runID, outcome)
			}
			if code := runner.ExitCodeFromOutcome(outcome); code != 0 {
				return &runner.ExitError{Code: code}
			}
			return nil
		},
	}

	sel.registerSelection(cmd)
	cmd.Flags().StringVarP(&file, "file", "f", "", "file to change")
	cmd.Flags().StringVarP(&response, "response", "r", "-", "model reply file (- for stdin)")
	cmd.Flags().StringVar(&runID, "run", "", "history run id to mark with the outcome")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "apply without asking")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show the diff without changing the file")
	return cmd
}

// applier walks one reply through extraction, preview and confirmation.
type applier struct {
	cmd    *cobra.Command
	cfg    *config.Config
	file   string
	doc    string
	perm   os.FileMode
	reply  string
	sel    *fix.Span
	yes    bool
	dryRun bool
}

// run decides the outcome and writes the file when the change is accepted.
// A failed write is an error and leaves the run unfinished.
func (a *applier) run() (store.Outcome, error) {
	out := a.cmd.OutOrStdout()
	errOut := a.cmd.ErrOrStderr()

	code, ok := fix.ExtractCode(a.reply)
	if !ok {
		fmt.Fprintf(errOut, "%v\n", fix.ErrNoCodeBlock)
		return store.OutcomeNoCode, nil
	}

	target := fix.PlanTarget(a.doc, a.sel)
	target.Ratio = a.cfg.Fix.SnippetRatio
	if target.Whole {
		log.Info().Str("file", a.file).Msg("using full file for diff")
	} else {
		log.Info().Str("file", a.file).Int("start", target.Start).Int("end", target.End).Msg("using selection for diff")
	}

	preview := fix.Preview(target.Old, code)
	added, removed := fix.Changed(target.Old, code)
	fmt.Fprint(out, tui.DiffView(preview, added, removed))

	if a.dryRun {
		return store.OutcomePending, nil
	}

	label := target.Label(filepath.Base(a.file))
	if target.SuspiciousSnippet(code) && !a.yes {
		fmt.Fprintln(errOut, tui.Warning("The suggestion seems to be a snippet rather than the full file.", tui.Width(errOut)))
		ok, err := a.ask(tui.NewSnippetWarning())
		if err != nil || !ok {
			return store.OutcomeRejected, err
		}
	}
	if a.cfg.Fix.Confirm && !a.yes {
		ok, err := a.ask(tui.NewApplyConfirm(label))
		if err != nil || !ok {
			return store.OutcomeRejected, err
		}
	}

	result := fix.Apply(a.doc, target, code)
	if err := writeTarget(a.file, []byte(result), a.perm); err != nil {
		return "", fmt.Errorf("writing %s: %w", a.file, err)
	}
	fmt.Fprintf(out, "Applied Quick Fix %s (+%d -%d)\n", label, added, removed)
	return store.OutcomeApplied, nil
}

// ask shows form on a terminal. Without one, the change is declined.
func (a *applier) ask(form *tui.ConfirmForm) (bool, error) {
	in := a.cmd.InOrStdin()
	if !isInteractive(in) {
		fmt.Fprintln(a.cmd.ErrOrStderr(), "confirmation needs a terminal; rerun with --yes to apply")
		return false, nil
	}
	return confirm(a.cmd.Context(), form, in, a.cmd.ErrOrStderr())
}

// finishRun marks the run's outcome in the history. Failures are logged.
func finishRun(cfg *config.Config, id string, outcome store.Outcome) {
	history, closeFn, err := openHistory(cfg)
	if err != nil {
		log.Warn().Err(err).Msg("failed to open run history")
		return
	}
	defer closeFn()
	if history == nil {
		return
	}
	if err := history.FinishRun(id, outcome); err != nil {
		log.Warn().Err(err).Str("run", id).Msg("failed to record run outcome")
	}
}
