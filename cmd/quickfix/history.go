// cmd/quickfix/history.go
package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func historyCmd(opts *rootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent Quick Fix runs",
		Long: `Display a table of recent runs with their outcome. Only metadata is
recorded: file, instruction, agent and prompt size.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			history, closeFn, err := openHistory(cfg)
			if err != nil {
				return err
			}
			defer closeFn()
			if history == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "History is disabled.")
				return nil
			}

			if !cmd.Flags().Changed("limit") {
				limit = cfg.History.Limit
			}
			runs, err := history.ListRuns(limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCREATED\tOUTCOME\tBYTES\tFILE\tINSTRUCTION")
			for _, r := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
					r.ID, r.CreatedAt.Local().Format(time.DateTime), r.Outcome,
					r.PromptBytes, r.File, oneLine(r.Instruction, 40),
				)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs to show (0 for all)")
	cmd.AddCommand(historyShowCmd(opts))
	return cmd
}

func historyShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			history, closeFn, err := openHistory(cfg)
			if err != nil {
				return err
			}
			defer closeFn()
			if history == nil {
				return fmt.Errorf("history is disabled")
			}

			r, err := history.GetRun(args[0])
			if err != nil {
				return err
			}
			finished := "-"
			if !r.FinishedAt.IsZero() {
				finished = r.FinishedAt.Local().Format(time.DateTime)
			}
			agent := r.Agent
			if agent == "" {
				agent = "-"
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "ID:\t%s\n", r.ID)
			fmt.Fprintf(w, "File:\t%s\n", r.File)
			fmt.Fprintf(w, "Agent:\t%s\n", agent)
			fmt.Fprintf(w, "Outcome:\t%s\n", r.Outcome)
			fmt.Fprintf(w, "Prompt bytes:\t%d\n", r.PromptBytes)
			fmt.Fprintf(w, "Created:\t%s\n", r.CreatedAt.Local().Format(time.DateTime))
			fmt.Fprintf(w, "Finished:\t%s\n", finished)
			fmt.Fprintf(w, "Instruction:\t%s\n", r.Instruction)
			return w.Flush()
		},
	}
}
