// cmd/quickfix/agent.go
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/julianshen/quickfix/internal/agents"
	"github.com/julianshen/quickfix/internal/tui"
)

// agentCmd returns the top-level "agent" command with list, show, add,
// edit, remove and select subcommands.
func agentCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Manage agent personas",
		Long: `List, inspect, add, edit, remove and select the agents whose prompt is
used as the role block of the context section.

Agents live in agent.json. Markdown files in the persona directory add
read-only agents named after the file.`,
	}

	cmd.AddCommand(agentListCmd(opts))
	cmd.AddCommand(agentShowCmd(opts))
	cmd.AddCommand(agentAddCmd(opts))
	cmd.AddCommand(agentEditCmd(opts))
	cmd.AddCommand(agentRemoveCmd(opts))
	cmd.AddCommand(agentSelectCmd(opts))

	return cmd
}

func openAgents(opts *rootOptions, cmd *cobra.Command) (*agents.Store, error) {
	cfg, err := opts.load(cmd)
	if err != nil {
		return nil, err
	}
	return agentStore(cfg), nil
}

func agentListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List agents, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := openAgents(opts, cmd)
			if err != nil {
				return err
			}
			list, err := st.List()
			if err != nil {
				return fmt.Errorf("listing agents: %w", err)
			}
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No agents configured.")
				return nil
			}

			selected := st.Selected()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, " \tID\tNAME\tSOURCE\tDESCRIPTION")
			for _, a := range list {
				source := "agent.json"
				if a.ReadOnly() {
					source = "persona"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					tui.Marker(a.ID == selected), a.ID, a.Name, source, oneLine(a.Description, 50))
			}
			return w.Flush()
		},
	}
}

func agentShowCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show an agent and its prompt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openAgents(opts, cmd)
			if err != nil {
				return err
			}
			a, err := st.Get(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				data, err := json.MarshalIndent(a, "", "  ")
				if err != nil {
					return fmt.Errorf("encoding agent: %w", err)
				}
				fmt.Fprintln(out, string(data))
				return nil
			}

			fmt.Fprintf(out, "ID:          %s\n", a.ID)
			fmt.Fprintf(out, "Name:        %s\n", a.Name)
			if a.Description != "" {
				fmt.Fprintf(out, "Description: %s\n", a.Description)
			}
			if a.ReadOnly() {
				fmt.Fprintf(out, "Source:      %s\n", a.Source)
			}
			if a.ID == st.Selected() {
				fmt.Fprintln(out, "Selected:    yes")
			}
			fmt.Fprintf(out, "\n%s\n", a.Prompt)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the agent as JSON")
	return cmd
}

func agentAddCmd(opts *rootOptions) *cobra.Command {
	var (
		a          agents.Agent
		promptFile string
		sel        bool
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an agent to agent.json",
		Example: `  quickfix agent add --id reviewer --name "Code Reviewer" --prompt "Review for correctness first."
  quickfix agent add --name Tester --prompt-file tester.txt --select`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(a.Name) == "" {
				return fmt.Errorf("--name is required")
			}
			if promptFile != "" {
				data, err := os.ReadFile(promptFile)
				if err != nil {
					return fmt.Errorf("reading prompt file: %w", err)
				}
				a.Prompt = string(data)
			}
			st, err := openAgents(opts, cmd)
			if err != nil {
				return err
			}
			added, err := st.Add(a)
			if err != nil {
				return err
			}
			if sel {
				if err := st.Select(added.ID); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added agent %q (%s).\n", added.Name, added.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&a.ID, "id", "", "agent id (default: generated)")
	cmd.Flags().StringVar(&a.Name, "name", "", "display name")
	cmd.Flags().StringVar(&a.Description, "description", "", "short description")
	cmd.Flags().StringVar(&a.Prompt, "prompt", "", "role text prepended to the context")
	cmd.Flags().StringVar(&promptFile, "prompt-file", "", "read the role text from a file")
	cmd.Flags().BoolVar(&sel, "select", false, "select the new agent")
	return cmd
}

func agentEditCmd(opts *rootOptions) *cobra.Command {
	var name, description, prompt string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change an agent's name, description or prompt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var p agents.Patch
			flags := cmd.Flags()
			if flags.Changed("name") {
				p.Name = &name
			}
			if flags.Changed("description") {
				p.Description = &description
			}
			if flags.Changed("prompt") {
				p.Prompt = &prompt
			}
			if p == (agents.Patch{}) {
				return fmt.Errorf("nothing to change: set --name, --description or --prompt")
			}

			st, err := openAgents(opts, cmd)
			if err != nil {
				return err
			}
			updated, err := st.Update(args[0], p)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated agent %q.\n", updated.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new display name")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().StringVar(&prompt, "prompt", "", "new role text")
	return cmd
}

func agentRemoveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Remove an agent from agent.json",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openAgents(opts, cmd)
			if err != nil {
				return err
			}
			removed, err := st.Delete(args[0])
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("%w: %s", agents.ErrNotFound, args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed agent %q.\n", args[0])
			return nil
		},
	}
}

func agentSelectCmd(opts *rootOptions) *cobra.Command {
	var clearSel bool
	cmd := &cobra.Command{
		Use:   "select [id]",
		Short: "Select the agent used when none is named",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if clearSel == (len(args) == 1) {
				return fmt.Errorf("give an agent id or --clear")
			}
			st, err := openAgents(opts, cmd)
			if err != nil {
				return err
			}
			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			if err := st.Select(id); err != nil {
				return err
			}
			if id == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "Cleared agent selection.")
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Selected agent %q.\n", id)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&clearSel, "clear", false, "clear the selection")
	return cmd
}

// oneLine collapses s to a single line of at most n runes.
func oneLine(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
