// cmd/quickfix/main.go
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/julianshen/quickfix/internal/agents"
	"github.com/julianshen/quickfix/internal/config"
	"github.com/julianshen/quickfix/internal/logging"
	"github.com/julianshen/quickfix/internal/runner"
	"github.com/julianshen/quickfix/internal/store"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func versionString() string {
	return fmt.Sprintf("quickfix %s (commit: %s, built: %s)", version, commit, date)
}

// rootOptions carries the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	logLevel   string
	noHistory  bool
}

// load reads the config file and sets up logging on stderr.
func (o *rootOptions) load(cmd *cobra.Command) (*config.Config, error) {
	path := o.configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	level := cfg.Log.Level
	if o.logLevel != "" {
		level = o.logLevel
	}
	if err := logging.Setup(level, cfg.Log.Format, cmd.ErrOrStderr()); err != nil {
		return nil, err
	}
	if o.noHistory {
		cfg.History.Enabled = false
	}
	return cfg, nil
}

// agentStore opens the agent store named by cfg.
func agentStore(cfg *config.Config) *agents.Store {
	return agents.NewStore(cfg.Agents.File, cfg.Agents.PersonaDir)
}

// openHistory opens the run history, or returns nil when it is disabled.
// The returned close function is always safe to call.
func openHistory(cfg *config.Config) (*store.Store, func(), error) {
	if !cfg.History.Enabled {
		return nil, func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.History.Path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating history directory: %w", err)
	}
	s, err := store.NewStore(cfg.History.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening history: %w", err)
	}
	return s, func() { s.Close() }, nil
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "quickfix",
		Short: "Build Quick Fix prompts from IDE context",
		Long: `quickfix assembles the prompt an IDE sends to a coding assistant when the
user asks for a Quick Fix: the active file, selection, diagnostics and code
structure, followed by the user's request.

It can also collect that context from a source file, manage agent personas,
and apply the code block of a model reply back to the file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config file (default: "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&opts.noHistory, "no-history", false, "do not record this run in the history database")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), versionString())
		},
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(promptCmd(opts))
	rootCmd.AddCommand(contextCmd(opts))
	rootCmd.AddCommand(collectCmd(opts))
	rootCmd.AddCommand(applyCmd(opts))
	rootCmd.AddCommand(agentCmd(opts))
	rootCmd.AddCommand(historyCmd(opts))
	rootCmd.AddCommand(configCmd(opts))

	return rootCmd
}

// run executes the root command and maps errors to an exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.Execute()
	if err == nil {
		return 0
	}
	var exitErr *runner.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return 1
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
