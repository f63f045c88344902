// cmd/quickfix/configcmd.go
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/julianshen/quickfix/internal/config"
	"github.com/julianshen/quickfix/internal/runner"
	"github.com/julianshen/quickfix/internal/tui"
)

func configCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or edit the configuration",
	}

	path := func() string {
		if opts.configPath != "" {
			return opts.configPath
		}
		return config.DefaultPath()
	}

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), path())
		},
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			return toml.NewEncoder(cmd.OutOrStdout()).Encode(cfg)
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := path()
			if _, err := os.Stat(p); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", p)
			}
			if err := config.Save(p, config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", p)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	editCmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit the configuration in a form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !isInteractive(cmd.InOrStdin()) {
				return fmt.Errorf("config edit needs a terminal")
			}
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			err = tui.NewConfigForm(cfg, path()).Run(cmd.Context(), cmd.InOrStdin(), cmd.ErrOrStderr())
			if errors.Is(err, tui.ErrCancelled) {
				return &runner.ExitError{Code: 130}
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", path())
			return nil
		},
	}

	cmd.AddCommand(pathCmd, showCmd, initCmd, editCmd)
	return cmd
}
