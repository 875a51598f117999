package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hookchat/hookchat/internal/config"
)

// NewConfigCmd creates the config command and its subcommands
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change settings",
		Long: `Show or change hookchat settings stored in ~/.hookchat/config.json.

HOOKCHAT_* environment variables override the file at runtime.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.OutOrStdout())
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return showConfig(cmd.OutOrStdout())
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file path",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := config.GetConfigPath()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			},
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Change a setting",
			Long:  "Change a setting. Keys: " + strings.Join(config.Keys(), ", "),
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return setConfig(cmd.OutOrStdout(), args[0], args[1])
			},
		},
	)

	return cmd
}

var configCmd = NewConfigCmd()

// showConfig prints the effective configuration as JSON
func showConfig(w io.Writer) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

// setConfig updates one key in the config file. Environment overrides are
// not written back.
func setConfig(w io.Writer, key, value string) error {
	cfg, err := config.LoadFile()
	if err != nil {
		return err
	}

	if err := config.SetValue(&cfg, key, value); err != nil {
		return err
	}
	if err := config.SaveConfig(cfg); err != nil {
		return err
	}

	fmt.Fprintf(w, "%s = %s\n", key, value)
	return nil
}
