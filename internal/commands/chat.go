package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hookchat/hookchat/internal/config"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Start an interactive chat with the bot behind the configured webhook.

Enter sends, Alt+Enter inserts a newline, Ctrl+T toggles dark mode and
Ctrl+Y copies the last reply. Press Esc or Ctrl+C to quit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return runChat(deps, cfg)
	},
}

// runChat starts the TUI. Logs go only to the file while the alt screen is active.
func runChat(d *Dependencies, cfg config.Config) error {
	logger, closer, err := newLogger(cfg, nil)
	if err != nil {
		return err
	}
	defer closer.Close()

	exchanger, err := d.NewExchanger(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create webhook client: %w", err)
	}

	logger.Info("chat started", "endpoint", cfg.WebhookURL)
	return d.TUI.RunChat(exchanger, cfg, logger)
}
