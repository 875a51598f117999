// Package commands provides CLI commands for hookchat.
package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/hookchat/hookchat/internal/config"
)

var (
	// Global flags
	webhookFlag string
	darkFlag    bool
	verboseFlag bool

	// One-shot flags
	outputFlag string
	fileFlag   string
	copyFlag   bool

	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// deps is the dependency set used by the commands
var deps = NewDependencies()

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "hookchat [message]",
	Short: "Chat with a bot behind a webhook",
	Long: `hookchat sends chat messages to a webhook as {"message": "..."} and
shows the bot's reply. Replies may be shaped as {"reply": ...},
{"message": ...} or [{"output": ...}].

Examples:
  hookchat chat                         Start interactive chat
  hookchat "Hello"                      Send a single message
  hookchat -f message.md                Read the message from a file
  cat message.md | hookchat             Read the message from stdin
  hookchat "Hello" -o reply.md          Save the reply to a file
  hookchat config set webhook_url https://example.com/webhook/chat`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Fprintf(cmd.OutOrStdout(), "hookchat %s (built %s)\n", Version, BuildTime)
			return nil
		}

		message, ok, err := readMessage(args, os.Stdin)
		if err != nil {
			return err
		}
		if !ok {
			return cmd.Help()
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		raw := !isStdoutTTY()
		var console io.Writer
		if cfg.Verbose && !raw {
			console = os.Stderr
		}
		logger, closer, err := newLogger(cfg, console)
		if err != nil {
			return err
		}
		defer closer.Close()

		return runSend(deps, cfg, logger, message, sendOptions{
			raw:    raw,
			output: outputFlag,
			copy:   copyFlag || cfg.CopyToClipboard,
			stdout: os.Stdout,
			stderr: os.Stderr,
		})
	},
}

// readMessage picks the message from -f, stdin or the positional argument,
// in that order. ok is false when no input was given.
func readMessage(args []string, stdin *os.File) (string, bool, error) {
	if fileFlag != "" {
		data, err := os.ReadFile(fileFlag)
		if err != nil {
			return "", false, fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), true, nil
	}

	if stdin != nil {
		if stat, err := stdin.Stat(); err == nil && (stat.Mode()&os.ModeCharDevice) == 0 {
			data, err := io.ReadAll(stdin)
			if err != nil {
				return "", false, fmt.Errorf("failed to read stdin: %w", err)
			}
			if len(data) > 0 {
				return string(data), true, nil
			}
		}
	}

	if len(args) > 0 {
		return args[0], true, nil
	}

	return "", false, nil
}

// loadConfig loads the user configuration and applies the global flags
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("webhook") {
		cfg.WebhookURL = webhookFlag
		if err := config.Validate(cfg); err != nil {
			return cfg, err
		}
	}
	if flags.Changed("dark") {
		cfg.DarkMode = darkFlag
	}
	if flags.Changed("verbose") {
		cfg.Verbose = verboseFlag
	}

	return cfg, nil
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&webhookFlag, "webhook", "w", "", "Webhook URL (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&darkFlag, "dark", false, "Use the dark palette")
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "Enable debug logging")
	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Save the reply to file")
	rootCmd.Flags().StringVarP(&fileFlag, "file", "f", "", "Read the message from file")
	rootCmd.Flags().BoolVar(&copyFlag, "copy", false, "Copy the reply to the clipboard")
	rootCmd.Flags().BoolP("version", "v", false, "Show version and exit")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(configCmd)
}
