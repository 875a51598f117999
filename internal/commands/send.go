package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/hookchat/hookchat/internal/chat"
	"github.com/hookchat/hookchat/internal/config"
	apierrors "github.com/hookchat/hookchat/internal/errors"
	"github.com/hookchat/hookchat/internal/render"
)

// clipboardWrite is swapped out in tests
var clipboardWrite = clipboard.WriteAll

// sendOptions controls how a one-shot reply is delivered
type sendOptions struct {
	raw    bool   // print only the reply text
	output string // file to save the reply to
	copy   bool   // copy the reply to the clipboard
	stdout io.Writer
	stderr io.Writer
}

// runSend submits one message through a fresh conversation and prints the reply
func runSend(d *Dependencies, cfg config.Config, logger *slog.Logger, message string, opts sendOptions) error {
	theme := render.ThemeFor(cfg.DarkMode, cfg.TUITheme, cfg.LightTheme)

	exchanger, err := d.NewExchanger(cfg, logger)
	if err != nil {
		if !opts.raw {
			fmt.Fprintln(opts.stderr, formatErrorMessage(err, "Invalid configuration", theme))
		}
		return fmt.Errorf("failed to create webhook client: %w", err)
	}

	// Set by the exchange goroutine; read only after Wait
	var failure *chat.Notification
	ctrl := chat.New(exchanger,
		chat.WithLogger(logger),
		chat.WithNotifier(chat.NotifierFunc(func(n chat.Notification) {
			failure = &n
		})),
	)

	var spin *spinner
	if !opts.raw {
		spin = newSpinner(opts.stderr, "Waiting for reply", theme)
	}

	if !ctrl.Submit(message) {
		return fmt.Errorf("message cannot be empty")
	}
	if spin != nil {
		spin.start()
	}

	startTime := time.Now()
	ctrl.Wait()
	logger.Debug("exchange finished", "duration", time.Since(startTime).Round(time.Millisecond))

	if failure != nil {
		if !opts.raw {
			spin.stopWithError()
			fmt.Fprintln(opts.stderr, formatNotification(*failure, theme))
		}
		return fmt.Errorf("%s: %w", failure.Title, failure.Err)
	}
	if !opts.raw {
		spin.stopWithSuccess("Done")
	}

	last, _ := ctrl.LastReply()
	text := last.Text

	if opts.raw {
		if opts.copy {
			if err := clipboardWrite(text); err != nil {
				fmt.Fprintf(opts.stderr, "warning: failed to copy to clipboard: %v\n", err)
			}
		}
		if opts.output != "" {
			return writeOutput(opts.output, text)
		}
		fmt.Fprint(opts.stdout, text)
		return nil
	}

	fmt.Fprintln(opts.stderr)

	if opts.copy {
		if err := clipboardWrite(text); err != nil {
			warn := lipgloss.NewStyle().Foreground(theme.Error).Render(
				fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err),
			)
			fmt.Fprintln(opts.stderr, warn)
		} else {
			fmt.Fprintln(opts.stderr, lipgloss.NewStyle().Foreground(theme.Secondary).Render("✓ Copied to clipboard"))
		}
	}

	if opts.output != "" {
		if err := writeOutput(opts.output, text); err != nil {
			return err
		}
		saved := lipgloss.NewStyle().Foreground(theme.Secondary).Render(
			fmt.Sprintf("✓ Reply saved to %s", opts.output),
		)
		fmt.Fprintln(opts.stderr, saved)
		return nil
	}

	fmt.Fprintln(opts.stdout, renderReply(cfg, text, getTerminalWidth()))
	return nil
}

func writeOutput(path, text string) error {
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// renderReply draws the reply as a labelled markdown bubble in the configured palette
func renderReply(cfg config.Config, text string, termWidth int) string {
	theme := render.ThemeFor(cfg.DarkMode, cfg.TUITheme, cfg.LightTheme)

	bubbleWidth := termWidth - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}

	label := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Render("Bot")

	bubble := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Foreground(theme.Text).
		Padding(0, 1).
		Width(bubbleWidth).
		Render(render.Reply(text, render.OptionsFromConfig(cfg, cfg.DarkMode, bubbleWidth-4)))

	return label + "\n" + bubble
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// isStdoutTTY returns true if stdout is connected to a terminal
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// formatNotification renders the failure notification followed by the error details
func formatNotification(n chat.Notification, theme render.TUITheme) string {
	title := lipgloss.NewStyle().Foreground(theme.Error).Bold(true).Render("✗ " + n.Title)
	desc := lipgloss.NewStyle().Foreground(theme.TextMute).Render("  " + n.Description)

	out := title + "\n" + desc
	if n.Err != nil {
		out += "\n" + formatErrorMessage(n.Err, "Cause", theme)
	}
	return out
}

// formatErrorMessage formats an error with additional context from structured errors
func formatErrorMessage(err error, context string, theme render.TUITheme) string {
	if err == nil {
		return ""
	}

	errorStyle := lipgloss.NewStyle().Foreground(theme.Error)
	dimStyle := lipgloss.NewStyle().Foreground(theme.TextMute)

	var sb strings.Builder
	sb.WriteString(errorStyle.Render(fmt.Sprintf("  %s: %v", context, err)))

	if status := apierrors.GetHTTPStatus(err); status > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}

	if endpoint := apierrors.GetEndpoint(err); endpoint != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Endpoint: %s", endpoint)))
	}

	if body := apierrors.GetResponseBody(err); body != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n\n  %s", strings.ReplaceAll(body, "\n", "\n  "))))
		return sb.String()
	}

	switch {
	case apierrors.IsConfigError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Run 'hookchat config set webhook_url <url>'"))
	case apierrors.IsNetworkError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Check your internet connection and the webhook URL"))
	case apierrors.IsParseError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: The webhook must answer with a JSON body"))
	}

	return sb.String()
}
