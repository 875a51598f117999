package commands

import (
	"io"
	"log/slog"

	"github.com/hookchat/hookchat/internal/chat"
	"github.com/hookchat/hookchat/internal/config"
	"github.com/hookchat/hookchat/internal/logging"
	"github.com/hookchat/hookchat/internal/tui"
	"github.com/hookchat/hookchat/internal/webhook"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(exchanger chat.Exchanger, cfg config.Config, logger *slog.Logger) error
}

// Dependencies holds the external dependencies for the commands.
type Dependencies struct {
	// NewExchanger builds the outbound exchange for a configuration.
	NewExchanger func(cfg config.Config, logger *slog.Logger) (chat.Exchanger, error)

	// TUI is the terminal user interface.
	TUI TUIInterface
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(exchanger chat.Exchanger, cfg config.Config, logger *slog.Logger) error {
	return tui.RunChat(exchanger, cfg, logger)
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		NewExchanger: newWebhookExchanger,
		TUI:          &DefaultTUI{},
	}
}

// newWebhookExchanger creates the webhook client described by cfg
func newWebhookExchanger(cfg config.Config, logger *slog.Logger) (chat.Exchanger, error) {
	opts := []webhook.ClientOption{
		webhook.WithTimeout(cfg.Timeout()),
		webhook.WithLogger(logger),
	}
	for key, value := range cfg.Headers {
		opts = append(opts, webhook.WithHeader(key, value))
	}
	return webhook.NewClient(cfg.WebhookURL, opts...)
}

// newLogger installs the command logger as the slog default and returns it.
// Records always go to the log file; console receives them too when non-nil.
func newLogger(cfg config.Config, console io.Writer) (*slog.Logger, io.Closer, error) {
	path, err := config.GetLogPath(cfg)
	if err != nil {
		return nil, nil, err
	}
	closer, err := logging.Setup(logging.Options{
		Verbose: cfg.Verbose,
		Console: console,
		File:    path,
	})
	if err != nil {
		return nil, nil, err
	}
	return slog.Default(), closer, nil
}
