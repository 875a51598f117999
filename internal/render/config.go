package render

import (
	"os"

	"github.com/hookchat/hookchat/internal/config"
)

// OptionsFromConfig builds render options from the user configuration and the
// current colour mode. GLAMOUR_STYLE overrides the mode-derived style.
func OptionsFromConfig(cfg config.Config, dark bool, width int) Options {
	md := cfg.Markdown
	opts := DefaultOptions().
		WithDarkMode(dark).
		WithWidth(width).
		WithEmoji(md.EnableEmoji).
		WithPreserveNewLines(md.PreserveNewLines).
		WithTableWrap(md.TableWrap)

	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		opts = opts.WithStyle(style)
	}

	return opts
}
