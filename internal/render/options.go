package render

// Markdown styles understood by glamour
const (
	StyleDark  = "dark"
	StyleLight = "light"
)

// Options configures the markdown renderer behavior.
type Options struct {
	// Width defines the maximum output width (default: 80)
	Width int

	// Style is a glamour style name or a path to a JSON style file
	Style string

	// EnableEmoji converts :emoji: to unicode characters
	EnableEmoji bool

	// PreserveNewLines preserves original line breaks
	PreserveNewLines bool

	// TableWrap enables word wrap in table cells
	TableWrap bool
}

// DefaultOptions returns the default configuration.
func DefaultOptions() Options {
	return Options{
		Width:            80,
		Style:            StyleLight,
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
	}
}

// MarkdownStyleFor returns the glamour style matching the colour mode
func MarkdownStyleFor(dark bool) string {
	if dark {
		return StyleDark
	}
	return StyleLight
}

// WithWidth returns Options with the specified width.
func (o Options) WithWidth(width int) Options {
	o.Width = width
	return o
}

// WithStyle returns Options with the specified style.
func (o Options) WithStyle(style string) Options {
	o.Style = style
	return o
}

// WithDarkMode returns Options with the style matching the colour mode.
func (o Options) WithDarkMode(dark bool) Options {
	o.Style = MarkdownStyleFor(dark)
	return o
}

// WithEmoji returns Options with emoji support enabled/disabled.
func (o Options) WithEmoji(enabled bool) Options {
	o.EnableEmoji = enabled
	return o
}

// WithPreserveNewLines returns Options with newline preservation enabled/disabled.
func (o Options) WithPreserveNewLines(enabled bool) Options {
	o.PreserveNewLines = enabled
	return o
}

// WithTableWrap returns Options with table wrap enabled/disabled.
func (o Options) WithTableWrap(enabled bool) Options {
	o.TableWrap = enabled
	return o
}
