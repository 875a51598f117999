package render

import "strings"

// Markdown renders markdown content for terminal display.
// Uses a pooled renderer for better performance and thread safety.
func Markdown(content string, opts Options) (string, error) {
	renderer, err := globalPool.get(opts)
	if err != nil {
		return "", err
	}
	defer globalPool.put(opts, renderer)

	return renderer.Render(content)
}

// Reply renders a bot reply, falling back to the plain text when rendering fails.
// Trailing newlines added by glamour are trimmed.
func Reply(content string, opts Options) string {
	rendered, err := Markdown(content, opts)
	if err != nil {
		return content
	}
	return strings.TrimRight(rendered, "\n")
}
