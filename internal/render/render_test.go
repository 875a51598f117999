package render

import (
	"strings"
	"sync"
	"testing"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	if opts.Width != 80 {
		t.Errorf("expected Width=80, got %d", opts.Width)
	}
	if opts.Style != StyleLight {
		t.Errorf("expected Style=%q, got %s", StyleLight, opts.Style)
	}
	if !opts.EnableEmoji {
		t.Error("expected EnableEmoji=true")
	}
	if !opts.PreserveNewLines {
		t.Error("expected PreserveNewLines=true")
	}
	if !opts.TableWrap {
		t.Error("expected TableWrap=true")
	}
}

func TestMarkdownStyleFor(t *testing.T) {
	if got := MarkdownStyleFor(true); got != StyleDark {
		t.Errorf("MarkdownStyleFor(true) = %s, want %s", got, StyleDark)
	}
	if got := MarkdownStyleFor(false); got != StyleLight {
		t.Errorf("MarkdownStyleFor(false) = %s, want %s", got, StyleLight)
	}
}

func TestOptionsChaining(t *testing.T) {
	opts := DefaultOptions().
		WithWidth(100).
		WithDarkMode(true).
		WithEmoji(false).
		WithPreserveNewLines(false).
		WithTableWrap(false)

	if opts.Width != 100 {
		t.Errorf("expected Width=100, got %d", opts.Width)
	}
	if opts.Style != StyleDark {
		t.Errorf("expected Style=%q, got %s", StyleDark, opts.Style)
	}
	if opts.EnableEmoji || opts.PreserveNewLines || opts.TableWrap {
		t.Errorf("expected flags to be disabled, got %+v", opts)
	}

	if styled := opts.WithStyle("notty"); styled.Style != "notty" || opts.Style != StyleDark {
		t.Error("WithStyle should return a modified copy")
	}
}

func TestMarkdown(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		width    int
		contains string
	}{
		{"heading", "# Hello World", 80, "Hello"},
		{"bold", "This is **bold** text", 80, "bold"},
		{"code_block", "```go\nfmt.Println(\"hello\")\n```", 80, "Println"},
		{"list", "- first\n- second", 80, "second"},
		{"narrow_width", "# Long heading that should wrap", 40, "Long"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			output, err := Markdown(tc.input, DefaultOptions().WithWidth(tc.width))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(output, tc.contains) {
				t.Errorf("output should contain %q, got: %s", tc.contains, output)
			}
		})
	}
}

func TestMarkdownEmoji(t *testing.T) {
	input := "Hello :smile: world"

	output, err := Markdown(input, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(output, ":smile:") {
		t.Errorf("emoji should have been converted, got: %s", output)
	}

	output, err = Markdown(input, DefaultOptions().WithEmoji(false))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(output, ":smile:") {
		t.Errorf("emoji should NOT have been converted, got: %s", output)
	}
}

func TestMarkdownInvalidStyle(t *testing.T) {
	_, err := Markdown("# Test", DefaultOptions().WithStyle("nonexistent_style_path"))
	if err == nil {
		t.Error("expected error for invalid style path")
	}
}

func TestReply(t *testing.T) {
	out := Reply("Hi **there**", DefaultOptions())
	if !strings.Contains(out, "there") {
		t.Errorf("Reply() should contain the text, got: %q", out)
	}
	if strings.HasSuffix(out, "\n") {
		t.Errorf("Reply() should trim trailing newlines, got: %q", out)
	}

	plain := Reply("Hi **there**", DefaultOptions().WithStyle("nonexistent_style_path"))
	if plain != "Hi **there**" {
		t.Errorf("Reply() should fall back to the raw text, got: %q", plain)
	}
}

func TestRendererPool(t *testing.T) {
	ClearCache()
	defer ClearCache()

	light := DefaultOptions()
	dark := DefaultOptions().WithDarkMode(true)

	for i := 0; i < 3; i++ {
		if _, err := Markdown("text", light); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if CacheSize() != 1 {
		t.Errorf("CacheSize() = %d, want 1", CacheSize())
	}

	if _, err := Markdown("text", dark); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if CacheSize() != 2 {
		t.Errorf("CacheSize() = %d, want 2", CacheSize())
	}

	ClearCache()
	if CacheSize() != 0 {
		t.Errorf("CacheSize() after clear = %d, want 0", CacheSize())
	}
}

func TestRendererPoolConcurrency(t *testing.T) {
	ClearCache()
	defer ClearCache()

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(dark bool) {
			defer wg.Done()
			if _, err := Markdown("# concurrent", DefaultOptions().WithDarkMode(dark)); err != nil {
				errs <- err
			}
		}(i%2 == 0)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent render failed: %v", err)
	}
}

func BenchmarkReply(b *testing.B) {
	content := "# Reply\n\nSome **bold** text and a list:\n\n- one\n- two\n"
	opts := DefaultOptions()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Reply(content, opts)
	}
}
