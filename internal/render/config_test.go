package render

import (
	"testing"

	"github.com/hookchat/hookchat/internal/config"
)

func TestOptionsFromConfig(t *testing.T) {
	t.Setenv("GLAMOUR_STYLE", "")

	cfg := config.DefaultConfig()
	cfg.Markdown.EnableEmoji = false
	cfg.Markdown.TableWrap = false

	opts := OptionsFromConfig(cfg, true, 64)
	if opts.Width != 64 {
		t.Errorf("Width = %d, want 64", opts.Width)
	}
	if opts.Style != StyleDark {
		t.Errorf("Style = %s, want %s", opts.Style, StyleDark)
	}
	if opts.EnableEmoji {
		t.Error("EnableEmoji should follow the config")
	}
	if opts.TableWrap {
		t.Error("TableWrap should follow the config")
	}
	if !opts.PreserveNewLines {
		t.Error("PreserveNewLines should follow the config")
	}

	if light := OptionsFromConfig(cfg, false, 64); light.Style != StyleLight {
		t.Errorf("Style = %s, want %s", light.Style, StyleLight)
	}
}

func TestOptionsFromConfig_GlamourStyleOverride(t *testing.T) {
	t.Setenv("GLAMOUR_STYLE", "notty")

	opts := OptionsFromConfig(config.DefaultConfig(), true, 80)
	if opts.Style != "notty" {
		t.Errorf("Style = %s, want notty", opts.Style)
	}
}
