package commands

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hookchat/hookchat/internal/config"
)

func runConfigCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewConfigCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestConfigCmd_Path(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	out, err := runConfigCmd(t, "path")
	if err != nil {
		t.Fatalf("config path returned error: %v", err)
	}
	if strings.TrimSpace(out) != filepath.Join(home, ".hookchat", "config.json") {
		t.Errorf("config path = %q", out)
	}
}

func TestConfigCmd_Show(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	out, err := runConfigCmd(t, "show")
	if err != nil {
		t.Fatalf("config show returned error: %v", err)
	}

	var cfg config.Config
	if err := json.Unmarshal([]byte(out), &cfg); err != nil {
		t.Fatalf("config show should print JSON: %v", err)
	}
	if cfg.WebhookURL != config.DefaultWebhookURL {
		t.Errorf("WebhookURL = %s", cfg.WebhookURL)
	}
}

func TestConfigCmd_Set(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if _, err := runConfigCmd(t, "set", "webhook_url", "https://set.example.com/hook"); err != nil {
		t.Fatalf("config set returned error: %v", err)
	}
	if _, err := runConfigCmd(t, "set", "dark_mode", "true"); err != nil {
		t.Fatalf("config set returned error: %v", err)
	}

	cfg, err := config.LoadFile()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.WebhookURL != "https://set.example.com/hook" || !cfg.DarkMode {
		t.Errorf("saved config = %+v", cfg)
	}
}

func TestConfigCmd_SetDoesNotPersistEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("HOOKCHAT_WEBHOOK_URL", "https://env.example.com/hook")

	if _, err := runConfigCmd(t, "set", "verbose", "true"); err != nil {
		t.Fatalf("config set returned error: %v", err)
	}

	cfg, err := config.LoadFile()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.WebhookURL != config.DefaultWebhookURL {
		t.Errorf("environment override leaked into the file: %s", cfg.WebhookURL)
	}
}

func TestConfigCmd_SetErrors(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	tests := [][]string{
		{"set", "nope", "x"},
		{"set", "webhook_url", "not-a-url"},
		{"set", "dark_mode"},
	}
	for _, args := range tests {
		if _, err := runConfigCmd(t, args...); err == nil {
			t.Errorf("config %v should fail", args)
		}
	}
}
