package commands

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/hookchat/hookchat/internal/config"
	"github.com/hookchat/hookchat/internal/webhook"
)

func TestRootCommand_Help(t *testing.T) {
	if rootCmd.Use != "hookchat [message]" {
		t.Errorf("Expected use 'hookchat [message]', got %s", rootCmd.Use)
	}
	if rootCmd.Short == "" || rootCmd.Long == "" {
		t.Error("descriptions should not be empty")
	}
	if rootCmd.Args == nil {
		t.Error("Args validation should be configured")
	}
}

func TestRootCommand_Flags(t *testing.T) {
	for _, name := range []string{"webhook", "dark", "verbose"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("persistent flag %q missing", name)
		}
	}
	for _, name := range []string{"output", "file", "copy", "version"} {
		if rootCmd.Flags().Lookup(name) == nil {
			t.Errorf("flag %q missing", name)
		}
	}
	if f := rootCmd.PersistentFlags().ShorthandLookup("w"); f == nil || f.Name != "webhook" {
		t.Error("-w should be the webhook shorthand")
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"chat", "config"} {
		if !names[want] {
			t.Errorf("subcommand %q missing", want)
		}
	}
}

func TestReadMessage(t *testing.T) {
	defer func() { fileFlag = "" }()

	t.Run("argument", func(t *testing.T) {
		fileFlag = ""
		msg, ok, err := readMessage([]string{"hello"}, nil)
		if err != nil || !ok || msg != "hello" {
			t.Errorf("readMessage() = %q, %v, %v", msg, ok, err)
		}
	})

	t.Run("no input", func(t *testing.T) {
		fileFlag = ""
		_, ok, err := readMessage(nil, nil)
		if err != nil || ok {
			t.Errorf("readMessage() ok = %v, err = %v; want no input", ok, err)
		}
	})

	t.Run("file wins over argument", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "msg.txt")
		if err := os.WriteFile(path, []byte("from file"), 0o600); err != nil {
			t.Fatal(err)
		}
		fileFlag = path
		msg, ok, err := readMessage([]string{"ignored"}, nil)
		if err != nil || !ok || msg != "from file" {
			t.Errorf("readMessage() = %q, %v, %v", msg, ok, err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		fileFlag = filepath.Join(t.TempDir(), "missing.txt")
		if _, _, err := readMessage(nil, nil); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("stdin", func(t *testing.T) {
		fileFlag = ""
		r, w, err := os.Pipe()
		if err != nil {
			t.Fatal(err)
		}
		w.WriteString("piped message")
		w.Close()
		defer r.Close()

		msg, ok, err := readMessage([]string{"ignored"}, r)
		if err != nil || !ok || msg != "piped message" {
			t.Errorf("readMessage() = %q, %v, %v", msg, ok, err)
		}
	})
}

// newFlagCommand builds a command carrying the global flags
func newFlagCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().StringVarP(&webhookFlag, "webhook", "w", "", "")
	cmd.Flags().BoolVar(&darkFlag, "dark", false, "")
	cmd.Flags().BoolVar(&verboseFlag, "verbose", false, "")
	return cmd
}

func TestLoadConfig_Flags(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	defer func() {
		webhookFlag, darkFlag, verboseFlag = "", false, false
	}()

	cmd := newFlagCommand()
	if err := cmd.ParseFlags([]string{"-w", "https://flag.example.com/hook", "--dark", "--verbose"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		t.Fatalf("loadConfig() returned error: %v", err)
	}
	if cfg.WebhookURL != "https://flag.example.com/hook" {
		t.Errorf("WebhookURL = %s", cfg.WebhookURL)
	}
	if !cfg.DarkMode || !cfg.Verbose {
		t.Errorf("flags not applied: %+v", cfg)
	}
}

func TestLoadConfig_FlagsUnchangedKeepConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := loadConfig(newFlagCommand())
	if err != nil {
		t.Fatalf("loadConfig() returned error: %v", err)
	}
	if cfg.WebhookURL != config.DefaultWebhookURL {
		t.Errorf("WebhookURL = %s, want default", cfg.WebhookURL)
	}
}

func TestLoadConfig_InvalidWebhookFlag(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	defer func() { webhookFlag = "" }()

	cmd := newFlagCommand()
	if err := cmd.ParseFlags([]string{"--webhook", "not a url"}); err != nil {
		t.Fatal(err)
	}
	if _, err := loadConfig(cmd); err == nil {
		t.Error("expected validation error for invalid webhook flag")
	}
}

func TestVersionOutput(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"--version"})
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
		rootCmd.Flags().Set("version", "false")
	}()

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute() returned error: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "hookchat "+Version) {
		t.Errorf("version output = %q", buf.String())
	}
}

// restoreDefaultLogger undoes the slog default installed by newLogger
func restoreDefaultLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
}

func TestRunChat(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	restoreDefaultLogger(t)

	mock := webhook.NewMockHTTPClient([]byte(`{}`), 200)
	d := mockDeps(mock)
	tuiMock := d.TUI.(*mockTUI)

	cfg := config.DefaultConfig()
	cfg.DarkMode = true
	if err := runChat(d, cfg); err != nil {
		t.Fatalf("runChat() returned error: %v", err)
	}
	if !tuiMock.called {
		t.Fatal("TUI should be started")
	}
	if !tuiMock.cfg.DarkMode {
		t.Error("TUI should receive the resolved config")
	}
	if tuiMock.logger != slog.Default() {
		t.Error("TUI logger should be the installed slog default")
	}
}

func TestRunChat_InvalidEndpoint(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	restoreDefaultLogger(t)

	d := NewDependencies()
	tuiMock := &mockTUI{}
	d.TUI = tuiMock

	cfg := config.DefaultConfig()
	cfg.WebhookURL = "ftp://example.com"
	if err := runChat(d, cfg); err == nil {
		t.Fatal("expected error for invalid endpoint")
	}
	if tuiMock.called {
		t.Error("TUI must not start without a valid endpoint")
	}
}

func TestNewLogger_InstallsDefault(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	restoreDefaultLogger(t)

	var buf bytes.Buffer
	logger, closer, err := newLogger(config.DefaultConfig(), &buf)
	if err != nil {
		t.Fatalf("newLogger() returned error: %v", err)
	}
	defer closer.Close()

	if logger != slog.Default() {
		t.Fatal("newLogger should install its logger as the slog default")
	}

	slog.Info("clipboard ready")
	if !strings.Contains(buf.String(), "clipboard ready") {
		t.Errorf("default logger should reach the console, got: %q", buf.String())
	}
}
