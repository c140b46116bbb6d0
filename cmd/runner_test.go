package main

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/CarterSwain/sonic-circle-backend/internal/models"
	"github.com/CarterSwain/sonic-circle-backend/internal/shared"
)

func TestNewRunner(t *testing.T) {
	t.Run("With Defaults", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})

		if runner.config == nil {
			t.Error("expected a default config")
		}
		if runner.logger == nil {
			t.Error("expected a default logger")
		}
		if runner.output == nil {
			t.Error("expected a default output writer")
		}
	})

	t.Run("With Custom Output", func(t *testing.T) {
		var buf bytes.Buffer
		runner := NewRunner(RunnerOpts{Output: &buf})

		if err := runner.writePlain("hello %s\n", "world"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if buf.String() != "hello world\n" {
			t.Errorf("unexpected output: %q", buf.String())
		}
	})
}

func TestWriteJSON(t *testing.T) {
	t.Run("Compact", func(t *testing.T) {
		var buf bytes.Buffer
		runner := NewRunner(RunnerOpts{Output: &buf, Logger: shared.NewLogger(io.Discard)})

		if err := runner.writeJSON(map[string]int{"count": 3}, false); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if strings.TrimSpace(buf.String()) != `{"count":3}` {
			t.Errorf("unexpected output: %q", buf.String())
		}
	})

	t.Run("Pretty", func(t *testing.T) {
		var buf bytes.Buffer
		runner := NewRunner(RunnerOpts{Output: &buf, Logger: shared.NewLogger(io.Discard)})

		if err := runner.writeJSON(map[string]int{"count": 3}, true); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(buf.String(), "\n  ") {
			t.Errorf("expected indented output, got %q", buf.String())
		}
	})
}

func TestRenderAccounts(t *testing.T) {
	account := models.NewAccount(0, "listener", "listener@example.com")
	account.SetID("acc-1")

	t.Run("Plain Text", func(t *testing.T) {
		var buf bytes.Buffer
		runner := NewRunner(RunnerOpts{Output: &buf})

		if err := runner.renderAccounts([]*models.Account{account}, false); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		out := buf.String()
		for _, want := range []string{"acc-1", "listener", "listener@example.com"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q, got %q", want, out)
			}
		}
	})

	t.Run("JSON", func(t *testing.T) {
		var buf bytes.Buffer
		runner := NewRunner(RunnerOpts{Output: &buf})

		if err := runner.renderAccounts([]*models.Account{account}, true); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(buf.String(), `"spotify_id": "listener"`) {
			t.Errorf("expected JSON output, got %q", buf.String())
		}
	})

	t.Run("Empty", func(t *testing.T) {
		var buf bytes.Buffer
		runner := NewRunner(RunnerOpts{Output: &buf})

		if err := runner.renderAccounts(nil, false); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(buf.String(), "No accounts found") {
			t.Errorf("expected empty-state message, got %q", buf.String())
		}
	})
}
