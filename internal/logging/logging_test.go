package logging

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewLogger_Levels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "warning", "error", "bogus", ""} {
		if logger := NewLogger(level); logger == nil {
			t.Fatalf("NewLogger(%q) returned nil", level)
		}
	}
}

func TestWithHelpers(t *testing.T) {
	base := NewLogger("error")

	if WithComponent(base, "orchestrator") == base {
		t.Error("WithComponent should return a derived logger")
	}
	if WithBatchID(base, "batch-1") == base {
		t.Error("WithBatchID should return a derived logger")
	}
	if WithItemID(base, "item-1") == base {
		t.Error("WithItemID should return a derived logger")
	}
}

func TestSanitizePath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir available")
	}

	inHome := filepath.Join(home, "videos", "out.mp4")
	got := SanitizePath(inHome)
	if got == inHome {
		t.Errorf("expected home prefix to be masked, got %q", got)
	}

	outside := "/var/tmp/out.mp4"
	if got := SanitizePath(outside); got != outside {
		t.Errorf("path outside home should be unchanged, got %q", got)
	}
}
