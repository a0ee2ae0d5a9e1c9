package ports

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandPath_Home(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	got := ExpandPath("~/deps")
	want := filepath.Join(home, "deps")
	if got != want {
		t.Errorf("ExpandPath(~/deps) = %q, want %q", got, want)
	}
}

func TestExpandPath_Absolute(t *testing.T) {
	if got := ExpandPath("/opt/deps"); got != "/opt/deps" {
		t.Errorf("ExpandPath(/opt/deps) = %q, want unchanged", got)
	}
}

func TestExpandPath_BareTilde(t *testing.T) {
	// Only the ~/ prefix is expanded; a bare ~ stays as-is.
	if got := ExpandPath("~"); got != "~" {
		t.Errorf("ExpandPath(~) = %q, want %q", got, "~")
	}
}
