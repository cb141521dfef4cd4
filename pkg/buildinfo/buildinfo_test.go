package buildinfo

import (
	"testing"
)

func TestBinaryVersionDefault(t *testing.T) {
	if BinaryVersion != "dev" {
		t.Errorf("Expected BinaryVersion to be 'dev', got '%s'", BinaryVersion)
	}
}

func TestVersionPrefersLdflags(t *testing.T) {
	old := BinaryVersion
	defer func() { BinaryVersion = old }()

	BinaryVersion = "v1.4.0"
	if got := Version(); got != "v1.4.0" {
		t.Errorf("Version() = %q, expected v1.4.0", got)
	}
}

func TestVersionNeverEmpty(t *testing.T) {
	if Version() == "" {
		t.Error("Version() should never be empty")
	}
}
