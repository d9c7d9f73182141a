package utils

import (
	"strings"
	"testing"
)

func TestExecutableName(t *testing.T) {
	name := ExecutableName()
	if name == "" {
		t.Fatal("ExecutableName() is empty")
	}
	if strings.ContainsRune(name, '/') || strings.HasSuffix(name, ".exe") {
		t.Errorf("ExecutableName() = %q, want a bare name", name)
	}
}
