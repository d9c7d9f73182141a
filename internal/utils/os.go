// Package utils holds small process helpers shared by the CLI and help text.
package utils

import (
	"os"
	"path/filepath"
	"strings"
)

// ExecutableName returns the base name the program was started as, without
// a Windows ".exe" suffix. It falls back to "keynote".
func ExecutableName() string {
	executable, err := os.Executable()
	if err != nil {
		return "keynote"
	}
	return strings.TrimSuffix(filepath.Base(executable), ".exe")
}
