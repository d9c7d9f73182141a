package keymap

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidVersion reports a version string that cannot be compared.
var ErrInvalidVersion = errors.New("invalid keycode map version")

// CheckVersion accepts dotted numeric versions such as "1", "1.0" or "2.10.3".
func CheckVersion(v string) error {
	if v == "" {
		return fmt.Errorf("%w: empty", ErrInvalidVersion)
	}
	for _, part := range strings.Split(v, ".") {
		if part == "" {
			return fmt.Errorf("%w: %q", ErrInvalidVersion, v)
		}
		for _, r := range part {
			if r < '0' || r > '9' {
				return fmt.Errorf("%w: %q", ErrInvalidVersion, v)
			}
		}
	}
	return nil
}
