package keymap

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"
)

// DefaultName is the built-in map used when no keycode map is configured.
const DefaultName = "awt"

//go:embed maps/*.ini
var builtinFS embed.FS

// BuiltinNames lists the embedded keycode maps.
func BuiltinNames() []string {
	entries, err := builtinFS.ReadDir("maps")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".ini"))
	}
	sort.Strings(names)
	return names
}

// BuiltinSource returns the raw document of an embedded map.
func BuiltinSource(name string) ([]byte, error) {
	data, err := builtinFS.ReadFile(path.Join("maps", strings.ToLower(name)+".ini"))
	if err != nil {
		return nil, fmt.Errorf("unknown built-in keycode map %q (have %s)", name, strings.Join(BuiltinNames(), ", "))
	}
	return data, nil
}

// Builtin loads an embedded keycode map by name.
func Builtin(name string, opts ...Option) (*Keymap, error) {
	data, err := BuiltinSource(name)
	if err != nil {
		return nil, err
	}
	return ParseINI(data, opts...)
}

// Default loads the DefaultName map.
func Default(opts ...Option) (*Keymap, error) {
	return Builtin(DefaultName, opts...)
}

// Open resolves ref as a built-in map name first and a file path second.
func Open(ref string, opts ...Option) (*Keymap, error) {
	if ref == "" {
		return Default(opts...)
	}
	if _, err := BuiltinSource(ref); err == nil {
		return Builtin(ref, opts...)
	}
	return LoadFile(ref, opts...)
}
