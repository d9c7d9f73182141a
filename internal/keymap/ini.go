package keymap

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/go-ini/ini"
)

// iniSource adapts a parsed INI document to Source. Section names are
// matched ignoring case.
type iniSource struct {
	sections MapSource
}

func (s iniSource) Items(section string) []string {
	return s.sections.Items(strings.ToLower(section))
}

func (s iniSource) Value(section, item string) (string, bool) {
	return s.sections.Value(strings.ToLower(section), item)
}

// itemName undoes the reader's auto-increment naming: an item named "-"
// comes back as "#1", "#2" and so on.
func itemName(key string) string {
	digits := strings.TrimPrefix(key, "#")
	if digits == key || digits == "" {
		return key
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return key
		}
	}
	return "-"
}

func loadINI(source any) (Source, error) {
	f, err := ini.LoadSources(ini.LoadOptions{
		// Keys stay case-sensitive: "a" and "A" are different characters.
		InsensitiveSections: true,
		KeyValueDelimiters:  "=",
		IgnoreInlineComment: true,
		IgnoreContinuation:  true,
	}, source)
	if err != nil {
		return nil, err
	}

	sections := MapSource{}
	for _, sec := range f.Sections() {
		name := strings.ToLower(sec.Name())
		for _, key := range sec.Keys() {
			sections[name] = append(sections[name], Entry{Key: itemName(key.Name()), Value: key.String()})
		}
	}
	return iniSource{sections: sections}, nil
}

// NewINISource parses an INI keycode map document.
func NewINISource(data []byte) (Source, error) {
	src, err := loadINI(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse keycode map: %w", err)
	}
	return src, nil
}

// ParseINI loads a Keymap from INI document bytes.
func ParseINI(data []byte, opts ...Option) (*Keymap, error) {
	src, err := NewINISource(data)
	if err != nil {
		return nil, err
	}
	return Load(src, opts...)
}

// LoadFile loads a Keymap from an INI file on disk.
func LoadFile(path string, opts ...Option) (*Keymap, error) {
	src, err := loadINI(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keycode map %s: %w", path, err)
	}
	return Load(src, opts...)
}

// WriteINI writes the map in the document format Load accepts.
// Item names that the INI reader would misread are quoted.
func (k *Keymap) WriteINI(w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "[%s]\n", SectionTokens)
	if k.version != "" {
		fmt.Fprintf(bw, "%s=%s\n", versionItem, k.version)
	}
	for _, nt := range k.tokens.named() {
		fmt.Fprintf(bw, "%s=%s\n", nt.name, string(nt.token.Char))
	}
	bw.WriteString("\n")
	for _, nt := range k.tokens.named() {
		fmt.Fprintf(bw, "%s=%d\n", quoteItem(string(nt.token.Char)), nt.token.Code)
	}

	fmt.Fprintf(bw, "\n[%s]\n", SectionStandard)
	for _, name := range k.standardOrder {
		fmt.Fprintf(bw, "%s=%s\n", quoteItem(name), k.standard[name])
	}

	fmt.Fprintf(bw, "\n[%s]\n", SectionSpecial)
	for _, name := range k.specialOrder {
		fmt.Fprintf(bw, "%s=%s\n", quoteItem(name), k.special[strings.ToLower(name)])
	}

	return bw.Flush()
}

// quoteItem protects names that start a comment or section, contain the
// delimiter, or carry significant surrounding space.
func quoteItem(name string) string {
	if name == SpaceKey || strings.Contains(name, `"`) {
		return "`" + name + "`"
	}
	if name == "" || strings.ContainsAny(name, "=#;[]`") || strings.TrimSpace(name) != name {
		return `"` + name + `"`
	}
	return name
}
