package keymap

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"unicode/utf8"
)

// ErrNilSource is returned by Load when no document is supplied.
var ErrNilSource = errors.New("keycode map source is nil")

// versionItem is an optional TOKENS item carrying the map version.
const versionItem = "VERSION"

type loadOptions struct {
	logger *slog.Logger
}

// Option configures Load.
type Option func(*loadOptions)

// WithLogger sets the logger used for skipped entries.
func WithLogger(l *slog.Logger) Option {
	return func(o *loadOptions) { o.logger = l }
}

// Load builds a Keymap from src. Malformed STANDARD and SPECIAL entries are
// logged and skipped; only a nil source, an invalid VERSION or clashing token
// characters fail the load.
func Load(src Source, opts ...Option) (*Keymap, error) {
	if src == nil {
		return nil, ErrNilSource
	}

	o := loadOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	km := newKeymap()

	if v, ok := src.Value(SectionTokens, versionItem); ok {
		if err := CheckVersion(v); err != nil {
			return nil, err
		}
		km.version = v
	}

	loadTokens(src, &km.tokens, o.logger)
	if err := checkTokens(km.tokens); err != nil {
		return nil, err
	}

	loadSection(src, SectionStandard, km.putStandard, o.logger)
	loadSection(src, SectionSpecial, km.putSpecial, o.logger)

	return km, nil
}

func loadTokens(src Source, tokens *Tokens, logger *slog.Logger) {
	for _, nt := range tokens.named() {
		value, ok := src.Value(SectionTokens, nt.name)
		if !ok || value == "" {
			continue
		}

		char, _ := utf8.DecodeRuneInString(value)
		raw, ok := src.Value(SectionTokens, string(char))
		if !ok {
			logger.Warn("keymap: token character has no keycode, keeping default",
				"token", nt.name, "char", string(char))
			continue
		}
		code, err := strconv.Atoi(raw)
		if err != nil {
			logger.Warn("keymap: invalid token keycode, keeping default",
				"token", nt.name, "char", string(char), "value", raw)
			continue
		}

		nt.token.Char = char
		nt.token.Code = code
	}
}

func checkTokens(tokens Tokens) error {
	seen := make(map[rune]string)
	for _, nt := range tokens.named() {
		if other, dup := seen[nt.token.Char]; dup {
			return fmt.Errorf("tokens %s and %s share character %q", other, nt.name, nt.token.Char)
		}
		seen[nt.token.Char] = nt.name
	}
	return nil
}

func loadSection(src Source, section string, put func(string, Binding), logger *slog.Logger) {
	for _, item := range src.Items(section) {
		value, _ := src.Value(section, item)
		b, err := ParseBinding(value)
		if err != nil {
			logger.Warn("keymap: skipping entry",
				"section", section, "item", item, "value", value, "error", err)
			continue
		}
		put(item, b)
	}
}
