package keymap

import (
	"strconv"
	"strings"
)

// SpaceKey is the item name the space character is stored under.
const SpaceKey = `" "`

// Keymap is a loaded keycode map. It is read-only after Load.
type Keymap struct {
	tokens  Tokens
	version string

	standard      map[string]Binding
	standardOrder []string
	special       map[string]Binding // lower-cased names
	specialOrder  []string           // original spelling

	standardRev map[string]string
	specialRev  map[string]string
}

func newKeymap() *Keymap {
	return &Keymap{
		tokens:      DefaultTokens(),
		standard:    make(map[string]Binding),
		special:     make(map[string]Binding),
		standardRev: make(map[string]string),
		specialRev:  make(map[string]string),
	}
}

// Tokens returns the grammar tokens.
func (k *Keymap) Tokens() Tokens { return k.tokens }

// Version returns the VERSION item of the TOKENS section, or "".
func (k *Keymap) Version() string { return k.version }

// Standard looks up a single literal character. The space character is
// found under SpaceKey.
func (k *Keymap) Standard(char string) (Binding, bool) {
	if char == " " {
		char = SpaceKey
	}
	b, ok := k.standard[char]
	return b, ok
}

// StandardRune is Standard for a single rune.
func (k *Keymap) StandardRune(r rune) (Binding, bool) {
	return k.Standard(string(r))
}

// Special looks up a named key, ignoring case.
func (k *Keymap) Special(name string) (Binding, bool) {
	b, ok := k.special[strings.ToLower(name)]
	return b, ok
}

// StandardFor returns the character whose binding renders as codeKey
// ("65" or "SHIFT+65"). SpaceKey is returned as a literal space.
func (k *Keymap) StandardFor(codeKey string) (string, bool) {
	s, ok := k.standardRev[codeKey]
	if ok && s == SpaceKey {
		s = " "
	}
	return s, ok
}

// SpecialFor returns the special key name whose binding renders as codeKey.
func (k *Keymap) SpecialFor(codeKey string) (string, bool) {
	s, ok := k.specialRev[codeKey]
	return s, ok
}

// StandardLen returns the number of standard entries.
func (k *Keymap) StandardLen() int { return len(k.standard) }

// SpecialLen returns the number of special entries.
func (k *Keymap) SpecialLen() int { return len(k.special) }

// CodeKey renders a bare key code as a reverse-table key.
func CodeKey(code int) string { return strconv.Itoa(code) }

// ShiftCodeKey renders a shifted key code as a reverse-table key.
func ShiftCodeKey(code int) string { return shiftPrefix + strconv.Itoa(code) }

func (k *Keymap) putStandard(name string, b Binding) {
	if name == " " {
		name = SpaceKey
	}
	if _, exists := k.standard[name]; !exists {
		k.standardOrder = append(k.standardOrder, name)
	}
	k.standard[name] = b
	k.standardRev[b.String()] = name
}

func (k *Keymap) putSpecial(name string, b Binding) {
	lower := strings.ToLower(name)
	if _, exists := k.special[lower]; !exists {
		k.specialOrder = append(k.specialOrder, name)
	}
	k.special[lower] = b
	k.specialRev[b.String()] = name
}
