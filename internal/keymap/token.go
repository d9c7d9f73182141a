package keymap

// Token names as they appear in the TOKENS section.
const (
	TokenAlt        = "ALT"
	TokenControl    = "CONTROL"
	TokenShift      = "SHIFT"
	TokenEnter      = "ENTER"
	TokenBraceLeft  = "BRACELEFT"
	TokenBraceRight = "BRACERIGHT"
	TokenParenLeft  = "PARENLEFT"
	TokenParenRight = "PARENRIGHT"
)

// Section names.
const (
	SectionTokens   = "TOKENS"
	SectionStandard = "STANDARD"
	SectionSpecial  = "SPECIAL"
)

// Token is a grammar character together with the key code it presses.
type Token struct {
	Char rune
	Code int
}

// Tokens holds the eight reserved grammar characters.
type Tokens struct {
	Alt        Token
	Control    Token
	Shift      Token
	Enter      Token
	BraceLeft  Token
	BraceRight Token
	ParenLeft  Token
	ParenRight Token
}

// DefaultTokens returns the built-in grammar: % ^ + ~ { } ( ) with AWT key codes.
func DefaultTokens() Tokens {
	return Tokens{
		Alt:        Token{Char: '%', Code: 18},
		Control:    Token{Char: '^', Code: 17},
		Shift:      Token{Char: '+', Code: 16},
		Enter:      Token{Char: '~', Code: 10},
		BraceLeft:  Token{Char: '{', Code: 161},
		BraceRight: Token{Char: '}', Code: 162},
		ParenLeft:  Token{Char: '(', Code: 519},
		ParenRight: Token{Char: ')', Code: 522},
	}
}

// named pairs each token with its TOKENS item name, in a fixed order.
func (t *Tokens) named() []struct {
	name  string
	token *Token
} {
	return []struct {
		name  string
		token *Token
	}{
		{TokenAlt, &t.Alt},
		{TokenControl, &t.Control},
		{TokenShift, &t.Shift},
		{TokenEnter, &t.Enter},
		{TokenBraceLeft, &t.BraceLeft},
		{TokenBraceRight, &t.BraceRight},
		{TokenParenLeft, &t.ParenLeft},
		{TokenParenRight, &t.ParenRight},
	}
}

// IsModifier reports whether code is the Alt, Control or Shift token code.
func (t Tokens) IsModifier(code int) bool {
	return code == t.Alt.Code || code == t.Control.Code || code == t.Shift.Code
}

// Each calls fn with every token and its TOKENS item name.
func (t Tokens) Each(fn func(name string, tok Token)) {
	for _, nt := range t.named() {
		fn(nt.name, *nt.token)
	}
}
