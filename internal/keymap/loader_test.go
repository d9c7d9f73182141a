package keymap

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoad_NilSource(t *testing.T) {
	_, err := Load(nil)
	require.ErrorIs(t, err, ErrNilSource)
}

func TestLoad_DefaultTokensWhenSectionMissing(t *testing.T) {
	km, err := Load(MapSource{}, WithLogger(quietLogger()))
	require.NoError(t, err)

	assert.Equal(t, DefaultTokens(), km.Tokens())
	assert.Equal(t, "", km.Version())
	assert.Equal(t, 0, km.StandardLen())
	assert.Equal(t, 0, km.SpecialLen())
}

func TestLoad_TokenOverride(t *testing.T) {
	src := MapSource{
		SectionTokens: {
			{TokenShift, "#"},
			{"#", "42"},
			{TokenEnter, "!"},
			{"!", "not-a-number"},
			{TokenAlt, "@"},
		},
	}

	km, err := Load(src, WithLogger(quietLogger()))
	require.NoError(t, err)

	tokens := km.Tokens()
	assert.Equal(t, Token{Char: '#', Code: 42}, tokens.Shift)
	// invalid code and missing code both keep the defaults
	assert.Equal(t, DefaultTokens().Enter, tokens.Enter)
	assert.Equal(t, DefaultTokens().Alt, tokens.Alt)
}

func TestLoad_DuplicateTokenCharacters(t *testing.T) {
	src := MapSource{
		SectionTokens: {
			{TokenShift, "^"},
			{"^", "16"},
		},
	}

	_, err := Load(src, WithLogger(quietLogger()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "share character")
}

func TestLoad_Version(t *testing.T) {
	km, err := Load(MapSource{SectionTokens: {{"VERSION", "1.2"}}})
	require.NoError(t, err)
	assert.Equal(t, "1.2", km.Version())

	_, err = Load(MapSource{SectionTokens: {{"VERSION", "one"}}})
	require.ErrorIs(t, err, ErrInvalidVersion)
}

func TestLoad_SkipsMalformedEntries(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	src := MapSource{
		SectionStandard: {
			{"a", "65"},
			{"b", "bogus"},
			{"A", "SHIFT+65"},
		},
		SectionSpecial: {
			{"F6", "117"},
			{"BAD", ""},
		},
	}

	km, err := Load(src, WithLogger(logger))
	require.NoError(t, err)

	assert.Equal(t, 2, km.StandardLen())
	assert.Equal(t, 1, km.SpecialLen())

	_, ok := km.Standard("b")
	assert.False(t, ok)
	_, ok = km.Special("BAD")
	assert.False(t, ok)

	assert.Contains(t, logs.String(), "skipping entry")
	assert.Contains(t, logs.String(), "item=b")
}

func TestKeymap_Lookups(t *testing.T) {
	src := MapSource{
		SectionStandard: {
			{"a", "65"},
			{"A", "SHIFT+65"},
			{SpaceKey, "32"},
		},
		SectionSpecial: {
			{"RETURN", "10"},
			{"Enter", "10"},
			{"F6", "117"},
		},
	}

	km, err := Load(src)
	require.NoError(t, err)

	b, ok := km.Standard("A")
	require.True(t, ok)
	assert.Equal(t, Binding{Kind: ShiftCompound, Code: 65}, b)

	_, ok = km.Standard("B")
	assert.False(t, ok)

	b, ok = km.StandardRune(' ')
	require.True(t, ok)
	assert.Equal(t, 32, b.Code)

	// special names ignore case
	b, ok = km.Special("f6")
	require.True(t, ok)
	assert.Equal(t, 117, b.Code)

	name, ok := km.StandardFor(ShiftCodeKey(65))
	require.True(t, ok)
	assert.Equal(t, "A", name)

	name, ok = km.StandardFor(CodeKey(32))
	require.True(t, ok)
	assert.Equal(t, " ", name)

	// the later entry wins for a shared code
	name, ok = km.SpecialFor(CodeKey(10))
	require.True(t, ok)
	assert.Equal(t, "Enter", name)

	_, ok = km.SpecialFor(CodeKey(999))
	assert.False(t, ok)
}

func TestTokens_IsModifier(t *testing.T) {
	tokens := DefaultTokens()
	assert.True(t, tokens.IsModifier(16))
	assert.True(t, tokens.IsModifier(17))
	assert.True(t, tokens.IsModifier(18))
	assert.False(t, tokens.IsModifier(10))
	assert.False(t, tokens.IsModifier(65))
}
