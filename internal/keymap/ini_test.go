package keymap

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleINI = `; sample map
[TOKENS]
VERSION=1.0
SHIFT=+
+=16

[STANDARD]
a=65
A=SHIFT+65
-=45
` + "`\" \"`" + `=32
"#"=SHIFT+51
";"=59
"="=61
"["=91
` + "`\"`" + `=SHIFT+222
` + "\"`\"" + `=192
b=broken

[SPECIAL]
ENTER=10
F6=117
`

func TestParseINI(t *testing.T) {
	km, err := ParseINI([]byte(sampleINI), WithLogger(quietLogger()))
	require.NoError(t, err)

	assert.Equal(t, "1.0", km.Version())
	assert.Equal(t, Token{Char: '+', Code: 16}, km.Tokens().Shift)

	tests := []struct {
		char string
		want Binding
	}{
		{"a", Binding{Direct, 65}},
		{"A", Binding{ShiftCompound, 65}},
		{"-", Binding{Direct, 45}},
		{" ", Binding{Direct, 32}},
		{"#", Binding{ShiftCompound, 51}},
		{";", Binding{Direct, 59}},
		{"=", Binding{Direct, 61}},
		{"[", Binding{Direct, 91}},
		{`"`, Binding{ShiftCompound, 222}},
		{"`", Binding{Direct, 192}},
	}
	for _, tt := range tests {
		got, ok := km.Standard(tt.char)
		if assert.True(t, ok, "missing %q", tt.char) {
			assert.Equal(t, tt.want, got, "binding for %q", tt.char)
		}
	}

	_, ok := km.Standard("b")
	assert.False(t, ok, "malformed entry should be skipped")

	b, ok := km.Special("enter")
	require.True(t, ok)
	assert.Equal(t, 10, b.Code)
}

func TestParseINI_SectionNamesIgnoreCase(t *testing.T) {
	km, err := ParseINI([]byte("[standard]\nx=88\n[Special]\nTAB=9\n"))
	require.NoError(t, err)

	_, ok := km.Standard("x")
	assert.True(t, ok)
	_, ok = km.Special("tab")
	assert.True(t, ok)
}

func TestNewINISource_DashItem(t *testing.T) {
	src, err := NewINISource([]byte("[STANDARD]\n-=45\n\"-\"=189\n\n[SPECIAL]\nMINUS=45\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"-", "-"}, src.Items("standard"))
	v, ok := src.Value(SectionStandard, "-")
	require.True(t, ok)
	assert.Equal(t, "189", v, "later entry wins")

	_, ok = src.Value(SectionStandard, "#2")
	assert.False(t, ok)
	assert.Equal(t, []string{"MINUS"}, src.Items(SectionSpecial))
}

func TestWriteINI_RoundTrip(t *testing.T) {
	km, err := ParseINI([]byte(sampleINI), WithLogger(quietLogger()))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, km.WriteINI(&buf))

	again, err := ParseINI(buf.Bytes())
	require.NoError(t, err, buf.String())

	assert.Equal(t, km.Tokens(), again.Tokens())
	assert.Equal(t, km.Version(), again.Version())
	assert.Equal(t, km.standard, again.standard)
	assert.Equal(t, km.special, again.special)
	assert.Equal(t, km.standardRev, again.standardRev)
	assert.Equal(t, km.specialRev, again.specialRev)

	assert.Contains(t, buf.String(), "\n-=45\n")
	name, ok := again.StandardFor(CodeKey(45))
	require.True(t, ok)
	assert.Equal(t, "-", name)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.ini")
	require.NoError(t, os.WriteFile(path, []byte(sampleINI), 0644))

	km, err := LoadFile(path, WithLogger(quietLogger()))
	require.NoError(t, err)
	assert.Equal(t, 10, km.StandardLen())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.ini"))
	assert.Error(t, err)
}

func TestQuoteItem(t *testing.T) {
	tests := map[string]string{
		"a":      "a",
		"-":      "-",
		"F6":     "F6",
		SpaceKey: "`\" \"`",
		`"`:      "`\"`",
		"#":      `"#"`,
		";":      `";"`,
		"=":      `"="`,
		"[":      `"["`,
		"`":      "\"`\"",
	}
	for in, want := range tests {
		if got := quoteItem(in); got != want {
			t.Errorf("quoteItem(%q) = %q, want %q", in, got, want)
		}
	}
}
