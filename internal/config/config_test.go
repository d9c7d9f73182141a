package config

import (
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "keynote.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	content := `
keymap:
  file: ./maps/custom.ini

backend: terminal

player:
  delay_ms: 5
  paste_delay_ms: 80
  settle_ms: 500
  wait_reaction: true
  reaction_token_length: 10
  reaction_token_delay_ms: 20
  reaction_delay_ms: 300

terminal:
  command: "vim"
  args: ["-u", "NONE"]
  working_dir: /tmp

macros:
  - name: save
    keys: "{ESC}:w~"
    description: write the buffer
  - name: sig
    keys: "Regards, (ann)"
    literal: true

logging:
  level: debug
  format: json
`
	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Keymap.File != "./maps/custom.ini" || cfg.Keymap.Builtin != "" {
		t.Errorf("Keymap = %+v, want file only", cfg.Keymap)
	}
	if got := cfg.KeymapRef(); got != "./maps/custom.ini" {
		t.Errorf("KeymapRef() = %q, want ./maps/custom.ini", got)
	}
	if cfg.Backend != BackendTerminal {
		t.Errorf("Backend = %q, want %q", cfg.Backend, BackendTerminal)
	}

	wantPlayer := PlayerConfig{
		DelayMs:              5,
		PasteDelayMs:         80,
		SettleMs:             500,
		WaitReaction:         true,
		ReactionTokenLength:  10,
		ReactionTokenDelayMs: 20,
		ReactionDelayMs:      300,
	}
	if cfg.Player != wantPlayer {
		t.Errorf("Player = %+v, want %+v", cfg.Player, wantPlayer)
	}

	wantTerminal := TerminalConfig{Command: "vim", Args: []string{"-u", "NONE"}, WorkingDir: "/tmp"}
	if !reflect.DeepEqual(cfg.Terminal, wantTerminal) {
		t.Errorf("Terminal = %+v, want %+v", cfg.Terminal, wantTerminal)
	}

	wantMacros := []Macro{
		{Name: "save", Keys: "{ESC}:w~", Description: "write the buffer"},
		{Name: "sig", Keys: "Regards, (ann)", Literal: true},
	}
	if !reflect.DeepEqual(cfg.Macros, wantMacros) {
		t.Errorf("Macros = %+v, want %+v", cfg.Macros, wantMacros)
	}

	if cfg.Logging != (LoggingConfig{Level: "debug", Format: "json"}) {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "# nothing set\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Keymap.Builtin != "awt" {
		t.Errorf("Keymap.Builtin = %q, want default awt", cfg.Keymap.Builtin)
	}
	if cfg.Backend != BackendDry {
		t.Errorf("Backend = %q, want default %q", cfg.Backend, BackendDry)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("Load() of empty config = %+v, want %+v", cfg, Default())
	}

	p := cfg.Player
	if p.Delay() != time.Millisecond {
		t.Errorf("Delay() = %v, want 1ms", p.Delay())
	}
	if p.PasteDelay() != 50*time.Millisecond {
		t.Errorf("PasteDelay() = %v, want 50ms", p.PasteDelay())
	}
	if p.Settle() != 2*time.Second {
		t.Errorf("Settle() = %v, want 2s", p.Settle())
	}
	if p.ReactionTokenLength != 100 || p.ReactionTokenDelay() != 100*time.Millisecond || p.ReactionDelay() != time.Second {
		t.Errorf("reaction defaults = %d/%v/%v, want 100/100ms/1s", p.ReactionTokenLength, p.ReactionTokenDelay(), p.ReactionDelay())
	}
	if p.WaitReaction {
		t.Error("WaitReaction defaulted to true")
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("Logging = %+v, want info/text", cfg.Logging)
	}
}

func TestLoadValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "unknown backend",
			content: "backend: robot\n",
			wantErr: "unknown backend",
		},
		{
			name:    "terminal without command",
			content: "backend: terminal\n",
			wantErr: "terminal.command is required",
		},
		{
			name:    "unknown builtin keymap",
			content: "keymap:\n  builtin: dvorak\n",
			wantErr: "unknown built-in keymap",
		},
		{
			name:    "negative delay",
			content: "player:\n  delay_ms: -1\n",
			wantErr: "player.delay_ms must not be negative",
		},
		{
			name: "macro without name",
			content: `
macros:
  - keys: "abc"
`,
			wantErr: "has no name",
		},
		{
			name: "duplicate macro",
			content: `
macros:
  - name: a
    keys: "x"
  - name: a
    keys: "y"
`,
			wantErr: "duplicate macro name: a",
		},
		{
			name: "macro without keys",
			content: `
macros:
  - name: empty
`,
			wantErr: "macro empty has no keys",
		},
		{
			name:    "bad log level",
			content: "logging:\n  level: loud\n",
			wantErr: "unknown logging.level",
		},
		{
			name:    "bad log format",
			content: "logging:\n  format: xml\n",
			wantErr: "unknown logging.format",
		},
		{
			name:    "not yaml",
			content: "backend: [unclosed\n",
			wantErr: "failed to parse config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("Load() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %q, want containing %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoadFileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/keynote.yaml")
	if err == nil {
		t.Error("Load() expected error for nonexistent file, got nil")
	}
}

func TestKeymapRefBuiltin(t *testing.T) {
	cfg, err := Parse([]byte("keymap:\n  builtin: evdev\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := cfg.KeymapRef(); got != "evdev" {
		t.Errorf("KeymapRef() = %q, want evdev", got)
	}
}

func TestDefaultKeymapFollowsBackend(t *testing.T) {
	keyboardMap := "awt"
	if runtime.GOOS == "linux" {
		keyboardMap = "evdev"
	}

	cfg, err := Parse([]byte("backend: keyboard\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Keymap.Builtin != keyboardMap {
		t.Errorf("Keymap.Builtin = %q, want %q on %s", cfg.Keymap.Builtin, keyboardMap, runtime.GOOS)
	}

	cfg, err = Parse([]byte("backend: terminal\nterminal:\n  command: sh\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Keymap.Builtin != "awt" {
		t.Errorf("terminal backend Keymap.Builtin = %q, want awt", cfg.Keymap.Builtin)
	}

	// a backend picked after loading moves a defaulted keymap with it
	cfg = Default()
	if got := cfg.KeymapRefFor(BackendKeyboard); got != keyboardMap {
		t.Errorf("KeymapRefFor(keyboard) = %q, want %q", got, keyboardMap)
	}
	if got := cfg.KeymapRefFor(BackendDry); got != "awt" {
		t.Errorf("KeymapRefFor(dry) = %q, want awt", got)
	}
}

func TestConfiguredKeymapIgnoresBackend(t *testing.T) {
	cfg, err := Parse([]byte("backend: keyboard\nkeymap:\n  builtin: awt\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := cfg.KeymapRefFor(BackendKeyboard); got != "awt" {
		t.Errorf("KeymapRefFor(keyboard) = %q, want configured awt", got)
	}
	if got := DefaultKeymap(BackendDry); got != "awt" {
		t.Errorf("DefaultKeymap(dry) = %q, want awt", got)
	}
}

func TestAppendMacro(t *testing.T) {
	content := `# my macros
backend: dry

macros:
  - name: first
    keys: "abc"
`
	path := writeConfig(t, content)

	if err := AppendMacro(path, Macro{Name: "second", Keys: "^a{DEL}", Description: "clear"}); err != nil {
		t.Fatalf("AppendMacro() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read config: %v", err)
	}
	if !strings.Contains(string(data), "# my macros") {
		t.Errorf("comment not preserved in: %s", data)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() after append error = %v", err)
	}
	want := []Macro{
		{Name: "first", Keys: "abc"},
		{Name: "second", Keys: "^a{DEL}", Description: "clear"},
	}
	if !reflect.DeepEqual(cfg.Macros, want) {
		t.Errorf("Macros = %+v, want %+v", cfg.Macros, want)
	}
}

func TestAppendMacroCreatesList(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "no macros key", content: "backend: dry\n"},
		{name: "null macros", content: "backend: dry\nmacros:\n"},
		{name: "flow list", content: "backend: dry\nmacros: []\n"},
		{name: "empty file", content: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			if err := AppendMacro(path, Macro{Name: "m", Keys: "~"}); err != nil {
				t.Fatalf("AppendMacro() error = %v", err)
			}
			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			want := []Macro{{Name: "m", Keys: "~"}}
			if !reflect.DeepEqual(cfg.Macros, want) {
				t.Errorf("Macros = %+v, want %+v", cfg.Macros, want)
			}
		})
	}
}

func TestAppendMacroRejectsInvalid(t *testing.T) {
	content := `macros:
  - name: first
    keys: "abc"
`
	path := writeConfig(t, content)

	if err := AppendMacro(path, Macro{Name: "first", Keys: "x"}); err == nil {
		t.Error("AppendMacro() with duplicate name expected error")
	}
	if err := AppendMacro(path, Macro{Name: "blank"}); err == nil {
		t.Error("AppendMacro() with no keys expected error")
	}

	data, _ := os.ReadFile(path)
	if string(data) != content {
		t.Errorf("file changed after rejected append:\n%s", data)
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.yaml")

	if err := CreateDefaultConfig(path); err != nil {
		t.Fatalf("CreateDefaultConfig() error = %v", err)
	}
	if !Exists(path) {
		t.Fatal("Config file was not created")
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load created config: %v", err)
	}
	if cfg.Backend != BackendDry {
		t.Errorf("Backend = %q, want %q", cfg.Backend, BackendDry)
	}
	if len(cfg.Macros) != 2 || cfg.Macros[0].Name != "greet" {
		t.Errorf("Macros = %+v, want greet and select-all-copy", cfg.Macros)
	}
}

func TestExists(t *testing.T) {
	tmpDir := t.TempDir()

	if Exists(filepath.Join(tmpDir, "nonexistent.yaml")) {
		t.Error("Exists() = true for non-existent file")
	}

	existingPath := filepath.Join(tmpDir, "exists.yaml")
	os.WriteFile(existingPath, []byte("backend: dry\n"), 0644)
	if !Exists(existingPath) {
		t.Error("Exists() = false for existing file")
	}
}
