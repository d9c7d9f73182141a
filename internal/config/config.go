package config

import (
	"bytes"
	"fmt"
	"os"
	"runtime"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pleimann/keynote/internal/keymap"
)

// DefaultPath is the config file used when -config is not given.
const DefaultPath = "keynote.yaml"

// Backend names.
const (
	BackendKeyboard = "keyboard"
	BackendTerminal = "terminal"
	BackendDry      = "dry"
)

var (
	backends   = []string{BackendKeyboard, BackendTerminal, BackendDry}
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
)

type Config struct {
	Keymap   KeymapConfig   `yaml:"keymap"`
	Player   PlayerConfig   `yaml:"player"`
	Backend  string         `yaml:"backend"`
	Terminal TerminalConfig `yaml:"terminal"`
	Macros   []Macro        `yaml:"macros"`
	Logging  LoggingConfig  `yaml:"logging"`

	// keymapDefaulted is set when Keymap was filled in by applyDefaults.
	keymapDefaulted bool
}

type KeymapConfig struct {
	// File is an INI keycode map on disk. It wins over Builtin.
	File    string `yaml:"file,omitempty"`
	Builtin string `yaml:"builtin,omitempty"`
}

type PlayerConfig struct {
	DelayMs              int  `yaml:"delay_ms"`
	PasteDelayMs         int  `yaml:"paste_delay_ms"`
	SettleMs             int  `yaml:"settle_ms"`
	WaitReaction         bool `yaml:"wait_reaction"`
	ReactionTokenLength  int  `yaml:"reaction_token_length"`
	ReactionTokenDelayMs int  `yaml:"reaction_token_delay_ms"`
	ReactionDelayMs      int  `yaml:"reaction_delay_ms"`
}

type TerminalConfig struct {
	Command    string   `yaml:"command"`
	Args       []string `yaml:"args"`
	WorkingDir string   `yaml:"working_dir,omitempty"`
}

// Macro is a named piece of notation. Literal macros are typed as plain
// text with no notation tokens.
type Macro struct {
	Name        string `yaml:"name"`
	Keys        string `yaml:"keys"`
	Literal     bool   `yaml:"literal,omitempty"`
	Description string `yaml:"description,omitempty"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse reads a config document, validates it and fills in defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, nil
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) validate() error {
	if c.Backend != "" && !slices.Contains(backends, c.Backend) {
		return fmt.Errorf("unknown backend %q (want one of %v)", c.Backend, backends)
	}
	if c.Backend == BackendTerminal && c.Terminal.Command == "" {
		return fmt.Errorf("terminal.command is required for the terminal backend")
	}

	if c.Keymap.Builtin != "" && !slices.Contains(keymap.BuiltinNames(), c.Keymap.Builtin) {
		return fmt.Errorf("unknown built-in keymap %q (want one of %v)", c.Keymap.Builtin, keymap.BuiltinNames())
	}

	p := c.Player
	for name, v := range map[string]int{
		"delay_ms":                p.DelayMs,
		"paste_delay_ms":          p.PasteDelayMs,
		"settle_ms":               p.SettleMs,
		"reaction_token_length":   p.ReactionTokenLength,
		"reaction_token_delay_ms": p.ReactionTokenDelayMs,
		"reaction_delay_ms":       p.ReactionDelayMs,
	} {
		if v < 0 {
			return fmt.Errorf("player.%s must not be negative", name)
		}
	}

	seen := make(map[string]bool)
	for i, m := range c.Macros {
		if m.Name == "" {
			return fmt.Errorf("macro %d has no name", i)
		}
		if seen[m.Name] {
			return fmt.Errorf("duplicate macro name: %s", m.Name)
		}
		seen[m.Name] = true
		if m.Keys == "" {
			return fmt.Errorf("macro %s has no keys", m.Name)
		}
	}

	if c.Logging.Level != "" && !slices.Contains(logLevels, c.Logging.Level) {
		return fmt.Errorf("unknown logging.level %q", c.Logging.Level)
	}
	if c.Logging.Format != "" && !slices.Contains(logFormats, c.Logging.Format) {
		return fmt.Errorf("unknown logging.format %q", c.Logging.Format)
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.Backend == "" {
		c.Backend = BackendDry
	}
	if c.Keymap.File == "" && c.Keymap.Builtin == "" {
		c.Keymap.Builtin = DefaultKeymap(c.Backend)
		c.keymapDefaulted = true
	}
	if c.Player.DelayMs == 0 {
		c.Player.DelayMs = 1
	}
	if c.Player.PasteDelayMs == 0 {
		c.Player.PasteDelayMs = 50
	}
	if c.Player.SettleMs == 0 {
		c.Player.SettleMs = 2000
	}
	if c.Player.ReactionTokenLength == 0 {
		c.Player.ReactionTokenLength = 100
	}
	if c.Player.ReactionTokenDelayMs == 0 {
		c.Player.ReactionTokenDelayMs = 100
	}
	if c.Player.ReactionDelayMs == 0 {
		c.Player.ReactionDelayMs = 1000
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

// DefaultKeymap names the built-in map for a backend when none is configured.
// The keyboard backend injects evdev codes on Linux.
func DefaultKeymap(backend string) string {
	if backend == BackendKeyboard && runtime.GOOS == "linux" {
		return "evdev"
	}
	return keymap.DefaultName
}

// KeymapRefFor is KeymapRef for a backend chosen after loading, such as one
// given on the command line. A defaulted keymap follows the backend.
func (c *Config) KeymapRefFor(backend string) string {
	if c.keymapDefaulted {
		return DefaultKeymap(backend)
	}
	return c.KeymapRef()
}

// KeymapRef returns what keymap.Open should load: the file if set, otherwise
// the built-in name.
func (c *Config) KeymapRef() string {
	if c.Keymap.File != "" {
		return c.Keymap.File
	}
	return c.Keymap.Builtin
}

func (p PlayerConfig) Delay() time.Duration {
	return time.Duration(p.DelayMs) * time.Millisecond
}

func (p PlayerConfig) PasteDelay() time.Duration {
	return time.Duration(p.PasteDelayMs) * time.Millisecond
}

func (p PlayerConfig) Settle() time.Duration {
	return time.Duration(p.SettleMs) * time.Millisecond
}

func (p PlayerConfig) ReactionTokenDelay() time.Duration {
	return time.Duration(p.ReactionTokenDelayMs) * time.Millisecond
}

func (p PlayerConfig) ReactionDelay() time.Duration {
	return time.Duration(p.ReactionDelayMs) * time.Millisecond
}

// AppendMacro adds a macro to the config file at path, keeping the rest of
// the file and its comments as they are.
func AppendMacro(path string, m Macro) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return err
	}
	cfg.Macros = append(cfg.Macros, m)
	if err := cfg.validate(); err != nil {
		return err
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	if len(doc.Content) == 0 {
		doc = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}}
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return fmt.Errorf("config root is not a mapping")
	}

	var item yaml.Node
	if err := item.Encode(m); err != nil {
		return fmt.Errorf("failed to encode macro: %w", err)
	}

	macros := mappingValue(root, "macros")
	switch {
	case macros == nil:
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: "macros"},
			&yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Content: []*yaml.Node{&item}},
		)
	case macros.Kind == yaml.SequenceNode:
		macros.Style = 0
		macros.Content = append(macros.Content, &item)
	case macros.Tag == "!!null":
		*macros = yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Content: []*yaml.Node{&item}}
	default:
		return fmt.Errorf("macros is not a list")
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	enc.Close()

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func mappingValue(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

// CreateDefaultConfig writes a starter config file.
func CreateDefaultConfig(path string) error {
	content := `# keynote configuration

keymap:
  # builtin: awt | evdev, or file: path/to/keymap.ini
  builtin: awt

# keyboard (OS key injection), terminal (run a command in a PTY) or dry
backend: dry

player:
  delay_ms: 1
  paste_delay_ms: 50
  settle_ms: 2000
  wait_reaction: false
  reaction_token_length: 100
  reaction_token_delay_ms: 100
  reaction_delay_ms: 1000

terminal:
  command: "bash"
  args: []

macros:
  - name: greet
    keys: "Hello, World!~"
    description: "type a greeting and press Enter"
  - name: select-all-copy
    keys: "^a^c"

logging:
  level: info
  format: text
`

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	return nil
}

// Exists checks if a config file exists
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
