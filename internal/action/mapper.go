package action

import (
	"slices"
	"sync"

	"github.com/pleimann/keynote/internal/config"
)

// Mapper looks up configured macros by name. It is safe to Reload while
// other goroutines call Get.
type Mapper struct {
	mu     sync.RWMutex
	macros map[string]config.Macro
	order  []string
}

// NewMapper creates a new macro mapper from configuration
func NewMapper(cfg *config.Config) *Mapper {
	m := &Mapper{}
	m.Reload(cfg)
	return m
}

// Get returns the macro called name.
func (m *Mapper) Get(name string) (config.Macro, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	macro, ok := m.macros[name]
	return macro, ok
}

// Names returns the macro names, sorted.
func (m *Mapper) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := slices.Clone(m.order)
	slices.Sort(names)
	return names
}

// Macros returns the macros in config file order.
func (m *Mapper) Macros() []config.Macro {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]config.Macro, 0, len(m.order))
	for _, name := range m.order {
		out = append(out, m.macros[name])
	}
	return out
}

// Reload updates the mapper with new configuration
func (m *Mapper) Reload(cfg *config.Config) {
	macros := make(map[string]config.Macro, len(cfg.Macros))
	order := make([]string, 0, len(cfg.Macros))
	for _, macro := range cfg.Macros {
		if _, dup := macros[macro.Name]; !dup {
			order = append(order, macro.Name)
		}
		macros[macro.Name] = macro
	}

	m.mu.Lock()
	m.macros = macros
	m.order = order
	m.mu.Unlock()
}
