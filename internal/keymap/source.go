package keymap

// Source is a read-only view of a keycode-map document.
type Source interface {
	// Items lists the item names of a section in document order.
	Items(section string) []string
	// Value returns the raw value of an item.
	Value(section, item string) (string, bool)
}

// Entry is one item of a MapSource section.
type Entry struct {
	Key   string
	Value string
}

// MapSource is an in-memory Source. Section names are matched exactly.
type MapSource map[string][]Entry

// Items implements Source.
func (m MapSource) Items(section string) []string {
	entries := m[section]
	items := make([]string, 0, len(entries))
	for _, e := range entries {
		items = append(items, e.Key)
	}
	return items
}

// Value implements Source. The last entry with a matching key wins.
func (m MapSource) Value(section, item string) (string, bool) {
	entries := m[section]
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Key == item {
			return entries[i].Value, true
		}
	}
	return "", false
}
