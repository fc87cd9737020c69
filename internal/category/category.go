package category

import (
	"sort"
	"strings"
	"sync"
)

// Table maps namespace prefixes to category names with longest-prefix
// resolution. It is owned by a single store instance; there are no
// process-wide globals.
type Table struct {
	mu       sync.RWMutex
	byPrefix map[string]string
	// prefixes kept sorted by descending length so Resolve matches the most
	// specific prefix first.
	prefixes []string
}

// NewTable creates an empty Table.
func NewTable() *Table {
	return &Table{byPrefix: make(map[string]string)}
}

// Define registers or replaces the category name for a namespace prefix.
func (t *Table) Define(prefix, name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.byPrefix[prefix]; !exists {
		t.prefixes = append(t.prefixes, prefix)
		sort.Slice(t.prefixes, func(i, j int) bool {
			if len(t.prefixes[i]) != len(t.prefixes[j]) {
				return len(t.prefixes[i]) > len(t.prefixes[j])
			}
			return t.prefixes[i] < t.prefixes[j]
		})
	}
	t.byPrefix[prefix] = name
}

// Resolve returns the category for the longest defined prefix of namespace.
// The second return is false when no prefix matches.
func (t *Table) Resolve(namespace string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, p := range t.prefixes {
		if strings.HasPrefix(namespace, p) {
			return t.byPrefix[p], true
		}
	}
	return "", false
}

// Defined returns a copy of the current prefix-to-category mapping.
func (t *Table) Defined() map[string]string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string]string, len(t.byPrefix))
	for k, v := range t.byPrefix {
		out[k] = v
	}
	return out
}
