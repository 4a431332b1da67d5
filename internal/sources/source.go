package sources

import (
	"fmt"
	"sort"
	"strings"
)

// Source is a named origin of key/value configuration
type Source interface {
	// Name identifies the source in logs and provenance, e.g. "env" or "file:.env"
	Name() string

	// Lookup returns the raw value for key and whether the source defines it
	Lookup(key string) (value string, found bool, err error)

	// Keys lists the keys the source defines, sorted
	Keys() []string
}

// MapSource serves a fixed set of values
type MapSource struct {
	name   string
	values map[string]string
}

func NewMapSource(name string, values map[string]string) *MapSource {
	copied := make(map[string]string, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return &MapSource{name: name, values: copied}
}

func (m *MapSource) Name() string {
	return m.name
}

func (m *MapSource) Lookup(key string) (string, bool, error) {
	value, found := m.values[key]
	return value, found, nil
}

func (m *MapSource) Keys() []string {
	return sortedKeys(m.values)
}

// ParseAssignments parses key=value arguments, as given to --set
func ParseAssignments(args []string) (map[string]string, error) {
	values := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid assignment %q, expected key=value", arg)
		}
		values[key] = value
	}
	return values, nil
}

func sortedKeys(values map[string]string) []string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
