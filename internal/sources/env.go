package sources

import (
	"os"
	"sort"
	"strings"
)

var envKeyReplacer = strings.NewReplacer(".", "_", "-", "_")

// EnvSource resolves keys against process environment variables. The key
// secret.property is looked up as SECRET_PROPERTY, or PREFIX_SECRET_PROPERTY
// when a prefix is set.
type EnvSource struct {
	prefix  string
	lookup  func(string) (string, bool)
	environ func() []string
}

func NewEnvSource(prefix string) *EnvSource {
	return &EnvSource{
		prefix:  strings.TrimSuffix(strings.ToUpper(prefix), "_"),
		lookup:  os.LookupEnv,
		environ: os.Environ,
	}
}

func (e *EnvSource) Name() string {
	if e.prefix != "" {
		return "env:" + e.prefix
	}
	return "env"
}

// EnvKey returns the environment variable consulted for key
func (e *EnvSource) EnvKey(key string) string {
	name := strings.ToUpper(envKeyReplacer.Replace(key))
	if e.prefix != "" {
		return e.prefix + "_" + name
	}
	return name
}

func (e *EnvSource) Lookup(key string) (string, bool, error) {
	if e.prefix == "" {
		if value, found := e.lookup(key); found {
			return value, true, nil
		}
	}
	value, found := e.lookup(e.EnvKey(key))
	return value, found, nil
}

// Keys lists variables under the prefix as dotted lower-case keys. An
// unprefixed source serves lookups only.
func (e *EnvSource) Keys() []string {
	if e.prefix == "" {
		return nil
	}

	var keys []string
	for _, kv := range e.environ() {
		name, _, _ := strings.Cut(kv, "=")
		rest, ok := strings.CutPrefix(name, e.prefix+"_")
		if !ok || rest == "" {
			continue
		}
		keys = append(keys, strings.ToLower(strings.ReplaceAll(rest, "_", ".")))
	}
	sort.Strings(keys)
	return keys
}
