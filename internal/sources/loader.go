package sources

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/railwayapp/sealenv/internal/filesystems"
)

// ErrUnsupportedFile is returned for files no loader can handle
var ErrUnsupportedFile = errors.New("unsupported configuration file")

// Loader parses configuration file content into flat key/value pairs
type Loader interface {
	// Load parses content read from filename
	Load(ctx context.Context, filename string, content []byte) (map[string]string, error)

	// CanHandle returns true if this loader can parse the given file
	CanHandle(filename string) bool

	// Format names the file format, e.g. "dotenv"
	Format() string
}

// DefaultLoaders returns the built-in loaders in match order. Compose files
// are claimed before the generic YAML loader.
func DefaultLoaders() []Loader {
	return []Loader{
		NewDockerComposeLoader(),
		NewDockerfileLoader(),
		NewDotEnvLoader(),
		NewPropertiesLoader(),
		NewYAMLLoader(),
		NewTOMLLoader(),
		NewJSONLoader(),
	}
}

// FileSource serves values parsed from a configuration file
type FileSource struct {
	*MapSource
	path   string
	format string
}

func (f *FileSource) Path() string {
	return f.path
}

func (f *FileSource) Format() string {
	return f.format
}

// LoadFile reads path from filesystem and parses it with the first loader
// that can handle it
func LoadFile(ctx context.Context, filesystem filesystems.FileSystem, path string, loaders ...Loader) (*FileSource, error) {
	if len(loaders) == 0 {
		loaders = DefaultLoaders()
	}

	var loader Loader
	for _, l := range loaders {
		if l.CanHandle(path) {
			loader = l
			break
		}
	}
	if loader == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, path)
	}

	content, err := filesystem.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	values, err := loader.Load(ctx, path, content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s as %s: %w", path, loader.Format(), err)
	}

	return &FileSource{
		MapSource: NewMapSource("file:"+path, values),
		path:      path,
		format:    loader.Format(),
	}, nil
}

// flatten turns nested documents into dotted keys; list elements are
// addressed as key[0]
func flatten(prefix string, value any, out map[string]string) {
	switch v := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			flatten(join(prefix, k), v[k], out)
		}
	case map[any]any:
		for k, child := range v {
			flatten(join(prefix, fmt.Sprint(k)), child, out)
		}
	case []map[string]any:
		for i, child := range v {
			flatten(prefix+"["+strconv.Itoa(i)+"]", child, out)
		}
	case []any:
		for i, child := range v {
			flatten(prefix+"["+strconv.Itoa(i)+"]", child, out)
		}
	case nil:
		out[prefix] = ""
	case string:
		out[prefix] = v
	default:
		out[prefix] = fmt.Sprint(v)
	}
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
