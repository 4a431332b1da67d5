package sources

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/magiconair/properties"
)

// PropertiesLoader parses Java-style .properties files. Values are read
// literally; ${key} references are not expanded.
type PropertiesLoader struct{}

func NewPropertiesLoader() *PropertiesLoader {
	return &PropertiesLoader{}
}

func (p *PropertiesLoader) CanHandle(filename string) bool {
	return strings.ToLower(filepath.Ext(filename)) == ".properties"
}

func (p *PropertiesLoader) Format() string {
	return "properties"
}

func (p *PropertiesLoader) Load(ctx context.Context, filename string, content []byte) (map[string]string, error) {
	l := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	props, err := l.LoadBytes(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	return props.Map(), nil
}
