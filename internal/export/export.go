package export

import (
	"fmt"
	"sort"

	"github.com/railwayapp/sealenv/internal/environment/types"
)

// Exporter defines the interface for rendering resolved properties
type Exporter interface {
	// Export renders properties in the target format
	Export(props []types.Property) ([]byte, error)

	// Name returns the exporter name (e.g., "json", "yaml", "dotenv")
	Name() string
}

// Options controls what exporters render
type Options struct {
	// Reveal renders sensitive values instead of masking them
	Reveal bool
}

// New returns the exporter for format
func New(format string, opts Options) (Exporter, error) {
	switch format {
	case "text", "":
		return NewTextExporter(opts), nil
	case "json":
		return NewJSONExporter(opts), nil
	case "yaml", "yml":
		return NewYAMLExporter(opts), nil
	case "dotenv", "env":
		return NewDotEnvExporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s (want one of %v)", format, Formats())
	}
}

// Formats lists the supported format names
func Formats() []string {
	formats := []string{"text", "json", "yaml", "dotenv"}
	sort.Strings(formats)
	return formats
}

func toMap(props []types.Property, opts Options) map[string]string {
	values := make(map[string]string, len(props))
	for _, p := range props {
		values[p.Key] = p.Display(opts.Reveal)
	}
	return values
}
