package export

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/railwayapp/sealenv/internal/environment/types"
)

// ErrEnvNameCollision is returned when two keys convert to the same
// environment variable name
var ErrEnvNameCollision = errors.New("keys map to the same environment variable")

var envNameReplacer = strings.NewReplacer(".", "_", "-", "_", "[", "_", "]", "")

// DotEnvExporter writes KEY="value" lines, converting dotted keys to
// environment variable names
type DotEnvExporter struct {
	opts Options
}

func (e *DotEnvExporter) Name() string {
	return "dotenv"
}

func (e *DotEnvExporter) Export(props []types.Property) ([]byte, error) {
	values := make(map[string]string, len(props))
	keys := make(map[string]string, len(props))
	for _, p := range props {
		name := EnvName(p.Key)
		if prev, ok := keys[name]; ok && prev != p.Key {
			return nil, fmt.Errorf("%w: %s and %s both become %s", ErrEnvNameCollision, prev, p.Key, name)
		}
		keys[name] = p.Key
		values[name] = p.Display(e.opts.Reveal)
	}

	out, err := godotenv.Marshal(values)
	if err != nil {
		return nil, err
	}
	return []byte(out + "\n"), nil
}

func NewDotEnvExporter(opts Options) Exporter {
	return &DotEnvExporter{opts: opts}
}

// EnvName converts a property key to an environment variable name
func EnvName(key string) string {
	return strings.ToUpper(envNameReplacer.Replace(key))
}
