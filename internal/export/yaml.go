package export

import (
	"github.com/railwayapp/sealenv/internal/environment/types"
	"gopkg.in/yaml.v3"
)

type YAMLExporter struct {
	opts Options
}

func (e *YAMLExporter) Name() string {
	return "yaml"
}

func (e *YAMLExporter) Export(props []types.Property) ([]byte, error) {
	return yaml.Marshal(toMap(props, e.opts))
}

func NewYAMLExporter(opts Options) Exporter {
	return &YAMLExporter{opts: opts}
}
