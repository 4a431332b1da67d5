package export

import (
	"encoding/json"

	"github.com/railwayapp/sealenv/internal/environment/types"
)

type JSONExporter struct {
	opts Options
}

func (e *JSONExporter) Name() string {
	return "json"
}

func (e *JSONExporter) Export(props []types.Property) ([]byte, error) {
	return json.MarshalIndent(toMap(props, e.opts), "", "  ")
}

func NewJSONExporter(opts Options) Exporter {
	return &JSONExporter{opts: opts}
}
