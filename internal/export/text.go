package export

import (
	"bytes"
	"fmt"

	"github.com/railwayapp/sealenv/internal/environment/types"
)

// TextExporter renders a human-readable listing with provenance
type TextExporter struct {
	opts Options
}

func (e *TextExporter) Name() string {
	return "text"
}

func (e *TextExporter) Export(props []types.Property) ([]byte, error) {
	var buf bytes.Buffer
	if len(props) == 0 {
		buf.WriteString("No properties found\n")
		return buf.Bytes(), nil
	}

	for _, p := range props {
		markers := ""
		if p.Encrypted {
			markers += " [ENCRYPTED]"
		}
		if p.Sensitive {
			markers += " [SENSITIVE]"
		}
		fmt.Fprintf(&buf, "%s = %s\n", p.Key, p.Display(e.opts.Reveal))
		fmt.Fprintf(&buf, "  Source: %s%s\n", p.Source, markers)
	}
	return buf.Bytes(), nil
}

func NewTextExporter(opts Options) Exporter {
	return &TextExporter{opts: opts}
}
