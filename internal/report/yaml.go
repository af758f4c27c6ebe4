package report

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// YAML writes doc in a machine-readable form.
func YAML(out io.Writer, doc Document) error {
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return enc.Close()
}
