package export

import (
	"fmt"
	"io"

	"github.com/goccy/go-yaml"

	"creativecheck/internal/domain"
)

// WriteYAML writes records as a YAML sequence using the JSON field names.
func WriteYAML(w io.Writer, records []domain.ResultRecord) error {
	js, err := MarshalJSON(records)
	if err != nil {
		return err
	}
	out, err := yaml.JSONToYAML(js)
	if err != nil {
		return fmt.Errorf("converting export to yaml: %w", err)
	}
	_, err = w.Write(out)
	return err
}
