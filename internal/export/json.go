package export

import (
	"bytes"
	"encoding/json"
	"io"

	"creativecheck/internal/domain"
)

// WriteJSON writes records as an indented JSON array. Non-ASCII text is
// written as is.
func WriteJSON(w io.Writer, records []domain.ResultRecord) error {
	if records == nil {
		records = []domain.ResultRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// MarshalJSON returns the JSON export as bytes.
func MarshalJSON(records []domain.ResultRecord) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
