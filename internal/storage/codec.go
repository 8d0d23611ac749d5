package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aanand-mishra/safety-alerts/internal/types"
)

var errNotObject = errors.New("document is not a JSON object")

// Decode parses a JSON document into a Dataset. Anything other than a single
// JSON object with the expected collection shapes is a structural error.
func Decode(r io.Reader) (types.Dataset, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return types.Dataset{}, fmt.Errorf("decode document: %w", err)
	}

	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return types.Dataset{}, fmt.Errorf("decode document: %w", errNotObject)
	}

	var ds types.Dataset
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	if err := dec.Decode(&ds); err != nil {
		return types.Dataset{}, fmt.Errorf("decode document: %w", err)
	}
	if dec.More() {
		return types.Dataset{}, fmt.Errorf("decode document: trailing data after object")
	}

	return ds, nil
}

// Encode renders ds as indented JSON. Collections keep their element order.
func Encode(ds types.Dataset) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(ds); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}

	return buf.Bytes(), nil
}

// ReadFile decodes a document from a plain JSON file. It is used for seed
// files regardless of which backend holds the live document.
func ReadFile(path string) (types.Dataset, error) {
	b, err := readAll(path)
	if err != nil {
		return types.Dataset{}, err
	}
	return Decode(bytes.NewReader(b))
}
