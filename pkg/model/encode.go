package model

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// MarshalJSONIndent renders the template as indented JSON, the shape tool
// consumers receive.
func (t *SimplifiedTemplate) MarshalJSONIndent() ([]byte, error) {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("model: encode template json: %w", err)
	}
	return data, nil
}

// MarshalYAMLDocument renders the template as a YAML document. Optional
// attributes that were never populated are omitted, mirroring the JSON shape.
func (t *SimplifiedTemplate) MarshalYAMLDocument() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(t); err != nil {
		return nil, fmt.Errorf("model: encode template yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("model: encode template yaml: %w", err)
	}
	return buf.Bytes(), nil
}
