// Package utils holds small helpers shared by the model-facing packages.
package utils

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractJSONObject trims any prose or code fences around the outermost JSON object.
func ExtractJSONObject(raw string) string {
	clean := strings.TrimSpace(raw)
	start := strings.Index(clean, "{")
	end := strings.LastIndex(clean, "}")
	if start >= 0 && end > start {
		clean = clean[start : end+1]
	}
	return clean
}

// DecodeJSONObject extracts the JSON object in raw and decodes it into target.
// It also returns the generic value for schema validation.
func DecodeJSONObject(raw string, target any) (map[string]any, error) {
	clean := ExtractJSONObject(raw)
	if clean == "" {
		return nil, fmt.Errorf("empty model output")
	}
	var generic map[string]any
	if err := json.Unmarshal([]byte(clean), &generic); err != nil {
		return nil, fmt.Errorf("failed to parse model output: %w", err)
	}
	if err := json.Unmarshal([]byte(clean), target); err != nil {
		return nil, fmt.Errorf("failed to decode model output: %w", err)
	}
	return generic, nil
}
