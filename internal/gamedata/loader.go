package gamedata

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Load reads and decodes a YAML file from the embedded filesystem.
// Unknown fields are rejected.
func Load[T any](filename string) (T, error) {
	var result T

	content, err := dataFS.ReadFile(filename)
	if err != nil {
		return result, fmt.Errorf("failed to read embedded file %s: %w", filename, err)
	}

	if err := decodeYAML(content, &result); err != nil {
		return result, fmt.Errorf("failed to parse YAML from %s: %w", filename, err)
	}

	return result, nil
}

func decodeYAML(content []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)
	return dec.Decode(out)
}
