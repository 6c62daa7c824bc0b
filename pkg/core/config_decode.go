package core

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// DecodeConfigSection decodes a config section into a struct.
// It is safe to call with a nil or empty section. Keys the target struct
// does not declare are rejected so that typos in build.yaml surface early.
func DecodeConfigSection(section map[string]any, out any) error {
	if len(section) == 0 {
		return nil
	}
	data, err := yaml.Marshal(section)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode config section: %w", err)
	}
	return nil
}
