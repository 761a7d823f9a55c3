package character

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadSheet reads a YAML character sheet and hydrates it. Any field may be
// omitted; missing values take the defaults Hydrate applies.
//
// Postcondition: Returns a hydrated Character or a non-nil error.
func LoadSheet(path string) (Character, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Character{}, fmt.Errorf("reading character sheet %s: %w", path, err)
	}
	var rec LegacyRecord
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return Character{}, fmt.Errorf("parsing character sheet %s: %w", path, err)
	}
	if rec.Name == "" {
		return Character{}, fmt.Errorf("character sheet %s: name must not be empty", path)
	}
	return Hydrate(rec), nil
}
