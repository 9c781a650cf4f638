package navigation

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AreaDef describes how agents traverse one area type
type AreaDef struct {
	ID   AreaType `yaml:"id"`
	Name string   `yaml:"name"`

	// Variant names the traversal action registered for this area, empty leaves it unmapped
	Variant string `yaml:"variant"`

	// Controllable areas are driven by a controller entity and need per-polygon corners
	Controllable bool `yaml:"controllable"`

	// TriggerRadius overrides the off-mesh trigger radius, zero uses the agent default
	TriggerRadius float64 `yaml:"trigger_radius"`
}

// AreaTable is the parsed area description file
type AreaTable struct {
	Areas []AreaDef `yaml:"areas"`
}

// LoadAreaTable reads a YAML area description file
func LoadAreaTable(path string) (AreaTable, error) {
	var t AreaTable
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	return ParseAreaTable(raw)
}

// ParseAreaTable decodes and validates an area table
func ParseAreaTable(raw []byte) (AreaTable, error) {
	var t AreaTable
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("areas.yaml: %w", err)
	}
	seen := make(map[AreaType]string, len(t.Areas))
	for _, a := range t.Areas {
		if prev, dup := seen[a.ID]; dup {
			return t, fmt.Errorf("areas.yaml: area %d defined twice (%s, %s)", a.ID, prev, a.Name)
		}
		if a.TriggerRadius < 0 {
			return t, fmt.Errorf("areas.yaml: area %s: negative trigger radius", a.Name)
		}
		seen[a.ID] = a.Name
	}
	return t, nil
}
