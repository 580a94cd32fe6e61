package cmd

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/placement-sim/placement-sim/sim/placement"
)

// Presets represents the presets.yaml structure: named placement documents.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type Presets struct {
	Version    string               `yaml:"version"`
	Placements map[string]yaml.Node `yaml:"placements"`
}

// loadPresets parses a presets file. Each placement is checked only when
// looked up.
func loadPresets(path string) (*Presets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading presets file: %w", err)
	}
	var p Presets
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&p); err != nil {
		return nil, fmt.Errorf("parsing presets file %s: %w", path, err)
	}
	return &p, nil
}

// Names returns the preset names, sorted.
func (p *Presets) Names() []string {
	names := make([]string, 0, len(p.Placements))
	for name := range p.Placements {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup parses the named preset with the same checks as a placement document.
func (p *Presets) Lookup(name string) (*placement.Spec, error) {
	node, ok := p.Placements[name]
	if !ok {
		return nil, fmt.Errorf("unknown preset %q; available: %v", name, p.Names())
	}
	data, err := yaml.Marshal(&node)
	if err != nil {
		return nil, fmt.Errorf("preset %q: %w", name, err)
	}
	spec, err := placement.ParseSpec(data)
	if err != nil {
		return nil, fmt.Errorf("preset %q: %w", name, err)
	}
	return spec, nil
}
