package placement

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/placement-sim/placement-sim/sim"
)

// Generator names.
const (
	GeneratorMatmul   = "matmul"
	GeneratorRandom   = "random"
	GeneratorExplicit = "explicit"
)

var validGenerators = map[string]bool{
	GeneratorMatmul: true, GeneratorRandom: true, GeneratorExplicit: true,
}

//go:embed placement.schema.json
var placementSchemaJSON string

var placementSchema = jsonschema.MustCompileString("placement.schema.json", placementSchemaJSON)

// Spec is the top-level placement document.
// Loaded from YAML via LoadSpec(path).
type Spec struct {
	Version   string        `yaml:"version"`
	Generator string        `yaml:"generator"`
	Adjacency string        `yaml:"adjacency,omitempty"`
	Dims      []int         `yaml:"dims,omitempty"` // random and explicit only
	Matmul    *MatmulConfig `yaml:"matmul,omitempty"`
	Random    *RandomConfig `yaml:"random,omitempty"`
	Sources   []FeatureSpec `yaml:"sources,omitempty"`
	Sinks     []FeatureSpec `yaml:"sinks,omitempty"`
}

// FeatureSpec is one explicitly placed feature.
type FeatureSpec struct {
	At    []int    `yaml:"at"`
	Items []string `yaml:"items"`
}

func (fs FeatureSpec) itemIDs() []sim.ItemID {
	ids := make([]sim.ItemID, len(fs.Items))
	for i, s := range fs.Items {
		ids[i] = sim.ItemID(s)
	}
	return ids
}

// LoadSpec reads and parses a YAML placement document.
func LoadSpec(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading placement spec: %w", err)
	}
	spec, err := ParseSpec(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return spec, nil
}

// ParseSpec validates data against the placement schema, then decodes it
// with strict parsing: unrecognized keys (typos) are rejected.
func ParseSpec(data []byte) (*Spec, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing placement spec: %w", err)
	}
	if err := validateSchema(doc); err != nil {
		return nil, err
	}

	var spec Spec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing placement spec: %w", err)
	}
	if spec.Version == "" {
		spec.Version = "1"
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	logrus.Debugf("placement spec v%s: generator=%s adjacency=%q", spec.Version, spec.Generator, spec.Adjacency)
	return &spec, nil
}

// validateSchema checks a decoded YAML document against the embedded JSON
// schema. The document is round-tripped through JSON so that numbers and
// maps have the shapes the validator expects.
func validateSchema(doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("placement spec is not a JSON-compatible document: %w", err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("placement spec is not a JSON-compatible document: %w", err)
	}
	if err := placementSchema.Validate(v); err != nil {
		return fmt.Errorf("placement spec fails schema: %w", err)
	}
	return nil
}

// Validate checks that the spec names a known generator and carries that
// generator's parameters.
func (s *Spec) Validate() error {
	if !validGenerators[s.Generator] {
		return fmt.Errorf("unknown generator %q; valid: matmul, random, explicit", s.Generator)
	}
	if !sim.IsValidAdjacency(s.Adjacency) {
		return fmt.Errorf("unknown adjacency %q; valid: moore, von-neumann", s.Adjacency)
	}
	switch s.Generator {
	case GeneratorMatmul:
		if s.Matmul == nil {
			return fmt.Errorf("generator matmul requires a matmul section")
		}
		if len(s.Dims) > 0 {
			return fmt.Errorf("generator matmul derives dims from rows and cols; remove dims")
		}
	case GeneratorRandom:
		if s.Random == nil {
			return fmt.Errorf("generator random requires a random section")
		}
		if err := sim.Shape(s.Dims).Validate(); err != nil {
			return fmt.Errorf("generator random: %w", err)
		}
		if err := s.Random.Validate(sim.Shape(s.Dims).Size()); err != nil {
			return err
		}
	case GeneratorExplicit:
		if err := sim.Shape(s.Dims).Validate(); err != nil {
			return fmt.Errorf("generator explicit: %w", err)
		}
		if len(s.Sinks) == 0 {
			return fmt.Errorf("generator explicit requires at least one sink")
		}
	}
	if s.Generator != GeneratorExplicit && (len(s.Sources) > 0 || len(s.Sinks) > 0) {
		return fmt.Errorf("sources and sinks are only read by the explicit generator")
	}
	return nil
}
