package payload

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fixtureFile mirrors AlgorithmData for YAML fixtures. The visualization
// data is arbitrary YAML re-encoded as JSON so the classifier sees the same
// bytes it would receive from the translation service.
type fixtureFile struct {
	Name            string        `yaml:"name"`
	Description     string        `yaml:"description"`
	Steps           []fixtureStep `yaml:"steps"`
	Pseudocode      string        `yaml:"pseudocode"`
	TimeComplexity  string        `yaml:"time_complexity"`
	SpaceComplexity string        `yaml:"space_complexity"`
	Visualization   fixtureViz    `yaml:"visualization"`
}

type fixtureStep struct {
	Description string `yaml:"description"`
	Code        string `yaml:"code"`
	Explanation string `yaml:"explanation"`
}

type fixtureViz struct {
	Kind string `yaml:"kind"`
	Data any    `yaml:"data"`
}

// LoadFixture reads a YAML algorithm fixture from disk and validates it.
// Fixtures let the demo and terminal front-ends run without a translation
// endpoint.
func LoadFixture(path string) (*AlgorithmData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}
	return ParseFixture(raw)
}

// ParseFixture decodes YAML fixture content.
func ParseFixture(raw []byte) (*AlgorithmData, error) {
	var f fixtureFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}

	data := &AlgorithmData{
		Name:            f.Name,
		Description:     f.Description,
		Pseudocode:      f.Pseudocode,
		TimeComplexity:  f.TimeComplexity,
		SpaceComplexity: f.SpaceComplexity,
	}
	for i, s := range f.Steps {
		data.Steps = append(data.Steps, AlgorithmStep{
			Index:       i,
			Description: s.Description,
			Code:        s.Code,
			Explanation: s.Explanation,
		})
	}

	if f.Visualization.Data != nil {
		encoded, err := json.Marshal(f.Visualization.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to encode visualization data: %w", err)
		}
		data.Visualization = Raw{Kind: f.Visualization.Kind, Data: encoded}
	}

	if err := data.Validate(); err != nil {
		return nil, err
	}
	return data, nil
}
