package flights

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadSeedFile reads a YAML list of flights.
func LoadSeedFile(path string) ([]AddFlightInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read flight seed: %w", err)
	}
	return ParseSeed(data)
}

func ParseSeed(data []byte) ([]AddFlightInput, error) {
	var inputs []AddFlightInput
	if err := yaml.Unmarshal(data, &inputs); err != nil {
		return nil, fmt.Errorf("parse flight seed: %w", err)
	}
	return inputs, nil
}
