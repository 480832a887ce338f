package matutils

import (
	"encoding/gob"
	"fmt"
	"os"

	"gonum.org/v1/gonum/mat"
)

// SaveWeights gob encodes a map of named weights to a file at path
func SaveWeights(path string, weights map[string]*mat.Dense) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("saveWeights: %w", err)
	}
	defer file.Close()

	enc := gob.NewEncoder(file)
	if err := enc.Encode(weights); err != nil {
		return fmt.Errorf("saveWeights: %w", err)
	}
	return nil
}

// LoadWeights loads weights saved with SaveWeights
func LoadWeights(path string) (map[string]*mat.Dense, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loadWeights: %w", err)
	}
	defer file.Close()

	var weights map[string]*mat.Dense
	dec := gob.NewDecoder(file)
	if err := dec.Decode(&weights); err != nil {
		return nil, fmt.Errorf("loadWeights: %w", err)
	}
	return weights, nil
}
