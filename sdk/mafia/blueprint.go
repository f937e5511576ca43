package mafia

import (
	"encoding/json"
	"fmt"
	"os"
)

const blueprintVersion = 1

// Blueprint is the exported, read-only average-strategy snapshot produced
// from a trained information-set table. It is independent of the live
// training graph: a Blueprint can be queried by information-set key without
// holding the graph (or its node/level slices) in memory at all.
type Blueprint struct {
	Version    int                  `json:"version"`
	Params     RoleParams           `json:"params"`
	Epoch      int                  `json:"epoch"`
	Strategies map[string][]float64 `json:"strategies"`
}

// NewBlueprint materializes the average strategy of every information set
// in g.
func NewBlueprint(g *Graph, epoch int) *Blueprint {
	strategies := make(map[string][]float64, len(g.InfoSets))
	for _, is := range g.InfoSets {
		strategies[is.Key] = is.AverageStrategy()
	}
	return &Blueprint{
		Version:    blueprintVersion,
		Params:     g.Params,
		Epoch:      epoch,
		Strategies: strategies,
	}
}

// Strategy returns the stored average-strategy distribution for key, if
// present.
func (b *Blueprint) Strategy(key string) ([]float64, bool) {
	s, ok := b.Strategies[key]
	return s, ok
}

// Save writes b to path as self-describing JSON.
func (b *Blueprint) Save(path string) error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("mafia: encode blueprint: %w", err)
	}
	return writeFileAtomic(path, data, 0o644)
}

// LoadBlueprint reads a blueprint previously written by Save.
func LoadBlueprint(path string) (*Blueprint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("mafia: read blueprint: %w", err)
	}
	var b Blueprint
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("mafia: decode blueprint: %w", err)
	}
	if b.Version != blueprintVersion {
		return nil, fmt.Errorf("mafia: blueprint version %d unsupported (want %d)", b.Version, blueprintVersion)
	}
	return &b, nil
}
