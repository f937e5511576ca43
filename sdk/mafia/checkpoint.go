package mafia

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const checkpointVersion = 1

// checkpointEnvelope is the serialized snapshot contract from the data
// model: the tuple (nodes, information sets, level index) plus enough
// envelope metadata to validate a reload against the running binary's
// compiled-in role parameters.
type checkpointEnvelope struct {
	Version int        `json:"version"`
	Params  RoleParams `json:"params"`
	Epoch   int        `json:"epoch"`

	Nodes    []*Node      `json:"nodes"`
	InfoSets []*InfoSet   `json:"information_sets"`
	Levels   [][]LevelGroup `json:"level_index"`
}

// SaveCheckpoint atomically writes g's current state to path: encode to a
// temp file in the destination directory, flush and sync it, then rename
// it over the destination so a crash mid-write never corrupts a prior good
// checkpoint.
func SaveCheckpoint(path string, g *Graph, epoch int) error {
	envelope := checkpointEnvelope{
		Version:  checkpointVersion,
		Params:   g.Params,
		Epoch:    epoch,
		Nodes:    g.Nodes,
		InfoSets: g.InfoSets,
		Levels:   g.Levels,
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("mafia: encode checkpoint: %w", err)
	}
	return writeFileAtomic(path, data, 0o644)
}

// LoadCheckpoint reads path and rebuilds a Graph functionally identical to
// the one that saved it, plus the epoch count already trained. The
// checkpoint's embedded role parameters must match want exactly; a mismatch
// is a configuration error since a graph built for a different N/M cannot
// resume against this shape.
func LoadCheckpoint(path string, want RoleParams) (*Graph, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("mafia: read checkpoint: %w", err)
	}
	var envelope checkpointEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, 0, fmt.Errorf("mafia: decode checkpoint: %w", err)
	}
	if envelope.Version != checkpointVersion {
		return nil, 0, fmt.Errorf("mafia: checkpoint version %d unsupported (want %d)", envelope.Version, checkpointVersion)
	}
	if envelope.Params != want {
		return nil, 0, fmt.Errorf("mafia: checkpoint role params %+v do not match %+v", envelope.Params, want)
	}

	g := &Graph{
		Params:   envelope.Params,
		Nodes:    envelope.Nodes,
		InfoSets: envelope.InfoSets,
		Levels:   envelope.Levels,
	}
	g.rebuildIndexes()
	return g, envelope.Epoch, nil
}

// rebuildIndexes repopulates the lookup maps a freshly built Graph carries,
// which the checkpoint envelope does not itself persist (they are
// reconstructible from Nodes/InfoSets and would otherwise just bloat the
// file).
func (g *Graph) rebuildIndexes() {
	g.stateIndex = make(map[string]int, len(g.Nodes))
	for idx, n := range g.Nodes {
		g.stateIndex[n.State.StateKey()] = idx
	}
	g.infoSetIndex = make(map[string]int, len(g.InfoSets))
	for idx, is := range g.InfoSets {
		g.infoSetIndex[is.Key] = idx
	}
}

// writeFileAtomic writes data to filename via a temp file in the same
// directory, synced and permission-set before the rename, so readers never
// observe a partially written file.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filename)
	tmp, err := os.CreateTemp(dir, ".checkpoint-*.tmp")
	if err != nil {
		return fmt.Errorf("mafia: create temp checkpoint file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("mafia: write temp checkpoint file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("mafia: sync temp checkpoint file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("mafia: close temp checkpoint file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("mafia: chmod temp checkpoint file: %w", err)
	}
	if err := os.Rename(tmpPath, filename); err != nil {
		return fmt.Errorf("mafia: rename temp checkpoint file: %w", err)
	}
	return nil
}
