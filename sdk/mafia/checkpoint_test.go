package mafia

import (
	"path/filepath"
	"testing"
)

func TestCheckpointRoundTrip(t *testing.T) {
	p := RoleParams{Players: 4, Mafia: 1}
	g, err := Build(p)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	trainer, err := NewTrainer(g, DefaultTrainConfig())
	if err != nil {
		t.Fatalf("NewTrainer() error: %v", err)
	}
	trainer.RunEpoch()

	path := filepath.Join(t.TempDir(), "checkpoint.json")
	if err := SaveCheckpoint(path, g, 7); err != nil {
		t.Fatalf("SaveCheckpoint() error: %v", err)
	}

	loaded, epoch, err := LoadCheckpoint(path, p)
	if err != nil {
		t.Fatalf("LoadCheckpoint() error: %v", err)
	}
	if epoch != 7 {
		t.Fatalf("epoch = %d, want 7", epoch)
	}
	if len(loaded.Nodes) != len(g.Nodes) || len(loaded.InfoSets) != len(g.InfoSets) {
		t.Fatalf("loaded graph shape mismatch: nodes %d/%d infosets %d/%d",
			len(loaded.Nodes), len(g.Nodes), len(loaded.InfoSets), len(g.InfoSets))
	}
	for i, is := range g.InfoSets {
		if loaded.InfoSets[i].Key != is.Key {
			t.Fatalf("info set %d key mismatch: %q vs %q", i, loaded.InfoSets[i].Key, is.Key)
		}
	}
	if idx, ok := loaded.NodeIndexOf(g.Nodes[0].State.StateKey()); !ok || idx != 0 {
		t.Fatalf("rebuilt stateIndex did not resolve the root, got idx=%d ok=%v", idx, ok)
	}
}

func TestCheckpointRejectsRoleParamMismatch(t *testing.T) {
	g, err := Build(RoleParams{Players: 4, Mafia: 1})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	path := filepath.Join(t.TempDir(), "checkpoint.json")
	if err := SaveCheckpoint(path, g, 1); err != nil {
		t.Fatalf("SaveCheckpoint() error: %v", err)
	}

	if _, _, err := LoadCheckpoint(path, RoleParams{Players: 7, Mafia: 2}); err == nil {
		t.Fatalf("expected LoadCheckpoint to reject a role-param mismatch")
	}
}

func TestCheckpointRejectsMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist.json")
	if _, _, err := LoadCheckpoint(path, RoleParams{Players: 4, Mafia: 1}); err == nil {
		t.Fatalf("expected an error reading a missing checkpoint")
	}
}
