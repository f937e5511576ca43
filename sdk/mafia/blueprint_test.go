package mafia

import (
	"path/filepath"
	"testing"
)

func TestBlueprintRoundTrip(t *testing.T) {
	g, err := Build(RoleParams{Players: 4, Mafia: 1})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	b := NewBlueprint(g, 3)
	if len(b.Strategies) != len(g.InfoSets) {
		t.Fatalf("blueprint has %d strategies, want %d", len(b.Strategies), len(g.InfoSets))
	}

	path := filepath.Join(t.TempDir(), "blueprint.json")
	if err := b.Save(path); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := LoadBlueprint(path)
	if err != nil {
		t.Fatalf("LoadBlueprint() error: %v", err)
	}
	if loaded.Epoch != 3 {
		t.Fatalf("epoch = %d, want 3", loaded.Epoch)
	}
	for _, is := range g.InfoSets {
		strat, ok := loaded.Strategy(is.Key)
		if !ok {
			t.Fatalf("missing strategy for key %q", is.Key)
		}
		if len(strat) != len(is.Strategy) {
			t.Fatalf("strategy length mismatch for key %q: %d vs %d", is.Key, len(strat), len(is.Strategy))
		}
	}
}

func TestLoadBlueprintRejectsUnknownVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blueprint.json")
	bad := &Blueprint{Version: 99, Strategies: map[string][]float64{}}
	if err := bad.Save(path); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if _, err := LoadBlueprint(path); err == nil {
		t.Fatalf("expected an error loading an unsupported blueprint version")
	}
}

func TestBlueprintStrategyMissingKey(t *testing.T) {
	b := &Blueprint{Strategies: map[string][]float64{}}
	if _, ok := b.Strategy("nonexistent"); ok {
		t.Fatalf("expected ok=false for a key never recorded")
	}
}
