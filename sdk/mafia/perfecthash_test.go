package mafia

import "testing"

func TestPerfectHashIndexFindsEveryKey(t *testing.T) {
	g, err := Build(RoleParams{Players: 5, Mafia: 1})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if g.PerfectHash == nil {
		t.Skip("builder declined to produce a perfect hash for this key set")
	}
	for i, is := range g.InfoSets {
		idx, ok := g.PerfectHash.Lookup(is.Key)
		if !ok || idx != i {
			t.Fatalf("Lookup(%q) = (%d, %v), want (%d, true)", is.Key, idx, ok, i)
		}
	}
}

func TestPerfectHashIndexRejectsUnknownKey(t *testing.T) {
	g, err := Build(RoleParams{Players: 5, Mafia: 1})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if _, ok := g.PerfectHash.Lookup("definitely not a real information-set key"); ok {
		t.Fatalf("expected Lookup to reject a key outside the built set")
	}
}

func TestNilPerfectHashIndexLookupFails(t *testing.T) {
	var p *PerfectHashIndex
	if _, ok := p.Lookup("anything"); ok {
		t.Fatalf("expected a nil index to report ok=false")
	}
}

func TestGraphInfoSetIndexOfFallsBackWithoutPerfectHash(t *testing.T) {
	g, err := Build(RoleParams{Players: 4, Mafia: 1})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	saved := g.PerfectHash
	g.PerfectHash = nil
	defer func() { g.PerfectHash = saved }()

	for i, is := range g.InfoSets {
		idx, ok := g.InfoSetIndexOf(is.Key)
		if !ok || idx != i {
			t.Fatalf("InfoSetIndexOf(%q) = (%d, %v), want (%d, true)", is.Key, idx, ok, i)
		}
	}
}
