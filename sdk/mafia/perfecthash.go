package mafia

import "github.com/opencoff/go-chd"

// PerfectHashIndex is a frozen, collision-free index over the information-
// set key set, built once after graph construction (the key set is fixed
// for the remainder of the program's life; see Graph.PerfectHash). It is an
// optional performance optimization over the plain map lookup: callers must
// tolerate a nil *PerfectHashIndex and fall back accordingly.
type PerfectHashIndex struct {
	h         *chd.CHD
	keys      []string
	infoSetOf []int
}

// BuildPerfectHashIndex builds a minimal perfect hash over g's information-
// set keys. It returns nil (never an error) when the key set is too small
// or otherwise degenerate for the underlying construction to succeed,
// matching the design note that this index is never load-bearing for
// correctness.
func BuildPerfectHashIndex(g *Graph) *PerfectHashIndex {
	n := len(g.InfoSets)
	if n == 0 {
		return nil
	}

	b := chd.NewBuilder()
	for _, is := range g.InfoSets {
		b.Add([]byte(is.Key))
	}
	h, err := b.Freeze(0.9)
	if err != nil {
		return nil
	}

	idx := &PerfectHashIndex{
		h:         h,
		keys:      make([]string, n),
		infoSetOf: make([]int, n),
	}
	for i, is := range g.InfoSets {
		slot := h.Find([]byte(is.Key))
		if int(slot) >= n {
			return nil
		}
		idx.keys[slot] = is.Key
		idx.infoSetOf[slot] = i
	}
	return idx
}

// Lookup returns the information-set index for key, confirming the slot
// the hash assigned actually stores key (a CHD returns a valid-looking slot
// for keys outside the built set too, so this check is required).
func (p *PerfectHashIndex) Lookup(key string) (int, bool) {
	if p == nil {
		return 0, false
	}
	slot := p.h.Find([]byte(key))
	if int(slot) >= len(p.keys) || p.keys[slot] != key {
		return 0, false
	}
	return p.infoSetOf[slot], true
}
