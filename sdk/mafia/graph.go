package mafia

import (
	"fmt"
	"sort"
	"strings"
)

// Graph is the full built game tree: every reachable node, the
// information-set table nodes index into, and the level index (computed by
// Build) used for top-down/bottom-up traversal.
type Graph struct {
	Params   RoleParams
	Nodes    []*Node
	InfoSets []*InfoSet
	Levels   [][]LevelGroup

	// PerfectHash is a frozen, collision-free key lookup over InfoSets,
	// built once graph construction completes. It is a pure performance
	// optimization: nil when the build could not produce one, and every
	// caller must fall back to infoSetIndex in that case.
	PerfectHash *PerfectHashIndex

	stateIndex   map[string]int
	infoSetIndex map[string]int
}

// InfoSetIndexOf returns the information-set index for key, preferring the
// frozen perfect-hash index when available and falling back to the plain
// map otherwise.
func (g *Graph) InfoSetIndexOf(key string) (int, bool) {
	if g.PerfectHash != nil {
		if idx, ok := g.PerfectHash.Lookup(key); ok {
			return idx, true
		}
	}
	idx, ok := g.infoSetIndex[key]
	return idx, ok
}

// NodeIndexOf returns the node index for a state key.
func (g *Graph) NodeIndexOf(stateKey string) (int, bool) {
	idx, ok := g.stateIndex[stateKey]
	return idx, ok
}

// InvariantViolation reports a failure of one of the alignment invariants
// the builder depends on (action-count agreement within an information
// set, a probability mass that does not sum to 1, or a node referenced as a
// transition target other than exactly once). These are programmer
// errors, not recoverable runtime conditions, so callers are expected to
// treat them as fatal.
type InvariantViolation struct {
	Detail string
}

func (e InvariantViolation) Error() string {
	return fmt.Sprintf("mafia: invariant violation: %s", e.Detail)
}

// Build constructs the full game tree for the given role parameters: the
// worklist-driven state enumeration, the per-node action grouping, and the
// level index, in one pass.
func Build(params RoleParams) (*Graph, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	g := &Graph{
		Params:       params,
		stateIndex:   make(map[string]int),
		infoSetIndex: make(map[string]int),
	}

	rootIdx, _ := g.getOrCreateNode(initialState(params))
	worklist := []int{rootIdx}

	for len(worklist) > 0 {
		idx := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		node := g.Nodes[idx]
		if node.State.IsTerminal() {
			node.Terminal = true
			node.InfoSetIndex = -1
			node.Equity = terminalEquity(node.State)
			continue
		}
		if node.State.IsDay() {
			worklist = g.expandDay(idx, worklist)
		} else {
			worklist = g.expandNight(idx, worklist)
		}
	}

	if err := g.checkInvariants(); err != nil {
		return nil, err
	}
	g.Levels = buildLevels(g)
	g.PerfectHash = BuildPerfectHashIndex(g)
	return g, nil
}

// getOrCreateNode looks up s by its state key, creating a new Node (and
// assigning it the next index) on first reference.
func (g *Graph) getOrCreateNode(s State) (int, bool) {
	key := s.StateKey()
	if idx, ok := g.stateIndex[key]; ok {
		return idx, false
	}
	idx := len(g.Nodes)
	g.Nodes = append(g.Nodes, &Node{State: s})
	g.stateIndex[key] = idx
	return idx, true
}

// getOrCreateInfoSet looks up key, creating a new uniform-strategy entry of
// size actions on first reference. A size mismatch on a cache hit is an
// invariant violation: every node sharing an information-set key must agree
// on its action count.
func (g *Graph) getOrCreateInfoSet(key string, actions int) int {
	if idx, ok := g.infoSetIndex[key]; ok {
		if len(g.InfoSets[idx].Strategy) != actions {
			panic(InvariantViolation{Detail: fmt.Sprintf(
				"information set %q: action count mismatch (%d vs %d)",
				key, len(g.InfoSets[idx].Strategy), actions)})
		}
		return idx
	}
	idx := len(g.InfoSets)
	g.InfoSets = append(g.InfoSets, newInfoSet(key, actions))
	g.infoSetIndex[key] = idx
	return idx
}

type rawAction struct {
	label string
	to    int
	mult  int
}

// groupRawActions sorts raw actions by their grouping label and folds
// equal-label, equal-successor raws together, turning each surviving group
// into one action whose transition probabilities are weighted by relative
// multiplicity.
func groupRawActions(raws []rawAction) [][]Transition {
	sort.Slice(raws, func(i, j int) bool { return raws[i].label < raws[j].label })

	var actions [][]Transition
	i := 0
	for i < len(raws) {
		label := raws[i].label
		byTarget := make(map[int]int)
		var order []int
		total := 0
		for i < len(raws) && raws[i].label == label {
			if _, ok := byTarget[raws[i].to]; !ok {
				order = append(order, raws[i].to)
			}
			byTarget[raws[i].to] += raws[i].mult
			total += raws[i].mult
			i++
		}
		transitions := make([]Transition, 0, len(order))
		for _, to := range order {
			transitions = append(transitions, Transition{To: to, Prob: float64(byTarget[to]) / float64(total)})
		}
		actions = append(actions, transitions)
	}
	return actions
}

// expandDay enumerates the day intent (vote, real_check, fake_check),
// builds the node's grouped actions, and returns the worklist with any
// newly discovered successors pushed to the front.
func (g *Graph) expandDay(nodeIdx int, worklist []int) []int {
	s := g.Nodes[nodeIdx].State
	votes := voteCandidates(s)
	reals := checkCandidates(s, 0, s.RealRequests)
	fakes := checkCandidates(s, 1, s.FakeRequests)

	var raws []rawAction
	for _, v := range votes {
		for _, r := range reals {
			for _, f := range fakes {
				s1, m1 := s.applyVote(v.target)
				s2, m2 := s1.applyRealCheck(r.target)
				s3, m3 := s2.applyFakeCheck(f.target)

				idx, created := g.getOrCreateNode(s3)
				if created {
					worklist = pushFront(worklist, idx)
				}
				// Two intents are town-indistinguishable exactly when they lead
				// to successors sharing a canonical day information-set key, so
				// that key (not a label over the raw vote/real/fake choice) is
				// what raw actions are grouped by.
				label := dayInfoSetKey(s3)
				raws = append(raws, rawAction{label: label, to: idx, mult: m1 * m2 * m3})
			}
		}
	}

	actions := groupRawActions(raws)
	g.Nodes[nodeIdx].Actions = actions
	g.Nodes[nodeIdx].InfoSetIndex = g.getOrCreateInfoSet(dayInfoSetKey(s), len(actions))
	return worklist
}

// expandNight enumerates the night intent (kill [, fake_response]), builds
// the node's grouped actions, and returns the worklist with any newly
// discovered successors pushed to the front.
func (g *Graph) expandNight(nodeIdx int, worklist []int) []int {
	s := g.Nodes[nodeIdx].State
	kills := killCandidates(s)
	nl := buildNightLabeling(s)

	var raws []rawAction
	for _, k := range kills {
		s1, m1 := s.applyKill(k.target)
		if s1.canReportReal() {
			s1 = s1.withRealResponse()
		}
		if s1.canReportFake() {
			for _, claim := range [...]bool{false, true} {
				s2 := s1.withFakeResponse(claim)
				idx, created := g.getOrCreateNode(s2)
				if created {
					worklist = pushFront(worklist, idx)
				}
				c := claim
				label := actionLabelNight(nl, s, k.target, &c)
				raws = append(raws, rawAction{label: label, to: idx, mult: m1})
			}
		} else {
			idx, created := g.getOrCreateNode(s1)
			if created {
				worklist = pushFront(worklist, idx)
			}
			label := actionLabelNight(nl, s, k.target, nil)
			raws = append(raws, rawAction{label: label, to: idx, mult: m1})
		}
	}

	actions := groupRawActions(raws)
	g.Nodes[nodeIdx].Actions = actions
	g.Nodes[nodeIdx].InfoSetIndex = g.getOrCreateInfoSet(nightInfoSetKey(s), len(actions))
	return worklist
}

func actionLabelNight(base nightLabeling, s State, kill int, claim *bool) string {
	l := base.clone()
	skip := s.skip()
	mafiaFlag := false
	if kill != skip {
		mafiaFlag = s.Buckets[kill].Mafia
	}
	var b strings.Builder
	b.WriteByte(l.label(kill, skip, mafiaFlag))
	b.WriteByte(',')
	switch {
	case claim == nil:
		b.WriteByte('.')
	case *claim:
		b.WriteByte('+')
	default:
		b.WriteByte('-')
	}
	return b.String()
}

func pushFront(worklist []int, idx int) []int {
	out := make([]int, 0, len(worklist)+1)
	out = append(out, idx)
	out = append(out, worklist...)
	return out
}

const probEpsilon = 1e-6

// checkInvariants verifies the alignment invariants the trainer and
// evaluator rely on: every action's transitions sum to 1, and the graph is
// a tree (every non-root node is referenced as a transition target exactly
// once).
func (g *Graph) checkInvariants() error {
	refCount := make([]int, len(g.Nodes))
	for idx, n := range g.Nodes {
		if n.Terminal {
			continue
		}
		for ai, action := range n.Actions {
			sum := 0.0
			for _, t := range action {
				sum += t.Prob
				refCount[t.To]++
			}
			if sum < 1-probEpsilon || sum > 1+probEpsilon {
				return InvariantViolation{Detail: fmt.Sprintf(
					"node %d action %d: transition probabilities sum to %v, want 1", idx, ai, sum)}
			}
		}
	}
	for idx, count := range refCount {
		if idx == 0 {
			continue
		}
		if count != 1 {
			return InvariantViolation{Detail: fmt.Sprintf(
				"node %d referenced as a transition target %d times, want 1", idx, count)}
		}
	}
	return nil
}
