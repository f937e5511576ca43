package mafia

import "testing"

func TestStateKeyRendersSkipAndDigits(t *testing.T) {
	p := RoleParams{Players: 7, Mafia: 2}
	s := initialState(p)
	s.Kills = []int{7, 3}
	s.RealRequests = []int{7}
	s.FakeRequests = []int{2}
	s.FakeResponses = []bool{true}

	got := s.StateKey()
	want := ".3,.,2,+"
	if got != want {
		t.Fatalf("StateKey() = %q, want %q", got, want)
	}
}

func TestIsDayParity(t *testing.T) {
	p := RoleParams{Players: 7, Mafia: 2}
	s := initialState(p)
	if !s.IsDay() {
		t.Fatalf("empty history must be a day state")
	}
	s.Kills = []int{1}
	if s.IsDay() {
		t.Fatalf("one kill must be a night state")
	}
}

func TestIsTerminalMafiaEliminated(t *testing.T) {
	p := RoleParams{Players: 7, Mafia: 1}
	s := initialState(p)
	s.Buckets[1].Alive = false // the lone mafia is dead
	if !s.IsTerminal() {
		t.Fatalf("expected terminal once all mafia are dead")
	}
}

func TestIsTerminalMafiaMajorityAtNight(t *testing.T) {
	// N=4, M=1: on the first night (after the forced day-1 skip) all four
	// are alive and 4-1 > 2*1, so the game goes on. With one seat fewer at
	// night, 3-1 <= 2*1: the impending kill leaves mafia impossible to
	// outvote.
	p := RoleParams{Players: 4, Mafia: 1}
	s := initialState(p)
	s.Kills = []int{s.skip()} // day 1 forced skip (alive_total==4)
	if s.IsTerminal() {
		t.Fatalf("4-player game must not be terminal on the first night")
	}
	s.Buckets[0].Alive = false // three alive at night
	if !s.IsTerminal() {
		t.Fatalf("expected terminal at night with 3 alive and 1 mafia")
	}
}

// Boundary (b): N=4, M=1 forces the opening vote to skip.
func TestVoteCandidatesForcedSkipAtFourPlayers(t *testing.T) {
	p := RoleParams{Players: 4, Mafia: 1}
	s := initialState(p)
	cands := voteCandidates(s)
	if len(cands) != 1 || cands[0].target != s.skip() {
		t.Fatalf("expected forced skip, got %+v", cands)
	}
}

// With N=5, M=1 and no forced opening skip, five players are alive: more
// than three (and not exactly four), so skip is offered alongside the live
// buckets.
func TestVoteCandidatesOffersSkipAboveThreeAlive(t *testing.T) {
	p := RoleParams{Players: 5, Mafia: 1, SkipFirstDay: false}
	s := initialState(p)
	cands := voteCandidates(s)
	sawSkip := false
	for _, c := range cands {
		if c.target == s.skip() {
			sawSkip = true
		}
	}
	if !sawSkip {
		t.Fatalf("expected skip to be offered with 5 alive, got %+v", cands)
	}
}

func TestSkipFirstDayForcesOpeningVote(t *testing.T) {
	p := RoleParams{Players: 7, Mafia: 2, SkipFirstDay: true}
	s := initialState(p)
	cands := voteCandidates(s)
	if len(cands) != 1 || cands[0].target != s.skip() {
		t.Fatalf("expected forced skip on opening day, got %+v", cands)
	}
}

// Boundary (d): the sole surviving mafia cannot self-kill at night.
func TestKillCandidatesExcludeLoneMafiaAtNight(t *testing.T) {
	p := RoleParams{Players: 7, Mafia: 2}
	s := initialState(p)
	s.Kills = []int{s.skip()} // odd-length history: it is now night
	// Force down to exactly one alive mafia bucket (bucket 1) by killing
	// any other mafia buckets.
	for i := range s.Buckets {
		if i != 1 && s.Buckets[i].Mafia {
			s.Buckets[i].Alive = false
		}
	}
	for _, c := range killCandidates(s) {
		if s.Buckets[c.target].Mafia {
			t.Fatalf("expected no mafia candidates when only one mafia bucket survives, got %+v", c)
		}
	}
}

func TestCheckCandidatesExcludesSelfAndAsked(t *testing.T) {
	p := RoleParams{Players: 7, Mafia: 2}
	s := initialState(p)
	cands := checkCandidates(s, 0, nil)
	for _, c := range cands {
		if c.target == 0 {
			t.Fatalf("detective must not be able to investigate itself")
		}
	}
	cands2 := checkCandidates(s, 0, []int{2})
	for _, c := range cands2 {
		if c.target == 2 {
			t.Fatalf("detective must not re-investigate a prior target")
		}
	}
}

func TestCheckCandidatesDeadDetectiveForcedSkip(t *testing.T) {
	p := RoleParams{Players: 7, Mafia: 2}
	s := initialState(p)
	s.Buckets[0].Alive = false
	cands := checkCandidates(s, 0, nil)
	if len(cands) != 1 || cands[0].target != s.skip() {
		t.Fatalf("expected forced skip for a dead detective, got %+v", cands)
	}
}

func TestTouchAppliedThroughState(t *testing.T) {
	p := RoleParams{Players: 7, Mafia: 2}
	s := initialState(p)
	next, mult := s.applyVote(3) // townsfolk bucket, count 4
	if mult != 4 {
		t.Fatalf("expected multiplicity 4, got %d", mult)
	}
	if len(next.Buckets) != 5 {
		t.Fatalf("expected touch to append a new bucket, got %d buckets", len(next.Buckets))
	}
	if next.Buckets[3].Alive {
		t.Fatalf("voted bucket must be marked dead")
	}
	if next.Kills[0] != 3 {
		t.Fatalf("expected vote recorded in Kills, got %+v", next.Kills)
	}
}
