package mafia

import "strings"

// State is a single position in the game: the ordered public/private
// histories plus the current bucket vector. States are treated as
// immutable values; every mutating operation below returns a new State
// sharing unmodified slices with its predecessor.
type State struct {
	Params RoleParams
	Buckets []PlayerBucket

	// Kills records bucket ids killed in chronological order. Even indices
	// (0, 2, ...) are day votes (may be skip); odd indices are night kills
	// (never skip).
	Kills []int
	// RealRequests/FakeRequests record the real/fake detective's
	// investigation targets, appended on day turns.
	RealRequests []int
	FakeRequests []int
	// RealResponses/FakeResponses record the booleans returned by each
	// detective's investigation, appended on night turns when the
	// corresponding detective is alive and the request was not skip.
	RealResponses []bool
	FakeResponses []bool
}

// initialState builds the empty-history root position for p.
func initialState(p RoleParams) State {
	return State{
		Params:  p,
		Buckets: initialBuckets(p),
	}
}

func (s State) skip() int { return s.Params.SkipBucket() }

// IsDay reports whether it is currently town's turn to act.
func (s State) IsDay() bool { return len(s.Kills)%2 == 0 }

// AliveTotal is the sum of Count over alive buckets.
func (s State) AliveTotal() int { return aliveTotal(s.Buckets) }

// AliveMafias is the sum of Count over alive mafia buckets.
func (s State) AliveMafias() int { return aliveMafias(s.Buckets) }

// IsTerminal reports whether the game has ended: town wins when mafia is
// wiped out, mafia wins once it can no longer be outvoted even accounting
// for the night kill about to happen.
func (s State) IsTerminal() bool {
	if s.AliveMafias() == 0 {
		return true
	}
	night := 0
	if !s.IsDay() {
		night = 1
	}
	return s.AliveTotal()-night <= 2*s.AliveMafias()
}

// touch splits the named bucket, returning the resulting state and the
// multiplicity consumed by the split (see touch in bucket.go).
func (s State) touch(id int) (State, int) {
	buckets, mult, changed := touch(s.Buckets, id, s.skip())
	if !changed {
		return s, mult
	}
	next := s
	next.Buckets = buckets
	return next, mult
}

func appendInt(xs []int, v int) []int {
	out := make([]int, len(xs)+1)
	copy(out, xs)
	out[len(xs)] = v
	return out
}

func appendBool(xs []bool, v bool) []bool {
	out := make([]bool, len(xs)+1)
	copy(out, xs)
	out[len(xs)] = v
	return out
}

func markDead(buckets []PlayerBucket, id, skip int) []PlayerBucket {
	if id == skip || !buckets[id].Alive {
		return buckets
	}
	out := make([]PlayerBucket, len(buckets))
	copy(out, buckets)
	out[id].Alive = false
	return out
}

// applyVote appends a day vote to Kills, killing the target bucket if it is
// not skip. Returns the successor state and the multiplicity consumed by
// touch.
func (s State) applyVote(target int) (State, int) {
	next, mult := s.touch(target)
	next.Kills = appendInt(next.Kills, target)
	next.Buckets = markDead(next.Buckets, target, s.skip())
	return next, mult
}

// applyRealCheck appends a real-detective request.
func (s State) applyRealCheck(target int) (State, int) {
	next, mult := s.touch(target)
	next.RealRequests = appendInt(next.RealRequests, target)
	return next, mult
}

// applyFakeCheck appends a fake-detective request.
func (s State) applyFakeCheck(target int) (State, int) {
	next, mult := s.touch(target)
	next.FakeRequests = appendInt(next.FakeRequests, target)
	return next, mult
}

// applyKill appends a night kill, always a real seat (never skip).
func (s State) applyKill(target int) (State, int) {
	next, mult := s.touch(target)
	next.Kills = appendInt(next.Kills, target)
	next.Buckets = markDead(next.Buckets, target, s.skip())
	return next, mult
}

// withRealResponse appends the forced, true mafia flag of the last
// RealRequests entry. Only valid when bucket 0 is alive and that request
// was not skip.
func (s State) withRealResponse() State {
	target := s.RealRequests[len(s.RealRequests)-1]
	next := s
	next.RealResponses = appendBool(s.RealResponses, next.Buckets[target].Mafia)
	return next
}

// withFakeResponse appends the mafia team's free-choice answer to the last
// FakeRequests entry.
func (s State) withFakeResponse(claim bool) State {
	next := s
	next.FakeResponses = appendBool(s.FakeResponses, claim)
	return next
}

// canReportReal reports whether a forced real-detective response is due
// this night: the real detective is alive and the last request was a real
// target.
func (s State) canReportReal() bool {
	if !s.Buckets[0].Alive {
		return false
	}
	if len(s.RealRequests) == 0 {
		return false
	}
	return s.RealRequests[len(s.RealRequests)-1] != s.skip()
}

// canReportFake reports whether the mafia's free-choice response branches
// this night: the fake detective is alive and the last request was a real
// target. A dead fake detective never reports again, matching the
// reference behavior this implementation follows.
func (s State) canReportFake() bool {
	if !s.Buckets[1].Alive {
		return false
	}
	if len(s.FakeRequests) == 0 {
		return false
	}
	return s.FakeRequests[len(s.FakeRequests)-1] != s.skip()
}

// StateKey is a unique identifier of the concrete game position modulo
// unseen bucket relabelling. RealResponses is intentionally excluded: it is
// a deterministic function of State and seat 0, so including it would not
// refine the key.
func (s State) StateKey() string {
	var b strings.Builder
	writeIDs(&b, s.Kills, s.skip())
	b.WriteByte(',')
	writeIDs(&b, s.RealRequests, s.skip())
	b.WriteByte(',')
	writeIDs(&b, s.FakeRequests, s.skip())
	b.WriteByte(',')
	writeBools(&b, s.FakeResponses)
	return b.String()
}

// writeIDs renders a bucket-id history as digits starting at '0', with skip
// rendered as '.'. Role parameters are compile-time constants kept small
// enough (single-digit bucket counts) for this direct byte mapping.
func writeIDs(b *strings.Builder, ids []int, skip int) {
	for _, id := range ids {
		if id == skip {
			b.WriteByte('.')
		} else {
			b.WriteByte(byte('0' + id))
		}
	}
}

func writeBools(b *strings.Builder, bs []bool) {
	for _, v := range bs {
		if v {
			b.WriteByte('+')
		} else {
			b.WriteByte('-')
		}
	}
}
