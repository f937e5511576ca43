package mafia

import "strings"

// InfoSet is the durable learned state attached to one information-set key:
// the current mixed strategy, the running strategy-sum whose normalization
// converges to the average (equilibrium) strategy, and the running signed
// regret accumulator. All three are sized to the action count shared by
// every node that maps to this information set.
type InfoSet struct {
	Key         string
	Strategy    []float64
	StrategySum []float64
	RegretSum   []float64
}

func newInfoSet(key string, actions int) *InfoSet {
	strategy := make([]float64, actions)
	uniform := 1.0 / float64(actions)
	for i := range strategy {
		strategy[i] = uniform
	}
	return &InfoSet{
		Key:         key,
		Strategy:    strategy,
		StrategySum: make([]float64, actions),
		RegretSum:   make([]float64, actions),
	}
}

// AverageStrategy normalizes StrategySum into a probability simplex,
// falling back to uniform when the sum is zero (an information set that was
// visited but never updated on its own player's half-iteration).
func (is *InfoSet) AverageStrategy() []float64 {
	total := 0.0
	for _, v := range is.StrategySum {
		total += v
	}
	out := make([]float64, len(is.StrategySum))
	if total <= 0 {
		uniform := 1.0 / float64(len(out))
		for i := range out {
			out[i] = uniform
		}
		return out
	}
	for i, v := range is.StrategySum {
		out[i] = v / total
	}
	return out
}

// regretMatching maps accumulated regrets to a strategy proportional to
// their positive part, falling back to uniform when every clamped regret is
// zero.
func regretMatching(regrets []float64) []float64 {
	out := make([]float64, len(regrets))
	total := 0.0
	for i, r := range regrets {
		if r > 0 {
			out[i] = r
			total += r
		}
	}
	if total <= 0 {
		uniform := 1.0 / float64(len(out))
		for i := range out {
			out[i] = uniform
		}
		return out
	}
	for i := range out {
		out[i] /= total
	}
	return out
}

// infoSetKey derives the canonical information-set key for s's acting side:
// town on day turns, mafia on night turns.
func infoSetKey(s State) string {
	if s.IsDay() {
		return dayInfoSetKey(s)
	}
	return nightInfoSetKey(s)
}

// dayLabeling is the bucket-id -> canonical-label assignment town uses to
// describe a day position, under one of the two detective-label
// assignments. next is the next unused digit label.
type dayLabeling struct {
	labels map[int]byte
	next   byte
}

// label returns the canonical character for id, assigning the next free
// digit if id has not been seen before. skip always renders '.'.
func (l *dayLabeling) label(id, skip int) byte {
	if id == skip {
		return '.'
	}
	if c, ok := l.labels[id]; ok {
		return c
	}
	c := l.next
	l.labels[id] = c
	l.next++
	return c
}

// dayStreams returns the (requests, responses) pair for each detective
// slot in the order a given swap hypothesis assigns them: stream1 is
// whichever detective is NOT labeled 'a' under that hypothesis, stream2 is
// the one labeled 'a'. Labeling and stream order always move together, so
// that the two swap hypotheses actually canonicalize the unordered
// real/fake pair instead of leaving the physical stream order as a
// town-unobservable tell.
func dayStreams(s State, swap bool) (req1 []int, resp1 []bool, req2 []int, resp2 []bool) {
	if swap {
		return s.RealRequests, s.RealResponses, s.FakeRequests, s.FakeResponses
	}
	return s.FakeRequests, s.FakeResponses, s.RealRequests, s.RealResponses
}

func buildDayLabeling(s State, swap bool) dayLabeling {
	labels := make(map[int]byte, len(s.Buckets))
	if swap {
		labels[0] = 'b'
		labels[1] = 'a'
	} else {
		labels[0] = 'a'
		labels[1] = 'b'
	}
	l := dayLabeling{labels: labels, next: '0'}
	skip := s.skip()
	scan := func(ids []int) {
		for _, id := range ids {
			l.label(id, skip)
		}
	}
	req1, _, req2, _ := dayStreams(s, swap)
	scan(s.Kills)
	scan(req1)
	scan(req2)
	return l
}

func renderDayKey(s State, l dayLabeling, swap bool) string {
	skip := s.skip()
	req1, resp1, req2, resp2 := dayStreams(s, swap)
	var b strings.Builder
	writeLabeled(&b, s.Kills, l.labels, skip)
	b.WriteByte(',')
	writeLabeled(&b, req1, l.labels, skip)
	b.WriteByte(',')
	writeBools(&b, resp1)
	b.WriteByte(',')
	writeLabeled(&b, req2, l.labels, skip)
	b.WriteByte(',')
	writeBools(&b, resp2)
	return b.String()
}

// dayInfoSetKey derives town's information-set key. Town observes the full
// public history but cannot tell which of seats 0/1 is the real detective,
// so the key is the lexicographic minimum over both detective-label
// assignments (each paired with its matching stream order): a canonical
// form for an unordered pair.
func dayInfoSetKey(s State) string {
	a := renderDayKey(s, buildDayLabeling(s, false), false)
	b := renderDayKey(s, buildDayLabeling(s, true), true)
	if a < b {
		return a
	}
	return b
}

// nightLabeling is the bucket-id -> canonical-label assignment mafia uses:
// the fake detective is always 'a'; other mafia get 'b','c',...; town seats
// get '0','1',... Order is first appearance across kills and fake_requests.
type nightLabeling struct {
	labels  map[int]byte
	letters byte
	digits  byte
}

func (l nightLabeling) clone() nightLabeling {
	out := make(map[int]byte, len(l.labels))
	for k, v := range l.labels {
		out[k] = v
	}
	return nightLabeling{labels: out, letters: l.letters, digits: l.digits}
}

func (l *nightLabeling) label(id, skip int, mafia bool) byte {
	if id == skip {
		return '.'
	}
	if c, ok := l.labels[id]; ok {
		return c
	}
	var c byte
	if mafia {
		c = l.letters
		l.letters++
	} else {
		c = l.digits
		l.digits++
	}
	l.labels[id] = c
	return c
}

func buildNightLabeling(s State) nightLabeling {
	l := nightLabeling{labels: map[int]byte{1: 'a'}, letters: 'b', digits: '0'}
	skip := s.skip()
	scan := func(ids []int) {
		for _, id := range ids {
			if id == 1 || id == skip {
				continue
			}
			l.label(id, skip, s.Buckets[id].Mafia)
		}
	}
	scan(s.Kills)
	scan(s.FakeRequests)
	return l
}

// nightInfoSetKey derives mafia's information-set key. Mafia knows every
// mafia identity and its own fake-detective request stream, but cannot
// distinguish individual townsfolk from one another; it never observes the
// real detective's requests or responses.
func nightInfoSetKey(s State) string {
	l := buildNightLabeling(s)
	skip := s.skip()
	var b strings.Builder
	writeLabeled(&b, s.Kills, l.labels, skip)
	b.WriteByte(',')
	writeLabeled(&b, s.FakeRequests, l.labels, skip)
	b.WriteByte(',')
	writeBools(&b, s.FakeResponses)
	return b.String()
}

func writeLabeled(b *strings.Builder, ids []int, labels map[int]byte, skip int) {
	for _, id := range ids {
		if id == skip {
			b.WriteByte('.')
			continue
		}
		b.WriteByte(labels[id])
	}
}
