package mafia

// candidate pairs a target bucket id with the multiplicity (live Count) it
// carries at the moment it is offered as a choice.
type candidate struct {
	target int
	count  int
}

// killCandidates lists every live bucket as a candidate target for a vote or
// a night kill. At night, if only one mafia seat remains alive, mafia
// buckets are excluded: the last mafia cannot kill itself.
func killCandidates(s State) []candidate {
	excludeMafia := !s.IsDay() && s.AliveMafias() == 1
	out := make([]candidate, 0, len(s.Buckets))
	for id, b := range s.Buckets {
		if !b.Alive {
			continue
		}
		if excludeMafia && b.Mafia {
			continue
		}
		out = append(out, candidate{target: id, count: b.Count})
	}
	return out
}

// voteCandidates lists the legal day-vote targets. With exactly four
// players alive, or on a skipped opening day, voting is forced to skip.
// Otherwise every live bucket is offered, plus skip when more than three
// players are alive.
func voteCandidates(s State) []candidate {
	skip := s.skip()
	if s.AliveTotal() == 4 || (s.Params.SkipFirstDay && len(s.Kills) == 0) {
		return []candidate{{target: skip, count: 1}}
	}
	out := killCandidates(s)
	if s.AliveTotal() > 3 {
		out = append(out, candidate{target: skip, count: 1})
	}
	return out
}

// checkCandidates lists the legal investigation targets for the detective
// at seat, given the buckets it has already requested. Skip alone is
// returned if that detective is dead, if only two players remain alive, or
// if every live bucket has already been asked (or is the detective's own
// seat).
func checkCandidates(s State, seat int, priorRequests []int) []candidate {
	skip := s.skip()
	if !s.Buckets[seat].Alive || s.AliveTotal() == 2 {
		return []candidate{{target: skip, count: 1}}
	}

	asked := make(map[int]bool, len(priorRequests))
	for _, r := range priorRequests {
		asked[r] = true
	}

	out := make([]candidate, 0, len(s.Buckets))
	for id, b := range s.Buckets {
		if !b.Alive || id == seat || asked[id] {
			continue
		}
		out = append(out, candidate{target: id, count: b.Count})
	}
	if len(out) == 0 {
		return []candidate{{target: skip, count: 1}}
	}
	return out
}
