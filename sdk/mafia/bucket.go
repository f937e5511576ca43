package mafia

// PlayerBucket is a group of currently indistinguishable seats sharing an
// alive/mafia flag and a multiplicity. Once a bucket's (mafia, alive) pair
// is set it never changes except alive: true -> false.
type PlayerBucket struct {
	Alive bool
	Mafia bool
	Count int
}

// initialBuckets builds the starting bucket vector for p: seat 0 is the real
// detective, seat 1 the fake detective (a mafia member). If there is more
// than one mafia, each remaining mafia seat gets its own size-1 bucket. The
// remaining townsfolk form the final bucket.
func initialBuckets(p RoleParams) []PlayerBucket {
	buckets := []PlayerBucket{
		{Alive: true, Mafia: false, Count: 1}, // bucket 0: real detective
		{Alive: true, Mafia: true, Count: 1},  // bucket 1: fake detective
	}
	for i := 1; i < p.Mafia; i++ {
		buckets = append(buckets, PlayerBucket{Alive: true, Mafia: true, Count: 1})
	}
	remainingTown := p.Players - p.Mafia - 1
	if remainingTown > 0 {
		buckets = append(buckets, PlayerBucket{Alive: true, Mafia: false, Count: remainingTown})
	}
	return buckets
}

// aliveTotal returns the sum of Count over alive buckets.
func aliveTotal(buckets []PlayerBucket) int {
	total := 0
	for _, b := range buckets {
		if b.Alive {
			total += b.Count
		}
	}
	return total
}

// aliveMafias returns the sum of Count over alive mafia buckets.
func aliveMafias(buckets []PlayerBucket) int {
	total := 0
	for _, b := range buckets {
		if b.Alive && b.Mafia {
			total += b.Count
		}
	}
	return total
}

// touch splits bucket id into a size-1 bucket plus a new overflow bucket
// with the remaining count, so future references stably identify the named
// seat. touch(SkipBucket) and touch of a bucket with Count == 1 are no-ops
// and return the original slice. The returned multiplicity is the Count the
// named bucket had before being split (1 if no split occurred).
func touch(buckets []PlayerBucket, id, skip int) ([]PlayerBucket, int, bool) {
	if id == skip {
		return buckets, 1, false
	}
	b := buckets[id]
	if b.Count <= 1 {
		return buckets, 1, false
	}
	out := make([]PlayerBucket, len(buckets), len(buckets)+1)
	copy(out, buckets)
	multiplicity := out[id].Count
	out[id].Count = 1
	out = append(out, PlayerBucket{Alive: b.Alive, Mafia: b.Mafia, Count: b.Count - 1})
	return out, multiplicity, true
}
