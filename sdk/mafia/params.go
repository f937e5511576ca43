// Package mafia computes an approximate Nash equilibrium for a simplified
// Mafia (Werewolf) social-deduction game via counterfactual regret
// minimization over a symmetry-quotiented extensive-form game tree.
package mafia

import "errors"

// RoleParams are the role counts a graph is built for. They are fixed for
// the lifetime of a built graph; a checkpoint built with different params
// cannot be resumed against a different RoleParams value.
type RoleParams struct {
	// Players is the total seat count N.
	Players int
	// Mafia is the mafia seat count M. Seat 1 is always the fake detective,
	// a mafia member; if Mafia > 1 each remaining mafia seat gets its own
	// bucket, distinct from the townsfolk bucket.
	Mafia int
	// SkipFirstDay forces the first day's vote to Skip.
	SkipFirstDay bool
}

// Validate rejects role combinations the builder cannot reason about: there
// must be at least one mafia (the fake detective), fewer mafia than seats,
// and at least two town seats (the real detective plus one townsfolk).
func (p RoleParams) Validate() error {
	if p.Mafia < 1 {
		return errors.New("mafia: mafia count must be >= 1")
	}
	if p.Mafia >= p.Players {
		return errors.New("mafia: mafia count must be less than player count")
	}
	if p.Players-p.Mafia < 2 {
		return errors.New("mafia: need at least one real detective and one townsfolk")
	}
	return nil
}

// SkipBucket returns the reserved "no target" bucket id for these params,
// matching the N sentinel used by the reference formulation: one past the
// highest seat index, so it never collides with a real bucket of the
// initial vector. State keys render it as '.'.
func (p RoleParams) SkipBucket() int {
	return p.Players
}

// DefaultRoleParams is the reference configuration named throughout the
// design notes: seven seats, two mafia, forced-skip opening day.
func DefaultRoleParams() RoleParams {
	return RoleParams{Players: 7, Mafia: 2, SkipFirstDay: true}
}
