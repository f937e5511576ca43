// Package policy exposes read-only access to a trained blueprint for
// sampling actions during REPL exploration or live play.
package policy

import (
	"errors"

	"github.com/sslotin/mafia-solver/sdk/mafia"
)

// Policy wraps a loaded blueprint for action-weight queries.
type Policy struct {
	blueprint *mafia.Blueprint
}

// Load constructs a runtime policy from a stored blueprint file.
func Load(path string) (*Policy, error) {
	bp, err := mafia.LoadBlueprint(path)
	if err != nil {
		return nil, err
	}
	return &Policy{blueprint: bp}, nil
}

// Blueprint returns the underlying blueprint metadata.
func (p *Policy) Blueprint() *mafia.Blueprint {
	if p == nil {
		return nil
	}
	return p.blueprint
}

// ActionWeights returns the stored average-strategy distribution for key,
// padded or filled uniformly when the key is missing or shorter than
// actionCount: an unseen information set is treated as if no preference had
// yet been learned for it, never as an error.
func (p *Policy) ActionWeights(key string, actionCount int) ([]float64, error) {
	if p == nil || p.blueprint == nil {
		return nil, errors.New("policy: nil policy")
	}
	if actionCount <= 0 {
		return nil, errors.New("policy: action count must be positive")
	}

	out := make([]float64, actionCount)
	strat, ok := p.blueprint.Strategy(key)
	if !ok {
		uniform := 1.0 / float64(actionCount)
		for i := range out {
			out[i] = uniform
		}
		return out, nil
	}

	copy(out, strat)
	if len(strat) < actionCount {
		uniform := 1.0 / float64(actionCount)
		for i := len(strat); i < actionCount; i++ {
			out[i] = uniform
		}
	}
	return out, nil
}
