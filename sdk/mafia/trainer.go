package mafia

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// TrainConfig is the runtime-tunable half of training: how long to run, how
// often to check convergence and checkpoint, and where to checkpoint to.
// It is distinct from RoleParams, which are fixed at graph-build time.
type TrainConfig struct {
	Epochs          int
	EvalEvery       int
	EarlyStopping   float64
	CheckpointEvery int
	CheckpointPath  string
}

// Validate rejects configurations the trainer cannot run with.
func (c TrainConfig) Validate() error {
	if c.Epochs <= 0 {
		return errors.New("mafia: epochs must be > 0")
	}
	if c.EvalEvery < 0 {
		return errors.New("mafia: eval_every cannot be negative")
	}
	if c.EarlyStopping < 0 {
		return errors.New("mafia: early_stopping cannot be negative")
	}
	if c.CheckpointEvery < 0 {
		return errors.New("mafia: checkpoint_every cannot be negative")
	}
	return nil
}

// DefaultTrainConfig mirrors the reference defaults: ten thousand epochs,
// evaluating (and checkpointing) every ten, halting once the exploitability
// bracket narrows below 0.005.
func DefaultTrainConfig() TrainConfig {
	return TrainConfig{
		Epochs:          10000,
		EvalEvery:       10,
		EarlyStopping:   0.005,
		CheckpointEvery: 10,
	}
}

// Progress is reported to the caller's progress callback on every
// evaluation epoch.
type Progress struct {
	Epoch      int
	UpperBound float64
	LowerBound float64
	Converged  bool
}

// Trainer runs vanilla CFR over a built Graph, alternating one
// half-iteration per team each epoch.
type Trainer struct {
	Graph *Graph
	cfg   TrainConfig
}

// NewTrainer validates cfg and wraps g for training.
func NewTrainer(g *Graph, cfg TrainConfig) (*Trainer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Trainer{Graph: g, cfg: cfg}, nil
}

// Run executes epochs until the configured budget is exhausted, the
// exploitability bracket narrows below EarlyStopping, or ctx is canceled.
// progress may be nil.
func (t *Trainer) Run(ctx context.Context, progress func(Progress)) error {
	for epoch := 1; epoch <= t.cfg.Epochs; epoch++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		t.RunEpoch()

		if t.cfg.EvalEvery == 0 || epoch%t.cfg.EvalEvery != 0 {
			continue
		}

		upper := Evaluate(t.Graph, 0)
		lower := Evaluate(t.Graph, 1)
		converged := upper-lower < t.cfg.EarlyStopping
		if progress != nil {
			progress(Progress{Epoch: epoch, UpperBound: upper, LowerBound: lower, Converged: converged})
		}

		if t.cfg.CheckpointPath != "" && t.cfg.CheckpointEvery > 0 && epoch%t.cfg.CheckpointEvery == 0 {
			if err := SaveCheckpoint(t.cfg.CheckpointPath, t.Graph, epoch); err != nil {
				return fmt.Errorf("mafia: checkpoint: %w", err)
			}
		}

		if converged {
			return nil
		}
	}
	return nil
}

// RunEpoch runs one full CFR iteration: a half-iteration for town, then one
// for mafia.
func (t *Trainer) RunEpoch() {
	t.halfIteration(0)
	t.halfIteration(1)
}

func (t *Trainer) halfIteration(p int) {
	forwardPass(t.Graph, p, func(is *InfoSet) []float64 { return is.Strategy })
	t.backwardPass(p)
}

// strategySource picks which strategy vector a pass reads from an
// information set: the current strategy during training, the normalized
// average strategy during best-response evaluation.
type strategySource func(*InfoSet) []float64

// forwardPass propagates reach ("counterfactual") frequencies top-down.
// Under player p's half-iteration, p's own choices are weighted 1 (we want
// every action's regret measured as if it were always taken); the
// opponent's choices are weighted by their current strategy.
func forwardPass(g *Graph, p int, strategyOf strategySource) {
	g.Nodes[0].Frequency = 1
	for _, level := range g.Levels {
		var eg errgroup.Group
		for _, group := range level {
			group := group
			eg.Go(func() error {
				infoSet := g.InfoSets[group.InfoSetIndex]
				strategy := strategyOf(infoSet)
				for _, nodeIdx := range group.Nodes {
					node := g.Nodes[nodeIdx]
					depth := len(node.State.Kills)
					opponentActing := depth%2 != p
					f := node.Frequency
					for ai, action := range node.Actions {
						c := 1.0
						if opponentActing {
							c = strategy[ai]
						}
						for _, tr := range action {
							g.Nodes[tr.To].Frequency = f * c * tr.Prob
						}
					}
				}
				return nil
			})
		}
		_ = eg.Wait() // groups never return an error
	}
}

// backwardPass propagates equities bottom-up and, on depths matching p,
// accumulates regrets and updates the current/average strategy pair.
func (t *Trainer) backwardPass(p int) {
	g := t.Graph
	for i := len(g.Levels) - 1; i >= 0; i-- {
		level := g.Levels[i]
		var eg errgroup.Group
		for _, group := range level {
			group := group
			eg.Go(func() error {
				t.processGroup(group, p)
				return nil
			})
		}
		_ = eg.Wait()
	}
}

func (t *Trainer) processGroup(group LevelGroup, p int) {
	g := t.Graph
	infoSet := g.InfoSets[group.InfoSetIndex]
	regret := make([]float64, len(infoSet.Strategy))
	var depth int

	for _, nodeIdx := range group.Nodes {
		node := g.Nodes[nodeIdx]
		depth = len(node.State.Kills)
		node.Equity = 0
		for ai, action := range node.Actions {
			sigma := infoSet.Strategy[ai]
			for _, tr := range action {
				w := 1 - g.Nodes[tr.To].Equity
				node.Equity += w * sigma * tr.Prob
				regret[ai] += w * tr.Prob * node.Frequency
			}
		}
		for ai := range regret {
			regret[ai] -= node.Equity * node.Frequency
		}
	}

	if depth%2 != p {
		return
	}
	for ai, r := range regret {
		infoSet.RegretSum[ai] += r
	}
	infoSet.Strategy = regretMatching(infoSet.RegretSum)
	for ai, s := range infoSet.Strategy {
		infoSet.StrategySum[ai] += s
	}
}
