// Package mafia builds the extensive-form game tree for a simplified Mafia
// (Werewolf) social-deduction game and trains a Nash-equilibrium strategy
// over it with counterfactual regret minimization.
//
// # Basic usage
//
//	g, err := mafia.Build(mafia.DefaultRoleParams())
//	trainer, err := mafia.NewTrainer(g, mafia.DefaultTrainConfig())
//	err = trainer.Run(ctx, func(p mafia.Progress) {
//	    log.Printf("epoch %d: [%f, %f]", p.Epoch, p.LowerBound, p.UpperBound)
//	})
//
// # Architecture
//
// Build enumerates every reachable State via a worklist, collapsing
// indistinguishable-player symmetry into PlayerBucket multiplicities and
// grouping transitions by information-set key (InfoSet). Trainer alternates
// a forward (reach-probability) and backward (equity/regret) pass per team
// each epoch; Evaluate runs the same passes with a best-response substituted
// for the acting side to bracket the game's exploitability.
package mafia
