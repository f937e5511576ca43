package mafia

import "golang.org/x/sync/errgroup"

// Evaluate computes perfect_play(p): the root's equity (town's probability
// of winning) when p best-responds against the opponent's current average
// strategy. Evaluate(g,0) is thus an upper and Evaluate(g,1) a lower bound
// on town's value; their gap is the exploitability bracket width used for
// early stopping.
func Evaluate(g *Graph, p int) float64 {
	forwardPass(g, p, (*InfoSet).AverageStrategy)
	backwardPassBestResponse(g, p)
	return g.Nodes[0].Equity
}

// backwardPassBestResponse mirrors the trainer's backward pass, except at
// depths matching p it replaces "mix by average strategy" with a max over
// actions: the best response's per-action utility, picking the first
// maximizer on ties.
func backwardPassBestResponse(g *Graph, p int) {
	for i := len(g.Levels) - 1; i >= 0; i-- {
		level := g.Levels[i]
		var eg errgroup.Group
		for _, group := range level {
			group := group
			eg.Go(func() error {
				processGroupBestResponse(g, group, p)
				return nil
			})
		}
		_ = eg.Wait()
	}
}

func processGroupBestResponse(g *Graph, group LevelGroup, p int) {
	infoSet := g.InfoSets[group.InfoSetIndex]
	avg := infoSet.AverageStrategy()

	node0 := g.Nodes[group.Nodes[0]]
	depth := len(node0.State.Kills)

	if depth%2 != p {
		for _, nodeIdx := range group.Nodes {
			node := g.Nodes[nodeIdx]
			node.Equity = 0
			for ai, action := range node.Actions {
				sigma := avg[ai]
				for _, tr := range action {
					w := 1 - g.Nodes[tr.To].Equity
					node.Equity += w * sigma * tr.Prob
				}
			}
		}
		return
	}

	utility := make([]float64, len(infoSet.Strategy))
	for _, nodeIdx := range group.Nodes {
		node := g.Nodes[nodeIdx]
		for ai, action := range node.Actions {
			for _, tr := range action {
				w := 1 - g.Nodes[tr.To].Equity
				utility[ai] += node.Frequency * w * tr.Prob
			}
		}
	}
	best := 0
	for ai := 1; ai < len(utility); ai++ {
		if utility[ai] > utility[best] {
			best = ai
		}
	}
	for _, nodeIdx := range group.Nodes {
		node := g.Nodes[nodeIdx]
		node.Equity = 0
		for _, tr := range node.Actions[best] {
			node.Equity += tr.Prob * (1 - g.Nodes[tr.To].Equity)
		}
	}
}
