package mafia

import "sort"

// LevelGroup is a set of non-terminal nodes sharing both depth and
// information-set index: the unit of work the trainer and evaluator
// process together, since they share one strategy lookup.
type LevelGroup struct {
	InfoSetIndex int
	Nodes        []int
}

// buildLevels collects every non-terminal node, sorts by (depth,
// information-set index), and groups into levels (by depth) of groups (by
// information-set index). Depth is len(State.Kills).
func buildLevels(g *Graph) [][]LevelGroup {
	type item struct {
		depth, infoIdx, nodeIdx int
	}
	items := make([]item, 0, len(g.Nodes))
	for idx, n := range g.Nodes {
		if n.Terminal {
			continue
		}
		items = append(items, item{depth: len(n.State.Kills), infoIdx: n.InfoSetIndex, nodeIdx: idx})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].depth != items[j].depth {
			return items[i].depth < items[j].depth
		}
		return items[i].infoIdx < items[j].infoIdx
	})

	var levels [][]LevelGroup
	i := 0
	for i < len(items) {
		depth := items[i].depth
		var groups []LevelGroup
		for i < len(items) && items[i].depth == depth {
			infoIdx := items[i].infoIdx
			var nodes []int
			for i < len(items) && items[i].depth == depth && items[i].infoIdx == infoIdx {
				nodes = append(nodes, items[i].nodeIdx)
				i++
			}
			groups = append(groups, LevelGroup{InfoSetIndex: infoIdx, Nodes: nodes})
		}
		levels = append(levels, groups)
	}
	return levels
}
