package mafia

// Transition is one (child, probability) pair inside an action: the chance
// branch induced when grouping raw actions that are indistinguishable to
// the acting team collapses several concrete successors into one.
type Transition struct {
	To   int
	Prob float64
}

// Node is a vertex of the built game tree.
type Node struct {
	State State

	// Terminal is true when the game has ended at this position; Actions
	// is empty and Equity holds the final outcome for the side whose turn
	// it would be at this position (town on day, mafia on night).
	Terminal bool

	// InfoSetIndex indexes into Graph.InfoSets; -1 for terminal nodes.
	InfoSetIndex int

	// Actions groups this node's legal choices; each action is a list of
	// transitions whose probabilities sum to 1.
	Actions [][]Transition

	// Equity and Frequency are scratch fields overwritten on every
	// trainer/evaluator pass: Equity is the probability of victory for the
	// side to move at this node (its parent's mover sees 1 - Equity),
	// Frequency is the reach probability propagated during the forward pass.
	Equity    float64
	Frequency float64
}

// terminalEquity computes the fixed payoff of a terminal state for the side
// to move there: 1 if town has eliminated mafia and the terminal position
// is a day state (or symmetrically if mafia has won at a night state),
// else 0.
func terminalEquity(s State) float64 {
	townWon := s.AliveMafias() == 0
	if townWon == s.IsDay() {
		return 1
	}
	return 0
}
