package mafia

import "testing"

func TestEvaluateReturnsAProbability(t *testing.T) {
	g, err := Build(RoleParams{Players: 4, Mafia: 1})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	for _, p := range []int{0, 1} {
		v := Evaluate(g, p)
		if v < 0 || v > 1 {
			t.Fatalf("Evaluate(g, %d) = %v, want a value in [0, 1]", p, v)
		}
	}
}

// Property 6 (bracket ordering): after twenty epochs of training the
// exploitability bracket (Evaluate(g,0), Evaluate(g,1)) must still bound the
// true game value in the
// same direction: town's best response upper-bounds what mafia can hold it
// to, so the upper value must never fall strictly below the lower one by
// more than floating-point slack.
func TestExploitabilityBracketOrdering(t *testing.T) {
	g, err := Build(RoleParams{Players: 5, Mafia: 1})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	trainer, err := NewTrainer(g, DefaultTrainConfig())
	if err != nil {
		t.Fatalf("NewTrainer() error: %v", err)
	}
	for i := 0; i < 20; i++ {
		trainer.RunEpoch()
	}

	upper := Evaluate(g, 0)
	lower := Evaluate(g, 1)
	if upper < lower-1e-6 {
		t.Fatalf("expected upper bound %v >= lower bound %v", upper, lower)
	}
}
