package mafia

import (
	"context"
	"testing"
)

func TestTrainConfigValidate(t *testing.T) {
	cases := []struct {
		name    string
		c       TrainConfig
		wantErr bool
	}{
		{"defaults", DefaultTrainConfig(), false},
		{"zero epochs", TrainConfig{Epochs: 0}, true},
		{"negative eval_every", TrainConfig{Epochs: 1, EvalEvery: -1}, true},
		{"negative early stopping", TrainConfig{Epochs: 1, EarlyStopping: -1}, true},
		{"negative checkpoint_every", TrainConfig{Epochs: 1, CheckpointEvery: -1}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.c.Validate()
			if c.wantErr && err == nil {
				t.Fatalf("expected error, got nil")
			}
			if !c.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestNewTrainerRejectsInvalidConfig(t *testing.T) {
	g, err := Build(RoleParams{Players: 4, Mafia: 1})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if _, err := NewTrainer(g, TrainConfig{Epochs: 0}); err == nil {
		t.Fatalf("expected NewTrainer to reject an invalid config")
	}
}

func TestRunEpochKeepsStrategiesNormalized(t *testing.T) {
	g, err := Build(RoleParams{Players: 5, Mafia: 1})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	trainer, err := NewTrainer(g, DefaultTrainConfig())
	if err != nil {
		t.Fatalf("NewTrainer() error: %v", err)
	}

	for i := 0; i < 5; i++ {
		trainer.RunEpoch()
	}

	for _, is := range g.InfoSets {
		sum := 0.0
		for _, v := range is.Strategy {
			if v < 0 {
				t.Fatalf("strategy entries must never go negative, got %v", v)
			}
			sum += v
		}
		if sum < 1-1e-6 || sum > 1+1e-6 {
			t.Fatalf("strategy must sum to 1, got %v", sum)
		}
	}
}

func TestTrainerRunRespectsContextCancellation(t *testing.T) {
	g, err := Build(RoleParams{Players: 4, Mafia: 1})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	trainer, err := NewTrainer(g, TrainConfig{Epochs: 1000})
	if err != nil {
		t.Fatalf("NewTrainer() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := trainer.Run(ctx, nil); err == nil {
		t.Fatalf("expected Run to report the cancellation")
	}
}

func TestTrainerRunStopsAtEpochBudget(t *testing.T) {
	g, err := Build(RoleParams{Players: 4, Mafia: 1})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	cfg := TrainConfig{Epochs: 3, EvalEvery: 0}
	trainer, err := NewTrainer(g, cfg)
	if err != nil {
		t.Fatalf("NewTrainer() error: %v", err)
	}
	if err := trainer.Run(context.Background(), nil); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
}
