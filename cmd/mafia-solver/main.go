package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/sslotin/mafia-solver/internal/config"
	"github.com/sslotin/mafia-solver/sdk/mafia"
)

var cli struct {
	LogLevel string `help:"set the log level" enum:"debug,info,warn,error" default:"info"`
	Config   string `help:"path to an HCL runtime config file" default:"mafia-solver.hcl"`

	Build    BuildCmd    `cmd:"" help:"construct the game tree for a role configuration and report its size"`
	Train    TrainCmd    `cmd:"" help:"run CFR training and write a blueprint"`
	Evaluate EvaluateCmd `cmd:"" help:"compute the exploitability bracket of a trained blueprint"`
	Explore  ExploreCmd  `cmd:"" help:"interactively walk the game tree under a blueprint"`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("mafia-solver"),
		kong.Description("Nash-equilibrium solver for a simplified Mafia game"),
		kong.UsageOnError(),
	)

	level, err := log.ParseLevel(cli.LogLevel)
	if err != nil {
		log.Fatal("invalid log level", "error", err)
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           level,
	})

	if err := ctx.Run(logger); err != nil {
		logger.Fatal(ctx.Command(), "error", err)
	}
}

// loadConfig reads the shared --config file, falling back to defaults, and
// validates it before any command acts on it.
func loadConfig() (*config.RuntimeConfig, error) {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// BuildCmd constructs the game tree and reports its shape, without training
// or writing anything to disk: a quick way to sanity-check a role
// configuration before committing to a long training run.
type BuildCmd struct{}

func (cmd *BuildCmd) Run(logger *log.Logger) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	g, err := mafia.Build(cfg.RoleParams())
	if err != nil {
		return fmt.Errorf("build game tree: %w", err)
	}
	logger.Info("game tree built",
		"players", cfg.Role.Players,
		"mafia", cfg.Role.Mafia,
		"nodes", len(g.Nodes),
		"information_sets", len(g.InfoSets),
		"levels", len(g.Levels),
	)
	return nil
}

// TrainCmd runs CFR over the configured role parameters until the epoch
// budget is spent or the exploitability bracket narrows below the
// configured threshold, then writes a blueprint.
type TrainCmd struct {
	Out        string `help:"path to write the trained blueprint" required:""`
	ResumeFrom string `help:"resume from a prior checkpoint instead of building fresh"`
}

func (cmd *TrainCmd) Run(logger *log.Logger) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return cmd.run(cfg, logger, quartz.NewReal())
}

// run is the testable core of TrainCmd: clock is injected so tests can
// assert on the reported duration without actually sleeping.
func (cmd *TrainCmd) run(cfg *config.RuntimeConfig, logger *log.Logger, clock quartz.Clock) error {
	var g *mafia.Graph
	var err error
	startEpoch := 0
	if cmd.ResumeFrom != "" {
		g, startEpoch, err = mafia.LoadCheckpoint(cmd.ResumeFrom, cfg.RoleParams())
		if err != nil {
			return fmt.Errorf("load checkpoint: %w", err)
		}
		logger.Info("resumed from checkpoint", "path", cmd.ResumeFrom, "epoch", startEpoch)
	} else {
		g, err = mafia.Build(cfg.RoleParams())
		if err != nil {
			return fmt.Errorf("build game tree: %w", err)
		}
	}

	trainCfg := cfg.TrainConfig()
	trainer, err := mafia.NewTrainer(g, trainCfg)
	if err != nil {
		return fmt.Errorf("configure trainer: %w", err)
	}

	logger.Info("starting training run",
		"epochs", trainCfg.Epochs,
		"eval_every", trainCfg.EvalEvery,
		"early_stopping", trainCfg.EarlyStopping,
		"information_sets", len(g.InfoSets),
	)

	progress := func(p mafia.Progress) {
		logger.Info("progress",
			"epoch", p.Epoch,
			"upper_bound", p.UpperBound,
			"lower_bound", p.LowerBound,
			"converged", p.Converged,
		)
	}

	start := clock.Now()
	if err := trainer.Run(context.Background(), progress); err != nil {
		return fmt.Errorf("training: %w", err)
	}
	logger.Info("training finished", "duration", clock.Now().Sub(start))

	bp := mafia.NewBlueprint(g, trainCfg.Epochs)
	if err := bp.Save(cmd.Out); err != nil {
		return fmt.Errorf("save blueprint: %w", err)
	}
	logger.Info("blueprint saved", "path", cmd.Out, "information_sets", len(bp.Strategies))
	return nil
}

// EvaluateCmd rebuilds the game tree for the blueprint's recorded role
// parameters, re-materializes the average strategy from it, and reports the
// resulting exploitability bracket.
type EvaluateCmd struct {
	Blueprint string `help:"path to a trained blueprint" required:""`
}

func (cmd *EvaluateCmd) Run(logger *log.Logger) error {
	bp, err := mafia.LoadBlueprint(cmd.Blueprint)
	if err != nil {
		return fmt.Errorf("load blueprint: %w", err)
	}
	g, err := mafia.Build(bp.Params)
	if err != nil {
		return fmt.Errorf("build game tree: %w", err)
	}
	for _, is := range g.InfoSets {
		if strat, ok := bp.Strategy(is.Key); ok {
			copy(is.StrategySum, strat)
		}
	}

	upper := mafia.Evaluate(g, 0)
	lower := mafia.Evaluate(g, 1)
	logger.Info("exploitability bracket",
		"upper_bound", upper,
		"lower_bound", lower,
		"gap", upper-lower,
	)
	return nil
}
