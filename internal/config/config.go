// Package config loads the runtime-tunable half of a training run from an
// optional HCL file, falling back to defaults when the file is absent.
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/sslotin/mafia-solver/sdk/mafia"
)

// RuntimeConfig is the full on-disk configuration: the role parameters the
// game tree is built for (read at startup, not compiled in) plus the
// tunable training schedule.
type RuntimeConfig struct {
	Role  RoleBlock  `hcl:"role,block"`
	Train TrainBlock `hcl:"train,block"`
}

// RoleBlock mirrors mafia.RoleParams as an HCL block.
type RoleBlock struct {
	Players      int  `hcl:"players,optional"`
	Mafia        int  `hcl:"mafia,optional"`
	SkipFirstDay bool `hcl:"skip_first_day,optional"`
}

// TrainBlock mirrors mafia.TrainConfig as an HCL block, plus a log_level
// that Validate checks. The CLI's logger takes its level from the
// --log-level flag; this field does not change it.
type TrainBlock struct {
	Epochs          int     `hcl:"epochs,optional"`
	EvalEvery       int     `hcl:"eval_every,optional"`
	EarlyStopping   float64 `hcl:"early_stopping,optional"`
	CheckpointEvery int     `hcl:"checkpoint_every,optional"`
	CheckpointPath  string  `hcl:"checkpoint_path,optional"`
	LogLevel        string  `hcl:"log_level,optional"`
}

// Default returns the reference configuration: seven seats, two mafia,
// ten thousand epochs, info-level logging.
func Default() *RuntimeConfig {
	role := mafia.DefaultRoleParams()
	train := mafia.DefaultTrainConfig()
	return &RuntimeConfig{
		Role: RoleBlock{
			Players:      role.Players,
			Mafia:        role.Mafia,
			SkipFirstDay: role.SkipFirstDay,
		},
		Train: TrainBlock{
			Epochs:          train.Epochs,
			EvalEvery:       train.EvalEvery,
			EarlyStopping:   train.EarlyStopping,
			CheckpointEvery: train.CheckpointEvery,
			LogLevel:        "info",
		},
	}
}

// Load reads filename as HCL, falling back to Default when the file does
// not exist. Missing numeric/string fields are filled from the defaults
// field by field, matching the teacher's config-loading shape.
func Load(filename string) (*RuntimeConfig, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("config: parse %s: %s", filename, diags.Error())
	}

	cfg := *Default()
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("config: decode %s: %s", filename, diags.Error())
	}
	return &cfg, nil
}

// RoleParams converts the loaded role block into mafia.RoleParams.
func (c *RuntimeConfig) RoleParams() mafia.RoleParams {
	return mafia.RoleParams{
		Players:      c.Role.Players,
		Mafia:        c.Role.Mafia,
		SkipFirstDay: c.Role.SkipFirstDay,
	}
}

// TrainConfig converts the loaded train block into mafia.TrainConfig.
func (c *RuntimeConfig) TrainConfig() mafia.TrainConfig {
	return mafia.TrainConfig{
		Epochs:          c.Train.Epochs,
		EvalEvery:       c.Train.EvalEvery,
		EarlyStopping:   c.Train.EarlyStopping,
		CheckpointEvery: c.Train.CheckpointEvery,
		CheckpointPath:  c.Train.CheckpointPath,
	}
}

// Validate checks both embedded configs and rejects an unrecognized log
// level: a configuration error caught at startup rather than surfaced the
// first time the logger tries to use it.
func (c *RuntimeConfig) Validate() error {
	if err := c.RoleParams().Validate(); err != nil {
		return err
	}
	if err := c.TrainConfig().Validate(); err != nil {
		return err
	}
	switch c.Train.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unrecognized log_level %q", c.Train.LogLevel)
	}
	return nil
}
