package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/colgen/tspbap"
)

// solverFlags maps flag names to the config fields they override.
var solverFlags = map[string]func(dst *tspbap.Config, src tspbap.Config){
	"cut":              func(d *tspbap.Config, s tspbap.Config) { d.Cut = s.Cut },
	"ordering":         func(d *tspbap.Config, s tspbap.Config) { d.Ordering = s.Ordering },
	"inheritance":      func(d *tspbap.Config, s tspbap.Config) { d.Inheritance = s.Inheritance },
	"warm-start":       func(d *tspbap.Config, s tspbap.Config) { d.WarmStart = s.WarmStart },
	"seed-columns":     func(d *tspbap.Config, s tspbap.Config) { d.SeedColumns = s.SeedColumns },
	"restarts":         func(d *tspbap.Config, s tspbap.Config) { d.Restarts = s.Restarts },
	"seed":             func(d *tspbap.Config, s tspbap.Config) { d.Seed = s.Seed },
	"time-limit":       func(d *tspbap.Config, s tspbap.Config) { d.TimeLimit = s.TimeLimit },
	"node-limit":       func(d *tspbap.Config, s tspbap.Config) { d.NodeLimit = s.NodeLimit },
	"parallel-pricing": func(d *tspbap.Config, s tspbap.Config) { d.ParallelPricing = s.ParallelPricing },
	"check":            func(d *tspbap.Config, s tspbap.Config) { d.ConsistencyChecks = s.ConsistencyChecks },
}

// loadConfig decodes a YAML file over the defaults. Unknown keys are errors.
func loadConfig(path string) (tspbap.Config, error) {
	cfg := tspbap.DefaultConfig()
	fh, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer fh.Close()

	dec := yaml.NewDecoder(fh)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, errors.Wrapf(err, "config %s", path)
	}

	return cfg, cfg.Validate()
}

// resolveConfig layers defaults, the optional file and the flags the user
// set explicitly, in that order.
func resolveConfig(path string, fromFlags tspbap.Config, flags *pflag.FlagSet) (tspbap.Config, error) {
	if path == "" {
		return fromFlags, fromFlags.Validate()
	}
	cfg, err := loadConfig(path)
	if err != nil {
		return cfg, err
	}
	flags.Visit(func(f *pflag.Flag) {
		if apply, ok := solverFlags[f.Name]; ok {
			apply(&cfg, fromFlags)
		}
	})

	return cfg, cfg.Validate()
}
