// Package solverconfig encodes solve-driver parameters (convergence
// tolerance, worker count, default Bellman algorithm, deadline) outside of
// code, the way the teacher's training config does for RL hyperparameters.
package solverconfig

import (
	"context"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/niceyeti/robustmdp/bellman"
)

// outer matches viper's top-level "kind/def" convention, letting a config
// file carry other document kinds alongside a solver config.
type outer struct {
	Kind string      `mapstructure:"kind"`
	Def  interface{} `mapstructure:"def"`
}

// Config holds the knobs a solve run reads instead of hardcoding.
type Config struct {
	ConvergenceEps float64           `mapstructure:"convergenceEps"`
	NumShards      int               `mapstructure:"numShards"`
	Algorithm      string            `mapstructure:"algorithm"`
	Deadline       map[string]string `mapstructure:"deadline"`
}

// BellmanAlgorithm maps the config's string selector to bellman.Algorithm.
// An unset or unrecognized value maps to bellman.Unspecified, letting
// problem.NewVerification/NewControlSynthesis apply the §4.8 default for
// the system's actual shape rather than hardcoding one here.
func (c *Config) BellmanAlgorithm() bellman.Algorithm {
	switch c.Algorithm {
	case "o_maximization":
		return bellman.OMaximization
	case "lp_mccormick":
		return bellman.LPMcCormickRelaxation
	case "vertex_enumeration":
		return bellman.VertexEnumeration
	default:
		return bellman.Unspecified
	}
}

// WithDeadline returns a context bounded by the configured deadline
// duration, if one is set, else a plain cancelable context.
func (c *Config) WithDeadline(ctx context.Context) (context.Context, context.CancelFunc, error) {
	if val, ok := c.Deadline["duration"]; ok {
		duration, err := time.ParseDuration(val)
		if err != nil {
			return nil, nil, err
		}
		innerCtx, cancel := context.WithTimeout(ctx, duration)
		return innerCtx, cancel, nil
	}
	innerCtx, cancel := context.WithCancel(ctx)
	return innerCtx, cancel, nil
}

// FromYaml reads a solver config from a "kind: solver\ndef:\n  ..." yaml
// document, the same indirection the teacher's FromYaml uses to let one
// file host several config kinds.
func FromYaml(path string) (*Config, error) {
	vp := viper.New()
	vp.SetConfigFile(filepath.Base(path))
	vp.SetConfigType("yaml")
	vp.AddConfigPath(filepath.Dir(path))
	if err := vp.ReadInConfig(); err != nil {
		return nil, err
	}

	var o outer
	if err := vp.Unmarshal(&o); err != nil {
		return nil, err
	}

	spec, err := yaml.Marshal(o.Def)
	if err != nil {
		return nil, err
	}

	cfg := &Config{NumShards: 1}
	if err := yaml.Unmarshal(spec, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
