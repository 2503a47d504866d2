// Package config parses the environment-variable knobs the REPL honors.
// Everything here is optional: Load fills in a default for every unset knob.
package config

import "github.com/caarlos0/env/v6"

// REPL holds the environment-variable-driven settings for an interactive
// session.
type REPL struct {
	NoColor bool   `env:"LOXIDE_NO_COLOR" envDefault:"false"`
	Prompt  string `env:"LOXIDE_PROMPT" envDefault:"> "`
}

// Load reads REPL settings from the environment, falling back to defaults
// for anything unset.
func Load() (REPL, error) {
	var cfg REPL
	if err := env.Parse(&cfg); err != nil {
		return REPL{}, err
	}
	return cfg, nil
}
