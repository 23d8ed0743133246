// Package config carries the knobs the driver and the machine accept.
// Options can be built directly or loaded from an optional pijama.yaml next
// to the program being run.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is looked up in the directory of the source file.
const ConfigFileName = "pijama.yaml"

// Options configures a single run.
type Options struct {
	// MaxSteps bounds the number of evaluation steps taken by the machine.
	// 0 means unlimited. Test harnesses use this to keep non-terminating
	// programs from running away.
	MaxSteps int `yaml:"max_steps"`

	// Color controls diagnostic coloring on the command line:
	// "auto" (default), "always" or "never".
	Color string `yaml:"color"`
}

// Default returns the options used when no configuration file is present.
func Default() Options {
	return Options{
		MaxSteps: 0,
		Color:    "auto",
	}
}

// Load reads options from a yaml file, starting from the defaults. A missing
// file is not an error; a malformed one is.
func Load(path string) (Options, error) {
	opts := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return opts, nil
		}
		return opts, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("parsing %s: %w", path, err)
	}
	if opts.MaxSteps < 0 {
		return opts, fmt.Errorf("%s: max_steps must not be negative", path)
	}
	switch opts.Color {
	case "", "auto", "always", "never":
	default:
		return opts, fmt.Errorf("%s: color must be auto, always or never", path)
	}
	return opts, nil
}
