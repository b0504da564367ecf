package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// Matrix fallbacks used when matrix() is called without nrow or ncol.
const (
	MatrixReshape     = "reshape"
	MatrixPassThrough = "passthrough"
)

// Config holds the translation options that have more than one reasonable
// answer.
type Config struct {
	// IndentWidth is the number of spaces per indentation level.
	IndentWidth int `yaml:"indent_width"`
	// ListPositionalKeys makes list() key its positional arguments by their
	// 1-based position. When false, positional arguments are dropped.
	ListPositionalKeys bool `yaml:"list_positional_keys"`
	// MatrixFallback is MatrixReshape or MatrixPassThrough.
	MatrixFallback string `yaml:"matrix_fallback"`
	// SequencePrefix marks variables that hold a sequence. A string-keyed
	// store into such a variable converts it into a Dict first.
	SequencePrefix string `yaml:"sequence_prefix"`
}

func Default() Config {
	return Config{
		IndentWidth:        4,
		ListPositionalKeys: true,
		MatrixFallback:     MatrixReshape,
		SequencePrefix:     "vec",
	}
}

// DefaultPath is $XDG_CONFIG_HOME/rjulia/config.yaml.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "rjulia", "config.yaml")
}

// Load reads the YAML file at path over the defaults. A missing file yields
// the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, cfg.Validate()
}

type InvalidOptionError struct {
	Option string
	Value  any
}

func (e InvalidOptionError) Error() string {
	return fmt.Sprintf("invalid value for %s: %v", e.Option, e.Value)
}

func (c Config) Validate() error {
	var err error
	if c.IndentWidth <= 0 {
		err = errors.Join(err, InvalidOptionError{Option: "indent_width", Value: c.IndentWidth})
	}
	if c.MatrixFallback != MatrixReshape && c.MatrixFallback != MatrixPassThrough {
		err = errors.Join(err, InvalidOptionError{Option: "matrix_fallback", Value: c.MatrixFallback})
	}
	return err
}
