package main

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/takoeight0821/rjulia/config"
)

func TestApplyOverrides(t *testing.T) {
	t.Parallel()
	cfg, err := applyOverrides(config.Default(), map[string]string{
		"indent":               "2",
		"list-positional-keys": "false",
		"matrix-fallback":      "passthrough",
		"seq-prefix":           "seq_",
	})
	if err != nil {
		t.Fatal(err)
	}

	want := config.Config{
		IndentWidth:        2,
		ListPositionalKeys: false,
		MatrixFallback:     config.MatrixPassThrough,
		SequencePrefix:     "seq_",
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyOverridesKeepsUnsetOptions(t *testing.T) {
	t.Parallel()
	base := config.Default()
	base.SequencePrefix = "from_file"

	cfg, err := applyOverrides(base, map[string]string{"indent": "8"})
	if err != nil {
		t.Fatal(err)
	}

	want := base
	want.IndentWidth = 8
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyOverridesValidates(t *testing.T) {
	t.Parallel()
	_, err := applyOverrides(config.Default(), map[string]string{"matrix-fallback": "transpose"})
	var invalid config.InvalidOptionError
	if !errors.As(err, &invalid) {
		t.Errorf("expected InvalidOptionError, got %v", err)
	}

	if _, err := applyOverrides(config.Default(), map[string]string{"indent": "wide"}); err == nil {
		t.Error("expected an error for a non-numeric indent")
	}
	if _, err := applyOverrides(config.Default(), map[string]string{"indent": "0"}); err == nil {
		t.Error("expected an error for a zero indent")
	}
}
