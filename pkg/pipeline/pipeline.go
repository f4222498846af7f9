// Package pipeline runs solves and sweeps for the CLI and the API.
//
// This package wires configuration, caching, logging and observability
// hooks around the numerical core, so both entry points behave the same.
//
// # Stages
//
//  1. Build: turn a config.Config into a network, solver and cost model
//  2. Compute: a single solve, or a diameter sweep
//  3. Render: optional diagram or chart of the result
//
// # Usage
//
//	runner := pipeline.NewRunner(nil, nil, logger)
//	res, err := runner.Optimize(ctx, pipeline.Options{Config: cfg})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Summary())
package pipeline

import (
	"github.com/matzehuels/pipeflow/pkg/config"
	"github.com/matzehuels/pipeflow/pkg/errors"
	"github.com/matzehuels/pipeflow/pkg/render"
)

// Artifact kinds.
const (
	KindNetwork = "network"
	KindChart   = "chart"
)

// ValidFormats is the set of supported output formats per artifact kind.
var ValidFormats = map[string]map[string]bool{
	KindNetwork: {render.FormatSVG: true, render.FormatPNG: true, render.FormatPDF: true, render.FormatDOT: true},
	KindChart:   {render.FormatSVG: true, render.FormatPNG: true, render.FormatPDF: true},
}

// Options contains the inputs of one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Config describes fluid, network, economics, solver and sweep.
	// Nil uses config.Default().
	Config *config.Config `json:"config,omitempty"`

	// Diameter overrides Config.Piping.Diameter for single solves (m).
	Diameter float64 `json:"diameter,omitempty"`

	// Grid overrides the configured sweep grid (m, ascending).
	Grid []float64 `json:"grid,omitempty"`

	// Workers overrides Config.Sweep.Workers.
	Workers int `json:"workers,omitempty"`

	// Refresh bypasses cached results.
	Refresh bool `json:"refresh,omitempty"`
}

// ValidateAndSetDefaults fills a nil Config and validates the rest.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Config == nil {
		o.Config = config.Default()
	}
	if err := o.Config.Validate(); err != nil {
		return err
	}
	if o.Diameter != 0 {
		if err := errors.ValidatePositive("diameter", o.Diameter); err != nil {
			return err
		}
	}
	if o.Grid != nil {
		if err := errors.ValidateAscending("diameter grid", o.Grid); err != nil {
			return err
		}
	}
	if o.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "workers must not be negative, got %d", o.Workers)
	}
	return nil
}

// SolveDiameter returns the diameter of a single solve.
func (o *Options) SolveDiameter() float64 {
	if o.Diameter != 0 {
		return o.Diameter
	}
	return o.Config.Piping.Diameter
}

// SweepGrid returns the diameters of a sweep.
func (o *Options) SweepGrid() ([]float64, error) {
	if o.Grid != nil {
		return o.Grid, nil
	}
	return o.Config.Grid()
}

// SweepWorkers returns the worker count of a sweep.
func (o *Options) SweepWorkers() int {
	if o.Workers != 0 {
		return o.Workers
	}
	return o.Config.Sweep.Workers
}

// ValidateFormat checks that format is supported for kind.
func ValidateFormat(kind, format string) error {
	formats, ok := ValidFormats[kind]
	if !ok {
		return errors.New(errors.ErrCodeInvalidInput, "unknown artifact kind %q (want network or chart)", kind)
	}
	if !formats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "format %q is not supported for %s", format, kind)
	}
	return nil
}
