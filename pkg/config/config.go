// Package config loads pipeflow settings from TOML or YAML.
//
// Config file locations (priority order):
//  1. $PIPEFLOW_CONFIG
//  2. ./pipeflow.toml
//  3. ./pipeflow.yaml
//  4. $XDG_CONFIG_HOME/pipeflow/config.toml (~/.config when unset)
//
// When no file is found the reference case is used: a 65/35 blend of a
// 1113 kg/m³ product with water, 72 L/min drawn at each of the four demand
// nodes, 1 in pipe, and a 13-point sweep from 1 to 4 in.
//
// Fields left at zero in a file take their default. Setting density and
// viscosity directly replaces the default blend.
package config

import (
	"github.com/matzehuels/pipeflow/pkg/cost"
	"github.com/matzehuels/pipeflow/pkg/errors"
	"github.com/matzehuels/pipeflow/pkg/hydraulics"
	"github.com/matzehuels/pipeflow/pkg/network"
	"github.com/matzehuels/pipeflow/pkg/optimize"
	"github.com/matzehuels/pipeflow/pkg/solver"
)

const litresPerCubicMetre = 1000

// Config is the complete input of a solve or sweep.
type Config struct {
	Fluid  FluidConfig   `json:"fluid" toml:"fluid" yaml:"fluid"`
	Piping PipingConfig  `json:"piping" toml:"piping" yaml:"piping"`
	Cost   cost.Params   `json:"cost" toml:"cost" yaml:"cost"`
	Solver solver.Newton `json:"solver" toml:"solver" yaml:"solver"`
	Sweep  SweepConfig   `json:"sweep" toml:"sweep" yaml:"sweep"`
}

// FluidConfig describes the pumped fluid either directly or as a blend.
type FluidConfig struct {
	Roughness  float64                `json:"roughness" toml:"roughness" yaml:"roughness"`                               // m
	Density    float64                `json:"density,omitempty" toml:"density,omitempty" yaml:"density,omitempty"`       // kg/m³
	Viscosity  float64                `json:"viscosity,omitempty" toml:"viscosity,omitempty" yaml:"viscosity,omitempty"` // Pa·s
	Components []hydraulics.Component `json:"components,omitempty" toml:"components,omitempty" yaml:"components,omitempty"`
}

// PipingConfig describes the network operating point.
type PipingConfig struct {
	DemandLPM float64   `json:"demand_lpm" toml:"demand_lpm" yaml:"demand_lpm"`                      // L/min per demand node
	Diameter  float64   `json:"diameter" toml:"diameter" yaml:"diameter"`                            // m, for single solves
	Lengths   []float64 `json:"lengths,omitempty" toml:"lengths,omitempty" yaml:"lengths,omitempty"` // m, one per section
	Tolerance float64   `json:"tolerance" toml:"tolerance" yaml:"tolerance"`                         // accepted residual
}

// SweepConfig describes the diameter grid of an optimization.
type SweepConfig struct {
	MinInches float64 `json:"min_inches" toml:"min_inches" yaml:"min_inches"`
	MaxInches float64 `json:"max_inches" toml:"max_inches" yaml:"max_inches"`
	Points    int     `json:"points" toml:"points" yaml:"points"`
	Workers   int     `json:"workers" toml:"workers" yaml:"workers"` // 0 = GOMAXPROCS
}

// DefaultComponents returns the reference blend.
func DefaultComponents() []hydraulics.Component {
	return []hydraulics.Component{
		{Name: "product", Fraction: 0.65, Density: 1113, Viscosity: 0.0161},
		{Name: "water", Fraction: 0.35, Density: 998, Viscosity: 0.0010},
	}
}

// Default returns the reference configuration.
func Default() *Config {
	return &Config{
		Fluid: FluidConfig{
			Roughness:  5e-5,
			Components: DefaultComponents(),
		},
		Piping: PipingConfig{
			DemandLPM: 72,
			Diameter:  0.0254,
			Lengths:   network.DefaultTopology().Lengths(),
			Tolerance: network.DefaultTolerance,
		},
		Cost:   cost.DefaultParams(),
		Solver: *solver.NewNewton(),
		Sweep: SweepConfig{
			MinInches: 1,
			MaxInches: 4,
			Points:    13,
		},
	}
}

// applyDefaults fills zero fields from Default.
func (c *Config) applyDefaults() {
	d := Default()

	if c.Fluid.Roughness == 0 {
		c.Fluid.Roughness = d.Fluid.Roughness
	}
	if len(c.Fluid.Components) == 0 && c.Fluid.Density == 0 && c.Fluid.Viscosity == 0 {
		c.Fluid.Components = d.Fluid.Components
	}

	if c.Piping.DemandLPM == 0 {
		c.Piping.DemandLPM = d.Piping.DemandLPM
	}
	if c.Piping.Diameter == 0 {
		c.Piping.Diameter = d.Piping.Diameter
	}
	if len(c.Piping.Lengths) == 0 {
		c.Piping.Lengths = d.Piping.Lengths
	}
	if c.Piping.Tolerance == 0 {
		c.Piping.Tolerance = d.Piping.Tolerance
	}

	defaultFloat(&c.Cost.PumpEfficiency, d.Cost.PumpEfficiency)
	defaultFloat(&c.Cost.MotorEfficiency, d.Cost.MotorEfficiency)
	defaultFloat(&c.Cost.EnergyPrice, d.Cost.EnergyPrice)
	defaultFloat(&c.Cost.OperatingHours, d.Cost.OperatingHours)
	defaultFloat(&c.Cost.PipeUnitCost, d.Cost.PipeUnitCost)
	defaultFloat(&c.Cost.InstallFactor, d.Cost.InstallFactor)
	defaultFloat(&c.Cost.SizeExponent, d.Cost.SizeExponent)
	defaultFloat(&c.Cost.AnnuityFactor, d.Cost.AnnuityFactor)

	defaultFloat(&c.Solver.Tol, d.Solver.Tol)
	defaultFloat(&c.Solver.MaxCondition, d.Solver.MaxCondition)
	defaultFloat(&c.Solver.MinDamping, d.Solver.MinDamping)
	if c.Solver.MaxIterations == 0 {
		c.Solver.MaxIterations = d.Solver.MaxIterations
	}

	defaultFloat(&c.Sweep.MinInches, d.Sweep.MinInches)
	defaultFloat(&c.Sweep.MaxInches, d.Sweep.MaxInches)
	if c.Sweep.Points == 0 {
		c.Sweep.Points = d.Sweep.Points
	}
}

func defaultFloat(v *float64, def float64) {
	if *v == 0 {
		*v = def
	}
}

// Validate checks every section of the config. Physical values are reported
// with errors.ErrCodeDomain, solver and sweep settings with
// errors.ErrCodeInvalidConfig.
func (c *Config) Validate() error {
	if _, err := c.ResolveFluid(); err != nil {
		return err
	}
	if err := errors.ValidatePositive("demand_lpm", c.Piping.DemandLPM); err != nil {
		return err
	}
	if err := errors.ValidatePositive("diameter", c.Piping.Diameter); err != nil {
		return err
	}
	if err := errors.ValidatePositive("tolerance", c.Piping.Tolerance); err != nil {
		return err
	}
	if _, err := c.Topology(); err != nil {
		return err
	}
	if err := c.Cost.Validate(); err != nil {
		return err
	}
	if err := c.Solver.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "solver")
	}
	if c.Sweep.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "sweep workers must not be negative, got %d", c.Sweep.Workers)
	}
	if _, err := c.Grid(); err != nil {
		return err
	}
	return nil
}

// ResolveFluid returns the fluid, blending components when they are given.
func (c *Config) ResolveFluid() (hydraulics.Fluid, error) {
	f := c.Fluid
	if len(f.Components) > 0 {
		if f.Density != 0 || f.Viscosity != 0 {
			return hydraulics.Fluid{}, errors.New(errors.ErrCodeInvalidConfig,
				"fluid: set either density and viscosity or components, not both")
		}
		return hydraulics.Blend(f.Roughness, f.Components...)
	}
	fluid := hydraulics.Fluid{Density: f.Density, Viscosity: f.Viscosity, Roughness: f.Roughness}
	if err := fluid.Validate(); err != nil {
		return hydraulics.Fluid{}, err
	}
	return fluid, nil
}

// Demand returns the per-node demand in m³/s.
func (c *Config) Demand() float64 {
	return c.Piping.DemandLPM / (60 * litresPerCubicMetre)
}

// Topology returns the reference topology with the configured lengths.
func (c *Config) Topology() (network.Topology, error) {
	topo := network.DefaultTopology()
	if len(c.Piping.Lengths) == 0 {
		return topo, nil
	}
	for _, l := range c.Piping.Lengths {
		if err := errors.ValidatePositive("section length", l); err != nil {
			return network.Topology{}, err
		}
	}
	return topo.WithLengths(c.Piping.Lengths)
}

// Network builds the immutable network the config describes.
func (c *Config) Network() (*network.Network, error) {
	fluid, err := c.ResolveFluid()
	if err != nil {
		return nil, err
	}
	topo, err := c.Topology()
	if err != nil {
		return nil, err
	}
	return network.New(topo, fluid, c.Demand(), network.WithTolerance(c.Piping.Tolerance))
}

// Grid returns the sweep diameters in metres.
func (c *Config) Grid() ([]float64, error) {
	if c.Sweep.Points < 1 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "sweep points must be positive, got %d", c.Sweep.Points)
	}
	return optimize.InchGrid(c.Sweep.MinInches, c.Sweep.MaxInches, c.Sweep.Points)
}

// Newton returns a solver with the configured settings.
func (c *Config) Newton() *solver.Newton {
	n := c.Solver
	return &n
}

// CostModel returns the configured cost model.
func (c *Config) CostModel() (*cost.Model, error) {
	return cost.NewModel(c.Cost)
}
