package hydraulics

import (
	"math"

	"github.com/matzehuels/pipeflow/pkg/errors"
)

// Fluid holds the constant properties used by the friction model.
type Fluid struct {
	Density   float64 `json:"density" toml:"density" yaml:"density"`       // kg/m³
	Viscosity float64 `json:"viscosity" toml:"viscosity" yaml:"viscosity"` // Pa·s
	Roughness float64 `json:"roughness" toml:"roughness" yaml:"roughness"` // absolute pipe roughness, m
}

// Validate rejects non-physical properties with an errors.ErrCodeDomain error.
func (f Fluid) Validate() error {
	if err := errors.ValidatePositive("density", f.Density); err != nil {
		return err
	}
	if err := errors.ValidatePositive("viscosity", f.Viscosity); err != nil {
		return err
	}
	return errors.ValidateNonNegative("roughness", f.Roughness)
}

// Component is one constituent of a blended fluid.
type Component struct {
	Name      string  `json:"name,omitempty" toml:"name" yaml:"name,omitempty"`
	Fraction  float64 `json:"fraction" toml:"fraction" yaml:"fraction"` // volume fraction
	Density   float64 `json:"density" toml:"density" yaml:"density"`
	Viscosity float64 `json:"viscosity" toml:"viscosity" yaml:"viscosity"`
}

// fractionTolerance is how far the component fractions may sum away from 1.
const fractionTolerance = 1e-9

// Blend returns the volume-weighted mixture of components on a pipe with the
// given roughness. Fractions must be positive and sum to 1.
func Blend(roughness float64, components ...Component) (Fluid, error) {
	if len(components) == 0 {
		return Fluid{}, errors.New(errors.ErrCodeDomain, "blend needs at least one component")
	}

	var sum float64
	var fluid Fluid
	for _, c := range components {
		if err := errors.ValidateFraction("component fraction", c.Fraction); err != nil {
			return Fluid{}, err
		}
		sum += c.Fraction
		fluid.Density += c.Fraction * c.Density
		fluid.Viscosity += c.Fraction * c.Viscosity
	}
	if math.Abs(sum-1) > fractionTolerance {
		return Fluid{}, errors.New(errors.ErrCodeDomain, "component fractions sum to %g, want 1", sum)
	}

	fluid.Roughness = roughness
	if err := fluid.Validate(); err != nil {
		return Fluid{}, err
	}
	return fluid, nil
}
