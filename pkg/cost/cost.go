// Package cost prices a solved network: annualized capital cost of the pipe
// plus the yearly cost of the pumping energy it dissipates.
package cost

import (
	"math"

	"github.com/matzehuels/pipeflow/pkg/errors"
	"github.com/matzehuels/pipeflow/pkg/network"
)

const (
	metresPerInch = 0.0254
	metresPerFoot = 0.3048
)

// Params are the economic constants of the cost model.
type Params struct {
	PumpEfficiency  float64 `json:"pump_efficiency" toml:"pump_efficiency" yaml:"pump_efficiency"`
	MotorEfficiency float64 `json:"motor_efficiency" toml:"motor_efficiency" yaml:"motor_efficiency"`
	EnergyPrice     float64 `json:"energy_price" toml:"energy_price" yaml:"energy_price"`          // $/kWh
	OperatingHours  float64 `json:"operating_hours" toml:"operating_hours" yaml:"operating_hours"` // h/year

	PipeUnitCost  float64 `json:"pipe_unit_cost" toml:"pipe_unit_cost" yaml:"pipe_unit_cost"` // $/ft for a 1 in pipe
	InstallFactor float64 `json:"install_factor" toml:"install_factor" yaml:"install_factor"` // installed / purchased cost
	SizeExponent  float64 `json:"size_exponent" toml:"size_exponent" yaml:"size_exponent"`    // cost ∝ d^n, d in inches
	AnnuityFactor float64 `json:"annuity_factor" toml:"annuity_factor" yaml:"annuity_factor"` // 1/year
}

// DefaultParams returns the reference economics: 65 % pump and 80 % motor
// efficiency, $0.105/kWh for 8400 h/year, and $5.92/ft pipe scaled by
// d^1.25, doubled for installation, annualized at 0.24/year.
func DefaultParams() Params {
	return Params{
		PumpEfficiency:  0.65,
		MotorEfficiency: 0.80,
		EnergyPrice:     0.105,
		OperatingHours:  8400,
		PipeUnitCost:    5.92,
		InstallFactor:   2,
		SizeExponent:    1.25,
		AnnuityFactor:   0.24,
	}
}

// Validate rejects non-physical economics with errors.ErrCodeDomain.
func (p Params) Validate() error {
	if err := errors.ValidateFraction("pump efficiency", p.PumpEfficiency); err != nil {
		return err
	}
	if err := errors.ValidateFraction("motor efficiency", p.MotorEfficiency); err != nil {
		return err
	}
	for _, v := range []struct {
		name string
		val  float64
	}{
		{"energy price", p.EnergyPrice},
		{"operating hours", p.OperatingHours},
		{"pipe unit cost", p.PipeUnitCost},
		{"install factor", p.InstallFactor},
		{"size exponent", p.SizeExponent},
		{"annuity factor", p.AnnuityFactor},
	} {
		if err := errors.ValidatePositive(v.name, v.val); err != nil {
			return err
		}
	}
	return nil
}

// Point is the annualized cost of one diameter.
type Point struct {
	Diameter  float64 `json:"diameter"`  // m
	Operating float64 `json:"operating"` // $/year
	Capital   float64 `json:"capital"`   // $/year
	Total     float64 `json:"total"`     // $/year
}

// Inches returns the point's diameter in inches.
func (p Point) Inches() float64 { return p.Diameter / metresPerInch }

// Model evaluates cost points.
type Model struct {
	Params Params
}

// NewModel returns a Model after validating params.
func NewModel(params Params) (*Model, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Model{Params: params}, nil
}

// Operating returns the yearly energy cost ($/year) of dissipating power
// watts of hydraulic power.
func (m *Model) Operating(power float64) float64 {
	p := m.Params
	kw := power / 1000
	return kw / (p.PumpEfficiency * p.MotorEfficiency) * p.OperatingHours * p.EnergyPrice
}

// Capital returns the annualized pipe cost ($/year) of totalLength metres of
// pipe of the given diameter.
func (m *Model) Capital(diameter, totalLength float64) float64 {
	p := m.Params
	perMetre := p.PipeUnitCost / metresPerFoot
	return p.InstallFactor * perMetre * math.Pow(diameter/metresPerInch, p.SizeExponent) * p.AnnuityFactor * totalLength
}

// Evaluate prices sol, a network solution, over totalLength metres of pipe.
// The operating cost uses the pressure drops stored in sol, so it always
// matches the flow vector the solver produced.
func (m *Model) Evaluate(sol *network.Solution, totalLength float64) Point {
	op := m.Operating(sol.HydraulicPower())
	capex := m.Capital(sol.Diameter, totalLength)
	return Point{
		Diameter:  sol.Diameter,
		Operating: op,
		Capital:   capex,
		Total:     op + capex,
	}
}
