package hydraulics

import "math"

// LaminarFloor is the Reynolds number below which the laminar limit of the
// Churchill correlation is used instead of the full expression.
const LaminarFloor = 1e-6

// Velocity returns the signed mean velocity (m/s) of flow (m³/s) in a pipe of
// diameter d (m).
func Velocity(flow, d float64) float64 {
	return 4 * flow / (math.Pi * d * d)
}

// Reynolds returns the (non-negative) Reynolds number of flow in a pipe of
// diameter d.
func Reynolds(flow, d float64, fluid Fluid) float64 {
	return 4 * math.Abs(flow) * fluid.Density / (math.Pi * fluid.Viscosity * d)
}

// FrictionFactor returns the Churchill Fanning friction factor for Reynolds
// number re and relative roughness eps/d.
//
// re must be positive. Below LaminarFloor the laminar limit 16/re is returned.
func FrictionFactor(re, relRoughness float64) float64 {
	if re < LaminarFloor {
		return 16 / re
	}
	a := math.Pow(2.457*math.Log(1/(math.Pow(7/re, 0.9)+0.27*relRoughness)), 16)
	b := math.Pow(37530/re, 16)
	return 2 * math.Pow(math.Pow(8/re, 12)+1/math.Pow(a+b, 1.5), 1.0/12)
}

// PressureDrop returns the frictional pressure loss (Pa) of flow (m³/s)
// through a section of the given length and diameter (m).
// The result has the sign of flow; zero flow yields exactly zero.
func PressureDrop(flow, length, d float64, fluid Fluid) float64 {
	if flow == 0 {
		return 0
	}
	v := Velocity(flow, d)
	re := Reynolds(flow, d, fluid)
	if re < LaminarFloor {
		// Hagen–Poiseuille, the exact limit of 2·(16/Re)·ρ·v²·L/d.
		return 32 * fluid.Viscosity * v * length / (d * d)
	}
	f := FrictionFactor(re, fluid.Roughness/d)
	return 2 * f * fluid.Density * v * math.Abs(v) * length / d
}

// HydraulicPower returns the power (W) dissipated by flow through a section
// with pressure drop dp. It is non-negative when dp follows the sign of flow.
func HydraulicPower(flow, dp float64) float64 {
	return flow * dp
}
