// Package hydraulics implements the single-phase friction model used by the
// network solver.
//
// Pressure loss in a straight pipe section is computed with the Churchill
// (1977) friction-factor correlation, one closed-form expression that covers
// laminar, transitional and fully turbulent flow without switching on the
// flow regime:
//
//	A = (2.457·ln(1/((7/Re)^0.9 + 0.27·ε/d)))^16
//	B = (37530/Re)^16
//	f = 2·((8/Re)^12 + 1/(A+B)^1.5)^(1/12)
//	ΔP = 2·f·ρ·v·|v|·L/d
//
// f is the Fanning friction factor. ΔP carries the sign of the flow so loop
// equations can sum signed losses directly.
//
// Zero flow returns exactly zero, and Reynolds numbers below [LaminarFloor]
// use the laminar limit of the correlation (f = 16/Re) so the high powers of
// 1/Re never overflow into NaN.
//
// # Fluids
//
// [Fluid] holds density, viscosity and pipe roughness. [Blend] derives the
// properties of a mixture from volume fractions:
//
//	fluid, err := hydraulics.Blend(5e-5,
//	    hydraulics.Component{Fraction: 0.65, Density: 1113, Viscosity: 0.0161},
//	    hydraulics.Component{Fraction: 0.35, Density: 998, Viscosity: 0.0010},
//	)
package hydraulics
