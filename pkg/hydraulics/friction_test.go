package hydraulics

import (
	"math"
	"testing"
)

var testFluid = Fluid{Density: 1072.75, Viscosity: 0.010815, Roughness: 5e-5}

const testDiameter = 0.0254

func TestPressureDropZeroFlow(t *testing.T) {
	dp := PressureDrop(0, 460, testDiameter, testFluid)
	if dp != 0 {
		t.Errorf("PressureDrop(0) = %v, want 0", dp)
	}
}

func TestPressureDropFinite(t *testing.T) {
	for _, q := range []float64{1e-30, 1e-20, 1e-12, 1e-6, 1e-3, 1} {
		dp := PressureDrop(q, 460, testDiameter, testFluid)
		if math.IsNaN(dp) || math.IsInf(dp, 0) {
			t.Errorf("PressureDrop(%g) = %v, want finite", q, dp)
		}
		if dp <= 0 {
			t.Errorf("PressureDrop(%g) = %v, want positive", q, dp)
		}
	}
}

func TestPressureDropSign(t *testing.T) {
	for _, q := range []float64{1e-9, 1e-4, 2.4e-3, 0.05} {
		pos := PressureDrop(q, 380, testDiameter, testFluid)
		neg := PressureDrop(-q, 380, testDiameter, testFluid)
		if pos != -neg {
			t.Errorf("PressureDrop(%g) = %v, PressureDrop(-%g) = %v, want antisymmetric", q, pos, q, neg)
		}
	}
}

func TestPressureDropMonotonic(t *testing.T) {
	// Log-spaced flows from creeping flow through transition to turbulence.
	prev := 0.0
	for e := -12.0; e <= -1; e += 0.05 {
		q := math.Pow(10, e)
		dp := PressureDrop(q, 460, testDiameter, testFluid)
		if dp <= prev {
			t.Fatalf("PressureDrop not increasing at q=%g: %v <= %v", q, dp, prev)
		}
		prev = dp
	}
}

func TestPressureDropLaminarLimit(t *testing.T) {
	q := 1e-9
	length := 230.0
	v := Velocity(q, testDiameter)
	want := 32 * testFluid.Viscosity * v * length / (testDiameter * testDiameter)
	got := PressureDrop(q, length, testDiameter, testFluid)
	if math.Abs(got-want)/want > 1e-9 {
		t.Errorf("PressureDrop(%g) = %v, want Hagen-Poiseuille %v", q, got, want)
	}
}

func TestPressureDropContinuousAtFloor(t *testing.T) {
	// Flow giving Re exactly at the floor.
	q := LaminarFloor * math.Pi * testFluid.Viscosity * testDiameter / (4 * testFluid.Density)
	below := PressureDrop(q*(1-1e-9), 100, testDiameter, testFluid)
	above := PressureDrop(q*(1+1e-9), 100, testDiameter, testFluid)
	if math.Abs(above-below)/above > 1e-6 {
		t.Errorf("discontinuity at laminar floor: below=%v above=%v", below, above)
	}
}

func TestReynolds(t *testing.T) {
	re := Reynolds(0.0048, testDiameter, testFluid)
	if math.Abs(re-23866.55) > 0.01 {
		t.Errorf("Reynolds() = %v, want ~23866.55", re)
	}
	if Reynolds(-0.0048, testDiameter, testFluid) != re {
		t.Error("Reynolds() should not depend on flow direction")
	}
}

func TestFrictionFactor(t *testing.T) {
	tests := []struct {
		name string
		re   float64
		rel  float64
		want float64
		tol  float64
	}{
		{"laminar", 100, 0, 0.16, 1e-6},
		{"below floor", 1e-8, 0, 16e8, 1},
		{"turbulent rough", 23866.55, 5e-5 / testDiameter, 0.0073119, 1e-6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FrictionFactor(tt.re, tt.rel)
			if math.Abs(got-tt.want) > tt.tol {
				t.Errorf("FrictionFactor(%v, %v) = %v, want %v", tt.re, tt.rel, got, tt.want)
			}
		})
	}
}

func TestHydraulicPowerNonNegative(t *testing.T) {
	for _, q := range []float64{-0.01, -1e-5, 0, 1e-5, 0.01} {
		dp := PressureDrop(q, 460, testDiameter, testFluid)
		if p := HydraulicPower(q, dp); p < 0 {
			t.Errorf("HydraulicPower(%g) = %v, want >= 0", q, p)
		}
	}
}
