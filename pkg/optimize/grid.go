package optimize

import (
	"gonum.org/v1/gonum/floats"

	"github.com/matzehuels/pipeflow/pkg/errors"
)

const metresPerInch = 0.0254

// Linspace returns n evenly spaced values from lo to hi inclusive.
// n == 1 yields just lo.
func Linspace(lo, hi float64, n int) ([]float64, error) {
	if n < 1 {
		return nil, errors.New(errors.ErrCodeDomain, "grid needs at least one point, got %d", n)
	}
	if n == 1 {
		return []float64{lo}, nil
	}
	return floats.Span(make([]float64, n), lo, hi), nil
}

// InchGrid returns n diameters in metres, evenly spaced from lo to hi inches.
// The result is validated as a sweep grid.
func InchGrid(lo, hi float64, n int) ([]float64, error) {
	grid, err := Linspace(lo, hi, n)
	if err != nil {
		return nil, err
	}
	floats.Scale(metresPerInch, grid)
	if err := errors.ValidateAscending("diameter grid", grid); err != nil {
		return nil, err
	}
	return grid, nil
}

// DefaultGrid returns the reference sweep: 13 diameters from 1 to 4 inches
// in quarter-inch steps.
func DefaultGrid() []float64 {
	grid, _ := InchGrid(1, 4, 13)
	return grid
}
