// Package optimize sweeps a grid of pipe diameters and picks the one with
// the lowest total annualized cost.
//
// Each diameter is an independent network solve. The sweep fans them out
// over a bounded pool of goroutines and restores grid order afterwards, so
// the resulting curve is identical for any worker count.
//
// A diameter whose solve fails to converge is recorded in Result.Skipped and
// does not abort the sweep. Only when every diameter fails does Optimize
// return an error (errors.ErrCodeNoConvergedDiameter).
//
// # Usage
//
//	grid, _ := optimize.InchGrid(1, 4, 13)
//	res, err := (&optimize.Optimizer{Network: net}).Optimize(ctx, grid)
//	fmt.Printf("optimum at %.4f m\n", res.Best.Diameter)
package optimize
