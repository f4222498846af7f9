// Package chart renders a cost curve as an SVG line chart.
//
// Three series are drawn against pipe diameter in inches: annual operating
// cost, annualized capital cost and their sum. The cheapest point of the
// total curve is marked.
//
//	svg := chart.RenderSVG(res.Curve, chart.WithBest(res.Best))
package chart
