// Package nodelink renders pipe networks as node-link diagrams.
//
// # Overview
//
// Junctions become nodes and pipe sections become edges. When a solution is
// supplied each edge is labelled with its flow and points in the direction
// the fluid actually moves, so a section solved with negative flow is drawn
// reversed. Demand nodes are drawn as double circles.
//
// # Usage
//
//	dot := nodelink.ToDOT(net, sol, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// A nil solution draws the bare topology with section lengths.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion goes through [render.ToPDF] and
// [render.ToPNG].
package nodelink
