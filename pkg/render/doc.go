// Package render turns solved networks and cost curves into pictures.
//
// # Overview
//
// The subpackages produce SVG:
//
//   - [nodelink]: the pipe network as a Graphviz diagram, edges annotated
//     with the solved flows
//   - [chart]: operating, capital and total cost against diameter
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	svg, err := nodelink.RenderSVG(nodelink.ToDOT(net, sol, nodelink.Options{}))
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// [nodelink]: github.com/matzehuels/pipeflow/pkg/render/nodelink
// [chart]: github.com/matzehuels/pipeflow/pkg/render/chart
package render
