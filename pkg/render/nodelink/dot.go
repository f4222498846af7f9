package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/pipeflow/pkg/network"
	"github.com/matzehuels/pipeflow/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds section length and pressure drop to edge labels.
	// When false, only the label and flow are shown.
	Detailed bool
}

// ToDOT converts a network, and optionally its solution, to Graphviz DOT.
// The resulting DOT string can be rendered using [RenderSVG].
func ToDOT(net *network.Network, sol *network.Solution, opts Options) string {
	topo := net.Topology()

	demand := make(map[string]bool)
	for _, j := range topo.Junctions {
		if j.DemandFactor != 0 {
			demand[j.Node] = true
		}
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=18];\n")
	buf.WriteString("  edge [fontsize=12];\n")
	buf.WriteString("\n")

	for _, node := range nodes(topo) {
		attrs := []string{fmt.Sprintf("label=%q", node)}
		if demand[node] {
			attrs = append(attrs, "shape=doublecircle", "fillcolor=lightblue")
		}
		if isSource(topo, node) {
			attrs = append(attrs, "shape=box", "fillcolor=lightgrey", fmt.Sprintf("xlabel=%q", "pump"))
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", node, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, s := range topo.Sections {
		from, to := s.From, s.To
		label := s.Label
		if sol != nil {
			q := sol.Flows[s.Index]
			if q < 0 {
				from, to = to, from
			}
			label += fmt.Sprintf("\n%.3g m³/s", abs(q))
			if opts.Detailed {
				label += fmt.Sprintf("\n%.3g Pa", abs(sol.PressureDrops[s.Index]))
			}
		}
		if sol == nil || opts.Detailed {
			label += fmt.Sprintf("\n%g m", s.Length)
		}
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", from, to, label)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// nodes returns every node in first-seen order.
func nodes(topo network.Topology) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(n string) {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	for _, s := range topo.Sections {
		add(s.From)
		add(s.To)
	}
	return out
}

// isSource reports whether node has no junction balance, i.e. it is where
// the pump feeds the network.
func isSource(topo network.Topology, node string) bool {
	for _, j := range topo.Junctions {
		if j.Node == node {
			return false
		}
	}
	return true
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with
// [render.Convert].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

// Render returns the diagram in format: "dot", "svg", "png" or "pdf".
func Render(ctx context.Context, net *network.Network, sol *network.Solution, opts Options, format string) ([]byte, error) {
	dot := ToDOT(net, sol, opts)
	if format == render.FormatDOT {
		return []byte(dot), nil
	}
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.Convert(svg, format)
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
