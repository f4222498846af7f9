package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pipeflow/pkg/errors"
	"github.com/matzehuels/pipeflow/pkg/pipeline"
	"github.com/matzehuels/pipeflow/pkg/render"
)

var errInvalidStdout = errors.New(errors.ErrCodeInvalidInput, "writing to stdout needs exactly one format")

// renderOpts holds the command-line flags for the render subcommands.
type renderOpts struct {
	output     string   // output file, base path for several formats, or "-" for stdout
	formats    []string // output formats: "svg" (default), "png", "pdf", "dot"
	diameterIn float64  // network only: diameter in inches; zero uses the config
	detailed   bool     // network only: label pressure drops and lengths
}

// renderCommand creates the render command with its network and chart
// subcommands.
func (c *CLI) renderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Draw the solved network or the cost curve",
		Long: `Render a diagram of the network with its solved flows, or a chart of the
cost curve from a diameter sweep. SVG is produced natively; PNG and PDF
need rsvg-convert on the PATH.`,
	}

	cmd.AddCommand(c.renderNetworkCommand())
	cmd.AddCommand(c.renderChartCommand())
	return cmd
}

func (c *CLI) renderNetworkCommand() *cobra.Command {
	opts := renderOpts{}
	var formatsStr string

	cmd := &cobra.Command{
		Use:   "network",
		Short: "Draw the network with solved flows",
		Example: `  pipeflow render network -o network.svg
  pipeflow render network --detailed -f svg,png -o plant`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			return c.runRender(cmd, pipeline.KindNetwork, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format), base path (several), or - for stdout")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, dot (comma-separated)")
	cmd.Flags().Float64VarP(&opts.diameterIn, "diameter", "d", 0, "pipe diameter in inches (default from config)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label pressure drops and section lengths")
	return cmd
}

func (c *CLI) renderChartCommand() *cobra.Command {
	opts := renderOpts{}
	var formatsStr string

	cmd := &cobra.Command{
		Use:     "chart",
		Short:   "Chart the cost curve of a diameter sweep",
		Example: `  pipeflow render chart -o curve.svg`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			return c.runRender(cmd, pipeline.KindChart, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format), base path (several), or - for stdout")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf (comma-separated)")
	return cmd
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, defaults to ["svg"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{render.FormatSVG}
	}
	var formats []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			formats = append(formats, f)
		}
	}
	return formats
}

// basePath strips a known format extension from output, or falls back to
// kind when output is empty.
func basePath(output, kind string) string {
	if output == "" {
		return kind
	}
	ext := filepath.Ext(output)
	for _, formats := range pipeline.ValidFormats {
		if formats[strings.TrimPrefix(ext, ".")] {
			return strings.TrimSuffix(output, ext)
		}
	}
	return output
}

// outputPath picks the file for one format. A single format keeps an
// explicit output name as given.
func outputPath(output, kind, format string, single bool) string {
	if single && output != "" {
		return output
	}
	return basePath(output, kind) + "." + format
}

func (c *CLI) runRender(cmd *cobra.Command, kind string, opts renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	for _, f := range opts.formats {
		if err := pipeline.ValidateFormat(kind, f); err != nil {
			return err
		}
	}
	if opts.output == "-" && len(opts.formats) != 1 {
		return errInvalidStdout
	}

	cfg, err := c.loadConfig(logger)
	if err != nil {
		return err
	}
	runner := c.newRunner(logger)
	defer runner.Close()

	draw, err := c.prepareRender(ctx, runner, kind, pipeline.Options{Config: cfg, Diameter: opts.diameterIn * metresPerInch}, opts.detailed)
	if err != nil {
		return err
	}

	single := len(opts.formats) == 1
	for _, format := range opts.formats {
		data, err := draw(format)
		if err != nil {
			return err
		}
		logger.Debugf("Generated %s: %d bytes", format, len(data))

		if opts.output == "-" {
			_, err := cmd.OutOrStdout().Write(data)
			return err
		}
		path := outputPath(opts.output, kind, format, single)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return err
		}
		printFile(cmd.OutOrStdout(), path)
	}
	return nil
}

// prepareRender runs the solve or sweep once and returns a func that draws
// the result in a given format.
func (c *CLI) prepareRender(ctx context.Context, runner *pipeline.Runner, kind string, opts pipeline.Options, detailed bool) (func(string) ([]byte, error), error) {
	if kind == pipeline.KindChart {
		res, err := runner.Optimize(ctx, opts)
		if err != nil {
			return nil, err
		}
		return func(format string) ([]byte, error) {
			return runner.RenderChart(ctx, res, format)
		}, nil
	}
	res, err := runner.Solve(ctx, opts)
	if err != nil {
		return nil, err
	}
	return func(format string) ([]byte, error) {
		return runner.RenderNetwork(ctx, res, detailed, format)
	}, nil
}
