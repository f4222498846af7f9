package cli

import (
	"encoding/json"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pipeflow/pkg/pipeline"
)

// metresPerInch converts the CLI's inch flags to SI.
const metresPerInch = 0.0254

// optimizeOpts holds the command-line flags for the optimize command.
type optimizeOpts struct {
	minIn       float64 // smallest diameter in inches
	maxIn       float64 // largest diameter in inches
	points      int     // number of grid points
	workers     int     // concurrent solves
	jsonOut     bool    // print the result as JSON
	interactive bool    // browse the curve in a TUI
	noProgress  bool    // hide the progress bar
}

// optimizeCommand creates the optimize command.
func (c *CLI) optimizeCommand() *cobra.Command {
	opts := optimizeOpts{}

	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Find the pipe diameter with the lowest total annualized cost",
		Long: `Sweep an evenly spaced grid of pipe diameters, solve the network at each,
and report the annual operating, capital and total cost curve together with
its minimum. Diameters that fail to converge are listed and left out.`,
		Example: `  pipeflow optimize
  pipeflow optimize --min 1 --max 6 --points 21
  pipeflow optimize --interactive`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runOptimize(cmd, opts)
		},
	}

	cmd.Flags().Float64Var(&opts.minIn, "min", 0, "smallest diameter in inches (default from config)")
	cmd.Flags().Float64Var(&opts.maxIn, "max", 0, "largest diameter in inches (default from config)")
	cmd.Flags().IntVarP(&opts.points, "points", "n", 0, "number of grid points (default from config)")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "concurrent solves (default GOMAXPROCS)")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "print the result as JSON")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "browse the cost curve interactively")
	cmd.Flags().BoolVar(&opts.noProgress, "no-progress", false, "hide the progress bar")

	return cmd
}

func (c *CLI) runOptimize(cmd *cobra.Command, opts optimizeOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	out := cmd.OutOrStdout()

	cfg, err := c.loadConfig(logger)
	if err != nil {
		return err
	}
	if opts.minIn != 0 {
		cfg.Sweep.MinInches = opts.minIn
	}
	if opts.maxIn != 0 {
		cfg.Sweep.MaxInches = opts.maxIn
	}
	if opts.points != 0 {
		cfg.Sweep.Points = opts.points
	}
	grid, err := cfg.Grid()
	if err != nil {
		return err
	}

	runner := c.newRunner(logger)
	defer runner.Close()

	var bar *sweepBar
	if !opts.noProgress && !opts.jsonOut {
		bar = newSweepBar(cmd.ErrOrStderr(), len(grid))
		defer bar.install()()
	}

	prog := newProgress(logger)
	res, err := runner.Optimize(ctx, pipeline.Options{Config: cfg, Grid: grid, Workers: opts.workers})
	if bar != nil {
		// Sweep hooks do not fire on a cache hit.
		bar.finish()
	}
	if err != nil {
		return err
	}
	prog.done("Swept diameters", "points", len(grid), "converged", len(res.Curve), "cached", res.CacheHit)

	if opts.jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	if opts.interactive {
		return c.browseCurve(cmd, res)
	}

	fmt.Fprintln(out, curveTable(res.Result))
	for _, s := range res.Skipped {
		printWarning(out, "%.2f in skipped: %s", s.Diameter/metresPerInch, s.Reason)
	}
	printSuccess(out, "%s", res.Summary())
	printNextStep(out, "Chart the curve", "pipeflow render chart -o curve.svg")
	return nil
}

// browseCurve runs the curve browser and prints the chosen point.
func (c *CLI) browseCurve(cmd *cobra.Command, res *pipeline.OptimizeResult) error {
	out := cmd.OutOrStdout()
	final, err := tea.NewProgram(NewCurveBrowserModel(res.Result), tea.WithContext(cmd.Context())).Run()
	if err != nil {
		return err
	}
	m, ok := final.(CurveBrowserModel)
	if !ok || m.Selected == nil {
		printInfo(out, "No diameter selected")
		return nil
	}
	p := m.Selected
	printSuccess(out, "Selected %s", StyleNumber.Render(fmt.Sprintf("%.2f in (%.5f m)", p.Inches(), p.Diameter)))
	printKeyValue(out, "TAC", fmt.Sprintf("$%.2f/yr", p.Total))
	if p.Diameter != res.Best.Diameter {
		printDetail(out, "$%.2f/yr above the optimum", p.Total-res.Best.Total)
	}
	printNextStep(out, "Solve at this diameter", fmt.Sprintf("pipeflow solve --diameter %.4g", p.Inches()))
	return nil
}
