package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pipeflow/pkg/errors"
	"github.com/matzehuels/pipeflow/pkg/pipeline"
)

// solveOpts holds the command-line flags for the solve command.
type solveOpts struct {
	diameterIn float64 // pipe diameter in inches; zero uses the config
	jsonOut    bool    // print the result as JSON
}

// solveCommand creates the solve command.
func (c *CLI) solveCommand() *cobra.Command {
	opts := solveOpts{}

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Compute the flow distribution at one pipe diameter",
		Long: `Solve the looped network for the section flows that satisfy mass
conservation at every junction and zero head loss around every loop, then
report pumping power and annualized costs at that diameter.`,
		Example: `  pipeflow solve
  pipeflow solve --diameter 2
  pipeflow solve --config plant.toml --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSolve(cmd, opts)
		},
	}

	cmd.Flags().Float64VarP(&opts.diameterIn, "diameter", "d", 0, "pipe diameter in inches (default from config)")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "print the result as JSON")

	return cmd
}

func (c *CLI) runSolve(cmd *cobra.Command, opts solveOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	out := cmd.OutOrStdout()

	cfg, err := c.loadConfig(logger)
	if err != nil {
		return err
	}
	if opts.diameterIn < 0 {
		return errors.New(errors.ErrCodeDomain, "diameter must be positive, got %g in", opts.diameterIn)
	}

	runner := c.newRunner(logger)
	defer runner.Close()

	spinner := newSpinner(ctx, cmd.ErrOrStderr(), "Solving network...")
	spinner.Start()
	prog := newProgress(logger)
	res, err := runner.Solve(ctx, pipeline.Options{Config: cfg, Diameter: opts.diameterIn * metresPerInch})
	spinner.Stop()
	if spinner.Cancelled() {
		printWarning(cmd.ErrOrStderr(), "Solve interrupted")
		return ctx.Err()
	}
	if err != nil {
		return err
	}
	prog.done("Solved network", "diameter", res.Cost.Diameter, "iterations", res.Solution.Iterations, "cached", res.CacheHit)

	if opts.jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	printSuccess(out, "Solved network at %s", StyleNumber.Render(fmt.Sprintf("%.4g m (%.2f in)", res.Cost.Diameter, res.Cost.Inches())))
	printStats(out, res.Solution.Iterations, res.Solution.Residual, res.CacheHit)
	fmt.Fprintln(out, solutionTable(res.Solution))
	printKeyValue(out, "Power", fmt.Sprintf("%.2f W", res.Power))
	printKeyValue(out, "AOC", fmt.Sprintf("$%.2f/yr", res.Cost.Operating))
	printKeyValue(out, "ACC", fmt.Sprintf("$%.2f/yr", res.Cost.Capital))
	printKeyValue(out, "TAC", fmt.Sprintf("$%.2f/yr", res.Cost.Total))
	return nil
}
