package cli

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pipeflow/pkg/config"
	"github.com/matzehuels/pipeflow/pkg/errors"
)

// isolate keeps config discovery away from the developer's files.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(config.EnvConfig, "")
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Chdir(dir)
	return dir
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return executeContext(t, context.Background(), args...)
}

// executeContext is execute with a caller-supplied context.
func executeContext(t *testing.T, ctx context.Context, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	for _, name := range []string{"solve", "optimize", "render", "serve", "config", "completion"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestSolveJSON(t *testing.T) {
	isolate(t)
	out, _, err := execute(t, "solve", "--json")
	if err != nil {
		t.Fatalf("solve: %v", err)
	}

	var res struct {
		Cost struct {
			Total float64 `json:"total"`
		} `json:"cost"`
		Solution struct {
			Flows []float64 `json:"flows"`
		} `json:"solution"`
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(res.Solution.Flows) != 10 {
		t.Errorf("got %d flows, want 10", len(res.Solution.Flows))
	}
	if math.Abs(res.Cost.Total-237867.755091)/237867.755091 > 1e-6 {
		t.Errorf("TAC = %v, want 237867.755091", res.Cost.Total)
	}
}

func TestSolveTable(t *testing.T) {
	isolate(t)
	out, _, err := execute(t, "solve")
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	for _, want := range []string{"Pipe 01", "Pipe 67", "ΔP (Pa)", "$237867.76/yr", "fresh"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSolveRejectsNegativeDiameter(t *testing.T) {
	isolate(t)
	_, _, err := execute(t, "solve", "--diameter", "-1")
	if !errors.Is(err, errors.ErrCodeDomain) {
		t.Errorf("err = %v, want %s", err, errors.ErrCodeDomain)
	}
}

func TestSolveInterrupted(t *testing.T) {
	isolate(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, errOut, err := executeContext(t, ctx, "solve")
	if !stderrors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if out != "" {
		t.Errorf("interrupted solve printed a result: %q", out)
	}
	if !strings.Contains(errOut, "Solve interrupted") {
		t.Errorf("stderr = %q, want interruption notice", errOut)
	}
}

func TestSolveUsesConfigFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "plant.yaml")
	if err := os.WriteFile(path, []byte("piping:\n  diameter: 0.1016\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, _, err := execute(t, "--config", path, "solve", "--json")
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if !strings.Contains(out, `"diameter": 0.1016`) {
		t.Errorf("solve ignored config diameter:\n%s", out)
	}
}

func TestMissingConfigFile(t *testing.T) {
	isolate(t)
	_, _, err := execute(t, "--config", "nope.toml", "solve")
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("err = %v, want %s", err, errors.ErrCodeNotFound)
	}
}

func TestOptimize(t *testing.T) {
	isolate(t)
	out, stderr, err := execute(t, "optimize", "--workers", "2")
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	if !strings.Contains(out, "Minimum TAC is $91340.67/year. Optimum diameter is 0.04445 metres") {
		t.Errorf("output missing summary:\n%s", out)
	}
	if !strings.Contains(out, "1.75") || !strings.Contains(out, iconBest) {
		t.Errorf("curve table missing optimum:\n%s", out)
	}
	if !strings.Contains(stderr, "sweep") {
		t.Errorf("progress bar not drawn on stderr: %q", stderr)
	}
}

func TestOptimizeJSONWithGridFlags(t *testing.T) {
	isolate(t)
	out, stderr, err := execute(t, "optimize", "--json", "--min", "1.5", "--max", "2", "--points", "3")
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	if stderr != "" {
		t.Errorf("--json should not draw progress, got %q", stderr)
	}

	var res struct {
		Best struct {
			Diameter float64 `json:"diameter"`
		} `json:"best"`
		Curve []json.RawMessage `json:"curve"`
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(res.Curve) != 3 {
		t.Errorf("got %d points, want 3", len(res.Curve))
	}
	if math.Abs(res.Best.Diameter-0.04445) > 1e-12 {
		t.Errorf("best diameter = %v, want 0.04445", res.Best.Diameter)
	}
}

func TestOptimizeBadGrid(t *testing.T) {
	isolate(t)
	_, _, err := execute(t, "optimize", "--min", "4", "--max", "1", "--no-progress")
	if err == nil {
		t.Fatal("descending grid accepted")
	}
}

func TestRenderChartFile(t *testing.T) {
	dir := isolate(t)
	out, _, err := execute(t, "render", "chart", "-o", "curve.svg")
	if err != nil {
		t.Fatalf("render chart: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "curve.svg"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte("<svg")) {
		t.Error("chart is not SVG")
	}
	if !strings.Contains(out, "curve.svg") {
		t.Errorf("output does not name the file: %q", out)
	}
}

func TestRenderNetworkStdout(t *testing.T) {
	isolate(t)
	out, _, err := execute(t, "render", "network", "-f", "dot", "-o", "-", "--detailed")
	if err != nil {
		t.Fatalf("render network: %v", err)
	}
	if !strings.HasPrefix(out, "digraph") || !strings.Contains(out, " Pa") {
		t.Errorf("unexpected DOT:\n%s", out)
	}
}

func TestRenderErrors(t *testing.T) {
	isolate(t)
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"chart dot", []string{"render", "chart", "-f", "dot"}, errors.ErrCodeInvalidFormat},
		{"unknown format", []string{"render", "network", "-f", "gif"}, errors.ErrCodeInvalidFormat},
		{"stdout with two formats", []string{"render", "network", "-f", "svg,dot", "-o", "-"}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestConfigCommand(t *testing.T) {
	isolate(t)
	tests := []struct {
		format string
		want   string
	}{
		{"toml", "[piping]"},
		{"yaml", "piping:"},
		{"json", `"piping"`},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			out, _, err := execute(t, "config", "--format", tt.format)
			if err != nil {
				t.Fatalf("config: %v", err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, out)
			}
		})
	}
}

func TestCompletion(t *testing.T) {
	out, _, err := execute(t, "completion", "bash")
	if err != nil {
		t.Fatalf("completion: %v", err)
	}
	if !strings.Contains(out, "pipeflow") {
		t.Error("bash completion does not mention pipeflow")
	}
}

func TestFlagCompletions(t *testing.T) {
	tests := []struct {
		args         []string
		want, reject string
	}{
		{[]string{"config", "--format", ""}, "json", "dot"},
		{[]string{"render", "network", "--format", ""}, "dot", "toml"},
		{[]string{"render", "chart", "--format", ""}, "pdf", "dot"},
		{[]string{"solve", "--config", ""}, "yml", "svg"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args[:len(tt.args)-1], " "), func(t *testing.T) {
			out, _, err := execute(t, append([]string{cobra.ShellCompRequestCmd}, tt.args...)...)
			if err != nil {
				t.Fatalf("complete: %v", err)
			}
			lines := strings.Split(strings.TrimSpace(out), "\n")
			if !slices.Contains(lines, tt.want) {
				t.Errorf("completions %q missing %q", lines, tt.want)
			}
			if slices.Contains(lines, tt.reject) {
				t.Errorf("completions %q offer %q", lines, tt.reject)
			}
		})
	}
}

func TestRenderPaths(t *testing.T) {
	tests := []struct {
		output, kind, format string
		single               bool
		want                 string
	}{
		{"", "network", "svg", true, "network.svg"},
		{"plant.svg", "network", "svg", true, "plant.svg"},
		{"plant.svg", "network", "png", false, "plant.png"},
		{"out/plant", "chart", "pdf", false, "out/plant.pdf"},
		{"", "chart", "png", false, "chart.png"},
	}
	for _, tt := range tests {
		if got := outputPath(tt.output, tt.kind, tt.format, tt.single); got != tt.want {
			t.Errorf("outputPath(%q, %q, %q, %v) = %q, want %q", tt.output, tt.kind, tt.format, tt.single, got, tt.want)
		}
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"svg"}},
		{"png", []string{"png"}},
		{"SVG, pdf,", []string{"svg", "pdf"}},
	}
	for _, tt := range tests {
		got := parseFormats(tt.in)
		if strings.Join(got, ",") != strings.Join(tt.want, ",") {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
