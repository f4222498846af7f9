package pipeline

import (
	"context"
	"encoding/json"

	"github.com/matzehuels/pipeflow/pkg/cache"
	"github.com/matzehuels/pipeflow/pkg/render"
	"github.com/matzehuels/pipeflow/pkg/render/chart"
	"github.com/matzehuels/pipeflow/pkg/render/nodelink"
)

// RenderNetwork draws a solved network in format.
func (r *Runner) RenderNetwork(ctx context.Context, res *SolveResult, detailed bool, format string) ([]byte, error) {
	if err := ValidateFormat(KindNetwork, format); err != nil {
		return nil, err
	}
	return r.cachedArtifact(ctx, res.Solution, cache.ArtifactKeyOpts{Kind: KindNetwork, Format: format, Detailed: detailed}, func() ([]byte, error) {
		return nodelink.Render(ctx, res.Network, res.Solution, nodelink.Options{Detailed: detailed}, format)
	})
}

// RenderChart draws the cost curve of a sweep in format.
func (r *Runner) RenderChart(ctx context.Context, res *OptimizeResult, format string) ([]byte, error) {
	if err := ValidateFormat(KindChart, format); err != nil {
		return nil, err
	}
	return r.cachedArtifact(ctx, res.Result, cache.ArtifactKeyOpts{Kind: KindChart, Format: format}, func() ([]byte, error) {
		svg := chart.RenderSVG(res.Curve, chart.WithBest(res.Best))
		return render.Convert(svg, format)
	})
}

func (r *Runner) cachedArtifact(ctx context.Context, result any, opts cache.ArtifactKeyOpts, build func() ([]byte, error)) ([]byte, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return build()
	}
	key := r.Keyer.ArtifactKey(cache.Hash(data), opts)
	if out, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		return out, nil
	}
	out, err := build()
	if err != nil {
		return nil, err
	}
	_ = r.Cache.Set(ctx, key, out, cache.TTLArtifact)
	return out, nil
}
