package api

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/pipeflow/pkg/buildinfo"
	"github.com/matzehuels/pipeflow/pkg/config"
	"github.com/matzehuels/pipeflow/pkg/errors"
	"github.com/matzehuels/pipeflow/pkg/pipeline"
	"github.com/matzehuels/pipeflow/pkg/render"
)

// request is the body of every POST endpoint.
type request struct {
	Config   json.RawMessage `json:"config,omitempty"`
	Diameter float64         `json:"diameter,omitempty"` // m
	Grid     []float64       `json:"grid,omitempty"`     // m
	Workers  int             `json:"workers,omitempty"`
	Refresh  bool            `json:"refresh,omitempty"`
	Detailed bool            `json:"detailed,omitempty"` // render network only
}

// optimizeResponse adds the one-line verdict to a sweep result.
type optimizeResponse struct {
	*pipeline.OptimizeResult
	Summary string `json:"summary"`
}

var contentTypes = map[string]string{
	render.FormatSVG: "image/svg+xml",
	render.FormatPNG: "image/png",
	render.FormatPDF: "application/pdf",
	render.FormatDOT: "text/vnd.graphviz",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"version": buildinfo.Version,
		"commit":  buildinfo.Commit,
		"date":    buildinfo.Date,
	})
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	_, opts, err := decodeRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.runner.Solve(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	_, opts, err := decodeRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.runner.Optimize(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, optimizeResponse{OptimizeResult: res, Summary: res.Summary()})
}

// handleRender draws the network (POST /v1/render/network) or the cost
// chart (POST /v1/render/chart). The format query parameter defaults to svg.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	format := r.URL.Query().Get("format")
	if format == "" {
		format = render.FormatSVG
	}
	if err := pipeline.ValidateFormat(kind, format); err != nil {
		if errors.Is(err, errors.ErrCodeInvalidInput) {
			err = errors.New(errors.ErrCodeNotFound, "no such artifact %q (want network or chart)", kind)
		}
		s.writeError(w, r, err)
		return
	}

	req, opts, err := decodeRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var out []byte
	switch kind {
	case pipeline.KindNetwork:
		res, err := s.runner.Solve(r.Context(), opts)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		out, err = s.runner.RenderNetwork(r.Context(), res, req.Detailed, format)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
	case pipeline.KindChart:
		res, err := s.runner.Optimize(r.Context(), opts)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		out, err = s.runner.RenderChart(r.Context(), res, format)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

// decodeRequest reads the body into pipeline options. An empty body runs
// the default configuration.
func decodeRequest(w http.ResponseWriter, r *http.Request) (*request, pipeline.Options, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return nil, pipeline.Options{}, errors.New(errors.ErrCodeInvalidInput, "request body exceeds %d bytes", tooLarge.Limit)
		}
		return nil, pipeline.Options{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body")
	}

	var req request
	if len(bytes.TrimSpace(body)) > 0 {
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			return nil, pipeline.Options{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request")
		}
	}

	cfg, err := config.Parse(req.Config, config.FormatJSON)
	if err != nil {
		return nil, pipeline.Options{}, err
	}
	opts := pipeline.Options{
		Config:   cfg,
		Diameter: req.Diameter,
		Grid:     req.Grid,
		Workers:  req.Workers,
		Refresh:  req.Refresh,
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, pipeline.Options{}, err
	}
	return &req, opts, nil
}
