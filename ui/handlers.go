package ui

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"spendlens/app"
	"spendlens/domain/core"
	"spendlens/domain/retail"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := s.service.Overview(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

// handleReport runs the full sweep across every axis with the configured
// analysis options.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.service.Sweep(r.Context(), retail.Axes, s.sweepOptions())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleSegments(w http.ResponseWriter, r *http.Request) {
	axis, err := retail.ParseAxis(chi.URLParam(r, "axis"))
	if err != nil {
		s.writeError(w, core.NewInvalidParameterError("axis", err.Error()))
		return
	}

	levels := s.cfg.Analysis.ConfidenceLevels
	if raw := r.URL.Query().Get("level"); raw != "" {
		level, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			s.writeError(w, core.NewInvalidParameterError("level", "must be a number"))
			return
		}
		levels = []float64{level}
	}

	summaries, err := s.service.SegmentsOf(r.Context(), axis, levels)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleCLT(w http.ResponseWriter, r *http.Request) {
	axis, err := retail.ParseAxis(chi.URLParam(r, "axis"))
	if err != nil {
		s.writeError(w, core.NewInvalidParameterError("axis", err.Error()))
		return
	}

	group := r.URL.Query().Get("group")
	if group == "" {
		s.writeError(w, core.NewInvalidParameterError("group", "is required"))
		return
	}

	sizes := s.cfg.Analysis.CLTSampleSizes
	if raw := r.URL.Query().Get("sizes"); raw != "" {
		sizes, err = parseSizes(raw)
		if err != nil {
			s.writeError(w, core.NewInvalidParameterError("sizes", err.Error()))
			return
		}
	}

	resamples := s.cfg.Analysis.Resamples
	if raw := r.URL.Query().Get("resamples"); raw != "" {
		resamples, err = strconv.Atoi(raw)
		if err != nil {
			s.writeError(w, core.NewInvalidParameterError("resamples", "must be an integer"))
			return
		}
	}

	seed := s.cfg.Analysis.Seed
	if raw := r.URL.Query().Get("seed"); raw != "" {
		seed, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			s.writeError(w, core.NewInvalidParameterError("seed", "must be an integer"))
			return
		}
	}

	series, err := s.service.CLT(r.Context(), axis, group, sizes, resamples, seed)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, series)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	axis, err := retail.ParseAxis(chi.URLParam(r, "axis"))
	if err != nil {
		s.writeError(w, core.NewInvalidParameterError("axis", err.Error()))
		return
	}

	groupA := r.URL.Query().Get("a")
	groupB := r.URL.Query().Get("b")
	if groupA == "" || groupB == "" {
		s.writeError(w, core.NewInvalidParameterError("a/b", "both group parameters are required"))
		return
	}
	equalVariance := r.URL.Query().Get("equal_variance") == "true"

	comparison, err := s.service.Compare(r.Context(), axis, groupA, groupB, equalVariance)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comparison)
}

func (s *Server) handleNarrative(w http.ResponseWriter, r *http.Request) {
	report, err := s.service.Sweep(r.Context(), retail.Axes, s.sweepOptions())
	if err != nil {
		s.writeError(w, err)
		return
	}

	narrative := app.BuildNarrative(report)
	if r.URL.Query().Get("format") == "html" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write(narrative.RenderHTML())
		return
	}
	writeJSON(w, http.StatusOK, narrative)
}

func (s *Server) sweepOptions() app.SweepOptions {
	return app.SweepOptions{
		ConfidenceLevels: s.cfg.Analysis.ConfidenceLevels,
		CLTSampleSizes:   s.cfg.Analysis.CLTSampleSizes,
		Resamples:        s.cfg.Analysis.Resamples,
		Seed:             s.cfg.Analysis.Seed,
	}
}

// writeError maps domain errors to HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case core.IsInvalidParameter(err):
		status = http.StatusBadRequest
	case core.IsNotFound(err):
		status = http.StatusNotFound
	case core.IsEmptySegment(err), core.IsInsufficientSample(err), core.IsDegenerateVariance(err):
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError {
		s.log.Error().Err(err).Msg("request failed")
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func parseSizes(raw string) ([]int, error) {
	parts := strings.Split(raw, ",")
	sizes := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		sizes = append(sizes, n)
	}
	return sizes, nil
}
