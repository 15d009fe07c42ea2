package restserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/chrissnell/ppfg/internal/ppfg"
	"github.com/chrissnell/ppfg/pkg/config"
	"github.com/chrissnell/ppfg/pkg/responseformat"
	"github.com/google/uuid"
)

// Handlers contains all HTTP handlers for the REST server
type Handlers struct {
	controller *Controller
	formatter  *responseformat.Formatter
}

// NewHandlers creates a new handlers instance
func NewHandlers(ctrl *Controller) *Handlers {
	return &Handlers{
		controller: ctrl,
		formatter:  responseformat.NewFormatter(),
	}
}

// GetHealth reports liveness
func (h *Handlers) GetHealth(w http.ResponseWriter, req *http.Request) {
	h.writeResponse(w, req, http.StatusOK, map[string]string{"status": "ok"})
}

// GetParams returns the server's default parameters and named presets
func (h *Handlers) GetParams(w http.ResponseWriter, req *http.Request) {
	presets := h.controller.Presets
	if presets == nil {
		presets = []config.PresetData{}
	}
	h.writeResponse(w, req, http.StatusOK, ParamsResponse{
		Defaults: h.controller.Defaults,
		Presets:  presets,
	})
}

// RunWorkflow runs the deterministic pipeline
func (h *Handlers) RunWorkflow(w http.ResponseWriter, req *http.Request) {
	logs, params, ok := h.decodeRun(w, req)
	if !ok {
		return
	}

	runID := uuid.NewString()
	start := time.Now()

	profile, err := ppfg.RunWorkflow(logs, params)
	if err != nil {
		h.writeEngineError(w, req, runID, err)
		return
	}

	h.controller.logger.Infow("workflow run complete",
		"run_id", runID,
		"depths", len(profile.Depths),
		"degenerate", profile.Degenerate.Count(),
		"duration", time.Since(start),
	)
	if n := profile.Degenerate.Count(); n > 0 {
		h.controller.logger.Debugw("substituted degenerate samples",
			"run_id", runID,
			"density", profile.Degenerate.Density,
			"sonic", profile.Degenerate.Sonic,
		)
	}

	h.writeResponse(w, req, http.StatusOK, WorkflowResponse{
		RunID:   runID,
		Params:  params,
		Profile: profile,
		Summary: ppfg.Summarize(profile),
	})
}

// RunProbabilistic runs the low/mid/high cases
func (h *Handlers) RunProbabilistic(w http.ResponseWriter, req *http.Request) {
	logs, params, ok := h.decodeRun(w, req)
	if !ok {
		return
	}

	runID := uuid.NewString()
	start := time.Now()

	cases, err := ppfg.GenerateCases(logs, params)
	if err != nil {
		h.writeEngineError(w, req, runID, err)
		return
	}

	h.controller.logger.Infow("probabilistic run complete",
		"run_id", runID,
		"depths", len(cases),
		"duration", time.Since(start),
	)

	h.writeResponse(w, req, http.StatusOK, ProbabilisticResponse{
		RunID:  runID,
		Params: params,
		Cases:  cases,
	})
}

// RunSensitivity ranks parameter influence for a tornado chart
func (h *Handlers) RunSensitivity(w http.ResponseWriter, req *http.Request) {
	logs, params, ok := h.decodeRun(w, req)
	if !ok {
		return
	}

	runID := uuid.NewString()
	start := time.Now()

	results, err := ppfg.RunSensitivity(logs, params)
	if err != nil {
		h.writeEngineError(w, req, runID, err)
		return
	}

	h.controller.logger.Infow("sensitivity run complete",
		"run_id", runID,
		"depths", len(logs.Depths),
		"top_parameter", results[0].Parameter,
		"duration", time.Since(start),
	)

	h.writeResponse(w, req, http.StatusOK, SensitivityResponse{
		RunID:   runID,
		Params:  params,
		Results: results,
	})
}

// RunEnvelope computes the two-point uncertainty envelope
func (h *Handlers) RunEnvelope(w http.ResponseWriter, req *http.Request) {
	logs, params, ok := h.decodeRun(w, req)
	if !ok {
		return
	}

	runID := uuid.NewString()

	envelope, err := ppfg.CalculateUncertaintyEnvelope(logs, params)
	if err != nil {
		h.writeEngineError(w, req, runID, err)
		return
	}

	h.writeResponse(w, req, http.StatusOK, EnvelopeResponse{
		RunID:    runID,
		Params:   params,
		Envelope: envelope,
	})
}

// FitTrend fits a normal compaction trend to the selected shale points
func (h *Handlers) FitTrend(w http.ResponseWriter, req *http.Request) {
	var body TrendFitRequest
	if !h.decodeBody(w, req, &body) {
		return
	}

	fit, err := ppfg.FitNormalTrend(body.Depths, body.DT, body.Mask)
	if err != nil {
		h.writeEngineError(w, req, "", err)
		return
	}

	h.writeResponse(w, req, http.StatusOK, fit)
}

// decodeRun parses a RunRequest and resolves its parameters. It writes the error
// response itself and returns false when the request cannot be run.
func (h *Handlers) decodeRun(w http.ResponseWriter, req *http.Request) (ppfg.WellLogs, ppfg.Params, bool) {
	var body RunRequest
	if !h.decodeBody(w, req, &body) {
		return ppfg.WellLogs{}, ppfg.Params{}, false
	}

	params, err := h.resolveParams(body)
	if err != nil {
		h.writeError(w, req, http.StatusBadRequest, err.Error())
		return ppfg.WellLogs{}, ppfg.Params{}, false
	}

	return body.Well.WellLogs(), params, true
}

func (h *Handlers) resolveParams(body RunRequest) (ppfg.Params, error) {
	params := h.controller.Defaults
	if body.Preset != "" {
		preset, ok := config.FindPreset(h.controller.Presets, body.Preset)
		if !ok {
			return ppfg.Params{}, fmt.Errorf("unknown preset: %s", body.Preset)
		}
		params = preset.Params
	}

	if len(body.Params) > 0 {
		dec := json.NewDecoder(bytes.NewReader(body.Params))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&params); err != nil {
			return ppfg.Params{}, fmt.Errorf("invalid params: %v", err)
		}
	}
	return params, nil
}

func (h *Handlers) decodeBody(w http.ResponseWriter, req *http.Request, v any) bool {
	dec := json.NewDecoder(req.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.writeError(w, req, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		h.writeError(w, req, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

func (h *Handlers) writeEngineError(w http.ResponseWriter, req *http.Request, runID string, err error) {
	if errors.Is(err, ppfg.ErrInvalidInput) || errors.Is(err, ppfg.ErrInvalidParams) {
		h.controller.logger.Debugw("rejected run", "run_id", runID, "error", err)
		h.writeError(w, req, http.StatusBadRequest, err.Error())
		return
	}

	h.controller.logger.Errorw("run failed", "run_id", runID, "error", err)
	h.writeError(w, req, http.StatusInternalServerError, "internal error")
}

// writeResponse encodes data for the client and logs encoding or write failures
func (h *Handlers) writeResponse(w http.ResponseWriter, req *http.Request, status int, data any) {
	if err := h.formatter.WriteResponse(w, req, status, data); err != nil {
		h.controller.logger.Errorw("failed to write response",
			"path", req.URL.Path,
			"status", status,
			"error", err,
		)
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, req *http.Request, status int, message string) {
	h.writeResponse(w, req, status, map[string]string{"error": message})
}
