package restserver

import (
	"encoding/json"

	"github.com/chrissnell/ppfg/internal/ppfg"
	"github.com/chrissnell/ppfg/pkg/config"
	"github.com/chrissnell/ppfg/pkg/wellinput"
)

// RunRequest is the body of every engine endpoint. Params, when present, is
// overlaid on the named preset (or the server defaults when Preset is empty).
type RunRequest struct {
	Well   wellinput.Bundle `json:"well"`
	Preset string           `json:"preset,omitempty"`
	Params json.RawMessage  `json:"params,omitempty"`
}

// TrendFitRequest selects shale points for a normal compaction trend fit
type TrendFitRequest struct {
	Depths wellinput.Curve `json:"depths"`
	DT     wellinput.Curve `json:"dt"`
	Mask   []bool          `json:"mask,omitempty"`
}

// WorkflowResponse is returned by /api/v1/workflow
type WorkflowResponse struct {
	RunID   string              `json:"run_id"`
	Params  ppfg.Params         `json:"params"`
	Profile ppfg.DepthProfile   `json:"profile"`
	Summary ppfg.ProfileSummary `json:"summary"`
}

// ProbabilisticResponse is returned by /api/v1/probabilistic
type ProbabilisticResponse struct {
	RunID  string                      `json:"run_id"`
	Params ppfg.Params                 `json:"params"`
	Cases  []ppfg.ProbabilisticProfile `json:"cases"`
}

// SensitivityResponse is returned by /api/v1/sensitivity
type SensitivityResponse struct {
	RunID   string                   `json:"run_id"`
	Params  ppfg.Params              `json:"params"`
	Results []ppfg.SensitivityResult `json:"results"`
}

// EnvelopeResponse is returned by /api/v1/envelope
type EnvelopeResponse struct {
	RunID    string                   `json:"run_id"`
	Params   ppfg.Params              `json:"params"`
	Envelope ppfg.UncertaintyEnvelope `json:"envelope"`
}

// ParamsResponse is returned by /api/v1/params
type ParamsResponse struct {
	Defaults ppfg.Params         `json:"defaults"`
	Presets  []config.PresetData `json:"presets"`
}
