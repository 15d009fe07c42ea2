package ppfg

import "golang.org/x/sync/errgroup"

// ProbabilisticProfile is one depth of the low/mid/high case envelope.
//
// The low case (weaker inversion) carries the P10 label and the high case the P90
// label for both pore pressure and fracture gradient. For fracture gradient this
// makes FGLow the geomechanically risky case; the labels are kept as they are.
// OBG and Shmin come from the mid case only.
type ProbabilisticProfile struct {
	Depth  float64 `json:"depth"`
	OBG    float64 `json:"obg"`
	Shmin  float64 `json:"shmin"`
	PPLow  float64 `json:"pp_p10"`
	PPMid  float64 `json:"pp_p50"`
	PPHigh float64 `json:"pp_p90"`
	FGLow  float64 `json:"fg_p10"`
	FGMid  float64 `json:"fg_p50"`
	FGHigh float64 `json:"fg_p90"`
}

// CaseParams returns the low, mid and high parameter sets derived from base
func CaseParams(base Params) (low, mid, high Params) {
	low, mid, high = base, base, base

	low.Eaton.Exponent *= LowExponentMultiplier
	low.Compaction.A *= LowNCTMultiplier

	high.Eaton.Exponent *= HighExponentMultiplier
	high.Compaction.A *= HighNCTMultiplier

	return low, mid, high
}

// GenerateCases runs the workflow for the low, mid and high cases and merges them
// into one record per depth
func GenerateCases(logs WellLogs, params Params) ([]ProbabilisticProfile, error) {
	if err := logs.Validate(); err != nil {
		return nil, err
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	lowParams, midParams, highParams := CaseParams(params)
	caseParams := []Params{lowParams, midParams, highParams}
	profiles := make([]DepthProfile, len(caseParams))

	var g errgroup.Group
	for i, p := range caseParams {
		i, p := i, p
		g.Go(func() error {
			profiles[i] = runProfile(logs, p)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	low, mid, high := profiles[0], profiles[1], profiles[2]
	out := make([]ProbabilisticProfile, len(logs.Depths))
	for i, z := range logs.Depths {
		out[i] = ProbabilisticProfile{
			Depth:  z,
			OBG:    mid.OBG[i],
			Shmin:  mid.Shmin[i],
			PPLow:  low.PP[i],
			PPMid:  mid.PP[i],
			PPHigh: high.PP[i],
			FGLow:  low.FG[i],
			FGMid:  mid.FG[i],
			FGHigh: high.FG[i],
		}
	}
	return out, nil
}
