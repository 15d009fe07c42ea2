package ppfg

import (
	"math"
	"sort"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

// Parameter names a scalar input varied by the sensitivity analysis
type Parameter string

const (
	ParamEatonExponent Parameter = "eatonExponent"
	ParamPoissonRatio  Parameter = "poissonRatio"
	ParamNCTIntercept  Parameter = "nctIntercept"
	ParamNCTSlope      Parameter = "nctSlope"
)

// SensitivityParameters lists the parameters perturbed by RunSensitivity, in order
var SensitivityParameters = []Parameter{
	ParamEatonExponent,
	ParamPoissonRatio,
	ParamNCTIntercept,
	ParamNCTSlope,
}

// SensitivityResult is one bar of a tornado chart. Base, Low and High are the mean
// deep-section pore pressure (ppg) at the base value and at -10% and +10%.
type SensitivityResult struct {
	Parameter  Parameter `json:"parameter"`
	Base       float64   `json:"base"`
	Low        float64   `json:"low"`
	High       float64   `json:"high"`
	Swing      float64   `json:"swing"`
	Elasticity float64   `json:"elasticity"`
}

// scale returns a copy of p with one parameter multiplied by factor
func scale(p Params, param Parameter, factor float64) Params {
	switch param {
	case ParamEatonExponent:
		p.Eaton.Exponent *= factor
	case ParamPoissonRatio:
		p.Elastic.PoissonRatio *= factor
	case ParamNCTIntercept:
		p.Compaction.A *= factor
	case ParamNCTSlope:
		p.Compaction.B *= factor
	}
	return p
}

// RunSensitivity perturbs each parameter by ±10% with all others held at base and
// ranks the parameters by the swing they cause in mean deep-section pore pressure.
// Results are sorted by descending swing.
func RunSensitivity(logs WellLogs, params Params) ([]SensitivityResult, error) {
	if err := logs.Validate(); err != nil {
		return nil, err
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	base := deepSectionMean(runProfile(logs, params).PP)

	lows := make([]float64, len(SensitivityParameters))
	highs := make([]float64, len(SensitivityParameters))

	var g errgroup.Group
	for i, param := range SensitivityParameters {
		i, param := i, param
		g.Go(func() error {
			lows[i] = deepSectionMean(runProfile(logs, scale(params, param, 1-SensitivityPerturbation)).PP)
			return nil
		})
		g.Go(func() error {
			highs[i] = deepSectionMean(runProfile(logs, scale(params, param, 1+SensitivityPerturbation)).PP)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := make([]SensitivityResult, len(SensitivityParameters))
	for i, param := range SensitivityParameters {
		r := SensitivityResult{
			Parameter: param,
			Base:      base,
			Low:       lows[i],
			High:      highs[i],
			Swing:     math.Abs(highs[i] - lows[i]),
		}
		if base != 0 {
			r.Elasticity = ((r.High - r.Low) / base) / (2 * SensitivityPerturbation)
		}
		results[i] = r
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Swing > results[b].Swing
	})
	return results, nil
}

// deepSectionMean averages the positive values in the deepest 20% of a profile.
// It returns 0 when there are none.
func deepSectionMean(values []float64) float64 {
	start := int(math.Floor(float64(len(values)) * (1 - DeepSectionFraction)))

	var deep []float64
	for _, v := range values[start:] {
		if v > 0 {
			deep = append(deep, v)
		}
	}
	if len(deep) == 0 {
		return 0
	}
	return stat.Mean(deep, nil)
}

// UncertaintyEnvelope bounds pore pressure and fracture gradient at every depth
type UncertaintyEnvelope struct {
	Depths []float64 `json:"depths"`
	PPMin  []float64 `json:"pp_min"`
	PPMax  []float64 `json:"pp_max"`
	FGMin  []float64 `json:"fg_min"`
	FGMax  []float64 `json:"fg_max"`
}

// CalculateUncertaintyEnvelope is a two-point approximation: it perturbs only the
// Eaton exponent by ±10% and takes the per-depth min and max of the two runs.
func CalculateUncertaintyEnvelope(logs WellLogs, params Params) (UncertaintyEnvelope, error) {
	if err := logs.Validate(); err != nil {
		return UncertaintyEnvelope{}, err
	}
	if err := params.Validate(); err != nil {
		return UncertaintyEnvelope{}, err
	}

	low := runProfile(logs, scale(params, ParamEatonExponent, 1-SensitivityPerturbation))
	high := runProfile(logs, scale(params, ParamEatonExponent, 1+SensitivityPerturbation))

	n := len(logs.Depths)
	env := UncertaintyEnvelope{
		Depths: low.Depths,
		PPMin:  make([]float64, n),
		PPMax:  make([]float64, n),
		FGMin:  make([]float64, n),
		FGMax:  make([]float64, n),
	}
	for i := 0; i < n; i++ {
		env.PPMin[i] = math.Min(low.PP[i], high.PP[i])
		env.PPMax[i] = math.Max(low.PP[i], high.PP[i])
		env.FGMin[i] = math.Min(low.FG[i], high.FG[i])
		env.FGMax[i] = math.Max(low.FG[i], high.FG[i])
	}
	return env, nil
}
