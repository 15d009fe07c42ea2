package ppfg

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// ComputeNormalTrend evaluates the exponential normal compaction trend
// DTnct(z) = a * exp(-b*z) at every depth
func ComputeNormalTrend(depths []float64, params CompactionParams) []float64 {
	nct := make([]float64, len(depths))
	for i, z := range depths {
		nct[i] = params.A * math.Exp(-params.B*z)
	}
	return nct
}

// TrendFit is the result of fitting a normal compaction trend to shale points
type TrendFit struct {
	Params      CompactionParams `json:"params"`
	RSquared    float64          `json:"r_squared"`
	SampleCount int              `json:"sample_count"`
}

// FitNormalTrend fits DT = a * exp(-b*z) to the sonic samples selected by mask
// (nil selects every sample) by least squares on ln(DT). Samples with a missing or
// non-positive transit time are skipped. At least two usable samples at distinct
// depths are required.
func FitNormalTrend(depths, dt []float64, mask []bool) (TrendFit, error) {
	if len(dt) != len(depths) {
		return TrendFit{}, &InputError{Field: "dt", Index: -1, Reason: "length does not match depths"}
	}
	if mask != nil && len(mask) != len(depths) {
		return TrendFit{}, &InputError{Field: "mask", Index: -1, Reason: "length does not match depths"}
	}

	var zs, lnDT []float64
	for i, z := range depths {
		if mask != nil && !mask[i] {
			continue
		}
		if math.IsNaN(dt[i]) || dt[i] <= 0 || math.IsNaN(z) {
			continue
		}
		zs = append(zs, z)
		lnDT = append(lnDT, math.Log(dt[i]))
	}

	if len(zs) < 2 || stat.Variance(zs, nil) == 0 {
		return TrendFit{}, &InputError{Field: "dt", Index: -1, Reason: "at least two usable shale points at distinct depths are required"}
	}

	// ln(DT) = ln(a) - b*z
	intercept, slope := stat.LinearRegression(zs, lnDT, nil, false)

	fit := TrendFit{
		Params: CompactionParams{
			A: math.Exp(intercept),
			B: -slope,
		},
		SampleCount: len(zs),
	}
	fit.RSquared = stat.RSquared(zs, lnDT, nil, intercept, slope)
	if math.IsNaN(fit.RSquared) {
		// Constant ln(DT) is fit exactly by a flat trend
		fit.RSquared = 1
	}

	return fit, nil
}
