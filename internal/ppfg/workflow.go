package ppfg

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// WellLogs are the decoded log curves consumed by a run. All three slices are
// positionally paired and must have the same length.
type WellLogs struct {
	// Depths are measured depths in feet, strictly increasing
	Depths []float64 `json:"depths" yaml:"depths"`

	// RHOB is bulk density in g/cc. NaN marks a missing sample.
	RHOB []float64 `json:"rhob" yaml:"rhob"`

	// DT is observed sonic transit time in µs/ft. NaN marks a missing sample.
	DT []float64 `json:"dt" yaml:"dt"`
}

// Validate checks the structural invariants a run depends on
func (w WellLogs) Validate() error {
	n := len(w.Depths)
	if len(w.RHOB) != n {
		return &InputError{Field: "rhob", Index: -1, Reason: "length does not match depths"}
	}
	if len(w.DT) != n {
		return &InputError{Field: "dt", Index: -1, Reason: "length does not match depths"}
	}

	for i, z := range w.Depths {
		if math.IsNaN(z) || math.IsInf(z, 0) {
			return &InputError{Field: "depths", Index: i, Reason: "depth is not a finite number"}
		}
		if i > 0 && z <= w.Depths[i-1] {
			return &InputError{Field: "depths", Index: i, Reason: "depths are not strictly increasing"}
		}
	}
	return nil
}

// DegenerateSamples lists the indices where a fallback value was substituted
type DegenerateSamples struct {
	// Density holds indices below the datum that used the default density
	Density []int `json:"density,omitempty"`

	// Sonic holds indices reported as hydrostatic because the sonic was unusable
	Sonic []int `json:"sonic,omitempty"`
}

// Count returns the total number of substituted samples
func (d DegenerateSamples) Count() int {
	return len(d.Density) + len(d.Sonic)
}

// DepthProfile is the output of one deterministic run. Every slice has the same
// length as the input depths. Gradients are in ppg, NCT is in µs/ft and OBGPsi is
// the cumulative overburden stress in psi.
type DepthProfile struct {
	Depths     []float64         `json:"depths"`
	OBGPsi     []float64         `json:"obg_psi"`
	OBG        []float64         `json:"obg"`
	NCT        []float64         `json:"nct"`
	PP         []float64         `json:"pp"`
	FG         []float64         `json:"fg"`
	Shmin      []float64         `json:"shmin"`
	Degenerate DegenerateSamples `json:"degenerate"`
}

// RunWorkflow validates its inputs and then runs overburden, compaction trend,
// pore pressure, fracture gradient and Shmin in sequence. It either returns a
// complete profile or an error matching ErrInvalidInput or ErrInvalidParams.
func RunWorkflow(logs WellLogs, params Params) (DepthProfile, error) {
	if err := logs.Validate(); err != nil {
		return DepthProfile{}, err
	}
	if err := params.Validate(); err != nil {
		return DepthProfile{}, err
	}
	return runProfile(logs, params), nil
}

// runProfile is the unchecked pipeline shared by the probabilistic and sensitivity
// wrappers, which validate once and then re-run with perturbed parameters
func runProfile(logs WellLogs, params Params) DepthProfile {
	obgPsi, obg := ComputeOverburden(logs.Depths, logs.RHOB, params.Environment, params.Calibration)
	nct := ComputeNormalTrend(logs.Depths, params.Compaction)
	pp := ComputePorePressure(obg, logs.DT, nct, params.Eaton.HydrostaticGradient, params.Eaton.Exponent)
	fg := ComputeFractureGradient(pp, obg, params.Elastic.PoissonRatio)
	shmin := ComputeShmin(fg, params.Calibration.ShminRatio)

	depths := make([]float64, len(logs.Depths))
	copy(depths, logs.Depths)

	return DepthProfile{
		Depths:     depths,
		OBGPsi:     obgPsi,
		OBG:        obg,
		NCT:        nct,
		PP:         pp,
		FG:         fg,
		Shmin:      shmin,
		Degenerate: findDegenerate(logs, params.Environment.Datum()),
	}
}

func findDegenerate(logs WellLogs, datum float64) DegenerateSamples {
	var d DegenerateSamples
	for i, z := range logs.Depths {
		if z > datum && !usableDensity(logs.RHOB, i) {
			d.Density = append(d.Density, i)
		}
		if math.IsNaN(logs.DT[i]) || logs.DT[i] <= 0 {
			d.Sonic = append(d.Sonic, i)
		}
	}
	return d
}

// ProfileSummary holds headline values report consumers pull from a profile
type ProfileSummary struct {
	MaxPP          float64 `json:"max_pp"`
	MaxPPDepth     float64 `json:"max_pp_depth"`
	MaxFG          float64 `json:"max_fg"`
	MinFG          float64 `json:"min_fg"`
	MinMargin      float64 `json:"min_margin"`
	MinMarginDepth float64 `json:"min_margin_depth"`
}

// Summarize reports the peak pore pressure and the narrowest pp-to-fg drilling
// margin. An empty profile gives a zero summary.
func Summarize(p DepthProfile) ProfileSummary {
	if len(p.PP) == 0 {
		return ProfileSummary{}
	}

	margin := make([]float64, len(p.PP))
	floats.SubTo(margin, p.FG, p.PP)

	ppIdx := floats.MaxIdx(p.PP)
	marginIdx := floats.MinIdx(margin)

	return ProfileSummary{
		MaxPP:          p.PP[ppIdx],
		MaxPPDepth:     p.Depths[ppIdx],
		MaxFG:          floats.Max(p.FG),
		MinFG:          floats.Min(p.FG),
		MinMargin:      margin[marginIdx],
		MinMarginDepth: p.Depths[marginIdx],
	}
}
