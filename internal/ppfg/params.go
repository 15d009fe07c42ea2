package ppfg

import "math"

// EnvironmentParams define the non-rock overburden column in feet
type EnvironmentParams struct {
	WaterDepth float64 `json:"water_depth" yaml:"water_depth"`
	AirGap     float64 `json:"air_gap" yaml:"air_gap"`
}

// Datum returns the depth of the water/air datum below which rock begins
func (e EnvironmentParams) Datum() float64 {
	return e.WaterDepth + e.AirGap
}

// CompactionParams define the exponential normal compaction trend
// DTnct(z) = A * exp(-B*z)
type CompactionParams struct {
	// A is the trend intercept in sonic units (µs/ft)
	A float64 `json:"a" yaml:"a"`

	// B is the decay rate in 1/ft
	B float64 `json:"b" yaml:"b"`
}

// EatonParams configure the Eaton sonic inversion
type EatonParams struct {
	HydrostaticGradient float64 `json:"hydrostatic_gradient" yaml:"hydrostatic_gradient"`
	Exponent            float64 `json:"exponent" yaml:"exponent"`
}

// ElasticParams hold the rock elastic parameter used for fracture gradient
type ElasticParams struct {
	PoissonRatio float64 `json:"poisson_ratio" yaml:"poisson_ratio"`
}

// Calibration holds the fallback and empirical constants applied during a run.
// They default to the package constants; tests and callers may override them.
type Calibration struct {
	DefaultDensity        float64 `json:"default_density" yaml:"default_density"`
	WaterPressureGradient float64 `json:"water_pressure_gradient" yaml:"water_pressure_gradient"`
	SeawaterGradient      float64 `json:"seawater_gradient" yaml:"seawater_gradient"`
	ShminRatio            float64 `json:"shmin_ratio" yaml:"shmin_ratio"`
}

// Params is the complete parameter bundle for one workflow run
type Params struct {
	Environment EnvironmentParams `json:"environment" yaml:"environment"`
	Compaction  CompactionParams  `json:"compaction" yaml:"compaction"`
	Eaton       EatonParams       `json:"eaton" yaml:"eaton"`
	Elastic     ElasticParams     `json:"elastic" yaml:"elastic"`
	Calibration Calibration       `json:"calibration" yaml:"calibration"`
}

// DefaultCalibration returns the engine's standard calibration constants
func DefaultCalibration() Calibration {
	return Calibration{
		DefaultDensity:        DefaultDensity,
		WaterPressureGradient: DefaultWaterPressureGradient,
		SeawaterGradient:      DefaultSeawaterGradient,
		ShminRatio:            DefaultShminRatio,
	}
}

// DefaultParams returns a parameter bundle with every option at its default
func DefaultParams() Params {
	return Params{
		Compaction: CompactionParams{
			A: DefaultNCTIntercept,
			B: DefaultNCTSlope,
		},
		Eaton: EatonParams{
			HydrostaticGradient: DefaultHydrostaticGradient,
			Exponent:            DefaultEatonExponent,
		},
		Elastic: ElasticParams{
			PoissonRatio: DefaultPoissonRatio,
		},
		Calibration: DefaultCalibration(),
	}
}

// Validate checks every parameter range once, before any computation
func (p Params) Validate() error {
	checks := []struct {
		name   string
		value  float64
		ok     bool
		reason string
	}{
		{"environment.water_depth", p.Environment.WaterDepth, p.Environment.WaterDepth >= 0, "must be >= 0"},
		{"environment.air_gap", p.Environment.AirGap, p.Environment.AirGap >= 0, "must be >= 0"},
		{"compaction.a", p.Compaction.A, p.Compaction.A > 0, "must be > 0"},
		{"compaction.b", p.Compaction.B, p.Compaction.B >= 0, "must be >= 0"},
		{"eaton.hydrostatic_gradient", p.Eaton.HydrostaticGradient, p.Eaton.HydrostaticGradient > 0, "must be > 0"},
		{"eaton.exponent", p.Eaton.Exponent, p.Eaton.Exponent >= 0, "must be >= 0"},
		{"elastic.poisson_ratio", p.Elastic.PoissonRatio, p.Elastic.PoissonRatio >= 0 && p.Elastic.PoissonRatio < 0.5, "must be in [0, 0.5)"},
		{"calibration.default_density", p.Calibration.DefaultDensity, p.Calibration.DefaultDensity > 0, "must be > 0"},
		{"calibration.water_pressure_gradient", p.Calibration.WaterPressureGradient, p.Calibration.WaterPressureGradient > 0, "must be > 0"},
		{"calibration.seawater_gradient", p.Calibration.SeawaterGradient, p.Calibration.SeawaterGradient > 0, "must be > 0"},
		{"calibration.shmin_ratio", p.Calibration.ShminRatio, p.Calibration.ShminRatio > 0 && p.Calibration.ShminRatio <= 1, "must be in (0, 1]"},
	}

	for _, c := range checks {
		// NaN fails every comparison above, but Inf does not
		if !c.ok || math.IsInf(c.value, 0) {
			return &ParamError{Param: c.name, Value: c.value, Reason: c.reason}
		}
	}
	return nil
}
