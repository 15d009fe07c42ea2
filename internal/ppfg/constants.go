// Package ppfg predicts pore pressure and fracture gradient from depth-indexed
// well logs. Every operation is a pure function over its inputs: callers own the
// returned slices and nothing is retained between calls.
package ppfg

// Unit conversion constants
const (
	// DensityToPsiPerFt converts a bulk density in g/cc to a vertical stress gradient in psi/ft
	DensityToPsiPerFt = 0.4335

	// PsiPerFtToPpg divides a psi/ft gradient to give pounds-per-gallon equivalent mud weight
	PsiPerFtToPpg = 0.052
)

// Calibration defaults. These are this engine's specific (simplified) calibration
// and changing them changes outputs.
const (
	// DefaultDensity is substituted for missing or non-positive bulk density samples (g/cc)
	DefaultDensity = 2.0

	// DefaultWaterPressureGradient is the psi/ft gradient used above the water/air datum
	DefaultWaterPressureGradient = 0.44

	// DefaultSeawaterGradient is the ppg reported for depths at or above the datum.
	// This is a fixed approximation, not a water-column calculation.
	DefaultSeawaterGradient = 8.5

	// DefaultShminRatio scales fracture gradient into minimum horizontal stress
	DefaultShminRatio = 0.95
)

// Parameter defaults
const (
	DefaultHydrostaticGradient = 8.5
	DefaultEatonExponent       = 3.0
	DefaultPoissonRatio        = 0.4
	DefaultNCTIntercept        = 140.0
	DefaultNCTSlope            = 0.0001
)

// Probabilistic case multipliers
const (
	LowExponentMultiplier  = 0.8
	LowNCTMultiplier       = 1.05
	HighExponentMultiplier = 1.2
	HighNCTMultiplier      = 0.95
)

// Sensitivity analysis settings
const (
	// SensitivityPerturbation is the fractional ± step applied to each parameter
	SensitivityPerturbation = 0.10

	// DeepSectionFraction is the fraction of the profile, from the bottom, averaged
	// when measuring a parameter's influence
	DeepSectionFraction = 0.20
)
