package ppfg

import "math"

// ComputeOverburden integrates a bulk density log into cumulative vertical stress.
// It returns the stress in psi and the equivalent gradient in ppg at every depth.
//
// At or above the water/air datum the stress is the water gradient times depth and
// the reported gradient is the fixed seawater gradient from the calibration. Below
// the datum each interval from the previous sample adds rhob * 0.4335 * thickness,
// so an interval that crosses the datum is charged entirely at the rock density.
// A first sample already below the datum has no previous sample; it takes water
// down to the datum and rock below it. A missing (NaN) or non-positive density
// sample uses the calibration's default density.
func ComputeOverburden(depths, rhob []float64, env EnvironmentParams, cal Calibration) ([]float64, []float64) {
	n := len(depths)
	pressurePsi := make([]float64, n)
	gradientPpg := make([]float64, n)

	datum := env.Datum()
	pressure := 0.0
	prevDepth := 0.0

	for i, depth := range depths {
		if depth <= datum {
			pressure = cal.WaterPressureGradient * depth
			pressurePsi[i] = pressure
			gradientPpg[i] = cal.SeawaterGradient
			prevDepth = depth
			continue
		}

		top := prevDepth
		if i == 0 {
			pressure = cal.WaterPressureGradient * datum
			top = datum
		}

		pressure += densityAt(rhob, i, cal) * DensityToPsiPerFt * (depth - top)
		pressurePsi[i] = pressure
		gradientPpg[i] = pressure / (PsiPerFtToPpg * depth)
		prevDepth = depth
	}

	return pressurePsi, gradientPpg
}

// densityAt returns rhob[i], or the default density when the sample is unusable
func densityAt(rhob []float64, i int, cal Calibration) float64 {
	if !usableDensity(rhob, i) {
		return cal.DefaultDensity
	}
	return rhob[i]
}

func usableDensity(rhob []float64, i int) bool {
	return i < len(rhob) && !math.IsNaN(rhob[i]) && rhob[i] > 0
}
