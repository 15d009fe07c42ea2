package ppfg

import "math"

// ComputePorePressure inverts observed against normal sonic transit time into pore
// pressure with Eaton's relation:
//
//	pp = obg - (obg - hydrostatic) * (dtNct/dtObs)^exponent
//
// The result is clamped to [hydrostatic, obg]. Where the observed sonic is missing
// or non-positive, or the trend or overburden is missing or zero, the sample is
// reported as hydrostatic, as is any sample whose overburden does not exceed the
// hydrostatic gradient.
func ComputePorePressure(obgPpg, dtObs, dtNct []float64, hydrostaticPpg, exponent float64) []float64 {
	pp := make([]float64, len(obgPpg))
	for i, obg := range obgPpg {
		if !usableSonic(dtObs, dtNct, i) || math.IsNaN(obg) || obg <= hydrostaticPpg {
			pp[i] = hydrostaticPpg
			continue
		}

		ratio := dtNct[i] / dtObs[i]
		// Algebraically obg - (obg-hydro)*ratio^n, arranged so ratio == 1 gives hydro exactly
		value := hydrostaticPpg + (obg-hydrostaticPpg)*(1-math.Pow(ratio, exponent))
		pp[i] = math.Max(hydrostaticPpg, math.Min(obg, value))
	}
	return pp
}

func usableSonic(dtObs, dtNct []float64, i int) bool {
	if i >= len(dtObs) || i >= len(dtNct) {
		return false
	}
	obs, nct := dtObs[i], dtNct[i]
	if math.IsNaN(obs) || obs <= 0 {
		return false
	}
	return !math.IsNaN(nct) && nct != 0
}
