package ppfg

import "math"

// ComputeFractureGradient applies the Matthews-Kelly/Eaton stress-ratio form
//
//	fg = pp + k0*(obg - pp),  k0 = v/(1-v)
//
// A NaN in either input at an index yields NaN at that index.
func ComputeFractureGradient(ppPpg, obgPpg []float64, poissonRatio float64) []float64 {
	k0 := poissonRatio / (1 - poissonRatio)

	fg := make([]float64, len(ppPpg))
	for i, pp := range ppPpg {
		if i >= len(obgPpg) || math.IsNaN(pp) || math.IsNaN(obgPpg[i]) {
			fg[i] = math.NaN()
			continue
		}
		fg[i] = pp + k0*(obgPpg[i]-pp)
	}
	return fg
}

// ComputeShmin scales the fracture gradient by a fixed empirical ratio to give
// minimum horizontal stress
func ComputeShmin(fgPpg []float64, ratio float64) []float64 {
	shmin := make([]float64, len(fgPpg))
	for i, fg := range fgPpg {
		shmin[i] = fg * ratio
	}
	return shmin
}
