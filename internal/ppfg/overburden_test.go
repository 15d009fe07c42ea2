package ppfg

import (
	"math"
	"testing"
)

func TestComputeOverburden(t *testing.T) {
	tests := []struct {
		name        string
		depths      []float64
		rhob        []float64
		env         EnvironmentParams
		expectedPsi []float64
		expectedPpg []float64
		epsilon     float64
	}{
		{
			name:        "constant density onshore",
			depths:      []float64{0, 1000, 5000, 10000},
			rhob:        []float64{2.3, 2.3, 2.3, 2.3},
			expectedPsi: []float64{0, 997.05, 4985.25, 9970.5},
			expectedPpg: []float64{8.5, 19.174, 19.174, 19.174},
			epsilon:     0.01,
		},
		{
			name:        "missing density uses default",
			depths:      []float64{0, 1000},
			rhob:        []float64{2.3, math.NaN()},
			expectedPsi: []float64{0, 867},
			expectedPpg: []float64{8.5, 16.673},
			epsilon:     0.01,
		},
		{
			name:        "zero density uses default",
			depths:      []float64{0, 1000},
			rhob:        []float64{2.3, 0},
			expectedPsi: []float64{0, 867},
			expectedPpg: []float64{8.5, 16.673},
			epsilon:     0.01,
		},
		{
			name:        "interval straddling the datum",
			depths:      []float64{500, 2000},
			rhob:        []float64{2.2, 2.2},
			env:         EnvironmentParams{WaterDepth: 900, AirGap: 100},
			expectedPsi: []float64{220, 1650.55},
			expectedPpg: []float64{8.5, 15.871},
			epsilon:     0.01,
		},
		{
			name:        "first sample below the datum",
			depths:      []float64{2000},
			rhob:        []float64{2.2},
			env:         EnvironmentParams{WaterDepth: 1000},
			expectedPsi: []float64{1393.7},
			expectedPpg: []float64{13.401},
			epsilon:     0.01,
		},
		{
			name:        "empty",
			depths:      []float64{},
			rhob:        []float64{},
			expectedPsi: []float64{},
			expectedPpg: []float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			psi, ppg := ComputeOverburden(tt.depths, tt.rhob, tt.env, DefaultCalibration())

			if len(psi) != len(tt.expectedPsi) || len(ppg) != len(tt.expectedPpg) {
				t.Fatalf("expected %d results, got %d psi and %d ppg", len(tt.expectedPsi), len(psi), len(ppg))
			}

			for i := range psi {
				if math.Abs(psi[i]-tt.expectedPsi[i]) > tt.epsilon {
					t.Errorf("psi[%d]: expected %.3f ± %.3f, got %.3f", i, tt.expectedPsi[i], tt.epsilon, psi[i])
				}
				if math.Abs(ppg[i]-tt.expectedPpg[i]) > tt.epsilon {
					t.Errorf("ppg[%d]: expected %.3f ± %.3f, got %.3f", i, tt.expectedPpg[i], tt.epsilon, ppg[i])
				}
			}
		})
	}
}

func TestComputeOverburdenMonotonic(t *testing.T) {
	envs := []EnvironmentParams{
		{},
		{WaterDepth: 500, AirGap: 80},
		{WaterDepth: 3000, AirGap: 100},
	}

	var depths, rhob []float64
	for z := 0.0; z <= 15000; z += 250 {
		depths = append(depths, z)
		rhob = append(rhob, 2.25)
	}

	for _, env := range envs {
		psi, ppg := ComputeOverburden(depths, rhob, env, DefaultCalibration())
		for i := 1; i < len(depths); i++ {
			if psi[i] < psi[i-1] {
				t.Errorf("env %+v: pressure decreased at %.0f ft: %.2f -> %.2f", env, depths[i], psi[i-1], psi[i])
			}
			if ppg[i] < ppg[i-1]-1e-9 {
				t.Errorf("env %+v: gradient decreased at %.0f ft: %.4f -> %.4f", env, depths[i], ppg[i-1], ppg[i])
			}
		}
	}
}

func TestComputeOverburdenCalibrationOverride(t *testing.T) {
	cal := DefaultCalibration()
	cal.SeawaterGradient = 8.6
	cal.DefaultDensity = 2.1

	_, ppg := ComputeOverburden([]float64{0, 1000}, []float64{math.NaN(), math.NaN()}, EnvironmentParams{}, cal)

	if ppg[0] != 8.6 {
		t.Errorf("expected seawater gradient 8.6 at datum, got %.3f", ppg[0])
	}
	expected := 2.1 * DensityToPsiPerFt / PsiPerFtToPpg
	if math.Abs(ppg[1]-expected) > 1e-9 {
		t.Errorf("expected %.4f with overridden default density, got %.4f", expected, ppg[1])
	}
}
