package ppfg

import (
	"errors"
	"math"
	"testing"
)

func TestComputeNormalTrend(t *testing.T) {
	nct := ComputeNormalTrend([]float64{0, 5000, 10000}, CompactionParams{A: 140, B: 0.0001})
	expected := []float64{140, 84.915, 51.503}

	for i := range nct {
		if math.Abs(nct[i]-expected[i]) > 0.01 {
			t.Errorf("nct[%d]: expected %.3f, got %.3f", i, expected[i], nct[i])
		}
	}
}

func TestFitNormalTrend(t *testing.T) {
	want := CompactionParams{A: 150, B: 0.00012}

	var depths []float64
	for z := 1000.0; z <= 12000; z += 500 {
		depths = append(depths, z)
	}
	dt := ComputeNormalTrend(depths, want)

	t.Run("recovers exact trend", func(t *testing.T) {
		fit, err := FitNormalTrend(depths, dt, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if math.Abs(fit.Params.A-want.A) > 1e-6 {
			t.Errorf("expected a=%.4f, got %.4f", want.A, fit.Params.A)
		}
		if math.Abs(fit.Params.B-want.B) > 1e-10 {
			t.Errorf("expected b=%.6f, got %.6f", want.B, fit.Params.B)
		}
		if fit.RSquared < 0.9999 {
			t.Errorf("expected r² ≈ 1, got %.6f", fit.RSquared)
		}
		if fit.SampleCount != len(depths) {
			t.Errorf("expected %d samples, got %d", len(depths), fit.SampleCount)
		}
	})

	t.Run("mask excludes non-shale points", func(t *testing.T) {
		noisy := make([]float64, len(dt))
		copy(noisy, dt)
		mask := make([]bool, len(dt))
		for i := range mask {
			mask[i] = true
		}
		// Sands and gaps that should not influence the trend
		noisy[3], mask[3] = 40, false
		noisy[7], mask[7] = 250, false
		noisy[9] = math.NaN()

		fit, err := FitNormalTrend(depths, noisy, mask)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if math.Abs(fit.Params.A-want.A) > 1e-6 || math.Abs(fit.Params.B-want.B) > 1e-10 {
			t.Errorf("expected %+v, got %+v", want, fit.Params)
		}
		if fit.SampleCount != len(depths)-3 {
			t.Errorf("expected %d samples, got %d", len(depths)-3, fit.SampleCount)
		}
	})

	t.Run("too few points", func(t *testing.T) {
		_, err := FitNormalTrend([]float64{1000, 2000}, []float64{100, math.NaN()}, nil)
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("length mismatch", func(t *testing.T) {
		_, err := FitNormalTrend([]float64{1000, 2000}, []float64{100}, nil)
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}
