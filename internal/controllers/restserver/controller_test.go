package restserver

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/chrissnell/ppfg/internal/ppfg"
	"github.com/chrissnell/ppfg/pkg/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newTestServer(t *testing.T, maxBody int64) *httptest.Server {
	t.Helper()

	deepwater := ppfg.DefaultParams()
	deepwater.Environment.WaterDepth = 5000

	provider := config.NewStaticProvider(&config.ConfigData{
		Engine:  ppfg.DefaultParams(),
		Server:  config.ServerData{MaxBodyBytes: maxBody},
		Presets: []config.PresetData{{Name: "deepwater", Params: deepwater}},
	})

	ctrl, err := NewController(context.Background(), &sync.WaitGroup{}, provider, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	srv := httptest.NewServer(ctrl.Handler())
	t.Cleanup(srv.Close)
	return srv
}

// wellJSON builds a request well that is 25% slow below 5000 ft
func wellJSON() map[string]any {
	var depths, rhob, dt []any
	p := ppfg.DefaultParams()
	for z := 0.0; z <= 10000; z += 1000 {
		v := p.Compaction.A * math.Exp(-p.Compaction.B*z)
		if z >= 5000 {
			v *= 1.25
		}
		depths = append(depths, z)
		rhob = append(rhob, 2.3)
		dt = append(dt, v)
	}
	// One gap in the density log
	rhob[3] = nil
	return map[string]any{"depths": depths, "rhob": rhob, "dt": dt}
}

func post(t *testing.T, srv *httptest.Server, path string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(srv.URL+path, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestWorkflowEndpoint(t *testing.T) {
	srv := newTestServer(t, 0)

	resp := post(t, srv, "/api/v1/workflow", map[string]any{"well": wellJSON()})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var out WorkflowResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if out.RunID == "" {
		t.Errorf("expected a run id")
	}
	if len(out.Profile.PP) != 11 {
		t.Fatalf("expected 11 depths, got %d", len(out.Profile.PP))
	}
	if len(out.Profile.Degenerate.Density) != 1 || out.Profile.Degenerate.Density[0] != 3 {
		t.Errorf("expected the null density at index 3 to be reported, got %v", out.Profile.Degenerate.Density)
	}
	if out.Summary.MaxPP <= ppfg.DefaultHydrostaticGradient {
		t.Errorf("expected overpressure in the summary, got %.3f", out.Summary.MaxPP)
	}
}

func TestWorkflowEndpointParams(t *testing.T) {
	srv := newTestServer(t, 0)

	t.Run("preset with overlay", func(t *testing.T) {
		resp := post(t, srv, "/api/v1/workflow", map[string]any{
			"well":   wellJSON(),
			"preset": "deepwater",
			"params": map[string]any{"eaton": map[string]any{"exponent": 2.5}},
		})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}

		var out WorkflowResponse
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if out.Params.Environment.WaterDepth != 5000 || out.Params.Eaton.Exponent != 2.5 {
			t.Errorf("expected preset plus overlay, got %+v", out.Params)
		}
		if out.Params.Eaton.HydrostaticGradient != ppfg.DefaultHydrostaticGradient {
			t.Errorf("overlay should keep unspecified values")
		}
	})

	tests := []struct {
		name   string
		body   map[string]any
		status int
	}{
		{"unknown preset", map[string]any{"well": wellJSON(), "preset": "nope"}, http.StatusBadRequest},
		{"invalid poisson ratio", map[string]any{"well": wellJSON(), "params": map[string]any{"elastic": map[string]any{"poisson_ratio": 0.8}}}, http.StatusBadRequest},
		{"unknown param", map[string]any{"well": wellJSON(), "params": map[string]any{"eatn": 1}}, http.StatusBadRequest},
		{"mismatched arrays", map[string]any{"well": map[string]any{"depths": []float64{0, 1}, "rhob": []float64{2}, "dt": []float64{1, 1}}}, http.StatusBadRequest},
		{"unsorted depths", map[string]any{"well": map[string]any{"depths": []float64{1, 0}, "rhob": []float64{2, 2}, "dt": []float64{1, 1}}}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, srv, "/api/v1/workflow", tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("expected %d, got %d", tt.status, resp.StatusCode)
			}
			var out map[string]string
			if err := json.NewDecoder(resp.Body).Decode(&out); err != nil || out["error"] == "" {
				t.Errorf("expected an error message, got %v (%v)", out, err)
			}
		})
	}
}

func TestEngineEndpoints(t *testing.T) {
	srv := newTestServer(t, 0)
	body := map[string]any{"well": wellJSON()}

	t.Run("probabilistic", func(t *testing.T) {
		resp := post(t, srv, "/api/v1/probabilistic", body)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		var out ProbabilisticResponse
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(out.Cases) != 11 {
			t.Errorf("expected 11 records, got %d", len(out.Cases))
		}
	})

	t.Run("sensitivity", func(t *testing.T) {
		resp := post(t, srv, "/api/v1/sensitivity", body)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		var out SensitivityResponse
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(out.Results) != 4 {
			t.Errorf("expected 4 results, got %d", len(out.Results))
		}
	})

	t.Run("envelope", func(t *testing.T) {
		resp := post(t, srv, "/api/v1/envelope", body)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		var out EnvelopeResponse
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(out.Envelope.PPMax) != 11 {
			t.Errorf("expected 11 depths, got %d", len(out.Envelope.PPMax))
		}
	})

	t.Run("trend fit", func(t *testing.T) {
		resp := post(t, srv, "/api/v1/trend/fit", map[string]any{
			"depths": []float64{1000, 2000, 3000, 4000},
			"dt":     []any{126.68, 114.62, 103.71, nil},
		})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		var out ppfg.TrendFit
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if out.SampleCount != 3 || math.Abs(out.Params.A-140) > 0.5 {
			t.Errorf("unexpected fit %+v", out)
		}
	})
}

func TestParamsEndpoint(t *testing.T) {
	srv := newTestServer(t, 0)

	resp, err := http.Get(srv.URL + "/api/v1/params")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var out ParamsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if out.Defaults != ppfg.DefaultParams() {
		t.Errorf("unexpected defaults %+v", out.Defaults)
	}
	if len(out.Presets) != 1 || out.Presets[0].Name != "deepwater" {
		t.Errorf("unexpected presets %+v", out.Presets)
	}
}

func TestBodyLimit(t *testing.T) {
	srv := newTestServer(t, 64)

	resp := post(t, srv, "/api/v1/workflow", map[string]any{"well": wellJSON()})
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", resp.StatusCode)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, 0)

	resp, err := http.Get(srv.URL + "/api/v1/workflow")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", resp.StatusCode)
	}
}

func TestMsgPackResponse(t *testing.T) {
	srv := newTestServer(t, 0)

	resp, err := http.Get(srv.URL + "/healthz?format=msgpack")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/x-msgpack") {
		t.Errorf("expected msgpack content type, got %s", ct)
	}
}

func TestWriteResponseLogsEncodeFailure(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	provider := config.NewStaticProvider(&config.ConfigData{Engine: ppfg.DefaultParams()})

	ctrl, err := NewController(context.Background(), &sync.WaitGroup{}, provider, zap.New(core).Sugar())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/envelope", nil)
	ctrl.handlers.writeResponse(rec, req, http.StatusOK, map[string]float64{"pp": math.NaN()})

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
	if n := logs.FilterMessage("failed to write response").Len(); n != 1 {
		t.Errorf("expected one logged write failure, got %d", n)
	}
}
