package wellinput

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestDecodeJSONNulls(t *testing.T) {
	data := []byte(`{
		"name": "A-1",
		"depths": [0, 1000, 2000],
		"rhob": [2.2, null, 2.4],
		"dt": [140, 120, -999.25],
		"curves": {"gr": [55, null, 80]}
	}`)

	b, err := Decode(data, "json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Name != "A-1" {
		t.Errorf("expected name A-1, got %q", b.Name)
	}
	if !math.IsNaN(b.RHOB[1]) {
		t.Errorf("expected null rhob to decode as NaN, got %v", b.RHOB[1])
	}
	if !math.IsNaN(b.Curves["gr"][1]) {
		t.Errorf("expected pass-through curve to keep its null")
	}

	logs := b.WellLogs()
	if !math.IsNaN(logs.DT[2]) {
		t.Errorf("expected LAS null sentinel to become NaN, got %v", logs.DT[2])
	}
	if logs.RHOB[0] != 2.2 || logs.DT[1] != 120 {
		t.Errorf("valid samples changed: rhob %v dt %v", logs.RHOB, logs.DT)
	}
}

func TestDecodeYAMLCustomNull(t *testing.T) {
	data := []byte(`
name: B-2
null_value: -1
depths: [0, 500, 1000]
rhob: [2.1, ~, -1]
dt: [150, 145, 140]
`)

	b, err := Decode(data, "yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	logs := b.WellLogs()
	if !math.IsNaN(logs.RHOB[1]) || !math.IsNaN(logs.RHOB[2]) {
		t.Errorf("expected ~ and the custom null to become NaN, got %v", logs.RHOB)
	}
	if len(logs.Depths) != 3 || logs.Depths[2] != 1000 {
		t.Errorf("unexpected depths %v", logs.Depths)
	}
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	if _, err := Decode([]byte(`{"depths": [], "rhob": [], "dt": [], "gamma": []}`), "json"); err == nil {
		t.Errorf("expected an error for an unknown field")
	}
	if _, err := Decode([]byte("depths: []\nrhob: []\ndt: []\ngamma: []\n"), "yaml"); err == nil {
		t.Errorf("expected an error for an unknown field")
	}
}

func TestCurveMarshalJSON(t *testing.T) {
	out, err := json.Marshal(Curve{1.5, math.NaN(), 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != "[1.5,null,3]" {
		t.Errorf("expected [1.5,null,3], got %s", out)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "well.yaml")
	if err := os.WriteFile(path, []byte("depths: [0, 100]\nrhob: [2.0, 2.1]\ndt: [140, 139]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	b, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(b.Depths) != 2 {
		t.Errorf("expected 2 depths, got %d", len(b.Depths))
	}

	if _, err := Load(filepath.Join(dir, "well.las")); err == nil {
		t.Errorf("expected an error for an unsupported extension")
	}
}
