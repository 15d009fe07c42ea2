// Package wellinput loads log curves that have already been decoded into arrays
// (by a LAS/CSV/XLSX parser upstream) from YAML or JSON bundles.
package wellinput

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/chrissnell/ppfg/internal/ppfg"
	"gopkg.in/yaml.v2"
)

// DefaultNullValue is the conventional LAS null sentinel
const DefaultNullValue = -999.25

// Curve is a sequence of log samples. A null in the encoded form decodes to NaN
// and NaN encodes back to null.
type Curve []float64

// UnmarshalJSON decodes a JSON array that may contain nulls
func (c *Curve) UnmarshalJSON(data []byte) error {
	var raw []*float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = fromPointers(raw)
	return nil
}

// MarshalJSON encodes NaN samples as null
func (c Curve) MarshalJSON() ([]byte, error) {
	raw := make([]*float64, len(c))
	for i := range c {
		if !math.IsNaN(c[i]) {
			v := c[i]
			raw[i] = &v
		}
	}
	return json.Marshal(raw)
}

// UnmarshalYAML decodes a YAML sequence that may contain nulls or ~
func (c *Curve) UnmarshalYAML(unmarshal func(any) error) error {
	var raw []*float64
	if err := unmarshal(&raw); err != nil {
		return err
	}
	*c = fromPointers(raw)
	return nil
}

func fromPointers(raw []*float64) Curve {
	out := make(Curve, len(raw))
	for i, v := range raw {
		if v == nil {
			out[i] = math.NaN()
		} else {
			out[i] = *v
		}
	}
	return out
}

// Bundle is one well's decoded logs. Only Depths, RHOB and DT feed the engine;
// any other curves are carried through untouched.
type Bundle struct {
	Name   string           `json:"name,omitempty" yaml:"name,omitempty"`
	Depths Curve            `json:"depths" yaml:"depths"`
	RHOB   Curve            `json:"rhob" yaml:"rhob"`
	DT     Curve            `json:"dt" yaml:"dt"`
	Curves map[string]Curve `json:"curves,omitempty" yaml:"curves,omitempty"`

	// NullValue marks missing samples in RHOB and DT. Nil means DefaultNullValue.
	NullValue *float64 `json:"null_value,omitempty" yaml:"null_value,omitempty"`
}

// WellLogs converts the bundle to engine input, turning null sentinels into NaN.
// Structural validation is left to the engine.
func (b Bundle) WellLogs() ppfg.WellLogs {
	null := DefaultNullValue
	if b.NullValue != nil {
		null = *b.NullValue
	}

	return ppfg.WellLogs{
		Depths: append([]float64(nil), b.Depths...),
		RHOB:   replaceNull(b.RHOB, null),
		DT:     replaceNull(b.DT, null),
	}
}

func replaceNull(c Curve, null float64) []float64 {
	out := make([]float64, len(c))
	for i, v := range c {
		if v == null {
			out[i] = math.NaN()
		} else {
			out[i] = v
		}
	}
	return out
}

// Load reads a bundle from a .yaml, .yml or .json file
func Load(filename string) (*Bundle, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var format string
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		format = "json"
	case ".yaml", ".yml":
		format = "yaml"
	default:
		return nil, fmt.Errorf("unsupported well file extension %q: use .yaml, .yml or .json", filepath.Ext(filename))
	}

	b, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("error decoding %s: %w", filename, err)
	}
	return b, nil
}

// Decode parses a bundle in the named format ("json" or "yaml")
func Decode(data []byte, format string) (*Bundle, error) {
	var b Bundle
	switch format {
	case "json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&b); err != nil {
			return nil, err
		}
	case "yaml":
		if err := yaml.UnmarshalStrict(data, &b); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
	return &b, nil
}
