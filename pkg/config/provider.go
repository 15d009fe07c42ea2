package config

import (
	"fmt"
	"time"

	"github.com/chrissnell/ppfg/internal/ppfg"
)

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)

	// Get specific configuration sections
	GetEngineParams() (ppfg.Params, error)
	GetServerConfig() (*ServerData, error)
	GetPresets() ([]PresetData, error)

	IsReadOnly() bool
	Close() error
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	// Engine holds the parameter defaults applied to every run
	Engine  ppfg.Params  `json:"engine"`
	Server  ServerData   `json:"server"`
	Presets []PresetData `json:"presets,omitempty"`
}

// ServerData holds the HTTP API settings
type ServerData struct {
	ListenAddr   string        `json:"listen_addr,omitempty"`
	HTTPPort     int           `json:"http_port,omitempty"`
	ReadTimeout  time.Duration `json:"read_timeout,omitempty"`
	WriteTimeout time.Duration `json:"write_timeout,omitempty"`
	MaxBodyBytes int64         `json:"max_body_bytes,omitempty"`
	TLSCertPath  string        `json:"tls_cert_path,omitempty"`
	TLSKeyPath   string        `json:"tls_key_path,omitempty"`
}

// PresetData is a named parameter bundle, e.g. a calibration for one basin
type PresetData struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Params      ppfg.Params `json:"params"`
}

// Server defaults
const (
	DefaultListenAddr   = "0.0.0.0"
	DefaultHTTPPort     = 8080
	DefaultReadTimeout  = 30 * time.Second
	DefaultWriteTimeout = 60 * time.Second
	DefaultMaxBodyBytes = 32 << 20
)

// ApplyDefaults fills unset server settings
func (s *ServerData) ApplyDefaults() {
	if s.ListenAddr == "" {
		s.ListenAddr = DefaultListenAddr
	}
	if s.HTTPPort == 0 {
		s.HTTPPort = DefaultHTTPPort
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = DefaultReadTimeout
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = DefaultWriteTimeout
	}
	if s.MaxBodyBytes == 0 {
		s.MaxBodyBytes = DefaultMaxBodyBytes
	}
}

// Validate checks the engine defaults, every preset and the server settings
func (c *ConfigData) Validate() error {
	if err := c.Engine.Validate(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}

	seen := make(map[string]bool)
	for _, p := range c.Presets {
		if p.Name == "" {
			return fmt.Errorf("preset with empty name")
		}
		if seen[p.Name] {
			return fmt.Errorf("duplicate preset name: %s", p.Name)
		}
		seen[p.Name] = true

		if err := p.Params.Validate(); err != nil {
			return fmt.Errorf("preset %s: %w", p.Name, err)
		}
	}

	if c.Server.HTTPPort < 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port out of range: %d", c.Server.HTTPPort)
	}
	if (c.Server.TLSCertPath == "") != (c.Server.TLSKeyPath == "") {
		return fmt.Errorf("server.tls_cert_path and server.tls_key_path must be set together")
	}
	return nil
}

// FindPreset returns the preset with the given name
func FindPreset(presets []PresetData, name string) (PresetData, bool) {
	for _, p := range presets {
		if p.Name == name {
			return p, true
		}
	}
	return PresetData{}, false
}
