package config

import (
	"fmt"
	"os"
	"time"

	"github.com/chrissnell/ppfg/internal/ppfg"
	"gopkg.in/yaml.v2"
)

// YAMLProvider implements ConfigProvider for YAML configuration files
type YAMLProvider struct {
	filename string
	config   *ConfigData
}

// NewYAMLProvider creates a new YAML configuration provider
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

// LoadConfig loads the complete configuration from YAML file.
// Keys missing from the engine section keep their defaults and presets are
// overlaid on the resulting engine parameters.
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}

	config, err := parseYAML(cfgFile)
	if err != nil {
		return nil, err
	}

	y.config = config
	return config, nil
}

func parseYAML(data []byte) (*ConfigData, error) {
	// Load into temporary struct with YAML tags
	yamlConfig := struct {
		Engine  ppfg.Params  `yaml:"engine"`
		Server  ServerYAML   `yaml:"server,omitempty"`
		Presets []PresetYAML `yaml:"presets,omitempty"`
	}{
		Engine: ppfg.DefaultParams(),
	}

	if err := yaml.UnmarshalStrict(data, &yamlConfig); err != nil {
		return nil, err
	}

	config := &ConfigData{
		Engine: yamlConfig.Engine,
		Server: ServerData{
			ListenAddr:   yamlConfig.Server.ListenAddr,
			HTTPPort:     yamlConfig.Server.HTTPPort,
			ReadTimeout:  yamlConfig.Server.ReadTimeout,
			WriteTimeout: yamlConfig.Server.WriteTimeout,
			MaxBodyBytes: yamlConfig.Server.MaxBodyBytes,
			TLSCertPath:  yamlConfig.Server.TLSCertPath,
			TLSKeyPath:   yamlConfig.Server.TLSKeyPath,
		},
		Presets: make([]PresetData, len(yamlConfig.Presets)),
	}
	config.Server.ApplyDefaults()

	for i, preset := range yamlConfig.Presets {
		params := config.Engine
		if preset.Params != nil {
			// Round-trip the raw mapping onto a copy of the engine parameters
			raw, err := yaml.Marshal(preset.Params)
			if err != nil {
				return nil, fmt.Errorf("preset %s: %w", preset.Name, err)
			}
			if err := yaml.UnmarshalStrict(raw, &params); err != nil {
				return nil, fmt.Errorf("preset %s: %w", preset.Name, err)
			}
		}

		config.Presets[i] = PresetData{
			Name:        preset.Name,
			Description: preset.Description,
			Params:      params,
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// GetEngineParams returns the engine parameter defaults
func (y *YAMLProvider) GetEngineParams() (ppfg.Params, error) {
	if y.config == nil {
		_, err := y.LoadConfig()
		if err != nil {
			return ppfg.Params{}, err
		}
	}
	return y.config.Engine, nil
}

// GetServerConfig returns the HTTP API settings
func (y *YAMLProvider) GetServerConfig() (*ServerData, error) {
	if y.config == nil {
		_, err := y.LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	return &y.config.Server, nil
}

// GetPresets returns the named parameter presets
func (y *YAMLProvider) GetPresets() ([]PresetData, error) {
	if y.config == nil {
		_, err := y.LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	return y.config.Presets, nil
}

// IsReadOnly returns true since YAML files are read-only through this interface
func (y *YAMLProvider) IsReadOnly() bool {
	return true
}

// Close is a no-op for YAML provider
func (y *YAMLProvider) Close() error {
	return nil
}

// ServerYAML is the server section of the YAML file
type ServerYAML struct {
	ListenAddr   string        `yaml:"listen_addr,omitempty"`
	HTTPPort     int           `yaml:"http_port,omitempty"`
	ReadTimeout  time.Duration `yaml:"read_timeout,omitempty"`
	WriteTimeout time.Duration `yaml:"write_timeout,omitempty"`
	MaxBodyBytes int64         `yaml:"max_body_bytes,omitempty"`
	TLSCertPath  string        `yaml:"tls_cert_path,omitempty"`
	TLSKeyPath   string        `yaml:"tls_key_path,omitempty"`
}

// PresetYAML is one entry of the presets list. Params is kept raw so that it can
// be overlaid on the engine defaults.
type PresetYAML struct {
	Name        string                 `yaml:"name"`
	Description string                 `yaml:"description,omitempty"`
	Params      map[string]interface{} `yaml:"params,omitempty"`
}
