package config

import "github.com/chrissnell/ppfg/internal/ppfg"

// StaticProvider serves a configuration held in memory. It backs runs that have
// no configuration file and is handy in tests.
type StaticProvider struct {
	config *ConfigData
}

// NewStaticProvider wraps cfg. Server defaults are not applied here; callers
// get the values exactly as given.
func NewStaticProvider(cfg *ConfigData) *StaticProvider {
	return &StaticProvider{config: cfg}
}

// LoadConfig returns the wrapped configuration after validating it
func (s *StaticProvider) LoadConfig() (*ConfigData, error) {
	if err := s.config.Validate(); err != nil {
		return nil, err
	}
	return s.config, nil
}

// GetEngineParams returns the engine parameter defaults
func (s *StaticProvider) GetEngineParams() (ppfg.Params, error) {
	return s.config.Engine, nil
}

// GetServerConfig returns the HTTP API settings
func (s *StaticProvider) GetServerConfig() (*ServerData, error) {
	return &s.config.Server, nil
}

// GetPresets returns the named parameter presets
func (s *StaticProvider) GetPresets() ([]PresetData, error) {
	return s.config.Presets, nil
}

// IsReadOnly returns true
func (s *StaticProvider) IsReadOnly() bool {
	return true
}

// Close is a no-op
func (s *StaticProvider) Close() error {
	return nil
}
