package config

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/chrissnell/ppfg/internal/ppfg"
	_ "modernc.org/sqlite"
)

// defaultParamSet is the parameter_sets row holding the engine defaults
const defaultParamSet = "default"

const schema = `
CREATE TABLE IF NOT EXISTS server_config (
	id               INTEGER PRIMARY KEY CHECK (id = 1),
	listen_addr      TEXT,
	http_port        INTEGER,
	read_timeout_ms  INTEGER,
	write_timeout_ms INTEGER,
	max_body_bytes   INTEGER,
	tls_cert_path    TEXT,
	tls_key_path     TEXT
);

CREATE TABLE IF NOT EXISTS parameter_sets (
	name                    TEXT PRIMARY KEY,
	description             TEXT,
	water_depth             REAL NOT NULL,
	air_gap                 REAL NOT NULL,
	nct_a                   REAL NOT NULL,
	nct_b                   REAL NOT NULL,
	hydrostatic_gradient    REAL NOT NULL,
	eaton_exponent          REAL NOT NULL,
	poisson_ratio           REAL NOT NULL,
	default_density         REAL NOT NULL,
	water_pressure_gradient REAL NOT NULL,
	seawater_gradient       REAL NOT NULL,
	shmin_ratio             REAL NOT NULL,
	updated_at              TEXT NOT NULL
);
`

// SQLiteProvider implements ConfigProvider for SQLite database configuration
type SQLiteProvider struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteProvider creates a new SQLite configuration provider, creating the
// schema if the database is new
func NewSQLiteProvider(dbPath string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteProvider{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// LoadConfig loads the complete configuration from SQLite database
func (s *SQLiteProvider) LoadConfig() (*ConfigData, error) {
	config := &ConfigData{}

	engine, err := s.GetEngineParams()
	if err != nil {
		return nil, fmt.Errorf("failed to load engine parameters: %w", err)
	}
	config.Engine = engine

	server, err := s.GetServerConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load server config: %w", err)
	}
	config.Server = *server

	presets, err := s.GetPresets()
	if err != nil {
		return nil, fmt.Errorf("failed to load presets: %w", err)
	}
	config.Presets = presets

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// GetEngineParams returns the default parameter set, or the built-in defaults
// when none has been saved
func (s *SQLiteProvider) GetEngineParams() (ppfg.Params, error) {
	row := s.db.QueryRow(selectParamSet+` WHERE name = ?`, defaultParamSet)

	preset, err := scanParamSet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ppfg.DefaultParams(), nil
	}
	if err != nil {
		return ppfg.Params{}, err
	}
	return preset.Params, nil
}

// GetServerConfig returns the HTTP API settings with defaults applied
func (s *SQLiteProvider) GetServerConfig() (*ServerData, error) {
	query := `
		SELECT listen_addr, http_port, read_timeout_ms, write_timeout_ms,
		       max_body_bytes, tls_cert_path, tls_key_path
		FROM server_config
		WHERE id = 1
	`

	var listenAddr, certPath, keyPath sql.NullString
	var port, readMS, writeMS, maxBody sql.NullInt64

	server := &ServerData{}
	err := s.db.QueryRow(query).Scan(&listenAddr, &port, &readMS, &writeMS, &maxBody, &certPath, &keyPath)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to query server config: %w", err)
	}

	if listenAddr.Valid {
		server.ListenAddr = listenAddr.String
	}
	if port.Valid {
		server.HTTPPort = int(port.Int64)
	}
	if readMS.Valid {
		server.ReadTimeout = time.Duration(readMS.Int64) * time.Millisecond
	}
	if writeMS.Valid {
		server.WriteTimeout = time.Duration(writeMS.Int64) * time.Millisecond
	}
	if maxBody.Valid {
		server.MaxBodyBytes = maxBody.Int64
	}
	if certPath.Valid {
		server.TLSCertPath = certPath.String
	}
	if keyPath.Valid {
		server.TLSKeyPath = keyPath.String
	}

	server.ApplyDefaults()
	return server, nil
}

// GetPresets returns every saved parameter set except the engine defaults
func (s *SQLiteProvider) GetPresets() ([]PresetData, error) {
	rows, err := s.db.Query(selectParamSet+` WHERE name != ? ORDER BY name`, defaultParamSet)
	if err != nil {
		return nil, fmt.Errorf("failed to query presets: %w", err)
	}
	defer rows.Close()

	var presets []PresetData
	for rows.Next() {
		preset, err := scanParamSet(rows)
		if err != nil {
			return nil, err
		}
		presets = append(presets, preset)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating presets: %w", err)
	}
	return presets, nil
}

// IsReadOnly returns false since SQLite supports writes
func (s *SQLiteProvider) IsReadOnly() bool {
	return false
}

// Close closes the database connection
func (s *SQLiteProvider) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Write methods for configuration management

// SaveConfig replaces the stored configuration in one transaction
func (s *SQLiteProvider) SaveConfig(configData *ConfigData) error {
	if err := configData.Validate(); err != nil {
		return err
	}

	// Start transaction
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM parameter_sets`); err != nil {
		return fmt.Errorf("failed to clear parameter sets: %w", err)
	}

	if err := s.insertParamSet(tx, PresetData{Name: defaultParamSet, Params: configData.Engine}); err != nil {
		return fmt.Errorf("failed to insert engine parameters: %w", err)
	}

	for _, preset := range configData.Presets {
		if preset.Name == defaultParamSet {
			return fmt.Errorf("preset name %q is reserved", defaultParamSet)
		}
		if err := s.insertParamSet(tx, preset); err != nil {
			return fmt.Errorf("failed to insert preset %s: %w", preset.Name, err)
		}
	}

	if err := s.upsertServerConfig(tx, &configData.Server); err != nil {
		return fmt.Errorf("failed to save server config: %w", err)
	}

	// Commit transaction
	return tx.Commit()
}

// SavePreset inserts or replaces a single named preset
func (s *SQLiteProvider) SavePreset(preset PresetData) error {
	if preset.Name == "" || preset.Name == defaultParamSet {
		return fmt.Errorf("invalid preset name %q", preset.Name)
	}
	if err := preset.Params.Validate(); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.insertParamSet(tx, preset); err != nil {
		return err
	}
	return tx.Commit()
}

const selectParamSet = `
	SELECT name, description, water_depth, air_gap, nct_a, nct_b,
	       hydrostatic_gradient, eaton_exponent, poisson_ratio,
	       default_density, water_pressure_gradient, seawater_gradient, shmin_ratio
	FROM parameter_sets`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanParamSet(row rowScanner) (PresetData, error) {
	var preset PresetData
	var description sql.NullString
	p := &preset.Params

	err := row.Scan(
		&preset.Name, &description,
		&p.Environment.WaterDepth, &p.Environment.AirGap,
		&p.Compaction.A, &p.Compaction.B,
		&p.Eaton.HydrostaticGradient, &p.Eaton.Exponent,
		&p.Elastic.PoissonRatio,
		&p.Calibration.DefaultDensity, &p.Calibration.WaterPressureGradient,
		&p.Calibration.SeawaterGradient, &p.Calibration.ShminRatio,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return PresetData{}, err
		}
		return PresetData{}, fmt.Errorf("failed to scan parameter set: %w", err)
	}

	if description.Valid {
		preset.Description = description.String
	}
	return preset, nil
}

func (s *SQLiteProvider) insertParamSet(tx *sql.Tx, preset PresetData) error {
	query := `
		INSERT OR REPLACE INTO parameter_sets (
			name, description, water_depth, air_gap, nct_a, nct_b,
			hydrostatic_gradient, eaton_exponent, poisson_ratio,
			default_density, water_pressure_gradient, seawater_gradient, shmin_ratio,
			updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, datetime('now'))
	`

	var description sql.NullString
	if preset.Description != "" {
		description = sql.NullString{String: preset.Description, Valid: true}
	}

	p := preset.Params
	_, err := tx.Exec(query,
		preset.Name, description,
		p.Environment.WaterDepth, p.Environment.AirGap,
		p.Compaction.A, p.Compaction.B,
		p.Eaton.HydrostaticGradient, p.Eaton.Exponent,
		p.Elastic.PoissonRatio,
		p.Calibration.DefaultDensity, p.Calibration.WaterPressureGradient,
		p.Calibration.SeawaterGradient, p.Calibration.ShminRatio,
	)
	return err
}

func (s *SQLiteProvider) upsertServerConfig(tx *sql.Tx, server *ServerData) error {
	query := `
		INSERT OR REPLACE INTO server_config (
			id, listen_addr, http_port, read_timeout_ms, write_timeout_ms,
			max_body_bytes, tls_cert_path, tls_key_path
		) VALUES (1, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := tx.Exec(query,
		nullString(server.ListenAddr),
		nullInt(int64(server.HTTPPort)),
		nullInt(server.ReadTimeout.Milliseconds()),
		nullInt(server.WriteTimeout.Milliseconds()),
		nullInt(server.MaxBodyBytes),
		nullString(server.TLSCertPath),
		nullString(server.TLSKeyPath),
	)
	return err
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(i int64) sql.NullInt64 {
	return sql.NullInt64{Int64: i, Valid: i != 0}
}
