// Package config provides YAML-based configuration for the Press Cycle
// Analyzer server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// AppConfig is the root configuration.
type AppConfig struct {
	Server         ServerConfig         `yaml:"server"`
	Storage        StorageConfig        `yaml:"storage"`
	Processing     ProcessingConfig     `yaml:"processing"`
	Simulation     SimulationConfig     `yaml:"simulation"`
	Reconstruction ReconstructionConfig `yaml:"reconstruction"`
}

// ServerConfig contains the HTTP server settings.
type ServerConfig struct {
	Port         int    `yaml:"port"`
	BindAddress  string `yaml:"bindAddress"`
	EnableCORS   bool   `yaml:"enableCors"`
	AllowOrigins string `yaml:"allowOrigins"`
	ReadTimeout  int    `yaml:"readTimeoutSeconds"`
	WriteTimeout int    `yaml:"writeTimeoutSeconds"`
	IdleTimeout  int    `yaml:"idleTimeoutSeconds"`
	BodyLimit    string `yaml:"bodyLimit"`
}

// StorageConfig contains file storage settings.
type StorageConfig struct {
	DataDirectory   string `yaml:"dataDirectory"`
	UploadDirectory string `yaml:"uploadDirectory"`
	TempDirectory   string `yaml:"tempDirectory"`
}

// ProcessingConfig contains session lifecycle settings.
type ProcessingConfig struct {
	SessionTimeoutMinutes  int  `yaml:"sessionTimeoutMinutes"`
	CleanupIntervalMinutes int  `yaml:"cleanupIntervalMinutes"`
	LargeSeriesThreshold   int  `yaml:"largeSeriesThreshold"` // rows; above this a session spills to DuckDB
	EnableRequestLogging   bool `yaml:"enableRequestLogging"`
}

// SimulationConfig tunes the duty-cycle simulator sampling. Historical
// revisions of the tool differed only in these constants; they are
// configuration now, not parallel code paths.
type SimulationConfig struct {
	StepSeconds        float64 `yaml:"stepSeconds"`
	VariationAmplitude float64 `yaml:"variationAmplitude"`
}

// ReconstructionConfig tunes the log reconstruction pipeline.
type ReconstructionConfig struct {
	// AssumedPumpEfficiency is applied when deriving motor power from
	// logged data, where the real efficiency is unknowable.
	AssumedPumpEfficiency float64 `yaml:"assumedPumpEfficiency"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:         8092,
			BindAddress:  "0.0.0.0",
			EnableCORS:   true,
			AllowOrigins: "*",
			ReadTimeout:  30,
			WriteTimeout: 30,
			IdleTimeout:  120,
			BodyLimit:    "64M",
		},
		Storage: StorageConfig{
			DataDirectory:   "./data",
			UploadDirectory: "./data/uploads",
			TempDirectory:   "./data/temp",
		},
		Processing: ProcessingConfig{
			SessionTimeoutMinutes:  30,
			CleanupIntervalMinutes: 5,
			LargeSeriesThreshold:   50000,
			EnableRequestLogging:   true,
		},
		Simulation: SimulationConfig{
			StepSeconds:        0.25,
			VariationAmplitude: 0.02,
		},
		Reconstruction: ReconstructionConfig{
			AssumedPumpEfficiency: 0.9,
		},
	}
}

// LoadConfig loads configuration from a YAML file. A missing file is
// created with the defaults so a fresh deployment has something to edit.
func LoadConfig(configPath string) (*AppConfig, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := cfg.Save(configPath); err != nil {
			return nil, fmt.Errorf("creating default config: %w", err)
		}
		cfg.applyEnvironmentOverrides()
		cfg.resolvePaths(filepath.Dir(configPath))
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnvironmentOverrides()
	cfg.resolvePaths(filepath.Dir(configPath))

	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *AppConfig) Save(configPath string) error {
	out, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	header := []byte("# Press Cycle Analyzer configuration\n# Auto-generated on first run\n\n")
	if err := os.WriteFile(configPath, append(header, out...), 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// applyEnvironmentOverrides lets the environment override file values.
func (c *AppConfig) applyEnvironmentOverrides() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}
	if dataDir := os.Getenv("DATA_DIR"); dataDir != "" {
		c.Storage.DataDirectory = dataDir
	}
	if tempDir := os.Getenv("DUCKDB_TEMP_DIR"); tempDir != "" {
		c.Storage.TempDirectory = tempDir
	}
}

// resolvePaths converts relative storage paths to absolute, anchored at
// the config file's directory.
func (c *AppConfig) resolvePaths(configDir string) {
	for _, p := range []*string{
		&c.Storage.DataDirectory,
		&c.Storage.UploadDirectory,
		&c.Storage.TempDirectory,
	} {
		if !filepath.IsAbs(*p) {
			*p = filepath.Join(configDir, *p)
		}
	}
}

// GetServerAddr returns the server bind address.
func (c *AppConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddress, c.Server.Port)
}

// EnsureDirectories creates all storage directories.
func (c *AppConfig) EnsureDirectories() error {
	for _, dir := range []string{
		c.Storage.DataDirectory,
		c.Storage.UploadDirectory,
		c.Storage.TempDirectory,
	} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	return nil
}
