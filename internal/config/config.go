package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging       LoggingConfig       `yaml:"logging" envconfig:"LOGGING"`
	Concentration ConcentrationConfig `yaml:"concentration" envconfig:"CONCENTRATION"`
	Trend         TrendConfig         `yaml:"trend" envconfig:"TREND"`
	Telemetry     TelemetryConfig     `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format      string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output      string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT"`
}

// ConcentrationConfig drives the concentration index tool
type ConcentrationConfig struct {
	Input         string   `yaml:"input" envconfig:"INPUT" validate:"omitempty,inputfile"`
	Sheet         string   `yaml:"sheet" envconfig:"SHEET"`
	RankingColumn string   `yaml:"ranking_column" envconfig:"RANKING_COLUMN" validate:"required"`
	HealthColumns []string `yaml:"health_columns" envconfig:"HEALTH_COLUMNS"`
	Output        string   `yaml:"output" envconfig:"OUTPUT" validate:"omitempty,tablefile"`
	Resolution    int      `yaml:"resolution" envconfig:"RESOLUTION" validate:"gte=2"`
	Workers       int      `yaml:"workers" envconfig:"WORKERS" validate:"gte=1,lte=256"`
}

// TrendConfig drives the trend tool
type TrendConfig struct {
	Input        string   `yaml:"input" envconfig:"INPUT" validate:"omitempty,inputfile"`
	Sheet        string   `yaml:"sheet" envconfig:"SHEET"`
	IDColumn     string   `yaml:"id_column" envconfig:"ID_COLUMN" validate:"required"`
	ValueColumns []string `yaml:"value_columns" envconfig:"VALUE_COLUMNS"`
	Output       string   `yaml:"output" envconfig:"OUTPUT" validate:"omitempty,tablefile"`
	Alpha        float64  `yaml:"alpha" envconfig:"ALPHA" validate:"gt=0,lt=1"`
	Workers      int      `yaml:"workers" envconfig:"WORKERS" validate:"gte=1,lte=256"`
}

// TelemetryConfig controls span export and the metrics snapshot
type TelemetryConfig struct {
	ServiceName string `yaml:"service_name" envconfig:"SERVICE_NAME" validate:"required"`
	ExportSpans bool   `yaml:"export_spans" envconfig:"EXPORT_SPANS"`
	MetricsFile string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// Load builds the configuration from defaults, then the YAML file, then
// EQUITY_* environment variables, and validates the result. An empty path
// falls back to $EQUITY_CONFIG_FILE and then the standard locations.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = getConfigFilePath()
	}
	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// loadFromFile overlays the keys present in a YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.UnmarshalStrict(data, cfg)
}

func getConfigFilePath() string {
	if p := os.Getenv(ConfigFileEnv); p != "" {
		return p
	}
	for _, location := range configFileLocations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   DefaultLogOutput,
			FilePath: DefaultLogFile,
		},
		Concentration: ConcentrationConfig{
			RankingColumn: DefaultRankingColumn,
			Resolution:    DefaultResolution,
			Workers:       DefaultWorkers,
		},
		Trend: TrendConfig{
			IDColumn: DefaultIDColumn,
			Alpha:    DefaultAlpha,
			Workers:  DefaultWorkers,
		},
		Telemetry: TelemetryConfig{
			ServiceName: DefaultServiceName,
		},
	}
}
