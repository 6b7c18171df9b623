package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "config.yaml"
	envPrefix         = "RISK_"
)

type Config struct {
	DatasetPath  string   `yaml:"dataset_path"`
	TargetColumn string   `yaml:"target_column"`
	DropColumns  []string `yaml:"drop_columns"`
	TestSize     float64  `yaml:"test_size"`
	RandomSeed   int64    `yaml:"random_seed"`
	VarSmoothing float64  `yaml:"var_smoothing"`

	HistoryDB    string `yaml:"history_db"`
	HistoryLimit int    `yaml:"history_limit"`

	LogLevel string `yaml:"log_level"`
	JSONLogs bool   `yaml:"json_logs"`

	WindowWidth  float32 `yaml:"window_width"`
	WindowHeight float32 `yaml:"window_height"`
}

// Default mirrors the original training script: Diagnosis target, 80/20
// stratified split with seed 42, scikit-learn's default smoothing.
func Default() Config {
	return Config{
		DatasetPath:  "alzheimers_disease_data.csv",
		TargetColumn: "Diagnosis",
		DropColumns:  []string{"PatientID", "DoctorInCharge"},
		TestSize:     0.2,
		RandomSeed:   42,
		VarSmoothing: 1e-9,
		HistoryLimit: 20,
		LogLevel:     "info",
		WindowWidth:  520,
		WindowHeight: 760,
	}
}

// Load resolves configuration in order: defaults, YAML file, RISK_*
// environment variables. .env is loaded first without overriding variables
// already set, so it can also supply RISK_CONFIG. A missing YAML or .env file
// is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}

	if path == "" {
		path = os.Getenv(envPrefix + "CONFIG")
	}
	if path == "" {
		path = DefaultConfigPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	envOverride(&c.DatasetPath, "DATASET_PATH")
	envOverride(&c.TargetColumn, "TARGET_COLUMN")
	envOverride(&c.HistoryDB, "HISTORY_DB")
	envOverride(&c.LogLevel, "LOG_LEVEL")
	if v := os.Getenv(envPrefix + "DROP_COLUMNS"); v != "" {
		c.DropColumns = splitList(v)
	}

	if err := envOverrideFloat(&c.TestSize, "TEST_SIZE"); err != nil {
		return err
	}
	if err := envOverrideFloat(&c.VarSmoothing, "VAR_SMOOTHING"); err != nil {
		return err
	}
	if err := envOverrideInt64(&c.RandomSeed, "RANDOM_SEED"); err != nil {
		return err
	}
	if v := os.Getenv(envPrefix + "HISTORY_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sHISTORY_LIMIT: %w", envPrefix, err)
		}
		c.HistoryLimit = n
	}
	if v := os.Getenv(envPrefix + "JSON_LOGS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sJSON_LOGS: %w", envPrefix, err)
		}
		c.JSONLogs = b
	}
	if os.Getenv("DEBUG") == "1" {
		c.LogLevel = "debug"
	}
	return nil
}

// Validate rejects settings the trainer cannot work with.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.DatasetPath) == "" {
		errs = append(errs, errors.New("dataset_path is required"))
	}
	if strings.TrimSpace(c.TargetColumn) == "" {
		errs = append(errs, errors.New("target_column is required"))
	}
	if c.TestSize <= 0 || c.TestSize >= 1 {
		errs = append(errs, fmt.Errorf("test_size must be in (0, 1), got %v", c.TestSize))
	}
	if c.VarSmoothing <= 0 {
		errs = append(errs, fmt.Errorf("var_smoothing must be positive, got %v", c.VarSmoothing))
	}
	if c.HistoryLimit < 1 {
		errs = append(errs, fmt.Errorf("history_limit must be at least 1, got %d", c.HistoryLimit))
	}
	for _, col := range c.DropColumns {
		if col == c.TargetColumn {
			errs = append(errs, fmt.Errorf("target column %q is also listed in drop_columns", col))
		}
	}
	return errors.Join(errs...)
}

func envOverride(dst *string, key string) {
	if v := os.Getenv(envPrefix + key); v != "" {
		*dst = v
	}
}

func envOverrideFloat(dst *float64, key string) error {
	v := os.Getenv(envPrefix + key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("%s%s: %w", envPrefix, key, err)
	}
	*dst = f
	return nil
}

func envOverrideInt64(dst *int64, key string) error {
	v := os.Getenv(envPrefix + key)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fmt.Errorf("%s%s: %w", envPrefix, key, err)
	}
	*dst = n
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
