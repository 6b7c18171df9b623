package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp isolates Load from any .env or config.yaml next to the tests.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoad_DefaultsWhenNothingPresent(t *testing.T) {
	chdirTemp(t)
	t.Setenv("DEBUG", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	dir := chdirTemp(t)
	t.Setenv("DEBUG", "")

	path := filepath.Join(dir, "risk.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
dataset_path: data/train.csv
test_size: 0.25
random_seed: 7
history_db: history.db
json_logs: true
`), 0o644))

	t.Setenv("RISK_RANDOM_SEED", "99")
	t.Setenv("RISK_DROP_COLUMNS", "PatientID, DoctorInCharge ,Ethnicity")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "data/train.csv", cfg.DatasetPath)
	assert.Equal(t, 0.25, cfg.TestSize)
	assert.Equal(t, int64(99), cfg.RandomSeed)
	assert.Equal(t, "history.db", cfg.HistoryDB)
	assert.True(t, cfg.JSONLogs)
	assert.Equal(t, []string{"PatientID", "DoctorInCharge", "Ethnicity"}, cfg.DropColumns)
	assert.Equal(t, "Diagnosis", cfg.TargetColumn)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := chdirTemp(t)
	t.Setenv("DEBUG", "")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("RISK_DATASET_PATH=from-dotenv.csv\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("RISK_DATASET_PATH") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv.csv", cfg.DatasetPath)
}

func TestLoad_DotEnvSelectsConfigFile(t *testing.T) {
	dir := chdirTemp(t)
	t.Setenv("DEBUG", "")
	t.Setenv("RISK_CONFIG", "")
	os.Unsetenv("RISK_CONFIG")
	t.Cleanup(func() { os.Unsetenv("RISK_CONFIG") })

	require.NoError(t, os.WriteFile(filepath.Join(dir, "custom.yaml"), []byte("random_seed: 1234\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("RISK_CONFIG=custom.yaml\n"), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, int64(1234), cfg.RandomSeed)
}

func TestLoad_BadEnvValue(t *testing.T) {
	chdirTemp(t)
	t.Setenv("RISK_TEST_SIZE", "a fifth")

	_, err := Load("")
	assert.ErrorContains(t, err, "RISK_TEST_SIZE")
}

func TestLoad_DebugForcesLevel(t *testing.T) {
	chdirTemp(t)
	t.Setenv("DEBUG", "1")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"test size zero", func(c *Config) { c.TestSize = 0 }, "test_size"},
		{"test size one", func(c *Config) { c.TestSize = 1 }, "test_size"},
		{"no smoothing", func(c *Config) { c.VarSmoothing = 0 }, "var_smoothing"},
		{"no dataset", func(c *Config) { c.DatasetPath = " " }, "dataset_path"},
		{"history limit", func(c *Config) { c.HistoryLimit = 0 }, "history_limit"},
		{"target dropped", func(c *Config) { c.DropColumns = append(c.DropColumns, "Diagnosis") }, "drop_columns"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
