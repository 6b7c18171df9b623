package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"risk-assessor/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = "../../internal/dataset/testdata/patients.csv"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("RISK_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("RISK_HISTORY_DB", "")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.Execute()
	return out.String(), err
}

func patientFlags() []string {
	return []string{
		"--Age", "84", "--Gender", "Female", "--BMI", "24", "--AlcoholConsumption", "2",
		"--DietQuality", "4", "--FamilyHistoryAlzheimers", "Yes", "--HeadInjury", "No",
		"--CholesterolTotal", "230", "--MMSE", "6", "--MemoryComplaints", "Yes",
		"--BehavioralProblems", "Yes", "--ADL", "1.5", "--Confusion", "Yes", "--Forgetfulness", "Yes",
	}
}

func TestEvaluateCommand(t *testing.T) {
	out, err := execute(t, "evaluate", "--dataset", fixture)
	require.NoError(t, err)

	assert.Contains(t, out, "Rows: 200 (train 160, test 40)")
	assert.Regexp(t, `(?m)^Accuracy: \d+\.\d{2}%$`, out)
	assert.Contains(t, out, "Features: 14")
	assert.Contains(t, out, "actual high")
}

func TestEvaluateCommand_AllFeatures(t *testing.T) {
	out, err := execute(t, "evaluate", "--all-features", "--dataset", fixture)
	require.NoError(t, err)
	assert.Contains(t, out, "Features: 32")
}

func TestPredictCommand(t *testing.T) {
	out, err := execute(t, append([]string{"predict", "--dataset", fixture}, patientFlags()...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "High Risk (probability of diagnosis")
}

func TestPredictCommand_ValidationError(t *testing.T) {
	args := append([]string{"predict", "--dataset", fixture}, patientFlags()...)
	args = append(args, "--Age", "55")
	_, err := execute(t, args...)

	var verrs models.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, []string{"Age"}, verrs.Fields())
}

func TestPredictCommand_HasFlagPerFeature(t *testing.T) {
	cmd := newPredictCmd(&runtimeEnv{})
	for _, key := range models.FeatureKeys() {
		assert.NotNil(t, cmd.Flags().Lookup(key), key)
	}
}

func TestHistoryCommand_Disabled(t *testing.T) {
	_, err := execute(t, "history")
	assert.ErrorIs(t, err, errHistoryDisabled)
}

func TestHistoryCommand_ListsPredictions(t *testing.T) {
	db := filepath.Join(t.TempDir(), "history.db")

	t.Setenv("RISK_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("RISK_HISTORY_DB", db)
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(append([]string{"predict", "--dataset", fixture, "--log-level", "error"}, patientFlags()...))
	require.NoError(t, cmd.Execute())

	cmd = newRootCmd()
	out.Reset()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"history", "--limit", "5", "--log-level", "error"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "High Risk")
}
