package config

import (
	"os"
	"path/filepath"
	"testing"

	"goanova/adapters/report"
	"goanova/internal/errors"
	"goanova/internal/logging"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{"PORT", "GIN_MODE", "ANOVA_INPUT_SHEET", "ANOVA_BLOCK", "ANOVA_WORKERS", "ANOVA_REPORT_FORMAT", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.GinMode)
	assert.Equal(t, "Sheet1", cfg.Data.Sheet)
	assert.False(t, cfg.Analysis.Block)
	assert.Equal(t, 4, cfg.Analysis.Workers)
	assert.Equal(t, report.FormatText, cfg.Report.Format)
	assert.Equal(t, logging.LevelInfo, cfg.Log.Level)
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("ANOVA_BLOCK", "true")
	t.Setenv("ANOVA_WORKERS", "2")
	t.Setenv("ANOVA_REPORT_FORMAT", "JSON")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.True(t, cfg.Analysis.Block)
	assert.Equal(t, 2, cfg.Analysis.Workers)
	assert.Equal(t, report.FormatJSON, cfg.Report.Format)
	assert.Equal(t, logging.LevelDebug, cfg.Log.Level)
}

func TestLoad_DotEnvFile(t *testing.T) {
	clearEnv(t)
	// godotenv.Load never overrides variables that are already set, even to ""
	for _, key := range []string{"ANOVA_INPUT_SHEET", "ANOVA_WORKERS"} {
		os.Unsetenv(key)
	}

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("ANOVA_INPUT_SHEET=Trial2\nANOVA_WORKERS=8\n"), 0o644))
	require.NoError(t, godotenv.Load(path))
	t.Cleanup(func() {
		os.Unsetenv("ANOVA_INPUT_SHEET")
		os.Unsetenv("ANOVA_WORKERS")
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "Trial2", cfg.Data.Sheet)
	assert.Equal(t, 8, cfg.Analysis.Workers)
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("ANOVA_WORKERS", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))

	clearEnv(t)
	t.Setenv("ANOVA_REPORT_FORMAT", "pdf")
	_, err = Load()
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))

	clearEnv(t)
	t.Setenv("LOG_LEVEL", "loud")
	_, err = Load()
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}
