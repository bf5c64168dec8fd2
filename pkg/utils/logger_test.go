package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInitLogger(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	config := AppConfig{Name: "market-test", LogPath: dir}

	logger, err := InitLogger(config)
	require.NoError(t, err)

	logger.Info("Listing created")
	_ = logger.Sync()

	raw, err := os.ReadFile(filepath.Join(dir, "market-test.log"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"msg":"Listing created"`)
	assert.Contains(t, string(raw), `"app":"market-test"`)
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel), "debug is off outside debug mode")
}

func TestLogFile_DefaultName(t *testing.T) {
	assert.Equal(t, filepath.Join("logs", "material-market.log"), LogFile(AppConfig{LogPath: "logs"}))
}
