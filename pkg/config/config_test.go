package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "robopong.json")

	cfg := &Config{
		Gateway: GatewayConfig{
			BaseURL: "https://controller.example/cherrybot2",
			Name:    "Interactions Lab",
			Email:   "lab@example.com",
		},
		Detector: DetectorConfig{
			BaseURL: "http://127.0.0.1:5001",
			Timeout: 2 * time.Second,
		},
		Speed:           100,
		CalibrationFile: "cups.yaml",
		HistoryFile:     "shots.db",
	}
	require.NoError(t, cfg.SaveTo(path))

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
	assert.True(t, loaded.IsConfigured())
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestIsConfigured(t *testing.T) {
	assert.False(t, (&Config{}).IsConfigured())
	assert.False(t, (&Config{Gateway: GatewayConfig{BaseURL: "x"}}).IsConfigured())
	assert.True(t, (&Config{Gateway: GatewayConfig{BaseURL: "x", Name: "op"}}).IsConfigured())
}
