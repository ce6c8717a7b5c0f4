package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BATSCTL_STATE_DIR", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "http://localhost:8080", cfg.GatewayURL)
	assert.Equal(t, "ws://localhost:8080/api/order/ws", cfg.RealtimeURL)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_DerivesSecureRealtimeURL(t *testing.T) {
	t.Setenv("BATSCTL_STATE_DIR", t.TempDir())
	t.Setenv("GATEWAY_URL", "https://api.example.test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "wss://api.example.test/api/order/ws", cfg.RealtimeURL)
}

func TestLoad_ExplicitRealtimeURLWins(t *testing.T) {
	t.Setenv("BATSCTL_STATE_DIR", t.TempDir())
	t.Setenv("REALTIME_URL", "ws://elsewhere:9000/ws")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "ws://elsewhere:9000/ws", cfg.RealtimeURL)
}

func TestLoad_RejectsBadGatewayScheme(t *testing.T) {
	t.Setenv("BATSCTL_STATE_DIR", t.TempDir())
	t.Setenv("GATEWAY_URL", "ftp://example.test")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RejectsNonPositiveTimeout(t *testing.T) {
	t.Setenv("BATSCTL_STATE_DIR", t.TempDir())
	t.Setenv("HTTP_TIMEOUT", "0s")

	_, err := Load()
	assert.Error(t, err)
}
