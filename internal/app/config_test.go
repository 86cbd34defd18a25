package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()

	t.Setenv("AUTH_DISCORD_ID", "client-id")
	t.Setenv("AUTH_DISCORD_SECRET", "client-secret")
	t.Setenv("AUTH_SECRET", "signing-secret")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, 30*24*time.Hour, cfg.SessionTTL)
	require.Equal(t, "stationwatch.db", cfg.DatabaseFile)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, 10*time.Second, cfg.ShutdownGracePeriod)
	require.Equal(t, time.Hour, cfg.HousekeepingInterval)
	require.Equal(t, 30*24*time.Hour, cfg.ReportRetention)
}

func TestLoadConfigMissingRequired(t *testing.T) {
	// Only partial credentials: startup must fail, not limp along.
	t.Setenv("AUTH_DISCORD_ID", "client-id")
	t.Setenv("AUTH_DISCORD_SECRET", "")
	t.Setenv("AUTH_SECRET", "")

	_, err := LoadConfig()
	require.ErrorIs(t, err, ErrConfiguration)
	require.Contains(t, err.Error(), "AUTH_DISCORD_SECRET")
	require.Contains(t, err.Error(), "AUTH_SECRET")
	require.NotContains(t, err.Error(), "client-id")
}

func TestLoadConfigOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("PORT", "9999")
	t.Setenv("REPORT_RETENTION", "48h")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, time.Hour, cfg.SessionTTL)
	require.Equal(t, 9999, cfg.Port)
	require.Equal(t, 48*time.Hour, cfg.ReportRetention)
}

func TestLoadConfigRejectsNonPositiveTTL(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SESSION_TTL", "-1h")

	_, err := LoadConfig()
	require.ErrorIs(t, err, ErrConfiguration)
}
