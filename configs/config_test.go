package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("CACHE_TTL", "")
	t.Setenv("TRELLO_API_URL", "")

	cfg := LoadConfig()
	require.Equal(t, "3000", cfg.Port)
	require.Equal(t, 300*time.Second, cfg.CacheTTL)
	require.Equal(t, "https://api.trello.com", cfg.Trello.APIURL)
	require.Equal(t, 15*time.Second, cfg.Trello.Timeout)
	require.Equal(t, "America/New_York", cfg.Reset.TimeZone)
	require.Equal(t, 5, cfg.NotifyMaxRetry)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("CACHE_TTL", "60")
	t.Setenv("NOTIFY_MAX_RETRY", "not-a-number")

	cfg := LoadConfig()
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, time.Minute, cfg.CacheTTL)
	require.Equal(t, 5, cfg.NotifyMaxRetry)
}
