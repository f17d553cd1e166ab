package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitConfig(t *testing.T) {
	datadir := t.TempDir()
	t.Setenv("CUSTODY_DATADIR", datadir)
	t.Setenv("CUSTODY_ENABLE_PROFILER", "true")
	t.Setenv("CUSTODY_WEBHOOK_ENDPOINTS", "deposit@http://localhost:8080/deposit, *@http://localhost:8080/all")

	err := InitConfig()
	require.NoError(t, err)

	require.Equal(t, datadir, GetDatadir())
	require.Equal(t, 9955, GetInt(ListeningPortKey))
	require.Equal(t, 4, GetInt(LogLevelKey))
	require.Equal(t, DBBadger, GetString(DBTypeKey))
	require.Equal(t, "deposits", GetString(NamespaceKey))
	require.DirExists(t, filepath.Join(datadir, DbLocation))
	require.DirExists(t, filepath.Join(datadir, ProfilerLocation))

	webhooks, err := GetWebhooks()
	require.NoError(t, err)
	require.Equal(t, []Webhook{
		{"deposit", "http://localhost:8080/deposit"},
		{"*", "http://localhost:8080/all"},
	}, webhooks)
}

func TestFailingInitConfig(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown db type", "CUSTODY_DB_TYPE", "postgres"},
		{"invalid port", "CUSTODY_LISTENING_PORT", "70000"},
		{"negative rate limit", "CUSTODY_RATE_LIMIT", "-1"},
		{"invalid stats interval", "CUSTODY_STATS_INTERVAL", "0"},
		{"malformed webhook", "CUSTODY_WEBHOOK_ENDPOINTS", "http://localhost:8080"},
		{"invalid webhook endpoint", "CUSTODY_WEBHOOK_ENDPOINTS", "deposit@localhost"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CUSTODY_DATADIR", t.TempDir())
			t.Setenv(tt.key, tt.value)

			err := InitConfig()
			require.Error(t, err)
		})
	}
}
