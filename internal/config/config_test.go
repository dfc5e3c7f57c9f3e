package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("GOOGLE_SCRIPT_URL", "")
	t.Setenv("GOOGLE_SHEETS_CREDENTIALS_PATH", "")
	t.Setenv("GOOGLE_SHEET_DATABASE_ID", "")
	t.Setenv("MONGODB_URI", "")
	t.Setenv("TIMEZONE", "")
	t.Setenv("LOG_FORMAT", "")

	cfg, err := Load("testdata/does-not-exist.env")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, StoreDriverFile, cfg.Store.Driver)
	assert.Equal(t, "oden-pos-v4", cfg.Store.Namespace)
	assert.Equal(t, 64, cfg.Sync.QueueSize)
	assert.Equal(t, 15*time.Second, cfg.Sync.Timeout)
	assert.True(t, cfg.Sync.BuddhistEra)
	assert.False(t, cfg.Sheets.Enabled())
	assert.Equal(t, "Asia/Bangkok", cfg.Location().String())
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string][2]string{
		"unknown driver":    {"STORE_DRIVER", "sqlite"},
		"redis without url": {"STORE_DRIVER", "redis"},
		"bad queue size":    {"SYNC_QUEUE_SIZE", "many"},
		"zero queue size":   {"SYNC_QUEUE_SIZE", "0"},
		"bad timeout":       {"SYNC_TIMEOUT", "soon"},
		"bad timezone":      {"TIMEZONE", "Mars/Olympus"},
		"bad log format":    {"LOG_FORMAT", "xml"},
	}

	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("REDIS_ADDR", "")
			t.Setenv(kv[0], kv[1])

			_, err := Load("testdata/does-not-exist.env")
			assert.Error(t, err)
		})
	}
}

func TestValidateRequiresBothSheetsSettings(t *testing.T) {
	t.Setenv("GOOGLE_SHEETS_CREDENTIALS_PATH", "/tmp/creds.json")
	t.Setenv("GOOGLE_SHEET_DATABASE_ID", "")

	_, err := Load("testdata/does-not-exist.env")
	assert.Error(t, err)
}
