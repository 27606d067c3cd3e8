package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctfwatch/ctfwatch/internal/common"
)

func setRequired(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("smtp.host", "smtp.example.com")
	viper.Set("smtp.port", 587)
	viper.Set("smtp.username", "bot")
	viper.Set("smtp.password", "hunter2")
	viper.Set("email.to", "alerts@example.com")
	viper.Set("email.from", "bot@example.com")
}

func TestLoadAppliesDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://ctf.hackthebox.com/api/public/ctfs", cfg.Catalog.BaseURL)
	assert.Equal(t, "ctf_cache.json", cfg.Cache.Path)
	assert.Equal(t, 20*time.Second, cfg.Catalog.Timeout)
	assert.Equal(t, time.Second, cfg.Watch.DetailDelay)
	assert.Equal(t, 72*time.Hour, cfg.Watch.ReminderWindow)
	assert.Equal(t, "smtp.example.com", cfg.SMTP.Host)
	assert.Equal(t, 587, cfg.SMTP.Port)
}

func TestLoadFailsFastNamingEveryMissingKey(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("smtp.host", "smtp.example.com")

	_, err := Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrMissingConfig)
	for _, key := range []string{"smtp.port", "smtp.username", "smtp.password", "email.to", "email.from"} {
		assert.Contains(t, err.Error(), key)
	}
	assert.NotContains(t, err.Error(), "smtp.host")
}

func TestLoadRejectsNonPositiveDurations(t *testing.T) {
	setRequired(t)
	viper.Set("watch.reminder_window", "-1h")

	_, err := Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestExpandPath(t *testing.T) {
	t.Setenv("CTFWATCH_TEST_DIR", "/var/lib/ctfwatch")

	assert.Equal(t, "", ExpandPath(""))
	assert.Equal(t, "/var/lib/ctfwatch/cache.json", ExpandPath("$CTFWATCH_TEST_DIR/cache.json"))
	assert.NotContains(t, ExpandPath("~/cache.json"), "~")
}
