package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "cosmic", cfg.Name)
	assert.True(t, cfg.Solar.Enabled)
	assert.True(t, cfg.Enrichment.Enabled)
	assert.Equal(t, 10*time.Second, cfg.GetSolarTimeout())
	assert.Equal(t, 15*time.Minute, cfg.GetWatchInterval())
	require.NoError(t, cfg.Validate())
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Solar.BaseURL, cfg.Solar.BaseURL)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cosmic.yaml")
	content := `
logging:
  level: debug
solar:
  enabled: false
  timeout: 3s
systems:
  solar: false
enrichment:
  enabled: false
birth:
  time: "1990-05-15T14:30:00Z"
  latitude: 40.7
  longitude: -74.0
  timezone: America/New_York
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.False(t, cfg.Solar.Enabled)
	assert.Equal(t, 3*time.Second, cfg.GetSolarTimeout())
	assert.False(t, cfg.IsSystemEnabled("solar"))
	assert.True(t, cfg.IsSystemEnabled("lunar"))
	assert.False(t, cfg.Enrichment.Enabled)
	assert.True(t, cfg.HasBirth())
	assert.Equal(t, "America/New_York", cfg.Birth.Timezone)
	require.NoError(t, cfg.Validate())
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging: [unclosed"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cosmic.yaml")
	cfg := DefaultConfig()
	cfg.Systems["transits"] = false
	cfg.Store.DatabasePath = "/tmp/x.db"

	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.False(t, loaded.IsSystemEnabled("transits"))
	assert.Equal(t, "/tmp/x.db", loaded.Store.DatabasePath)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("COSMIC_SWPC_URL", "http://localhost:9999")
	t.Setenv("COSMIC_DB", "/var/lib/cosmic.db")
	t.Setenv("COSMIC_LOG_LEVEL", "warn")
	t.Setenv("COSMIC_ENRICHMENT", "false")

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()

	assert.Equal(t, "http://localhost:9999", cfg.Solar.BaseURL)
	assert.Equal(t, "/var/lib/cosmic.db", cfg.Store.DatabasePath)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.False(t, cfg.Enrichment.Enabled)
}

func TestEnvOverrideIgnoresBadBool(t *testing.T) {
	t.Setenv("COSMIC_ENRICHMENT", "maybe")

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()
	assert.True(t, cfg.Enrichment.Enabled)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"bad level", func(c *Config) { c.Logging.Level = "chatty" }, true},
		{"solar without url", func(c *Config) { c.Solar.BaseURL = "" }, true},
		{"solar disabled without url", func(c *Config) { c.Solar.Enabled = false; c.Solar.BaseURL = "" }, false},
		{"bad birth time", func(c *Config) { c.Birth.Time = "yesterday" }, true},
		{"bad latitude", func(c *Config) { c.Birth.Time = "2000-01-01T00:00:00Z"; c.Birth.Latitude = 91 }, true},
		{"bad longitude", func(c *Config) { c.Birth.Time = "2000-01-01T00:00:00Z"; c.Birth.Longitude = -181 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDurationFallbacks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Solar.Timeout = "soon"
	cfg.Watch.Interval = "-1s"

	assert.Equal(t, 10*time.Second, cfg.GetSolarTimeout())
	assert.Equal(t, 15*time.Minute, cfg.GetWatchInterval())
}

func TestLoggingOptions(t *testing.T) {
	lc := LoggingConfig{Level: "warn", Format: "json", Categories: map[string]bool{"weather": false}}

	opts := lc.Options(false)
	assert.Equal(t, "warn", opts.Level)
	assert.False(t, lc.IsCategoryEnabled("weather"))
	assert.True(t, lc.IsCategoryEnabled("registry"))

	assert.Equal(t, "debug", lc.Options(true).Level)
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cosmic.yaml")
	require.NoError(t, DefaultConfig().Save(path))

	got := make(chan *Config, 4)
	w, err := NewWatcher(path, func(c *Config) { got <- c })
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	cfg := DefaultConfig()
	cfg.Logging.Level = "error"
	require.NoError(t, cfg.Save(path))

	select {
	case c := <-got:
		assert.Equal(t, "error", c.Logging.Level)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not reload config")
	}
	assert.GreaterOrEqual(t, w.Reloads(), 1)
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cosmic.yaml")
	require.NoError(t, DefaultConfig().Save(path))

	w, err := NewWatcher(path, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0644))
	time.Sleep(500 * time.Millisecond)
	w.Stop()

	assert.Equal(t, 0, w.Reloads())
}

func TestWatcherStopAfterFailedStart(t *testing.T) {
	w, err := NewWatcher(filepath.Join(t.TempDir(), "missing", "cosmic.yaml"), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.Error(t, w.Start(ctx))

	done := make(chan struct{})
	go func() {
		w.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop blocked after a failed Start")
	}
	assert.Equal(t, 0, w.Reloads())
}

func TestBirthMoment(t *testing.T) {
	cfg := DefaultConfig()
	b, err := cfg.BirthMoment()
	require.NoError(t, err)
	assert.Nil(t, b)

	cfg.Birth = BirthConfig{Time: "1990-05-15T14:30:00Z", Latitude: 40.7, Longitude: -74, Timezone: "America/New_York"}
	b, err = cfg.BirthMoment()
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, "America/New_York", b.Timezone)
	assert.Equal(t, 10, b.Time.Hour())

	cfg.Birth.Timezone = "Nowhere/Special"
	_, err = cfg.BirthMoment()
	assert.Error(t, err)
}
