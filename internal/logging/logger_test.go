package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func resetLogging(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		baseMu.Lock()
		categories = nil
		baseMu.Unlock()
		SetBase(nil)
	})
}

func TestUninitializedIsNoop(t *testing.T) {
	resetLogging(t)
	SetBase(nil)

	// Must not panic and must not write anywhere.
	Get(CategoryRegistry).Info("hello %s", "world")
	Registry("convenience %d", 1)
	assert.NotNil(t, Base())
}

func TestCategoriesTagEntries(t *testing.T) {
	resetLogging(t)
	core, logs := observer.New(zapcore.DebugLevel)
	SetBase(zap.New(core))

	cats := []Category{
		CategoryBoot, CategoryConfig, CategoryRegistry, CategoryCalculators,
		CategoryHumanDesign, CategoryWeather, CategorySynthesis,
		CategoryEnrichment, CategoryStore,
	}
	for _, cat := range cats {
		Get(cat).Info("message for %s", cat)
	}

	require.Equal(t, len(cats), logs.Len())
	for i, entry := range logs.All() {
		assert.Equal(t, "message for "+string(cats[i]), entry.Message)
		assert.Equal(t, string(cats[i]), entry.ContextMap()["cat"])
	}
}

func TestDisabledCategory(t *testing.T) {
	resetLogging(t)
	core, logs := observer.New(zapcore.DebugLevel)

	baseMu.Lock()
	categories = map[string]bool{"weather": false}
	baseMu.Unlock()
	SetBase(zap.New(core))

	assert.False(t, IsCategoryEnabled(CategoryWeather))
	assert.True(t, IsCategoryEnabled(CategoryRegistry))

	WeatherWarn("should be dropped")
	RegistryWarn("should be kept")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "should be kept", logs.All()[0].Message)
}

func TestWithAddsFields(t *testing.T) {
	resetLogging(t)
	core, logs := observer.New(zapcore.InfoLevel)
	SetBase(zap.New(core))

	Get(CategoryRegistry).With("system", "lunar").Info("computed")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "lunar", logs.All()[0].ContextMap()["system"])
}

func TestInitializeWritesFile(t *testing.T) {
	resetLogging(t)
	path := filepath.Join(t.TempDir(), "logs", "cosmic.log")

	require.NoError(t, Initialize(Options{Level: "debug", Format: "json", File: path}))
	Store("archive opened at %s", "x.db")
	Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "archive opened at x.db"))
}

func TestInitializeRejectsBadLevel(t *testing.T) {
	resetLogging(t)
	err := Initialize(Options{Level: "loud"})
	assert.Error(t, err)
}

func TestTimerThreshold(t *testing.T) {
	resetLogging(t)
	core, logs := observer.New(zapcore.DebugLevel)
	SetBase(zap.New(core))

	timer := StartTimer(CategoryRegistry, "slow op")
	time.Sleep(2 * time.Millisecond)
	elapsed := timer.StopWithThreshold(time.Nanosecond)

	assert.Greater(t, elapsed, time.Duration(0))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.WarnLevel, logs.All()[0].Level)
}
