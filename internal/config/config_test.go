package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/wellness-profile/internal/learner"
	"github.com/rcliao/wellness-profile/internal/recommend"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("WELLNESS_PROFILE_CONFIG", "")
	t.Setenv("WELLNESS_PROFILE_DB", "")
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 256, cfg.CacheSize)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, learner.DefaultTuning(), cfg.Learner)
	assert.Equal(t, recommend.DefaultTuning(), cfg.Mixer)
	assert.Equal(t, 10, cfg.Feed.Size)
	assert.Contains(t, cfg.DBPath, "profiles.db")
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
log_mode: prod
cache_size: 32
server:
  addr: ":9090"
classifier:
  embed_provider: ollama
  embed_model: nomic-embed-text
learner:
  max_topics: 12
  promotion_trigger: 4
mixer:
  mature_at: 40
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("WELLNESS_PROFILE_DB", "/tmp/override.db")
	t.Setenv("WELLNESS_PROFILE_LEARNER_MAX_PRIMARY", "6")
	t.Setenv("WELLNESS_PROFILE_SERVER_ADDR", ":7070")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.LogMode)
	assert.Equal(t, 32, cfg.CacheSize)
	assert.Equal(t, ":7070", cfg.Server.Addr, "env beats file")
	assert.Equal(t, "/tmp/override.db", cfg.DBPath)
	assert.Equal(t, "ollama", cfg.Classifier.EmbedProvider)
	assert.Equal(t, 12, cfg.Learner.MaxTopics)
	assert.Equal(t, 4, cfg.Learner.PromotionTrigger)
	assert.Equal(t, 6, cfg.Learner.MaxPrimary)
	assert.Equal(t, 0.95, cfg.Learner.BoostDecay, "unset keys keep defaults")
	assert.Equal(t, 40, cfg.Mixer.MatureAt)
	assert.Equal(t, 10, cfg.Mixer.ColdStartBelow)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("WELLNESS_PROFILE_DB", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 256, cfg.CacheSize)
}

func TestLoadBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadKeepsExplicitZeroTuning(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
learner:
  score_floor: 0
  streak_reset: 0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("WELLNESS_PROFILE_MIXER_EXPLORATION_FLOOR", "0")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Zero(t, cfg.Learner.ScoreFloor)
	assert.Zero(t, cfg.Learner.StreakReset)
	assert.Zero(t, cfg.Mixer.ExplorationFloor)
	assert.Equal(t, learner.DefaultTuning().UniformDecay, cfg.Learner.UniformDecay, "unset keys keep defaults")

	assert.Zero(t, learner.New(cfg.Learner, nil).Tuning().ScoreFloor)
	assert.Zero(t, recommend.New(cfg.Mixer).Tuning().ExplorationFloor)
}
