package gait

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	cfg, err := Load("", "")
	require.NoError(t, err)

	want, err := Defaults(ProfileSmooth)
	require.NoError(t, err)
	assert.Equal(t, want, cfg)
	assert.Equal(t, 80*time.Millisecond, cfg.MoveDuration)
	assert.Equal(t, 6, cfg.InterpolationSteps)
}

func TestLoad_ProfileArgument(t *testing.T) {
	cfg, err := Load("", ProfileQuick)
	require.NoError(t, err)

	assert.Equal(t, ProfileQuick, cfg.Profile)
	assert.True(t, cfg.OverlapLegs)
	assert.True(t, cfg.StaggerJoints)
	assert.Equal(t, 1, cfg.InterpolationSteps)
	assert.Equal(t, 12.0, cfg.HipOffset)
}

func TestLoad_WithTuningFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.json")
	tuning := `{
		"profile": "quick",
		"hipOffsetDegrees": 20,
		"stepScale": 1.5,
		"moveDurationSeconds": 0.25,
		"overlapLegs": false
	}`
	require.NoError(t, os.WriteFile(path, []byte(tuning), 0644))

	cfg, err := Load(path, "")
	require.NoError(t, err)

	assert.Equal(t, ProfileQuick, cfg.Profile)
	assert.Equal(t, 20.0, cfg.HipOffset)
	assert.Equal(t, 23.0, cfg.KneeOffset) // quick default
	assert.Equal(t, 30.0, cfg.HipSwing())
	assert.InDelta(t, 34.5, cfg.KneeLift(), 1e-9)
	assert.Equal(t, 250*time.Millisecond, cfg.MoveDuration)
	assert.False(t, cfg.OverlapLegs)
	assert.True(t, cfg.StaggerJoints)
}

func TestLoad_ProfileArgumentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"profile": "quick"}`), 0644))

	cfg, err := Load(path, ProfileSmooth)
	require.NoError(t, err)
	assert.Equal(t, ProfileSmooth, cfg.Profile)
	assert.False(t, cfg.OverlapLegs)
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	t.Setenv("ONYX_KNEEOFFSETDEGREES", "30")
	t.Setenv("ONYX_INTERPOLATIONSTEPS", "10")
	t.Setenv("ONYX_SETTLESECONDS", "0.5")

	cfg, err := Load("", "")
	require.NoError(t, err)
	assert.Equal(t, 30.0, cfg.KneeOffset)
	assert.Equal(t, 10, cfg.InterpolationSteps)
	assert.Equal(t, 500*time.Millisecond, cfg.Settle)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load("", "trot")
	assert.ErrorIs(t, err, ErrUnknownProfile)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"), "")
	assert.Error(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"holdSeconds": -1}`), 0644))
	_, err = Load(path, "")
	assert.ErrorContains(t, err, "invalid gait tuning")
}

func TestConfig_PhaseDuration(t *testing.T) {
	smooth, _ := Defaults(ProfileSmooth)
	quick, _ := Defaults(ProfileQuick)

	assert.Equal(t, 310*time.Millisecond, smooth.PhaseDuration())
	assert.Equal(t, 210*time.Millisecond, quick.PhaseDuration())
}

func TestConfig_ZeroIsValid(t *testing.T) {
	assert.NoError(t, Config{}.Validate())
	assert.Error(t, Config{KneeOffset: -1}.Validate())
	assert.Error(t, Config{MoveDuration: -time.Millisecond}.Validate())
}
