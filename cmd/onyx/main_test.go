package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gwillem/onyx/pkg/robot"
)

func TestLogWriter_DropsWhenFull(t *testing.T) {
	w := newLogWriter(1)

	n, err := w.Write([]byte("first\n"))
	assert.NoError(t, err)
	assert.Equal(t, 6, n)

	// Channel is full; the write still succeeds
	_, err = w.Write([]byte("second\n"))
	assert.NoError(t, err)

	assert.Equal(t, "first", <-w.ch)
	assert.Empty(t, w.ch)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, true)

	log.Debug().Msg("hidden")
	log.Info().Int("servo", 7).Msg("Initializing servo")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "Initializing servo")
	assert.Contains(t, out, "servo=7")
}

func TestRenderCalibration(t *testing.T) {
	cal := robot.DefaultCalibration()

	out := renderCalibration(cal, nil)
	assert.Contains(t, out, "front_right_knee")
	assert.NotContains(t, out, "Baseline")

	out = renderCalibration(cal, robot.Pose{1: 161.5})
	assert.Contains(t, out, "Baseline")
	assert.Contains(t, out, "161.5")
	assert.Equal(t, 7, strings.Count(out, "—"))
}

func TestOverrideCalibration(t *testing.T) {
	cfg := &robot.Config{Port: "/dev/ttyUSB0", Calibration: robot.DefaultCalibration()}

	// Empty path keeps the stored calibration
	assert.NoError(t, overrideCalibration(cfg, ""))
	assert.Equal(t, robot.DefaultCalibration(), cfg.Calibration)

	path := filepath.Join(t.TempDir(), "calibration.json")
	data := `{"front_right_hip": {"id": 7, "min": 140, "max": 200, "mid": 170}}`
	assert.NoError(t, os.WriteFile(path, []byte(data), 0644))

	assert.NoError(t, overrideCalibration(cfg, path))
	assert.Equal(t, robot.Calibration{
		robot.FrontRightHip: {ID: 7, Min: 140, Max: 200, Mid: 170},
	}, cfg.Calibration)

	err := overrideCalibration(cfg, filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "load calibration")
}
