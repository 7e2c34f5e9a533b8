// Package gait sequences the diagonal trot of the quadruped.
package gait

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Profile names a set of default tuning values.
type Profile string

const (
	// ProfileSmooth interpolates each leg in turn, hip and knee together.
	ProfileSmooth Profile = "smooth"
	// ProfileQuick swings both legs of a diagonal at once with hips leading
	// knees and no interpolation.
	ProfileQuick Profile = "quick"
)

// EnvPrefix prefixes environment overrides, e.g. ONYX_HIPOFFSETDEGREES.
const EnvPrefix = "ONYX"

// ErrUnknownProfile is returned for a profile name without defaults.
var ErrUnknownProfile = errors.New("unknown gait profile")

// Config holds the tuning of the gait. It is read-only once a run starts.
type Config struct {
	Profile Profile

	// HipOffset is the hip swing in degrees before StepScale.
	HipOffset float64
	// KneeOffset is the knee lift in degrees before StepScale.
	KneeOffset float64
	StepScale  float64

	InterpolationSteps int
	MoveDuration       time.Duration
	ReturnDuration     time.Duration
	Hold               time.Duration
	Settle             time.Duration
	MinStepDelay       time.Duration

	// OverlapLegs drives both legs of a diagonal in one lockstep group
	// instead of one after the other.
	OverlapLegs bool
	// StaggerJoints advances hips before knees, each taking half of
	// MoveDuration. The return always moves hip and knee together.
	StaggerJoints bool
}

// Defaults returns the tuning of a profile.
func Defaults(p Profile) (Config, error) {
	switch p {
	case ProfileSmooth:
		return Config{
			Profile:            ProfileSmooth,
			HipOffset:          15,
			KneeOffset:         25,
			StepScale:          1,
			InterpolationSteps: 6,
			MoveDuration:       80 * time.Millisecond,
			ReturnDuration:     60 * time.Millisecond,
			Hold:               10 * time.Millisecond,
			Settle:             20 * time.Millisecond,
			MinStepDelay:       4 * time.Millisecond,
		}, nil
	case ProfileQuick:
		return Config{
			Profile:            ProfileQuick,
			HipOffset:          12,
			KneeOffset:         23,
			StepScale:          1,
			InterpolationSteps: 1,
			MoveDuration:       100 * time.Millisecond,
			ReturnDuration:     50 * time.Millisecond,
			Hold:               30 * time.Millisecond,
			Settle:             30 * time.Millisecond,
			MinStepDelay:       4 * time.Millisecond,
			OverlapLegs:        true,
			StaggerJoints:      true,
		}, nil
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnknownProfile, p)
	}
}

// HipSwing returns the hip offset after scaling.
func (c Config) HipSwing() float64 {
	return c.HipOffset * c.StepScale
}

// KneeLift returns the knee offset after scaling.
func (c Config) KneeLift() float64 {
	return c.KneeOffset * c.StepScale
}

// PhaseDuration returns the nominal time one diagonal takes.
func (c Config) PhaseDuration() time.Duration {
	legs := time.Duration(2)
	if c.OverlapLegs {
		legs = 1
	}
	return legs*(c.MoveDuration+c.ReturnDuration) + c.Hold + c.Settle
}

// Validate rejects negative magnitudes. Zero steps or durations are allowed
// and make the matching moves instant.
func (c Config) Validate() error {
	switch {
	case c.HipOffset < 0:
		return fmt.Errorf("hipOffsetDegrees must not be negative, got %v", c.HipOffset)
	case c.KneeOffset < 0:
		return fmt.Errorf("kneeOffsetDegrees must not be negative, got %v", c.KneeOffset)
	case c.StepScale < 0:
		return fmt.Errorf("stepScale must not be negative, got %v", c.StepScale)
	case c.MoveDuration < 0, c.ReturnDuration < 0, c.Hold < 0, c.Settle < 0, c.MinStepDelay < 0:
		return fmt.Errorf("durations must not be negative")
	}
	return nil
}

// Load reads the gait tuning. Values come from the profile's defaults,
// overridden by the file at path (if not empty), then by ONYX_* environment
// variables. A non-empty profile argument takes precedence over the profile
// named in the file or environment.
func Load(path string, profile Profile) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetDefault("profile", string(ProfileSmooth))

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read tuning file: %w", err)
		}
	}
	if profile != "" {
		v.Set("profile", string(profile))
	}

	base, err := Defaults(Profile(strings.ToLower(v.GetString("profile"))))
	if err != nil {
		return Config{}, err
	}

	v.SetDefault("hipOffsetDegrees", base.HipOffset)
	v.SetDefault("kneeOffsetDegrees", base.KneeOffset)
	v.SetDefault("stepScale", base.StepScale)
	v.SetDefault("interpolationSteps", base.InterpolationSteps)
	v.SetDefault("moveDurationSeconds", base.MoveDuration.Seconds())
	v.SetDefault("returnDurationSeconds", base.ReturnDuration.Seconds())
	v.SetDefault("holdSeconds", base.Hold.Seconds())
	v.SetDefault("settleSeconds", base.Settle.Seconds())
	v.SetDefault("minStepDelaySeconds", base.MinStepDelay.Seconds())
	v.SetDefault("overlapLegs", base.OverlapLegs)
	v.SetDefault("staggerJoints", base.StaggerJoints)

	cfg := Config{
		Profile:            base.Profile,
		HipOffset:          v.GetFloat64("hipOffsetDegrees"),
		KneeOffset:         v.GetFloat64("kneeOffsetDegrees"),
		StepScale:          v.GetFloat64("stepScale"),
		InterpolationSteps: v.GetInt("interpolationSteps"),
		MoveDuration:       seconds(v.GetFloat64("moveDurationSeconds")),
		ReturnDuration:     seconds(v.GetFloat64("returnDurationSeconds")),
		Hold:               seconds(v.GetFloat64("holdSeconds")),
		Settle:             seconds(v.GetFloat64("settleSeconds")),
		MinStepDelay:       seconds(v.GetFloat64("minStepDelaySeconds")),
		OverlapLegs:        v.GetBool("overlapLegs"),
		StaggerJoints:      v.GetBool("staggerJoints"),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid gait tuning: %w", err)
	}
	return cfg, nil
}

func seconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}
