package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gwillem/onyx/pkg/robot"
	"github.com/gwillem/onyx/pkg/stance"
)

type StandCommand struct {
	Steps int  `long:"steps" default:"40" description:"Interpolation steps per servo"`
	Relax bool `long:"relax" description:"Disable torque after standing up"`
}

func (c *StandCommand) Execute(args []string) error {
	cfg := loadRobotConfig()
	log := newLogger(os.Stderr, false)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	body, err := robot.NewBody(ctx, cfg.Port, cfg.Baud(), cfg.Calibration, log)
	if err != nil {
		return fmt.Errorf("connect to robot: %w", err)
	}
	defer body.Close()

	handles := body.Handles(ctx)
	pose, err := stance.Initialize(ctx, cfg.Calibration, handles, body, stance.Options{
		Steps:  c.Steps,
		Logger: log,
	})
	if err != nil {
		log.Warn().Err(err).Msg("Stand interrupted")
	}

	fmt.Println()
	fmt.Println(renderCalibration(cfg.Calibration, pose))

	if c.Relax {
		if err := body.Disable(context.Background()); err != nil {
			log.Warn().Err(err).Msg("Failed to disable torque")
		}
	}

	if len(pose) < len(cfg.Calibration) {
		fmt.Println(warnStyle.Render(fmt.Sprintf("%d servo(s) did not initialize.", len(cfg.Calibration)-len(pose))))
	} else {
		fmt.Println(successStyle.Render("ONYX is standing."))
	}
	return nil
}

// loadRobotConfig loads the robot configuration or exits with a hint to run
// setup.
func loadRobotConfig() *robot.Config {
	cfg, err := robot.LoadConfigFrom(opts.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "No usable configuration in %s (%v). Run 'onyx setup' first.\n", opts.Config, err)
		os.Exit(1)
	}

	if cfg.Port == "" {
		fmt.Fprintln(os.Stderr, "Servo bus not configured. Run 'onyx setup' first.")
		os.Exit(1)
	}

	if err := overrideCalibration(cfg, opts.Calibration); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if !cfg.IsCalibrated() {
		fmt.Fprintln(os.Stderr, "Robot not calibrated. Run 'onyx setup' first.")
		os.Exit(1)
	}

	return cfg
}

// overrideCalibration replaces the calibration of cfg with the one in the
// file at path. An empty path leaves cfg unchanged.
func overrideCalibration(cfg *robot.Config, path string) error {
	if path == "" {
		return nil
	}
	cal, err := robot.LoadCalibration(path)
	if err != nil {
		return fmt.Errorf("load calibration %s: %w", path, err)
	}
	cfg.Calibration = cal
	return nil
}
