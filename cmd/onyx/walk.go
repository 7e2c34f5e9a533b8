package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/gwillem/onyx/pkg/gait"
	"github.com/gwillem/onyx/pkg/robot"
	"github.com/gwillem/onyx/pkg/robot/fake"
	"github.com/gwillem/onyx/pkg/stance"
)

type WalkCommand struct {
	Cycles  int    `long:"cycles" default:"12" description:"Gait cycles to walk, -1 walks until interrupted"`
	Profile string `long:"profile" choice:"smooth" choice:"quick" description:"Tuning profile (default smooth)"`
	Tuning  string `long:"tuning" description:"Gait tuning file (JSON, YAML or TOML)"`
	DryRun  bool   `long:"dry-run" description:"Walk without hardware; commands are logged with -v"`
	TUI     bool   `long:"tui" description:"Show a live chart of commanded joint angles"`
}

// walkRig is everything a walk needs from the hardware.
type walkRig struct {
	calibration robot.Calibration
	handles     robot.Handles
	baseline    robot.Pose
	close       func()
}

func (c *WalkCommand) Execute(args []string) error {
	tuning, err := gait.Load(c.Tuning, gait.Profile(c.Profile))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := newLogger(os.Stderr, false)

	rig, err := c.connect(ctx, log)
	if err != nil {
		return err
	}
	defer rig.close()

	if c.TUI {
		return c.runTUI(ctx, tuning, rig)
	}

	ctrl, err := gait.NewController(tuning, gait.Rig{
		Handles:  rig.handles,
		Limits:   rig.calibration.Limits(),
		Baseline: rig.baseline,
		Logger:   log,
	})
	if err != nil {
		return err
	}

	if err := ctrl.Run(ctx, c.Cycles); err != nil {
		if errors.Is(err, context.Canceled) {
			log.Info().Msg("Interrupted by user, stopped")
			return nil
		}
		return err
	}
	return nil
}

// connect opens the servo bus and stands the robot up, or builds a fake rig
// for a dry run.
func (c *WalkCommand) connect(ctx context.Context, log zerolog.Logger) (*walkRig, error) {
	if c.DryRun {
		cfg := &robot.Config{Calibration: robot.DefaultCalibration()}
		if loaded, err := robot.LoadConfigFrom(opts.Config); err == nil && loaded.IsCalibrated() {
			cfg = loaded
		}
		if err := overrideCalibration(cfg, opts.Calibration); err != nil {
			return nil, err
		}
		cal := cfg.Calibration
		rec := fake.NewRecorder(nil)
		handles := robot.Observe(rec.Handles(cal.JointIDs()...), func(id robot.JointID, angle float64) {
			log.Debug().Int("servo", int(id)).Float64("angle", angle).Msg("move")
		})
		log.Info().Msg("Dry run, no servos will move")
		return &walkRig{
			calibration: cal,
			handles:     handles,
			baseline:    cal.Mids(),
			close:       func() {},
		}, nil
	}

	cfg := loadRobotConfig()
	body, err := robot.NewBody(ctx, cfg.Port, cfg.Baud(), cfg.Calibration, log)
	if err != nil {
		return nil, fmt.Errorf("connect to robot: %w", err)
	}

	handles := body.Handles(ctx)
	baseline, err := stance.Initialize(ctx, cfg.Calibration, handles, body, stance.Options{Logger: log})
	if err != nil {
		body.Close()
		return nil, fmt.Errorf("stand up: %w", err)
	}

	for _, id := range baseline.IDs() {
		log.Info().Int("servo", int(id)).Float64("angle", baseline[id]).Msg("Using baseline")
	}

	return &walkRig{
		calibration: cfg.Calibration,
		handles:     handles,
		baseline:    baseline,
		close:       func() { body.Close() },
	}, nil
}

func (c *WalkCommand) runTUI(ctx context.Context, tuning gait.Config, rig *walkRig) error {
	logs := newLogWriter(maxLogs * 4)
	samples := make(chan sampleMsg, 256)

	handles := robot.Observe(rig.handles, func(id robot.JointID, angle float64) {
		select {
		case samples <- sampleMsg{id: id, angle: angle}:
		default:
			// Drop if the chart falls behind
		}
	})

	ctrl, err := gait.NewController(tuning, gait.Rig{
		Handles:  handles,
		Limits:   rig.calibration.Limits(),
		Baseline: rig.baseline,
		Logger:   newLogger(logs, true),
	})
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	var runErr error
	go func() {
		defer close(done)
		runErr = ctrl.Run(runCtx, c.Cycles)
	}()

	p := tea.NewProgram(initialWalkModel(ctrl, tuning, c.Cycles, rig.calibration, samples, logs, done), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		cancel()
		<-done
		return fmt.Errorf("run TUI: %w", err)
	}

	// Stop between diagonals and wait for the legs to come home.
	cancel()
	select {
	case <-done:
	default:
		fmt.Println("Finishing the current step...")
		<-done
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	return nil
}
