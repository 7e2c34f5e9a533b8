package robot

import (
	"context"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/hipsterbrown/feetech-servo/feetech"
	"github.com/rs/zerolog"
)

// StepsPerRevolution is the encoder resolution of the bus servos.
const StepsPerRevolution = 4096

// DegreesToSteps converts an angle to a raw servo position, rounded and
// limited to the encoder range.
func DegreesToSteps(deg float64) int {
	steps := int(math.Round(deg / 360 * StepsPerRevolution))
	return max(0, min(StepsPerRevolution-1, steps))
}

// StepsToDegrees converts a raw servo position to an angle.
func StepsToDegrees(steps int) float64 {
	return float64(steps) * 360 / StepsPerRevolution
}

// Body represents the quadruped's servo bus.
type Body struct {
	bus         *feetech.Bus
	group       *feetech.ServoGroup
	servos      map[JointID]*feetech.Servo
	calibration Calibration
	log         zerolog.Logger
}

// NewBody opens the servo bus and looks for every calibrated joint on it.
// Joints that do not answer the scan are left out; Handles reports them as
// absent.
func NewBody(ctx context.Context, port string, baud int, cal Calibration, log zerolog.Logger) (*Body, error) {
	// Open serial bus
	bus, err := feetech.NewBus(feetech.BusConfig{
		Port:     port,
		BaudRate: baud,
		Protocol: feetech.ProtocolSTS,
		Timeout:  100 * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("open bus: %w", err)
	}

	ids := cal.JointIDs()
	if len(ids) == 0 {
		bus.Close()
		return nil, fmt.Errorf("calibration has no joints")
	}

	scanCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	found, err := bus.Scan(scanCtx, int(slices.Min(ids)), int(slices.Max(ids)))
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("scan bus: %w", err)
	}

	servos := make(map[JointID]*feetech.Servo, len(found))
	var present []int
	for _, s := range found {
		id := JointID(s.ID)
		if !slices.Contains(ids, id) {
			continue
		}
		servos[id] = feetech.NewServo(bus, s.ID, s.Model)
		present = append(present, s.ID)
	}

	return &Body{
		bus:         bus,
		group:       feetech.NewServoGroupByIDs(bus, present...),
		servos:      servos,
		calibration: cal,
		log:         log,
	}, nil
}

// Close closes the bus connection.
func (b *Body) Close() error {
	return b.bus.Close()
}

// Handles enables torque on every servo found on the bus and returns a handle
// for each one that accepted it.
func (b *Body) Handles(ctx context.Context) Handles {
	handles := make(Handles, len(b.servos))
	for _, id := range b.calibration.JointIDs() {
		servo, ok := b.servos[id]
		if !ok {
			b.log.Warn().Int("servo", int(id)).Msg("servo not found on bus")
			continue
		}
		if err := servo.Enable(ctx); err != nil {
			b.log.Warn().Err(err).Int("servo", int(id)).Msg("enable torque")
			continue
		}
		handles[id] = ActuatorFunc(func(ctx context.Context, angle float64) error {
			if err := servo.SetPosition(ctx, DegreesToSteps(angle)); err != nil {
				return fmt.Errorf("servo %d: set position: %w", id, err)
			}
			return nil
		})
	}
	return handles
}

// ReadAngle reads the present angle of one joint.
func (b *Body) ReadAngle(ctx context.Context, id JointID) (float64, error) {
	servo, ok := b.servos[id]
	if !ok {
		return 0, fmt.Errorf("servo %d not on bus", id)
	}
	raw, err := servo.Position(ctx)
	if err != nil {
		return 0, fmt.Errorf("servo %d: read position: %w", id, err)
	}
	return StepsToDegrees(raw), nil
}

// Disable disables torque on all servos.
func (b *Body) Disable(ctx context.Context) error {
	return b.group.DisableAll(ctx)
}
