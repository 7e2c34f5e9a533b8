package gait

import (
	"context"
	"time"

	"github.com/gwillem/onyx/pkg/motion"
	"github.com/gwillem/onyx/pkg/robot"
)

// Phase is a timed segment of one diagonal step.
type Phase string

const (
	PhaseAdvance Phase = "advance" // hips swing forward, knees lift
	PhaseHold    Phase = "hold"    // pause at the top of the step
	PhaseReturn  Phase = "return"  // joints travel back to the baseline
	PhaseSettle  Phase = "settle"  // pause before the other diagonal
)

// PhaseFunc is called as a diagonal enters each phase.
type PhaseFunc func(d robot.Diagonal, p Phase)

// Sequencer steps one diagonal pair of legs: advance and lift, hold, return
// to the baseline, settle. Motion is open loop; every step starts from the
// baseline pose.
type Sequencer struct {
	mover    *motion.Mover
	clock    motion.Clock
	cfg      Config
	baseline robot.Pose
	targets  Targets
	onPhase  PhaseFunc
}

// NewSequencer creates a sequencer. The baseline is copied.
func NewSequencer(mover *motion.Mover, clock motion.Clock, cfg Config, baseline robot.Pose) *Sequencer {
	if clock == nil {
		clock = motion.SystemClock{}
	}
	baseline = baseline.Clone()
	return &Sequencer{
		mover:    mover,
		clock:    clock,
		cfg:      cfg,
		baseline: baseline,
		targets:  NewTargets(baseline, robot.Legs(), cfg),
	}
}

// OnPhase registers fn to be told about phase changes.
func (s *Sequencer) OnPhase(fn PhaseFunc) {
	s.onPhase = fn
}

// Targets returns the step targets.
func (s *Sequencer) Targets() Targets {
	return s.targets
}

// MoveDiagonalPair runs one full step of d. Leg A moves before leg B unless
// legs overlap. The step always completes, leaving every joint of d at its
// baseline angle.
func (s *Sequencer) MoveDiagonalPair(ctx context.Context, d robot.Diagonal) {
	legs := []robot.Leg{d.A, d.B}

	s.enter(d, PhaseAdvance)
	if s.cfg.StaggerJoints {
		half := s.cfg.MoveDuration / 2
		s.drive(ctx, legs, s.outward(hipOf), half)
		s.drive(ctx, legs, s.outward(kneeOf), half)
	} else {
		s.drive(ctx, legs, s.outward(hipOf, kneeOf), s.cfg.MoveDuration)
	}

	s.enter(d, PhaseHold)
	s.pause(s.cfg.Hold)

	s.enter(d, PhaseReturn)
	s.drive(ctx, legs, s.homeward(hipOf, kneeOf), s.cfg.ReturnDuration)

	s.enter(d, PhaseSettle)
	s.pause(s.cfg.Settle)
}

func hipOf(leg robot.Leg) robot.JointID  { return leg.Hip }
func kneeOf(leg robot.Leg) robot.JointID { return leg.Knee }

type movesFunc func(leg robot.Leg) []motion.Move

// outward moves the selected joints of a leg from baseline to target.
func (s *Sequencer) outward(joints ...func(robot.Leg) robot.JointID) movesFunc {
	return func(leg robot.Leg) []motion.Move {
		var moves []motion.Move
		for _, joint := range joints {
			id := joint(leg)
			if target, ok := s.targets.Of(id); ok {
				moves = append(moves, motion.Move{ID: id, From: s.baseline[id], To: target})
			}
		}
		return moves
	}
}

// homeward moves the selected joints of a leg from target back to baseline.
func (s *Sequencer) homeward(joints ...func(robot.Leg) robot.JointID) movesFunc {
	return func(leg robot.Leg) []motion.Move {
		var moves []motion.Move
		for _, joint := range joints {
			id := joint(leg)
			if target, ok := s.targets.Of(id); ok {
				moves = append(moves, motion.Move{ID: id, From: target, To: s.baseline[id]})
			}
		}
		return moves
	}
}

func (s *Sequencer) drive(ctx context.Context, legs []robot.Leg, moves movesFunc, duration time.Duration) {
	steps := s.cfg.InterpolationSteps
	if s.cfg.OverlapLegs {
		var group []motion.Move
		for _, leg := range legs {
			group = append(group, moves(leg)...)
		}
		s.mover.MoveGroup(ctx, group, duration, steps)
		return
	}
	for _, leg := range legs {
		s.mover.MoveGroup(ctx, moves(leg), duration, steps)
	}
}

func (s *Sequencer) pause(d time.Duration) {
	if d > 0 {
		s.clock.Sleep(d)
	}
}

func (s *Sequencer) enter(d robot.Diagonal, p Phase) {
	if s.onPhase != nil {
		s.onPhase(d, p)
	}
}
