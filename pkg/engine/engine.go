// Package engine executes named motion sequences against the device
// gateway. One engine drives one arm: sequences run strictly one step at
// a time on the caller's goroutine, and no two sequences may interleave.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/interactions-lab/robopong/pkg/cue"
	"github.com/interactions-lab/robopong/pkg/gateway"
	"github.com/interactions-lab/robopong/pkg/profile"
	"github.com/interactions-lab/robopong/pkg/session"
)

// ErrNotReady is returned when a shot is requested before the start
// sequence has run.
var ErrNotReady = errors.New("not ready: run start first")

// SequenceError reports a sequence aborted mid-run. The arm is left at
// the last pose it reached; the caller must re-run init or reload before
// the next command.
type SequenceError struct {
	Sequence string
	Step     string
	Index    int
	Err      error
}

func (e *SequenceError) Error() string {
	return fmt.Sprintf("sequence %s failed at step %d (%s): %v", e.Sequence, e.Index, e.Step, e.Err)
}

func (e *SequenceError) Unwrap() error { return e.Err }

// Config holds configuration for the engine.
type Config struct {
	Device  gateway.Device
	Session *session.Manager
	Sounds  cue.Player
	Speed   int // controller move speed, DefaultSpeed when zero

	// Clock overrides how Wait steps pause; nil means real time. Test
	// harnesses fake it.
	Clock func(ctx context.Context, d time.Duration) error
}

// Engine runs sequences. Not safe for concurrent use: the arm is a
// singleton physical resource.
type Engine struct {
	dev     gateway.Device
	session *session.Manager
	sounds  cue.Player
	speed   int
	started bool

	// wait pauses between steps; tests substitute a fake clock.
	wait  func(ctx context.Context, d time.Duration) error
	logCh chan string
}

// New creates an engine.
func New(cfg Config) *Engine {
	if cfg.Speed <= 0 {
		cfg.Speed = DefaultSpeed
	}
	sounds := cfg.Sounds
	if sounds == nil {
		sounds = cue.Nop{}
	}
	wait := cfg.Clock
	if wait == nil {
		wait = sleepCtx
	}
	return &Engine{
		dev:     cfg.Device,
		session: cfg.Session,
		sounds:  sounds,
		speed:   cfg.Speed,
		wait:    wait,
		logCh:   make(chan string, 10),
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Logs returns a channel that receives progress messages.
func (e *Engine) Logs() <-chan string {
	return e.logCh
}

func (e *Engine) log(format string, args ...any) {
	msg := fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), fmt.Sprintf(format, args...))
	select {
	case e.logCh <- msg:
	default:
		// Drop if channel full
	}
}

// Started reports whether the start sequence has completed.
func (e *Engine) Started() bool {
	return e.started
}

// Start runs the warmup sequence. Must complete once after login before
// any shot.
func (e *Engine) Start(ctx context.Context) error {
	if err := e.Run(ctx, StartSequence()); err != nil {
		return err
	}
	e.started = true
	return nil
}

// Shoot runs the shot sequence for the profile, reload included.
func (e *Engine) Shoot(ctx context.Context, p profile.Profile) error {
	if !e.started {
		return ErrNotReady
	}
	return e.Run(ctx, ShotSequence(p))
}

// Init moves the arm to the home pose.
func (e *Engine) Init(ctx context.Context) error {
	return e.Run(ctx, InitSequence())
}

// Reload picks up a fresh ball and loads the slingshot.
func (e *Engine) Reload(ctx context.Context) error {
	if !e.started {
		return ErrNotReady
	}
	return e.Run(ctx, ReloadSequence())
}

// Pickup runs the standalone ball pickup.
func (e *Engine) Pickup(ctx context.Context) error {
	if !e.started {
		return ErrNotReady
	}
	return e.Run(ctx, PickupSequence())
}

// Emote runs the celebration move.
func (e *Engine) Emote(ctx context.Context) error {
	if !e.started {
		return ErrNotReady
	}
	return e.Run(ctx, EmoteSequence())
}

// Run executes the sequence step by step. The session token is borrowed
// once for the run; a step failure aborts the remainder with no retry and
// no recovery moves.
func (e *Engine) Run(ctx context.Context, seq Sequence) error {
	token, err := e.session.Token()
	if err != nil {
		return err
	}

	runID := uuid.NewString()[:8]
	e.log("%s (%s): %d steps", seq.Name, runID, len(seq.Steps))

	for i, step := range seq.Steps {
		if err := e.execute(ctx, token, step); err != nil {
			e.log("%s (%s): aborted at step %d (%s): %v", seq.Name, runID, i, step.StepName(), err)
			return &SequenceError{Sequence: seq.Name, Step: step.StepName(), Index: i, Err: err}
		}
	}

	e.log("%s (%s): done", seq.Name, runID)
	return nil
}

func (e *Engine) execute(ctx context.Context, token string, step Step) error {
	switch s := step.(type) {
	case MoveTo:
		return e.dev.MoveTo(ctx, token, s.Pose, e.speed)
	case MoveDiagonal:
		current, err := e.dev.Pose(ctx, token)
		if err != nil {
			return err
		}
		return e.dev.MoveTo(ctx, token, current.DiagonalOffset(s.Pull, s.Angle), e.speed)
	case MoveRotate:
		current, err := e.dev.Pose(ctx, token)
		if err != nil {
			return err
		}
		return e.dev.MoveTo(ctx, token, current.RotateAboutVertical(s.Angle), e.speed)
	case MovePitch:
		current, err := e.dev.Pose(ctx, token)
		if err != nil {
			return err
		}
		return e.dev.MoveTo(ctx, token, current.WithPitchDelta(s.Delta), e.speed)
	case MoveAxis:
		current, err := e.dev.Pose(ctx, token)
		if err != nil {
			return err
		}
		return e.dev.MoveTo(ctx, token, current.WithAxisDelta(s.Axis, s.Delta), e.speed)
	case Grip:
		return e.dev.SetGripper(ctx, token, s.Strength)
	case Wait:
		return e.wait(ctx, s.D)
	case Cue:
		e.sounds.Play(s.Name)
		return nil
	default:
		return fmt.Errorf("unknown step type %T", step)
	}
}
