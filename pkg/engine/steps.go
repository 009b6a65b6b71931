package engine

import (
	"fmt"
	"time"

	"github.com/interactions-lab/robopong/pkg/pose"
)

// Gripper strengths calibrated for the ping-pong ball and the slingshot
// handle.
const (
	GripClosed = 255 // firm grip on the slingshot handle
	GripBall   = 370 // semi-closed, holds the ball without crushing it
	GripOpen   = 400 // fully open / release
)

// DefaultSpeed is the controller move speed used by every sequence.
const DefaultSpeed = 100

// Settle delays approximating motion completion. The controller's move
// call is fire-and-confirm, so each physical step is followed by a fixed
// wait sized to the slowest observed travel.
const (
	settleShort = 1 * time.Second
	settleLoad  = 3 * time.Second
	settleLong  = 4 * time.Second
	settlePick  = 5 * time.Second
)

// Step is one entry in a sequence. Steps are declarative; the engine
// interprets them in order and never starts one before the previous
// finished.
type Step interface {
	StepName() string
}

// MoveTo moves the arm to an absolute pose.
type MoveTo struct {
	Pose pose.Pose
}

func (s MoveTo) StepName() string { return "move" }

// MoveDiagonal queries the current pose and pulls it diagonally in the
// Y-Z plane (slingshot draw).
type MoveDiagonal struct {
	Pull  float64
	Angle float64
}

func (s MoveDiagonal) StepName() string { return fmt.Sprintf("diagonal %.1f", s.Pull) }

// MoveRotate queries the current pose and rotates it about the vertical
// axis.
type MoveRotate struct {
	Angle float64
}

func (s MoveRotate) StepName() string { return fmt.Sprintf("rotate %.1f", s.Angle) }

// MovePitch queries the current pose and adjusts the pitch.
type MovePitch struct {
	Delta float64
}

func (s MovePitch) StepName() string { return fmt.Sprintf("pitch %.0f", s.Delta) }

// MoveAxis queries the current pose and shifts it along one axis.
type MoveAxis struct {
	Axis  pose.Axis
	Delta float64
}

func (s MoveAxis) StepName() string { return fmt.Sprintf("move %s %.0f", s.Axis, s.Delta) }

// Grip sets the gripper strength.
type Grip struct {
	Strength int
}

func (s Grip) StepName() string { return fmt.Sprintf("grip %d", s.Strength) }

// Wait pauses the sequence, letting a commanded motion settle.
type Wait struct {
	D time.Duration
}

func (s Wait) StepName() string { return fmt.Sprintf("wait %s", s.D) }

// Cue plays a sound effect. Best-effort, never fails a sequence.
type Cue struct {
	Name string
}

func (s Cue) StepName() string { return "cue " + s.Name }

// Sequence is a named, ordered list of steps implementing one maneuver.
type Sequence struct {
	Name  string
	Steps []Step
}
