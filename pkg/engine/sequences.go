package engine

import (
	"github.com/interactions-lab/robopong/pkg/cue"
	"github.com/interactions-lab/robopong/pkg/pose"
	"github.com/interactions-lab/robopong/pkg/profile"
)

// InitSequence moves the arm to the home pose above the table.
func InitSequence() Sequence {
	return Sequence{
		Name: "init",
		Steps: []Step{
			MoveTo{Pose: pose.Home},
			Wait{D: settleShort},
		},
	}
}

// StartSequence is the one-time warmup after login: straighten the wrist,
// pick up a ball and load it into the slingshot. Must run before any shot.
func StartSequence() Sequence {
	return Sequence{
		Name: "start",
		Steps: []Step{
			Cue{Name: cue.LogOn},
			MovePitch{Delta: -90},
			Wait{D: settleLong},
			MoveTo{Pose: pose.Home},
			Wait{D: settleLong},
			MoveTo{Pose: pose.BallPickupHigh},
			Wait{D: settleLong},
			MoveTo{Pose: pose.BallPickupLow},
			Wait{D: settleLong},
			Grip{Strength: GripBall},
			MoveTo{Pose: pose.Home},
			Wait{D: settleLong},
			MoveTo{Pose: pose.SlingLoad},
			Wait{D: settleLoad},
			Grip{Strength: GripOpen},
			MoveTo{Pose: pose.Home},
		},
	}
}

// ReloadSequence picks up a fresh ball and loads the slingshot. It runs
// unconditionally after every shot and is restartable: every move target
// is absolute, so running it twice leaves the arm in the same loaded
// state.
func ReloadSequence() Sequence {
	return Sequence{
		Name:  "reload",
		Steps: reloadSteps(),
	}
}

func reloadSteps() []Step {
	return []Step{
		MoveTo{Pose: pose.Home},
		Wait{D: settleShort},
		Grip{Strength: GripOpen},
		Wait{D: settleShort},
		MoveTo{Pose: pose.BallPickupHigh},
		Wait{D: settleShort},
		MoveTo{Pose: pose.BallPickupLow},
		Wait{D: settlePick},
		Grip{Strength: GripBall},
		Wait{D: settleShort},
		MoveTo{Pose: pose.Home},
		Wait{D: settleShort},
		MoveTo{Pose: pose.SlingLoad},
		Wait{D: settleLong},
		Grip{Strength: GripOpen},
		MoveTo{Pose: pose.Home},
	}
}

// ShotSequence draws the slingshot per the profile, aims, releases, and
// reloads. Gripper close always precedes the pull; release always follows
// the last rotation.
func ShotSequence(p profile.Profile) Sequence {
	steps := []Step{
		MoveTo{Pose: pose.SlingGrab},
		Wait{D: settleShort},
		Grip{Strength: GripClosed},
		Wait{D: settleShort},
		MoveDiagonal{Pull: p.DiagonalPull, Angle: p.PullAngle},
		Wait{D: settleShort},
	}
	for _, angle := range p.RotationSteps {
		steps = append(steps,
			MoveRotate{Angle: angle},
			Wait{D: settleShort},
		)
	}
	steps = append(steps,
		Grip{Strength: GripOpen},
		Cue{Name: cue.Shot},
		Wait{D: settleShort},
	)
	steps = append(steps, reloadSteps()...)

	return Sequence{
		Name:  "shot " + string(p.Target),
		Steps: steps,
	}
}

// PickupSequence is the standalone ball pickup without a preceding shot.
func PickupSequence() Sequence {
	return Sequence{
		Name: "pickup",
		Steps: []Step{
			Grip{Strength: GripOpen},
			MoveTo{Pose: pose.BallPickupHigh},
			Wait{D: settleLong},
			MoveTo{Pose: pose.BallPickupLow},
			Wait{D: settleLong},
			Grip{Strength: GripBall},
			Cue{Name: cue.PickUp},
			MoveTo{Pose: pose.Home},
			Wait{D: settlePick},
			MoveTo{Pose: pose.SlingLoad},
			Wait{D: settleLoad},
			Grip{Strength: GripOpen},
			MoveTo{Pose: pose.Home},
		},
	}
}

// EmoteSequence is the celebration move: wrist down, then an L-shaped
// up/down/side translation. Independent of shot and reload state.
func EmoteSequence() Sequence {
	return Sequence{
		Name: "emote",
		Steps: []Step{
			MovePitch{Delta: -90},
			Wait{D: settleLong},
			MoveAxis{Axis: pose.AxisZ, Delta: 400},
			Wait{D: settleLong},
			MoveAxis{Axis: pose.AxisZ, Delta: -350},
			Wait{D: settleLong},
			MoveAxis{Axis: pose.AxisX, Delta: 225},
		},
	}
}
