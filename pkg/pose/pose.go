// Package pose provides tool poses and the geometric transforms used to
// aim shots.
package pose

import "math"

// DefaultPullAngle is the diagonal pull angle (degrees) in the Y-Z plane
// used by every calibrated shot unless a profile overrides it.
const DefaultPullAngle = 56

// Axis identifies one position component.
type Axis string

const (
	AxisX Axis = "x"
	AxisY Axis = "y"
	AxisZ Axis = "z"
)

// Position is the tool center point in millimeters.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Rotation is the tool orientation in degrees.
type Rotation struct {
	Roll  float64 `json:"roll"`
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
}

// Pose is a 6-DOF tool pose. It is a value type: transforms return a new
// Pose and never mutate the receiver.
type Pose struct {
	Position Position `json:"coordinate"`
	Rotation Rotation `json:"rotation"`
}

// Fixed poses calibrated for the beer-pong table setup.
var (
	// Home is the safe position above the table.
	Home = Pose{
		Position: Position{X: 0, Y: -410, Z: 295},
		Rotation: Rotation{Roll: -180, Pitch: 0, Yaw: -90},
	}

	// BallPickupHigh hovers above the ball tray.
	BallPickupHigh = Pose{
		Position: Position{X: -270, Y: -255, Z: 30},
		Rotation: Rotation{Roll: -180, Pitch: 0, Yaw: -180},
	}

	// BallPickupLow is the descent target at ball level. The descent is a
	// separate move from BallPickupHigh so the gripper does not drag.
	BallPickupLow = Pose{
		Position: Position{X: -270, Y: -255, Z: 10},
		Rotation: Rotation{Roll: -180, Pitch: 0, Yaw: -180},
	}

	// SlingGrab engages the slingshot mechanism before a pull.
	SlingGrab = Pose{
		Position: Position{X: 0, Y: -540, Z: 215},
		Rotation: Rotation{Roll: 180, Pitch: -57, Yaw: -90},
	}

	// SlingLoad drops the ball into the slingshot pocket.
	SlingLoad = Pose{
		Position: Position{X: 0, Y: -560, Z: 300},
		Rotation: Rotation{Roll: 180, Pitch: 0, Yaw: -90},
	}
)

// RotateAboutVertical rotates the pose around the arm's vertical axis by
// angle degrees. The (x, y) position rotates with the yaw because the
// gripper turns as a rigid body around the arm base: rotating yaw alone
// would swing the tool off its radius.
func (p Pose) RotateAboutVertical(angle float64) Pose {
	rad := angle * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)

	out := p
	out.Position.X = cos*p.Position.X - sin*p.Position.Y
	out.Position.Y = sin*p.Position.X + cos*p.Position.Y
	out.Rotation.Yaw = p.Rotation.Yaw + angle
	return out
}

// DiagonalOffset moves the pose diagonally in the Y-Z plane, pulling the
// slingshot back and down. The travel distance is 10*pull millimeters,
// split across Y and Z at the given angle (degrees). X and orientation
// are unchanged. A pull of 0 is the identity move.
func (p Pose) DiagonalOffset(pull, angle float64) Pose {
	rad := angle * math.Pi / 180
	distance := 10 * pull

	out := p
	out.Position.Y += distance * math.Cos(rad)
	out.Position.Z -= distance * math.Sin(rad)
	return out
}

// WithPitchDelta adds delta degrees to the pitch, leaving everything else
// unchanged.
func (p Pose) WithPitchDelta(delta float64) Pose {
	out := p
	out.Rotation.Pitch += delta
	return out
}

// WithAxisDelta moves the pose along one axis. The Y delta is applied with
// inverted sign: the device's Y axis points toward the arm base, so a
// positive "forward" delta decreases the stored coordinate.
func (p Pose) WithAxisDelta(axis Axis, delta float64) Pose {
	out := p
	switch axis {
	case AxisX:
		out.Position.X += delta
	case AxisY:
		out.Position.Y -= delta
	case AxisZ:
		out.Position.Z += delta
	}
	return out
}
