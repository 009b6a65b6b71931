// Package profile holds the calibrated shot parameters for each target.
// The built-in values were determined by live calibration against the
// six-cup rack; they can be overridden per table from a YAML file written
// by the calibrate command.
package profile

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/interactions-lab/robopong/pkg/pose"
)

// Target identifies what a shot is calibrated for: one of the six cups or
// a special shot kind.
type Target string

const (
	Cup1  Target = "cup_1"
	Cup2  Target = "cup_2"
	Cup3  Target = "cup_3"
	Cup4  Target = "cup_4"
	Cup5  Target = "cup_5"
	Cup6  Target = "cup_6"
	Kill  Target = "kill"
	Trick Target = "trick"
)

// Cup returns the target for a cup number 1..6.
func Cup(n int) (Target, error) {
	if n < 1 || n > 6 {
		return "", &UnknownTargetError{Requested: strconv.Itoa(n)}
	}
	return Target(fmt.Sprintf("cup_%d", n)), nil
}

// Profile is one target's calibrated shot parameters. Immutable once
// looked up.
type Profile struct {
	Target        Target    `yaml:"-"`
	DiagonalPull  float64   `yaml:"pull"`
	RotationSteps []float64 `yaml:"rotations,omitempty"`
	PullAngle     float64   `yaml:"pull_angle,omitempty"`
}

// UnknownTargetError reports a lookup for a target outside the table.
type UnknownTargetError struct {
	Requested string
}

func (e *UnknownTargetError) Error() string {
	return fmt.Sprintf("unknown target %q (want cup 1-6, kill or trick)", e.Requested)
}

// Table maps targets to profiles.
type Table map[Target]Profile

// Defaults returns the calibrated table for the standard rack.
// The trick shot differs from a cup shot only in issuing two rotation
// steps (out and back), which curves the release path.
func Defaults() Table {
	return Table{
		Cup1:  {Target: Cup1, DiagonalPull: 12, RotationSteps: []float64{-0.6}},
		Cup2:  {Target: Cup2, DiagonalPull: 9.3},
		Cup3:  {Target: Cup3, DiagonalPull: 9.9, RotationSteps: []float64{0.5}},
		Cup4:  {Target: Cup4, DiagonalPull: 9.2, RotationSteps: []float64{0}},
		Cup5:  {Target: Cup5, DiagonalPull: 9, RotationSteps: []float64{0.4}},
		Cup6:  {Target: Cup6, DiagonalPull: 8.6, RotationSteps: []float64{0}},
		Kill:  {Target: Kill, DiagonalPull: 14, RotationSteps: []float64{0}},
		Trick: {Target: Trick, DiagonalPull: 9, RotationSteps: []float64{0.4, 0}},
	}
}

// Lookup returns the profile for a target. The pull angle defaults to
// pose.DefaultPullAngle when the entry does not set one.
func (t Table) Lookup(target Target) (Profile, error) {
	p, ok := t[target]
	if !ok {
		return Profile{}, &UnknownTargetError{Requested: string(target)}
	}
	if p.PullAngle == 0 {
		p.PullAngle = pose.DefaultPullAngle
	}
	p.Target = target
	return p, nil
}

// ParseTarget maps user-facing spellings to a target. "auto" is not a
// target; resolving it is the targeting resolver's job.
func ParseTarget(s string) (Target, error) {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case "kill", "killshot", "kill_shot":
		return Kill, nil
	case "trick", "trickshot", "trick_shot":
		return Trick, nil
	default:
		v = strings.TrimPrefix(v, "cup_")
		v = strings.TrimPrefix(v, "cup")
		n, err := strconv.Atoi(v)
		if err != nil {
			return "", &UnknownTargetError{Requested: s}
		}
		return Cup(n)
	}
}
