package target

import (
	"context"
	"errors"

	"github.com/interactions-lab/robopong/pkg/profile"
)

// Fallback targets for a failing detector. The asymmetry is deliberate
// calibration behavior carried over as-is: a dead or timed-out detector
// aims at cup 3, a reachable detector with nothing useful to say aims at
// cup 2.
const (
	FallbackUnavailable = profile.Cup3
	FallbackEmpty       = profile.Cup2
)

// Request names what the caller wants to shoot at: a concrete target, or
// Auto to let the detector choose.
type Request struct {
	Auto   bool
	Target profile.Target
}

// Auto requests detector-chosen targeting.
func Auto() Request {
	return Request{Auto: true}
}

// For requests a concrete target.
func For(t profile.Target) Request {
	return Request{Target: t}
}

func (r Request) String() string {
	if r.Auto {
		return "auto"
	}
	return string(r.Target)
}

// Resolver turns a request into a single target.
type Resolver struct {
	det Detector
}

// NewResolver creates a resolver backed by det.
func NewResolver(det Detector) *Resolver {
	return &Resolver{det: det}
}

// Resolve returns the target to shoot at. Concrete requests pass through
// untouched. Auto queries the detector and picks the highest-confidence
// cup; any detector failure resolves to a fixed fallback instead of an
// error, because a live game must not stall on a flaky camera.
func (r *Resolver) Resolve(ctx context.Context, req Request) profile.Target {
	if !req.Auto {
		return req.Target
	}

	detections, err := r.det.Detections(ctx)
	if err != nil {
		var unavailable *UnavailableError
		if errors.As(err, &unavailable) {
			return FallbackUnavailable
		}
		return FallbackEmpty
	}
	if len(detections) == 0 {
		return FallbackEmpty
	}

	// Snapshot is sorted by confidence, highest first.
	best := detections[0]
	cup, err := profile.Cup(best.ClassID + 1)
	if err != nil {
		return FallbackEmpty
	}
	return cup
}
