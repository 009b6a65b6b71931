// Package cue is the sound-effect side channel. Playback is best-effort
// and never affects command outcomes; the actual audio backend lives
// outside this module, behind the Player interface.
package cue

import (
	"fmt"
	"io"
)

// Well-known cue names, matching the files shipped in the sounds/ folder.
const (
	LogOn  = "log_on.mp3"
	LogOff = "log_off.mp3"
	Shot   = "shot.mp3"
	PickUp = "pick_up.mp3"
)

// Player plays a named sound cue. Implementations must not block on
// playback and must swallow their own errors.
type Player interface {
	Play(name string)
}

// Nop discards all cues.
type Nop struct{}

func (Nop) Play(string) {}

// Console announces cues on a writer instead of playing audio. Used when
// no audio backend is wired up.
type Console struct {
	W io.Writer
}

func (c Console) Play(name string) {
	if c.W == nil {
		return
	}
	_, _ = fmt.Fprintf(c.W, "♪ %s\n", name)
}
