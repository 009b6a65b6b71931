// Package command defines the closed set of operator commands and the
// loop that executes them one at a time. Front ends (CLI, voice, TUI)
// translate raw input into these variants at the boundary and enqueue
// them; nothing here parses text.
package command

import (
	"github.com/interactions-lab/robopong/pkg/target"
)

// Command is one operator command. The set is closed: front ends may only
// produce these variants.
type Command interface {
	isCommand()
	String() string
}

// Login acquires a fresh operator session.
type Login struct{}

// Logoff releases the session.
type Logoff struct{}

// Start runs the one-time warmup sequence. Requires a session.
type Start struct{}

// Shoot fires at the requested target (concrete or auto-detected).
type Shoot struct {
	Request target.Request
}

// Reload picks up a fresh ball and loads the slingshot.
type Reload struct{}

// Pickup runs the standalone ball pickup.
type Pickup struct{}

// Emote runs the celebration move.
type Emote struct{}

// Terminate logs off and stops the loop.
type Terminate struct{}

func (Login) isCommand()     {}
func (Logoff) isCommand()    {}
func (Start) isCommand()     {}
func (Shoot) isCommand()     {}
func (Reload) isCommand()    {}
func (Pickup) isCommand()    {}
func (Emote) isCommand()     {}
func (Terminate) isCommand() {}

func (Login) String() string     { return "login" }
func (Logoff) String() string    { return "logoff" }
func (Start) String() string     { return "start" }
func (s Shoot) String() string   { return "shoot " + s.Request.String() }
func (Reload) String() string    { return "reload" }
func (Pickup) String() string    { return "pickup" }
func (Emote) String() string     { return "emote" }
func (Terminate) String() string { return "terminate" }
