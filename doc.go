// Package robopong drives a remote robot arm through a game of beer pong.
//
// The arm is operated over the CherryBot HTTP API: the module authenticates
// an operator session, runs calibrated pick/load/shoot/reload sequences, and
// can pick its target cup from a vision detector's output.
//
// # Usage
//
// First, run setup to configure the operator identity and endpoints:
//
//	robopong setup
//
// Then start the interactive console:
//
//	robopong play
//
// Or fire a single shot from the command line:
//
//	robopong shoot --target 3
//
// # Packages
//
// The module is organized into the following packages:
//
//   - cmd/robopong: CLI with setup, play, shoot and calibrate commands
//   - pkg/pose: tool poses and the geometric transforms behind shots
//   - pkg/gateway: HTTP client for the robot controller API
//   - pkg/session: operator session (token) lifecycle
//   - pkg/profile: calibrated shot profiles per target cup
//   - pkg/engine: the motion sequencer executing named step sequences
//   - pkg/target: cup selection from vision detections
//   - pkg/command: typed command set and the dispatch loop
//   - pkg/history: SQLite log of shots and calibration trials
//   - pkg/cue: audio cue playback
//   - pkg/config: JSON configuration file handling
package robopong
