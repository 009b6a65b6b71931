package command

import (
	"context"
	"time"

	"github.com/interactions-lab/robopong/pkg/engine"
	"github.com/interactions-lab/robopong/pkg/history"
	"github.com/interactions-lab/robopong/pkg/profile"
	"github.com/interactions-lab/robopong/pkg/session"
	"github.com/interactions-lab/robopong/pkg/target"
)

// Result reports one executed command to the front end.
type Result struct {
	Cmd      Command
	Target   profile.Target // resolved target for Shoot, "" otherwise
	Err      error
	Duration time.Duration
}

// Config holds the collaborators the loop drives.
type Config struct {
	Session  *session.Manager
	Engine   *engine.Engine
	Resolver *target.Resolver
	Table    profile.Table
	Store    *history.Store // optional, nil disables recording
}

// Loop executes commands strictly one at a time. Producers enqueue
// commands while a sequence runs; the queue decouples capture timing from
// multi-second shot execution, and a running sequence is never
// interrupted.
type Loop struct {
	session  *session.Manager
	engine   *engine.Engine
	resolver *target.Resolver
	table    profile.Table
	store    *history.Store

	results chan Result
}

// NewLoop creates a command loop.
func NewLoop(cfg Config) *Loop {
	table := cfg.Table
	if table == nil {
		table = profile.Defaults()
	}
	return &Loop{
		session:  cfg.Session,
		engine:   cfg.Engine,
		resolver: cfg.Resolver,
		table:    table,
		store:    cfg.Store,
		results:  make(chan Result, 10),
	}
}

// Results returns a channel that receives one Result per executed command.
func (l *Loop) Results() <-chan Result {
	return l.results
}

// Run drains cmds until Terminate, channel close, or context cancellation.
// The session is released on the way out.
func (l *Loop) Run(ctx context.Context, cmds <-chan Command) error {
	defer func() { _ = l.session.Logoff(context.Background()) }()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd, ok := <-cmds:
			if !ok {
				return nil
			}
			if _, done := cmd.(Terminate); done {
				l.report(Result{Cmd: cmd})
				return nil
			}
			l.dispatch(ctx, cmd)
		}
	}
}

func (l *Loop) dispatch(ctx context.Context, cmd Command) {
	started := time.Now()
	result := Result{Cmd: cmd}

	switch c := cmd.(type) {
	case Login:
		result.Err = l.session.Login(ctx)
	case Logoff:
		result.Err = l.session.Logoff(ctx)
	case Start:
		result.Err = l.engine.Start(ctx)
	case Shoot:
		result.Target, result.Err = l.shoot(ctx, c.Request, started)
	case Reload:
		result.Err = l.engine.Reload(ctx)
	case Pickup:
		result.Err = l.engine.Pickup(ctx)
	case Emote:
		result.Err = l.engine.Emote(ctx)
	}

	result.Duration = time.Since(started)
	l.report(result)
}

func (l *Loop) shoot(ctx context.Context, req target.Request, started time.Time) (profile.Target, error) {
	resolved := l.resolver.Resolve(ctx, req)

	p, err := l.table.Lookup(resolved)
	if err != nil {
		return resolved, err
	}

	err = l.engine.Shoot(ctx, p)

	outcome := "ok"
	if err != nil {
		outcome = err.Error()
	}
	_ = l.store.Record(history.Record{
		Kind:      history.KindShot,
		Target:    string(resolved),
		Pull:      p.DiagonalPull,
		Rotations: p.RotationSteps,
		Outcome:   outcome,
		StartedAt: started.UTC(),
		Duration:  time.Since(started),
	})
	return resolved, err
}

func (l *Loop) report(r Result) {
	select {
	case l.results <- r:
	default:
		// Drop if channel full
	}
}
