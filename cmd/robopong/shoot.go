package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/interactions-lab/robopong/pkg/history"
	"github.com/interactions-lab/robopong/pkg/profile"
	"github.com/interactions-lab/robopong/pkg/target"
)

type ShootCommand struct {
	Target string `long:"target" default:"auto" description:"cup 1-6, kill, trick, or auto (detector-chosen)"`
}

func (c *ShootCommand) Execute(args []string) error {
	rig, err := loadRig()
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer rig.close()

	req := target.Auto()
	if c.Target != "auto" {
		t, err := profile.ParseTarget(c.Target)
		if err != nil {
			log.Fatalf("%v", err)
		}
		req = target.For(t)
	}

	ctx := context.Background()

	fmt.Println("Logging in...")
	if err := rig.session.Login(ctx); err != nil {
		log.Fatalf("login: %v", err)
	}
	defer func() { _ = rig.session.Logoff(context.Background()) }()

	fmt.Println("Running warmup sequence (this takes ~30 seconds)...")
	if err := rig.engine.Start(ctx); err != nil {
		log.Fatalf("start: %v", err)
	}

	resolved := rig.resolver.Resolve(ctx, req)
	p, err := rig.table.Lookup(resolved)
	if err != nil {
		log.Fatalf("%v", err)
	}

	fmt.Printf("Shooting at %s (pull %.1f)...\n", resolved, p.DiagonalPull)
	started := time.Now()
	shotErr := rig.engine.Shoot(ctx, p)

	outcome := "ok"
	if shotErr != nil {
		outcome = shotErr.Error()
	}
	_ = rig.store.Record(history.Record{
		Kind:      history.KindShot,
		Target:    string(resolved),
		Pull:      p.DiagonalPull,
		Rotations: p.RotationSteps,
		Outcome:   outcome,
		StartedAt: started.UTC(),
		Duration:  time.Since(started),
	})

	if shotErr != nil {
		log.Fatalf("shot failed: %v", shotErr)
	}
	fmt.Println("Shot complete, arm reloaded.")
	return nil
}
