package main

import (
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/interactions-lab/robopong/pkg/config"
	"github.com/interactions-lab/robopong/pkg/cue"
	"github.com/interactions-lab/robopong/pkg/engine"
	"github.com/interactions-lab/robopong/pkg/gateway"
	"github.com/interactions-lab/robopong/pkg/history"
	"github.com/interactions-lab/robopong/pkg/profile"
	"github.com/interactions-lab/robopong/pkg/session"
	"github.com/interactions-lab/robopong/pkg/target"
)

type Options struct {
	Setup     SetupCommand     `command:"setup" description:"Configure operator identity and endpoints"`
	Play      PlayCommand      `command:"play" description:"Interactive beer-pong console"`
	Shoot     ShootCommand     `command:"shoot" description:"Log in, fire one shot, log off"`
	Calibrate CalibrateCommand `command:"calibrate" description:"Interactive shot calibration"`
}

var opts Options
var parser = flags.NewParser(&opts, flags.Default)

func main() {
	parser.LongDescription = "RoboPong - beer-pong robot arm control CLI"

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
		}
		os.Exit(1)
	}
}

// rig bundles the wired-up collaborators every command needs.
type rig struct {
	cfg      *config.Config
	session  *session.Manager
	engine   *engine.Engine
	detector *target.Client
	resolver *target.Resolver
	table    profile.Table
	store    *history.Store
}

func loadRig() (*rig, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("no configuration found, run 'robopong setup' first: %w", err)
	}
	if !cfg.IsConfigured() {
		return nil, fmt.Errorf("operator not configured, run 'robopong setup' first")
	}

	sounds := cue.Console{W: os.Stderr}

	gw := gateway.NewClient(cfg.Gateway.BaseURL)
	sess := session.NewManager(gw, gateway.Operator{
		Name:  cfg.Gateway.Name,
		Email: cfg.Gateway.Email,
	}, sounds)

	eng := engine.New(engine.Config{
		Device:  gw,
		Session: sess,
		Sounds:  sounds,
		Speed:   cfg.Speed,
	})

	detector := target.NewClient(cfg.Detector.BaseURL)
	if cfg.Detector.Timeout > 0 {
		detector.Timeout = cfg.Detector.Timeout
	}

	table, err := profile.LoadTable(cfg.CalibrationFile)
	if err != nil {
		return nil, err
	}

	var store *history.Store
	if cfg.HistoryFile != "" {
		store, err = history.Open(cfg.HistoryFile)
		if err != nil {
			return nil, err
		}
	}

	return &rig{
		cfg:      cfg,
		session:  sess,
		engine:   eng,
		detector: detector,
		resolver: target.NewResolver(detector),
		table:    table,
		store:    store,
	}, nil
}

func (r *rig) close() {
	_ = r.store.Close()
}
