package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/interactions-lab/robopong/pkg/cue"
	"github.com/interactions-lab/robopong/pkg/engine"
	"github.com/interactions-lab/robopong/pkg/history"
	"github.com/interactions-lab/robopong/pkg/pose"
	"github.com/interactions-lab/robopong/pkg/profile"
)

type CalibrateCommand struct{}

// trialSequence is a bare shot without the reload: grab the sling, pull,
// rotate, release. The operator fetches the ball and judges the landing.
func trialSequence(pull, rotation float64) engine.Sequence {
	return engine.Sequence{
		Name: "trial",
		Steps: []engine.Step{
			engine.MoveTo{Pose: pose.SlingGrab},
			engine.Wait{D: time.Second},
			engine.Grip{Strength: engine.GripClosed},
			engine.Wait{D: time.Second},
			engine.MoveDiagonal{Pull: pull, Angle: pose.DefaultPullAngle},
			engine.Wait{D: time.Second},
			engine.MoveRotate{Angle: rotation},
			engine.Wait{D: time.Second},
			engine.Grip{Strength: engine.GripOpen},
			engine.Cue{Name: cue.Shot},
		},
	}
}

func (c *CalibrateCommand) Execute(args []string) error {
	rig, err := loadRig()
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer rig.close()

	ctx := context.Background()
	var lastPull, lastRotation float64
	haveTrial := false

	fmt.Println(headerStyle.Render("RoboPong Calibration"))
	fmt.Println(dimStyle.Render("━━━━━━━━━━━━━━━━━━━━"))
	fmt.Println("Commands:")
	fmt.Println("  start              - log in and move to the home pose")
	fmt.Println("  shot <pull> <rot>  - test shot (e.g. 'shot 9.5 0.3'), no reload")
	fmt.Println("  save <cup>         - store the last trial as that cup's profile")
	fmt.Println("  quit               - log off and exit")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("calibrate> ")
		if !scanner.Scan() {
			break
		}
		fields := strings.Fields(strings.ToLower(scanner.Text()))
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "start":
			fmt.Println("Logging in...")
			if err := rig.session.Login(ctx); err != nil {
				fmt.Printf("ERROR: %v\n", err)
				continue
			}
			warmup := engine.Sequence{
				Name: "calibration warmup",
				Steps: []engine.Step{
					engine.MovePitch{Delta: -90},
					engine.Wait{D: 4 * time.Second},
					engine.MoveTo{Pose: pose.Home},
					engine.Wait{D: time.Second},
				},
			}
			if err := rig.engine.Run(ctx, warmup); err != nil {
				fmt.Printf("ERROR: %v\n", err)
				continue
			}
			fmt.Println("Ready for calibration.")

		case "shot", "shoot":
			if len(fields) != 3 {
				fmt.Println("Usage: shot <pull> <rotation>, e.g. 'shot 9.3 0.5'")
				continue
			}
			pull, err1 := strconv.ParseFloat(fields[1], 64)
			rotation, err2 := strconv.ParseFloat(fields[2], 64)
			if err1 != nil || err2 != nil {
				fmt.Println("ERROR: invalid number, use decimals like 9.3 or 0.5")
				continue
			}

			fmt.Printf("Testing pull=%.2f rotation=%.2f...\n", pull, rotation)
			started := time.Now()
			err := rig.engine.Run(ctx, trialSequence(pull, rotation))

			outcome := "ok"
			if err != nil {
				outcome = err.Error()
				fmt.Printf("ERROR: %v\n", err)
			} else {
				lastPull, lastRotation = pull, rotation
				haveTrial = true
				fmt.Println("Trial complete. Observe the landing, then adjust or save.")
			}
			_ = rig.store.Record(history.Record{
				Kind:      history.KindTrial,
				Target:    "trial",
				Pull:      pull,
				Rotations: []float64{rotation},
				Outcome:   outcome,
				StartedAt: started.UTC(),
				Duration:  time.Since(started),
			})

		case "save":
			if !haveTrial {
				fmt.Println("ERROR: no trial yet, run 'shot' first")
				continue
			}
			if len(fields) != 2 {
				fmt.Println("Usage: save <cup>, e.g. 'save 3'")
				continue
			}
			tgt, err := profile.ParseTarget(fields[1])
			if err != nil {
				fmt.Printf("ERROR: %v\n", err)
				continue
			}
			rig.table[tgt] = profile.Profile{
				Target:        tgt,
				DiagonalPull:  lastPull,
				RotationSteps: []float64{lastRotation},
			}
			path := rig.cfg.CalibrationFile
			if path == "" {
				path = "cups.yaml"
			}
			if err := rig.table.Save(path); err != nil {
				fmt.Printf("ERROR: %v\n", err)
				continue
			}
			fmt.Printf("Saved %s = pull %.2f, rotation %.2f to %s\n", tgt, lastPull, lastRotation, path)

		case "quit", "exit":
			fmt.Println("Logging off...")
			_ = rig.session.Logoff(ctx)
			fmt.Println("Goodbye!")
			return nil

		default:
			fmt.Println("Unknown command. Try: start, shot <pull> <rot>, save <cup>, quit")
		}
	}

	_ = rig.session.Logoff(ctx)
	return scanner.Err()
}
