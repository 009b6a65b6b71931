package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/interactions-lab/robopong/pkg/config"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type SetupCommand struct{}

func (c *SetupCommand) Execute(args []string) error {
	fmt.Println(headerStyle.Render("RoboPong Setup"))
	fmt.Println(dimStyle.Render("━━━━━━━━━━━━━━"))
	fmt.Println()

	// Start from the existing config so re-running setup edits in place.
	cfg := &config.Config{
		Gateway:  config.GatewayConfig{BaseURL: config.DefaultGatewayURL},
		Detector: config.DetectorConfig{BaseURL: config.DefaultDetectorURL},
	}
	if config.Exists() {
		if loaded, err := config.Load(); err == nil {
			cfg = loaded
		}
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Operator name").
				Description("Shown to the controller on login").
				Value(&cfg.Gateway.Name),
			huh.NewInput().
				Title("Operator email").
				Value(&cfg.Gateway.Email),
			huh.NewInput().
				Title("Controller base URL").
				Value(&cfg.Gateway.BaseURL),
			huh.NewInput().
				Title("Detector base URL").
				Description("Vision server providing /detections").
				Value(&cfg.Detector.BaseURL),
			huh.NewInput().
				Title("Calibration file (optional)").
				Description("YAML shot-profile overrides, blank for built-in calibration").
				Value(&cfg.CalibrationFile),
			huh.NewInput().
				Title("History file (optional)").
				Description("SQLite shot log, blank to disable").
				Value(&cfg.HistoryFile),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	if cfg.Gateway.Name == "" {
		fmt.Fprintln(os.Stderr, "Operator name is required.")
		os.Exit(1)
	}

	if err := cfg.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println(successStyle.Render("Setup complete!"))
	fmt.Printf("Configuration saved to %s\n", config.DefaultConfigFile)
	fmt.Println()
	fmt.Println("Start the console with: " + headerStyle.Render("robopong play"))

	return nil
}
