package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/NimbleMarkets/ntcharts/linechart/streamlinechart"

	"github.com/interactions-lab/robopong/pkg/command"
	"github.com/interactions-lab/robopong/pkg/profile"
	"github.com/interactions-lab/robopong/pkg/target"
)

type PlayCommand struct {
	Poll int `long:"poll" default:"1" description:"Detector poll interval in seconds"`
}

const (
	headerHeight = 2 // title + blank line
	legendHeight = 2 // legend row + blank
	footerHeight = 9 // help + log box
	maxLogs      = 5 // number of log messages to show
	borderSize   = 2 // chart border
)

// Cup colors - distinct colors for each chart data set
var cupColors = map[profile.Target]string{
	profile.Cup1: "196", // red
	profile.Cup2: "208", // orange
	profile.Cup3: "226", // yellow
	profile.Cup4: "46",  // green
	profile.Cup5: "51",  // cyan
	profile.Cup6: "201", // magenta
}

var allCups = []profile.Target{
	profile.Cup1, profile.Cup2, profile.Cup3,
	profile.Cup4, profile.Cup5, profile.Cup6,
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	chartStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	busyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
)

type playModel struct {
	rig      *rig
	loop     *command.Loop
	cmds     chan<- command.Command
	poll     time.Duration
	chart    *streamlinechart.Model
	width    int
	height   int
	logs     []string
	pending  int // commands enqueued but not yet reported done
	quitting bool
}

func (m *playModel) addLog(msg string) {
	m.logs = append(m.logs, msg)
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

// Messages from the command loop, the engine, and the detector poll
type resultMsg command.Result
type logMsg string
type detectionsMsg []target.Detection
type pollMsg time.Time

func waitForResult(loop *command.Loop) tea.Cmd {
	return func() tea.Msg {
		return resultMsg(<-loop.Results())
	}
}

func waitForLog(logs <-chan string) tea.Cmd {
	return func() tea.Msg {
		return logMsg(<-logs)
	}
}

func fetchDetections(det *target.Client) tea.Cmd {
	return func() tea.Msg {
		detections, err := det.Detections(context.Background())
		if err != nil {
			return detectionsMsg(nil)
		}
		return detectionsMsg(detections)
	}
}

func pollTick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return pollMsg(t) })
}

func (m *playModel) chartSize() (width, height int) {
	if m.width == 0 || m.height == 0 {
		return 80, 16 // default size before we know terminal size
	}
	width = m.width - borderSize - 2
	if width < 40 {
		width = 40
	}
	height = m.height - headerHeight - legendHeight - footerHeight - borderSize
	if height < 8 {
		height = 8
	}
	return width, height
}

func (m *playModel) resizeChart() {
	w, h := m.chartSize()
	m.chart.Resize(w, h)
}

func initialPlayModel(r *rig, loop *command.Loop, cmds chan<- command.Command, poll time.Duration) playModel {
	chart := streamlinechart.New(80, 16,
		streamlinechart.WithYRange(0, 1),
	)

	for _, cup := range allCups {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(cupColors[cup]))
		chart.SetDataSetStyles(string(cup), runes.ThinLineStyle, style)
	}

	return playModel{
		rig:   r,
		loop:  loop,
		cmds:  cmds,
		poll:  poll,
		chart: &chart,
	}
}

func (m playModel) Init() tea.Cmd {
	return tea.Batch(
		waitForResult(m.loop),
		waitForLog(m.rig.engine.Logs()),
		pollTick(m.poll),
	)
}

func (m playModel) enqueue(cmd command.Command) playModel {
	select {
	case m.cmds <- cmd:
		m.pending++
		m.addLog(fmt.Sprintf("queued: %s", cmd))
	default:
		m.addLog("command queue full, dropped " + cmd.String())
	}
	return m
}

func (m playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeChart()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case resultMsg:
		m.pending--
		r := command.Result(msg)
		switch {
		case r.Err != nil:
			m.addLog(fmt.Sprintf("%s failed: %v", r.Cmd, r.Err))
		case r.Target != "":
			m.addLog(fmt.Sprintf("%s -> %s (%.0fs)", r.Cmd, r.Target, r.Duration.Seconds()))
		default:
			m.addLog(fmt.Sprintf("%s done (%.0fs)", r.Cmd, r.Duration.Seconds()))
		}
		return m, waitForResult(m.loop)

	case logMsg:
		m.addLog(string(msg))
		return m, waitForLog(m.rig.engine.Logs())

	case pollMsg:
		return m, tea.Batch(fetchDetections(m.rig.detector), pollTick(m.poll))

	case detectionsMsg:
		// Push every cup each snapshot; undetected cups chart at zero.
		confidence := map[profile.Target]float64{}
		for _, d := range msg {
			if cup, err := profile.Cup(d.ClassID + 1); err == nil && d.Confidence > confidence[cup] {
				confidence[cup] = d.Confidence
			}
		}
		for _, cup := range allCups {
			m.chart.PushDataSet(string(cup), confidence[cup])
		}
		m.chart.DrawAll()
		return m, nil
	}

	return m, nil
}

func (m playModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q", "ctrl+c":
		m.quitting = true
		m = m.enqueue(command.Terminate{})
		return m, tea.Quit
	case "g":
		m = m.enqueue(command.Login{})
		m = m.enqueue(command.Start{})
	case "o":
		m = m.enqueue(command.Logoff{})
	case "s":
		m = m.enqueue(command.Shoot{Request: target.Auto()})
	case "k":
		m = m.enqueue(command.Shoot{Request: target.For(profile.Kill)})
	case "t":
		m = m.enqueue(command.Shoot{Request: target.For(profile.Trick)})
	case "r":
		m = m.enqueue(command.Reload{})
	case "p":
		m = m.enqueue(command.Pickup{})
	case "e":
		m = m.enqueue(command.Emote{})
	case "1", "2", "3", "4", "5", "6":
		if tgt, err := profile.ParseTarget(key); err == nil {
			m = m.enqueue(command.Shoot{Request: target.For(tgt)})
		}
	}
	return m, nil
}

func (m playModel) View() string {
	if m.quitting {
		return "Logging off. Good game!\n"
	}

	var sb strings.Builder

	// Header
	sb.WriteString(titleStyle.Render("RoboPong Console"))
	switch {
	case m.pending > 0:
		sb.WriteString(busyStyle.Render(fmt.Sprintf("  [%d command(s) running]", m.pending)))
	case m.rig.engine.Started():
		sb.WriteString(statusStyle.Render("  [ready]"))
	default:
		sb.WriteString(statusStyle.Render("  [press 'g' to log in and warm up]"))
	}
	sb.WriteString("\n\n")

	// Detection confidence chart
	sb.WriteString(chartStyle.Render(m.chart.View()))
	sb.WriteString("\n")

	// Legend
	sb.WriteString(renderLegend())
	sb.WriteString("\n")

	// Help
	sb.WriteString(statusStyle.Render("g go  1-6 shoot cup  s auto  k kill  t trick  r reload  p pickup  e emote  o logoff  q quit"))
	sb.WriteString("\n")

	// Log box
	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(m.width - 4)

	var logLines string
	if len(m.logs) == 0 {
		logLines = statusStyle.Render("Waiting for commands")
	} else {
		logLines = strings.Join(m.logs, "\n")
	}
	sb.WriteString(logStyle.Render(logLines))
	sb.WriteString("\n")

	return sb.String()
}

func renderLegend() string {
	var items []string
	for _, cup := range allCups {
		colorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(cupColors[cup])).Bold(true)
		items = append(items, colorStyle.Render("━━")+" "+string(cup))
	}
	return strings.Join(items, "  ")
}

func (c *PlayCommand) Execute(args []string) error {
	rig, err := loadRig()
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer rig.close()

	poll := time.Duration(c.Poll) * time.Second
	if poll <= 0 {
		poll = time.Second
	}

	loop := command.NewLoop(command.Config{
		Session:  rig.session,
		Engine:   rig.engine,
		Resolver: rig.resolver,
		Table:    rig.table,
		Store:    rig.store,
	})

	// Producer/consumer: the TUI enqueues commands as keys arrive, the
	// loop drains them one sequence at a time.
	cmds := make(chan command.Command, 16)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		if err := loop.Run(ctx, cmds); err != nil && err != context.Canceled {
			log.Printf("Command loop error: %v", err)
		}
	}()

	p := tea.NewProgram(initialPlayModel(rig, loop, cmds, poll), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running program: %v", err)
	}

	// Let the loop finish its logoff before exiting.
	select {
	case <-loopDone:
	case <-time.After(10 * time.Second):
	}
	return nil
}
