package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/NimbleMarkets/ntcharts/linechart/streamlinechart"

	"github.com/gwillem/onyx/pkg/gait"
	"github.com/gwillem/onyx/pkg/robot"
)

const (
	headerHeight = 3 // title + status + blank line
	legendHeight = 2 // legend row + blank
	footerHeight = 7 // log box height
	maxLogs      = 5 // number of log messages to show
	borderSize   = 2 // chart border
)

// Joint colors - hips warm, knees cool
var jointColors = map[robot.JointName]string{
	robot.BackLeftHip:    "196", // red
	robot.BackLeftKnee:   "51",  // cyan
	robot.FrontLeftHip:   "208", // orange
	robot.FrontLeftKnee:  "39",  // blue
	robot.BackRightHip:   "226", // yellow
	robot.BackRightKnee:  "46",  // green
	robot.FrontRightHip:  "201", // magenta
	robot.FrontRightKnee: "141", // purple
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	chartStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// logWriter feeds log lines to the TUI.
type logWriter struct {
	ch chan string
}

func newLogWriter(size int) *logWriter {
	return &logWriter{ch: make(chan string, size)}
}

func (w *logWriter) Write(p []byte) (int, error) {
	select {
	case w.ch <- strings.TrimRight(string(p), "\n"):
	default:
		// Drop if channel full
	}
	return len(p), nil
}

type walkModel struct {
	ctrl     *gait.Controller
	tuning   gait.Config
	cycles   int
	cal      robot.Calibration
	samples  <-chan sampleMsg
	logs     *logWriter
	done     <-chan struct{}
	chart    *streamlinechart.Model
	width    int      // terminal width
	height   int      // terminal height
	lines    []string // last N log messages
	state    gait.State
	finished bool
	quitting bool
}

// Messages from the controller
type stateMsg gait.State
type logMsg string
type doneMsg struct{}

type sampleMsg struct {
	id    robot.JointID
	angle float64
}

func waitForState(ctrl *gait.Controller) tea.Cmd {
	return func() tea.Msg {
		return stateMsg(<-ctrl.States())
	}
}

func waitForLog(w *logWriter) tea.Cmd {
	return func() tea.Msg {
		return logMsg(<-w.ch)
	}
}

func waitForSample(ch <-chan sampleMsg) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

func waitForDone(done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-done
		return doneMsg{}
	}
}

func initialWalkModel(ctrl *gait.Controller, tuning gait.Config, cycles int, cal robot.Calibration,
	samples <-chan sampleMsg, logs *logWriter, done <-chan struct{}) walkModel {
	lo, hi := 360.0, 0.0
	for _, jc := range cal {
		lo = min(lo, jc.Min)
		hi = max(hi, jc.Max)
	}
	if lo >= hi {
		lo, hi = robot.DefaultRange.Min, robot.DefaultRange.Max
	}

	chart := streamlinechart.New(80, 20,
		streamlinechart.WithYRange(lo, hi),
	)

	// Set up data set styles for each joint
	for _, name := range robot.AllJoints() {
		color := jointColors[name]
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
		chart.SetDataSetStyles(string(name), runes.ThinLineStyle, style)
	}

	return walkModel{
		ctrl:    ctrl,
		tuning:  tuning,
		cycles:  cycles,
		cal:     cal,
		samples: samples,
		logs:    logs,
		done:    done,
		chart:   &chart,
	}
}

func (m *walkModel) addLog(msg string) {
	m.lines = append(m.lines, msg)
	if len(m.lines) > maxLogs {
		m.lines = m.lines[len(m.lines)-maxLogs:]
	}
}

// chartSize calculates the size of the chart based on terminal dimensions
func (m *walkModel) chartSize() (width, height int) {
	if m.width == 0 || m.height == 0 {
		return 80, 20 // default size before we know terminal size
	}
	width = max(40, m.width-borderSize-2)
	height = max(10, m.height-headerHeight-legendHeight-footerHeight-borderSize)
	return width, height
}

func (m walkModel) Init() tea.Cmd {
	return tea.Batch(
		waitForState(m.ctrl),
		waitForLog(m.logs),
		waitForSample(m.samples),
		waitForDone(m.done),
	)
}

func (m walkModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.chart.Resize(m.chartSize())
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case stateMsg:
		m.state = gait.State(msg)
		return m, waitForState(m.ctrl)

	case sampleMsg:
		if name, _, ok := m.cal.ByID(msg.id); ok {
			m.chart.PushDataSet(string(name), msg.angle)
			m.chart.DrawAll()
		}
		return m, waitForSample(m.samples)

	case logMsg:
		m.addLog(string(msg))
		return m, waitForLog(m.logs)

	case doneMsg:
		m.finished = true
		m.state.Stats = m.ctrl.Stats()
		return m, nil
	}

	return m, nil
}

func (m walkModel) View() string {
	if m.quitting {
		return "Walk stopped.\n"
	}

	var sb strings.Builder

	// Header
	sb.WriteString(titleStyle.Render("ONYX Walk"))
	sb.WriteString(fmt.Sprintf(" - %s gait", m.tuning.Profile))
	if m.width > 0 {
		sb.WriteString(statusStyle.Render(fmt.Sprintf("  [%dx%d]", m.width, m.height)))
	}
	sb.WriteString("\n")
	sb.WriteString(statusStyle.Render(m.status()))
	sb.WriteString("\n\n")

	// Chart
	sb.WriteString(chartStyle.Render(m.chart.View()))
	sb.WriteString("\n")

	// Legend
	sb.WriteString(renderLegend())
	sb.WriteString("\n")

	// Log box
	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(max(20, m.width-4))

	var logLines string
	if len(m.lines) == 0 {
		logLines = statusStyle.Render("Press 'q' to stop")
	} else {
		logLines = strings.Join(m.lines, "\n")
	}
	sb.WriteString(logStyle.Render(logLines))
	sb.WriteString("\n")

	return sb.String()
}

func (m walkModel) status() string {
	if m.finished {
		return fmt.Sprintf("finished  commands %d  failures %d  - press 'q' to exit",
			m.state.Stats.Commands, m.state.Stats.Failures)
	}
	if m.state.Cycle == 0 {
		return "starting..."
	}
	total := "∞"
	if m.cycles >= 0 {
		total = fmt.Sprintf("%d", m.cycles)
	}
	return fmt.Sprintf("cycle %d/%s  diagonal %s  %-8s commands %d  failures %d",
		m.state.Cycle, total, m.state.Diagonal, m.state.Phase,
		m.state.Stats.Commands, m.state.Stats.Failures)
}

func renderLegend() string {
	var items []string
	for _, name := range robot.AllJoints() {
		color := jointColors[name]
		colorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
		item := colorStyle.Render("━━") + " " + string(name)
		items = append(items, item)
	}
	return strings.Join(items, "  ")
}
