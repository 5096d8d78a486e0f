package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/sim"
)

const (
	canvasWidth     = 64
	canvasHeight    = 28
	trailCapacity   = 400
	historyCapacity = 600
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2).Width(42)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

type point struct{ x, y int }

// Model drives a live orbit view: it owns the system, steps it on every
// tick, and renders the XY plane onto a braille canvas with per-body
// trails and an energy sparkline.
type Model struct {
	system  *body.System
	initial *body.System
	stepper sim.Stepper
	name    string

	dt           float64
	stepsPerTick int
	zoom         float64
	worldRadius  float64

	canvas        *Canvas
	trails        [][]point
	energyHistory []float64
	energy0       float64

	running  bool
	showHelp bool
}

// NewModel prepares a live view of the given system. The stepper is
// re-primed on reset if it exposes a Prime method.
func NewModel(s *body.System, stepper sim.Stepper, dt float64, name string) Model {
	m := Model{
		system:        s,
		initial:       s.Clone(),
		stepper:       stepper,
		name:          name,
		dt:            dt,
		stepsPerTick:  1,
		zoom:          1.0,
		worldRadius:   maxRadius(s),
		canvas:        NewCanvas(canvasWidth, canvasHeight),
		trails:        make([][]point, s.Count),
		energyHistory: make([]float64, 0, historyCapacity),
		energy0:       s.TotalEnergy(),
		running:       true,
	}
	m.prime()
	return m
}

func (m *Model) prime() {
	if p, ok := m.stepper.(interface{ Prime(*body.System) }); ok {
		p.Prime(m.system)
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles key input and advances the system on every tick.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "+", "=":
			m.zoom *= 1.25
		case "-", "_":
			m.zoom /= 1.25
		case ".", ">":
			if m.stepsPerTick < 4096 {
				m.stepsPerTick *= 2
			}
		case ",", "<":
			if m.stepsPerTick > 1 {
				m.stepsPerTick /= 2
			}
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.advance()
		}
		return m, tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m *Model) advance() {
	for i := 0; i < m.stepsPerTick; i++ {
		m.stepper.Step(m.system, m.dt)
	}
	for i := 0; i < m.system.Count; i++ {
		x, y := m.project(m.system.Px[i], m.system.Py[i])
		m.trails[i] = append(m.trails[i], point{x, y})
		if len(m.trails[i]) > trailCapacity {
			m.trails[i] = m.trails[i][1:]
		}
	}
	m.energyHistory = append(m.energyHistory, m.system.TotalEnergy())
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}
}

func (m *Model) reset() {
	m.system = m.initial.Clone()
	m.stepsPerTick = 1
	m.energyHistory = m.energyHistory[:0]
	for i := range m.trails {
		m.trails[i] = m.trails[i][:0]
	}
	m.prime()
}

// project maps world XY coordinates to canvas sub-pixels, centered on
// the origin and scaled so the initial system fits with some margin.
func (m *Model) project(x, y float64) (int, int) {
	cw, ch := canvasWidth*2, canvasHeight*4
	scale := 0.0
	if m.worldRadius > 0 {
		scale = m.zoom * 0.42 * float64(ch) / m.worldRadius
	}
	return cw/2 + int(x*scale), ch/2 - int(y*scale)
}

func (m *Model) draw() {
	m.canvas.Clear()
	for i := range m.trails {
		for _, pt := range m.trails[i] {
			m.canvas.Set(pt.x, pt.y)
		}
	}
	for i := 0; i < m.system.Count; i++ {
		x, y := m.project(m.system.Px[i], m.system.Py[i])
		m.canvas.Blot(x, y)
	}
}

// View renders the canvas next to a stats column.
func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.name)) + "\n")
	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	s.WriteString(status + "\n\n")

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory,
			asciigraph.Height(4), asciigraph.Width(28), asciigraph.Caption("Energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(formatDuration(m.system.Time)) + "\n")
	s.WriteString(labelStyle.Render("Bodies") + valueStyle.Render(fmt.Sprintf("%d", m.system.Count)) + "\n")
	s.WriteString(labelStyle.Render("Speed") + valueStyle.Render(fmt.Sprintf("%d steps/tick", m.stepsPerTick)) + "\n")
	drift := 0.0
	if m.energy0 != 0 {
		drift = math.Abs((m.system.TotalEnergy() - m.energy0) / m.energy0)
	}
	s.WriteString(labelStyle.Render("E drift") + valueStyle.Render(fmt.Sprintf("%.3e", drift)) + "\n")
	s.WriteString(helpStyle.Render("\n─────────────────────\nSP:Pause R:Reset Q:Quit\n+/-:Zoom  ,/.:Speed ?:Help"))

	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  R        - Reset to initial state   ║
║  Q        - Quit                     ║
║  + / -    - Zoom in / out            ║
║  , / .    - Halve / double speed     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

func maxRadius(s *body.System) float64 {
	max := 0.0
	for i := 0; i < s.Count; i++ {
		r := math.Sqrt(s.Px[i]*s.Px[i] + s.Py[i]*s.Py[i])
		if r > max {
			max = r
		}
	}
	return max
}

func formatDuration(seconds float64) string {
	switch {
	case seconds >= 365.25*86400:
		return fmt.Sprintf("%.2f yr", seconds/(365.25*86400))
	case seconds >= 86400:
		return fmt.Sprintf("%.2f d", seconds/86400)
	case seconds >= 3600:
		return fmt.Sprintf("%.2f h", seconds/3600)
	default:
		return fmt.Sprintf("%.1f s", seconds)
	}
}
