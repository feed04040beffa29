package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/resolventdk/gosph/internal/cases"
)

const (
	canvasWidth     = 80
	canvasHeight    = 24
	historyCapacity = 600
	maxSubsteps     = 256
)

type TickMsg time.Time

// Live is the single-case live view: particle canvas on the left,
// stats sidebar with a metric chart on the right. The view advances
// the scene a few steps per frame so slow acoustic time steps still
// play back at a watchable rate.
type Live struct {
	runner   *cases.Runner
	build    func() (*cases.Scene, error)
	caseName string
	maxSteps int
	fps      int

	substeps int
	step     int
	running  bool
	done     bool
	runErr   error

	canvas    *Canvas
	view      Viewport
	chartIdx  int
	chartName string
	history   []float64

	recording bool
	frames    []*image.Paletted
	showHelp  bool
}

// NewLive builds the initial scene and the view around it. The build
// closure is kept for restarts.
func NewLive(caseName string, maxSteps, fps int, build func() (*cases.Scene, error)) (Live, error) {
	scene, err := build()
	if err != nil {
		return Live{}, err
	}
	if fps <= 0 {
		fps = 30
	}

	c := NewCanvas(canvasWidth, canvasHeight)
	m := Live{
		runner:   cases.NewRunner(scene),
		build:    build,
		caseName: caseName,
		maxSteps: maxSteps,
		fps:      fps,
		substeps: 4,
		running:  true,
		canvas:   c,
		view:     NewViewport(scene.System.Lower, scene.System.Upper, c),
		history:  make([]float64, 0, historyCapacity),
	}
	m.chartIdx, m.chartName = chartMetric(scene)
	m.draw()
	return m, nil
}

// chartMetric picks the sidebar chart: kinetic energy when the scene
// tracks it, otherwise the first metric.
func chartMetric(scene *cases.Scene) (int, string) {
	for i, met := range scene.Metrics {
		if met.Name() == "kinetic_energy" {
			return i, metricLabel(met.Name())
		}
	}
	if len(scene.Metrics) > 0 {
		return 0, metricLabel(scene.Metrics[0].Name())
	}
	return -1, ""
}

func metricLabel(name string) string {
	switch name {
	case "kinetic_energy":
		return "Kinetic E"
	case "peak_speed":
		return "Peak speed"
	case "particles":
		return "Particles"
	case "density_rms":
		return "Density rms"
	}
	return name
}

func (m Live) Init() tea.Cmd {
	return m.tick()
}

func (m Live) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Live) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			if !m.done && m.runErr == nil {
				m.running = !m.running
			}
		case "r":
			m.restart()
		case "+", "=":
			if m.substeps < maxSubsteps {
				m.substeps *= 2
			}
		case "-", "_":
			if m.substeps > 1 {
				m.substeps /= 2
			}
		case "g":
			if m.recording {
				m.saveGIF()
				m.recording = false
				m.frames = nil
			} else {
				m.recording = true
				m.frames = make([]*image.Paletted, 0)
			}
		case "t":
			NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		m.advance()
		m.draw()
		if m.recording {
			m.captureFrame()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Live) advance() {
	if !m.running {
		return
	}
	for k := 0; k < m.substeps; k++ {
		if m.step >= m.maxSteps {
			m.done = true
			m.running = false
			break
		}
		if err := m.runner.StepOnce(m.step); err != nil {
			m.runErr = err
			m.running = false
			break
		}
		m.step++
	}
	if m.chartIdx >= 0 {
		m.history = append(m.history, m.runner.Scene().Metrics[m.chartIdx].Value())
		if len(m.history) > historyCapacity {
			m.history = m.history[1:]
		}
	}
}

func (m *Live) restart() {
	scene, err := m.build()
	if err != nil {
		m.runErr = err
		m.running = false
		return
	}
	m.runner = cases.NewRunner(scene)
	m.view = NewViewport(scene.System.Lower, scene.System.Upper, m.canvas)
	m.chartIdx, m.chartName = chartMetric(scene)
	m.history = m.history[:0]
	m.step = 0
	m.done = false
	m.runErr = nil
	m.running = true
	m.draw()
}

func (m *Live) draw() {
	m.canvas.Clear()
	m.canvas.Rect(0, 0, m.canvas.DotWidth()-1, m.canvas.DotHeight()-1)

	scene := m.runner.Scene()
	for _, z := range scene.Zones {
		x0, y0, ok0 := m.view.Dot(z.Box.Lower)
		x1, y1, ok1 := m.view.Dot(z.Box.Upper)
		if ok0 && ok1 {
			m.canvas.Rect(x0, y0, x1, y1)
		}
	}

	ps := scene.Fluid.Particles
	for i := 0; i < ps.TotalReal; i++ {
		if x, y, ok := m.view.Dot(ps.Pos[i]); ok {
			m.canvas.Dot(x, y)
		}
	}
}

func (m Live) View() string {
	var s strings.Builder
	s.WriteString(headerStyle().Render(strings.ToUpper(m.caseName)) + "\n")

	status, style := "RUNNING", statusStyle(false, true)
	switch {
	case m.runErr != nil:
		status, style = fmt.Sprintf("FAILED: %v", m.runErr), statusStyle(true, false)
	case m.done:
		status = "DONE"
	case !m.running:
		status, style = "PAUSED", statusStyle(false, false)
	}
	if m.recording {
		status += "  ● REC"
	}
	s.WriteString(style.Render(status) + "\n")

	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history,
			asciigraph.Height(4),
			asciigraph.Width(30),
			asciigraph.Caption(m.chartName),
		)
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	value := themed(CurrentTheme.Text)
	s.WriteString(labelStyle.Render("Time") + value.Render(fmt.Sprintf("%.4fs", m.runner.Clock().Time)) + "\n")
	s.WriteString(labelStyle.Render("Step") + value.Render(fmt.Sprintf("%d / %d", m.step, m.maxSteps)) + "\n")
	s.WriteString(labelStyle.Render("Speed") + value.Render(fmt.Sprintf("%d steps/frame", m.substeps)) + "\n")
	for _, met := range m.runner.Scene().Metrics {
		s.WriteString(labelStyle.Render(metricLabel(met.Name())) + value.Render(fmt.Sprintf("%.5g", met.Value())) + "\n")
	}

	s.WriteString("\n" + ProgressBar(float64(m.step)/float64(m.maxSteps), 30) + "\n")
	s.WriteString(helpStyle.Render("\n" + Separator(26) + "\nSP:Pause R:Restart Q:Quit\nT:Theme  G:Record  ?:Help\n+/-:Speed"))

	statsView := statsStyle.Render(s.String())
	canvasView := canvasStyle.Foreground(CurrentTheme.Fluid).Render(m.canvas.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)

	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  R        - Rebuild and restart      ║
║  Q        - Quit                     ║
║  +/-      - Speed up / slow down     ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

func (m *Live) captureFrame() {
	const charW, charH = 8, 16
	const dotW, dotH = charW / 2, charH / 4
	img := image.NewPaletted(
		image.Rect(0, 0, m.canvas.Width*charW, m.canvas.Height*charH),
		color.Palette{color.Black, color.White},
	)
	for row := 0; row < m.canvas.Height; row++ {
		for col := 0; col < m.canvas.Width; col++ {
			pattern := m.canvas.At(col, row) - brailleBase
			if pattern == 0 {
				continue
			}
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&dotBits[dy][dx] == 0 {
						continue
					}
					baseX, baseY := col*charW+dx*dotW, row*charH+dy*dotH
					for py := 0; py < dotH; py++ {
						for px := 0; px < dotW; px++ {
							img.SetColorIndex(baseX+px, baseY+py, 1)
						}
					}
				}
			}
		}
	}
	m.frames = append(m.frames, img)
}

func (m *Live) saveGIF() {
	if len(m.frames) == 0 {
		return
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range m.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 100/m.fps)
	}
	f, err := os.Create(m.caseName + ".gif")
	if err != nil {
		return
	}
	defer f.Close()
	gif.EncodeAll(f, &anim)
}
