package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/kass/africa-quiz/pkg/config"
	"github.com/kass/africa-quiz/pkg/geodata"
	"github.com/kass/africa-quiz/pkg/models"
	"github.com/kass/africa-quiz/pkg/projection"
	"github.com/kass/africa-quiz/pkg/quiz"
	"github.com/kass/africa-quiz/pkg/render"
)

// Layout: title, prompt, blank line, map rows, status, help.
const (
	mapTop      = 3
	footerLines = 2
	minMapW     = 20
	minMapH     = 8
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF79C6")).
			Background(lipgloss.Color("#282A36")).
			Padding(0, 1)

	promptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#8BE9FD"))

	correctStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#282A36")).
			Background(lipgloss.Color("#50FA7B"))

	wrongStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8F8F2")).
			Background(lipgloss.Color("#FF5555"))

	oceanStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#44506B"))

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F8F8F2"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F1FA8C"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6272A4"))

	// Unanswered countries cycle through muted shades so neighboring
	// shapes stay distinguishable before any feedback colors appear.
	landPalette = []lipgloss.Style{
		lipgloss.NewStyle().Foreground(lipgloss.Color("#7B8394")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#9AA3B5")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#5F6B80")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#8A96AB")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7689")),
	}
)

type answerState int

const (
	unanswered answerState = iota
	answeredCorrect
	answeredWrong
)

type dataLoadedMsg struct {
	shapes []models.Shape
	err    error
}

type tuiModel struct {
	cfg config.Config

	spinner spinner.Model
	loading bool

	shapes []models.Shape
	engine *quiz.Engine
	grid   *render.Grid
	labels []render.Label

	// Per-country feedback is presentation state; the engine never
	// retains answer records.
	answers map[string]answerState
	correct int
	wrong   int
	rounds  int

	status string
	width  int
	height int
	mapW   int
	mapH   int
	err    error
}

func newTUIModel(cfg config.Config) tuiModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF79C6"))

	return tuiModel{
		cfg:     cfg,
		spinner: s,
		loading: true,
		answers: make(map[string]answerState),
		rounds:  1,
		status:  "Click the prompted country.",
		width:   80,
		height:  24,
	}
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	p := tea.NewProgram(newTUIModel(cfg), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}

func (m tuiModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, loadData(m.cfg))
}

func loadData(cfg config.Config) tea.Cmd {
	return func() tea.Msg {
		shapes, err := geodata.Load(cfg.Quiz.DataFile)
		return dataLoadedMsg{shapes: shapes, err: err}
	}
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.loading && m.err == nil {
			m.rebuildCanvas()
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "n":
			if m.engine != nil && m.engine.IsRoundComplete() {
				m.startRound()
			}
			return m, nil
		case "s":
			m.skipCurrent()
			return m, nil
		}
		return m, nil

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.handleClick(msg.X, msg.Y)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case dataLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.shapes = msg.shapes
		m.rebuildCanvas()
		return m, nil
	}

	return m, nil
}

// rebuildCanvas sizes the map to the terminal, keeping the dataset's
// geographic aspect ratio. Terminal cells are roughly twice as tall as
// wide, so the visual ratio halves the longitude extent.
func (m *tuiModel) rebuildCanvas() {
	box, err := projection.ComputeBoundingBox(m.shapes)
	if err != nil {
		m.err = err
		return
	}

	maxW := m.width
	maxH := m.height - mapTop - footerLines
	if maxW < minMapW {
		maxW = minMapW
	}
	if maxH < minMapH {
		maxH = minMapH
	}

	ratio := box.Width() / box.Height() / 2
	w := maxW
	h := int(float64(w) / ratio)
	if h > maxH {
		h = maxH
		w = int(float64(h) * ratio)
	}
	if w < minMapW {
		w = minMapW
	}
	if h < minMapH {
		h = minMapH
	}

	projector, err := projection.New(box, w, h)
	if err != nil {
		m.err = err
		return
	}

	if m.engine == nil {
		engine, err := quiz.New(m.shapes, projector, newRNG(m.cfg.Quiz.Seed))
		if err != nil {
			m.err = err
			return
		}
		m.engine = engine
	} else {
		m.engine.SetProjector(projector)
	}

	m.mapW = w
	m.mapH = h
	m.grid = render.Raster(m.shapes, projector)
	m.labels = render.Labels(m.shapes, projector)
}

func (m *tuiModel) startRound() {
	m.engine.StartNewRound()
	m.answers = make(map[string]answerState)
	m.correct = 0
	m.wrong = 0
	m.rounds++
	m.status = "New round. Click the prompted country."
}

func (m *tuiModel) skipCurrent() {
	if m.engine == nil || m.engine.IsRoundComplete() {
		return
	}
	current, err := m.engine.CurrentCountry()
	if err != nil {
		return
	}
	m.answers[current] = answeredWrong
	m.wrong++
	m.status = fmt.Sprintf("Skipped. That was %s.", current)
	m.engine.Advance()
	if m.engine.IsRoundComplete() {
		m.status = m.roundSummary()
	}
}

func (m *tuiModel) handleClick(termX, termY int) {
	if m.engine == nil || m.engine.IsRoundComplete() {
		return
	}

	x := termX
	y := termY - mapTop
	if x < 0 || x >= m.mapW || y < 0 || y >= m.mapH {
		return
	}

	current, err := m.engine.CurrentCountry()
	if err != nil {
		return
	}

	result, err := m.engine.HandleClick(x, y)
	if err != nil {
		return
	}

	switch {
	case result.Ocean():
		m.answers[current] = answeredWrong
		m.wrong++
		m.status = fmt.Sprintf("Ocean click. Correct answer: %s", current)
	case result.Correct:
		m.answers[current] = answeredCorrect
		m.correct++
		m.status = fmt.Sprintf("Correct! %s", result.Country)
	default:
		m.answers[current] = answeredWrong
		m.wrong++
		m.status = fmt.Sprintf("Incorrect. You clicked %s, correct answer: %s",
			result.Country, current)
	}

	m.engine.Advance()
	if m.engine.IsRoundComplete() {
		m.status = m.roundSummary()
	}
}

func (m *tuiModel) roundSummary() string {
	_, total := m.engine.Progress()
	return fmt.Sprintf("Round complete! %d/%d correct. Press 'n' for a new round.",
		m.correct, total)
}

type cell struct {
	ch    rune
	style lipgloss.Style
}

func (m tuiModel) View() string {
	if m.err != nil {
		return wrongStyle.Render("error: "+m.err.Error()) + "\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("🌍 Africa Geography Quiz"))
	b.WriteString("\n")

	if m.loading || m.engine == nil || m.grid == nil {
		b.WriteString("\n")
		b.WriteString(m.spinner.View() + " Loading boundaries...\n")
		return b.String()
	}

	if current, err := m.engine.CurrentCountry(); err == nil {
		answered, total := m.engine.Progress()
		b.WriteString(promptStyle.Render(fmt.Sprintf("Click on: %s", current)))
		b.WriteString(dimStyle.Render(fmt.Sprintf("  (%d/%d, round %d)", answered+1, total, m.rounds)))
	} else {
		b.WriteString(promptStyle.Render("Round complete!"))
	}
	b.WriteString("\n\n")

	b.WriteString(m.renderMap())

	b.WriteString(statusStyle.Render(m.status))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("click: answer · s: skip · n: new round · q: quit"))
	return b.String()
}

func (m tuiModel) renderMap() string {
	rows := make([][]cell, m.mapH)
	for y := 0; y < m.mapH; y++ {
		row := make([]cell, m.mapW)
		for x := 0; x < m.mapW; x++ {
			idx := m.grid.At(x, y)
			if idx == render.Ocean {
				row[x] = cell{ch: '·', style: oceanStyle}
				continue
			}
			name := m.shapes[idx].Name
			switch m.answers[name] {
			case answeredCorrect:
				row[x] = cell{ch: '█', style: correctStyle}
			case answeredWrong:
				row[x] = cell{ch: '█', style: wrongStyle}
			default:
				row[x] = cell{ch: '█', style: landPalette[idx%len(landPalette)]}
			}
		}
		rows[y] = row
	}

	// Answered countries get their name drawn over the map, mirroring the
	// label feedback of the desktop original.
	for _, label := range m.labels {
		if m.answers[label.Name] == unanswered {
			continue
		}
		y := label.Y
		if y < 0 || y >= m.mapH {
			continue
		}
		start := label.X - len(label.Name)/2
		for i, ch := range label.Name {
			x := start + i
			if x < 0 || x >= m.mapW {
				continue
			}
			rows[y][x] = cell{ch: ch, style: labelStyle}
		}
	}

	var b strings.Builder
	for _, row := range rows {
		for _, c := range row {
			b.WriteString(c.style.Render(string(c.ch)))
		}
		b.WriteString("\n")
	}
	return b.String()
}
