// algoviz-tui is the interactive terminal front-end: type a description of
// an algorithm, watch it play back step by step with captions.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/algoviz/pkg/config"
	"github.com/dd0wney/algoviz/pkg/layout"
	"github.com/dd0wney/algoviz/pkg/logging"
	"github.com/dd0wney/algoviz/pkg/narration"
	"github.com/dd0wney/algoviz/pkg/payload"
	"github.com/dd0wney/algoviz/pkg/playback"
	"github.com/dd0wney/algoviz/pkg/render"
	"github.com/dd0wney/algoviz/pkg/translate"
	"github.com/dd0wney/algoviz/pkg/viz"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF")).
			MarginLeft(2).
			MarginTop(1)

	statusStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF"))

	captionStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("#FFFF00")).
			MarginLeft(2)

	stepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			MarginLeft(2)

	sceneBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FFFF")).
			Padding(0, 1).
			MarginLeft(2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true).
			MarginLeft(2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1).
			MarginLeft(2)
)

type keyMap struct {
	PlayPause key.Binding
	Next      key.Binding
	Previous  key.Binding
	Reset     key.Binding
	Faster    key.Binding
	Slower    key.Binding
	Translate key.Binding
	Quit      key.Binding
}

var keys = keyMap{
	PlayPause: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "play/pause"),
	),
	Next: key.NewBinding(
		key.WithKeys("n", "right"),
		key.WithHelp("n", "next step"),
	),
	Previous: key.NewBinding(
		key.WithKeys("p", "left"),
		key.WithHelp("p", "prev step"),
	),
	Reset: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reset"),
	),
	Faster: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "faster"),
	),
	Slower: key.NewBinding(
		key.WithKeys("-"),
		key.WithHelp("-", "slower"),
	),
	Translate: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "translate prompt"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PlayPause, k.Next, k.Previous, k.Reset, k.Translate, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PlayPause, k.Next, k.Previous, k.Reset},
		{k.Faster, k.Slower, k.Translate},
		{k.Quit},
	}
}

// stepMsg arrives when the controller commits a step change.
type stepMsg int

// algorithmMsg arrives when translation or fixture loading completes.
type algorithmMsg struct{ data *payload.AlgorithmData }

// translateErrMsg arrives when translation fails.
type translateErrMsg struct{ err error }

type model struct {
	cfg        *config.Config
	translator *translate.Client
	engine     *viz.Engine
	term       *render.TermRenderer
	speaker    *narration.CaptionSpeaker

	ctrl      *playback.Controller
	parsed    payload.Parsed
	algorithm *payload.AlgorithmData

	promptInput textinput.Model
	help        help.Model
	keys        keyMap

	send func(tea.Msg)

	width      int
	height     int
	scene      string
	message    string
	messageErr bool
}

func initialModel(cfg *config.Config, translator *translate.Client) model {
	ti := textinput.New()
	ti.Placeholder = "show me how bubble sort works on [5, 2, 8, 1]"
	ti.CharLimit = 400
	ti.Width = 70
	ti.Focus()

	layoutCfg := layout.Config{
		Width:   cfg.Canvas.Width,
		Height:  cfg.Canvas.Height,
		Padding: cfg.Canvas.Padding,
	}

	return model{
		cfg:         cfg,
		translator:  translator,
		engine:      viz.New(layoutCfg),
		term:        render.NewTermRenderer(80, 20),
		speaker:     narration.NewCaptionSpeaker(),
		promptInput: ti,
		help:        help.New(),
		keys:        keys,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case stepMsg:
		m.scene = m.term.Render(m.engine.RenderParsed(m.parsed, int(msg)))

	case algorithmMsg:
		m.installAlgorithm(msg.data)
		m.message = fmt.Sprintf("Loaded %q with %d steps", msg.data.Name, len(msg.data.Steps))
		m.messageErr = false

	case translateErrMsg:
		m.message = fmt.Sprintf("Translation failed: %v", msg.err)
		m.messageErr = true

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			if m.ctrl != nil {
				m.ctrl.Close()
			}
			return m, tea.Quit

		case key.Matches(msg, m.keys.Translate):
			if m.promptInput.Focused() {
				return m, m.translateCmd()
			}

		case key.Matches(msg, m.keys.PlayPause):
			if m.ctrl != nil && !m.promptInput.Focused() {
				if m.ctrl.Snapshot().Status == playback.StatusPlaying {
					m.ctrl.Pause()
				} else {
					m.ctrl.Play()
				}
			}

		case key.Matches(msg, m.keys.Next):
			if m.ctrl != nil && !m.promptInput.Focused() {
				m.ctrl.Next()
			}

		case key.Matches(msg, m.keys.Previous):
			if m.ctrl != nil && !m.promptInput.Focused() {
				m.ctrl.Previous()
			}

		case key.Matches(msg, m.keys.Reset):
			if m.ctrl != nil && !m.promptInput.Focused() {
				m.ctrl.Reset()
			}

		case key.Matches(msg, m.keys.Faster):
			m.adjustSpeed(-250 * time.Millisecond)

		case key.Matches(msg, m.keys.Slower):
			m.adjustSpeed(250 * time.Millisecond)

		case msg.String() == "tab":
			if m.promptInput.Focused() {
				m.promptInput.Blur()
			} else {
				m.promptInput.Focus()
			}
		}
	}

	if m.promptInput.Focused() {
		m.promptInput, cmd = m.promptInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// installAlgorithm tears down the previous session and builds playback for
// the new algorithm. Step zero is rendered immediately.
func (m *model) installAlgorithm(data *payload.AlgorithmData) {
	if m.ctrl != nil {
		m.ctrl.Close()
	}
	m.engine.Reset()

	m.algorithm = data
	m.parsed = payload.Parse(data.Visualization)
	m.ctrl = playback.New(data.Steps,
		playback.WithSpeaker(m.speaker),
		playback.WithOnStep(func(step int) { m.send(stepMsg(step)) }),
		playback.WithSpeed(m.cfg.Playback.Speed()),
	)
	m.scene = m.term.Render(m.engine.RenderParsed(m.parsed, 0))
	m.promptInput.Blur()
}

func (m *model) adjustSpeed(delta time.Duration) {
	if m.ctrl == nil || m.promptInput.Focused() {
		return
	}
	current := m.ctrl.Snapshot().Speed
	next := current + delta
	if next < 250*time.Millisecond {
		next = 250 * time.Millisecond
	}
	if err := m.ctrl.SetSpeed(next); err != nil {
		m.message = fmt.Sprintf("Speed: %v", err)
		m.messageErr = true
		return
	}
	m.message = fmt.Sprintf("Speed set to %s per step", next)
	m.messageErr = false
}

func (m model) translateCmd() tea.Cmd {
	prompt := m.promptInput.Value()
	if strings.TrimSpace(prompt) == "" {
		return nil
	}
	translator := m.translator
	timeout := m.cfg.Translate.Timeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		data, err := translator.Translate(ctx, prompt)
		if err != nil {
			return translateErrMsg{err: err}
		}
		return algorithmMsg{data: data}
	}
}

func (m model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render("algoviz - Algorithm Visualizer"))
	s.WriteString("\n\n")

	s.WriteString("  Describe an algorithm:\n  ")
	s.WriteString(m.promptInput.View())
	s.WriteString("\n\n")

	if m.ctrl != nil {
		snap := m.ctrl.Snapshot()
		s.WriteString(stepStyle.Render(fmt.Sprintf("%s  %s  step %d/%d  %s/step",
			statusStyle.Render(strings.ToUpper(snap.Status.String())),
			m.algorithm.Name,
			snap.Step+1, len(m.ctrl.Steps()),
			snap.Speed)))
		s.WriteString("\n\n")

		s.WriteString(sceneBoxStyle.Render(m.scene))
		s.WriteString("\n")

		if caption := m.speaker.Current(); caption != "" {
			s.WriteString(captionStyle.Render("» " + caption))
			s.WriteString("\n")
		}

		step := m.ctrl.Current()
		if step.Code != "" {
			s.WriteString(stepStyle.Render("  " + step.Code))
			s.WriteString("\n")
		}
	}

	if m.message != "" {
		s.WriteString("\n")
		if m.messageErr {
			s.WriteString(errorStyle.Render("✗ " + m.message))
		} else {
			s.WriteString(stepStyle.Render("✓ " + m.message))
		}
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))

	return s.String()
}

func main() {
	cfg, err := config.Load(os.Getenv("ALGOVIZ_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	translator := translate.New(translate.Config{
		Endpoint: cfg.Translate.Endpoint,
		Model:    cfg.Translate.Model,
		APIKey:   cfg.APIKey(),
		Timeout:  cfg.Translate.Timeout(),
	}, translate.WithLogger(logging.NewNopLogger()))

	m := initialModel(cfg, translator)

	// The controller's onStep callback has to reach the running program;
	// the handle is filled in right after construction, before any
	// algorithm can be loaded.
	var program *tea.Program
	m.send = func(msg tea.Msg) {
		if program != nil {
			program.Send(msg)
		}
	}

	var fixture *payload.AlgorithmData
	if len(os.Args) > 1 {
		fixture, err = payload.LoadFixture(os.Args[1])
		if err != nil {
			log.Fatalf("Failed to load fixture %s: %v", os.Args[1], err)
		}
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	program = p

	if fixture != nil {
		go p.Send(algorithmMsg{data: fixture})
	}

	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running program: %v", err)
	}
}
