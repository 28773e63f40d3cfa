// internal/tui/tui.go
// Package tui provides the full-screen fraud detection form.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mwiater/fraudcheck/internal/api"
	"github.com/mwiater/fraudcheck/internal/appconfig"
	"github.com/mwiater/fraudcheck/internal/form"
	"github.com/mwiater/fraudcheck/internal/logging"
	"github.com/mwiater/fraudcheck/internal/result"
	"github.com/mwiater/fraudcheck/internal/session"
)

// control is the on-screen input bound to one metadata field.
type control struct {
	field   form.Field
	choices []form.Choice
	input   textinput.Model
	choice  int
}

func (c control) isSelect() bool { return c.field.Kind() == form.KindSelect }

func (c control) value() string {
	if c.isSelect() {
		return c.choices[c.choice].Value
	}
	return c.input.Value()
}

// model is the main application model for the Bubble Tea UI.
type model struct {
	ctx              context.Context
	config           *appconfig.Config
	svc              api.Service
	state            *session.State
	metricsStatus    metricsStatus
	controls         []control
	focus            int
	fetching         bool
	hint             string
	spinner          spinner.Model
	keys             keyMap
	help             help.Model
	width, height    int
	requestStartTime time.Time
}

// initialModel creates and initializes a new model with default values.
func initialModel(ctx context.Context, cfg *appconfig.Config, svc api.Service, state *session.State) *model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	if cfg == nil {
		defaults := appconfig.Defaults()
		cfg = &defaults
	}
	if state == nil {
		state = session.New(session.WithResetOnError(cfg.ResetOnError))
	}

	return &model{
		ctx:           ctx,
		config:        cfg,
		svc:           svc,
		state:         state,
		metricsStatus: deriveMetricsStatus(cfg, svc),
		fetching:      true,
		spinner:       s,
		keys:          defaultKeyMap(),
		help:          help.New(),
	}
}

// metadataReadyMsg is sent when the form metadata has been fetched.
type metadataReadyMsg struct{ meta form.Metadata }

// metadataLoadErr is sent when the form metadata could not be fetched.
type metadataLoadErr struct{ error }

// predictionMsg carries the outcome of submission seq.
type predictionMsg struct {
	seq  uint64
	pred result.Prediction
}

// predictionErr is sent when submission seq failed.
type predictionErr struct {
	seq uint64
	error
}

// fetchMetadataCmd loads the metadata once, at startup.
func fetchMetadataCmd(ctx context.Context, svc api.Service) tea.Cmd {
	return func() tea.Msg {
		meta, err := svc.Metadata(ctx)
		if err != nil {
			return metadataLoadErr{error: err}
		}
		return metadataReadyMsg{meta: meta}
	}
}

// predictCmd posts the submission. A panic in the service still produces a
// predictionErr so the loading state always ends.
func predictCmd(ctx context.Context, svc api.Service, sub session.Submission) tea.Cmd {
	return func() (msg tea.Msg) {
		defer func() {
			if r := recover(); r != nil {
				msg = predictionErr{seq: sub.Seq, error: fmt.Errorf("prediction panicked: %v", r)}
			}
		}()
		pred, err := svc.Predict(ctx, sub.Values)
		if err != nil {
			return predictionErr{seq: sub.Seq, error: err}
		}
		return predictionMsg{seq: sub.Seq, pred: pred}
	}
}

// Init starts the spinner and the metadata request.
func (m *model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, fetchMetadataCmd(m.ctx, m.svc))
}

// Update is the central update function for the Bubble Tea model.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		for i := range m.controls {
			m.controls[i].input.Width = inputWidth(msg.Width)
		}
		return m, nil

	case metadataReadyMsg:
		m.fetching = false
		m.state.MetadataLoaded(msg.meta)
		m.buildControls()
		return m, m.setFocus(0)

	case metadataLoadErr:
		m.fetching = false
		m.state.MetadataFailed(msg.error)
		return m, nil

	case predictionMsg:
		pred := msg.pred
		if m.state.Settle(msg.seq, &pred, nil) {
			m.syncControls()
		}
		return m, nil

	case predictionErr:
		if m.state.Settle(msg.seq, nil, msg.error) {
			m.syncControls()
		}
		return m, nil

	case spinner.TickMsg:
		if m.busy() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	return m, m.updateFocusedInput(msg)
}

func (m *model) busy() bool {
	return m.fetching || m.state.Loading
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Quit) {
		return tea.Quit
	}
	if !m.state.Ready {
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	case key.Matches(msg, m.keys.Reset):
		m.reset()
		return nil
	case key.Matches(msg, m.keys.Next):
		return m.setFocus(m.focus + 1)
	case key.Matches(msg, m.keys.Prev):
		return m.setFocus(m.focus - 1)
	case key.Matches(msg, m.keys.Enter):
		return m.activate()
	case m.focusedSelect() && key.Matches(msg, m.keys.Left):
		m.cycle(-1)
		return nil
	case m.focusedSelect() && key.Matches(msg, m.keys.Right):
		m.cycle(1)
		return nil
	}
	return m.updateFocusedInput(msg)
}

// Focus positions: one per control, then the submit and reset buttons.
func (m *model) submitIndex() int { return len(m.controls) }
func (m *model) resetIndex() int  { return len(m.controls) + 1 }

func (m *model) setFocus(i int) tea.Cmd {
	positions := len(m.controls) + 2
	m.focus = ((i % positions) + positions) % positions

	var cmd tea.Cmd
	for idx := range m.controls {
		if idx == m.focus && !m.controls[idx].isSelect() {
			cmd = m.controls[idx].input.Focus()
			continue
		}
		m.controls[idx].input.Blur()
	}
	return cmd
}

func (m *model) focusedSelect() bool {
	return m.focus < len(m.controls) && m.controls[m.focus].isSelect()
}

// activate handles enter: the last control and the submit button submit, the
// reset button resets, any other control moves on.
func (m *model) activate() tea.Cmd {
	switch {
	case m.focus == m.resetIndex():
		m.reset()
		return nil
	case m.focus == m.submitIndex(), m.focus == len(m.controls)-1:
		return m.submit()
	default:
		return m.setFocus(m.focus + 1)
	}
}

func (m *model) cycle(delta int) {
	c := &m.controls[m.focus]
	n := len(c.choices)
	c.choice = ((c.choice+delta)%n + n) % n
	m.commit(m.focus)
}

func (m *model) updateFocusedInput(msg tea.Msg) tea.Cmd {
	if m.focus >= len(m.controls) || m.controls[m.focus].isSelect() {
		return nil
	}
	var cmd tea.Cmd
	before := m.controls[m.focus].input.Value()
	m.controls[m.focus].input, cmd = m.controls[m.focus].input.Update(msg)
	if m.controls[m.focus].input.Value() != before {
		m.commit(m.focus)
	}
	return cmd
}

// commit writes control i back into the session form.
func (m *model) commit(i int) {
	c := m.controls[i]
	if err := m.state.Set(c.field.Name, c.value()); err != nil {
		logging.LogEvent("form update rejected: %v", err)
		return
	}
	if m.hint != "" && len(m.state.Form.Missing()) == 0 {
		m.hint = ""
	}
}

func (m *model) submit() tea.Cmd {
	sub, err := m.state.BeginSubmit()
	if err != nil {
		var missing *form.MissingError
		switch {
		case errors.As(err, &missing):
			m.hint = "Required: " + strings.Join(missing.Fields, ", ")
		case errors.Is(err, session.ErrInFlight):
			logging.LogEvent("submission ignored: %v", err)
		}
		return nil
	}
	m.hint = ""
	m.requestStartTime = time.Now()
	return tea.Batch(m.spinner.Tick, predictCmd(m.ctx, m.svc, sub))
}

func (m *model) reset() {
	m.state.Reset()
	m.hint = ""
	m.syncControls()
}

// buildControls creates one control per metadata field in render order.
func (m *model) buildControls() {
	fields := m.state.Metadata.Fields()
	m.controls = make([]control, len(fields))
	for i, f := range fields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = f.Name
		ti.CharLimit = 256
		ti.Width = inputWidth(m.width)
		m.controls[i] = control{field: f, choices: f.Choices(), input: ti}
	}
	m.syncControls()
}

// syncControls copies the session form values back into the controls.
func (m *model) syncControls() {
	for i := range m.controls {
		c := &m.controls[i]
		value := m.state.Form.Value(c.field.Name)
		if !c.isSelect() {
			c.input.SetValue(value)
			continue
		}
		c.choice = 0
		for idx, choice := range c.choices {
			if choice.Value == value {
				c.choice = idx
				break
			}
		}
	}
}

func inputWidth(screen int) int {
	if screen <= 0 {
		return 40
	}
	return max(10, min(60, screen-8))
}

// StartGUI runs the full-screen form until the user quits.
func StartGUI(ctx context.Context, cfg *appconfig.Config, svc api.Service, cancel context.CancelFunc) error {
	defer func() {
		logging.LogEvent("Cancelling all running requests...")
		cancel()
	}()

	if cfg == nil {
		return errors.New("failed to start: configuration is not loaded")
	}

	state := session.New(session.WithResetOnError(cfg.ResetOnError))
	m := initialModel(ctx, cfg, svc, state)

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}
