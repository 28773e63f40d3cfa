package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"
	"github.com/mwiater/fraudcheck/internal/appconfig"
	"github.com/mwiater/fraudcheck/internal/form"
	"github.com/mwiater/fraudcheck/internal/result"
	"github.com/mwiater/fraudcheck/internal/session"
)

func scenarioMetadata(t *testing.T) form.Metadata {
	t.Helper()
	meta, err := form.ParseMetadata([]byte(`{"PROVENANCE": ["FR","CN"], "CODE_BANQUE": []}`))
	if err != nil {
		t.Fatal(err)
	}
	return meta
}

func newLoadedModel(t *testing.T, svc *testService) *model {
	t.Helper()
	cfg := appconfig.Defaults()
	m := initialModel(context.Background(), &cfg, svc, session.New())
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m.Update(metadataReadyMsg{meta: svc.meta})
	return m
}

// runCmd executes cmd and any batched commands, returning the messages that
// are not spinner or cursor ticks.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, runCmd(c)...)
		}
		return out
	case predictionMsg, predictionErr, metadataReadyMsg, metadataLoadErr:
		return []tea.Msg{msg}
	default:
		return nil
	}
}

func press(k tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: k} }

func typeText(m *model, text string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func TestInitLoadsMetadata(t *testing.T) {
	svc := newTestService(scenarioMetadata(t))
	m := initialModel(context.Background(), nil, svc, nil)

	msgs := runCmd(m.Init())
	if len(msgs) != 1 {
		t.Fatalf("expected one metadata message, got %#v", msgs)
	}
	if _, ok := msgs[0].(metadataReadyMsg); !ok {
		t.Fatalf("expected metadataReadyMsg, got %T", msgs[0])
	}
}

func TestMetadataBuildsControlsInOrder(t *testing.T) {
	m := newLoadedModel(t, newTestService(scenarioMetadata(t)))

	if len(m.controls) != 2 {
		t.Fatalf("expected 2 controls, got %d", len(m.controls))
	}
	if !m.controls[0].isSelect() || m.controls[1].isSelect() {
		t.Fatal("expected PROVENANCE select followed by CODE_BANQUE text input")
	}
	var labels []string
	for _, c := range m.controls[0].choices {
		labels = append(labels, c.Label)
	}
	if diff := cmp.Diff([]string{"--", "FR", "CN"}, labels); diff != "" {
		t.Fatalf("choices mismatch (-want +got):\n%s", diff)
	}

	view := m.View()
	first := strings.Index(view, "PROVENANCE *")
	second := strings.Index(view, "CODE_BANQUE *")
	if first < 0 || second < 0 || first > second {
		t.Fatalf("expected both required fields in order, got:\n%s", view)
	}
	for _, want := range []string{Title, submitLabel, resetLabel} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view:\n%s", want, view)
		}
	}
}

func TestEditingUpdatesSessionForm(t *testing.T) {
	m := newLoadedModel(t, newTestService(scenarioMetadata(t)))

	m.Update(press(tea.KeyRight))
	if got := m.state.Form.Value("PROVENANCE"); got != "FR" {
		t.Fatalf("expected FR after right, got %q", got)
	}
	m.Update(press(tea.KeyLeft))
	m.Update(press(tea.KeyLeft))
	if got := m.state.Form.Value("PROVENANCE"); got != "CN" {
		t.Fatalf("expected left to wrap to CN, got %q", got)
	}

	m.Update(press(tea.KeyTab))
	typeText(m, "B01")
	want := form.Snapshot{{Name: "PROVENANCE", Value: "CN"}, {Name: "CODE_BANQUE", Value: "B01"}}
	if diff := cmp.Diff(want, m.state.Form.Snapshot()); diff != "" {
		t.Fatalf("form mismatch (-want +got):\n%s", diff)
	}
}

func TestSubmitBlockedWhileRequiredFieldsEmpty(t *testing.T) {
	svc := newTestService(scenarioMetadata(t))
	m := newLoadedModel(t, svc)
	m.Update(press(tea.KeyRight))

	_, cmd := m.Update(press(tea.KeyCtrlS))
	if cmd != nil {
		t.Fatal("a blocked submission must not issue a request")
	}
	if m.hint != "Required: CODE_BANQUE" {
		t.Fatalf("unexpected hint %q", m.hint)
	}
	if !strings.Contains(m.View(), "Required: CODE_BANQUE") {
		t.Fatal("expected the hint in the view")
	}
}

func TestSubmitShowsPrediction(t *testing.T) {
	svc := newTestService(scenarioMetadata(t))
	svc.pred = result.Prediction{Label: "fraude", Probability: 0.82}
	m := newLoadedModel(t, svc)

	m.Update(press(tea.KeyRight))
	m.Update(press(tea.KeyTab))
	typeText(m, "B01")

	_, cmd := m.Update(press(tea.KeyEnter))
	if !m.state.Loading {
		t.Fatal("expected loading while the request is in flight")
	}
	if !strings.Contains(m.View(), "Requesting prediction") {
		t.Fatal("expected the spinner line while loading")
	}

	for _, msg := range runCmd(cmd) {
		m.Update(msg)
	}
	if m.state.Loading {
		t.Fatal("loading must end once the prediction arrives")
	}
	view := m.View()
	for _, want := range []string{"Prédiction: fraude", "Probabilité: 0.82"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view:\n%s", want, view)
		}
	}
	if got := svc.got[0].Map(); got["PROVENANCE"] != "FR" || got["CODE_BANQUE"] != "B01" {
		t.Fatalf("unexpected submitted values %v", got)
	}
}

func TestMetadataFailureShowsErrorWithoutForm(t *testing.T) {
	svc := newTestService(form.Metadata{})
	svc.metaErr = errors.New("connection refused")
	cfg := appconfig.Defaults()
	m := initialModel(context.Background(), &cfg, svc, nil)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	for _, msg := range runCmd(m.Init()) {
		m.Update(msg)
	}

	view := m.View()
	if !strings.Contains(view, session.MetadataErrorMessage) {
		t.Fatalf("expected metadata error, got:\n%s", view)
	}
	if strings.Contains(view, submitLabel) || len(m.controls) != 0 {
		t.Fatal("the form must not be rendered without metadata")
	}
	_, cmd := m.Update(press(tea.KeyCtrlS))
	if cmd != nil {
		t.Fatal("submit must be inert without metadata")
	}
}

func TestPredictionFailureKeepsPreviousResult(t *testing.T) {
	svc := newTestService(scenarioMetadata(t))
	svc.pred = result.Prediction{Label: "NON_FRAUDE", Probability: 0.12}
	m := newLoadedModel(t, svc)
	m.Update(press(tea.KeyRight))
	m.Update(press(tea.KeyTab))
	typeText(m, "B01")

	_, cmd := m.Update(press(tea.KeyCtrlS))
	for _, msg := range runCmd(cmd) {
		m.Update(msg)
	}

	svc.predErr = errors.New("503 Service Unavailable")
	_, cmd = m.Update(press(tea.KeyCtrlS))
	for _, msg := range runCmd(cmd) {
		m.Update(msg)
	}

	if m.state.Loading {
		t.Fatal("loading must be cleared after a failure")
	}
	view := m.View()
	for _, want := range []string{session.PredictionErrorMessage, "Prédiction: NON_FRAUDE"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view:\n%s", want, view)
		}
	}
	if m.controls[1].input.Value() != "B01" {
		t.Fatal("form values are kept after a failure")
	}
}

func TestResetClearsFormAndDropsInFlightOutcome(t *testing.T) {
	svc := newTestService(scenarioMetadata(t))
	svc.pred = result.Prediction{Label: "fraude", Probability: 0.9}
	m := newLoadedModel(t, svc)
	m.Update(press(tea.KeyRight))
	m.Update(press(tea.KeyTab))
	typeText(m, "B01")

	_, cmd := m.Update(press(tea.KeyCtrlS))
	m.Update(press(tea.KeyCtrlR))
	for _, msg := range runCmd(cmd) {
		m.Update(msg)
	}

	if m.state.Prediction != nil {
		t.Fatalf("stale prediction applied after reset: %+v", m.state.Prediction)
	}
	want := form.Snapshot{{Name: "PROVENANCE", Value: ""}, {Name: "CODE_BANQUE", Value: ""}}
	if diff := cmp.Diff(want, m.state.Form.Snapshot()); diff != "" {
		t.Fatalf("reset mismatch (-want +got):\n%s", diff)
	}
	if m.controls[0].choice != 0 || m.controls[1].input.Value() != "" {
		t.Fatal("controls must be cleared by reset")
	}
}

func TestFocusWrapsAndEnterOnResetButton(t *testing.T) {
	m := newLoadedModel(t, newTestService(scenarioMetadata(t)))
	m.Update(press(tea.KeyRight))

	m.Update(press(tea.KeyShiftTab))
	if m.focus != m.resetIndex() {
		t.Fatalf("expected focus to wrap to the reset button, got %d", m.focus)
	}
	m.Update(press(tea.KeyEnter))
	if m.state.Form.Value("PROVENANCE") != "" {
		t.Fatal("enter on the reset button must reset the form")
	}
}

func TestQuitKeys(t *testing.T) {
	m := newLoadedModel(t, newTestService(scenarioMetadata(t)))
	for _, k := range []tea.KeyType{tea.KeyCtrlC, tea.KeyEsc} {
		_, cmd := m.Update(press(k))
		if cmd == nil {
			t.Fatalf("expected a quit command for %v", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Fatalf("expected tea.QuitMsg for %v", k)
		}
	}
}

func TestView(t *testing.T) {
	m := initialModel(context.Background(), nil, newTestService(form.Metadata{}), nil)
	if view := m.View(); view != "Initializing..." {
		t.Errorf("Expected view to be 'Initializing...', got '%s'", view)
	}
	m.width = 100
	if view := m.View(); !strings.Contains(view, "Loading form") {
		t.Errorf("Expected the loading line, got '%s'", view)
	}
}
