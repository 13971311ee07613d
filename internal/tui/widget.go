package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gtd-cli/internal/capture"
	"gtd-cli/internal/logging"
	"gtd-cli/internal/perm"
	"gtd-cli/internal/platform"
)

// Deps are the collaborators the widget drives.
type Deps struct {
	Permissions platform.Permissions
	Picker      platform.Picker
	Dispatcher  capture.Dispatcher
	AppName     string
	Options     platform.LaunchOptions
	Logger      *slog.Logger
}

type modalKind int

const (
	modalNone modalKind = iota
	modalSelector
	modalPrompt
	modalAlert
	modalFilePicker
)

type refreshDoneMsg struct{ err error }

type acquireDoneMsg struct {
	capability platform.Capability
	outcome    perm.Outcome
	err        error
}

type widgetModel struct {
	ctx    context.Context
	cancel context.CancelFunc

	width  int
	height int

	keys    keyMap
	input   textinput.Model
	appName string

	controller *perm.Controller
	perms      platform.Permissions
	handler    *capture.Handler
	draft      *capture.Draft
	bridge     *bridge
	log        *slog.Logger

	inFlight map[platform.Capability]bool

	modal    modalKind
	selector list.Model
	picker   filepicker.Model
	// active is the bridge request the open modal answers; queued wait behind it.
	active      bridgeRequest
	queued      []bridgeRequest
	promptFocus int

	minibufferText string
	minibufferErr  bool
}

func newWidgetModel(ctx context.Context, d Deps, b *bridge) widgetModel {
	ctx, cancel := context.WithCancel(ctx)
	log := d.Logger
	if log == nil {
		log = logging.Discard()
	}
	appName := strings.TrimSpace(d.AppName)
	if appName == "" {
		appName = platform.DefaultAppName
	}

	draft := &capture.Draft{}
	ctl := perm.NewController(perm.Config{
		Permissions: d.Permissions,
		Picker:      d.Picker,
		Alerter:     b,
		Sink:        draft,
		Options:     d.Options,
		AppName:     appName,
		Logger:      log,
	})

	ti := textinput.New()
	ti.Placeholder = "What needs doing?"
	ti.Prompt = "› "
	ti.CharLimit = 500
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(colorAccent)
	ti.Focus()

	return widgetModel{
		ctx:        ctx,
		cancel:     cancel,
		keys:       defaultKeyMap(),
		input:      ti,
		appName:    appName,
		controller: ctl,
		perms:      d.Permissions,
		handler:    &capture.Handler{Dispatcher: d.Dispatcher, Draft: draft, Logger: log},
		draft:      draft,
		bridge:     b,
		log:        log,
		inFlight:   map[platform.Capability]bool{},
	}
}

func (m widgetModel) Init() tea.Cmd {
	return tea.Batch(m.refreshCmd(), m.bridge.wait(m.ctx), textinput.Blink)
}

// refreshCmd queries both grants once, on mount.
func (m widgetModel) refreshCmd() tea.Cmd {
	tracker, perms, ctx := m.controller.Tracker(), m.perms, m.ctx
	return func() tea.Msg {
		return refreshDoneMsg{err: tracker.Refresh(ctx, perms)}
	}
}

func (m *widgetModel) acquireCmd(c platform.Capability) tea.Cmd {
	m.inFlight[c] = true
	ctl, ctx := m.controller, m.ctx
	return func() tea.Msg {
		out, err := ctl.Acquire(ctx, c)
		return acquireDoneMsg{capability: c, outcome: out, err: err}
	}
}

func (m *widgetModel) showMinibuffer(text string) {
	m.minibufferText = text
	m.minibufferErr = false
}

func (m *widgetModel) showError(text string) {
	m.minibufferText = text
	m.minibufferErr = true
}

func (m *widgetModel) quit() tea.Cmd {
	m.cancel()
	return tea.Quit
}

func (m widgetModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = max(10, min(m.width, modalMaxWidth)-6)
		if m.modal == modalSelector {
			m.selector.SetSize(modalBodyWidth(m.width), selectorHeight)
		}
		return m, nil

	case refreshDoneMsg:
		if msg.err != nil {
			m.log.Error("permission refresh failed", "err", msg.err)
			m.showError("Could not read permissions: " + msg.err.Error())
		}
		return m, nil

	case acquireDoneMsg:
		delete(m.inFlight, msg.capability)
		m.reportAcquire(msg)
		return m, nil

	case bridgeMsg:
		if msg.req != nil {
			m.queued = append(m.queued, msg.req)
		}
		cmd := m.openNextRequest()
		return m, tea.Batch(cmd, m.bridge.wait(m.ctx))

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			m.cancelRequests()
			return m, m.quit()
		}
		if m.modal != modalNone {
			return m.updateModal(msg)
		}
		m.minibufferText = ""
		return m.updateField(msg)
	}

	if m.modal == modalFilePicker {
		return m.updateModal(msg)
	}
	if m.input.Focused() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m widgetModel) updateField(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Camera):
		return m, m.acquireCmd(platform.Camera)
	case key.Matches(msg, m.keys.Library):
		return m, m.acquireCmd(platform.MediaLibrary)
	case key.Matches(msg, m.keys.Attach):
		m.openSelector()
		return m, nil
	case key.Matches(msg, m.keys.ClearDraft):
		if n := m.draft.Discard(); n > 0 {
			m.showMinibuffer(fmt.Sprintf("Dropped %d photo(s)", n))
		}
		return m, nil
	}

	if !m.input.Focused() {
		switch {
		case key.Matches(msg, m.keys.Focus):
			return m, m.input.Focus()
		case key.Matches(msg, m.keys.Quit):
			return m, m.quit()
		}
		return m, nil
	}

	if key.Matches(msg, m.keys.Submit) {
		text := m.input.Value()
		res := m.handler.Submit(m.ctx, &text, inputField{m: &m.input})
		switch {
		case res.Err != nil:
			m.showError("Could not add item: " + res.Err.Error())
		case res.Created:
			m.showMinibuffer("Added: " + res.Item.Title)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// inputField adapts the text input to capture.Field.
type inputField struct {
	m *textinput.Model
}

func (f inputField) Reset() { f.m.Reset() }
func (f inputField) Blur()  { f.m.Blur() }

func (m *widgetModel) reportAcquire(msg acquireDoneMsg) {
	what := "Camera"
	if msg.capability == platform.MediaLibrary {
		what = "Photos"
	}
	if msg.err != nil {
		if !errors.Is(msg.err, context.Canceled) {
			m.showError(what + ": " + msg.err.Error())
		}
		return
	}
	switch msg.outcome {
	case perm.OutcomeLaunched:
		m.showMinibuffer(fmt.Sprintf("Photo added to the next item (%d pending)", m.draft.Len()))
	case perm.OutcomeCancelled:
		m.showMinibuffer(what + ": cancelled")
	case perm.OutcomeDeclined:
		m.showMinibuffer(what + ": access not granted")
	case perm.OutcomeBusy:
		m.showMinibuffer(what + " is already open")
	case perm.OutcomeRemediated:
		// The notice was the feedback.
	}
}

// cancelRequests answers every pending bridge request with its "no" value.
func (m *widgetModel) cancelRequests() {
	if m.active != nil {
		m.active.cancel()
		m.active = nil
	}
	for _, r := range m.queued {
		r.cancel()
	}
	m.queued = nil
}

func (m widgetModel) View() string {
	width := m.width
	if width <= 0 {
		width = 80
	}
	if m.modal != modalNone {
		return placeCentered(m.width, m.height, m.modalView())
	}

	boxW := min(width, modalMaxWidth)
	title := lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Render(m.appName)
	lines := []string{
		title + styleMuted().Render("  inbox"),
		renderInputLine(boxW, m.input.View(), m.input.Focused()),
		m.capabilityLine(),
	}
	if n := m.draft.Len(); n > 0 {
		lines = append(lines, styleMuted().Render(fmt.Sprintf("%d photo(s) will be attached to the next item", n)))
	}
	if m.minibufferText != "" {
		st := lipgloss.NewStyle()
		if m.minibufferErr {
			st = st.Foreground(colorError)
		}
		lines = append(lines, st.Render(fitLine(m.minibufferText, boxW)))
	}
	lines = append(lines, "", m.helpLine(boxW))
	return strings.Join(lines, "\n")
}

func (m widgetModel) capabilityLine() string {
	snap := m.controller.Tracker().Snapshot()
	badge := func(label string, c platform.Capability) string {
		st := snap[c]
		text, color := "blocked", colorBlocked
		switch {
		case m.inFlight[c]:
			text, color = "open", colorAccent
		case st.Granted:
			text, color = "ready", colorGranted
		case st.CanAskAgain:
			text, color = "ask", colorAsk
		}
		return label + " " + lipgloss.NewStyle().Foreground(color).Render(text)
	}
	return badge("[camera]", platform.Camera) + "   " + badge("[photos]", platform.MediaLibrary)
}

func (m widgetModel) helpLine(w int) string {
	bindings := m.keys.blurredHelp()
	if m.input.Focused() {
		bindings = m.keys.focusedHelp()
	}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+": "+h.Desc)
	}
	return styleMuted().Render(fitLine(strings.Join(parts, "   "), w))
}
