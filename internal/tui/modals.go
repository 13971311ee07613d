package tui

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gtd-cli/internal/capture"
	"gtd-cli/internal/platform"
)

const selectorHeight = 6

var promptLabels = []string{"Allow", "Don't allow", "Don't ask again"}

var promptAnswers = []platform.PromptAnswer{platform.AnswerAllow, platform.AnswerDeny, platform.AnswerNever}

type sourceItem struct {
	opt capture.SourceOption
}

func (i sourceItem) Title() string       { return i.opt.Label }
func (i sourceItem) Description() string { return "" }
func (i sourceItem) FilterValue() string { return i.opt.Label }

func (m *widgetModel) openSelector() {
	opts := capture.SourceOptions()
	items := make([]list.Item, 0, len(opts))
	for _, o := range opts {
		items = append(items, sourceItem{opt: o})
	}
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	d.SetSpacing(0)
	d.Styles.SelectedTitle = d.Styles.SelectedTitle.Foreground(colorAccent).BorderForeground(colorAccent)

	l := list.New(items, d, modalBodyWidth(m.width), selectorHeight)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)
	m.selector = l
	m.modal = modalSelector
}

// openNextRequest shows the next queued bridge request, if no modal is open.
func (m *widgetModel) openNextRequest() tea.Cmd {
	if m.active != nil || len(m.queued) == 0 {
		return nil
	}
	// A bridge request preempts the selector.
	req := m.queued[0]
	m.queued = m.queued[1:]
	m.active = req
	m.input.Blur()

	switch r := req.(type) {
	case promptRequest:
		m.modal = modalPrompt
		m.promptFocus = 0
	case alertRequest:
		m.modal = modalAlert
	case chooseFileRequest:
		m.modal = modalFilePicker
		return m.openFilePicker(r)
	}
	return nil
}

func (m *widgetModel) openFilePicker(r chooseFileRequest) tea.Cmd {
	fp := filepicker.New()
	fp.AllowedTypes = allowedWithUpper(r.allowed)
	fp.FileAllowed = true
	fp.DirAllowed = false
	fp.ShowHidden = false
	fp.ShowPermissions = false
	fp.ShowSize = true
	fp.AutoHeight = false
	fp.Height = filePickerHeight(m.height)
	fp.Cursor = "›"
	// esc cancels the pick instead of going up a directory.
	fp.KeyMap.Back = key.NewBinding(
		key.WithKeys("h", "backspace", "left"),
		key.WithHelp("h", "up"),
	)
	fp.Styles.Cursor = lipgloss.NewStyle().Foreground(colorAccent)
	fp.Styles.Selected = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	fp.Styles.Directory = lipgloss.NewStyle().Foreground(colorAccent)
	fp.Styles.DisabledFile = styleMuted()
	fp.Styles.FileSize = styleMuted().Width(fp.Styles.FileSize.GetWidth()).Align(lipgloss.Right)

	dir := strings.TrimSpace(r.dir)
	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		dir = "."
	}
	fp.CurrentDirectory = dir
	m.picker = fp
	return fp.Init()
}

// allowedWithUpper adds upper-case variants; filepicker matches suffixes exactly.
func allowedWithUpper(exts []string) []string {
	if len(exts) == 0 {
		return nil
	}
	out := make([]string, 0, 2*len(exts))
	for _, e := range exts {
		out = append(out, e, strings.ToUpper(e))
	}
	return out
}

func filePickerHeight(termH int) int {
	h := termH - 10
	if h < 5 {
		h = 5
	}
	if h > 20 {
		h = 20
	}
	return h
}

// closeModal answers nothing; callers reply to the active request first.
func (m *widgetModel) closeModal() tea.Cmd {
	m.modal = modalNone
	m.active = nil
	if cmd := m.openNextRequest(); cmd != nil || m.modal != modalNone {
		return cmd
	}
	return m.input.Focus()
}

func (m widgetModel) updateModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.modal {
	case modalSelector:
		km, ok := msg.(tea.KeyMsg)
		if !ok {
			return m, nil
		}
		switch {
		case key.Matches(km, m.keys.Cancel):
			m.modal = modalNone
			return m, nil
		case km.String() == "enter":
			it, _ := m.selector.SelectedItem().(sourceItem)
			m.modal = modalNone
			if it.opt.Value == "" {
				return m, nil
			}
			return m, m.acquireCmd(it.opt.Value)
		}
		var cmd tea.Cmd
		m.selector, cmd = m.selector.Update(km)
		return m, cmd

	case modalPrompt:
		km, ok := msg.(tea.KeyMsg)
		if !ok {
			return m, nil
		}
		req, _ := m.active.(promptRequest)
		switch {
		case key.Matches(km, m.keys.Cancel):
			req.reply <- platform.AnswerDeny
			return m, m.closeModal()
		case key.Matches(km, m.keys.Confirm):
			req.reply <- promptAnswers[m.promptFocus]
			return m, m.closeModal()
		case key.Matches(km, m.keys.Next):
			m.promptFocus = (m.promptFocus + 1) % len(promptLabels)
		case key.Matches(km, m.keys.Prev):
			m.promptFocus = (m.promptFocus + len(promptLabels) - 1) % len(promptLabels)
		}
		return m, nil

	case modalAlert:
		km, ok := msg.(tea.KeyMsg)
		if !ok {
			return m, nil
		}
		if key.Matches(km, m.keys.Confirm) || key.Matches(km, m.keys.Cancel) {
			if req, ok := m.active.(alertRequest); ok {
				close(req.done)
			}
			return m, m.closeModal()
		}
		return m, nil

	case modalFilePicker:
		req, _ := m.active.(chooseFileRequest)
		if km, ok := msg.(tea.KeyMsg); ok && key.Matches(km, m.keys.Cancel) {
			req.reply <- ""
			return m, m.closeModal()
		}
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		if ok, path := m.picker.DidSelectFile(msg); ok {
			req.reply <- path
			return m, m.closeModal()
		}
		return m, cmd
	}
	return m, nil
}

func (m widgetModel) modalView() string {
	bodyW := modalBodyWidth(m.width)
	help := func(s string) string { return styleMuted().Render(s) }

	switch m.modal {
	case modalSelector:
		return renderModalBox(m.width, "Attach a photo", m.selector.View()+"\n\n"+help("enter: select   esc: cancel"))

	case modalPrompt:
		req, _ := m.active.(promptRequest)
		body := lipgloss.NewStyle().Width(bodyW).Render(req.prompt.Body)
		content := strings.Join([]string{
			body,
			"",
			renderChoiceRow(promptLabels, m.promptFocus),
			"",
			help("tab: focus   enter: select   esc: don't allow"),
		}, "\n")
		return renderModalBox(m.width, req.prompt.Title, content)

	case modalAlert:
		req, _ := m.active.(alertRequest)
		content := renderMarkdown(req.body, bodyW) + "\n\n" + renderChoiceRow([]string{"OK"}, 0)
		return renderModalBox(m.width, req.title, content)

	case modalFilePicker:
		req, _ := m.active.(chooseFileRequest)
		dir := m.picker.CurrentDirectory
		if abs, err := filepath.Abs(dir); err == nil {
			dir = abs
		}
		content := strings.Join([]string{
			help(dir),
			m.picker.View(),
			help("enter: choose   h: up   esc: cancel"),
		}, "\n")
		title := "Choose a photo"
		if len(req.allowed) == 0 {
			title = "Choose a file"
		}
		return renderModalBox(m.width, title, content)
	}
	return ""
}
