package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"gtd-cli/internal/platform"
)

// bridge lets code running inside a tea.Cmd goroutine ask the user something.
// The caller posts a request and blocks until the model replies or ctx ends.
// It implements platform.Prompter, platform.Alerter and platform.FileChooser.
type bridge struct {
	reqs chan bridgeRequest
}

func newBridge() *bridge {
	return &bridge{reqs: make(chan bridgeRequest)}
}

type bridgeRequest interface {
	// cancel answers the request with its "no" value.
	cancel()
}

type promptRequest struct {
	prompt platform.PermissionPrompt
	reply  chan platform.PromptAnswer
}

func (r promptRequest) cancel() { r.reply <- platform.AnswerDeny }

type alertRequest struct {
	title string
	body  string
	done  chan struct{}
}

func (r alertRequest) cancel() { close(r.done) }

type chooseFileRequest struct {
	dir     string
	allowed []string
	reply   chan string
}

func (r chooseFileRequest) cancel() { r.reply <- "" }

type bridgeMsg struct {
	req bridgeRequest
}

// wait delivers the next request as a bridgeMsg. It returns nil once ctx ends.
func (b *bridge) wait(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		select {
		case req := <-b.reqs:
			return bridgeMsg{req: req}
		case <-ctx.Done():
			return nil
		}
	}
}

func (b *bridge) post(ctx context.Context, req bridgeRequest) error {
	select {
	case b.reqs <- req:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *bridge) PromptPermission(ctx context.Context, p platform.PermissionPrompt) (platform.PromptAnswer, error) {
	req := promptRequest{prompt: p, reply: make(chan platform.PromptAnswer, 1)}
	if err := b.post(ctx, req); err != nil {
		return platform.AnswerDeny, err
	}
	select {
	case a := <-req.reply:
		return a, nil
	case <-ctx.Done():
		return platform.AnswerDeny, ctx.Err()
	}
}

func (b *bridge) ShowBlockingMessage(ctx context.Context, title string, body string) {
	req := alertRequest{title: title, body: body, done: make(chan struct{})}
	if err := b.post(ctx, req); err != nil {
		return
	}
	select {
	case <-req.done:
	case <-ctx.Done():
	}
}

func (b *bridge) ChooseFile(ctx context.Context, dir string, allowed []string) (string, error) {
	req := chooseFileRequest{dir: dir, allowed: allowed, reply: make(chan string, 1)}
	if err := b.post(ctx, req); err != nil {
		return "", err
	}
	select {
	case p := <-req.reply:
		return p, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
