package platform

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// GrantStore persists grant statuses.
type GrantStore interface {
	GrantStatus(ctx context.Context, c Capability) (GrantStatus, error)
	SetGrantStatus(ctx context.Context, c Capability, st GrantStatus) error
}

// PromptAnswer is the user's reply to a permission prompt.
type PromptAnswer int

const (
	AnswerDeny PromptAnswer = iota
	AnswerAllow
	AnswerNever
)

func (a PromptAnswer) String() string {
	switch a {
	case AnswerAllow:
		return "allow"
	case AnswerNever:
		return "never"
	default:
		return "deny"
	}
}

// PermissionPrompt is what the host shows when an app requests a capability.
type PermissionPrompt struct {
	Capability Capability
	Title      string
	Body       string
}

// Prompter asks the user to answer a permission prompt.
type Prompter interface {
	PromptPermission(ctx context.Context, p PermissionPrompt) (PromptAnswer, error)
}

// Grants is a desktop stand-in for the OS permission service: statuses live in
// a GrantStore and requests are answered through a Prompter.
type Grants struct {
	Store    GrantStore
	Prompter Prompter
	AppName  string

	// Only one prompt per capability can be shown at a time.
	cameraMu  sync.Mutex
	libraryMu sync.Mutex
}

func (g *Grants) CameraPermission(ctx context.Context) (PermissionState, error) {
	return g.query(ctx, Camera)
}

func (g *Grants) MediaLibraryPermission(ctx context.Context) (PermissionState, error) {
	return g.query(ctx, MediaLibrary)
}

func (g *Grants) RequestCameraPermission(ctx context.Context) (PermissionState, error) {
	g.cameraMu.Lock()
	defer g.cameraMu.Unlock()
	return g.request(ctx, Camera)
}

func (g *Grants) RequestMediaLibraryPermission(ctx context.Context) (PermissionState, error) {
	g.libraryMu.Lock()
	defer g.libraryMu.Unlock()
	return g.request(ctx, MediaLibrary)
}

func (g *Grants) query(ctx context.Context, c Capability) (PermissionState, error) {
	if g.Store == nil {
		return PermissionState{}, fmt.Errorf("permissions: %s: no grant store", c)
	}
	st, err := g.Store.GrantStatus(ctx, c)
	if err != nil {
		return PermissionState{}, fmt.Errorf("permissions: %s: %w", c, err)
	}
	return st.State(), nil
}

func (g *Grants) request(ctx context.Context, c Capability) (PermissionState, error) {
	if g.Store == nil {
		return PermissionState{}, fmt.Errorf("permissions: %s: no grant store", c)
	}
	current, err := g.Store.GrantStatus(ctx, c)
	if err != nil {
		return PermissionState{}, fmt.Errorf("permissions: %s: %w", c, err)
	}
	// Terminal statuses never show a prompt.
	if current.IsTerminal() {
		return current.State(), nil
	}
	if g.Prompter == nil {
		return PermissionState{}, fmt.Errorf("permissions: %s: no prompter", c)
	}

	answer, err := g.Prompter.PromptPermission(ctx, RequestPrompt(g.AppName, c))
	if err != nil {
		return PermissionState{}, fmt.Errorf("permissions: %s: %w", c, err)
	}

	next := StatusDenied
	switch answer {
	case AnswerAllow:
		next = StatusGranted
	case AnswerNever:
		next = StatusPermanentlyDenied
	}
	if err := g.Store.SetGrantStatus(ctx, c, next); err != nil {
		return PermissionState{}, fmt.Errorf("permissions: %s: %w", c, err)
	}
	return next.State(), nil
}

// RequestPrompt builds the prompt copy for a capability.
func RequestPrompt(appName string, c Capability) PermissionPrompt {
	appName = strings.TrimSpace(appName)
	if appName == "" {
		appName = DefaultAppName
	}
	what := "your camera"
	if c == MediaLibrary {
		what = "your photos"
	}
	return PermissionPrompt{
		Capability: c,
		Title:      fmt.Sprintf("Allow %s to access %s?", appName, what),
		Body:       fmt.Sprintf("%s uses %s to attach pictures to new items.", appName, what),
	}
}

// DefaultAppName is used in user-facing copy when no name is configured.
const DefaultAppName = "GTD"
