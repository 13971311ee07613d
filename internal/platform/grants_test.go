package platform

import (
	"context"
	"errors"
	"testing"
)

type memGrants struct {
	status map[Capability]GrantStatus
	err    error
}

func (m *memGrants) GrantStatus(ctx context.Context, c Capability) (GrantStatus, error) {
	if m.err != nil {
		return "", m.err
	}
	if st, ok := m.status[c]; ok {
		return st, nil
	}
	return StatusNotDetermined, nil
}

func (m *memGrants) SetGrantStatus(ctx context.Context, c Capability, st GrantStatus) error {
	if m.status == nil {
		m.status = map[Capability]GrantStatus{}
	}
	m.status[c] = st
	return nil
}

type scriptedPrompter struct {
	answer  PromptAnswer
	prompts []PermissionPrompt
}

func (p *scriptedPrompter) PromptPermission(ctx context.Context, pr PermissionPrompt) (PromptAnswer, error) {
	p.prompts = append(p.prompts, pr)
	return p.answer, nil
}

func TestGrantStatus_State(t *testing.T) {
	cases := []struct {
		st   GrantStatus
		want PermissionState
	}{
		{StatusGranted, PermissionState{Granted: true, CanAskAgain: true}},
		{StatusNotDetermined, PermissionState{Granted: false, CanAskAgain: true}},
		{StatusDenied, PermissionState{Granted: false, CanAskAgain: true}},
		{StatusPermanentlyDenied, PermissionState{Granted: false, CanAskAgain: false}},
		{StatusRestricted, PermissionState{Granted: false, CanAskAgain: false}},
	}
	for _, tc := range cases {
		if got := tc.st.State(); got != tc.want {
			t.Fatalf("%s.State() = %#v, want %#v", tc.st, got, tc.want)
		}
	}
}

func TestParseGrantStatus(t *testing.T) {
	if st, err := ParseGrantStatus(""); err != nil || st != StatusNotDetermined {
		t.Fatalf("empty = %q, %v", st, err)
	}
	if st, err := ParseGrantStatus(" Granted "); err != nil || st != StatusGranted {
		t.Fatalf("Granted = %q, %v", st, err)
	}
	if _, err := ParseGrantStatus("maybe"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestParseCapability_Aliases(t *testing.T) {
	for in, want := range map[string]Capability{
		"camera":        Camera,
		"library":       MediaLibrary,
		"photos":        MediaLibrary,
		"media_library": MediaLibrary,
	} {
		got, err := ParseCapability(in)
		if err != nil || got != want {
			t.Fatalf("ParseCapability(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseCapability("microphone"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestGrants_RequestRecordsAnswer(t *testing.T) {
	cases := []struct {
		answer PromptAnswer
		want   GrantStatus
	}{
		{AnswerAllow, StatusGranted},
		{AnswerDeny, StatusDenied},
		{AnswerNever, StatusPermanentlyDenied},
	}
	for _, tc := range cases {
		t.Run(tc.answer.String(), func(t *testing.T) {
			store := &memGrants{}
			prompter := &scriptedPrompter{answer: tc.answer}
			g := &Grants{Store: store, Prompter: prompter}

			st, err := g.RequestCameraPermission(context.Background())
			if err != nil {
				t.Fatalf("request: %v", err)
			}
			if st != tc.want.State() {
				t.Fatalf("state = %#v, want %#v", st, tc.want.State())
			}
			if store.status[Camera] != tc.want {
				t.Fatalf("stored = %q, want %q", store.status[Camera], tc.want)
			}
			if len(prompter.prompts) != 1 || prompter.prompts[0].Title != "Allow GTD to access your camera?" {
				t.Fatalf("unexpected prompts: %#v", prompter.prompts)
			}
		})
	}
}

func TestGrants_TerminalStatusDoesNotPrompt(t *testing.T) {
	for _, st := range []GrantStatus{StatusGranted, StatusPermanentlyDenied, StatusRestricted} {
		store := &memGrants{status: map[Capability]GrantStatus{MediaLibrary: st}}
		prompter := &scriptedPrompter{answer: AnswerAllow}
		g := &Grants{Store: store, Prompter: prompter}

		got, err := g.RequestMediaLibraryPermission(context.Background())
		if err != nil {
			t.Fatalf("%s: %v", st, err)
		}
		if got != st.State() || len(prompter.prompts) != 0 {
			t.Fatalf("%s: state=%#v prompts=%d", st, got, len(prompter.prompts))
		}
	}
}

func TestGrants_QueryErrorIsWrapped(t *testing.T) {
	boom := errors.New("disk")
	g := &Grants{Store: &memGrants{err: boom}}
	if _, err := g.CameraPermission(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestRequestPrompt_Copy(t *testing.T) {
	p := RequestPrompt("Inbox", MediaLibrary)
	if p.Title != "Allow Inbox to access your photos?" || p.Capability != MediaLibrary {
		t.Fatalf("unexpected prompt: %#v", p)
	}
}
