package platform

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// Terminal answers prompts, notices and file picks on an interactive terminal.
// It is the scriptable CLI's counterpart of the TUI bridge.
type Terminal struct {
	In  terminal.FileReader
	Out terminal.FileWriter
	Err io.Writer
}

const (
	optionAllow = "Allow"
	optionDeny  = "Don't allow"
	optionNever = "Don't ask again"
)

func (t Terminal) askOpts() []survey.AskOpt {
	if t.In == nil || t.Out == nil {
		return nil
	}
	errW := t.Err
	if errW == nil {
		errW = os.Stderr
	}
	return []survey.AskOpt{survey.WithStdio(t.In, t.Out, errW)}
}

func (t Terminal) PromptPermission(ctx context.Context, p PermissionPrompt) (PromptAnswer, error) {
	if err := ctx.Err(); err != nil {
		return AnswerDeny, err
	}
	var choice string
	prompt := &survey.Select{
		Message: p.Title,
		Help:    p.Body,
		Options: []string{optionAllow, optionDeny, optionNever},
		Default: optionDeny,
	}
	if err := survey.AskOne(prompt, &choice, t.askOpts()...); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return AnswerDeny, nil
		}
		return AnswerDeny, err
	}
	switch choice {
	case optionAllow:
		return AnswerAllow, nil
	case optionNever:
		return AnswerNever, nil
	default:
		return AnswerDeny, nil
	}
}

func (t Terminal) ShowBlockingMessage(ctx context.Context, title string, body string) {
	w := t.Err
	if w == nil {
		w = os.Stderr
	}
	fmt.Fprintf(w, "%s\n%s\n", title, body)
	if ctx.Err() != nil {
		return
	}
	var ack string
	_ = survey.AskOne(&survey.Select{Message: "Acknowledge", Options: []string{"OK"}}, &ack, t.askOpts()...)
}

func (t Terminal) ChooseFile(ctx context.Context, dir string, allowed []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var path string
	prompt := &survey.Input{
		Message: "Photo to attach (empty to cancel):",
		Suggest: func(toComplete string) []string {
			return suggestFiles(dir, toComplete, allowed)
		},
	}
	if err := survey.AskOne(prompt, &path, t.askOpts()...); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return "", nil
		}
		return "", err
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	return path, nil
}

func suggestFiles(dir string, toComplete string, allowed []string) []string {
	pattern := toComplete + "*"
	if !filepath.IsAbs(toComplete) {
		pattern = filepath.Join(dir, pattern)
	}
	matches, _ := filepath.Glob(pattern)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		st, err := os.Stat(m)
		if err != nil {
			continue
		}
		if !st.IsDir() && !hasAllowedExt(m, allowed) {
			continue
		}
		if !filepath.IsAbs(toComplete) {
			if rel, err := filepath.Rel(dir, m); err == nil {
				m = rel
			}
		}
		if st.IsDir() {
			m += string(filepath.Separator)
		}
		out = append(out, m)
	}
	return out
}
