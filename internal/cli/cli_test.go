package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"gtd-cli/internal/platform"
)

func runCLI(t *testing.T, app *App, args []string) (string, string, error) {
	t.Helper()
	if app == nil {
		app = &App{}
	}
	cmd := newRootCmd(app)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func cleanEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"GTD_DIR", "GTD_FORMAT", "GTD_CONFIG_DIR", "GTD_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
}

func decodeData[T any](t *testing.T, out string) T {
	t.Helper()
	var env struct {
		Data T `json:"data"`
	}
	if err := json.Unmarshal([]byte(out), &env); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	return env.Data
}

type answerPrompter struct {
	answer platform.PromptAnswer
	mu     sync.Mutex
	asked  []platform.PermissionPrompt
}

func (p *answerPrompter) PromptPermission(ctx context.Context, pr platform.PermissionPrompt) (platform.PromptAnswer, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.asked = append(p.asked, pr)
	return p.answer, nil
}

type noteAlerter struct {
	titles []string
}

func (a *noteAlerter) ShowBlockingMessage(ctx context.Context, title string, body string) {
	a.titles = append(a.titles, title)
}

// filePicker hands out copies of one source file.
type filePicker struct {
	t        *testing.T
	src      string
	launched []platform.Capability
}

func (p *filePicker) launch(c platform.Capability) (*platform.Asset, error) {
	p.launched = append(p.launched, c)
	b, err := os.ReadFile(p.src)
	if err != nil {
		return nil, err
	}
	dst := filepath.Join(p.t.TempDir(), "photo.jpg")
	if err := os.WriteFile(dst, b, 0o644); err != nil {
		return nil, err
	}
	return &platform.Asset{Path: dst, Name: "photo.jpg", MimeType: "image/jpeg", Size: int64(len(b)), Source: c}, nil
}

func (p *filePicker) LaunchCamera(ctx context.Context, opts platform.LaunchOptions) (*platform.Asset, error) {
	return p.launch(platform.Camera)
}

func (p *filePicker) LaunchLibrary(ctx context.Context, opts platform.LaunchOptions) (*platform.Asset, error) {
	return p.launch(platform.MediaLibrary)
}

func newFilePicker(t *testing.T) *filePicker {
	t.Helper()
	src := filepath.Join(t.TempDir(), "src.jpg")
	if err := os.WriteFile(src, []byte("not really a jpeg"), 0o644); err != nil {
		t.Fatalf("write src: %v", err)
	}
	return &filePicker{t: t, src: src}
}

type itemOut struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Attachments []struct {
		Source string `json:"source"`
		Path   string `json:"path"`
	} `json:"attachments"`
}

func TestAddListAndShow(t *testing.T) {
	cleanEnv(t)
	dir := t.TempDir()

	out, _, err := runCLI(t, nil, []string{"--dir", dir, "add", "Buy", "milk"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	it := decodeData[itemOut](t, out)
	if it.Title != "Buy milk" || !strings.HasPrefix(it.ID, "item-") {
		t.Fatalf("unexpected item: %+v", it)
	}

	out, _, err = runCLI(t, nil, []string{"--dir", dir, "items", "list"})
	if err != nil {
		t.Fatalf("items list: %v", err)
	}
	items := decodeData[[]itemOut](t, out)
	if len(items) != 1 || items[0].ID != it.ID {
		t.Fatalf("unexpected list: %+v", items)
	}

	out, _, err = runCLI(t, nil, []string{"--dir", dir, "items", "show", it.ID})
	if err != nil {
		t.Fatalf("items show: %v", err)
	}
	if got := decodeData[itemOut](t, out); got.Title != "Buy milk" {
		t.Fatalf("unexpected show: %+v", got)
	}
}

func TestAddBlankTitleFails(t *testing.T) {
	cleanEnv(t)
	_, errOut, err := runCLI(t, nil, []string{"--dir", t.TempDir(), "add", "   "})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(errOut, "missing title") {
		t.Fatalf("stderr = %q", errOut)
	}
}

func TestItemsShowNotFound(t *testing.T) {
	cleanEnv(t)
	_, errOut, err := runCLI(t, nil, []string{"--dir", t.TempDir(), "items", "show", "item-nope"})
	if err == nil || !strings.Contains(errOut, "item not found") {
		t.Fatalf("err=%v stderr=%q", err, errOut)
	}
}

func TestAddWithCameraAsksThenAttaches(t *testing.T) {
	cleanEnv(t)
	dir := t.TempDir()
	prompter := &answerPrompter{answer: platform.AnswerAllow}
	picker := newFilePicker(t)
	app := &App{prompter: prompter, alerter: &noteAlerter{}, picker: picker}

	out, _, err := runCLI(t, app, []string{"--dir", dir, "add", "Receipt", "--with", "camera"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	it := decodeData[itemOut](t, out)
	if len(it.Attachments) != 1 || it.Attachments[0].Source != string(platform.Camera) {
		t.Fatalf("attachments = %+v", it.Attachments)
	}
	if len(prompter.asked) != 1 {
		t.Fatalf("prompts = %d, want 1", len(prompter.asked))
	}
	if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(it.Attachments[0].Path))); err != nil {
		t.Fatalf("attachment file: %v", err)
	}

	// The grant is remembered; no second prompt.
	if _, _, err := runCLI(t, app, []string{"--dir", dir, "add", "Again", "--with", "camera"}); err != nil {
		t.Fatalf("second add: %v", err)
	}
	if len(prompter.asked) != 1 {
		t.Fatalf("prompts = %d after second add, want 1", len(prompter.asked))
	}
}

func TestAddWithDeclinedCameraAddsNothing(t *testing.T) {
	cleanEnv(t)
	dir := t.TempDir()
	app := &App{prompter: &answerPrompter{answer: platform.AnswerDeny}, alerter: &noteAlerter{}, picker: newFilePicker(t)}

	if _, _, err := runCLI(t, app, []string{"--dir", dir, "add", "Receipt", "--with", "camera"}); err == nil {
		t.Fatalf("expected error")
	}
	out, _, err := runCLI(t, nil, []string{"--dir", dir, "items", "list"})
	if err != nil {
		t.Fatalf("items list: %v", err)
	}
	if items := decodeData[[]itemOut](t, out); len(items) != 0 {
		t.Fatalf("items = %+v, want none", items)
	}
}

func TestAttachToItem(t *testing.T) {
	cleanEnv(t)
	dir := t.TempDir()
	out, _, err := runCLI(t, nil, []string{"--dir", dir, "add", "Scan"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	id := decodeData[itemOut](t, out).ID
	if _, _, err := runCLI(t, nil, []string{"--dir", dir, "permissions", "set", "library", "granted"}); err != nil {
		t.Fatalf("permissions set: %v", err)
	}

	picker := newFilePicker(t)
	app := &App{prompter: &answerPrompter{}, alerter: &noteAlerter{}, picker: picker}
	out, _, err = runCLI(t, app, []string{"--dir", dir, "attach", "library", "--item", id})
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	res := decodeData[map[string]any](t, out)
	if res["outcome"] != "launched" || res["attachment"] == nil {
		t.Fatalf("attach result = %+v", res)
	}

	out, _, err = runCLI(t, nil, []string{"--dir", dir, "items", "show", id})
	if err != nil {
		t.Fatalf("items show: %v", err)
	}
	if got := decodeData[itemOut](t, out); len(got.Attachments) != 1 {
		t.Fatalf("attachments = %+v", got.Attachments)
	}
}

func TestAttachPermanentlyDeniedShowsNotice(t *testing.T) {
	cleanEnv(t)
	dir := t.TempDir()
	if _, _, err := runCLI(t, nil, []string{"--dir", dir, "permissions", "set", "camera", "permanently_denied"}); err != nil {
		t.Fatalf("permissions set: %v", err)
	}

	prompter := &answerPrompter{answer: platform.AnswerAllow}
	alerter := &noteAlerter{}
	picker := newFilePicker(t)
	app := &App{prompter: prompter, alerter: alerter, picker: picker}
	out, _, err := runCLI(t, app, []string{"--dir", dir, "attach", "camera"})
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	res := decodeData[map[string]any](t, out)
	if res["outcome"] != "remediated" {
		t.Fatalf("outcome = %v", res["outcome"])
	}
	if len(alerter.titles) != 1 || len(prompter.asked) != 0 || len(picker.launched) != 0 {
		t.Fatalf("notices=%d prompts=%d launches=%d", len(alerter.titles), len(prompter.asked), len(picker.launched))
	}
}

func TestAttachUnknownItem(t *testing.T) {
	cleanEnv(t)
	picker := newFilePicker(t)
	app := &App{prompter: &answerPrompter{}, alerter: &noteAlerter{}, picker: picker}
	_, errOut, err := runCLI(t, app, []string{"--dir", t.TempDir(), "attach", "camera", "--item", "item-missing"})
	if err == nil || !strings.Contains(errOut, "item not found") {
		t.Fatalf("err=%v stderr=%q", err, errOut)
	}
	if len(picker.launched) != 0 {
		t.Fatalf("picker launched for a missing item")
	}
}

func TestPermissionsSetListReset(t *testing.T) {
	cleanEnv(t)
	dir := t.TempDir()

	out, _, err := runCLI(t, nil, []string{"--dir", dir, "permissions", "set", "camera", "denied"})
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	rows := decodeData[[]permissionRow](t, out)
	if len(rows) != 2 {
		t.Fatalf("rows = %+v", rows)
	}
	if rows[0].Capability != platform.Camera || rows[0].Status != platform.StatusDenied || rows[0].Granted || !rows[0].CanAskAgain {
		t.Fatalf("camera row = %+v", rows[0])
	}
	if rows[1].Status != platform.StatusNotDetermined {
		t.Fatalf("library row = %+v", rows[1])
	}

	out, _, err = runCLI(t, nil, []string{"--dir", dir, "permissions", "reset"})
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	for _, r := range decodeData[[]permissionRow](t, out) {
		if r.Status != platform.StatusNotDetermined {
			t.Fatalf("row after reset = %+v", r)
		}
	}

	if _, _, err := runCLI(t, nil, []string{"--dir", dir, "permissions", "set", "camera", "maybe"}); err == nil {
		t.Fatalf("expected invalid status error")
	}
}

func TestPermissionsRequestRecordsAnswer(t *testing.T) {
	cleanEnv(t)
	dir := t.TempDir()
	app := &App{prompter: &answerPrompter{answer: platform.AnswerNever}}
	out, _, err := runCLI(t, app, []string{"--dir", dir, "permissions", "request", "library"})
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	rows := decodeData[[]permissionRow](t, out)
	if rows[1].Status != platform.StatusPermanentlyDenied || rows[1].CanAskAgain {
		t.Fatalf("library row = %+v", rows[1])
	}
}

func TestEventsAfterAdd(t *testing.T) {
	cleanEnv(t)
	dir := t.TempDir()
	if _, _, err := runCLI(t, nil, []string{"--dir", dir, "add", "One"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, _, err := runCLI(t, nil, []string{"--dir", dir, "permissions", "set", "camera", "granted"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	out, _, err := runCLI(t, nil, []string{"--dir", dir, "events", "--limit", "1"})
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	evs := decodeData[[]struct {
		Type string `json:"type"`
	}](t, out)
	if len(evs) != 1 || evs[0].Type != "permission.set" {
		t.Fatalf("events = %+v", evs)
	}
}

func TestYAMLOutput(t *testing.T) {
	cleanEnv(t)
	out, _, err := runCLI(t, nil, []string{"--dir", t.TempDir(), "--format", "yaml", "add", "Yaml", "item"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !strings.Contains(out, "title: Yaml item") {
		t.Fatalf("yaml output = %q", out)
	}
}
