package perm

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"

	"gtd-cli/internal/platform"
)

// Outcome is how an acquisition action ended.
type Outcome int

const (
	// OutcomeLaunched: the launcher returned an asset and it was handed to the sink.
	OutcomeLaunched Outcome = iota
	// OutcomeCancelled: the launcher ran but returned no asset.
	OutcomeCancelled
	// OutcomeDeclined: a request was made and the user did not grant it.
	OutcomeDeclined
	// OutcomeRemediated: the capability cannot be requested; the notice was shown.
	OutcomeRemediated
	// OutcomeBusy: an acquisition for the same capability was already in flight.
	OutcomeBusy
)

func (o Outcome) String() string {
	switch o {
	case OutcomeLaunched:
		return "launched"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeDeclined:
		return "declined"
	case OutcomeRemediated:
		return "remediated"
	case OutcomeBusy:
		return "busy"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// AssetSink receives media produced by a launcher.
type AssetSink interface {
	AcceptAsset(ctx context.Context, a platform.Asset)
}

// Notice is remediation copy shown when a capability cannot be requested.
type Notice struct {
	Title string
	Body  string
}

// RemediationNotice returns the settings instruction for a capability.
func RemediationNotice(appName string, c platform.Capability) Notice {
	appName = strings.TrimSpace(appName)
	if appName == "" {
		appName = platform.DefaultAppName
	}
	what := "camera"
	if c == platform.MediaLibrary {
		what = "photos"
	}
	return Notice{
		Title: "Permission required",
		Body:  fmt.Sprintf("Please go to your system settings and allow %s to access your %s.", appName, what),
	}
}

// Flow is the capability-specific half of an acquisition: how to request the
// grant, how to launch the picker, and what to say when neither is possible.
type Flow struct {
	Capability  platform.Capability
	Request     func(ctx context.Context) (platform.PermissionState, error)
	Launch      func(ctx context.Context, opts platform.LaunchOptions) (*platform.Asset, error)
	Remediation Notice
}

type Config struct {
	Tracker     *Tracker
	Permissions platform.Permissions
	Picker      platform.Picker
	Alerter     platform.Alerter
	Sink        AssetSink
	Options     platform.LaunchOptions
	AppName     string
	Logger      *slog.Logger
}

// Controller runs acquisition actions for the camera and the media library.
type Controller struct {
	tracker *Tracker
	perms   platform.Permissions
	picker  platform.Picker
	alerter platform.Alerter
	sink    AssetSink
	opts    platform.LaunchOptions
	appName string
	log     *slog.Logger

	cameraBusy  atomic.Bool
	libraryBusy atomic.Bool
}

func NewController(cfg Config) *Controller {
	t := cfg.Tracker
	if t == nil {
		t = NewTracker()
	}
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	opts := cfg.Options
	if opts == (platform.LaunchOptions{}) {
		opts = platform.DefaultLaunchOptions()
	}
	return &Controller{
		tracker: t,
		perms:   cfg.Permissions,
		picker:  cfg.Picker,
		alerter: cfg.Alerter,
		sink:    cfg.Sink,
		opts:    opts,
		appName: cfg.AppName,
		log:     log,
	}
}

func (c *Controller) Tracker() *Tracker { return c.tracker }

func (c *Controller) Options() platform.LaunchOptions { return c.opts }

func (c *Controller) AcquireFromCamera(ctx context.Context) (Outcome, error) {
	return c.Acquire(ctx, platform.Camera)
}

func (c *Controller) AcquireFromLibrary(ctx context.Context) (Outcome, error) {
	return c.Acquire(ctx, platform.MediaLibrary)
}

// Acquire runs one user-initiated acquisition. A second
// call for the same capability while one is in flight returns OutcomeBusy
// without touching the host.
func (c *Controller) Acquire(ctx context.Context, capability platform.Capability) (Outcome, error) {
	f, err := c.flow(capability)
	if err != nil {
		return OutcomeCancelled, err
	}

	busy := c.busyFlag(capability)
	if !busy.CompareAndSwap(false, true) {
		c.log.Debug("acquire skipped: in flight", "capability", capability)
		return OutcomeBusy, nil
	}
	defer busy.Store(false)

	out, err := c.decide(ctx, f)
	if err != nil {
		c.log.Error("acquire failed", "capability", capability, "err", err)
		return out, err
	}
	c.log.Info("acquire finished", "capability", capability, "outcome", out.String())
	return out, nil
}

// decide is the decision procedure shared by both capabilities.
func (c *Controller) decide(ctx context.Context, f Flow) (Outcome, error) {
	st := c.tracker.State(f.Capability)

	switch {
	case st.Granted:
		return c.launch(ctx, f)

	case st.CanAskAgain:
		fresh, err := f.Request(ctx)
		if err != nil {
			return OutcomeDeclined, fmt.Errorf("request %s permission: %w", f.Capability, err)
		}
		c.tracker.record(f.Capability, fresh)
		if !fresh.Granted {
			return OutcomeDeclined, nil
		}
		return c.launch(ctx, f)

	default:
		if c.alerter != nil {
			c.alerter.ShowBlockingMessage(ctx, f.Remediation.Title, f.Remediation.Body)
		}
		return OutcomeRemediated, nil
	}
}

func (c *Controller) launch(ctx context.Context, f Flow) (Outcome, error) {
	asset, err := f.Launch(ctx, c.opts)
	if err != nil {
		return OutcomeCancelled, fmt.Errorf("launch %s: %w", f.Capability, err)
	}
	if asset == nil {
		return OutcomeCancelled, nil
	}
	if c.sink != nil {
		c.sink.AcceptAsset(ctx, *asset)
	}
	return OutcomeLaunched, nil
}

func (c *Controller) flow(capability platform.Capability) (Flow, error) {
	if c.perms == nil || c.picker == nil {
		return Flow{}, fmt.Errorf("perm: controller for %s is missing collaborators", capability)
	}
	switch capability {
	case platform.Camera:
		return Flow{
			Capability:  capability,
			Request:     c.perms.RequestCameraPermission,
			Launch:      c.picker.LaunchCamera,
			Remediation: RemediationNotice(c.appName, capability),
		}, nil
	case platform.MediaLibrary:
		return Flow{
			Capability:  capability,
			Request:     c.perms.RequestMediaLibraryPermission,
			Launch:      c.picker.LaunchLibrary,
			Remediation: RemediationNotice(c.appName, capability),
		}, nil
	default:
		return Flow{}, fmt.Errorf("%w: %q", ErrUnknownCapability, capability)
	}
}

func (c *Controller) busyFlag(capability platform.Capability) *atomic.Bool {
	if capability == platform.Camera {
		return &c.cameraBusy
	}
	return &c.libraryBusy
}
