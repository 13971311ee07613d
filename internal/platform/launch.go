package platform

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnavailable is returned when no launcher is configured for a capability.
var ErrUnavailable = errors.New("platform: launcher unavailable")

// MediaKind selects what a launcher may return.
type MediaKind string

const (
	MediaKindImage MediaKind = "image"
)

// Aspect is a width:height ratio.
type Aspect struct {
	W int `json:"w"`
	H int `json:"h"`
}

func (a Aspect) Valid() bool { return a.W > 0 && a.H > 0 }

func (a Aspect) String() string { return fmt.Sprintf("%d:%d", a.W, a.H) }

// LaunchOptions configures both launch paths. Treat values as immutable.
type LaunchOptions struct {
	MediaKind     MediaKind `json:"mediaKind"`
	AllowsEditing bool      `json:"allowsEditing"`
	Aspect        Aspect    `json:"aspect"`
	// Quality is the JPEG compression quality in (0, 1].
	Quality float64 `json:"quality"`
}

// DefaultLaunchOptions returns images only, editable, square, quality 0.5.
func DefaultLaunchOptions() LaunchOptions {
	return LaunchOptions{
		MediaKind:     MediaKindImage,
		AllowsEditing: true,
		Aspect:        Aspect{W: 1, H: 1},
		Quality:       0.5,
	}
}

// Asset is media returned by a launcher.
type Asset struct {
	Path     string     `json:"path"`
	Name     string     `json:"name"`
	MimeType string     `json:"mimeType,omitempty"`
	Width    int        `json:"width,omitempty"`
	Height   int        `json:"height,omitempty"`
	Size     int64      `json:"size"`
	Source   Capability `json:"source"`
}

// Picker is the host picker API. A nil asset with a nil error means the user
// cancelled.
type Picker interface {
	LaunchCamera(ctx context.Context, opts LaunchOptions) (*Asset, error)
	LaunchLibrary(ctx context.Context, opts LaunchOptions) (*Asset, error)
}

// Launcher opens one native picker.
type Launcher interface {
	Launch(ctx context.Context, opts LaunchOptions) (*Asset, error)
}

// Launchers adapts one Launcher per capability to Picker.
type Launchers struct {
	Camera  Launcher
	Library Launcher
}

func (l Launchers) LaunchCamera(ctx context.Context, opts LaunchOptions) (*Asset, error) {
	if l.Camera == nil {
		return nil, fmt.Errorf("camera: %w", ErrUnavailable)
	}
	return l.Camera.Launch(ctx, opts)
}

func (l Launchers) LaunchLibrary(ctx context.Context, opts LaunchOptions) (*Asset, error) {
	if l.Library == nil {
		return nil, fmt.Errorf("library: %w", ErrUnavailable)
	}
	return l.Library.Launch(ctx, opts)
}
