package platform

import (
	"context"
	"fmt"
	"strings"
)

// Capability is an OS-mediated permission domain.
type Capability string

const (
	Camera       Capability = "camera"
	MediaLibrary Capability = "media_library"
)

// Capabilities lists every capability in display order.
func Capabilities() []Capability {
	return []Capability{Camera, MediaLibrary}
}

// ParseCapability accepts the canonical names plus the short forms used on the
// command line ("library", "photos").
func ParseCapability(s string) (Capability, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "camera":
		return Camera, nil
	case "media_library", "media-library", "library", "photos":
		return MediaLibrary, nil
	default:
		return "", fmt.Errorf("invalid capability: %q (expected camera|library)", s)
	}
}

// PermissionState is the last-known grant for one capability.
type PermissionState struct {
	Granted     bool `json:"granted"`
	CanAskAgain bool `json:"canAskAgain"`
}

// Permissions is the host permission API.
//
// The query calls report the current grant without prompting. The request
// calls may show a prompt and block until the user answers or ctx is done.
type Permissions interface {
	CameraPermission(ctx context.Context) (PermissionState, error)
	MediaLibraryPermission(ctx context.Context) (PermissionState, error)
	RequestCameraPermission(ctx context.Context) (PermissionState, error)
	RequestMediaLibraryPermission(ctx context.Context) (PermissionState, error)
}

// Alerter presents a notice the user has to acknowledge.
type Alerter interface {
	ShowBlockingMessage(ctx context.Context, title string, body string)
}

// GrantStatus is the stored status of a capability on the desktop host.
type GrantStatus string

const (
	// StatusNotDetermined means the user has not been asked yet.
	StatusNotDetermined GrantStatus = "not_determined"
	StatusGranted       GrantStatus = "granted"
	// StatusDenied means the user declined; the app may ask again.
	StatusDenied GrantStatus = "denied"
	// StatusPermanentlyDenied means "don't ask again"; only settings can change it.
	StatusPermanentlyDenied GrantStatus = "permanently_denied"
	// StatusRestricted means policy prevents granting; no prompt is possible.
	StatusRestricted GrantStatus = "restricted"
)

func ParseGrantStatus(s string) (GrantStatus, error) {
	switch st := GrantStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusNotDetermined, StatusGranted, StatusDenied, StatusPermanentlyDenied, StatusRestricted:
		return st, nil
	case "":
		return StatusNotDetermined, nil
	default:
		return "", fmt.Errorf("invalid permission status: %q", s)
	}
}

// IsTerminal reports whether a request for this status returns without
// showing a prompt.
func (s GrantStatus) IsTerminal() bool {
	switch s {
	case StatusGranted, StatusPermanentlyDenied, StatusRestricted:
		return true
	default:
		return false
	}
}

// State maps a stored status onto the {granted, canAskAgain} pair.
func (s GrantStatus) State() PermissionState {
	switch s {
	case StatusGranted:
		return PermissionState{Granted: true, CanAskAgain: true}
	case StatusPermanentlyDenied, StatusRestricted:
		return PermissionState{Granted: false, CanAskAgain: false}
	default:
		return PermissionState{Granted: false, CanAskAgain: true}
	}
}
