// Package perm holds the permission-gated media acquisition flow: a tracker
// for the last-known camera and media-library grants, and a controller that
// decides between launching, requesting, or showing a remediation notice.
package perm

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"gtd-cli/internal/platform"
)

var ErrUnknownCapability = errors.New("perm: unknown capability")

// Tracker holds the last-known PermissionState for each capability.
//
// States change only through Refresh and through the controller recording
// the result of a completed request. Before the first refresh both
// capabilities read as {granted: false, canAskAgain: false}.
type Tracker struct {
	mu      sync.RWMutex
	camera  platform.PermissionState
	library platform.PermissionState
}

func NewTracker() *Tracker {
	return &Tracker{}
}

func (t *Tracker) State(c platform.Capability) platform.PermissionState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	switch c {
	case platform.Camera:
		return t.camera
	case platform.MediaLibrary:
		return t.library
	default:
		return platform.PermissionState{}
	}
}

// Snapshot returns both states keyed by capability.
func (t *Tracker) Snapshot() map[platform.Capability]platform.PermissionState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return map[platform.Capability]platform.PermissionState{
		platform.Camera:       t.camera,
		platform.MediaLibrary: t.library,
	}
}

// Refresh queries the host for both grants, camera first. It is a one-shot
// read: nothing is polled or subscribed. A failed query is returned as is and
// leaves that capability's previous state in place.
func (t *Tracker) Refresh(ctx context.Context, p platform.Permissions) error {
	if p == nil {
		return errors.New("perm: nil permissions api")
	}

	cam, err := p.CameraPermission(ctx)
	if err != nil {
		return fmt.Errorf("refresh %s: %w", platform.Camera, err)
	}
	t.record(platform.Camera, cam)

	lib, err := p.MediaLibraryPermission(ctx)
	if err != nil {
		return fmt.Errorf("refresh %s: %w", platform.MediaLibrary, err)
	}
	t.record(platform.MediaLibrary, lib)
	return nil
}

func (t *Tracker) record(c platform.Capability, st platform.PermissionState) {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch c {
	case platform.Camera:
		t.camera = st
	case platform.MediaLibrary:
		t.library = st
	}
}
