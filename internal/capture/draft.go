package capture

import (
	"context"
	"os"
	"sync"

	"gtd-cli/internal/platform"
)

// Draft queues acquired assets until the next item is submitted. It is the
// asset sink of the acquisition controller.
type Draft struct {
	mu     sync.Mutex
	assets []platform.Asset
}

func (d *Draft) AcceptAsset(ctx context.Context, a platform.Asset) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.assets = append(d.assets, a)
}

func (d *Draft) Pending() []platform.Asset {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]platform.Asset(nil), d.assets...)
}

func (d *Draft) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.assets)
}

// Remove drops the given assets (by path) once they were attached and deletes
// their temp files. Assets queued meanwhile stay.
func (d *Draft) Remove(done []platform.Asset) {
	if len(done) == 0 {
		return
	}
	gone := make(map[string]bool, len(done))
	for _, a := range done {
		gone[a.Path] = true
	}
	d.mu.Lock()
	kept := d.assets[:0]
	for _, a := range d.assets {
		if !gone[a.Path] {
			kept = append(kept, a)
		}
	}
	d.assets = kept
	d.mu.Unlock()
	for p := range gone {
		_ = os.Remove(p)
	}
}

// Discard drops every pending asset and deletes their temp files.
func (d *Draft) Discard() int {
	d.mu.Lock()
	assets := d.assets
	d.assets = nil
	d.mu.Unlock()
	for _, a := range assets {
		_ = os.Remove(a.Path)
	}
	return len(assets)
}
