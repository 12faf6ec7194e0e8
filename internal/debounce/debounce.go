// Package debounce coalesces bursts of events per key.
package debounce

import (
	"sync"
	"time"
)

type pending struct {
	timer *time.Timer
	gen   uint64
}

// Debouncer runs the most recent function queued for a key once that key has been quiet
// for the wait window.
type Debouncer struct {
	wait    time.Duration
	mu      sync.Mutex
	pending map[string]*pending
	stopped bool
}

// New creates a debouncer with the given quiescence window.
func New(wait time.Duration) *Debouncer {
	return &Debouncer{wait: wait, pending: make(map[string]*pending)}
}

// Trigger schedules fn for key, replacing and restarting anything already waiting.
func (d *Debouncer) Trigger(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	p := d.pending[key]
	if p == nil {
		p = &pending{}
		d.pending[key] = p
	} else if p.timer != nil {
		p.timer.Stop()
	}
	p.gen++
	gen := p.gen
	p.timer = time.AfterFunc(d.wait, func() {
		d.mu.Lock()
		current, ok := d.pending[key]
		if !ok || current.gen != gen {
			// superseded after the timer had already fired
			d.mu.Unlock()
			return
		}
		delete(d.pending, key)
		d.mu.Unlock()
		fn()
	})
}

// Pending returns how many keys are waiting to fire.
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// Cancel drops anything waiting for key.
func (d *Debouncer) Cancel(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if p, ok := d.pending[key]; ok {
		p.timer.Stop()
		delete(d.pending, key)
	}
}

// Stop cancels everything and ignores later triggers.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	for key, p := range d.pending {
		p.timer.Stop()
		delete(d.pending, key)
	}
}
