package watcher

import (
	"sync"
	"time"
)

// debouncer coalesces raw events into batches. The first event after an
// empty window arms a timer; every event arriving before it fires joins the
// same batch, in arrival order. Batches are delivered one at a time from the
// timer goroutine, so delivery is FIFO and never concurrent with itself.
type debouncer struct {
	mu      sync.Mutex
	window  time.Duration
	pending []RawEvent
	timer   *time.Timer
	deliver func([]RawEvent)
}

func newDebouncer(window time.Duration, deliver func([]RawEvent)) *debouncer {
	return &debouncer{
		window:  window,
		deliver: deliver,
	}
}

// add appends one raw event to the pending batch, arming the flush timer if
// this is the first event of the window.
func (d *debouncer) add(ev RawEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending = append(d.pending, ev)
	if d.timer == nil {
		d.timer = time.AfterFunc(d.window, d.fire)
	}
}

func (d *debouncer) fire() {
	d.mu.Lock()
	batch := d.pending
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()

	if len(batch) > 0 {
		d.deliver(batch)
	}
}

// flush delivers any pending batch immediately, synchronously. Used on
// shutdown so buffered events are not dropped.
func (d *debouncer) flush() {
	d.mu.Lock()
	if d.timer != nil {
		if !d.timer.Stop() {
			// Timer already fired; let it deliver rather than doing so twice.
			d.mu.Unlock()
			return
		}
		d.timer = nil
	}
	batch := d.pending
	d.pending = nil
	d.mu.Unlock()

	if len(batch) > 0 {
		d.deliver(batch)
	}
}

// stop discards pending events without delivering them.
func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = nil
}
