package address

import (
	"sync"
	"time"
)

// Default debounce delays for postal code and city input.
const (
	CodeDebounce = 500 * time.Millisecond
	CityDebounce = 700 * time.Millisecond
)

// Debouncer runs the last function triggered for a key once no further
// trigger for that key arrived within the delay.
type Debouncer struct {
	mu      sync.Mutex
	timers  map[string]*time.Timer
	seq     map[string]uint64
	stopped bool
}

func NewDebouncer() *Debouncer {
	return &Debouncer{
		timers: make(map[string]*time.Timer),
		seq:    make(map[string]uint64),
	}
}

// Trigger schedules fn for key after delay, replacing any pending call for key.
func (d *Debouncer) Trigger(key string, delay time.Duration, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if t, ok := d.timers[key]; ok {
		t.Stop()
	}

	d.seq[key]++
	seq := d.seq[key]
	d.timers[key] = time.AfterFunc(delay, func() {
		d.mu.Lock()
		// A Stop that lost the race against the timer firing must still win.
		if d.stopped || d.seq[key] != seq {
			d.mu.Unlock()
			return
		}
		delete(d.timers, key)
		d.mu.Unlock()

		fn()
	})
}

// Cancel drops the pending call for key, if any.
func (d *Debouncer) Cancel(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if t, ok := d.timers[key]; ok {
		t.Stop()
		delete(d.timers, key)
	}
	d.seq[key]++
}

// Stop cancels every pending call. Later triggers are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	for key, t := range d.timers {
		t.Stop()
		delete(d.timers, key)
	}
}
