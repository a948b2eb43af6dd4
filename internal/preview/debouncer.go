package preview

import (
	"context"
	"sync"
	"time"

	ferrors "git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
)

// DebouncerConfig tunes how change notifications are coalesced.
type DebouncerConfig struct {
	QuietWindow time.Duration
	MaxDelay    time.Duration
}

// Trigger asks for one rebuild covering every change since the last one.
type Trigger struct {
	Changes int
	Last    string
	Cause   string // quiet | max_delay
}

// Debouncer coalesces bursts of change notifications into single rebuild
// triggers. A trigger fires once no change arrived for QuietWindow, or
// MaxDelay after the first change of a burst, whichever comes first.
type Debouncer struct {
	cfg      DebouncerConfig
	requests chan string
	out      chan Trigger

	mu      sync.Mutex
	pending bool
	count   int
	last    string
}

// NewDebouncer validates cfg and creates an idle debouncer.
func NewDebouncer(cfg DebouncerConfig) (*Debouncer, error) {
	if cfg.QuietWindow <= 0 {
		return nil, ferrors.NewError(ferrors.CategoryValidation, "quiet window must be > 0").Build()
	}
	if cfg.MaxDelay <= 0 {
		return nil, ferrors.NewError(ferrors.CategoryValidation, "max delay must be > 0").Build()
	}
	return &Debouncer{cfg: cfg, requests: make(chan string, 64), out: make(chan Trigger, 1)}, nil
}

// Notify records a change. It never blocks; changes beyond the buffer are
// folded into the pending trigger anyway.
func (d *Debouncer) Notify(path string) {
	select {
	case d.requests <- path:
	default:
		d.onRequest(path)
	}
}

// Triggers delivers coalesced rebuild requests. At most one is buffered.
func (d *Debouncer) Triggers() <-chan Trigger { return d.out }

// Run processes notifications until ctx is done.
func (d *Debouncer) Run(ctx context.Context) {
	quietTimer := newStoppedTimer()
	maxTimer := newStoppedTimer()
	var quietC, maxC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			quietTimer.Stop()
			maxTimer.Stop()
			return
		case path := <-d.requests:
			first := d.onRequest(path)
			resetTimer(quietTimer, d.cfg.QuietWindow)
			quietC = quietTimer.C
			if first {
				resetTimer(maxTimer, d.cfg.MaxDelay)
				maxC = maxTimer.C
			}
		case <-quietC:
			d.emit("quiet")
			quietC, maxC = nil, nil
		case <-maxC:
			d.emit("max_delay")
			quietC, maxC = nil, nil
		}
	}
}

// onRequest reports whether path starts a new burst.
func (d *Debouncer) onRequest(path string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	first := !d.pending
	if first {
		d.pending = true
		d.count = 0
	}
	d.count++
	d.last = path
	return first
}

func (d *Debouncer) emit(cause string) {
	d.mu.Lock()
	if !d.pending {
		d.mu.Unlock()
		return
	}
	t := Trigger{Changes: d.count, Last: d.last, Cause: cause}
	d.pending = false
	d.mu.Unlock()

	select {
	case d.out <- t:
	default:
		// A trigger is already waiting; it will pick up these changes.
	}
}

func newStoppedTimer() *time.Timer {
	t := time.NewTimer(time.Hour)
	if !t.Stop() {
		<-t.C
	}
	return t
}

func resetTimer(t *time.Timer, after time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(after)
}
