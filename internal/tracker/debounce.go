package tracker

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// debouncer coalesces bursts of mutations into a single save.
// Saves are serialized so an older snapshot never overwrites a newer one.
type debouncer struct {
	delay   time.Duration
	save    func(ctx context.Context) error
	timeout time.Duration
	logger  *slog.Logger

	mu      sync.Mutex
	timer   *time.Timer
	pending bool
	closed  bool

	saveMu sync.Mutex
}

func newDebouncer(delay time.Duration, save func(context.Context) error, logger *slog.Logger) *debouncer {
	return &debouncer{
		delay:   delay,
		save:    save,
		timeout: 10 * time.Second,
		logger:  logger,
	}
}

// Trigger marks state dirty and (re)arms the timer. With a zero delay the
// save runs synchronously.
func (d *debouncer) Trigger() {
	d.mu.Lock()
	d.pending = true
	if d.closed {
		d.mu.Unlock()
		return
	}
	if d.delay <= 0 {
		d.mu.Unlock()
		d.fire()
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fire)
	d.mu.Unlock()
}

func (d *debouncer) fire() {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	if err := d.run(ctx); err != nil {
		d.logger.Error("Debounced save failed", "error", err)
	}
}

func (d *debouncer) run(ctx context.Context) error {
	d.saveMu.Lock()
	defer d.saveMu.Unlock()

	d.mu.Lock()
	pending := d.pending
	d.pending = false
	d.mu.Unlock()

	if !pending {
		return nil
	}
	if err := d.save(ctx); err != nil {
		// Keep the state dirty so the next trigger or flush retries.
		d.mu.Lock()
		d.pending = true
		d.mu.Unlock()
		return err
	}
	return nil
}

// Flush cancels the timer and writes pending state now.
func (d *debouncer) Flush(ctx context.Context) error {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()
	return d.run(ctx)
}

// Close flushes and stops accepting new timers.
func (d *debouncer) Close(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	return d.Flush(ctx)
}

// Pending reports whether unsaved changes exist.
func (d *debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}
