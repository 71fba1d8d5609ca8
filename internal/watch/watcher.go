package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/loykin/procpresence/internal/detector"
	"github.com/loykin/procpresence/internal/metrics"
	"github.com/loykin/procpresence/internal/notifier"
	"github.com/loykin/procpresence/internal/presence"
)

// ErrSnapshot marks a failure to read the process table during a cycle.
var ErrSnapshot = errors.New("process snapshot failed")

// Options configures a Watcher. Detector and Notifier are required.
type Options struct {
	Detector      detector.Detector
	Notifier      notifier.Notifier
	Interval      time.Duration // pause between samples; 0 polls back to back
	NotifyOnStart bool          // send an explicit "off" before the first sample of a cycle
	Logger        *slog.Logger
	Board         *Board
}

// Watcher runs watch cycles: sample, debounce, notify, sleep.
type Watcher struct {
	det           detector.Detector
	notif         notifier.Notifier
	interval      time.Duration
	notifyOnStart bool
	logger        *slog.Logger
	board         *Board
}

func New(opts Options) (*Watcher, error) {
	if opts.Detector == nil {
		return nil, errors.New("watch: detector is required")
	}
	if opts.Notifier == nil {
		return nil, errors.New("watch: notifier is required")
	}
	if opts.Interval < 0 {
		return nil, fmt.Errorf("watch: negative interval %v", opts.Interval)
	}
	w := &Watcher{
		det:           opts.Detector,
		notif:         opts.Notifier,
		interval:      opts.Interval,
		notifyOnStart: opts.NotifyOnStart,
		logger:        opts.Logger,
		board:         opts.Board,
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}
	if w.board == nil {
		w.board = NewBoard("", opts.Detector.Describe())
	}
	return w, nil
}

func (w *Watcher) Board() *Board { return w.board }

// Run executes one watch cycle starting from Off with no history. It returns
// when the context is cancelled or when a sample or notification fails; the
// caller decides whether to start another cycle.
func (w *Watcher) Run(ctx context.Context) error {
	deb := presence.NewDebouncer()
	metrics.SetPresent(false)

	if w.notifyOnStart {
		if err := w.notify(ctx, presence.Transition{TurnedOn: false}); err != nil {
			return err
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		alive, err := w.det.Alive()
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrSnapshot, w.det.Describe(), err)
		}
		w.board.sampled(time.Now())
		metrics.ObserveSample(alive)

		if tr, changed := deb.Observe(alive); changed {
			w.logger.Info("presence changed", slog.String("state", tr.String()), slog.String("detector", w.det.Describe()))
			w.board.stateChanged(deb.State())
			metrics.SetPresent(tr.TurnedOn)
			metrics.RecordTransition(tr.TurnedOn)
			if err := w.notify(ctx, tr); err != nil {
				return err
			}
		}

		if err := sleepCtx(ctx, w.interval); err != nil {
			return err
		}
	}
}

func (w *Watcher) notify(ctx context.Context, tr presence.Transition) error {
	if err := w.notif.Notify(ctx, tr.TurnedOn); err != nil {
		return fmt.Errorf("notify %s: %w", tr, err)
	}
	w.board.notified(time.Now())
	return nil
}

// sleepCtx waits d or until ctx is done. An already cancelled ctx always
// wins, even when d is zero.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
