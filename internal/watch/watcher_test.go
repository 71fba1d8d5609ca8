package watch

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"reflect"
	"testing"
)

func newTestWatcher(t *testing.T, det *scriptDetector, n *recordingNotifier, notifyOnStart bool) *Watcher {
	t.Helper()
	w, err := New(Options{
		Detector:      det,
		Notifier:      n,
		NotifyOnStart: notifyOnStart,
		Logger:        slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return w
}

func TestRunEmitsOnThenOff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	det := &scriptDetector{samples: []bool{false, true, true, false}, cancel: cancel}
	n := &recordingNotifier{}
	w := newTestWatcher(t, det, n, false)

	err := w.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if got := n.Calls(); !reflect.DeepEqual(got, []bool{true, false}) {
		t.Fatalf("calls = %v, want [on off]", got)
	}
}

func TestRunContinuousPresenceNotifiesOnce(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	samples := make([]bool, 10)
	for i := range samples {
		samples[i] = true
	}
	det := &scriptDetector{samples: samples, cancel: cancel}
	n := &recordingNotifier{}
	w := newTestWatcher(t, det, n, false)

	_ = w.Run(ctx)
	if got := n.Calls(); !reflect.DeepEqual(got, []bool{true}) {
		t.Fatalf("calls = %v, want exactly one on", got)
	}
	st := w.Board().Snapshot()
	if !st.Present || st.State != "on" || st.Samples < 10 {
		t.Fatalf("unexpected board: %+v", st)
	}
}

func TestRunAbsentNeverNotifies(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	det := &scriptDetector{samples: []bool{false, false, false}, cancel: cancel}
	n := &recordingNotifier{}
	_ = newTestWatcher(t, det, n, false).Run(ctx)
	if got := n.Calls(); len(got) != 0 {
		t.Fatalf("no startup notification expected, got %v", got)
	}
}

func TestRunNotifyOnStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	det := &scriptDetector{samples: []bool{false, true}, cancel: cancel}
	n := &recordingNotifier{}
	_ = newTestWatcher(t, det, n, true).Run(ctx)
	if got := n.Calls(); !reflect.DeepEqual(got, []bool{false, true}) {
		t.Fatalf("calls = %v, want [off on]", got)
	}
}

func TestRunNotifyFailureEndsCycle(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	det := &scriptDetector{samples: []bool{true, false, true}, cancel: cancel}
	n := &recordingNotifier{fail: map[int]bool{0: true}}
	err := newTestWatcher(t, det, n, false).Run(ctx)
	if !errors.Is(err, errRelayDown) {
		t.Fatalf("expected notifier error, got %v", err)
	}
	if det.calls != 1 {
		t.Fatalf("cycle should stop at the failing sample, detector calls=%d", det.calls)
	}
}

func TestRunSnapshotFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	boom := errors.New("proc table unreadable")
	det := &scriptDetector{samples: []bool{true}, errs: map[int]error{0: boom}, cancel: cancel}
	err := newTestWatcher(t, det, &recordingNotifier{}, false).Run(ctx)
	if !errors.Is(err, ErrSnapshot) || !errors.Is(err, boom) {
		t.Fatalf("expected ErrSnapshot wrapping cause, got %v", err)
	}
}

func TestRunCancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	det := &scriptDetector{samples: []bool{true}, cancel: cancel}
	n := &recordingNotifier{}
	err := newTestWatcher(t, det, n, false).Run(ctx)
	if !errors.Is(err, context.Canceled) || det.calls != 0 || len(n.Calls()) != 0 {
		t.Fatalf("expected immediate return, err=%v samples=%d calls=%v", err, det.calls, n.Calls())
	}
}

func TestNewValidation(t *testing.T) {
	if _, err := New(Options{Notifier: &recordingNotifier{}}); err == nil {
		t.Fatalf("expected error without detector")
	}
	if _, err := New(Options{Detector: &scriptDetector{}}); err == nil {
		t.Fatalf("expected error without notifier")
	}
	if _, err := New(Options{Detector: &scriptDetector{}, Notifier: &recordingNotifier{}, Interval: -1}); err == nil {
		t.Fatalf("expected error for negative interval")
	}
}
