package watch

import (
	"context"
	"errors"
	"sync"
)

// scriptDetector replays samples; once the script is exhausted it cancels the
// context and keeps returning the last sample so no extra transition occurs.
type scriptDetector struct {
	mu      sync.Mutex
	samples []bool
	errs    map[int]error
	calls   int
	cancel  context.CancelFunc
}

func (d *scriptDetector) Alive() (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	i := d.calls
	d.calls++
	if err, ok := d.errs[i]; ok {
		return false, err
	}
	if i >= len(d.samples) {
		d.cancel()
		if len(d.samples) == 0 {
			return false, nil
		}
		return d.samples[len(d.samples)-1], nil
	}
	return d.samples[i], nil
}

func (d *scriptDetector) Describe() string { return "script" }

// recordingNotifier records every call and fails the calls listed in fail.
type recordingNotifier struct {
	mu    sync.Mutex
	calls []bool
	fail  map[int]bool
}

var errRelayDown = errors.New("relay down")

func (n *recordingNotifier) Notify(_ context.Context, turnedOn bool) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	i := len(n.calls)
	n.calls = append(n.calls, turnedOn)
	if n.fail[i] {
		return errRelayDown
	}
	return nil
}

func (n *recordingNotifier) Calls() []bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]bool(nil), n.calls...)
}
