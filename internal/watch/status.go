package watch

import (
	"sync"
	"time"

	"github.com/loykin/procpresence/internal/presence"
)

// Status is a point-in-time view of the watcher for reporting.
type Status struct {
	Process      string    `json:"process"`
	Detector     string    `json:"detector"`
	State        string    `json:"state"`
	Present      bool      `json:"present"`
	Cycle        int       `json:"cycle"`
	Restarts     int       `json:"restarts"`
	Samples      int64     `json:"samples"`
	LastSampleAt time.Time `json:"last_sample_at"`
	LastNotifyAt time.Time `json:"last_notify_at"`
	LastError    string    `json:"last_error,omitempty"`
	LastErrorAt  time.Time `json:"last_error_at"`
}

// Board publishes Status from the watch loop to concurrent readers. The loop
// remains the only writer; the debounced state itself stays loop-local.
type Board struct {
	mu sync.RWMutex
	st Status
}

func NewBoard(process, detector string) *Board {
	return &Board{st: Status{Process: process, Detector: detector, State: presence.Off.String()}}
}

func (b *Board) Snapshot() Status {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.st
}

func (b *Board) cycleStarted(n int) {
	b.mu.Lock()
	b.st.Cycle = n
	b.st.State = presence.Off.String()
	b.st.Present = false
	b.mu.Unlock()
}

func (b *Board) sampled(at time.Time) {
	b.mu.Lock()
	b.st.Samples++
	b.st.LastSampleAt = at
	b.mu.Unlock()
}

func (b *Board) stateChanged(s presence.State) {
	b.mu.Lock()
	b.st.State = s.String()
	b.st.Present = s == presence.On
	b.mu.Unlock()
}

func (b *Board) notified(at time.Time) {
	b.mu.Lock()
	b.st.LastNotifyAt = at
	b.mu.Unlock()
}

func (b *Board) failed(err error, restarts int, at time.Time) {
	b.mu.Lock()
	b.st.LastError = err.Error()
	b.st.LastErrorAt = at
	b.st.Restarts = restarts
	b.mu.Unlock()
}
