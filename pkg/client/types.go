package client

import "time"

// Status mirrors the JSON served at GET /status.
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

// Health is the body of a successful GET /healthz.
type Health struct {
	OK           bool      `json:"ok"`
	Cycle        int       `json:"cycle"`
	LastSampleAt time.Time `json:"last_sample_at"`
}

// ErrorResponse represents an error body returned by the status server
type ErrorResponse struct {
	Error string `json:"error"`
}
