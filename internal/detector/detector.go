package detector

// Detector is a strategy that determines if the watched process is running.
// Implementations take a fresh look at the system on every call.
type Detector interface {
	// Alive returns true if the process is detected as running.
	Alive() (bool, error)
	// Describe returns a human-readable description of the detection method.
	Describe() string
}
