// Package presence turns repeated boolean samples into a stable on/off state
// and reports a transition only when the sampled value actually changes.
package presence

// State is the debounced presence of the watched process.
type State bool

const (
	Off State = false
	On  State = true
)

func (s State) String() string {
	if s == On {
		return "on"
	}
	return "off"
}

// Transition is emitted exactly once per change of State.
type Transition struct {
	TurnedOn bool
}

// To returns the state the transition leads to.
func (t Transition) To() State { return State(t.TurnedOn) }

func (t Transition) String() string { return t.To().String() }

// Next is the transition function. It returns the new state and whether a
// transition must be emitted. Repeating the current value never emits.
func Next(state State, sampled bool) (State, bool) {
	if State(sampled) == state {
		return state, false
	}
	return State(sampled), true
}

// Debouncer holds the current state between samples. The zero value starts Off.
// It is not safe for concurrent use; a single loop owns it.
type Debouncer struct {
	state State
}

func NewDebouncer() *Debouncer { return &Debouncer{state: Off} }

// Observe feeds one sample and reports the transition, if any.
func (d *Debouncer) Observe(sampled bool) (Transition, bool) {
	next, emit := Next(d.state, sampled)
	d.state = next
	if !emit {
		return Transition{}, false
	}
	return Transition{TurnedOn: next == On}, true
}

func (d *Debouncer) State() State { return d.state }
