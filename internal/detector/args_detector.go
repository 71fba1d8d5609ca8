package detector

import "errors"

var ErrNoLister = errors.New("detector has no process lister")

// ArgsDetector detects the process by scanning the process table for a name and
// required command-line arguments.
type ArgsDetector struct {
	Spec   Spec
	Lister Lister
}

// NewArgsDetector returns an ArgsDetector reading the OS process table.
func NewArgsDetector(spec Spec) ArgsDetector {
	return ArgsDetector{Spec: spec, Lister: SystemLister{}}
}

func (d ArgsDetector) Alive() (bool, error) {
	if d.Lister == nil {
		return false, ErrNoLister
	}
	procs, err := d.Lister.Processes()
	if err != nil {
		return false, err
	}
	return Matches(procs, d.Spec), nil
}

func (d ArgsDetector) Describe() string { return "args:" + d.Spec.String() }
