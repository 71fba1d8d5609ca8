package detector

import (
	"errors"
	"fmt"

	gopsproc "github.com/shirou/gopsutil/v4/process"
)

// Process is one row of a process table snapshot.
type Process struct {
	PID  int32
	Name string
	Args []string
}

// Lister returns a snapshot of the running processes.
type Lister interface {
	Processes() ([]Process, error)
}

// ListerFunc adapts a plain function to Lister.
type ListerFunc func() ([]Process, error)

func (f ListerFunc) Processes() ([]Process, error) { return f() }

// SystemLister reads the OS process table through gopsutil.
// Processes that exit or deny access while the table is being read are skipped;
// only a failure to enumerate the table itself is reported.
type SystemLister struct{}

func (SystemLister) Processes() ([]Process, error) {
	procs, err := gopsproc.Processes()
	if err != nil {
		return nil, fmt.Errorf("failed to get process list: %w", err)
	}
	out := make([]Process, 0, len(procs))
	for _, p := range procs {
		name, err := p.Name()
		if err != nil {
			continue
		}
		args, err := p.CmdlineSlice()
		if err != nil {
			if errors.Is(err, gopsproc.ErrorProcessNotRunning) {
				continue
			}
			// cmdline of another user's process may be unreadable; keep the
			// name so a name-only spec can still match.
			args = nil
		}
		out = append(out, Process{PID: p.Pid, Name: name, Args: args})
	}
	return out, nil
}
