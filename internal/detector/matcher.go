package detector

import "strings"

// Spec identifies the watched process: its executable name and the arguments
// that must all appear on its command line.
type Spec struct {
	Name              string   `json:"name" mapstructure:"name"`
	RequiredArguments []string `json:"required_arguments" mapstructure:"required_arguments"`
}

func (s Spec) String() string {
	if len(s.RequiredArguments) == 0 {
		return s.Name
	}
	return s.Name + " " + strings.Join(s.RequiredArguments, " ")
}

// Matches reports whether at least one process in procs has the spec name and
// carries every required argument as an exact element of its argument vector.
// Argument order is irrelevant. With no required arguments a name match suffices.
func Matches(procs []Process, spec Spec) bool {
	for _, p := range procs {
		if p.Name != spec.Name {
			continue
		}
		if hasAllArgs(p.Args, spec.RequiredArguments) {
			return true
		}
	}
	return false
}

func hasAllArgs(args, required []string) bool {
	if len(required) == 0 {
		return true
	}
	if len(args) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(args))
	for _, a := range args {
		set[a] = struct{}{}
	}
	for _, r := range required {
		if _, ok := set[r]; !ok {
			return false
		}
	}
	return true
}
