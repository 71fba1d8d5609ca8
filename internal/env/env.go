package env

import (
	"os"
	"strings"
)

type Var map[string]string

// Env resolves ${VAR} references in config strings. Explicit variables set
// with Set take precedence over the OS environment.
type Env struct {
	Var Var // overrides (K->V)
	env Var // cached base from OS environment
}

func New() *Env {
	return &Env{
		Var: make(Var),
	}
}

// FromOS caches the current process environment as the base.
func (e *Env) FromOS() {
	base := make(Var)
	for _, kv := range os.Environ() {
		if i := strings.IndexByte(kv, '='); i >= 0 {
			k := kv[:i]
			v := kv[i+1:]
			if k == "" {
				continue
			}
			base[k] = v
		}
	}
	e.env = base
}

// Set sets an override K=V.
func (e *Env) Set(k, v string) {
	if e.Var == nil {
		e.Var = make(Var)
	}
	e.Var[k] = v
}

// Lookup returns the override for k, falling back to the cached OS environment.
func (e *Env) Lookup(k string) (string, bool) {
	if v, ok := e.Var[k]; ok {
		return v, true
	}
	if e.env == nil {
		e.FromOS()
	}
	v, ok := e.env[k]
	return v, ok
}

// Expand replaces every ${NAME} in s with its value. Unknown names and
// unterminated references are left untouched. Substituted values are not
// expanded again.
func (e *Env) Expand(s string) string {
	if !strings.Contains(s, "${") {
		return s
	}
	var b strings.Builder
	for {
		i := strings.Index(s, "${")
		if i < 0 {
			b.WriteString(s)
			return b.String()
		}
		j := strings.IndexByte(s[i+2:], '}')
		if j < 0 {
			b.WriteString(s)
			return b.String()
		}
		name := s[i+2 : i+2+j]
		b.WriteString(s[:i])
		if v, ok := e.Lookup(name); ok && name != "" {
			b.WriteString(v)
		} else {
			b.WriteString(s[i : i+3+j])
		}
		s = s[i+3+j:]
	}
}

// ExpandAll expands each element of ss in place.
func (e *Env) ExpandAll(ss []string) {
	for i := range ss {
		ss[i] = e.Expand(ss[i])
	}
}
