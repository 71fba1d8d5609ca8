package env

import (
	"strings"
	"testing"
)

func TestExpand(t *testing.T) {
	t.Setenv("PROCPRESENCE_TEST_HOST", "10.0.0.7")
	e := New()
	e.Set("PORT", "8080")

	cases := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"${PROCPRESENCE_TEST_HOST}:${PORT}", "10.0.0.7:8080"},
		{"/led/${MISSING}", "/led/${MISSING}"},
		{"${PORT", "${PORT"},
		{"${}", "${}"},
		{"a${PORT}b${PORT}c", "a8080b8080c"},
	}
	for _, tc := range cases {
		if got := e.Expand(tc.in); got != tc.want {
			t.Fatalf("Expand(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestOverrideWinsOverOS(t *testing.T) {
	t.Setenv("PROCPRESENCE_TEST_X", "os")
	e := New()
	e.Set("PROCPRESENCE_TEST_X", "override")
	if got := e.Expand("${PROCPRESENCE_TEST_X}"); got != "override" {
		t.Fatalf("got %q", got)
	}
}

func TestNoRecursiveExpansion(t *testing.T) {
	e := New()
	e.Set("A", "${B}")
	e.Set("B", "x")
	if got := e.Expand("${A}"); got != "${B}" {
		t.Fatalf("got %q", got)
	}
}

func TestExpandAll(t *testing.T) {
	e := New()
	e.Set("MODE", "fullscreen")
	args := []string{"-${MODE}", "-windowed"}
	e.ExpandAll(args)
	if args[0] != "-fullscreen" || args[1] != "-windowed" {
		t.Fatalf("got %v", args)
	}
}

func FuzzExpand(f *testing.F) {
	f.Add("${A}-x")
	f.Add("${A")
	f.Add("$${A}}")
	f.Fuzz(func(t *testing.T, s string) {
		e := New()
		e.Set("A", "1")
		out := e.Expand(s)
		if !strings.Contains(s, "${") && out != s {
			t.Fatalf("string without references changed: %q -> %q", s, out)
		}
	})
}
