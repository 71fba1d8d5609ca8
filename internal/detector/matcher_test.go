package detector

import "testing"

func TestMatches(t *testing.T) {
	procs := []Process{
		{PID: 1, Name: "init"},
		{PID: 20, Name: "game.exe", Args: []string{"game.exe", "-windowed"}},
		{PID: 21, Name: "game.exe", Args: []string{"game.exe", "-fullscreen", "-novid"}},
		{PID: 30, Name: "player", Args: []string{"player", "--fullscreen-ish"}},
	}
	cases := []struct {
		name string
		spec Spec
		want bool
	}{
		{"name only", Spec{Name: "init"}, true},
		{"unknown name", Spec{Name: "nope"}, false},
		{"second duplicate matches", Spec{Name: "game.exe", RequiredArguments: []string{"-fullscreen"}}, true},
		{"order insensitive", Spec{Name: "game.exe", RequiredArguments: []string{"-novid", "-fullscreen"}}, true},
		{"args split across duplicates", Spec{Name: "game.exe", RequiredArguments: []string{"-windowed", "-novid"}}, false},
		{"exact element not substring", Spec{Name: "player", RequiredArguments: []string{"--fullscreen"}}, false},
		{"no args never matches required", Spec{Name: "init", RequiredArguments: []string{"-x"}}, false},
		{"argv0 counts as an element", Spec{Name: "player", RequiredArguments: []string{"player"}}, true},
		{"arg on wrong name", Spec{Name: "init", RequiredArguments: []string{"-fullscreen"}}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Matches(procs, tc.spec); got != tc.want {
				t.Fatalf("Matches(%v) = %v, want %v", tc.spec, got, tc.want)
			}
		})
	}
}

func TestMatchesEmptySnapshot(t *testing.T) {
	if Matches(nil, Spec{Name: "game.exe"}) {
		t.Fatalf("empty process list must not match")
	}
}

func TestMatchesDuplicateRequiredArgs(t *testing.T) {
	procs := []Process{{Name: "a", Args: []string{"a", "-x"}}}
	if !Matches(procs, Spec{Name: "a", RequiredArguments: []string{"-x", "-x"}}) {
		t.Fatalf("required args are a set; duplicates should still match")
	}
}

func TestSpecString(t *testing.T) {
	if s := (Spec{Name: "a"}).String(); s != "a" {
		t.Fatalf("unexpected %q", s)
	}
	if s := (Spec{Name: "a", RequiredArguments: []string{"-x", "-y"}}).String(); s != "a -x -y" {
		t.Fatalf("unexpected %q", s)
	}
}
