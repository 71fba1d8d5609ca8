package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// FuzzLoadJSON builds a config from arbitrary field values and checks that
// Load never panics and only accepts documents that pass Validate.
func FuzzLoadJSON(f *testing.F) {
	f.Add("game.exe", "-fullscreen", "192.168.1.40", "/on", "/off", 5)
	f.Add("", "", "", "", "", -1)
	f.Add("x", "", "h:1", "/a", "", 0)

	f.Fuzz(func(t *testing.T, name, arg, ip, on, off string, sleep int) {
		doc := map[string]any{
			"process":        map[string]any{"name": name, "required_arguments": []string{arg}},
			"remote":         map[string]any{"ip": ip, "route_on": on, "route_off": off},
			"sleep_time_sec": sleep,
		}
		b, err := json.Marshal(doc)
		if err != nil {
			t.Skip()
		}
		p := filepath.Join(t.TempDir(), "fuzz.json")
		if err := os.WriteFile(p, b, 0o644); err != nil {
			t.Skip()
		}
		c, err := Load(p)
		if err != nil {
			return
		}
		if c.Validate() != nil {
			t.Fatalf("Load accepted a config that fails Validate: %+v", c)
		}
	})
}
