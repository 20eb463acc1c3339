package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestDefaultLogConfig(t *testing.T) {
	cfg := DefaultLogConfig()
	if cfg.Level != LevelWarn {
		t.Errorf("default level = %d, want warn", cfg.Level)
	}
	if cfg.Output == nil {
		t.Error("default output is nil")
	}
}

func TestInitAndLevels(t *testing.T) {
	// Init is guarded by sync.Once, so this test owns the global logger
	// for the package. All output assertions live here.
	var buf bytes.Buffer
	Init(&LogConfig{Level: LevelDebug, Output: &buf, TimeFormat: "15:04:05"})

	L_debug("debug line")
	L_info("info line")
	L_warn("count mismatch", "got", 2, "want", 3)
	L_error("failed with %d retries", 5)

	out := buf.String()
	for _, want := range []string{"debug line", "info line", "count mismatch", "got=2", "failed with 5 retries"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	SetLevel(LevelError)
	L_info("suppressed")
	L_error("still visible")
	out = buf.String()
	if strings.Contains(out, "suppressed") {
		t.Errorf("info logged at error level:\n%s", out)
	}
	if !strings.Contains(out, "still visible") {
		t.Errorf("error missing at error level:\n%s", out)
	}
}

func TestHasFmtVerb(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"plain message", false},
		{"value is %d", true},
		{"100%% done", false},
		{"%s and %v", true},
		{"trailing %", false},
	}
	for _, c := range cases {
		if got := hasFmtVerb(c.in); got != c.want {
			t.Errorf("hasFmtVerb(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
