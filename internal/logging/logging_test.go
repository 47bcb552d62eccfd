package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"trace", "trace"},
		{"debug", "debug"},
		{"info", "info"},
		{"warn", "warn"},
		{"warning", "warn"},
		{"error", "error"},
		{"  INFO  ", "info"},
		{"", "info"},
		{"nonsense", "info"},
	}
	for _, c := range cases {
		lvl := parseLevel(c.in)
		if strings.ToLower(lvl.String()) != c.want {
			t.Errorf("parseLevel(%q) = %q, want %q", c.in, lvl, c.want)
		}
	}
}

func TestNewWriter_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter("info", &buf)

	log.Debug().Msg("quiet-msg")
	log.Info().Msg("loud-msg")

	out := buf.String()
	if strings.Contains(out, "quiet-msg") {
		t.Errorf("debug message should be filtered at info level, got: %s", out)
	}
	if !strings.Contains(out, "loud-msg") {
		t.Errorf("info message missing from output: %s", out)
	}
}

func TestNamed_AddsComponentField(t *testing.T) {
	var buf bytes.Buffer
	log := Named(NewWriter("debug", &buf), "pipeline")

	log.Info().Msg("tagged")

	out := buf.String()
	if !strings.Contains(out, "component=") || !strings.Contains(out, "pipeline") {
		t.Errorf("expected component field in output, got: %s", out)
	}
}

func TestNamed_EmptyComponentIsPassthrough(t *testing.T) {
	var buf bytes.Buffer
	log := Named(NewWriter("debug", &buf), "")

	log.Info().Msg("plain")

	out := buf.String()
	if strings.Contains(out, "component=") {
		t.Errorf("expected no component field, got: %s", out)
	}
}
