package log

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestLevelsAndFields(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel(LevelInfo)
	t.Cleanup(func() { SetLevel(LevelInfo) })

	Debug("hidden", "k", 1)
	Info("window regenerated", "granularity", "month", "radius", 3)
	Error("fetch failed", errors.New("boom"), "id", "work")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug line should be filtered: %s", out)
	}
	for _, want := range []string{"window regenerated", "granularity=month", "radius=3", "fetch failed", "err=boom", "id=work"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output: %s", want, out)
		}
	}
}

func TestParseLevel(t *testing.T) {
	if l, ok := ParseLevel("DEBUG"); !ok || l != LevelDebug {
		t.Fatalf("expected debug, got %v %v", l, ok)
	}
	if _, ok := ParseLevel("loud"); ok {
		t.Fatalf("expected unknown level")
	}
}
