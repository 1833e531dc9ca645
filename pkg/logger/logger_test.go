package logger

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestStandardLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewStandardLogger(log.New(&buf, "", 0))
	l.Info("hello %s", "world")
	l.Warning("careful %d", 1)
	l.Error("broken")
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"hello world", "careful 1", "broken"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	l.Info("ignored")
	l.Warning("ignored")
	l.Error("ignored")
	if err := l.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestMockLogger(t *testing.T) {
	m := NewMockLogger()
	m.Info("a %d", 1)
	m.Info("b")
	m.Warning("c")
	m.Error("d")
	if err := m.Close(); err != nil {
		t.Fatal(err)
	}
	if len(m.InfoCalls) != 2 || len(m.WarningCalls) != 1 || len(m.ErrorCalls) != 1 {
		t.Errorf("calls not recorded: %+v", m)
	}
	if !m.CloseCalled {
		t.Error("Close not recorded")
	}
}
