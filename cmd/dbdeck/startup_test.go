package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestConnectSpinnerStages(t *testing.T) {
	m := newConnectSpinner()
	if !strings.Contains(m.View(), "Starting") {
		t.Fatalf("expected initial stage in view:\n%s", m.View())
	}

	next, cmd := m.Update(stageMsg("Connecting to sqlite"))
	if cmd != nil {
		t.Error("stage update should not schedule a command")
	}
	m = next.(connectSpinner)
	if !strings.Contains(m.View(), "Connecting to sqlite") {
		t.Errorf("expected stage text in view:\n%s", m.View())
	}

	next, cmd = m.Update(finishMsg{})
	if cmd == nil {
		t.Fatal("finish should quit the program")
	}
	if view := next.(connectSpinner).View(); view != "" {
		t.Errorf("expected empty view after finish, got %q", view)
	}
}

func TestStartupDisplayStopIsIdempotent(t *testing.T) {
	var out bytes.Buffer
	d := NewStartupDisplay(&out)
	d.Stage("Connecting")
	d.Stop()
	d.Stop()
	d.Stage("ignored after stop")
}

func TestIsTerminalRejectsBuffers(t *testing.T) {
	if isTerminal(&bytes.Buffer{}) {
		t.Error("a buffer is never a terminal")
	}
}
