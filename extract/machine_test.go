package extract

import (
	"testing"
)

func runMachine(m *machine, input string) []event {
	var events []event
	for i := 0; i < len(input); i++ {
		if ev := m.step(input[i]); ev != noEvent {
			events = append(events, ev)
		}
	}
	return events
}

func TestMachineTransitions(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		state  state
		depth  int
		events []event
	}{
		{"object", `{"a":1}`, inArray, 0, []event{started, completed}},
		{"open object", `{"a":{`, inObject, 2, []event{started}},
		{"string at array level", `"}{`, inString, 0, nil},
		{"escape", `{"a\`, inEscape, 1, []event{started}},
		{"escaped quote", `{"a\"`, inString, 1, []event{started}},
		{"stray brace", `}}`, inArray, 0, nil},
		{"array closed", `{},]`, closed, 0, []event{started, completed}},
		{"nested array element", `[{}]`, inArray, 0, nil},
		{"bytes after close", `]{`, closed, 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &machine{state: inArray}
			events := runMachine(m, tt.input)
			if m.state != tt.state {
				t.Errorf("state: expected %s, got %s", tt.state, m.state)
			}
			if m.depth != tt.depth {
				t.Errorf("depth: expected %d, got %d", tt.depth, m.depth)
			}
			if len(events) != len(tt.events) {
				t.Fatalf("events: expected %v, got %v", tt.events, events)
			}
			for i := range events {
				if events[i] != tt.events[i] {
					t.Errorf("event %d: expected %v, got %v", i, tt.events[i], events[i])
				}
			}
		})
	}
}

func TestMachineSearchingIgnoresInput(t *testing.T) {
	m := &machine{}
	if events := runMachine(m, `{"nodes":[{}]}`); len(events) != 0 {
		t.Fatalf("unexpected events %v", events)
	}
	if m.state != searching || m.depth != 0 {
		t.Fatalf("machine moved: %s depth %d", m.state, m.depth)
	}
}

func TestStateNames(t *testing.T) {
	if inObject.String() != "inObject" || closed.String() != "closed" {
		t.Fatal("unexpected state names")
	}
}
