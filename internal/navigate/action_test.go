package navigate

import (
	"context"
	"sync"
	"testing"

	"github.com/taskfoo/taskfoo-bot/internal/action"
	"github.com/taskfoo/taskfoo-bot/internal/config"
	"github.com/taskfoo/taskfoo-bot/internal/model"
)

type memRecorder struct {
	mu     sync.Mutex
	events []model.NavigationEvent
}

func (r *memRecorder) Record(e model.NavigationEvent) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func runAction(t *testing.T, a *ActionNavigatePage, tracker *action.Tracker) ([]action.Event, []action.Message) {
	t.Helper()
	d := action.NewCollectingDispatcher()
	events, err := a.Run(context.Background(), d, tracker, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return events, d.Messages()
}

func textTracker(text any) *action.Tracker {
	return &action.Tracker{
		SenderID:      "user-1",
		LatestMessage: map[string]any{"text": text},
	}
}

func TestActionNavigatePage_Name(t *testing.T) {
	a := NewActionNavigatePage(defaultTable(t, StrategyFirst))
	if a.Name() != "action_navigate_page" {
		t.Errorf("Name() = %q, want action_navigate_page", a.Name())
	}
}

func TestActionNavigatePage_Navigate(t *testing.T) {
	a := NewActionNavigatePage(defaultTable(t, StrategyFirst))

	events, msgs := runAction(t, a, textTracker("Open the Board"))

	if events == nil || len(events) != 0 {
		t.Errorf("events = %v, want empty list", events)
	}
	if len(msgs) != 1 {
		t.Fatalf("len(messages) = %d, want 1", len(msgs))
	}
	if msgs[0].Text != "Opening /board…" {
		t.Errorf("Text = %q, want %q", msgs[0].Text, "Opening /board…")
	}
	if msgs[0].Custom["type"] != "navigate" {
		t.Errorf("Custom[type] = %v, want navigate", msgs[0].Custom["type"])
	}
	if msgs[0].Custom["route"] != "/board" {
		t.Errorf("Custom[route] = %v, want /board", msgs[0].Custom["route"])
	}
}

func TestActionNavigatePage_GanttChart(t *testing.T) {
	a := NewActionNavigatePage(defaultTable(t, StrategyFirst))

	_, msgs := runAction(t, a, textTracker("show the gantt chart"))
	if msgs[0].Custom["route"] != "/gantt" {
		t.Errorf("Custom[route] = %v, want /gantt", msgs[0].Custom["route"])
	}
}

func TestActionNavigatePage_Clarify(t *testing.T) {
	a := NewActionNavigatePage(defaultTable(t, StrategyFirst))

	tests := []struct {
		name    string
		tracker *action.Tracker
	}{
		{"no phrase", textTracker("what's the weather")},
		{"empty text", textTracker("")},
		{"null text", textTracker(nil)},
		{"non-string text", textTracker(12.5)},
		{"no latest message", &action.Tracker{SenderID: "user-1"}},
		{"nil tracker", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, msgs := runAction(t, a, tt.tracker)
			if len(events) != 0 {
				t.Errorf("events = %v, want empty", events)
			}
			if len(msgs) != 1 {
				t.Fatalf("len(messages) = %d, want 1", len(msgs))
			}
			if msgs[0].Text != config.DefaultClarifyText {
				t.Errorf("Text = %q, want %q", msgs[0].Text, config.DefaultClarifyText)
			}
			if len(msgs[0].Custom) != 0 {
				t.Errorf("Custom = %v, want no navigation payload", msgs[0].Custom)
			}
		})
	}
}

func TestActionNavigatePage_CustomMessages(t *testing.T) {
	a := NewActionNavigatePage(
		defaultTable(t, StrategyFirst),
		WithMessages("Going to {route}", "Which page?"),
	)

	_, msgs := runAction(t, a, textTracker("epics"))
	if msgs[0].Text != "Going to /epics" {
		t.Errorf("Text = %q, want %q", msgs[0].Text, "Going to /epics")
	}

	_, msgs = runAction(t, a, textTracker("nothing"))
	if msgs[0].Text != "Which page?" {
		t.Errorf("Text = %q, want %q", msgs[0].Text, "Which page?")
	}
}

func TestActionNavigatePage_Records(t *testing.T) {
	rec := &memRecorder{}
	a := NewActionNavigatePage(defaultTable(t, StrategyFirst), WithRecorder(rec))

	runAction(t, a, textTracker("AUDIT"))
	runAction(t, a, textTracker("hi"))

	if len(rec.events) != 2 {
		t.Fatalf("recorded %d events, want 2", len(rec.events))
	}

	first := rec.events[0]
	if !first.Matched || first.Route != "/audit" || first.Phrase != "audit" {
		t.Errorf("events[0] = %+v, want matched /audit", first)
	}
	if first.Utterance != "AUDIT" {
		t.Errorf("events[0].Utterance = %q, want raw text AUDIT", first.Utterance)
	}
	if first.SenderID != "user-1" {
		t.Errorf("events[0].SenderID = %q, want user-1", first.SenderID)
	}

	if rec.events[1].Matched {
		t.Errorf("events[1].Matched = true, want false")
	}
}

func TestActionNavigatePage_ThroughExecutor(t *testing.T) {
	reg, err := action.NewRegistry(NewActionNavigatePage(defaultTable(t, StrategyFirst)))
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	exec := action.NewExecutor(reg, nil)

	resp, err := exec.Run(context.Background(), action.Call{
		NextAction: ActionName,
		SenderID:   "user-2",
		Tracker:    textTracker("users"),
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(resp.Responses) != 1 || resp.Responses[0].Custom["route"] != "/users" {
		t.Errorf("Responses = %+v, want one /users navigation", resp.Responses)
	}
}
