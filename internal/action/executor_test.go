package action

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

type echoAction struct {
	name string
	err  error
}

func (a echoAction) Name() string { return a.name }

func (a echoAction) Run(_ context.Context, d Dispatcher, tr *Tracker, _ Domain) ([]Event, error) {
	if a.err != nil {
		return nil, a.err
	}
	d.UtterMessage(Message{Text: "echo: " + tr.LatestText()})
	return nil, nil
}

func TestTracker_LatestText(t *testing.T) {
	tests := []struct {
		name    string
		tracker *Tracker
		want    string
	}{
		{name: "nil tracker", tracker: nil, want: ""},
		{name: "no latest message", tracker: &Tracker{}, want: ""},
		{name: "missing text", tracker: &Tracker{LatestMessage: map[string]any{"intent": "x"}}, want: ""},
		{name: "null text", tracker: &Tracker{LatestMessage: map[string]any{"text": nil}}, want: ""},
		{name: "non-string text", tracker: &Tracker{LatestMessage: map[string]any{"text": 42.0}}, want: ""},
		{name: "text", tracker: &Tracker{LatestMessage: map[string]any{"text": "Open Board"}}, want: "Open Board"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tracker.LatestText(); got != tt.want {
				t.Errorf("LatestText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCollectingDispatcher_FillsEmptyCollections(t *testing.T) {
	d := NewCollectingDispatcher()
	d.UtterMessage(Message{Text: "hi"})

	msgs := d.Messages()
	if len(msgs) != 1 {
		t.Fatalf("len(Messages()) = %d, want 1", len(msgs))
	}

	data, err := json.Marshal(msgs[0])
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"text":"hi","buttons":[],"elements":[],"custom":{},"response":null,"image":null,"attachment":null}`
	if string(data) != want {
		t.Errorf("wire form = %s, want %s", data, want)
	}
}

func TestRegistry_Duplicate(t *testing.T) {
	_, err := NewRegistry(echoAction{name: "a"}, echoAction{name: "a"})
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("NewRegistry() error = %v, want ErrDuplicate", err)
	}
}

func TestRegistry_Names(t *testing.T) {
	r, err := NewRegistry(echoAction{name: "b"}, echoAction{name: "a"})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	names := r.Names()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("Names() = %v, want [a b]", names)
	}
}

func TestExecutor_Run(t *testing.T) {
	r, _ := NewRegistry(echoAction{name: "action_echo"})
	e := NewExecutor(r, nil)

	resp, err := e.Run(context.Background(), Call{
		NextAction: "action_echo",
		SenderID:   "user-1",
		Tracker:    &Tracker{LatestMessage: map[string]any{"text": "hello"}},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if resp.Events == nil || len(resp.Events) != 0 {
		t.Errorf("Events = %v, want empty non-nil slice", resp.Events)
	}
	if len(resp.Responses) != 1 {
		t.Fatalf("len(Responses) = %d, want 1", len(resp.Responses))
	}
	if resp.Responses[0].Text != "echo: hello" {
		t.Errorf("Responses[0].Text = %q, want %q", resp.Responses[0].Text, "echo: hello")
	}
}

func TestExecutor_Run_NilTracker(t *testing.T) {
	r, _ := NewRegistry(echoAction{name: "action_echo"})
	e := NewExecutor(r, nil)

	resp, err := e.Run(context.Background(), Call{NextAction: "action_echo", SenderID: "user-1"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if resp.Responses[0].Text != "echo: " {
		t.Errorf("Responses[0].Text = %q, want %q", resp.Responses[0].Text, "echo: ")
	}
}

func TestExecutor_Run_Errors(t *testing.T) {
	r, _ := NewRegistry(echoAction{name: "action_reject", err: Reject("not now")})
	e := NewExecutor(r, nil)

	tests := []struct {
		name    string
		call    Call
		wantErr error
		wantMsg string
	}{
		{
			name:    "missing next_action",
			call:    Call{},
			wantErr: ErrInvalidCall,
			wantMsg: "invalid action call: next_action is required",
		},
		{
			name:    "unknown action",
			call:    Call{NextAction: "action_missing"},
			wantErr: ErrActionNotFound,
			wantMsg: "No registered action found for name 'action_missing'.",
		},
		{
			name:    "rejected",
			call:    Call{NextAction: "action_reject"},
			wantErr: ErrRejected,
			wantMsg: "action rejected execution: not now",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Run(context.Background(), tt.call)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Run() error = %v, want %v", err, tt.wantErr)
			}
			var ae *ActionError
			if !errors.As(err, &ae) {
				t.Fatalf("Run() error type = %T, want *ActionError", err)
			}
			if body := ae.Body(); body.Error != tt.wantMsg {
				t.Errorf("Body().Error = %q, want %q", body.Error, tt.wantMsg)
			}
		})
	}
}

func TestExecutor_Actions(t *testing.T) {
	r, _ := NewRegistry(echoAction{name: "action_echo"})
	e := NewExecutor(r, nil)

	infos := e.Actions()
	if len(infos) != 1 || infos[0].Name != "action_echo" {
		t.Errorf("Actions() = %v, want [{action_echo}]", infos)
	}
}
