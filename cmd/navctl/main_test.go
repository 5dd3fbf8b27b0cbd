package main

import (
	"bytes"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/taskfoo/taskfoo-bot/internal/action"
	"github.com/taskfoo/taskfoo-bot/internal/navigate"
	"github.com/taskfoo/taskfoo-bot/internal/server"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func startServer(t *testing.T, token string) *httptest.Server {
	t.Helper()
	table, err := navigate.NewTable(navigate.DefaultEntries(), navigate.StrategyFirst)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	reg, err := action.NewRegistry(navigate.NewActionNavigatePage(table))
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	s := server.New(server.Config{AuthToken: token}, action.NewExecutor(reg, nil), nil)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestResolveCmd(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"match", []string{"resolve", "open", "the", "Gantt", "Chart"}, "-> /gantt (phrase \"gantt\""},
		{"no match", []string{"resolve", "hello"}, "no match"},
		{"first match flaw", []string{"resolve", "go to dashboard"}, "-> /board"},
		{"longest", []string{"resolve", "--match", "longest", "go to dashboard"}, "-> /dashboard"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, "", tt.args...)
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output = %q, want substring %q", out, tt.want)
			}
		})
	}
}

func TestResolveCmd_ConfigTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
instance:
  id: test
navigation:
  routes:
    - phrase: Inbox
      route: /inbox
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	out, err := execute(t, "", "resolve", "--config", path, "open my INBOX")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out, "-> /inbox") {
		t.Errorf("output = %q, want /inbox", out)
	}
}

func TestRoutesCmd(t *testing.T) {
	out, err := execute(t, "", "routes")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	for _, want := range []string{"board", "/users/new", "shadowed under first-match", `"dashboard" (entry 3) behind "board" (entry 0)`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCallCmd(t *testing.T) {
	ts := startServer(t, "tok")

	out, err := execute(t, "", "call", "--url", ts.URL, "--token", "tok", "Open", "BOARD")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	want := `Opening /board… {"route":"/board","type":"navigate"}`
	if strings.TrimSpace(out) != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestCallCmd_Unauthorized(t *testing.T) {
	ts := startServer(t, "tok")

	if _, err := execute(t, "", "call", "--url", ts.URL, "--token", "", "board"); err == nil {
		t.Error("expected error without token")
	}
}

func TestStreamCmd(t *testing.T) {
	ts := startServer(t, "")

	out, err := execute(t, "open board\n\nwhat now\n", "stream", "--url", ts.URL)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "Opening /board…") {
		t.Errorf("line 0 = %q, want navigation", lines[0])
	}
	if !strings.HasPrefix(lines[1], "Tell me which page to open") {
		t.Errorf("line 1 = %q, want clarification", lines[1])
	}
}

func TestSocketURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"http://localhost:5055", "ws://localhost:5055/webhook/ws", false},
		{"https://bot.example.com/", "wss://bot.example.com/webhook/ws", false},
		{"ws://localhost:5055/webhook/ws", "ws://localhost:5055/webhook/ws", false},
		{"ftp://x", "", true},
	}

	for _, tt := range tests {
		got, err := socketURL(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("socketURL(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("socketURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
