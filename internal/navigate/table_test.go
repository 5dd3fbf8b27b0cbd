package navigate

import (
	"testing"

	"github.com/taskfoo/taskfoo-bot/internal/config"
)

func defaultTable(t *testing.T, strategy Strategy) *Table {
	t.Helper()
	table, err := NewTable(DefaultEntries(), strategy)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	return table
}

func TestTable_Resolve_First(t *testing.T) {
	table := defaultTable(t, StrategyFirst)

	tests := []struct {
		utterance string
		wantRoute string
		wantOK    bool
	}{
		{"open the board", "/board", true},
		{"BOARD", "/board", true},
		{"Board please", "/board", true},
		{"show me the gantt chart", "/gantt", true},
		{"gantt", "/gantt", true},
		{"go to tasks", "/tasks", true},
		{"task list", "/tasks", true},
		{"create a new task", "/tasks/new", true},
		{"new project", "/projects/new", true},
		{"all projects", "/projects", true},
		{"new epic", "/epics/new", true},
		{"list epics", "/epics", true},
		{"new user", "/users/new", true},
		{"manage users", "/users", true},
		{"audit log", "/audit", true},
		// "dashboard" contains "board", which comes first in the table.
		{"go to dashboard", "/board", true},
		// "new tasks" contains "tasks" ahead of "new task".
		{"new tasks", "/tasks", true},
		{"hello there", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.utterance, func(t *testing.T) {
			m, ok := table.Resolve(tt.utterance)
			if ok != tt.wantOK {
				t.Fatalf("Resolve(%q) ok = %v, want %v", tt.utterance, ok, tt.wantOK)
			}
			if m.Route != tt.wantRoute {
				t.Errorf("Resolve(%q) route = %q, want %q", tt.utterance, m.Route, tt.wantRoute)
			}
		})
	}
}

func TestTable_Resolve_CaseInsensitive(t *testing.T) {
	table := defaultTable(t, StrategyFirst)

	lower, ok1 := table.Resolve("board")
	upper, ok2 := table.Resolve("BOARD")
	if !ok1 || !ok2 {
		t.Fatalf("Resolve ok = %v/%v, want true/true", ok1, ok2)
	}
	if lower != upper {
		t.Errorf("Resolve(BOARD) = %+v, want %+v", upper, lower)
	}
}

func TestTable_Resolve_Longest(t *testing.T) {
	table := defaultTable(t, StrategyLongest)

	tests := []struct {
		utterance  string
		wantRoute  string
		wantPhrase string
	}{
		{"go to dashboard", "/dashboard", "dashboard"},
		{"gantt chart", "/gantt", "gantt chart"},
		{"open board", "/board", "board"},
		{"new tasks", "/tasks/new", "new task"},
	}

	for _, tt := range tests {
		t.Run(tt.utterance, func(t *testing.T) {
			m, ok := table.Resolve(tt.utterance)
			if !ok {
				t.Fatalf("Resolve(%q) ok = false", tt.utterance)
			}
			if m.Route != tt.wantRoute {
				t.Errorf("Route = %q, want %q", m.Route, tt.wantRoute)
			}
			if m.Phrase != tt.wantPhrase {
				t.Errorf("Phrase = %q, want %q", m.Phrase, tt.wantPhrase)
			}
		})
	}
}

func TestTable_Resolve_LongestTieKeepsTableOrder(t *testing.T) {
	table, err := NewTable([]Entry{
		{Phrase: "alpha", Route: "/a"},
		{Phrase: "omega", Route: "/o"},
	}, StrategyLongest)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}

	m, ok := table.Resolve("omega alpha")
	if !ok || m.Route != "/a" {
		t.Errorf("Resolve() = %+v, %v, want /a", m, ok)
	}
	if m.Index != 0 {
		t.Errorf("Index = %d, want 0", m.Index)
	}
}

func TestNewTable_Errors(t *testing.T) {
	tests := []struct {
		name     string
		entries  []Entry
		strategy Strategy
	}{
		{"empty phrase", []Entry{{Phrase: "  ", Route: "/x"}}, StrategyFirst},
		{"duplicate after lowercasing", []Entry{{Phrase: "Board", Route: "/a"}, {Phrase: "board", Route: "/b"}}, StrategyFirst},
		{"unknown strategy", DefaultEntries(), Strategy("fuzzy")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewTable(tt.entries, tt.strategy); err == nil {
				t.Error("NewTable() expected error, got nil")
			}
		})
	}
}

func TestNewTable_DefaultStrategy(t *testing.T) {
	table, err := NewTable(DefaultEntries(), "")
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	if table.Strategy() != StrategyFirst {
		t.Errorf("Strategy() = %q, want %q", table.Strategy(), StrategyFirst)
	}
}

func TestTable_EntriesIsCopy(t *testing.T) {
	table := defaultTable(t, StrategyFirst)

	entries := table.Entries()
	entries[0].Route = "/mutated"

	m, _ := table.Resolve("board")
	if m.Route != "/board" {
		t.Errorf("Route = %q after mutating copy, want /board", m.Route)
	}
}

func TestTable_Shadowed(t *testing.T) {
	table := defaultTable(t, StrategyFirst)

	shadows := table.Shadowed()
	if len(shadows) != 2 {
		t.Fatalf("len(Shadowed()) = %d, want 2: %+v", len(shadows), shadows)
	}

	if shadows[0].Entry.Phrase != "gantt chart" || shadows[0].ByPhrase != "gantt" {
		t.Errorf("shadows[0] = %+v, want gantt chart by gantt", shadows[0])
	}
	if shadows[1].Entry.Phrase != "dashboard" || shadows[1].ByPhrase != "board" {
		t.Errorf("shadows[1] = %+v, want dashboard by board", shadows[1])
	}
	if shadows[1].ByIndex != 0 || shadows[1].Index != 3 {
		t.Errorf("shadows[1] indexes = %d by %d, want 3 by 0", shadows[1].Index, shadows[1].ByIndex)
	}
}

func TestFromConfig(t *testing.T) {
	t.Run("empty routes use defaults", func(t *testing.T) {
		table, err := FromConfig(config.NavigationConfig{Match: config.MatchFirst})
		if err != nil {
			t.Fatalf("FromConfig: %v", err)
		}
		if got, want := len(table.Entries()), len(DefaultEntries()); got != want {
			t.Errorf("len(Entries()) = %d, want %d", got, want)
		}
	})

	t.Run("custom routes keep order", func(t *testing.T) {
		table, err := FromConfig(config.NavigationConfig{
			Match: config.MatchFirst,
			Routes: []config.RouteEntry{
				{Phrase: "calendar", Route: "/calendar"},
				{Phrase: "cal", Route: "/cal"},
			},
		})
		if err != nil {
			t.Fatalf("FromConfig: %v", err)
		}
		m, ok := table.Resolve("open calendar")
		if !ok || m.Route != "/calendar" {
			t.Errorf("Resolve() = %+v, %v, want /calendar", m, ok)
		}
	})
}

func TestTable_WithStrategy(t *testing.T) {
	first, err := NewTable(DefaultEntries(), StrategyFirst)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}

	longest, err := first.WithStrategy(StrategyLongest)
	if err != nil {
		t.Fatalf("WithStrategy: %v", err)
	}
	if m, _ := longest.Resolve("go to dashboard"); m.Route != "/dashboard" {
		t.Errorf("longest Resolve() = %q, want /dashboard", m.Route)
	}
	if m, _ := first.Resolve("go to dashboard"); m.Route != "/board" {
		t.Errorf("first Resolve() = %q, want /board", m.Route)
	}

	if _, err := first.WithStrategy("fuzzy"); err == nil {
		t.Error("expected error for unknown strategy")
	}
}
