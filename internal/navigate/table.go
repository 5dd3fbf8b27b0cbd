package navigate

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/taskfoo/taskfoo-bot/internal/config"
)

// Strategy selects how competing matches are resolved.
type Strategy string

const (
	// StrategyFirst picks the first matching phrase in table order.
	StrategyFirst Strategy = config.MatchFirst
	// StrategyLongest picks the longest matching phrase; ties go to table order.
	StrategyLongest Strategy = config.MatchLongest
)

// Entry maps a lowercase phrase to a frontend route.
type Entry struct {
	Phrase string
	Route  string
}

// Match is the outcome of a successful resolution.
type Match struct {
	Phrase string
	Route  string
	Index  int // Position of the winning entry in the table
}

// DefaultEntries returns the built-in TaskFoo route table in match order.
func DefaultEntries() []Entry {
	return []Entry{
		{Phrase: "board", Route: "/board"},
		{Phrase: "gantt", Route: "/gantt"},
		{Phrase: "gantt chart", Route: "/gantt"},
		{Phrase: "dashboard", Route: "/dashboard"},
		{Phrase: "tasks", Route: "/tasks"},
		{Phrase: "task list", Route: "/tasks"},
		{Phrase: "new task", Route: "/tasks/new"},
		{Phrase: "projects", Route: "/projects"},
		{Phrase: "new project", Route: "/projects/new"},
		{Phrase: "epics", Route: "/epics"},
		{Phrase: "new epic", Route: "/epics/new"},
		{Phrase: "users", Route: "/users"},
		{Phrase: "new user", Route: "/users/new"},
		{Phrase: "audit", Route: "/audit"},
	}
}

// Table is an immutable ordered route table. It is safe for concurrent use.
type Table struct {
	entries  []Entry
	strategy Strategy
}

// NewTable builds a table from entries. Phrases are lower-cased; empty or
// duplicate phrases are rejected.
func NewTable(entries []Entry, strategy Strategy) (*Table, error) {
	switch strategy {
	case "":
		strategy = StrategyFirst
	case StrategyFirst, StrategyLongest:
	default:
		return nil, fmt.Errorf("unknown match strategy %q", strategy)
	}

	seen := make(map[string]struct{}, len(entries))
	out := make([]Entry, 0, len(entries))
	for i, e := range entries {
		phrase := normalize(strings.TrimSpace(e.Phrase))
		if phrase == "" {
			return nil, fmt.Errorf("entry %d: empty phrase", i)
		}
		if _, dup := seen[phrase]; dup {
			return nil, fmt.Errorf("entry %d: duplicate phrase %q", i, phrase)
		}
		seen[phrase] = struct{}{}
		out = append(out, Entry{Phrase: phrase, Route: e.Route})
	}

	return &Table{entries: out, strategy: strategy}, nil
}

// FromConfig builds a table from navigation config. An empty route list
// selects DefaultEntries.
func FromConfig(cfg config.NavigationConfig) (*Table, error) {
	entries := DefaultEntries()
	if len(cfg.Routes) > 0 {
		entries = make([]Entry, len(cfg.Routes))
		for i, r := range cfg.Routes {
			entries[i] = Entry{Phrase: r.Phrase, Route: r.Route}
		}
	}
	return NewTable(entries, Strategy(cfg.Match))
}

// Entries returns a copy of the table in match order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Strategy returns the table's match strategy.
func (t *Table) Strategy() Strategy {
	return t.strategy
}

// WithStrategy returns a copy of the table using a different strategy.
func (t *Table) WithStrategy(s Strategy) (*Table, error) {
	return NewTable(t.entries, s)
}

// Resolve returns the route for an utterance, or false if no phrase occurs in it.
func (t *Table) Resolve(utterance string) (Match, bool) {
	text := normalize(utterance)
	if text == "" {
		return Match{}, false
	}

	best := -1
	for i, e := range t.entries {
		if !strings.Contains(text, e.Phrase) {
			continue
		}
		if t.strategy == StrategyFirst {
			best = i
			break
		}
		if best < 0 || len(e.Phrase) > len(t.entries[best].Phrase) {
			best = i
		}
	}

	if best < 0 {
		return Match{}, false
	}
	e := t.entries[best]
	return Match{Phrase: e.Phrase, Route: e.Route, Index: best}, true
}

// Shadow describes an entry that first-match order can never select.
type Shadow struct {
	Entry    Entry
	Index    int
	ByPhrase string // Earlier phrase contained in Entry.Phrase
	ByIndex  int
}

// Shadowed lists entries eclipsed by an earlier phrase that is a substring of
// theirs. Under StrategyFirst those entries are unreachable.
func (t *Table) Shadowed() []Shadow {
	var out []Shadow
	for i, e := range t.entries {
		for j := 0; j < i; j++ {
			if strings.Contains(e.Phrase, t.entries[j].Phrase) {
				out = append(out, Shadow{
					Entry:    e,
					Index:    i,
					ByPhrase: t.entries[j].Phrase,
					ByIndex:  j,
				})
				break
			}
		}
	}
	return out
}

// normalize lower-cases text using Unicode case mapping.
// A Caser holds state, so one is created per call.
func normalize(s string) string {
	return cases.Lower(language.Und).String(s)
}
