package navigate

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/taskfoo/taskfoo-bot/internal/action"
	"github.com/taskfoo/taskfoo-bot/internal/config"
	"github.com/taskfoo/taskfoo-bot/internal/model"
)

// ActionName is the name the runtime uses to invoke ActionNavigatePage.
const ActionName = "action_navigate_page"

// Recorder receives one event per handled request. Implementations must not block.
type Recorder interface {
	Record(e model.NavigationEvent)
}

// ActionNavigatePage turns the latest user message into a navigation
// instruction, or asks the user which page to open.
type ActionNavigatePage struct {
	table        *Table
	navigateText string
	clarifyText  string
	recorder     Recorder
	logger       *slog.Logger
	now          func() time.Time
}

// Option configures an ActionNavigatePage.
type Option func(*ActionNavigatePage)

// WithMessages overrides the reply texts. navigate must contain {route}.
func WithMessages(navigate, clarify string) Option {
	return func(a *ActionNavigatePage) {
		if navigate != "" {
			a.navigateText = navigate
		}
		if clarify != "" {
			a.clarifyText = clarify
		}
	}
}

// WithRecorder sets the audit recorder.
func WithRecorder(r Recorder) Option {
	return func(a *ActionNavigatePage) {
		a.recorder = r
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *ActionNavigatePage) {
		a.logger = logger
	}
}

// NewActionNavigatePage creates the action over a route table.
func NewActionNavigatePage(table *Table, opts ...Option) *ActionNavigatePage {
	a := &ActionNavigatePage{
		table:        table,
		navigateText: config.DefaultNavigateText,
		clarifyText:  config.DefaultClarifyText,
		logger:       slog.Default(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	return a
}

// Name implements action.Action.
func (a *ActionNavigatePage) Name() string {
	return ActionName
}

// Run implements action.Action. It always returns no events and no error.
func (a *ActionNavigatePage) Run(
	_ context.Context,
	dispatcher action.Dispatcher,
	tracker *action.Tracker,
	_ action.Domain,
) ([]action.Event, error) {
	text := tracker.LatestText()

	var senderID string
	if tracker != nil {
		senderID = tracker.SenderID
	}

	m, ok := a.table.Resolve(text)
	if ok {
		dispatcher.UtterMessage(action.Message{
			Text: strings.ReplaceAll(a.navigateText, "{route}", m.Route),
			Custom: map[string]any{
				"type":  model.PayloadTypeNavigate,
				"route": m.Route,
			},
		})
		a.logger.Debug("navigation resolved",
			"sender_id", senderID,
			"phrase", m.Phrase,
			"route", m.Route,
		)
	} else {
		dispatcher.UtterMessage(action.Message{Text: a.clarifyText})
		a.logger.Debug("no route matched", "sender_id", senderID)
	}

	if a.recorder != nil {
		a.recorder.Record(model.NewNavigationEvent(senderID, text, m.Phrase, m.Route, a.now()))
	}

	return []action.Event{}, nil
}
