package audit

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/taskfoo/taskfoo-bot/internal/model"
)

var errNoDatabase = errors.New("audit writer has no database")

// BatchSender is the subset of *pgxpool.Pool the writer needs.
type BatchSender interface {
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// WriterConfig contains configuration for the audit writer.
type WriterConfig struct {
	// BatchSize is the number of rows to accumulate before flushing.
	BatchSize int

	// FlushInterval is the maximum time between flushes.
	FlushInterval time.Duration

	// QueueSize bounds the number of events waiting to be written.
	QueueSize int
}

// DefaultWriterConfig returns sensible defaults.
func DefaultWriterConfig() WriterConfig {
	return WriterConfig{
		BatchSize:     100,
		FlushInterval: 2 * time.Second,
		QueueSize:     10000,
	}
}

// WriterMetrics holds writer counters.
type WriterMetrics struct {
	Inserts   int64
	Conflicts int64
	Errors    int64
	Flushes   int64
	Queue     QueueStats
}

// navigationRow represents a row for the navigation_events table.
type navigationRow struct {
	EventID    string
	SenderID   string
	Utterance  string
	Phrase     string
	Route      string
	Matched    bool
	ReceivedAt int64
}

// Writer consumes navigation events and writes them to navigation_events.
type Writer struct {
	cfg    WriterConfig
	logger *slog.Logger

	input *Queue[model.NavigationEvent]
	db    BatchSender

	// Batching
	batch   []navigationRow
	batchMu sync.Mutex
	flushMu sync.Mutex

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	metrics WriterMetrics
}

// NewWriter creates a Writer. db may be nil in tests that never flush rows.
func NewWriter(cfg WriterConfig, db BatchSender, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BatchSize < 1 {
		cfg.BatchSize = 1
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = DefaultWriterConfig().FlushInterval
	}
	return &Writer{
		cfg:    cfg,
		logger: logger,
		input:  NewQueue[model.NavigationEvent](cfg.QueueSize),
		db:     db,
		batch:  make([]navigationRow, 0, cfg.BatchSize),
	}
}

// Record enqueues an event without blocking. It implements navigate.Recorder.
func (w *Writer) Record(e model.NavigationEvent) {
	if !w.input.Send(e) {
		w.logger.Warn("audit queue full, dropping navigation event", "event_id", e.EventID)
	}
}

// Start begins consuming events and writing to the database.
func (w *Writer) Start(ctx context.Context) error {
	w.ctx, w.cancel = context.WithCancel(ctx)

	w.wg.Add(1)
	go w.run()

	w.logger.Info("audit writer started",
		"batch_size", w.cfg.BatchSize,
		"flush_interval", w.cfg.FlushInterval,
		"queue_size", w.input.Stats().Capacity,
	)
	return nil
}

// Stop drains remaining events and performs a final flush.
func (w *Writer) Stop(ctx context.Context) error {
	w.logger.Info("stopping audit writer")

	w.input.Close()
	if w.cancel != nil {
		w.cancel()
	}

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		w.logger.Warn("audit writer stop timed out")
	}

	// Final drain uses the caller's context; the run context is cancelled.
	for _, e := range w.input.DrainTo(0) {
		w.handleEvent(e)
	}
	w.flush(ctx)

	w.logger.Info("audit writer stopped")
	return nil
}

// Stats returns current metrics.
func (w *Writer) Stats() WriterMetrics {
	w.batchMu.Lock()
	m := w.metrics
	w.batchMu.Unlock()
	m.Queue = w.input.Stats()
	return m
}

// run waits for queued events and flushes on size or interval.
func (w *Writer) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.cfg.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-w.input.Ready():
			for _, e := range w.input.DrainTo(w.cfg.BatchSize) {
				w.handleEvent(e)
			}
			// More may have arrived than one drain takes.
			if w.input.Len() > 0 {
				select {
				case w.input.ready <- struct{}{}:
				default:
				}
			}
		case <-ticker.C:
			w.flush(w.ctx)
		}
	}
}

// handleEvent transforms and adds an event to the batch.
func (w *Writer) handleEvent(e model.NavigationEvent) {
	row := w.transform(e)

	w.batchMu.Lock()
	w.batch = append(w.batch, row)
	shouldFlush := len(w.batch) >= w.cfg.BatchSize
	w.batchMu.Unlock()

	if shouldFlush {
		ctx := w.ctx
		if ctx == nil || ctx.Err() != nil {
			ctx = context.Background()
		}
		w.flush(ctx)
	}
}

// transform converts a NavigationEvent to a navigationRow.
func (w *Writer) transform(e model.NavigationEvent) navigationRow {
	return navigationRow{
		EventID:    e.EventID.String(),
		SenderID:   e.SenderID,
		Utterance:  e.Utterance,
		Phrase:     e.Phrase,
		Route:      e.Route,
		Matched:    e.Matched,
		ReceivedAt: e.ReceivedAt,
	}
}

// flush writes the current batch to the database.
func (w *Writer) flush(ctx context.Context) {
	w.flushMu.Lock()
	defer w.flushMu.Unlock()

	w.batchMu.Lock()
	if len(w.batch) == 0 {
		w.batchMu.Unlock()
		return
	}

	// Take ownership of current batch
	batch := w.batch
	w.batch = make([]navigationRow, 0, w.cfg.BatchSize)
	w.batchMu.Unlock()

	start := time.Now()

	conflicts, err := w.batchInsert(ctx, batch)
	if err != nil {
		w.logger.Error("batch insert failed", "error", err, "count", len(batch))
		w.batchMu.Lock()
		w.metrics.Errors++
		w.batchMu.Unlock()
		return
	}

	w.batchMu.Lock()
	w.metrics.Inserts += int64(len(batch) - conflicts)
	w.metrics.Conflicts += int64(conflicts)
	w.metrics.Flushes++
	w.batchMu.Unlock()

	w.logger.Debug("flushed navigation events",
		"count", len(batch),
		"conflicts", conflicts,
		"duration", time.Since(start),
	)
}

// batchInsert inserts rows using pgx.Batch with ON CONFLICT DO NOTHING.
func (w *Writer) batchInsert(ctx context.Context, rows []navigationRow) (conflicts int, err error) {
	if w.db == nil {
		return 0, errNoDatabase
	}

	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(`
			INSERT INTO navigation_events (event_id, sender_id, utterance, phrase, route, matched, received_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (event_id) DO NOTHING
		`, r.EventID, r.SenderID, r.Utterance, r.Phrase, r.Route, r.Matched, r.ReceivedAt)
	}

	results := w.db.SendBatch(ctx, batch)
	defer results.Close()

	for range rows {
		ct, err := results.Exec()
		if err != nil {
			return 0, err
		}
		if ct.RowsAffected() == 0 {
			conflicts++
		}
	}

	return conflicts, nil
}
