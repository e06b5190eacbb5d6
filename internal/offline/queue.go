package offline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"pizzahunt/internal/logging"
	"pizzahunt/internal/netwatch"
	"pizzahunt/internal/notifications"
	"pizzahunt/internal/remote"
)

// Submitter sends creation payloads to the server.
type Submitter interface {
	CreatePizzas(ctx context.Context, payloads []json.RawMessage) (remote.Result, error)
	CreatePizza(ctx context.Context, payload json.RawMessage) (remote.Result, error)
}

// Connectivity reports the host's current network state.
type Connectivity interface {
	Online() bool
}

// TransitionSource delivers connectivity transitions.
type TransitionSource interface {
	Connectivity
	Transitions() <-chan netwatch.Transition
}

// State is the store connection state of a Queue.
type State int32

const (
	StateConnecting State = iota
	StateReady
	StateUnavailable
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateReady:
		return "ready"
	case StateUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// FlushResult summarizes one flush.
type FlushResult struct {
	// Pending is the number of records read from the store.
	Pending int
	// Submitted is the number of records the server accepted and that were
	// cleared from the store.
	Submitted int
	// Message is the server's failure message, if any.
	Message string
}

// Queue coordinates the local record store with the remote API.
type Queue struct {
	path         string
	remote       Submitter
	logger       *slog.Logger
	notifier     notifications.Service
	connectivity Connectivity
	exclusive    bool

	mu       sync.RWMutex
	store    *Store
	state    State
	flushing atomic.Bool
}

// Option customizes a Queue.
type Option func(*Queue)

// WithLogger sets the queue logger.
func WithLogger(logger *slog.Logger) Option {
	return func(q *Queue) {
		if logger != nil {
			q.logger = logger
		}
	}
}

// WithNotifier sets where user-facing messages are published.
func WithNotifier(n notifications.Service) Option {
	return func(q *Queue) {
		if n != nil {
			q.notifier = n
		}
	}
}

// WithConnectivity sets the source consulted by Open to decide whether to
// flush immediately. Without one the host is treated as offline at open.
func WithConnectivity(c Connectivity) Option {
	return func(q *Queue) {
		q.connectivity = c
	}
}

// WithFlushGuard enables or disables the single in-flight flush guard. It is
// enabled by default; with it disabled, overlapping flushes may submit the
// same records twice.
func WithFlushGuard(enabled bool) Option {
	return func(q *Queue) {
		q.exclusive = enabled
	}
}

// New builds a Queue for the store at path. The store is not opened until
// Open is called.
func New(path string, submitter Submitter, opts ...Option) *Queue {
	q := &Queue{
		path:      path,
		remote:    submitter,
		logger:    logging.NewNop(),
		notifier:  notifications.NewNoop(),
		exclusive: true,
		state:     StateConnecting,
	}
	for _, opt := range opts {
		opt(q)
	}
	q.logger = logging.NewComponentLogger(q.logger, "offline-queue")
	return q
}

// Open opens the local store at StoreVersion, creating it on first use. When
// the host is online and opening succeeded, Open flushes before returning.
// Failures are logged and leave the queue unavailable for the session.
func (q *Queue) Open(ctx context.Context) {
	store, err := OpenStore(ctx, q.path)
	if err != nil {
		q.mu.Lock()
		q.state = StateUnavailable
		q.mu.Unlock()
		q.logger.Error("offline store unavailable",
			logging.Error(err),
			logging.String("path", q.path),
			logging.String(logging.FieldEventType, "offline_store_open_failed"),
			logging.String(logging.FieldErrorHint, "check permissions on the offline store path"),
			logging.String(logging.FieldImpact, "pizzas created while offline will be lost this session"),
		)
		return
	}

	q.mu.Lock()
	q.store = store
	q.state = StateReady
	q.mu.Unlock()

	q.logger.Debug("offline store ready",
		logging.String("path", q.path),
		logging.String("store", StoreName),
		logging.Int("version", StoreVersion),
	)

	if q.connectivity != nil && q.connectivity.Online() {
		q.logger.Info("online at startup; flushing saved pizzas",
			logging.String(logging.FieldEventType, "offline_startup_flush"),
		)
		_, _ = q.Flush(ctx)
	}
}

// Close releases the store handle.
func (q *Queue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.store == nil {
		return nil
	}
	err := q.store.Close()
	q.store = nil
	q.state = StateConnecting
	return err
}

// State returns the store connection state.
func (q *Queue) State() State {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.state
}

// Available reports whether the store is open.
func (q *Queue) Available() bool {
	return q.State() == StateReady
}

func (q *Queue) handle() *Store {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.store
}

// Pending returns the records waiting to be submitted.
func (q *Queue) Pending(ctx context.Context) ([]Record, error) {
	store := q.handle()
	if store == nil {
		return nil, ErrUnavailable
	}
	return store.All(ctx)
}

// SaveRecord appends payload to the store. Failures, including calls made
// before Open or in degraded mode, are logged and the record is lost; the
// error is returned for callers that want to report it.
func (q *Queue) SaveRecord(ctx context.Context, payload json.RawMessage) error {
	store := q.handle()
	if store == nil {
		q.logger.Error("pizza not saved offline",
			logging.String(logging.FieldEventType, "offline_save_unavailable"),
			logging.String("state", q.State().String()),
			logging.String(logging.FieldErrorHint, "open the offline store before saving"),
			logging.String(logging.FieldImpact, "pizza discarded"),
		)
		return ErrUnavailable
	}

	key, err := store.Add(ctx, payload)
	if err != nil {
		q.logger.Error("pizza not saved offline",
			logging.Error(err),
			logging.String(logging.FieldEventType, "offline_save_failed"),
			logging.String(logging.FieldErrorHint, "check disk space and the offline store path"),
			logging.String(logging.FieldImpact, "pizza discarded"),
		)
		return fmt.Errorf("save record: %w", err)
	}

	q.logger.Info("pizza saved offline",
		logging.String(logging.FieldEventType, "offline_record_saved"),
		logging.Int64("key", key),
	)
	q.publish(ctx, notifications.EventRecordQueued, notifications.Payload{"pizzaName": pizzaName(payload)})
	return nil
}

// Submit creates one pizza on the server and falls back to SaveRecord when
// the server cannot be reached. queued reports whether the payload went to
// the local store instead.
func (q *Queue) Submit(ctx context.Context, payload json.RawMessage) (result remote.Result, queued bool, err error) {
	if q.remote == nil {
		return remote.Result{}, false, errors.New("no remote configured")
	}
	result, err = q.remote.CreatePizza(ctx, payload)
	if err == nil {
		return result, false, nil
	}
	if !errors.Is(err, remote.ErrUnreachable) {
		return remote.Result{}, false, err
	}

	q.logger.Info("server unreachable; saving pizza for later",
		logging.String(logging.FieldEventType, "offline_fallback"),
		logging.Error(err),
	)
	if saveErr := q.SaveRecord(ctx, payload); saveErr != nil {
		return remote.Result{}, false, errors.Join(err, saveErr)
	}
	return remote.Result{}, true, nil
}

// Flush submits every pending record in one batch and clears them when the
// server accepts the batch. An empty store makes no remote call.
func (q *Queue) Flush(ctx context.Context) (FlushResult, error) {
	if q.exclusive {
		if !q.flushing.CompareAndSwap(false, true) {
			q.logger.Info("flush skipped; another flush is running",
				logging.String(logging.FieldEventType, "offline_flush_overlap"),
			)
			return FlushResult{}, ErrFlushInProgress
		}
		defer q.flushing.Store(false)
	}

	store := q.handle()
	if store == nil {
		return FlushResult{}, ErrUnavailable
	}
	if q.remote == nil {
		return FlushResult{}, errors.New("no remote configured")
	}

	records, err := store.All(ctx)
	if err != nil {
		q.logger.Error("read saved pizzas failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "offline_flush_read_failed"),
			logging.String(logging.FieldErrorHint, "inspect the offline store file"),
			logging.String(logging.FieldImpact, "saved pizzas stay queued"),
		)
		return FlushResult{}, err
	}
	if len(records) == 0 {
		q.logger.Debug("no saved pizzas to flush")
		return FlushResult{}, nil
	}

	summary := FlushResult{Pending: len(records)}
	payloads := make([]json.RawMessage, len(records))
	for i, rec := range records {
		payloads[i] = rec.Payload
	}

	result, err := q.remote.CreatePizzas(ctx, payloads)
	if err != nil {
		logging.WarnWithContext(q.logger, "flush failed; server unreachable", "offline_flush_unreachable",
			logging.Error(err),
			logging.Int(logging.FieldRecordCount, len(records)),
			logging.String(logging.FieldErrorHint, "records are retried on the next reconnect"),
			logging.String(logging.FieldImpact, "saved pizzas stay queued"),
		)
		return summary, fmt.Errorf("submit %d saved pizzas: %w", len(records), err)
	}
	if !result.OK() {
		summary.Message = result.Message
		logging.WarnWithContext(q.logger, "flush rejected by server", "offline_flush_rejected",
			logging.String("message", result.Message),
			logging.Int("status", result.StatusCode),
			logging.Int(logging.FieldRecordCount, len(records)),
			logging.String(logging.FieldErrorHint, "fix or clear the saved pizzas with 'pizzahunt queue'"),
			logging.String(logging.FieldImpact, "saved pizzas stay queued and are retried on every reconnect"),
		)
		q.publish(ctx, notifications.EventError, notifications.Payload{
			"context": "saved pizza submission",
			"error":   result.Message,
		})
		return summary, fmt.Errorf("%w: %s", ErrRejected, result.Message)
	}

	cleared, err := store.ClearThrough(ctx, records[len(records)-1].Key)
	if err != nil {
		q.logger.Error("clear saved pizzas failed after submission",
			logging.Error(err),
			logging.Int(logging.FieldRecordCount, len(records)),
			logging.String(logging.FieldEventType, "offline_flush_clear_failed"),
			logging.String(logging.FieldErrorHint, "run 'pizzahunt queue clear' once the pizzas appear on the server"),
			logging.String(logging.FieldImpact, "submitted pizzas will be sent again on the next flush"),
		)
		return summary, err
	}

	summary.Submitted = int(cleared)
	q.logger.Info(notifications.FlushCompletedMessage,
		logging.String(logging.FieldEventType, "offline_flush_completed"),
		logging.Int(logging.FieldRecordCount, len(records)),
	)
	q.publish(ctx, notifications.EventFlushCompleted, notifications.Payload{"count": len(records)})
	return summary, nil
}

// Run flushes on every transition to online until ctx is cancelled or the
// source's channel closes. Flushes run on the calling goroutine.
func (q *Queue) Run(ctx context.Context, source TransitionSource) error {
	if source == nil {
		<-ctx.Done()
		return nil
	}
	transitions := source.Transitions()
	for {
		select {
		case <-ctx.Done():
			return nil
		case tr, ok := <-transitions:
			if !ok {
				return nil
			}
			if !tr.Online {
				q.logger.Info("host went offline",
					logging.String(logging.FieldEventType, "offline_host_offline"),
					logging.String("reason", tr.Reason),
				)
				continue
			}
			q.logger.Info("host back online; flushing saved pizzas",
				logging.String(logging.FieldEventType, "offline_host_online"),
				logging.String("reason", tr.Reason),
			)
			_, _ = q.Flush(ctx)
		}
	}
}

func (q *Queue) publish(ctx context.Context, event notifications.Event, payload notifications.Payload) {
	if err := q.notifier.Publish(ctx, event, payload); err != nil {
		q.logger.Debug("notification failed", logging.String("event", string(event)), logging.Error(err))
	}
}

func pizzaName(payload json.RawMessage) string {
	var fields struct {
		PizzaName string `json:"pizzaName"`
	}
	if err := json.Unmarshal(payload, &fields); err != nil {
		return ""
	}
	return fields.PizzaName
}
