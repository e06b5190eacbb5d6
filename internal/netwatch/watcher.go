package netwatch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"pizzahunt/internal/config"
	"pizzahunt/internal/logging"
)

// HintSource reports kernel network events that warrant a fresh probe.
type HintSource interface {
	Name() string
	Start(ctx context.Context, notify func(reason string)) error
	Stop()
}

// Watcher tracks connectivity and publishes changes.
type Watcher struct {
	prober   Prober
	logger   *slog.Logger
	interval time.Duration
	settle   time.Duration
	hints    []HintSource

	checkMu  sync.Mutex
	stateMu  sync.RWMutex
	online   bool
	observed bool

	sendMu      sync.Mutex
	transitions chan Transition
	closed      bool

	mu      sync.Mutex
	quit    chan struct{}
	wg      sync.WaitGroup
	kick    chan string
	running bool
}

// Option customizes a Watcher.
type Option func(*Watcher)

// WithLogger sets the watcher logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithInterval enables periodic probing. Zero disables it.
func WithInterval(d time.Duration) Option {
	return func(w *Watcher) {
		w.interval = d
	}
}

// WithSettle delays the probe after a hint so bursts of kernel events
// collapse into one check and addresses have time to come up.
func WithSettle(d time.Duration) Option {
	return func(w *Watcher) {
		w.settle = d
	}
}

// WithHints adds hint sources started with the watcher.
func WithHints(sources ...HintSource) Option {
	return func(w *Watcher) {
		for _, src := range sources {
			if src != nil {
				w.hints = append(w.hints, src)
			}
		}
	}
}

// New creates a Watcher around prober.
func New(prober Prober, opts ...Option) *Watcher {
	w := &Watcher{
		prober:      prober,
		logger:      logging.NewNop(),
		settle:      time.Second,
		transitions: make(chan Transition, 1),
		kick:        make(chan string, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = logging.NewComponentLogger(w.logger, "netwatch")
	return w
}

// NewFromConfig builds a Watcher probing cfg.ProbeTarget with the configured
// interval and, when enabled, the platform's kernel hint sources.
func NewFromConfig(cfg *config.Config, logger *slog.Logger) *Watcher {
	if cfg == nil {
		return nil
	}
	prober := DialProber{
		Address: cfg.ProbeTarget(),
		Timeout: time.Duration(cfg.Offline.ProbeTimeout) * time.Second,
	}
	opts := []Option{
		WithLogger(logger),
		WithInterval(time.Duration(cfg.Offline.ProbeInterval) * time.Second),
	}
	if cfg.Offline.Netlink {
		opts = append(opts, WithHints(platformHints(logger)...))
	}
	return New(prober, opts...)
}

// Online reports the last observed state. It is false before the first check.
func (w *Watcher) Online() bool {
	if w == nil {
		return false
	}
	w.stateMu.RLock()
	defer w.stateMu.RUnlock()
	return w.online
}

// Transitions returns the channel of connectivity changes. It is closed by
// Stop. Undelivered transitions are replaced by newer ones.
func (w *Watcher) Transitions() <-chan Transition {
	return w.transitions
}

// Check probes once and returns the resulting state. The first check only
// records the state; later checks publish a Transition when it changes.
func (w *Watcher) Check(ctx context.Context, reason string) bool {
	w.checkMu.Lock()
	defer w.checkMu.Unlock()

	online := true
	var probeErr error
	if w.prober != nil {
		probeErr = w.prober.Probe(ctx)
		online = probeErr == nil
	}

	w.stateMu.Lock()
	previous, observed := w.online, w.observed
	w.online = online
	w.observed = true
	w.stateMu.Unlock()

	if !observed {
		w.logger.Info("initial connectivity",
			logging.String(logging.FieldEventType, "netwatch_initial_state"),
			logging.Bool("online", online),
		)
		return online
	}
	if previous == online {
		if probeErr != nil {
			w.logger.Debug("still offline", logging.String("reason", reason), logging.Error(probeErr))
		}
		return online
	}

	attrs := []logging.Attr{
		logging.String(logging.FieldEventType, "netwatch_transition"),
		logging.Bool("online", online),
		logging.String("reason", reason),
	}
	if probeErr != nil {
		attrs = append(attrs, logging.Error(probeErr))
	}
	w.logger.Info("connectivity changed", logging.Args(attrs...)...)
	w.publish(Transition{Online: online, At: time.Now().UTC(), Reason: reason})
	return online
}

func (w *Watcher) publish(tr Transition) {
	w.sendMu.Lock()
	defer w.sendMu.Unlock()
	if w.closed {
		return
	}
	select {
	case w.transitions <- tr:
		return
	default:
	}
	select {
	case <-w.transitions:
	default:
	}
	w.transitions <- tr
}

// Start performs the initial check, starts hint sources and begins the
// background loop. Hint sources that fail to start are logged and skipped.
func (w *Watcher) Start(ctx context.Context) error {
	if w == nil {
		return nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	w.Check(ctx, "startup")

	notify := func(reason string) {
		select {
		case w.kick <- reason:
		default:
		}
	}
	for _, src := range w.hints {
		if err := src.Start(ctx, notify); err != nil {
			logging.WarnWithContext(w.logger, "network hint source unavailable", "netwatch_hint_failed",
				logging.String("source", src.Name()),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "run on Linux with netlink access or set offline.netlink = false"),
				logging.String(logging.FieldImpact, "reconnects are detected by periodic probes only"),
			)
			continue
		}
		w.logger.Debug("network hint source started", logging.String("source", src.Name()))
	}

	w.quit = make(chan struct{})
	w.running = true
	quit := w.quit
	w.wg.Add(1)
	go w.loop(ctx, quit)

	w.logger.Info("connectivity watcher started",
		logging.String(logging.FieldEventType, "netwatch_started"),
		logging.Duration("interval", w.interval),
		logging.Int("hint_sources", len(w.hints)),
	)
	return nil
}

// Stop halts the loop and hint sources and closes the Transitions channel.
func (w *Watcher) Stop() {
	if w == nil {
		return
	}

	w.mu.Lock()
	if w.running {
		close(w.quit)
		w.quit = nil
		w.running = false
	}
	w.mu.Unlock()

	w.wg.Wait()
	for _, src := range w.hints {
		src.Stop()
	}

	w.sendMu.Lock()
	if !w.closed {
		w.closed = true
		close(w.transitions)
	}
	w.sendMu.Unlock()
}

// Running reports whether the background loop is active.
func (w *Watcher) Running() bool {
	if w == nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Watcher) loop(ctx context.Context, quit <-chan struct{}) {
	defer w.wg.Done()

	var tick <-chan time.Time
	if w.interval > 0 {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	var (
		settleTimer  *time.Timer
		settleC      <-chan time.Time
		settleReason string
	)
	defer func() {
		if settleTimer != nil {
			settleTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-quit:
			return
		case <-tick:
			w.Check(ctx, "probe")
		case reason := <-w.kick:
			if w.settle <= 0 {
				w.Check(ctx, reason)
				continue
			}
			settleReason = reason
			if settleTimer == nil {
				settleTimer = time.NewTimer(w.settle)
			} else {
				settleTimer.Reset(w.settle)
			}
			settleC = settleTimer.C
		case <-settleC:
			settleC = nil
			w.Check(ctx, settleReason)
		}
	}
}
