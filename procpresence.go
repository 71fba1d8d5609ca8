package procpresence

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	cfg "github.com/loykin/procpresence/internal/config"
	"github.com/loykin/procpresence/internal/detector"
	"github.com/loykin/procpresence/internal/metrics"
	"github.com/loykin/procpresence/internal/notifier"
	iapi "github.com/loykin/procpresence/internal/server"
	"github.com/loykin/procpresence/internal/watch"
	"github.com/prometheus/client_golang/prometheus"
)

// Re-export core types for external consumers.
// These are aliases so conversions are zero-cost.

type Config = cfg.Config

type Spec = detector.Spec

type Remote = cfg.Remote

type Process = detector.Process

type Status = watch.Status

type Detector = detector.Detector

type Notifier = notifier.Notifier

var (
	ErrInvalidConfig = cfg.ErrInvalidConfig
	ErrTransport     = notifier.ErrTransport
	ErrSnapshot      = watch.ErrSnapshot
)

func LoadConfig(path string) (*Config, error) { return cfg.Load(path) }

// Matches reports whether any process in procs satisfies spec.
func Matches(procs []Process, spec Spec) bool { return detector.Matches(procs, spec) }

// URL returns the target hit when presence turns on or off.
func URL(r Remote, turnedOn bool) string { return notifier.BuildURL(r, turnedOn) }

// Option customises a Watcher built by New.
type Option func(*options)

type options struct {
	logger   *slog.Logger
	detector Detector
	notifier Notifier
	gatherer prometheus.Gatherer
}

func WithLogger(l *slog.Logger) Option { return func(o *options) { o.logger = l } }

// WithDetector replaces the process-table detector.
func WithDetector(d Detector) Option { return func(o *options) { o.detector = d } }

// WithNotifier replaces the HTTP notifier.
func WithNotifier(n Notifier) Option { return func(o *options) { o.notifier = n } }

// WithGatherer selects the registry served on /metrics by Handler.
func WithGatherer(g prometheus.Gatherer) Option { return func(o *options) { o.gatherer = g } }

// Watcher is a thin facade over the internal watch loop and its supervisor.
type Watcher struct {
	cfg      *Config
	det      Detector
	sup      *watch.Supervisor
	board    *watch.Board
	gatherer prometheus.Gatherer
}

// New wires detector, notifier, watch loop and supervisor from c.
func New(c *Config, opts ...Option) (*Watcher, error) {
	if c == nil {
		return nil, errors.New("procpresence: nil config")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	o := options{logger: slog.Default()}
	for _, fn := range opts {
		fn(&o)
	}
	if o.detector == nil {
		o.detector = detector.NewArgsDetector(c.Process)
	}
	if o.notifier == nil {
		o.notifier = notifier.New(c.Remote, notifier.WithLogger(o.logger))
	}
	board := watch.NewBoard(c.Process.Name, o.detector.Describe())
	w, err := watch.New(watch.Options{
		Detector:      o.detector,
		Notifier:      o.notifier,
		Interval:      c.PollInterval(),
		NotifyOnStart: c.NotifyOnStart,
		Logger:        o.logger,
		Board:         board,
	})
	if err != nil {
		return nil, err
	}
	return &Watcher{
		cfg:      c,
		det:      o.detector,
		sup:      watch.NewSupervisor(w, c.RestartCooldown(), o.logger),
		board:    board,
		gatherer: o.gatherer,
	}, nil
}

// Run watches until ctx is cancelled, restarting after failures.
func (w *Watcher) Run(ctx context.Context) error { return w.sup.Run(ctx) }

// Check takes a single sample without touching the remote.
func (w *Watcher) Check() (bool, error) { return w.det.Alive() }

func (w *Watcher) Status() Status { return w.board.Snapshot() }

// Handler serves /status, /healthz and /metrics.
func (w *Watcher) Handler() http.Handler {
	return iapi.NewRouter(w.board, w.gatherer, "").Handler()
}

// NewHTTPServer binds addr and serves Handler on it in the background.
// It fails when addr cannot be bound.
func NewHTTPServer(addr string, w *Watcher) (*http.Server, error) {
	return iapi.NewServer(addr, w.Handler())
}

// Metrics helpers (public facade)

func RegisterMetrics(r prometheus.Registerer) error { return metrics.Register(r) }
func RegisterMetricsDefault() error                 { return metrics.Register(prometheus.DefaultRegisterer) }
