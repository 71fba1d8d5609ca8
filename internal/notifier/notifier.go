package notifier

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/loykin/procpresence/internal/config"
	"github.com/loykin/procpresence/internal/metrics"
)

// ErrTransport marks failures to reach the remote. HTTP status codes are never
// treated as errors; only the request itself failing is.
var ErrTransport = errors.New("notification transport failed")

// maxBodyLog caps how much of a response body is logged.
const maxBodyLog = 4096

// Notifier delivers a presence change to the remote.
type Notifier interface {
	Notify(ctx context.Context, turnedOn bool) error
}

// HTTPNotifier toggles the remote by issuing a plain GET to
// http://{ip}{route_on} or http://{ip}{route_off}.
type HTTPNotifier struct {
	remote config.Remote
	client *http.Client
	logger *slog.Logger
}

// Option configures an HTTPNotifier.
type Option func(*HTTPNotifier)

// WithClient replaces the HTTP client.
func WithClient(c *http.Client) Option { return func(n *HTTPNotifier) { n.client = c } }

// WithLogger sets the logger used for response bodies.
func WithLogger(l *slog.Logger) Option { return func(n *HTTPNotifier) { n.logger = l } }

// New returns an HTTPNotifier for remote. No timeout is set unless
// remote.TimeoutSec is positive.
func New(remote config.Remote, opts ...Option) *HTTPNotifier {
	n := &HTTPNotifier{
		remote: remote,
		client: &http.Client{Timeout: remote.Timeout()},
		logger: slog.Default(),
	}
	for _, o := range opts {
		o(n)
	}
	return n
}

// URL returns the target for the given presence.
func (n *HTTPNotifier) URL(turnedOn bool) string {
	return BuildURL(n.remote, turnedOn)
}

// BuildURL concatenates scheme, host and route without normalising either.
func BuildURL(r config.Remote, turnedOn bool) string {
	route := r.RouteOff
	if turnedOn {
		route = r.RouteOn
	}
	return "http://" + r.IP + route
}

func routeLabel(turnedOn bool) string {
	if turnedOn {
		return "on"
	}
	return "off"
}

// Notify issues one GET and logs the response body.
func (n *HTTPNotifier) Notify(ctx context.Context, turnedOn bool) error {
	url := n.URL(turnedOn)
	started := time.Now()
	err := n.get(ctx, url)
	metrics.ObserveNotify(routeLabel(turnedOn), err == nil, time.Since(started).Seconds())
	return err
}

func (n *HTTPNotifier) get(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: build request %s: %w", ErrTransport, url, err)
	}
	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: GET %s: %w", ErrTransport, url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyLog))
	if err != nil {
		return fmt.Errorf("%w: read body %s: %w", ErrTransport, url, err)
	}
	// drain the rest so the connection can be reused
	_, _ = io.Copy(io.Discard, resp.Body)

	n.logger.Info("remote responded",
		slog.String("url", url),
		slog.Int("status", resp.StatusCode),
		slog.String("body", strings.TrimSpace(string(body))))
	return nil
}
