package collector

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/grovetools/clueitems/errors"
	"github.com/grovetools/clueitems/internal/daemon/event"
	"github.com/grovetools/clueitems/logging"
)

// WebSocketCollector receives events from a host bridge over a websocket.
// Every text message holds one or more newline-separated events. The
// connection is re-established after failures.
type WebSocketCollector struct {
	url         string
	retryDelay  time.Duration
	readTimeout time.Duration
	maxAttempts int
	logger      *logrus.Entry
}

// NewWebSocketCollector creates a collector for url.
func NewWebSocketCollector(url string) *WebSocketCollector {
	return &WebSocketCollector{
		url:         url,
		retryDelay:  2 * time.Second,
		readTimeout: 90 * time.Second,
		logger:      logging.NewLogger("collector.websocket"),
	}
}

// WithRetry sets the delay between reconnects and the number of consecutive
// failed dials after which Run gives up. Zero attempts retries forever.
func (c *WebSocketCollector) WithRetry(delay time.Duration, attempts int) *WebSocketCollector {
	c.retryDelay = delay
	c.maxAttempts = attempts
	return c
}

// Name returns the collector's name.
func (c *WebSocketCollector) Name() string { return "websocket" }

// Run reads events until the context is canceled.
func (c *WebSocketCollector) Run(ctx context.Context, events chan<- event.Event) error {
	failures := 0
	for {
		connected, err := c.connectAndRead(ctx, events)
		if ctx.Err() != nil {
			return nil
		}
		if connected {
			failures = 0
		} else {
			failures++
		}
		if c.maxAttempts > 0 && failures >= c.maxAttempts {
			return errors.FeedFailed(c.url, err)
		}
		c.logger.WithError(err).WithField("retry_in", c.retryDelay).Warn("Host bridge connection lost")

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(c.retryDelay):
		}
	}
}

// connectAndRead dials once and reads until the connection fails. connected
// reports whether the dial succeeded.
func (c *WebSocketCollector) connectAndRead(ctx context.Context, events chan<- event.Event) (bool, error) {
	d := websocket.Dialer{HandshakeTimeout: 5 * time.Second}
	conn, resp, err := d.DialContext(ctx, c.url, http.Header{})
	if err != nil {
		return false, err
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	c.logger.WithField("url", c.url).Info("Connected to host bridge")

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-stop:
		}
	}()
	defer conn.Close()

	line := 0
	for {
		_ = conn.SetReadDeadline(time.Now().Add(c.readTimeout))
		typ, msg, err := conn.ReadMessage()
		if err != nil {
			return true, err
		}
		if typ != websocket.TextMessage {
			continue
		}
		for _, raw := range bytes.Split(msg, []byte("\n")) {
			line++
			if isSkippable(string(raw)) {
				continue
			}
			ev, err := event.Decode(raw)
			if err != nil {
				c.logger.WithError(errors.EventDecode(c.url, line, err)).Warn("Skipping malformed event")
				continue
			}
			if !send(ctx, events, ev) {
				return true, ctx.Err()
			}
		}
	}
}
