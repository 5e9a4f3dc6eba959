package collector

import (
	"context"
	"io"
	stdlog "log"

	"github.com/hpcloud/tail"
	"github.com/sirupsen/logrus"

	"github.com/grovetools/clueitems/errors"
	"github.com/grovetools/clueitems/internal/daemon/event"
	"github.com/grovetools/clueitems/logging"
)

// TailCollector follows an event log the host appends to.
type TailCollector struct {
	path      string
	fromStart bool
	poll      bool
	logger    *logrus.Entry
}

// NewTailCollector follows path. With fromStart the existing contents are
// read first; otherwise only lines appended after start are seen.
func NewTailCollector(path string, fromStart bool) *TailCollector {
	return &TailCollector{
		path:      path,
		fromStart: fromStart,
		logger:    logging.NewLogger("collector.tail"),
	}
}

// WithPolling makes the collector poll the file instead of using inotify.
func (c *TailCollector) WithPolling() *TailCollector {
	c.poll = true
	return c
}

// Name returns the collector's name.
func (c *TailCollector) Name() string { return "tail" }

// Run follows the file until the context is canceled.
func (c *TailCollector) Run(ctx context.Context, events chan<- event.Event) error {
	whence := io.SeekEnd
	if c.fromStart {
		whence = io.SeekStart
	}
	t, err := tail.TailFile(c.path, tail.Config{
		Follow:   true,
		ReOpen:   true,
		Poll:     c.poll,
		Location: &tail.SeekInfo{Offset: 0, Whence: whence},
		Logger:   stdlog.New(io.Discard, "", 0),
	})
	if err != nil {
		return errors.FeedFailed(c.path, err)
	}
	defer t.Cleanup()
	defer t.Stop()

	line := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case l, ok := <-t.Lines:
			if !ok {
				if err := t.Err(); err != nil {
					return errors.FeedFailed(c.path, err)
				}
				return nil
			}
			line++
			if l.Err != nil {
				c.logger.WithError(l.Err).Warn("Tail error")
				continue
			}
			if isSkippable(l.Text) {
				continue
			}
			ev, err := event.Decode([]byte(l.Text))
			if err != nil {
				c.logger.WithError(errors.EventDecode(c.path, line, err)).Warn("Skipping malformed event")
				continue
			}
			if !send(ctx, events, ev) {
				return nil
			}
		}
	}
}

func isSkippable(text string) bool {
	for _, r := range text {
		switch r {
		case ' ', '\t', '\r':
			continue
		case '#':
			return true
		default:
			return false
		}
	}
	return true
}
