package collector

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/grovetools/clueitems/internal/daemon/event"
	"github.com/grovetools/clueitems/logging"
)

// FileCollector replays a recorded session (JSONL, optionally zstd
// compressed) and returns at the end of the file.
type FileCollector struct {
	path   string
	strict bool
	logger *logrus.Entry
}

// NewFileCollector creates a collector for the recording at path. In strict
// mode a malformed event stops the replay; otherwise it is logged and skipped.
func NewFileCollector(path string, strict bool) *FileCollector {
	return &FileCollector{
		path:   path,
		strict: strict,
		logger: logging.NewLogger("collector.file"),
	}
}

// Name returns the collector's name.
func (c *FileCollector) Name() string { return "file" }

// Run sends every event of the recording.
func (c *FileCollector) Run(ctx context.Context, events chan<- event.Event) error {
	r, err := event.Open(c.path)
	if err != nil {
		return err
	}
	defer r.Close()

	for {
		ev, err := r.Next()
		if err == io.EOF {
			c.logger.WithField("lines", r.Line()).Debug("Recording exhausted")
			return nil
		}
		if err != nil {
			if c.strict {
				return err
			}
			c.logger.WithError(err).Warn("Skipping malformed event")
			continue
		}
		if !send(ctx, events, ev) {
			return nil
		}
	}
}
