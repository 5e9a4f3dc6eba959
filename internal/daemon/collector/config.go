package collector

import (
	"context"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/grovetools/clueitems/config"
	"github.com/grovetools/clueitems/errors"
	"github.com/grovetools/clueitems/internal/daemon/event"
	"github.com/grovetools/clueitems/logging"
)

// ConfigCollector watches the profile for edits made outside the daemon (for
// example by "clueitems set") and turns them into config and stash_filled
// events.
type ConfigCollector struct {
	path     string
	settings *config.Manager
	debounce time.Duration
	logger   *logrus.Entry
}

// NewConfigCollector watches the file at path, which must be the file behind
// settings. debounce is how long the file must stay quiet before it is
// re-read; zero or less means 100ms.
func NewConfigCollector(path string, settings *config.Manager, debounce time.Duration) *ConfigCollector {
	if debounce <= 0 {
		debounce = 100 * time.Millisecond
	}
	return &ConfigCollector{
		path:     path,
		settings: settings,
		debounce: debounce,
		logger:   logging.NewLogger("collector.config"),
	}
}

// Name returns the collector's name.
func (c *ConfigCollector) Name() string { return "config" }

// Run watches until the context is canceled.
func (c *ConfigCollector) Run(ctx context.Context, events chan<- event.Event) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.FeedFailed(c.path, err)
	}
	defer watcher.Close()

	// The directory is watched so that write-then-rename saves and sqlite
	// side files are both seen.
	dir := filepath.Dir(c.path)
	if err := watcher.Add(dir); err != nil {
		return errors.FeedFailed(dir, err)
	}

	prev := c.settings.Values()
	base := filepath.Base(c.path)

	timer := time.NewTimer(c.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case fe, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if fe.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			name := filepath.Base(fe.Name)
			if name != base && !strings.HasPrefix(name, base+"-") {
				continue
			}
			c.logger.Debugf("fsnotify event: %s op=%v", fe.Name, fe.Op)
			timer.Reset(c.debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.logger.Errorf("Watcher error: %v", err)
		case <-timer.C:
			next := c.settings.Values()
			for _, ev := range ProfileChanges(prev, next) {
				if !send(ctx, events, ev) {
					return nil
				}
			}
			prev = next
		}
	}
}

// ProfileChanges returns the events that take a session from the raw profile
// before to after: one config event per changed setting, then one
// stash_filled event per unit whose filled flag changed, in unit order.
func ProfileChanges(before, after map[string]string) []event.Event {
	var out []event.Event
	for _, ch := range config.Diff(before, after) {
		out = append(out, event.Event{
			Type:   event.TypeConfig,
			Source: event.SourceProfile,
			Group:  config.Group,
			Key:    ch.Key,
			Value:  ch.Value,
		})
	}

	prefix := config.StashFilledKey("")
	units := make(map[string]bool)
	for _, values := range []map[string]string{before, after} {
		for k := range values {
			if strings.HasPrefix(k, prefix) {
				units[strings.TrimPrefix(k, prefix)] = true
			}
		}
	}
	ids := make([]string, 0, len(units))
	for id := range units {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		key := prefix + id
		was, now := parseFilled(before[key]), parseFilled(after[key])
		if was != now {
			out = append(out, event.Event{
				Type:   event.TypeStashFilled,
				Source: event.SourceProfile,
				Unit:   id,
				Filled: now,
			})
		}
	}
	return out
}

func parseFilled(raw string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(raw))
	return err == nil && b
}
