package logging

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/grovetools/clueitems/tui/theme"
)

// leadingFields are printed first, in this order, when present. They name
// what a daemon line is about: the event being dispatched and the setting,
// STASH unit, item or feed it touched.
var leadingFields = []string{"event", "key", "unit", "item", "feed"}

// TextFormatter renders entries as
//
//	15:04:05.000 INFO  [engine] message event=config key=TrackBank error="..."
//
// Leading fields come first, the rest sorted, and the error last.
type TextFormatter struct {
	Config FormatConfig
}

// Format renders a single log entry.
func (f *TextFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b strings.Builder

	if !f.Config.DisableTimestamp {
		b.WriteString(entry.Time.Format("15:04:05.000"))
		b.WriteByte(' ')
	}

	b.WriteString(f.level(entry.Level))

	if component, ok := entry.Data["component"]; ok && !f.Config.DisableComponent {
		name := fmt.Sprint(component)
		if f.Config.Color {
			name = theme.DefaultTheme.Accent.Render(name)
		}
		fmt.Fprintf(&b, " [%s]", name)
	}

	if entry.HasCaller() {
		fmt.Fprintf(&b, " (%s:%d %s)", filepath.Base(entry.Caller.File), entry.Caller.Line,
			filepath.Base(entry.Caller.Function))
	}

	b.WriteByte(' ')
	b.WriteString(entry.Message)

	for _, key := range fieldOrder(entry.Data) {
		fmt.Fprintf(&b, " %s=%s", key, quoteValue(entry.Data[key]))
	}

	b.WriteByte('\n')
	return []byte(b.String()), nil
}

// level returns the padded level tag, colored when enabled.
func (f *TextFormatter) level(l logrus.Level) string {
	name := strings.ToUpper(l.String())
	if l == logrus.WarnLevel {
		name = "WARN"
	}
	tag := fmt.Sprintf("%-5s", name)
	if !f.Config.Color {
		return tag
	}

	var style lipgloss.Style
	switch {
	case l <= logrus.ErrorLevel:
		style = theme.DefaultTheme.Error
	case l == logrus.WarnLevel:
		style = theme.DefaultTheme.Warning
	case l >= logrus.DebugLevel:
		style = theme.DefaultTheme.Muted
	default:
		return tag
	}
	return style.Render(tag)
}

func fieldOrder(data logrus.Fields) []string {
	keys := make([]string, 0, len(data))
	seen := map[string]bool{"component": true, logrus.ErrorKey: true}
	for _, key := range leadingFields {
		if _, ok := data[key]; ok {
			keys = append(keys, key)
			seen[key] = true
		}
	}

	rest := make([]string, 0, len(data))
	for key := range data {
		if !seen[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	keys = append(keys, rest...)

	if _, ok := data[logrus.ErrorKey]; ok {
		keys = append(keys, logrus.ErrorKey)
	}
	return keys
}

// quoteValue quotes values that would not survive splitting on spaces.
func quoteValue(v interface{}) string {
	s := fmt.Sprint(v)
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return strconv.Quote(s)
	}
	return s
}
