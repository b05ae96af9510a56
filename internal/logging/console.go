package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

const timestampLayout = "2006-01-02 15:04:05"

// consoleHandler writes one line per record:
//
//	2026-03-01 09:30:00 WARN  feeds #4f1c /api/summary: fetch failed status=503
//
// The component, the refresh cycle and the record's subject (endpoint, chart
// or element, in that order of preference) are lifted out of the attributes
// into the header, so every line of one cycle carries "#<cycle_id>".
type consoleHandler struct {
	mu        *sync.Mutex
	w         io.Writer
	level     slog.Leveler
	addSource bool

	group  string
	head   header
	fields []field
}

type field struct {
	key   string
	value string
}

type header struct {
	component string
	cycleID   string
	endpoint  string
	chart     string
	element   string
}

func newConsoleHandler(w io.Writer, level slog.Leveler, addSource bool) *consoleHandler {
	return &consoleHandler{mu: &sync.Mutex{}, w: w, level: level, addSource: addSource}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	head := h.head
	fields := slices.Clip(h.fields)
	record.Attrs(func(attr slog.Attr) bool {
		fields = collect(&head, fields, h.group, attr)
		return true
	})
	subject, spare := head.subject()

	ts := record.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	var buf bytes.Buffer
	buf.WriteString(ts.Local().Format(timestampLayout))
	fmt.Fprintf(&buf, " %-5s ", record.Level.String())

	parts := make([]string, 0, 3)
	if head.component != "" {
		parts = append(parts, head.component)
	}
	if head.cycleID != "" {
		parts = append(parts, "#"+head.cycleID)
	}
	if subject != "" {
		parts = append(parts, subject)
	}
	if len(parts) > 0 {
		buf.WriteString(strings.Join(parts, " "))
		buf.WriteString(": ")
	}

	if msg := strings.TrimSpace(record.Message); msg != "" {
		buf.WriteString(msg)
	} else {
		buf.WriteString("(no message)")
	}

	if h.addSource {
		if src := record.Source(); src != nil {
			fmt.Fprintf(&buf, " [%s:%d]", filepath.Base(src.File), src.Line)
		}
	}

	for _, f := range append(spare, fields...) {
		buf.WriteByte(' ')
		buf.WriteString(f.key)
		buf.WriteByte('=')
		buf.WriteString(quote(f.value))
	}
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf.Bytes())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	clone := *h
	clone.fields = slices.Clip(h.fields)
	for _, attr := range attrs {
		clone.fields = collect(&clone.head, clone.fields, clone.group, attr)
	}
	return &clone
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.group = joinKey(h.group, name)
	return &clone
}

// collect appends attr to fields, flattening groups into dotted keys. Header
// keys outside any group update head instead.
func collect(head *header, fields []field, group string, attr slog.Attr) []field {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return fields
	}
	if attr.Value.Kind() == slog.KindGroup {
		if attr.Key != "" {
			group = joinKey(group, attr.Key)
		}
		for _, member := range attr.Value.Group() {
			fields = collect(head, fields, group, member)
		}
		return fields
	}

	value := formatValue(attr.Value)
	if group == "" && head.take(attr.Key, value) {
		return fields
	}
	return append(fields, field{key: joinKey(group, attr.Key), value: value})
}

func (h *header) take(key, value string) bool {
	switch key {
	case FieldComponent:
		h.component = value
	case FieldCycleID:
		h.cycleID = value
	case FieldEndpoint:
		h.endpoint = value
	case FieldChart:
		h.chart = value
	case FieldElement:
		h.element = value
	default:
		return false
	}
	return true
}

// subject picks the header subject. Subject keys that lose out are returned
// so they still appear in the body.
func (h header) subject() (string, []field) {
	var subject string
	var spare []field
	for _, f := range []field{{FieldEndpoint, h.endpoint}, {FieldChart, h.chart}, {FieldElement, h.element}} {
		switch {
		case f.value == "":
		case subject == "":
			subject = f.value
		default:
			spare = append(spare, f)
		}
	}
	return subject, spare
}

func joinKey(group, key string) string {
	switch {
	case group == "":
		return key
	case key == "":
		return group
	default:
		return group + "." + key
	}
}

func formatValue(v slog.Value) string {
	if v.Kind() == slog.KindTime {
		return v.Time().UTC().Format(time.RFC3339)
	}
	return v.String()
}

func quote(s string) string {
	if s == "" || strings.ContainsFunc(s, func(r rune) bool { return r <= ' ' || r == '=' || r == '"' }) {
		return strconv.Quote(s)
	}
	return s
}
