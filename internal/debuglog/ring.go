// Package debuglog keeps a bounded in-memory ring of log records so the
// client shell can show recent activity without reading log files.
package debuglog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// DefaultCapacity is the number of records kept when no explicit capacity
// is given.
const DefaultCapacity = 200

// Entry is one captured log record, already formatted for display.
type Entry struct {
	Time    time.Time
	Level   slog.Level
	Message string
	Attrs   string
}

// String renders the entry in a compact single-line form.
func (e Entry) String() string {
	if e.Attrs == "" {
		return fmt.Sprintf("%s %-5s %s", e.Time.Format("15:04:05"), e.Level, e.Message)
	}
	return fmt.Sprintf("%s %-5s %s %s", e.Time.Format("15:04:05"), e.Level, e.Message, e.Attrs)
}

// Ring is a fixed-capacity buffer of entries. Oldest entries are dropped
// once the capacity is reached. Safe for concurrent use.
type Ring struct {
	mu      sync.Mutex
	cap     int
	entries []Entry
}

func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Ring{cap: capacity}
}

func (r *Ring) add(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	if len(r.entries) > r.cap {
		r.entries = r.entries[len(r.entries)-r.cap:]
	}
}

// Entries returns a snapshot of the buffered records, oldest first.
func (r *Ring) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Clear discards all buffered records.
func (r *Ring) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = nil
}

// Handler is a slog.Handler that captures every record into a Ring and
// forwards it to an inner handler.
type Handler struct {
	ring  *Ring
	inner slog.Handler
	attrs []slog.Attr
}

func NewHandler(ring *Ring, inner slog.Handler) *Handler {
	return &Handler{ring: ring, inner: inner}
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	// The ring captures everything; the inner handler applies its own level.
	return true
}

func (h *Handler) Handle(ctx context.Context, rec slog.Record) error {
	var parts []string
	for _, a := range h.attrs {
		parts = append(parts, fmt.Sprintf("%s=%v", a.Key, a.Value))
	}
	rec.Attrs(func(a slog.Attr) bool {
		parts = append(parts, fmt.Sprintf("%s=%v", a.Key, a.Value))
		return true
	})

	h.ring.add(Entry{
		Time:    rec.Time,
		Level:   rec.Level,
		Message: rec.Message,
		Attrs:   strings.Join(parts, " "),
	})

	if h.inner != nil && h.inner.Enabled(ctx, rec.Level) {
		return h.inner.Handle(ctx, rec)
	}
	return nil
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	inner := h.inner
	if inner != nil {
		inner = inner.WithAttrs(attrs)
	}
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &Handler{ring: h.ring, inner: inner, attrs: merged}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	inner := h.inner
	if inner != nil {
		inner = inner.WithGroup(name)
	}
	return &Handler{ring: h.ring, inner: inner, attrs: h.attrs}
}
