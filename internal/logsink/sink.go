// Package logsink holds the execution log: an ordered, most-recent-first
// record of dispatch outcomes.
package logsink

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"
)

type Severity int

const (
	Info Severity = iota
	Success
	Error
	Warning
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Success:
		return "success"
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Entry is one log record. Data is an optional payload shown verbatim when
// it is a string and pretty-printed otherwise.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Severity  Severity  `json:"severity"`
	Message   string    `json:"message"`
	Data      any       `json:"data,omitempty"`
}

// Sink is the append/clear contract the dispatcher writes through.
type Sink interface {
	Append(entry Entry)
	Clear()
	Entries() []Entry
}

// MemorySink keeps entries in memory. It is safe for concurrent use.
type MemorySink struct {
	mu sync.RWMutex
	// stored oldest first, reversed on read
	entries []Entry
	now     func() time.Time
}

func NewMemorySink() *MemorySink {
	return &MemorySink{now: time.Now}
}

func (s *MemorySink) Append(entry Entry) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.now()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
}

func (s *MemorySink) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
}

// Entries returns a copy, most recent first.
func (s *MemorySink) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, len(s.entries))
	for i, e := range s.entries {
		out[len(s.entries)-1-i] = e
	}
	return out
}

func (s *MemorySink) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// FormatData renders an entry payload for display.
func FormatData(e Entry) string {
	switch d := e.Data.(type) {
	case nil:
		return ""
	case string:
		return d
	case error:
		return d.Error()
	default:
		b, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return fmt.Sprintf("%v", d)
		}
		return string(b)
	}
}

// Format renders an entry as a single block of text.
func Format(e Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s %s", e.Timestamp.Format("15:04:05"), strings.ToUpper(e.Severity.String()), e.Message)
	if data := FormatData(e); data != "" {
		b.WriteString("\n")
		b.WriteString(data)
	}
	return b.String()
}
