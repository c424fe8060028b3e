package logsink

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miaoxn/soliditytool/internal/logger"
)

func TestMemorySink_MostRecentFirst(t *testing.T) {
	s := NewMemorySink()
	s.Append(Entry{Severity: Info, Message: "first"})
	s.Append(Entry{Severity: Success, Message: "second"})
	s.Append(Entry{Severity: Info, Message: "second"})

	entries := s.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "second", entries[0].Message)
	assert.Equal(t, Info, entries[0].Severity)
	assert.Equal(t, "first", entries[2].Message)
	assert.False(t, entries[0].Timestamp.IsZero())
}

func TestMemorySink_ClearIsIdempotent(t *testing.T) {
	s := NewMemorySink()
	s.Append(Entry{Message: "x"})
	s.Clear()
	assert.Empty(t, s.Entries())
	s.Clear()
	assert.Empty(t, s.Entries())
	assert.Equal(t, 0, s.Len())
}

func TestMemorySink_EntriesIsACopy(t *testing.T) {
	s := NewMemorySink()
	s.Append(Entry{Message: "x"})
	got := s.Entries()
	got[0].Message = "changed"
	assert.Equal(t, "x", s.Entries()[0].Message)
}

func TestMemorySink_ConcurrentAppends(t *testing.T) {
	s := NewMemorySink()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				s.Append(Entry{Message: "m"})
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1000, s.Len())
}

func TestFormatData(t *testing.T) {
	assert.Equal(t, "", FormatData(Entry{}))
	assert.Equal(t, "1000", FormatData(Entry{Data: "1000"}))
	assert.Equal(t, "{\n  \"hash\": \"0x01\"\n}", FormatData(Entry{Data: map[string]any{"hash": "0x01"}}))
}

func TestFormat(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	out := Format(Entry{Timestamp: ts, Severity: Error, Message: "Failed", Data: "boom"})
	assert.Equal(t, "[03:04:05] ERROR Failed\nboom", out)
}

func TestMirror(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Options{Writer: &buf, NoColor: true})
	mem := NewMemorySink()
	s := Mirror(mem, l)

	s.Append(Entry{Severity: Warning, Message: "Confirmed", Data: map[string]any{"status": "reverted"}})

	require.Len(t, s.Entries(), 1)
	assert.Equal(t, 1, mem.Len())
	assert.Contains(t, buf.String(), "WARN")
	assert.Contains(t, buf.String(), "Confirmed")
	assert.Contains(t, buf.String(), "reverted")

	s.Clear()
	assert.Equal(t, 0, mem.Len())
}
