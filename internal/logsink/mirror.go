package logsink

import (
	"go.uber.org/zap"

	"github.com/miaoxn/soliditytool/internal/logger"
)

type mirrored struct {
	Sink
	log logger.Logger
}

// Mirror returns a Sink that also writes each appended entry to l.
func Mirror(sink Sink, l logger.Logger) Sink {
	return &mirrored{Sink: sink, log: l}
}

func (m *mirrored) Append(entry Entry) {
	m.Sink.Append(entry)

	fields := []zap.Field{zap.String("severity", entry.Severity.String())}
	if entry.Data != nil {
		fields = append(fields, zap.String("data", FormatData(entry)))
	}
	switch entry.Severity {
	case Error:
		m.log.Error(entry.Message, fields...)
	case Warning:
		m.log.Warn(entry.Message, fields...)
	default:
		m.log.Info(entry.Message, fields...)
	}
}
