package logger

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the structured logger shared by the CLI, the workbench and the
// chain client.
type Logger interface {
	Debug(msg string, fields ...zap.Field)
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)

	// With returns a child logger that adds fields to every entry.
	With(fields ...zap.Field) Logger
	// Named returns a child logger tagged with a component name.
	Named(component string) Logger
}

type Options struct {
	Verbose bool
	Writer  io.Writer
	// NoColor disables level colouring, e.g. when output is piped.
	NoColor bool
}

type zapLogger struct {
	z *zap.Logger
}

var levelStyles = map[zapcore.Level]struct {
	label string
	attrs []color.Attribute
}{
	zapcore.DebugLevel: {"DEBUG", []color.Attribute{color.FgWhite}},
	zapcore.InfoLevel:  {"INFO", []color.Attribute{color.FgBlue}},
	zapcore.WarnLevel:  {"WARN", []color.Attribute{color.FgYellow}},
	zapcore.ErrorLevel: {"ERROR", []color.Attribute{color.FgRed}},
	zapcore.FatalLevel: {"FATAL", []color.Attribute{color.FgRed, color.Bold}},
}

// New builds a console logger with short timestamps. Components appear in
// brackets after the level.
func New(opts Options) Logger {
	if opts.Writer == nil {
		opts.Writer = os.Stderr
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "component",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    levelEncoder(opts.NoColor),
		EncodeTime:     timeEncoder(opts.NoColor),
		EncodeName:     nameEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}

	level := zapcore.InfoLevel
	if opts.Verbose {
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(opts.Writer),
		level,
	)
	return &zapLogger{z: zap.New(core)}
}

// NewNopLogger discards everything.
func NewNopLogger() Logger {
	return &zapLogger{z: zap.NewNop()}
}

func (l *zapLogger) Debug(msg string, fields ...zap.Field) { l.z.Debug(msg, fields...) }
func (l *zapLogger) Info(msg string, fields ...zap.Field)  { l.z.Info(msg, fields...) }
func (l *zapLogger) Warn(msg string, fields ...zap.Field)  { l.z.Warn(msg, fields...) }
func (l *zapLogger) Error(msg string, fields ...zap.Field) { l.z.Error(msg, fields...) }

func (l *zapLogger) With(fields ...zap.Field) Logger {
	return &zapLogger{z: l.z.With(fields...)}
}

func (l *zapLogger) Named(component string) Logger {
	return &zapLogger{z: l.z.Named(component)}
}

func levelEncoder(noColor bool) zapcore.LevelEncoder {
	return func(lvl zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		style, ok := levelStyles[lvl]
		if !ok {
			enc.AppendString(lvl.CapitalString())
			return
		}
		if noColor {
			enc.AppendString(style.label)
			return
		}
		enc.AppendString(color.New(style.attrs...).Sprint(style.label))
	}
}

func timeEncoder(noColor bool) zapcore.TimeEncoder {
	return func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		ts := "[" + t.Format("15:04:05") + "]"
		if !noColor {
			ts = color.New(color.FgWhite).Sprint(ts)
		}
		enc.AppendString(ts)
	}
}

func nameEncoder(name string, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString("(" + name + ")")
}

var (
	defaultMu     sync.RWMutex
	defaultLogger Logger
)

// SetDefault replaces the process-wide logger returned by Default.
func SetDefault(l Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}

// Default returns the process-wide logger, an info-level stderr logger
// until SetDefault is called.
func Default() Logger {
	defaultMu.RLock()
	l := defaultLogger
	defaultMu.RUnlock()
	if l != nil {
		return l
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLogger == nil {
		defaultLogger = New(Options{})
	}
	return defaultLogger
}
