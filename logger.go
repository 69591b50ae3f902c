package automation

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-logger/glog"
)

// Logger is the editor logging contract.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)
	WithContext(ctx context.Context) Logger
}

// FieldsLogger extends Logger with structured-field support.
type FieldsLogger interface {
	WithFields(map[string]any) Logger
}

var levelNames = []string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR", "FATAL"}

const (
	levelTrace = iota
	levelDebug
	levelInfo
	levelWarn
	levelError
	levelFatal
)

func parseLevel(level string) (int, bool) {
	level = strings.ToUpper(strings.TrimSpace(level))
	if level == "WARNING" {
		level = "WARN"
	}
	for i, name := range levelNames {
		if name == level {
			return i, true
		}
	}
	return levelInfo, false
}

// FmtLogger is the fallback logger used when no external logger is configured.
// It drops messages below its minimum level, info by default.
type FmtLogger struct {
	out    io.Writer
	ctx    context.Context
	fields map[string]any
	min    int
}

// NewFmtLogger constructs a fallback logger writing to stderr when out is nil.
func NewFmtLogger(out io.Writer) *FmtLogger {
	if out == nil {
		out = os.Stderr
	}
	return &FmtLogger{out: out, ctx: context.Background(), min: levelInfo}
}

// WithLevel returns a copy that logs at level and above. Unknown names fall
// back to info.
func (l *FmtLogger) WithLevel(level string) *FmtLogger {
	if l == nil {
		l = NewFmtLogger(nil)
	}
	cp := *l
	cp.min, _ = parseLevel(level)
	return &cp
}

func (l *FmtLogger) Trace(msg string, args ...any) { l.log(levelTrace, msg, args...) }
func (l *FmtLogger) Debug(msg string, args ...any) { l.log(levelDebug, msg, args...) }
func (l *FmtLogger) Info(msg string, args ...any)  { l.log(levelInfo, msg, args...) }
func (l *FmtLogger) Warn(msg string, args ...any)  { l.log(levelWarn, msg, args...) }
func (l *FmtLogger) Error(msg string, args ...any) { l.log(levelError, msg, args...) }
func (l *FmtLogger) Fatal(msg string, args ...any) { l.log(levelFatal, msg, args...) }

func (l *FmtLogger) WithContext(ctx context.Context) Logger {
	if l == nil {
		return NewFmtLogger(nil)
	}
	cp := *l
	if ctx == nil {
		ctx = context.Background()
	}
	cp.ctx = ctx
	return &cp
}

// WithFields adds fields on a shallow-copy logger.
func (l *FmtLogger) WithFields(fields map[string]any) Logger {
	if l == nil {
		return NewFmtLogger(nil)
	}
	cp := *l
	cp.fields = mergeFields(l.fields, fields)
	return &cp
}

func (l *FmtLogger) log(level int, msg string, args ...any) {
	if l == nil {
		l = NewFmtLogger(nil)
	}
	if level < l.min {
		return
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	line := fmt.Sprintf("%s %-5s %s", time.Now().UTC().Format(time.RFC3339Nano), levelNames[level], strings.TrimSpace(msg))
	if fields := formatFields(l.fields); fields != "" {
		line += " " + fields
	}
	fmt.Fprintln(l.out, line)
}

// GlogLogger adapts a go-logger glog.Logger to Logger.
type GlogLogger struct {
	logger glog.Logger
}

// NewGlogLogger builds a JSON glog logger writing to out at the named level.
func NewGlogLogger(out io.Writer, level string) *GlogLogger {
	if out == nil {
		out = os.Stderr
	}
	if strings.TrimSpace(level) == "" {
		level = "info"
	}
	return &GlogLogger{logger: glog.NewLogger(
		glog.WithWriter(out),
		glog.WithLoggerTypeJSON(),
		glog.WithLevel(level),
	)}
}

// WrapGlog adapts an existing glog logger.
func WrapGlog(logger glog.Logger) *GlogLogger {
	return &GlogLogger{logger: logger}
}

func (l *GlogLogger) Trace(msg string, args ...any) { l.logger.Trace(msg, args...) }
func (l *GlogLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }
func (l *GlogLogger) Info(msg string, args ...any)  { l.logger.Info(msg, args...) }
func (l *GlogLogger) Warn(msg string, args ...any)  { l.logger.Warn(msg, args...) }
func (l *GlogLogger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }
func (l *GlogLogger) Fatal(msg string, args ...any) { l.logger.Fatal(msg, args...) }

func (l *GlogLogger) WithContext(ctx context.Context) Logger {
	if l == nil || l.logger == nil {
		return NewFmtLogger(nil).WithContext(ctx)
	}
	return &GlogLogger{logger: l.logger.WithContext(ctx)}
}

func (l *GlogLogger) WithFields(fields map[string]any) Logger {
	if l == nil || l.logger == nil {
		return NewFmtLogger(nil).WithFields(fields)
	}
	if fl, ok := l.logger.(glog.FieldsLogger); ok {
		return &GlogLogger{logger: fl.WithFields(fields)}
	}
	return l
}

func normalizeLogger(logger Logger) Logger {
	if logger == nil {
		return NewFmtLogger(nil)
	}
	return logger
}

func withLoggerFields(logger Logger, fields map[string]any) Logger {
	if logger == nil {
		return NewFmtLogger(nil)
	}
	if fl, ok := logger.(FieldsLogger); ok {
		return fl.WithFields(fields)
	}
	return logger
}

func mergeFields(a, b map[string]any) map[string]any {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	out := make(map[string]any, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

func formatFields(fields map[string]any) string {
	if len(fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, fields[k]))
	}
	return strings.Join(parts, " ")
}
