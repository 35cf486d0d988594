// Package log is the process-wide structured logger. Call sites pass a
// message followed by alternating key/value pairs:
//
//	log.Info("window regenerated", "granularity", "month", "radius", 3)
package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

const consoleTimeFormat = "2006-01-02T15:04:05.000Z07:00"

var (
	mu     sync.RWMutex
	logger = newLogger(os.Stderr, LevelInfo)
)

func newLogger(w io.Writer, l Level) zerolog.Logger {
	zerolog.ErrorFieldName = "err"
	cw := zerolog.ConsoleWriter{Out: w, TimeFormat: consoleTimeFormat, NoColor: true}
	return zerolog.New(cw).Level(l.zerolog()).With().Timestamp().Logger()
}

// ParseLevel maps "debug", "info", "warn" and "error" to a Level. Unknown
// names yield LevelInfo and false.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, true
	case "info", "":
		return LevelInfo, true
	case "warn", "warning":
		return LevelWarn, true
	case "error":
		return LevelError, true
	default:
		return LevelInfo, false
	}
}

func (l Level) zerolog() zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// SetLevel changes the minimum level that is written.
func SetLevel(l Level) {
	mu.Lock()
	logger = logger.Level(l.zerolog())
	mu.Unlock()
}

// SetOutput redirects log output, keeping the current level.
func SetOutput(w io.Writer) {
	mu.Lock()
	lvl := logger.GetLevel()
	logger = newLogger(w, LevelInfo).Level(lvl)
	mu.Unlock()
}

func Debug(msg string, kv ...any) {
	write(zerolog.DebugLevel, nil, msg, kv)
}

func Info(msg string, kv ...any) {
	write(zerolog.InfoLevel, nil, msg, kv)
}

func Warn(msg string, kv ...any) {
	write(zerolog.WarnLevel, nil, msg, kv)
}

func Error(msg string, err error, kv ...any) {
	write(zerolog.ErrorLevel, err, msg, kv)
}

func write(level zerolog.Level, err error, msg string, kv []any) {
	mu.RLock()
	l := logger
	mu.RUnlock()

	ev := l.WithLevel(level)
	if ev == nil {
		return
	}
	if err != nil {
		ev = ev.Err(err)
	}
	// Pairs only; a trailing key without a value is dropped.
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		ev = field(ev, key, kv[i+1])
	}
	ev.Msg(msg)
}

func field(ev *zerolog.Event, key string, v any) *zerolog.Event {
	switch val := v.(type) {
	case string:
		return ev.Str(key, val)
	case int:
		return ev.Int(key, val)
	case int64:
		return ev.Int64(key, val)
	case float64:
		return ev.Float64(key, val)
	case bool:
		return ev.Bool(key, val)
	case time.Duration:
		return ev.Dur(key, val)
	case time.Time:
		return ev.Time(key, val)
	case error:
		return ev.AnErr(key, val)
	case fmt.Stringer:
		return ev.Stringer(key, val)
	default:
		return ev.Interface(key, val)
	}
}
