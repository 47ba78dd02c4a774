// Package log is the process wide structured logger. It wraps a zerolog
// logger behind package level helpers: the f variants take a printf format
// and the w variants take alternating key/value pairs.
package log

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"

	logTestWriterName = "log_test_writer"
	logTestTime       = "2006-01-02T15:04:05.000Z07:00"
)

var (
	log   zerolog.Logger
	level = LogLevelError

	// logTestWriter is the output used when Init receives logTestWriterName.
	logTestWriter io.Writer

	// panicOnInvalidChars makes the logger panic when a message contains
	// characters that are not valid UTF-8, it is used to catch binary data
	// being logged without encoding.
	panicOnInvalidChars = os.Getenv("LOG_PANIC_ON_INVALIDCHARS") == "true"
)

func init() {
	lvl := os.Getenv("LOG_LEVEL")
	if lvl == "" {
		lvl = LogLevelError
	}
	Init(lvl, "stderr", nil)
}

type invalidCharChecker struct{}

func (*invalidCharChecker) Write(p []byte) (int, error) {
	if bytes.Contains(p, []byte(`\ufffd`)) {
		panic(fmt.Sprintf("log line contains invalid characters: %q", p))
	}
	return len(p), nil
}

// errorLevelWriter only forwards events of error level or above.
type errorLevelWriter struct {
	io.Writer
}

func (w *errorLevelWriter) WriteLevel(l zerolog.Level, p []byte) (int, error) {
	if l < zerolog.ErrorLevel {
		return len(p), nil
	}
	return w.Write(p)
}

// Init configures the logger with the given level and output. Output can be
// "stdout", "stderr" or a file path. If errorOutput is not nil, errors are
// additionally written there.
func Init(logLevel, output string, errorOutput io.Writer) {
	var out io.Writer
	switch output {
	case "stdout":
		out = os.Stdout
	case "stderr":
		out = os.Stderr
	case logTestWriterName:
		out = logTestWriter
	default:
		f, err := os.OpenFile(output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			panic(fmt.Sprintf("cannot open log output: %v", err))
		}
		out = f
	}
	outputs := []io.Writer{zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: logTestTime,
		FormatCaller: func(i any) string {
			if s, ok := i.(string); ok {
				return path.Base(path.Dir(s)) + "/" + path.Base(s)
			}
			return ""
		},
	}}
	if errorOutput != nil {
		outputs = append(outputs, &errorLevelWriter{zerolog.ConsoleWriter{
			Out:        errorOutput,
			NoColor:    true,
			TimeFormat: time.RFC3339,
		}})
	}
	if panicOnInvalidChars {
		outputs = append(outputs, &invalidCharChecker{})
	}

	log = zerolog.New(zerolog.MultiLevelWriter(outputs...)).
		With().Timestamp().CallerWithSkipFrameCount(3).Logger()

	switch strings.ToLower(logLevel) {
	case LogLevelDebug:
		log = log.Level(zerolog.DebugLevel)
	case LogLevelInfo:
		log = log.Level(zerolog.InfoLevel)
	case LogLevelWarn:
		log = log.Level(zerolog.WarnLevel)
	case LogLevelError:
		log = log.Level(zerolog.ErrorLevel)
	default:
		panic(fmt.Sprintf("invalid log level: %q", logLevel))
	}
	level = strings.ToLower(logLevel)
}

// Logger returns the underlying zerolog logger.
func Logger() *zerolog.Logger {
	return &log
}

// Level returns the current log level.
func Level() string {
	return level
}

func Debug(args ...any) { log.Debug().Msg(fmt.Sprint(args...)) }
func Info(args ...any)  { log.Info().Msg(fmt.Sprint(args...)) }
func Warn(args ...any)  { log.Warn().Msg(fmt.Sprint(args...)) }
func Error(args ...any) { log.Error().Msg(fmt.Sprint(args...)) }
func Fatal(args ...any) { log.Fatal().Msg(fmt.Sprint(args...)) }

func Debugf(template string, args ...any) { log.Debug().Msgf(template, args...) }
func Infof(template string, args ...any)  { log.Info().Msgf(template, args...) }
func Warnf(template string, args ...any)  { log.Warn().Msgf(template, args...) }
func Errorf(template string, args ...any) { log.Error().Msgf(template, args...) }
func Fatalf(template string, args ...any) { log.Fatal().Msgf(template, args...) }

func Debugw(msg string, keyvalues ...any) { log.Debug().Fields(keyvalues).Msg(msg) }
func Infow(msg string, keyvalues ...any)  { log.Info().Fields(keyvalues).Msg(msg) }
func Warnw(msg string, keyvalues ...any)  { log.Warn().Fields(keyvalues).Msg(msg) }
func Errorw(err error, msg string)        { log.Error().Err(err).Msg(msg) }
