// Package logging builds the process logger. Every log line is one JSON
// object (or a text line when LOG_FORMAT=text) with its timestamp rendered in
// the configured location.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/sirupsen/logrus"

	"pdfvault/internal/config"
)

// New returns a logger writing to stdout.
func New(cfg config.LogConfig) (*logrus.Logger, error) {
	return NewWithWriter(os.Stdout, cfg)
}

// NewWithWriter returns a logger writing to w.
func NewWithWriter(w io.Writer, cfg config.LogConfig) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	loc, err := Location(cfg.Timezone)
	if err != nil {
		return nil, err
	}

	var inner logrus.Formatter
	switch cfg.Format {
	case "", "json":
		inner = jsonFormatter()
	case "text":
		inner = &logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339Nano,
			DisableColors:   true,
		}
	default:
		return nil, fmt.Errorf("invalid log format %q", cfg.Format)
	}

	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(level)
	l.SetFormatter(&locationFormatter{loc: loc, inner: inner})
	return l, nil
}

// NewJSON returns an info level JSON logger writing to w with timestamps in loc.
func NewJSON(w io.Writer, loc *time.Location) *logrus.Logger {
	if loc == nil {
		loc = time.UTC
	}
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&locationFormatter{loc: loc, inner: jsonFormatter()})
	return l
}

func jsonFormatter() logrus.Formatter {
	return &logrus.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "ts",
			logrus.FieldKeyMsg:  "msg",
		},
	}
}

// Location resolves an IANA zone name. Empty means UTC.
func Location(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	return loc, nil
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type locationFormatter struct {
	loc   *time.Location
	inner logrus.Formatter
}

func (f *locationFormatter) Format(e *logrus.Entry) ([]byte, error) {
	e.Time = e.Time.In(f.loc)
	return f.inner.Format(e)
}
