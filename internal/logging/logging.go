// Package logging builds the logrus logger used for request tracing.
// The report itself is written to stdout directly and never passes through here.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	Debug bool
	// File switches output to a rotating JSON log instead of stderr.
	File   string
	Stderr io.Writer
}

// New returns a logger that stays silent below warn level unless Debug is set.
func New(opts Options) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)
	if opts.Debug {
		log.SetLevel(logrus.DebugLevel)
	}

	out := opts.Stderr
	if out == nil {
		out = os.Stderr
	}
	log.SetOutput(out)
	log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: !opts.Debug,
		FullTimestamp:    true,
	})

	if opts.File == "" {
		return log, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
		return log, err
	}
	log.SetOutput(&lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    10, // MB
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	})
	log.SetFormatter(&logrus.JSONFormatter{})
	return log, nil
}

// Discard returns a logger that drops everything. Used by tests and as a nil-safe default.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	log.SetLevel(logrus.PanicLevel)
	return log
}
