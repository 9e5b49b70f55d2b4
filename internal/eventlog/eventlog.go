// Package eventlog records gesture events through logrus, to stderr and an
// optional rotating file.
package eventlog

import (
	"fmt"
	"io"
	"os"

	formatter "github.com/antonfisher/nested-logrus-formatter"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/DurjaMan27/hand-tracker/internal/gesture"
)

// Options configures a Log.
type Options struct {
	// File is the rotating log file. Empty disables file output.
	File string

	// Output replaces stderr as the console writer. Used by tests.
	Output io.Writer

	NoColors bool
	Level    logrus.Level
}

// Log is a gesture.Logger backed by logrus.
type Log struct {
	logger *logrus.Logger
	file   *lumberjack.Logger
}

// New builds a Log. The zero Level is treated as info.
func New(opts Options) *Log {
	logger := logrus.New()

	level := opts.Level
	if level == 0 {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	logger.SetFormatter(&formatter.Formatter{
		NoColors:        opts.NoColors,
		TimestampFormat: "02 Jan 06 - 15:04:05",
		HideKeys:        false,
		FieldsOrder:     []string{"session", "kind", "phase", "t"},
	})

	console := opts.Output
	if console == nil {
		console = os.Stderr
	}
	writers := []io.Writer{console}

	l := &Log{logger: logger}
	if opts.File != "" {
		l.file = &lumberjack.Logger{
			Filename:   opts.File,
			LocalTime:  true,
			Compress:   true,
			MaxSize:    10,
			MaxAge:     7,
			MaxBackups: 3,
		}
		writers = append(writers, l.file)
	}

	logger.SetOutput(io.MultiWriter(writers...))
	return l
}

// Logger exposes the underlying logrus logger.
func (l *Log) Logger() *logrus.Logger { return l.logger }

// Log implements gesture.Logger.
func (l *Log) Log(e gesture.Event) {
	l.logger.WithFields(fields(e)).Info(e.Message)
}

// ForSession returns a gesture.Logger that tags every event with a session ID.
func (l *Log) ForSession(id string) gesture.Logger {
	entry := l.logger.WithField("session", id)
	return gesture.LoggerFunc(func(e gesture.Event) {
		entry.WithFields(fields(e)).Info(e.Message)
	})
}

// Close flushes and closes the log file, if any.
func (l *Log) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

func fields(e gesture.Event) logrus.Fields {
	return logrus.Fields{
		"kind":  string(e.Kind),
		"phase": string(e.Phase),
		"t":     fmt.Sprintf("%.3f", e.Time),
	}
}
