package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultFile is the rotating log file used when none is configured.
const DefaultFile = "logs/gas-sentinel.log"

// Config controls where and how verbosely the service logs.
type Config struct {
	Level      string // debug, info, warn, error
	File       string // rotating log file; empty disables file output
	Console    bool   // also write to stdout
	MaxSize    int    // megabytes per file
	MaxBackups int
	MaxAge     int // days
}

// Logger wraps the configured logrus logger and owns its rotating file.
type Logger struct {
	*logrus.Logger
	file *lumberjack.Logger
}

// New builds a logger. With neither Console nor File set, output is discarded.
func New(cfg Config) (*Logger, error) {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	var writers []io.Writer
	if cfg.Console {
		writers = append(writers, os.Stdout)
	}

	l := &Logger{Logger: logger}
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		l.file = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    orDefault(cfg.MaxSize, 10),
			MaxBackups: orDefault(cfg.MaxBackups, 5),
			MaxAge:     orDefault(cfg.MaxAge, 7),
		}
		writers = append(writers, l.file)
	}

	switch len(writers) {
	case 0:
		logger.SetOutput(io.Discard)
	case 1:
		logger.SetOutput(writers[0])
	default:
		logger.SetOutput(io.MultiWriter(writers...))
	}
	return l, nil
}

// Close flushes and closes the rotating file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
