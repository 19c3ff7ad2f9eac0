package logging

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls where log lines go.
type Options struct {
	// File receives JSON lines, rotated by size. Empty disables file output.
	File string
	// Level is the minimum level written, e.g. "debug" or "info".
	Level string
	// Console receives human-readable lines. Nil disables console output.
	Console zapcore.WriteSyncer
}

// DefaultOptions logs info and above to stderr and ptt_crawler.log.
func DefaultOptions() Options {
	return Options{
		File:    "ptt_crawler.log",
		Level:   "info",
		Console: zapcore.Lock(os.Stderr),
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New builds the process logger. The returned closer flushes the log file and
// must be closed before the process exits.
func New(opts Options) (*zap.Logger, io.Closer, error) {
	level, err := zapcore.ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
	}

	var (
		cores  []zapcore.Core
		closer io.Closer = nopCloser{}
	)

	if opts.Console != nil {
		cores = append(cores, zapcore.NewCore(consoleEncoder(), opts.Console, level))
	}

	if opts.File != "" {
		writer := fileWriter(opts.File)
		cores = append(cores, zapcore.NewCore(fileEncoder(), zapcore.AddSync(writer), level))
		closer = writer
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.DPanicLevel))
	return logger, closer, nil
}

func encoderConfig() zapcore.EncoderConfig {
	config := zap.NewProductionEncoderConfig()
	config.EncodeLevel = zapcore.CapitalLevelEncoder
	config.EncodeTime = zapcore.ISO8601TimeEncoder
	return config
}

func consoleEncoder() zapcore.Encoder {
	return zapcore.NewConsoleEncoder(encoderConfig())
}

func fileEncoder() zapcore.Encoder {
	return zapcore.NewJSONEncoder(encoderConfig())
}

// lumberjack has no Sync, so the file is flushed by closing the writer.
func fileWriter(path string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:  path,
		MaxSize:   200, // megabytes
		LocalTime: true,
		Compress:  true,
	}
}
