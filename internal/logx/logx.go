package logx

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// MaxSize is the diagnostic log threshold. A log already larger than this
// at startup is deleted and recreated rather than appended to.
const MaxSize = 5 * 1024 * 1024

// Open prepares the append-only diagnostic log at path and returns a
// logger writing JSON lines to the file and human-readable lines to
// stderr. The returned closer owns the file handle.
func Open(path string) (zerolog.Logger, io.Closer, error) {
	if info, err := os.Stat(path); err == nil && info.Size() > MaxSize {
		if err := os.Remove(path); err != nil {
			return zerolog.Nop(), nil, err
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, err
	}

	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	logger := zerolog.New(zerolog.MultiLevelWriter(f, console)).With().Timestamp().Logger()
	return logger, f, nil
}

// Console returns a stderr-only logger for when the log file cannot be
// opened; the cycle still runs, just without the on-disk audit trail.
func Console() zerolog.Logger {
	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(console).With().Timestamp().Logger()
}
