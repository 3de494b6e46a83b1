package huffman

import (
	"io"
	"log"
)

// Logger receives progress and warning messages from Compress.
type Logger interface {
	Infof(format string, v ...any)
	Warnf(format string, v ...any)
	Errorf(format string, v ...any)
}

// NewLogger returns a Logger that writes to l, or to the standard logger if l
// is nil.
func NewLogger(l *log.Logger) Logger {
	if l == nil {
		l = log.Default()
	}
	return &stdLogger{l}
}

// DiscardLogger returns a Logger that drops every message.
func DiscardLogger() Logger {
	return &stdLogger{log.New(io.Discard, "", 0)}
}

type stdLogger struct {
	l *log.Logger
}

func (s *stdLogger) Infof(format string, v ...any)  { s.l.Printf("[INFO] "+format, v...) }
func (s *stdLogger) Warnf(format string, v ...any)  { s.l.Printf("[WARN] "+format, v...) }
func (s *stdLogger) Errorf(format string, v ...any) { s.l.Printf("[ERROR] "+format, v...) }
