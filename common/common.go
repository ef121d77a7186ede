package common

import (
	"io"
	"log"
	"os"
)

const logFlags = log.LstdFlags | log.Lshortfile

// GetNewLogger creates an instance of all needed loggers
func GetNewLogger() *Logger {
	return NewLogger(os.Stderr)
}

// NewLogger creates loggers which all write to w
func NewLogger(w io.Writer) *Logger {
	return &Logger{
		Warn: log.New(w, "[ Warn ] ", logFlags),
		Info: log.New(w, "[ Info ] ", logFlags),
		Err:  log.New(w, "[ Error ] ", logFlags),
	}
}

// NewDiscardLogger returns loggers that drop everything
func NewDiscardLogger() *Logger {
	return NewLogger(io.Discard)
}

// SetOutput redirects all the loggers to w
func (l *Logger) SetOutput(w io.Writer) {
	l.Warn.SetOutput(w)
	l.Info.SetOutput(w)
	l.Err.SetOutput(w)
}
