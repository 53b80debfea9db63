package logging

import (
	"io"

	"github.com/sirupsen/logrus"
)

// NewLogger creates the diagnostic logger. Output goes to w (stderr in the
// CLI) so that stdout carries only command results.
func NewLogger(w io.Writer, debug bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		DisableQuote:     true,
	})
	SetDebug(logger, debug)
	return logger
}

// SetDebug switches the logger between info and debug level
func SetDebug(logger *logrus.Logger, debug bool) {
	if debug {
		logger.SetLevel(logrus.DebugLevel)
		return
	}
	logger.SetLevel(logrus.InfoLevel)
}
