// Package common holds options shared by the snapshot components.
package common

import (
	"io"

	"github.com/sirupsen/logrus"
)

// LogOption configures the logger of a component. Diagnostics are discarded unless a logger or a
// log level is specified.
type LogOption struct {
	LogLevel logrus.Level
	Logger   *logrus.Logger
}

// NewLogger returns the configured logger, or a new one writing to standard error at LogLevel.
func NewLogger(opt ...LogOption) *logrus.Logger {
	logger := logrus.New()
	if len(opt) == 0 || (opt[0].Logger == nil && opt[0].LogLevel == logrus.PanicLevel) {
		logger.Out = io.Discard
		return logger
	}
	if opt[0].Logger != nil {
		return opt[0].Logger
	}
	logger.SetLevel(opt[0].LogLevel)
	return logger
}
