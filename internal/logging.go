package internal

import "github.com/sirupsen/logrus"

// logger is handed to runtimes created without an explicit logger.
var logger = logrus.WithField("component", "wires")

func Logger() *logrus.Entry {
	return logger
}

// SetLogger overrides the logger used by runtimes created afterwards.
func SetLogger(l *logrus.Entry) {
	logger = l
}
