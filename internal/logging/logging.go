// Package logging configures logrus from the DEBUG environment variable.
package logging

import (
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

// Init sets the global log level from DEBUG=0..5 (0=warn, 1=info,
// 2=debug, 3+=trace).
func Init() {
	logrus.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	logrus.SetOutput(os.Stderr)
	logrus.SetLevel(levelFromEnv(os.Getenv("DEBUG")))
}

// SetDebug raises the level to debug, used by the --debug flag.
func SetDebug() {
	if logrus.GetLevel() < logrus.DebugLevel {
		logrus.SetLevel(logrus.DebugLevel)
	}
}

func levelFromEnv(value string) logrus.Level {
	n, err := strconv.Atoi(value)
	if err != nil {
		return logrus.WarnLevel
	}
	switch {
	case n <= 0:
		return logrus.WarnLevel
	case n == 1:
		return logrus.InfoLevel
	case n == 2:
		return logrus.DebugLevel
	default:
		return logrus.TraceLevel
	}
}

// Section returns a logger carrying the config section name, so every
// source log line identifies its section.
func Section(name string) *logrus.Entry {
	return logrus.WithField("section", name)
}
