package utils

import (
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var logger = logrus.New()

func init() {
	logger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
}

// Log returns logger tagged with component name, like "fbx" or "scene"
func Log(component string) *logrus.Entry {
	return logger.WithField("component", component)
}

func SetLogLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return errors.Wrapf(err, "Invalid log level %q", level)
	}
	logger.SetLevel(lvl)
	return nil
}

func SetLogOutput(w io.Writer) {
	logger.SetOutput(w)
}

func Logger() *logrus.Logger {
	return logger
}
