package logging

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"creativecheck/internal/config"
)

// Setup configures the standard logrus logger from cfg. Unknown levels fall
// back to info.
func Setup(cfg config.LogConfig, out io.Writer) {
	if out != nil {
		logrus.SetOutput(out)
	}

	level, err := logrus.ParseLevel(strings.TrimSpace(cfg.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}
