// internal/logger/logger.go
package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/javajoker/art-rental-backend/internal/config"
)

// Setup configures the standard logrus logger for the given environment.
// Unknown levels fall back to info.
func Setup(cfg *config.Config) *logrus.Logger {
	return configure(logrus.StandardLogger(), os.Stdout, cfg)
}

func configure(log *logrus.Logger, out io.Writer, cfg *config.Config) *logrus.Logger {
	log.SetOutput(out)

	if cfg.IsProduction() {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("level", cfg.LogLevel).Warn("Unknown log level, using info")
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	return log
}
