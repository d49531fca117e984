package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/art-rental-backend/internal/config"
)

func TestConfigureProductionUsesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := configure(logrus.New(), &buf, &config.Config{Environment: "production", LogLevel: "warn"})

	assert.Equal(t, logrus.WarnLevel, log.GetLevel())

	log.WithField("rental", "abc").Warn("Rental approved")
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Rental approved", entry["msg"])
	assert.Equal(t, "abc", entry["rental"])
}

func TestConfigureDevelopmentUsesText(t *testing.T) {
	var buf bytes.Buffer
	log := configure(logrus.New(), &buf, &config.Config{Environment: "development", LogLevel: "debug"})

	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, log.Formatter)
}

func TestConfigureUnknownLevel(t *testing.T) {
	var buf bytes.Buffer
	log := configure(logrus.New(), &buf, &config.Config{LogLevel: "loud"})

	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	assert.Contains(t, buf.String(), "Unknown log level")
}
