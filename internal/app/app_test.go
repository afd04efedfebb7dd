package app

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"legal_practice/internal/config"
)

func TestNewLogger(t *testing.T) {
	log := NewLogger(&config.Config{LogLevel: "debug"})
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, log.Formatter)

	log = NewLogger(&config.Config{IsProd: true, LogLevel: "loud"})
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)
}
