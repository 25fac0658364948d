package logger

import (
	"bytes"
	"testing"

	"github.com/kozaktomas/pose-detector/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNew_Level(t *testing.T) {
	tests := []struct {
		level    string
		expected logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"warn", logrus.WarnLevel},
		{"", logrus.InfoLevel},
		{"loud", logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			l := New(config.LogConfig{Level: tt.level}, &bytes.Buffer{})
			assert.Equal(t, tt.expected, l.GetLevel())
		})
	}
}

func TestNew_WritesFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(config.LogConfig{Level: "info"}, &buf)

	l.WithFields(Fields{"label": "T-Pose"}).Info("pose changed")
	l.Debug("hidden")

	out := buf.String()
	assert.Contains(t, out, "pose changed")
	assert.Contains(t, out, "T-Pose")
	assert.NotContains(t, out, "hidden")
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.Info("nothing")
	assert.NotNil(t, l)
}
