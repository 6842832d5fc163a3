package logger

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestNewWithConfig(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithConfig(&buf, "hope", log.InfoLevel, false, false, log.TextFormatter)
	l.SetStyles(Styles())

	l.Debug("hidden")
	l.Info("lookup", "code", "0101")
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "hope")
	assert.Contains(t, out, "code=0101")
}

func TestNewFollowsGlobalLevel(t *testing.T) {
	prev := log.GetLevel()
	defer log.SetLevel(prev)

	log.SetLevel(log.ErrorLevel)
	assert.Equal(t, log.ErrorLevel, New("x").GetLevel())
}
