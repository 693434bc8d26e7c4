package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	originalOutput := logger.Out
	logger.SetOutput(&buf)
	defer logger.SetOutput(originalOutput)

	SetLevel(InfoLevel)

	Debugf("debug message")
	assert.Empty(t, buf.String())

	buf.Reset()
	Infof("info message")
	assert.Contains(t, buf.String(), "info message")
}

func TestFileLogging(t *testing.T) {
	logPath := t.TempDir() + "/logs/aircycle.log"
	originalOutput := logger.Out
	defer logger.SetOutput(originalOutput)

	assert.NoError(t, EnableFileLogging(logPath, 1, 1, 1))
}
