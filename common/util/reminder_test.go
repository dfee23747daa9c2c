package util

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

func TestReminder(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	reminder := NewReminder(logger, time.Hour)
	reminder.RemindWith("progress", "nodes", 1)

	entry := hook.LastEntry()
	assert.Equal(t, logrus.DebugLevel, entry.Level)
	assert.Equal(t, 1, entry.Data["nodes"])

	// promoted once the interval elapsed
	reminder.start = time.Now().Add(-2 * time.Hour)
	reminder.Remind("progress")
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)

	reminder.Remind("progress")
	assert.Equal(t, logrus.DebugLevel, hook.LastEntry().Level)
}
