package util

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Reminder is used for time consuming operations to remind user about progress. Progress is
// logged at debug level in general, and promoted to info level once per interval so that long
// running operations remain visible without verbose logging.
type Reminder struct {
	start    time.Time      // start time since last promoted reminder
	interval time.Duration  // interval to remind once at info level, 0 to never promote
	logger   *logrus.Logger // logger to remind with
}

// NewReminder returns a new Reminder instance.
func NewReminder(logger *logrus.Logger, interval time.Duration) *Reminder {
	return &Reminder{
		start:    time.Now(),
		interval: interval,
		logger:   logger,
	}
}

// RemindWith reminds about specified `message` along with `key` and `value`.
func (reminder *Reminder) RemindWith(message string, key string, value interface{}) {
	reminder.Remind(message, logrus.Fields{key: value})
}

// Remind reminds about specified `message` and optional `fields`.
func (reminder *Reminder) Remind(message string, fields ...logrus.Fields) {
	level := logrus.DebugLevel
	if reminder.interval > 0 && time.Since(reminder.start) > reminder.interval {
		level = logrus.InfoLevel
		reminder.start = time.Now()
	}

	entry := logrus.NewEntry(reminder.logger)
	if len(fields) > 0 {
		entry = entry.WithFields(fields[0])
	}

	entry.Log(level, message)
}
