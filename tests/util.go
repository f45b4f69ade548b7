package testutil

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/trezcool/ielts/core"
	"github.com/trezcool/ielts/core/student"
)

// Logger is a core.Logger that keeps log entries in memory.
type Logger struct {
	mu      sync.Mutex
	Entries []string
}

var _ core.Logger = (*Logger)(nil)

func (l *Logger) log(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Entries = append(l.Entries, fmt.Sprintf("%s: %s", level, msg))
}

func (l *Logger) Debug(msg string, _ ...interface{}) { l.log("DEBUG", msg) }
func (l *Logger) Info(msg string, _ ...interface{})  { l.log("INFO", msg) }
func (l *Logger) Warn(msg string, _ ...interface{})  { l.log("WARN", msg) }
func (l *Logger) Error(msg string, _ ...interface{}) { l.log("ERROR", msg) }
func (l *Logger) Fatal(msg string, _ ...interface{}) { l.log("FATAL", msg) }

// Count returns the number of entries logged at the given level.
func (l *Logger) Count(level string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	var n int
	for _, e := range l.Entries {
		if len(e) > len(level) && e[:len(level)] == level {
			n++
		}
	}
	return n
}

// NewUser returns a logged in student.
func NewUser(t *testing.T, id, name, surname, group string) student.User {
	t.Helper()
	return student.User{
		ID:        id,
		Name:      name,
		Surname:   surname,
		Group:     group,
		LoginTime: time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC),
	}
}

// FixedClock returns a mockable now func whose time can be moved forward.
func FixedClock(start time.Time) (now func() time.Time, advance func(time.Duration)) {
	var mu sync.Mutex
	curr := start
	now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return curr
	}
	advance = func(d time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		curr = curr.Add(d)
	}
	return now, advance
}
