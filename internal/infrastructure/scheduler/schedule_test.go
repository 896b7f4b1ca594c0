package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIntervalSchedule_Next(t *testing.T) {
	s := NewIntervalSchedule(15 * time.Minute)

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, now.Add(15*time.Minute), s.Next(now))
	assert.Equal(t, "@every 15m0s", s.String())
}

func TestDailySchedule_NextSameDay(t *testing.T) {
	s := NewDailySchedule(4, 0)

	morning := time.Date(2026, 3, 10, 2, 30, 0, 0, time.UTC)
	next := s.Next(morning)
	assert.Equal(t, time.Date(2026, 3, 10, 4, 0, 0, 0, time.UTC), next)
}

func TestDailySchedule_RollsOverToNextDay(t *testing.T) {
	s := NewDailySchedule(4, 0)

	afternoon := time.Date(2026, 3, 10, 16, 0, 0, 0, time.UTC)
	next := s.Next(afternoon)
	assert.Equal(t, time.Date(2026, 3, 11, 4, 0, 0, 0, time.UTC), next)

	// Точное совпадение со временем запуска переносится на завтра.
	exact := time.Date(2026, 3, 10, 4, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 11, 4, 0, 0, 0, time.UTC), s.Next(exact))
}

func TestDailySchedule_ClampsInvalidTime(t *testing.T) {
	s := NewDailySchedule(30, 99)
	assert.Equal(t, 0, s.Hour)
	assert.Equal(t, 0, s.Minute)
}
