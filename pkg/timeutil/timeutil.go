// Package timeutil provides calendar-boundary helpers for SkillSwap Community Hub.
// Leaderboard windows (monthly learner counts, session progress) are defined by
// wall-clock month boundaries, so start/end-of-period math lives here in one place.
// No external dependencies - uses only standard library.
package timeutil

import (
	"fmt"
	"time"
)

// CommunityTZ is the timezone used for all calendar windows. The reference
// community is Bay Area based, but boundaries must stay stable regardless of
// where a server runs, so the zone is fixed rather than taken from the host.
var CommunityTZ = time.UTC

// SetCommunityTZ overrides the community timezone (called once from config at startup).
func SetCommunityTZ(loc *time.Location) {
	if loc != nil {
		CommunityTZ = loc
	}
}

// Now returns the current time in the community timezone.
func Now() time.Time {
	return time.Now().In(CommunityTZ)
}

// ToCommunity converts a time to the community timezone.
func ToCommunity(t time.Time) time.Time {
	return t.In(CommunityTZ)
}

// StartOfDay returns the start of the day (00:00:00) in the community timezone.
func StartOfDay(t time.Time) time.Time {
	local := ToCommunity(t)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, CommunityTZ)
}

// EndOfDay returns the end of the day (23:59:59.999999999) in the community timezone.
func EndOfDay(t time.Time) time.Time {
	local := ToCommunity(t)
	return time.Date(local.Year(), local.Month(), local.Day(), 23, 59, 59, 999999999, CommunityTZ)
}

// StartOfWeek returns the start of the week (Monday 00:00:00) in the community timezone.
func StartOfWeek(t time.Time) time.Time {
	local := ToCommunity(t)
	weekday := int(local.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday
	}
	daysToSubtract := weekday - 1 // Monday = 1
	return StartOfDay(local.AddDate(0, 0, -daysToSubtract))
}

// EndOfWeek returns the end of the week (Sunday 23:59:59) in the community timezone.
func EndOfWeek(t time.Time) time.Time {
	start := StartOfWeek(t)
	return EndOfDay(start.AddDate(0, 0, 6))
}

// StartOfMonth returns the start of the month in the community timezone.
func StartOfMonth(t time.Time) time.Time {
	local := ToCommunity(t)
	return time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, CommunityTZ)
}

// EndOfMonth returns the end of the month in the community timezone.
func EndOfMonth(t time.Time) time.Time {
	start := StartOfMonth(t)
	return EndOfDay(start.AddDate(0, 1, -1))
}

// WithinMonth reports whether t falls inside the month containing ref,
// boundary-inclusive on both ends. A timestamp exactly at the month start
// counts; one nanosecond before it does not.
func WithinMonth(t, ref time.Time) bool {
	start := StartOfMonth(ref)
	end := EndOfMonth(ref)
	local := ToCommunity(t)
	return !local.Before(start) && !local.After(end)
}

// IsToday checks if the given time is today in the community timezone.
func IsToday(t time.Time) bool {
	now := Now()
	local := ToCommunity(t)
	return local.Year() == now.Year() &&
		local.Month() == now.Month() &&
		local.Day() == now.Day()
}

// DaysBetween calculates the number of days between two times.
func DaysBetween(t1, t2 time.Time) int {
	a1 := StartOfDay(t1)
	a2 := StartOfDay(t2)
	duration := a2.Sub(a1)
	days := int(duration.Hours() / 24)
	if days < 0 {
		days = -days
	}
	return days
}

// Common date/time formats.
const (
	// FormatDate is the standard date format (YYYY-MM-DD).
	FormatDate = "2006-01-02"
	// FormatTime is the standard time format (HH:MM).
	FormatTime = "15:04"
	// FormatDateTime is the standard datetime format.
	FormatDateTime = "2006-01-02 15:04"
	// FormatHumanDate is a human-readable format.
	FormatHumanDate = "2 January 2006"
	// FormatShortDate is a short format (Jan 2).
	FormatShortDate = "Jan 2"
	// FormatSessionSlot is the format shown on session cards (Aug 15, 10:00 AM).
	FormatSessionSlot = "Jan 2, 3:04 PM"
)

// FormatDateStr formats a time as a date string (YYYY-MM-DD) in the community timezone.
func FormatDateStr(t time.Time) string {
	return ToCommunity(t).Format(FormatDate)
}

// FormatSessionSlotStr formats a time the way session cards display it.
func FormatSessionSlotStr(t time.Time) string {
	return ToCommunity(t).Format(FormatSessionSlot)
}

// FormatRelative returns a human-readable relative time string.
func FormatRelative(t time.Time) string {
	now := Now()
	local := ToCommunity(t)
	duration := now.Sub(local)

	if duration < 0 {
		return formatFutureDuration(-duration)
	}
	return formatPastDuration(duration)
}

func formatPastDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%d min ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "yesterday"
		}
		return fmt.Sprintf("%dd ago", days)
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dw ago", int(d.Hours()/24/7))
	default:
		months := int(d.Hours() / 24 / 30)
		if months < 12 {
			return fmt.Sprintf("%dmo ago", months)
		}
		return fmt.Sprintf("%dy ago", months/12)
	}
}

func formatFutureDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("in %d min", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("in %dh", int(d.Hours()))
	default:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "tomorrow"
		}
		return fmt.Sprintf("in %dd", days)
	}
}

// IsSameDay checks if two times are on the same day in the community timezone.
func IsSameDay(t1, t2 time.Time) bool {
	a1, a2 := ToCommunity(t1), ToCommunity(t2)
	return a1.Year() == a2.Year() && a1.YearDay() == a2.YearDay()
}
