// Package calendar computes start and end times against the factory work
// calendar: weekdays, 09:00-17:00, at most 8 hours of work per task per day.
//
// All functions are pure time arithmetic. Timestamps keep whatever location
// the caller passes in; day boundaries are evaluated in that location.
package calendar

import (
	"errors"
	"fmt"
	"time"
)

const (
	WorkStartHour = 9
	WorkEndHour   = 17

	// MaxDailyWorkMinutes caps a single task at one full workday.
	MaxDailyWorkMinutes = (WorkEndHour - WorkStartHour) * 60
)

var (
	// ErrDurationExceedsCapacity is returned when a task's duration exceeds
	// the 8-hour daily work span. Such a task must be split upstream.
	ErrDurationExceedsCapacity = errors.New("duration exceeds daily work capacity")

	// ErrNotWorkday is returned when a start time falls on a weekend.
	ErrNotWorkday = errors.New("start time is not on a workday")

	// ErrOutsideWorkWindow is returned when a start time's clock time is
	// before 09:00 or at/after 17:00.
	ErrOutsideWorkWindow = errors.New("start time is outside the work window")

	// ErrExceedsWorkWindow is returned when start plus duration would run
	// past the same day's 17:00. Callers that pre-validate with
	// NextAvailableStart should never see it.
	ErrExceedsWorkWindow = errors.New("work would run past the end of the work window")
)

// IsWorkday reports whether t falls on a Monday through Friday.
func IsWorkday(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// workStartOn returns 09:00:00 on t's calendar day.
func workStartOn(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), WorkStartHour, 0, 0, 0, t.Location())
}

// workEndOn returns 17:00:00 on t's calendar day.
func workEndOn(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), WorkEndHour, 0, 0, 0, t.Location())
}

// NextWorkStart returns the next work-start boundary (09:00 on a workday)
// on or after t.
//
// If t is on a workday before 09:00, that same day's 09:00 is returned.
// Otherwise the result is a strictly later day: once a day's window has
// opened, this function always rolls forward. Within-day packing is
// NextAvailableStart's job.
func NextWorkStart(t time.Time) time.Time {
	if IsWorkday(t) && t.Before(workStartOn(t)) {
		return workStartOn(t)
	}

	next := workStartOn(t.AddDate(0, 0, 1))
	for !IsWorkday(next) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// NextAvailableStart returns the earliest instant at or after current where a
// task of the given duration fits entirely inside one day's work window.
//
// The result is current itself when current already sits inside a window with
// enough of the day left; otherwise it is a 09:00 work-start boundary.
// Duration is in minutes and may be fractional.
func NextAvailableStart(current time.Time, durationMinutes float64) (time.Time, error) {
	if durationMinutes > MaxDailyWorkMinutes {
		return time.Time{}, fmt.Errorf(
			"next available start: %w: %.2f minutes (max %d)",
			ErrDurationExceedsCapacity, durationMinutes, MaxDailyWorkMinutes,
		)
	}

	// Normalize into a work window first.
	var start time.Time
	switch {
	case !IsWorkday(current) || !current.Before(workEndOn(current)):
		start = NextWorkStart(current)
	case current.Before(workStartOn(current)):
		start = workStartOn(current)
	default:
		start = current
	}

	// An end exactly at 17:00 is acceptable; anything past it is not.
	end := start.Add(minutesToDuration(durationMinutes))
	if end.After(workEndOn(start)) {
		return NextWorkStart(start), nil
	}

	return start, nil
}

// CalculateEndTime returns start plus duration, verifying that start is a
// valid in-window instant and that the work finishes by the same day's 17:00.
// There is no day-rollover here: start feasibility must already have been
// established via NextAvailableStart.
func CalculateEndTime(start time.Time, durationMinutes float64) (time.Time, error) {
	if !IsWorkday(start) {
		return time.Time{}, fmt.Errorf("calculate end time: %w: %s", ErrNotWorkday, start.Format(time.RFC3339))
	}

	if start.Before(workStartOn(start)) || !start.Before(workEndOn(start)) {
		return time.Time{}, fmt.Errorf(
			"calculate end time: %w: %s not in [%02d:00, %02d:00)",
			ErrOutsideWorkWindow, start.Format("15:04:05"), WorkStartHour, WorkEndHour,
		)
	}

	end := start.Add(minutesToDuration(durationMinutes))
	if end.After(workEndOn(start)) {
		return time.Time{}, fmt.Errorf(
			"calculate end time: %w: start=%s duration=%.2fmin end=%s",
			ErrExceedsWorkWindow, start.Format(time.RFC3339), durationMinutes, end.Format(time.RFC3339),
		)
	}

	return end, nil
}

func minutesToDuration(m float64) time.Duration {
	return time.Duration(m * float64(time.Minute))
}
