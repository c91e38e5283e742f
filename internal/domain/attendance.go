package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status classifies an attendance event against the configured work start.
type Status string

const (
	StatusPresent Status = "Present"
	StatusLate    Status = "Late"
)

// VerificationFace is the only verification method this core writes.
const VerificationFace = "Face"

// AttendanceRecord registra a entrada de um funcionário em um dia.
// At most one record exists per (employee, date) pair.
type AttendanceRecord struct {
	ID                 uuid.UUID `json:"id"`
	EmployeeID         int       `json:"employee_id"`
	Date               time.Time `json:"date"`
	TimeIn             TimeOfDay `json:"time_in"`
	Status             Status    `json:"status"`
	VerificationMethod string    `json:"verification_method"`
	CreatedAt          time.Time `json:"created_at"`
}

// AttendanceSettings holds the single configured work-start time.
// The row may be absent, which is a valid state (defaults apply).
type AttendanceSettings struct {
	WorkStart TimeOfDay `json:"work_start_time"`
}

// TimeOfDay is a wall-clock time in seconds since midnight, independent of
// any date. Attendance status compares time-of-day only.
type TimeOfDay int

func NewTimeOfDay(hour, minute, second int) TimeOfDay {
	return TimeOfDay(hour*3600 + minute*60 + second)
}

// TimeOfDayOf extracts the wall-clock portion of t in its own location.
func TimeOfDayOf(t time.Time) TimeOfDay {
	h, m, s := t.Clock()
	return NewTimeOfDay(h, m, s)
}

// ParseTimeOfDay accepts "15:04" or "15:04:05".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return TimeOfDayOf(t), nil
		}
	}
	return 0, ErrValidationFailed.WithError(fmt.Errorf("invalid time of day %q", s))
}

func (t TimeOfDay) Clock() (hour, minute, second int) {
	return int(t) / 3600, int(t) % 3600 / 60, int(t) % 60
}

func (t TimeOfDay) After(u TimeOfDay) bool {
	return t > u
}

func (t TimeOfDay) String() string {
	h, m, s := t.Clock()
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// StatusFor derives the attendance status for a check-in time. A nil
// workStart means no settings row is configured and the default applies.
// Late requires the time-of-day to be strictly after the work start;
// checking in exactly at the work start is Present.
func StatusFor(timeIn time.Time, workStart *TimeOfDay) Status {
	if workStart == nil {
		return StatusPresent
	}
	if TimeOfDayOf(timeIn).After(*workStart) {
		return StatusLate
	}
	return StatusPresent
}

// DateOf truncates t to its calendar date in its own location.
func DateOf(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
