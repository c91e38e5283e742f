package repository

import (
	"strings"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/saturnino-fabrica-de-software/pontoface/internal/domain"
)

// isUniqueViolation checks if the error is a unique constraint violation
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "23505") ||
		strings.Contains(errMsg, "unique") ||
		strings.Contains(errMsg, "duplicate key")
}

// timeOfDayToPg converts a domain time-of-day to a TIME column value.
func timeOfDayToPg(t domain.TimeOfDay) pgtype.Time {
	return pgtype.Time{Microseconds: int64(t) * 1_000_000, Valid: true}
}

// timeOfDayFromPg reverses timeOfDayToPg, truncating sub-second precision.
func timeOfDayFromPg(t pgtype.Time) domain.TimeOfDay {
	return domain.TimeOfDay(t.Microseconds / 1_000_000)
}
