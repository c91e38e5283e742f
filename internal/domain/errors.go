package domain

import (
	"fmt"
)

type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches by code so errors.Is works across WithError copies.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:       e.Code,
		Message:    e.Message,
		StatusCode: e.StatusCode,
		Err:        err,
	}
}

// Pre-defined errors
var (
	ErrInternal = &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		StatusCode: 500,
	}

	ErrInvalidEmployeeID = &AppError{
		Code:       "INVALID_EMPLOYEE_ID",
		Message:    "Employee id is missing or not a positive integer",
		StatusCode: 422,
	}

	ErrValidationFailed = &AppError{
		Code:       "VALIDATION_FAILED",
		Message:    "Request validation failed",
		StatusCode: 422,
	}

	ErrCameraOpen = &AppError{
		Code:       "CAMERA_OPEN_FAILED",
		Message:    "Camera device could not be opened",
		StatusCode: 503,
	}

	ErrCameraRead = &AppError{
		Code:       "CAMERA_READ_FAILED",
		Message:    "Camera stopped delivering frames",
		StatusCode: 503,
	}

	// ErrModelUnavailable means recognition was attempted before any
	// training has ever produced an artifact. Distinct from a
	// low-confidence non-match, which is a normal result.
	ErrModelUnavailable = &AppError{
		Code:       "MODEL_UNAVAILABLE",
		Message:    "No trained recognition model is available",
		StatusCode: 409,
	}

	// ErrAttendanceExists maps the unique (employee, date) constraint; the
	// recorder turns it into the AlreadyRecorded outcome rather than a
	// caller-visible failure.
	ErrAttendanceExists = &AppError{
		Code:       "ATTENDANCE_EXISTS",
		Message:    "Attendance already recorded for this employee today",
		StatusCode: 409,
	}

	ErrPersistence = &AppError{
		Code:       "PERSISTENCE_ERROR",
		Message:    "A storage read or write failed",
		StatusCode: 500,
	}

	ErrSessionRunning = &AppError{
		Code:       "SESSION_ALREADY_RUNNING",
		Message:    "A recognition session is already running",
		StatusCode: 409,
	}

	ErrSettingsNotFound = &AppError{
		Code:       "SETTINGS_NOT_FOUND",
		Message:    "Attendance settings have not been configured",
		StatusCode: 404,
	}
)
