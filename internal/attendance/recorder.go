package attendance

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/saturnino-fabrica-de-software/pontoface/internal/domain"
)

type AttendanceRepositoryInterface interface {
	Create(ctx context.Context, record *domain.AttendanceRecord) error
	ExistsForDay(ctx context.Context, employeeID int, day time.Time) (bool, error)
}

type SettingsRepositoryInterface interface {
	Get(ctx context.Context) (*domain.AttendanceSettings, error)
}

// Decision classifies the outcome of a recognition feed.
type Decision string

const (
	DecisionRecorded        Decision = "recorded"
	DecisionAlreadyRecorded Decision = "already_recorded"
	DecisionNotRecognized   Decision = "not_recognized"
)

// Outcome is the result of feeding one recognition into the recorder.
// Record is set only when Decision is DecisionRecorded.
type Outcome struct {
	Decision Decision
	Record   *domain.AttendanceRecord
}

// Recorder turns classifier matches into attendance rows. A match above
// the score threshold is discarded, and each employee gets at most one
// row per calendar day.
type Recorder struct {
	attendanceRepo AttendanceRepositoryInterface
	settingsRepo   SettingsRepositoryInterface
	threshold      float64
	logger         *slog.Logger
}

func NewRecorder(
	attendanceRepo AttendanceRepositoryInterface,
	settingsRepo SettingsRepositoryInterface,
	logger *slog.Logger,
) *Recorder {
	return &Recorder{
		attendanceRepo: attendanceRepo,
		settingsRepo:   settingsRepo,
		threshold:      100,
		logger:         logger,
	}
}

func (r *Recorder) WithThreshold(threshold float64) *Recorder {
	r.threshold = threshold
	return r
}

// Record applies the threshold and dedup gates to a classifier match and,
// when both pass, persists an attendance row stamped at now. Scores use
// distance semantics: lower means more similar, and a score at or above
// the threshold is treated as no match.
func (r *Recorder) Record(ctx context.Context, employeeID int, now time.Time, score float64) (*Outcome, error) {
	if employeeID <= 0 {
		return nil, domain.ErrInvalidEmployeeID
	}

	if score >= r.threshold {
		r.logger.Debug("match above threshold, ignoring",
			slog.Int("employee_id", employeeID),
			slog.Float64("score", score),
		)
		return &Outcome{Decision: DecisionNotRecognized}, nil
	}

	exists, err := r.attendanceRepo.ExistsForDay(ctx, employeeID, now)
	if err != nil {
		return nil, err
	}
	if exists {
		return &Outcome{Decision: DecisionAlreadyRecorded}, nil
	}

	settings, err := r.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	var workStart *domain.TimeOfDay
	if settings != nil {
		workStart = &settings.WorkStart
	}

	record := &domain.AttendanceRecord{
		EmployeeID:         employeeID,
		Date:               domain.DateOf(now),
		TimeIn:             domain.TimeOfDayOf(now),
		Status:             domain.StatusFor(now, workStart),
		VerificationMethod: domain.VerificationFace,
	}

	if err := r.attendanceRepo.Create(ctx, record); err != nil {
		// Lost a race with a concurrent feed for the same employee; the
		// unique constraint is the authority on dedup.
		if errors.Is(err, domain.ErrAttendanceExists) {
			return &Outcome{Decision: DecisionAlreadyRecorded}, nil
		}
		return nil, err
	}

	r.logger.Info("attendance recorded",
		slog.Int("employee_id", employeeID),
		slog.String("status", string(record.Status)),
		slog.String("time_in", record.TimeIn.String()),
	)

	return &Outcome{Decision: DecisionRecorded, Record: record}, nil
}
