package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/saturnino-fabrica-de-software/pontoface/internal/domain"
)

type AttendanceRepository struct {
	pool PgxPool
}

func NewAttendanceRepository(pool PgxPool) *AttendanceRepository {
	return &AttendanceRepository{pool: pool}
}

// Create inserts one attendance record. The table carries a UNIQUE
// (employee_id, date) constraint; losing a check-then-insert race surfaces
// as domain.ErrAttendanceExists, never a double insert.
func (r *AttendanceRepository) Create(ctx context.Context, record *domain.AttendanceRecord) error {
	query := `
		INSERT INTO attendance (id, employee_id, date, time_in, status, verification_method, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING created_at
	`

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	err := r.pool.QueryRow(ctx, query,
		record.ID,
		record.EmployeeID,
		record.Date,
		timeOfDayToPg(record.TimeIn),
		string(record.Status),
		record.VerificationMethod,
	).Scan(&record.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAttendanceExists
		}
		return domain.ErrPersistence.WithError(fmt.Errorf("create attendance: %w", err))
	}

	return nil
}

func (r *AttendanceRepository) ExistsForDay(ctx context.Context, employeeID int, date time.Time) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM attendance WHERE employee_id = $1 AND date = $2)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, employeeID, domain.DateOf(date)).Scan(&exists); err != nil {
		return false, domain.ErrPersistence.WithError(fmt.Errorf("check attendance: %w", err))
	}
	return exists, nil
}

func (r *AttendanceRepository) ListByDate(ctx context.Context, date time.Time) ([]domain.AttendanceRecord, error) {
	query := `
		SELECT id, employee_id, date, time_in, status, verification_method, created_at
		FROM attendance
		WHERE date = $1
		ORDER BY time_in
	`

	rows, err := r.pool.Query(ctx, query, domain.DateOf(date))
	if err != nil {
		return nil, domain.ErrPersistence.WithError(fmt.Errorf("list attendance: %w", err))
	}
	defer rows.Close()

	return scanRecords(rows)
}

func (r *AttendanceRepository) ListByEmployee(ctx context.Context, employeeID int, limit int) ([]domain.AttendanceRecord, error) {
	query := `
		SELECT id, employee_id, date, time_in, status, verification_method, created_at
		FROM attendance
		WHERE employee_id = $1
		ORDER BY date DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, employeeID, limit)
	if err != nil {
		return nil, domain.ErrPersistence.WithError(fmt.Errorf("list attendance: %w", err))
	}
	defer rows.Close()

	return scanRecords(rows)
}

type pgxRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanRecords(rows pgxRows) ([]domain.AttendanceRecord, error) {
	var records []domain.AttendanceRecord
	for rows.Next() {
		var (
			rec    domain.AttendanceRecord
			timeIn pgtype.Time
			status string
		)
		if err := rows.Scan(&rec.ID, &rec.EmployeeID, &rec.Date, &timeIn, &status, &rec.VerificationMethod, &rec.CreatedAt); err != nil {
			return nil, domain.ErrPersistence.WithError(fmt.Errorf("scan attendance: %w", err))
		}
		rec.TimeIn = timeOfDayFromPg(timeIn)
		rec.Status = domain.Status(status)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrPersistence.WithError(fmt.Errorf("list attendance: %w", err))
	}
	return records, nil
}

var _ AttendanceRepositoryInterface = (*AttendanceRepository)(nil)
