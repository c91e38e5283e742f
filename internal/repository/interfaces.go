package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/saturnino-fabrica-de-software/pontoface/internal/domain"
)

// PgxPool is the subset of *pgxpool.Pool the repositories use; pgxmock
// satisfies it in tests.
type PgxPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// SampleRepositoryInterface defines operations for face sample data access
type SampleRepositoryInterface interface {
	CreateBatch(ctx context.Context, samples []domain.FaceSample) error
	ListAll(ctx context.Context) ([]domain.FaceSample, error)
	CountByEmployee(ctx context.Context, employeeID int) (int, error)
}

// AttendanceRepositoryInterface defines operations for attendance data access
type AttendanceRepositoryInterface interface {
	Create(ctx context.Context, record *domain.AttendanceRecord) error
	ExistsForDay(ctx context.Context, employeeID int, date time.Time) (bool, error)
	ListByDate(ctx context.Context, date time.Time) ([]domain.AttendanceRecord, error)
	ListByEmployee(ctx context.Context, employeeID int, limit int) ([]domain.AttendanceRecord, error)
}

// SettingsRepositoryInterface defines operations for the single-row
// attendance settings table
type SettingsRepositoryInterface interface {
	Get(ctx context.Context) (*domain.AttendanceSettings, error)
	Set(ctx context.Context, settings *domain.AttendanceSettings) error
}
