package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/saturnino-fabrica-de-software/pontoface/internal/domain"
)

type SettingsRepository struct {
	pool PgxPool
}

func NewSettingsRepository(pool PgxPool) *SettingsRepository {
	return &SettingsRepository{pool: pool}
}

// Get returns the configured settings, or (nil, nil) when the single row
// has never been written. Absence is a valid configured state.
func (r *SettingsRepository) Get(ctx context.Context) (*domain.AttendanceSettings, error) {
	query := `SELECT work_start_time FROM attendance_settings LIMIT 1`

	var workStart pgtype.Time
	err := r.pool.QueryRow(ctx, query).Scan(&workStart)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.ErrPersistence.WithError(fmt.Errorf("get settings: %w", err))
	}

	return &domain.AttendanceSettings{WorkStart: timeOfDayFromPg(workStart)}, nil
}

// Set writes the single settings row, creating or replacing it.
func (r *SettingsRepository) Set(ctx context.Context, settings *domain.AttendanceSettings) error {
	query := `
		INSERT INTO attendance_settings (id, work_start_time)
		VALUES (TRUE, $1)
		ON CONFLICT (id) DO UPDATE SET work_start_time = EXCLUDED.work_start_time
	`

	if _, err := r.pool.Exec(ctx, query, timeOfDayToPg(settings.WorkStart)); err != nil {
		return domain.ErrPersistence.WithError(fmt.Errorf("set settings: %w", err))
	}
	return nil
}

var _ SettingsRepositoryInterface = (*SettingsRepository)(nil)
