package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/pontoface/internal/domain"
)

type SampleRepository struct {
	pool PgxPool
}

func NewSampleRepository(pool PgxPool) *SampleRepository {
	return &SampleRepository{pool: pool}
}

// CreateBatch stores one enrollment batch in a single transaction, so a
// failed write never leaves a partial batch behind.
func (r *SampleRepository) CreateBatch(ctx context.Context, samples []domain.FaceSample) error {
	if len(samples) == 0 {
		return domain.ErrValidationFailed.WithError(fmt.Errorf("empty sample batch"))
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.ErrPersistence.WithError(fmt.Errorf("begin sample batch: %w", err))
	}

	query := `
		INSERT INTO face_samples (id, employee_id, sample, created_at)
		VALUES ($1, $2, $3, NOW())
	`

	for i := range samples {
		if samples[i].ID == uuid.Nil {
			samples[i].ID = uuid.New()
		}
		if _, err := tx.Exec(ctx, query, samples[i].ID, samples[i].EmployeeID, samples[i].Data); err != nil {
			_ = tx.Rollback(ctx)
			return domain.ErrPersistence.WithError(fmt.Errorf("insert sample %d: %w", i, err))
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.ErrPersistence.WithError(fmt.Errorf("commit sample batch: %w", err))
	}
	return nil
}

// ListAll returns every stored sample, ordered so retraining is
// deterministic.
func (r *SampleRepository) ListAll(ctx context.Context) ([]domain.FaceSample, error) {
	query := `
		SELECT id, employee_id, sample, created_at
		FROM face_samples
		ORDER BY employee_id, created_at, id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, domain.ErrPersistence.WithError(fmt.Errorf("list samples: %w", err))
	}
	defer rows.Close()

	var samples []domain.FaceSample
	for rows.Next() {
		var s domain.FaceSample
		if err := rows.Scan(&s.ID, &s.EmployeeID, &s.Data, &s.CreatedAt); err != nil {
			return nil, domain.ErrPersistence.WithError(fmt.Errorf("scan sample: %w", err))
		}
		samples = append(samples, s)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrPersistence.WithError(fmt.Errorf("list samples: %w", err))
	}

	return samples, nil
}

func (r *SampleRepository) CountByEmployee(ctx context.Context, employeeID int) (int, error) {
	query := `SELECT COUNT(*) FROM face_samples WHERE employee_id = $1`

	var count int
	if err := r.pool.QueryRow(ctx, query, employeeID).Scan(&count); err != nil {
		return 0, domain.ErrPersistence.WithError(fmt.Errorf("count samples: %w", err))
	}
	return count, nil
}

var _ SampleRepositoryInterface = (*SampleRepository)(nil)
