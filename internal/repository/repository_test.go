package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/pontoface/internal/domain"
)

// SampleRepository Tests

func TestSampleRepository_CreateBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("stores the whole batch in one transaction", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		samples := []domain.FaceSample{
			{EmployeeID: 101, Data: []byte("jpeg-1")},
			{EmployeeID: 101, Data: []byte("jpeg-2")},
		}

		mock.ExpectBegin()
		for range samples {
			mock.ExpectExec(`INSERT INTO face_samples`).
				WithArgs(pgxmock.AnyArg(), 101, pgxmock.AnyArg()).
				WillReturnResult(pgxmock.NewResult("INSERT", 1))
		}
		mock.ExpectCommit()

		repo := NewSampleRepository(mock)
		require.NoError(t, repo.CreateBatch(ctx, samples))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when one insert fails", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		samples := []domain.FaceSample{
			{EmployeeID: 101, Data: []byte("jpeg-1")},
			{EmployeeID: 101, Data: []byte("jpeg-2")},
		}

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO face_samples`).
			WithArgs(pgxmock.AnyArg(), 101, pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec(`INSERT INTO face_samples`).
			WithArgs(pgxmock.AnyArg(), 101, pgxmock.AnyArg()).
			WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		repo := NewSampleRepository(mock)
		err = repo.CreateBatch(ctx, samples)
		assert.ErrorIs(t, err, domain.ErrPersistence)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects an empty batch", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewSampleRepository(mock)
		err = repo.CreateBatch(ctx, nil)
		assert.ErrorIs(t, err, domain.ErrValidationFailed)
	})
}

func TestSampleRepository_ListAll(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"id", "employee_id", "sample", "created_at"}).
		AddRow(uuid.New(), 101, []byte("jpeg-1"), now).
		AddRow(uuid.New(), 102, []byte("jpeg-2"), now)

	mock.ExpectQuery(`SELECT id, employee_id, sample, created_at FROM face_samples`).
		WillReturnRows(rows)

	repo := NewSampleRepository(mock)
	samples, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, 101, samples[0].EmployeeID)
	assert.Equal(t, []byte("jpeg-2"), samples[1].Data)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSampleRepository_CountByEmployee(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM face_samples`).
		WithArgs(101).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(5))

	repo := NewSampleRepository(mock)
	count, err := repo.CountByEmployee(context.Background(), 101)
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

// AttendanceRepository Tests

func TestAttendanceRepository_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	tests := []struct {
		name      string
		mockSetup func(mock pgxmock.PgxPoolIface)
		wantErr   error
	}{
		{
			name: "successful insert",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`INSERT INTO attendance`).
					WithArgs(pgxmock.AnyArg(), 101, pgxmock.AnyArg(), pgxmock.AnyArg(), "Late", "Face").
					WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(now))
			},
			wantErr: nil,
		},
		{
			name: "unique violation maps to attendance exists",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`INSERT INTO attendance`).
					WithArgs(pgxmock.AnyArg(), 101, pgxmock.AnyArg(), pgxmock.AnyArg(), "Late", "Face").
					WillReturnError(errors.New(`duplicate key value violates unique constraint "attendance_employee_id_date_key" (SQLSTATE 23505)`))
			},
			wantErr: domain.ErrAttendanceExists,
		},
		{
			name: "other errors map to persistence",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`INSERT INTO attendance`).
					WithArgs(pgxmock.AnyArg(), 101, pgxmock.AnyArg(), pgxmock.AnyArg(), "Late", "Face").
					WillReturnError(errors.New("connection refused"))
			},
			wantErr: domain.ErrPersistence,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.mockSetup(mock)

			repo := NewAttendanceRepository(mock)
			record := &domain.AttendanceRecord{
				EmployeeID:         101,
				Date:               domain.DateOf(now),
				TimeIn:             domain.NewTimeOfDay(8, 5, 0),
				Status:             domain.StatusLate,
				VerificationMethod: domain.VerificationFace,
			}

			err = repo.Create(ctx, record)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.NotEqual(t, uuid.Nil, record.ID)
				assert.Equal(t, now, record.CreatedAt)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAttendanceRepository_ExistsForDay(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2026, 3, 9, 15, 30, 0, 0, time.UTC)

	for _, exists := range []bool{true, false} {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)

		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(101, domain.DateOf(day)).
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(exists))

		repo := NewAttendanceRepository(mock)
		got, err := repo.ExistsForDay(ctx, 101, day)
		require.NoError(t, err)
		assert.Equal(t, exists, got)
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	}
}

func TestAttendanceRepository_ListByDate(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	now := time.Now()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"id", "employee_id", "date", "time_in", "status", "verification_method", "created_at"}).
		AddRow(uuid.New(), 101, day, pgtype.Time{Microseconds: int64(8*3600+5*60) * 1_000_000, Valid: true}, "Late", "Face", now)

	mock.ExpectQuery(`SELECT id, employee_id, date, time_in, status, verification_method, created_at FROM attendance`).
		WithArgs(day).
		WillReturnRows(rows)

	repo := NewAttendanceRepository(mock)
	records, err := repo.ListByDate(ctx, day)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 101, records[0].EmployeeID)
	assert.Equal(t, domain.NewTimeOfDay(8, 5, 0), records[0].TimeIn)
	assert.Equal(t, domain.StatusLate, records[0].Status)
}

// SettingsRepository Tests

func TestSettingsRepository_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("returns configured work start", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT work_start_time FROM attendance_settings`).
			WillReturnRows(pgxmock.NewRows([]string{"work_start_time"}).
				AddRow(pgtype.Time{Microseconds: int64(8*3600) * 1_000_000, Valid: true}))

		repo := NewSettingsRepository(mock)
		settings, err := repo.Get(ctx)
		require.NoError(t, err)
		require.NotNil(t, settings)
		assert.Equal(t, domain.NewTimeOfDay(8, 0, 0), settings.WorkStart)
	})

	t.Run("absent row is a valid state", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT work_start_time FROM attendance_settings`).
			WillReturnError(pgx.ErrNoRows)

		repo := NewSettingsRepository(mock)
		settings, err := repo.Get(ctx)
		require.NoError(t, err)
		assert.Nil(t, settings)
	})
}

func TestSettingsRepository_Set(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(`INSERT INTO attendance_settings`).
		WithArgs(pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewSettingsRepository(mock)
	err = repo.Set(context.Background(), &domain.AttendanceSettings{WorkStart: domain.NewTimeOfDay(8, 0, 0)})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
