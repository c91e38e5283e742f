package attendance

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/pontoface/internal/domain"
)

type MockAttendanceRepository struct {
	mock.Mock
}

func (m *MockAttendanceRepository) Create(ctx context.Context, record *domain.AttendanceRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockAttendanceRepository) ExistsForDay(ctx context.Context, employeeID int, day time.Time) (bool, error) {
	args := m.Called(ctx, employeeID, day)
	return args.Bool(0), args.Error(1)
}

type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) Get(ctx context.Context) (*domain.AttendanceSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AttendanceSettings), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestRecorder_Record(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 5, 0, 0, time.UTC)
	workStart := domain.NewTimeOfDay(8, 0, 0)

	tests := []struct {
		name         string
		employeeID   int
		score        float64
		setupMocks   func(*MockAttendanceRepository, *MockSettingsRepository)
		wantErr      error
		wantDecision Decision
		wantStatus   domain.Status
	}{
		{
			name:         "score above threshold is not recognized",
			employeeID:   101,
			score:        150,
			setupMocks:   func(ar *MockAttendanceRepository, sr *MockSettingsRepository) {},
			wantDecision: DecisionNotRecognized,
		},
		{
			name:         "score exactly at threshold is not recognized",
			employeeID:   101,
			score:        100,
			setupMocks:   func(ar *MockAttendanceRepository, sr *MockSettingsRepository) {},
			wantDecision: DecisionNotRecognized,
		},
		{
			name:       "invalid employee id",
			employeeID: 0,
			score:      10,
			setupMocks: func(ar *MockAttendanceRepository, sr *MockSettingsRepository) {},
			wantErr:    domain.ErrInvalidEmployeeID,
		},
		{
			name:       "already recorded today",
			employeeID: 101,
			score:      10,
			setupMocks: func(ar *MockAttendanceRepository, sr *MockSettingsRepository) {
				ar.On("ExistsForDay", mock.Anything, 101, now).Return(true, nil)
			},
			wantDecision: DecisionAlreadyRecorded,
		},
		{
			name:       "late arrival",
			employeeID: 101,
			score:      40,
			setupMocks: func(ar *MockAttendanceRepository, sr *MockSettingsRepository) {
				ar.On("ExistsForDay", mock.Anything, 101, now).Return(false, nil)
				sr.On("Get", mock.Anything).Return(&domain.AttendanceSettings{WorkStart: workStart}, nil)
				ar.On("Create", mock.Anything, mock.AnythingOfType("*domain.AttendanceRecord")).Return(nil)
			},
			wantDecision: DecisionRecorded,
			wantStatus:   domain.StatusLate,
		},
		{
			name:       "no work start configured defaults to present",
			employeeID: 101,
			score:      40,
			setupMocks: func(ar *MockAttendanceRepository, sr *MockSettingsRepository) {
				ar.On("ExistsForDay", mock.Anything, 101, now).Return(false, nil)
				sr.On("Get", mock.Anything).Return(nil, nil)
				ar.On("Create", mock.Anything, mock.AnythingOfType("*domain.AttendanceRecord")).Return(nil)
			},
			wantDecision: DecisionRecorded,
			wantStatus:   domain.StatusPresent,
		},
		{
			name:       "lost insert race maps to already recorded",
			employeeID: 101,
			score:      40,
			setupMocks: func(ar *MockAttendanceRepository, sr *MockSettingsRepository) {
				ar.On("ExistsForDay", mock.Anything, 101, now).Return(false, nil)
				sr.On("Get", mock.Anything).Return(nil, nil)
				ar.On("Create", mock.Anything, mock.AnythingOfType("*domain.AttendanceRecord")).Return(domain.ErrAttendanceExists)
			},
			wantDecision: DecisionAlreadyRecorded,
		},
		{
			name:       "persistence failure surfaces",
			employeeID: 101,
			score:      40,
			setupMocks: func(ar *MockAttendanceRepository, sr *MockSettingsRepository) {
				ar.On("ExistsForDay", mock.Anything, 101, now).Return(false, domain.ErrPersistence)
			},
			wantErr: domain.ErrPersistence,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attendanceRepo := new(MockAttendanceRepository)
			settingsRepo := new(MockSettingsRepository)
			tt.setupMocks(attendanceRepo, settingsRepo)

			recorder := NewRecorder(attendanceRepo, settingsRepo, testLogger())
			outcome, err := recorder.Record(context.Background(), tt.employeeID, now, tt.score)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, outcome)
			assert.Equal(t, tt.wantDecision, outcome.Decision)

			if tt.wantDecision == DecisionRecorded {
				require.NotNil(t, outcome.Record)
				assert.Equal(t, tt.employeeID, outcome.Record.EmployeeID)
				assert.Equal(t, tt.wantStatus, outcome.Record.Status)
				assert.Equal(t, domain.VerificationFace, outcome.Record.VerificationMethod)
				assert.Equal(t, domain.TimeOfDayOf(now), outcome.Record.TimeIn)
			} else {
				assert.Nil(t, outcome.Record)
			}

			attendanceRepo.AssertExpectations(t)
			settingsRepo.AssertExpectations(t)
		})
	}
}

func TestRecorder_WithThreshold(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	attendanceRepo := new(MockAttendanceRepository)
	settingsRepo := new(MockSettingsRepository)
	attendanceRepo.On("ExistsForDay", mock.Anything, 7, now).Return(false, nil)
	settingsRepo.On("Get", mock.Anything).Return(nil, nil)
	attendanceRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.AttendanceRecord")).Return(nil)

	recorder := NewRecorder(attendanceRepo, settingsRepo, testLogger()).WithThreshold(60)

	outcome, err := recorder.Record(context.Background(), 7, now, 59.9)
	require.NoError(t, err)
	assert.Equal(t, DecisionRecorded, outcome.Decision)

	outcome, err = recorder.Record(context.Background(), 7, now, 60)
	require.NoError(t, err)
	assert.Equal(t, DecisionNotRecognized, outcome.Decision)
}
