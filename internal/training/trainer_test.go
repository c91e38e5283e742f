package training

import (
	"context"
	"image"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/pontoface/internal/domain"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/vision"
	visionmock "github.com/saturnino-fabrica-de-software/pontoface/internal/vision/mock"
)

type MockSampleRepository struct {
	mock.Mock
}

func (m *MockSampleRepository) ListAll(ctx context.Context) ([]domain.FaceSample, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FaceSample), args.Error(1)
}

func encodedFace(t *testing.T, size int, level uint8) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.SetGray(x, y, color.Gray{Y: level})
		}
	}
	data, err := vision.Encode(img)
	require.NoError(t, err)
	return data
}

func TestTrainer_Train(t *testing.T) {
	modelPath := filepath.Join(t.TempDir(), "face_model.yml")
	backend := visionmock.New()
	normalizer := vision.NewNormalizer(200)
	logger := slog.New(slog.DiscardHandler)

	sampleRepo := new(MockSampleRepository)
	sampleRepo.On("ListAll", mock.Anything).Return([]domain.FaceSample{
		{EmployeeID: 101, Data: encodedFace(t, 200, 40)},
		{EmployeeID: 101, Data: encodedFace(t, 200, 45)},
		{EmployeeID: 102, Data: encodedFace(t, 200, 210)},
	}, nil)

	trainer := NewTrainer(sampleRepo, backend, normalizer, modelPath, logger)
	result, err := trainer.Train(context.Background())
	require.NoError(t, err)

	assert.False(t, result.Skipped)
	assert.Equal(t, 2, result.Employees)
	assert.Equal(t, 3, result.Samples)

	_, err = os.Stat(modelPath)
	require.NoError(t, err, "training must persist the model artifact")

	classifier, err := backend.NewClassifier()
	require.NoError(t, err)
	defer classifier.Close()
	require.NoError(t, classifier.Load(modelPath))

	brightGray, err := normalizer.Decode(encodedFace(t, 200, 205))
	require.NoError(t, err)
	label, _, err := classifier.Predict(brightGray)
	require.NoError(t, err)
	assert.Equal(t, 102, label)

	sampleRepo.AssertExpectations(t)
}

func TestTrainer_Train_NoSamples(t *testing.T) {
	modelPath := filepath.Join(t.TempDir(), "face_model.yml")
	sampleRepo := new(MockSampleRepository)
	sampleRepo.On("ListAll", mock.Anything).Return([]domain.FaceSample{}, nil)

	trainer := NewTrainer(sampleRepo, visionmock.New(), vision.NewNormalizer(200), modelPath, slog.New(slog.DiscardHandler))
	result, err := trainer.Train(context.Background())
	require.NoError(t, err)

	assert.True(t, result.Skipped)
	_, err = os.Stat(modelPath)
	assert.True(t, os.IsNotExist(err), "a skipped run must not touch the artifact")
}

func TestTrainer_Train_CorruptSample(t *testing.T) {
	sampleRepo := new(MockSampleRepository)
	sampleRepo.On("ListAll", mock.Anything).Return([]domain.FaceSample{
		{EmployeeID: 101, Data: []byte("not a jpeg")},
	}, nil)

	trainer := NewTrainer(sampleRepo, visionmock.New(), vision.NewNormalizer(200), filepath.Join(t.TempDir(), "m.yml"), slog.New(slog.DiscardHandler))
	_, err := trainer.Train(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidationFailed)
}

func TestTrainer_Train_RepositoryError(t *testing.T) {
	sampleRepo := new(MockSampleRepository)
	sampleRepo.On("ListAll", mock.Anything).Return(nil, domain.ErrPersistence)

	trainer := NewTrainer(sampleRepo, visionmock.New(), vision.NewNormalizer(200), filepath.Join(t.TempDir(), "m.yml"), slog.New(slog.DiscardHandler))
	_, err := trainer.Train(context.Background())
	assert.ErrorIs(t, err, domain.ErrPersistence)
}
