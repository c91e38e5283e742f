package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/pontoface/internal/domain"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/repository"
)

type SettingsHandler struct {
	settingsRepo repository.SettingsRepositoryInterface
	logger       *slog.Logger
}

func NewSettingsHandler(settingsRepo repository.SettingsRepositoryInterface, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{
		settingsRepo: settingsRepo,
		logger:       logger,
	}
}

type SettingsResponse struct {
	WorkStartTime string `json:"work_start_time"`
}

type SettingsRequest struct {
	WorkStartTime string `json:"work_start_time"`
}

// Get handles GET /v1/settings. An unconfigured work start is a 404, not
// an error state; attendance then defaults to Present.
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	settings, err := h.settingsRepo.Get(c.Context())
	if err != nil {
		return err
	}
	if settings == nil {
		return domain.ErrSettingsNotFound
	}
	return c.JSON(SettingsResponse{WorkStartTime: settings.WorkStart.String()})
}

// Put handles PUT /v1/settings, replacing the single work-start row.
func (h *SettingsHandler) Put(c *fiber.Ctx) error {
	var req SettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrValidationFailed.WithError(err)
	}

	workStart, err := domain.ParseTimeOfDay(req.WorkStartTime)
	if err != nil {
		return err
	}

	settings := &domain.AttendanceSettings{WorkStart: workStart}
	if err := h.settingsRepo.Set(c.Context(), settings); err != nil {
		return err
	}

	h.logger.Info("work start updated", slog.String("work_start_time", workStart.String()))
	return c.JSON(SettingsResponse{WorkStartTime: workStart.String()})
}
