package handler

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/pontoface/internal/domain"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/repository"
)

const defaultEmployeeListLimit = 30

type AttendanceHandler struct {
	attendanceRepo repository.AttendanceRepositoryInterface
	logger         *slog.Logger
}

func NewAttendanceHandler(attendanceRepo repository.AttendanceRepositoryInterface, logger *slog.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		attendanceRepo: attendanceRepo,
		logger:         logger,
	}
}

type AttendanceListResponse struct {
	Date    string                    `json:"date"`
	Records []domain.AttendanceRecord `json:"records"`
}

// ListByDate handles GET /v1/attendance?date=2006-01-02 (defaults to today).
func (h *AttendanceHandler) ListByDate(c *fiber.Ctx) error {
	date := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return domain.ErrValidationFailed.WithError(err)
		}
		date = parsed
	}

	records, err := h.attendanceRepo.ListByDate(c.Context(), date)
	if err != nil {
		return err
	}

	return c.JSON(AttendanceListResponse{
		Date:    domain.DateOf(date).Format("2006-01-02"),
		Records: records,
	})
}

type EmployeeAttendanceResponse struct {
	EmployeeID int                       `json:"employee_id"`
	Records    []domain.AttendanceRecord `json:"records"`
}

// ListByEmployee handles GET /v1/attendance/:employee_id with an optional
// limit query, newest first.
func (h *AttendanceHandler) ListByEmployee(c *fiber.Ctx) error {
	employeeID, err := strconv.Atoi(c.Params("employee_id"))
	if err != nil || employeeID <= 0 {
		return domain.ErrInvalidEmployeeID
	}

	limit := defaultEmployeeListLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return domain.ErrValidationFailed
		}
		limit = parsed
	}

	records, err := h.attendanceRepo.ListByEmployee(c.Context(), employeeID, limit)
	if err != nil {
		return err
	}

	return c.JSON(EmployeeAttendanceResponse{
		EmployeeID: employeeID,
		Records:    records,
	})
}
