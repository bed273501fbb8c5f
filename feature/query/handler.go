package query

import (
	"errors"

	"mgzdb/core/logger"
	"mgzdb/feature/records"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for reports.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers the query routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/matches/:id", h.HandleMatch)
	app.Get("/files/:id", h.HandleFile)
	app.Get("/series/:id", h.HandleSeries)
	app.Get("/summary", h.HandleSummary)
}

// HandleMatch reports on one match.
// @Summary Match Report
// @Description Returns the match with its files, players and tags.
// @Tags query
// @Accept json
// @Produce json
// @Param id path int true "Match ID"
// @Success 200 {object} map[string]interface{} "Match Report"
// @Failure 400 {object} map[string]string "Invalid ID"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /matches/{id} [get]
func (h *Handler) HandleMatch(c *fiber.Ctx) error {
	return h.report(c, KindMatch)
}

// HandleFile reports on one stored file.
// @Summary File Report
// @Description Returns a stored file with its source and parse metadata.
// @Tags query
// @Accept json
// @Produce json
// @Param id path int true "File ID"
// @Success 200 {object} map[string]interface{} "File Report"
// @Failure 400 {object} map[string]string "Invalid ID"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /files/{id} [get]
func (h *Handler) HandleFile(c *fiber.Ctx) error {
	return h.report(c, KindFile)
}

// HandleSeries reports on one series.
// @Summary Series Report
// @Description Returns a series with the matches it groups.
// @Tags query
// @Accept json
// @Produce json
// @Param id path int true "Series ID"
// @Success 200 {object} map[string]interface{} "Series Report"
// @Failure 400 {object} map[string]string "Invalid ID"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /series/{id} [get]
func (h *Handler) HandleSeries(c *fiber.Ctx) error {
	return h.report(c, KindSeries)
}

// HandleSummary reports database totals.
// @Summary Database Summary
// @Description Returns row counts for matches, files, players and series.
// @Tags query
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "Summary"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /summary [get]
func (h *Handler) HandleSummary(c *fiber.Ctx) error {
	return h.report(c, KindSummary)
}

func (h *Handler) report(c *fiber.Ctx, kind string) error {
	l := logger.WithRayID(h.logger, c)

	report, err := h.service.Run(c.UserContext(), kind, c.Params("id"))
	switch {
	case err == nil:
		return c.JSON(report)
	case errors.Is(err, ErrInvalidID):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, records.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	default:
		l.Error("Query failed", zap.String("kind", kind), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
