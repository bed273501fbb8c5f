package audit

import (
	"mgzdb/core/logger"
	"mgzdb/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for audits. It only reports; purging is
// left to the audit command.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the audit routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/audit")
	group.Get("/", h.HandleAudit)
	group.Get("/:hash", h.HandleCheck)
}

// HandleAudit returns the audit summary. ?details=true includes every
// inconsistent key.
// @Summary Audit Store
// @Description Compares file rows against stored objects without changing either.
// @Tags audit
// @Accept json
// @Produce json
// @Param details query bool false "Include every inconsistent hash"
// @Success 200 {object} map[string]interface{} "Audit Summary"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /audit [get]
func (h *Handler) HandleAudit(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	plan, _, err := h.service.Run(c.UserContext(), reconcile.Options{DryRun: true})
	if err != nil {
		l.Error("Audit failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	body := fiber.Map{"summary": plan.Summary}
	if c.QueryBool("details") {
		var inconsistent []reconcile.Result
		for _, r := range plan.Results {
			if !r.DBPresent || !r.StoragePresent {
				inconsistent = append(inconsistent, r)
			}
		}
		body["results"] = inconsistent
	}
	return c.JSON(body)
}

// HandleCheck reports on one content hash.
// @Summary Check Hash
// @Description Reports whether a content hash is present in the database and in storage.
// @Tags audit
// @Accept json
// @Produce json
// @Param hash path string true "Content Hash"
// @Success 200 {object} map[string]interface{} "Check Result"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /audit/{hash} [get]
func (h *Handler) HandleCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	result, err := h.service.Check(c.UserContext(), c.Params("hash"))
	if err != nil {
		l.Error("Audit check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(result)
}
