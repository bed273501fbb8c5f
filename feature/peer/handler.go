package peer

import (
	"errors"

	"mgzdb/core/logger"
	"mgzdb/feature/records"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler exposes a Peer over HTTP.
type Handler struct {
	peer   Peer
	logger *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(p Peer, logger *zap.Logger) *Handler {
	return &Handler{peer: p, logger: logger}
}

// RegisterRoutes registers the peer routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/peer")
	group.Get("/matches", h.HandleListMatches)
	group.Get("/files/:id", h.HandleGetFile)
}

// HandleListMatches returns every match with its files.
// @Summary List Peer Matches
// @Description Lists every match with its file ids so another instance can mirror them.
// @Tags peer
// @Accept json
// @Produce json
// @Success 200 {array} map[string]interface{} "Matches"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /peer/matches [get]
func (h *Handler) HandleListMatches(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	matches, err := h.peer.ListMatches(c.UserContext())
	if err != nil {
		l.Error("Failed to list matches", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(matches)
}

// HandleGetFile streams the raw bytes of a file as an attachment.
// @Summary Download Peer File
// @Description Streams the decompressed replay bytes of a stored file.
// @Tags peer
// @Produce octet-stream
// @Param id path int true "File ID"
// @Success 200 {file} binary "Replay"
// @Failure 400 {object} map[string]string "Invalid ID"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /peer/files/{id} [get]
func (h *Handler) HandleGetFile(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid file id"})
	}

	name, data, err := h.peer.GetFileBytes(c.UserContext(), uint(id))
	if errors.Is(err, records.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	}
	if err != nil {
		l.Error("Failed to read file", zap.Int("file_id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	c.Attachment(name)
	c.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
	return c.Send(data)
}
