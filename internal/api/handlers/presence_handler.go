package handlers

import (
	"strings"

	chatdomain "country_chat_service/internal/chat/domain"
	presenceapp "country_chat_service/internal/presence/app"
	"country_chat_service/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// PresenceHandler handles the presence REST surface
type PresenceHandler struct {
	presenceUC *presenceapp.PresenceUseCase
}

// NewPresenceHandler create PresenceHandler
func NewPresenceHandler(presenceUC *presenceapp.PresenceUseCase) *PresenceHandler {
	return &PresenceHandler{
		presenceUC: presenceUC,
	}
}

// GetOnlineStatuses batch snapshot, optional comma separated ids query param
func (h *PresenceHandler) GetOnlineStatuses(c *fiber.Ctx) error {
	idsParam := c.Query("ids")

	var (
		statuses interface{}
		err      error
	)
	if idsParam == "" {
		statuses, err = h.presenceUC.QueryAll(c.Context())
	} else {
		ids := strings.Split(idsParam, ",")
		statuses, err = h.presenceUC.QueryBatch(c.Context(), ids)
	}
	if err != nil {
		logger.Log.Error("query online statuses", zap.Error(err))
		return domainErrorResponse(c, err)
	}

	return c.JSON(statuses)
}

// GetOnlineStatus single user status, 404 when the user does not exist
func (h *PresenceHandler) GetOnlineStatus(c *fiber.Ctx) error {
	userID := c.Params("id")

	status, err := h.presenceUC.QueryStatus(c.Context(), userID)
	if err != nil {
		logger.Log.Error("query online status", zap.String("userID", userID), zap.Error(err))
		return domainErrorResponse(c, err)
	}

	return c.JSON(status)
}

// domainErrorResponse map a domain error kind onto its HTTP status
func domainErrorResponse(c *fiber.Ctx, err error) error {
	if de, ok := chatdomain.AsDomainError(err); ok {
		return c.Status(chatdomain.HTTPStatus(de.Kind)).JSON(fiber.Map{
			"kind":  de.Kind,
			"error": de.Error(),
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
}
