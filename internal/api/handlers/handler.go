package handlers

import (
	"net/url"
	"strconv"

	"country_chat_service/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ConnectCheck check api connect start
func ConnectCheck(c *fiber.Ctx) error {
	return c.SendString("chat backend start!")
}

// DebugLogFlag toggle debug log flag
func DebugLogFlag(c *fiber.Ctx) error {
	query, err := url.ParseQuery(string(c.Context().QueryArgs().QueryString()))
	if err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}
	statusStr := query.Get("status")
	logger.Log.Info("debug", zap.String("status", statusStr))
	status, err := strconv.ParseBool(statusStr)
	if err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	logger.Log.SetDebugMode(status)
	return c.SendString("debug mode updated")
}
