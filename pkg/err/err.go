package errprocess

import (
	"errors"

	"country_chat_service/pkg/logger"
)

// Set set err info
func Set(errMsg string) error {
	logger.Log.Error(errMsg)
	return errors.New(errMsg)
}
