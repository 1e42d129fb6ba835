package database

import (
	"fmt"
	"time"

	"country_chat_service/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewPGConnection create a gorm postgresSQL connection with retry
func NewPGConnection(d Connection) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	for i := 0; i < d.RetryCount; i++ {
		db, err = gorm.Open(postgres.Open(d.ConnectStr), &gorm.Config{TranslateError: true})
		if err == nil {
			break
		}
		logger.Log.Warn(
			"Failed to connect to postgreSQL database, retrying...",
			zap.Int("attempt", i+1),
			zap.String("address", fmt.Sprintf("[%s]", d.ConnectStr)),
			zap.Error(err),
		)
		time.Sleep(d.RetryInterval * time.Second)
	}

	return db, err
}
