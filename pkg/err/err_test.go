package errprocess

import (
	"testing"

	"country_chat_service/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func TestSet(t *testing.T) {
	logger.Log = logger.Initialize("errprocess_test", t.TempDir())

	err := Set("query user ids err : connection refused")

	assert.Error(t, err)
	assert.Equal(t, "query user ids err : connection refused", err.Error())
}
