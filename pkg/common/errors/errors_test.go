package errors

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/go-redis/redis/v8"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestStatusError(t *testing.T) {
	err := fmt.Errorf("list recipes: %w", NewStatusError(503))

	assert.True(t, IsStatus(err))
	assert.False(t, IsTransport(err))
	assert.Equal(t, 503, StatusOf(err))
}

func TestTransportError(t *testing.T) {
	err := NewTransportError(io.ErrUnexpectedEOF)

	assert.True(t, IsTransport(err))
	assert.False(t, IsStatus(err))
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
	assert.Equal(t, 0, StatusOf(err))
}

func TestWrapStoreError(t *testing.T) {
	assert.Nil(t, WrapStoreError(nil))
	assert.True(t, IsSessionNotFound(WrapStoreError(gorm.ErrRecordNotFound)))
	assert.True(t, IsSessionNotFound(WrapStoreError(redis.Nil)))

	err := WrapStoreError(&mysql.MySQLError{Number: 1146, Message: "Table 'web_sessions' doesn't exist"})
	assert.ErrorIs(t, err, ErrStoreInternal)
	assert.Contains(t, err.Error(), "web_sessions")

	assert.ErrorIs(t, WrapStoreError(io.EOF), ErrStoreInternal)
}
