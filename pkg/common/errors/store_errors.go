package errors

import (
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/go-sql-driver/mysql"
	hzte "github.com/cloudwego/hertz/pkg/common/errors"
	"gorm.io/gorm"
)

var (
	rawErrSessionNotFound = errors.New("session not found")
	rawErrStoreInternal   = errors.New("session store internal error")
)

var (
	ErrSessionNotFound = hzte.New(rawErrSessionNotFound, hzte.ErrorTypePublic, nil)
	ErrStoreInternal   = hzte.New(rawErrStoreInternal, hzte.ErrorTypePrivate, nil)
)

// region 错误处理工具函数

// WrapStoreError 将底层存储错误转变为会话层可识别错误
// 参数说明：
//   - rawErr: 原始 GORM / MySQL / Redis 错误
//
// 返回值：
//   - error: 标准化错误类型
func WrapStoreError(rawErr error) error {
	if rawErr == nil {
		return nil
	}

	switch {
	case errors.Is(rawErr, gorm.ErrRecordNotFound), errors.Is(rawErr, redis.Nil):
		return ErrSessionNotFound
	case errors.Is(rawErr, gorm.ErrInvalidDB), errors.Is(rawErr, gorm.ErrInvalidTransaction):
		return fmt.Errorf("%w: %v", ErrStoreInternal, rawErr)
	}

	// 处理MySQL驱动错误
	var mysqlErr *mysql.MySQLError
	if errors.As(rawErr, &mysqlErr) {
		switch mysqlErr.Number {
		case 1045, 1049, 1146: // 认证失败、库不存在、表不存在
			return fmt.Errorf("%w: %s", ErrStoreInternal, mysqlErr.Message)
		}
	}

	// 兜底处理：附加原始错误信息
	return fmt.Errorf("%w: %v", ErrStoreInternal, rawErr)
}

func IsSessionNotFound(err error) bool {
	return errors.Is(err, rawErrSessionNotFound)
}
