// pkg/common/errors/api_errors.go

/*
  - 使用实例
    res, err := api.List(ctx, q)
    switch {
    case errors.IsStatus(err):    // 后端返回非 2xx
    case errors.IsTransport(err): // 网络或解码失败
    }
*/
package errors

import (
	"errors"
	"fmt"

	hzte "github.com/cloudwego/hertz/pkg/common/errors"
)

// 定义原始错误
var (
	rawErrStatus    = errors.New("unexpected response status")
	rawErrTransport = errors.New("error connecting to server")
)

// StatusMeta 附加在非 2xx 错误上，响应体不做解析
type StatusMeta struct {
	Code int
}

// NewStatusError 后端返回了非 2xx 状态码
func NewStatusError(code int) *hzte.Error {
	return hzte.New(fmt.Errorf("%w: %d", rawErrStatus, code), hzte.ErrorTypePublic, StatusMeta{Code: code})
}

// NewTransportError 请求没有拿到可用的响应（连接失败、超时、JSON 解码失败）
func NewTransportError(cause error) *hzte.Error {
	return hzte.New(fmt.Errorf("%w: %w", rawErrTransport, cause), hzte.ErrorTypePublic, nil)
}

func IsStatus(err error) bool {
	return errors.Is(err, rawErrStatus)
}

func IsTransport(err error) bool {
	return errors.Is(err, rawErrTransport)
}

// StatusOf 返回非 2xx 错误携带的状态码，其它错误返回 0
func StatusOf(err error) int {
	var hzErr *hzte.Error
	if errors.As(err, &hzErr) {
		if meta, ok := hzErr.Meta.(StatusMeta); ok {
			return meta.Code
		}
	}
	return 0
}
