// Package controller 页面交互逻辑：读取输入、调用后端、把结果写回视图
package controller

import (
	apperrors "recipehub-web/pkg/common/errors"
)

// 用户可见的提示文案
const (
	MsgConnectError = "Error connecting to server."

	MsgMissingCredentials = "Enter username and password."
	MsgLoginFailed        = "Login failed."
	MsgLoginOK            = "Login successful. Redirecting..."
	MsgRegisterFailed     = "Registration failed."
	MsgRegisterOK         = "Account created! Redirecting..."

	MsgCreateNeedsLogin = "You must be logged in to create recipes."
	MsgMissingFields    = "Fill in required fields."
	MsgCreateFailed     = "Failed to create recipe."
	MsgCreateOK         = "Recipe created! Redirecting..."

	MsgRateNeedsLogin = "You must be logged in to rate."
	MsgSelectRating   = "Select a rating."
	MsgRateFailed     = "Failed to submit rating."
	MsgRateOK         = "Rating submitted!"
)

// Outcome 一次表单提交的结果；Redirect 非空时在提示之后跳转到该相对地址
type Outcome struct {
	Message  string
	Redirect string
}

// failure 非 2xx 用接口自己的失败文案，其余都视为连接错误
func failure(err error, statusMsg string) string {
	if apperrors.IsStatus(err) {
		return statusMsg
	}
	return MsgConnectError
}
