package controller

import (
	"context"
	"strings"

	"github.com/cloudwego/hertz/pkg/common/hlog"

	"recipehub-web/pkg/core/recipe/model"
	"recipehub-web/pkg/core/recipe/repository/dao"
	"recipehub-web/pkg/web/session"
)

type AuthController struct {
	api dao.RecipeAPI
}

func NewAuthController(api dao.RecipeAPI) *AuthController {
	return &AuthController{api: api}
}

// Login 成功后令牌写入会话并跳转首页
func (a *AuthController) Login(ctx context.Context, store session.TokenStore, username, password string) Outcome {
	creds := model.Credentials{Username: strings.TrimSpace(username), Password: strings.TrimSpace(password)}
	if creds.Username == "" || creds.Password == "" {
		return Outcome{Message: MsgMissingCredentials}
	}

	res, err := a.api.Login(ctx, creds)
	if err != nil {
		return Outcome{Message: failure(err, MsgLoginFailed)}
	}
	if res.Token == "" {
		hlog.CtxWarnf(ctx, "login for %q returned no token", creds.Username)
		return Outcome{Message: MsgLoginFailed}
	}
	if err := store.Set(res.Token); err != nil {
		hlog.CtxErrorf(ctx, "store session token: %v", err)
		return Outcome{Message: MsgConnectError}
	}
	return Outcome{Message: MsgLoginOK, Redirect: "index.html"}
}

// Register 成功后跳转登录页，不自动登录
func (a *AuthController) Register(ctx context.Context, username, password string) Outcome {
	creds := model.Credentials{Username: strings.TrimSpace(username), Password: strings.TrimSpace(password)}
	if creds.Username == "" || creds.Password == "" {
		return Outcome{Message: MsgMissingCredentials}
	}

	if err := a.api.Register(ctx, creds); err != nil {
		return Outcome{Message: failure(err, MsgRegisterFailed)}
	}
	return Outcome{Message: MsgRegisterOK, Redirect: "login.html"}
}
