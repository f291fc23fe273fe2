package controller

import (
	"recipehub-web/pkg/web/session"
	"recipehub-web/pkg/web/view"
)

// RenderUserInfo next 是退出登录后重新加载的页面
func RenderUserInfo(store session.TokenStore, next string) view.NavView {
	token, ok := store.Get()
	if !ok {
		return view.NavView{}
	}
	return view.NavView{
		LoggedIn: true,
		Username: session.IdentityOf(token).Username,
		Next:     next,
	}
}
