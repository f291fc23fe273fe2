package handler

import (
	"context"
	"io"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"recipehub-web/pkg/web/controller"
	"recipehub-web/pkg/web/model"
	"recipehub-web/pkg/web/view"
)

func (h *PageHandler) LoginPage(ctx context.Context, c *app.RequestContext) {
	renderHTML(ctx, c, consts.StatusOK, func(w io.Writer) error { return view.RenderLogin(w, view.AuthPage{}) })
}

func (h *PageHandler) Login(ctx context.Context, c *app.RequestContext) {
	var form model.CredentialsForm
	if err := c.Bind(&form); err != nil {
		hlog.CtxWarnf(ctx, "bind login form: %v", err)
	}

	out := h.auth.Login(ctx, h.sessions.Open(ctx, c), form.Username, form.Password)
	if out.Redirect != "" {
		continueTo(c, out)
		return
	}
	page := view.AuthPage{Message: out.Message, Username: form.Username}
	renderHTML(ctx, c, consts.StatusOK, func(w io.Writer) error { return view.RenderLogin(w, page) })
}

func (h *PageHandler) RegisterPage(ctx context.Context, c *app.RequestContext) {
	renderHTML(ctx, c, consts.StatusOK, func(w io.Writer) error { return view.RenderRegister(w, view.AuthPage{}) })
}

func (h *PageHandler) Register(ctx context.Context, c *app.RequestContext) {
	var form model.CredentialsForm
	if err := c.Bind(&form); err != nil {
		hlog.CtxWarnf(ctx, "bind register form: %v", err)
	}

	out := h.auth.Register(ctx, form.Username, form.Password)
	if out.Redirect != "" {
		continueTo(c, out)
		return
	}
	page := view.AuthPage{Message: out.Message, Username: form.Username}
	renderHTML(ctx, c, consts.StatusOK, func(w io.Writer) error { return view.RenderRegister(w, page) })
}

func (h *PageHandler) CreatePage(ctx context.Context, c *app.RequestContext) {
	page := view.CreatePage{Nav: controller.RenderUserInfo(h.sessions.Open(ctx, c), currentURI(c))}
	renderHTML(ctx, c, consts.StatusOK, func(w io.Writer) error { return view.RenderCreate(w, page) })
}

// Create 失败时保留用户已填写的内容
func (h *PageHandler) Create(ctx context.Context, c *app.RequestContext) {
	var form model.RecipeForm
	if err := c.Bind(&form); err != nil {
		hlog.CtxWarnf(ctx, "bind recipe form: %v", err)
	}
	store := h.sessions.Open(ctx, c)

	out := h.create.Create(ctx, store, form.Fields())
	if out.Redirect != "" {
		continueTo(c, out)
		return
	}
	page := view.CreatePage{
		Nav:     controller.RenderUserInfo(store, currentURI(c)),
		Message: out.Message,
		Form:    form.Fields(),
	}
	renderHTML(ctx, c, consts.StatusOK, func(w io.Writer) error { return view.RenderCreate(w, page) })
}
