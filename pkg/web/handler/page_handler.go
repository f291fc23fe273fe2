package handler

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"recipehub-web/pkg/core/recipe/repository/dao"
	"recipehub-web/pkg/web/controller"
	"recipehub-web/pkg/web/model"
	"recipehub-web/pkg/web/session"
	"recipehub-web/pkg/web/view"
)

// PageHandler 每个请求模拟一次页面生命周期：加载、处理表单、渲染
type PageHandler struct {
	sessions session.Provider
	auth     *controller.AuthController
	create   *controller.CreateController
	list     *controller.ListController
	detail   *controller.DetailController
	export   *controller.ExportController
}

func NewPageHandler(api dao.RecipeAPI, sessions session.Provider) *PageHandler {
	return &PageHandler{
		sessions: sessions,
		auth:     controller.NewAuthController(api),
		create:   controller.NewCreateController(api),
		list:     controller.NewListController(api),
		detail:   controller.NewDetailController(api),
		export:   controller.NewExportController(api),
	}
}

// Index 首页：导航 + 列表，search/tag 来自搜索表单
func (h *PageHandler) Index(ctx context.Context, c *app.RequestContext) {
	var q model.ListQuery
	if err := c.BindQuery(&q); err != nil {
		hlog.CtxWarnf(ctx, "bind list query: %v", err)
	}
	store := h.sessions.Open(ctx, c)

	region := &view.Region[view.ListView]{}
	h.list.LoadRecipes(ctx, q.Query(), region)

	page := view.IndexPage{
		Nav:    controller.RenderUserInfo(store, currentURI(c)),
		Search: q.Search,
		Tag:    q.Tag,
		List:   region.Content(),
	}
	renderHTML(ctx, c, consts.StatusOK, func(w io.Writer) error { return view.RenderIndex(w, page) })
}

// Recipe 详情页
func (h *PageHandler) Recipe(ctx context.Context, c *app.RequestContext) {
	id := c.Query("id")
	store := h.sessions.Open(ctx, c)

	region := &view.Region[view.DetailView]{}
	h.detail.LoadRecipe(ctx, id, region)

	h.renderRecipe(ctx, c, store, id, region, "", "")
}

// Rate 评分表单：先按页面加载详情，再提交评分，成功时详情会被刷新
func (h *PageHandler) Rate(ctx context.Context, c *app.RequestContext) {
	id := c.Query("id")
	var form model.RateForm
	if err := c.Bind(&form); err != nil {
		hlog.CtxWarnf(ctx, "bind rate form: %v", err)
	}
	store := h.sessions.Open(ctx, c)

	region := &view.Region[view.DetailView]{}
	h.detail.LoadRecipe(ctx, id, region)
	msg := view.MsgMissingRecipeID
	if id != "" {
		msg = h.detail.SubmitRating(ctx, store, id, form.Rating, region)
	}

	h.renderRecipe(ctx, c, store, id, region, msg, form.Rating)
}

func (h *PageHandler) renderRecipe(ctx context.Context, c *app.RequestContext, store session.TokenStore,
	id string, region *view.Region[view.DetailView], msg, rating string,
) {
	page := view.RecipePage{
		Nav:         controller.RenderUserInfo(store, currentURI(c)),
		ID:          id,
		Detail:      region.Content(),
		RateMessage: msg,
		Rating:      rating,
	}
	renderHTML(ctx, c, consts.StatusOK, func(w io.Writer) error { return view.RenderRecipe(w, page) })
}

// Logout 清除会话后回到原页面
func (h *PageHandler) Logout(ctx context.Context, c *app.RequestContext) {
	var form model.LogoutForm
	_ = c.Bind(&form)
	if err := h.sessions.Open(ctx, c).Clear(); err != nil {
		hlog.CtxErrorf(ctx, "clear session: %v", err)
	}
	c.Redirect(consts.StatusSeeOther, []byte(safeNext(form.Next)))
}

// safeNext 只允许站内相对路径
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return "/index.html"
	}
	return next
}

func currentURI(c *app.RequestContext) string {
	return string(c.Request.URI().RequestURI())
}

// continueTo 表单成功后带着提示语 303 跳转
func continueTo(c *app.RequestContext, out controller.Outcome) {
	c.Redirect(consts.StatusSeeOther, []byte("/"+out.Redirect))
	c.Response.Header.SetContentType("text/plain; charset=utf-8")
	c.Response.SetBodyString(out.Message)
}

func renderHTML(ctx context.Context, c *app.RequestContext, status int, render func(io.Writer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		hlog.CtxErrorf(ctx, "render %s: %v", c.Path(), err)
		c.String(consts.StatusInternalServerError, "internal server error")
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}
