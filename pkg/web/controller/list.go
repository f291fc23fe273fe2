package controller

import (
	"context"

	"github.com/cloudwego/hertz/pkg/common/hlog"

	"recipehub-web/pkg/core/recipe/model"
	"recipehub-web/pkg/core/recipe/repository/dao"
	"recipehub-web/pkg/web/view"
)

type ListController struct {
	api dao.RecipeAPI
}

func NewListController(api dao.RecipeAPI) *ListController {
	return &ListController{api: api}
}

// LoadRecipes 先显示 Loading，响应回来时如果已有更新的加载则丢弃
func (l *ListController) LoadRecipes(ctx context.Context, q model.Query, region *view.Region[view.ListView]) {
	ticket := region.Begin()
	region.Render(ticket, view.ListLoading())

	items, err := l.api.List(ctx, q)
	if err != nil {
		region.Render(ticket, view.ListFailed())
		return
	}
	if !region.Render(ticket, view.NewListView(items)) {
		hlog.CtxDebugf(ctx, "discarded stale recipe list (search=%q)", q.Search)
	}
}
