package controller

import (
	"context"
	"strconv"
	"strings"

	"recipehub-web/pkg/core/recipe/model"
	"recipehub-web/pkg/core/recipe/repository/dao"
	"recipehub-web/pkg/web/session"
	"recipehub-web/pkg/web/view"
)

type DetailController struct {
	api dao.RecipeAPI
}

func NewDetailController(api dao.RecipeAPI) *DetailController {
	return &DetailController{api: api}
}

func (d *DetailController) LoadRecipe(ctx context.Context, id string, region *view.Region[view.DetailView]) {
	ticket := region.Begin()
	if id == "" {
		region.Render(ticket, view.DetailMissing())
		return
	}
	region.Render(ticket, view.DetailLoading())

	detail, err := d.api.Get(ctx, id)
	if err != nil {
		region.Render(ticket, view.DetailFailed())
		return
	}
	region.Render(ticket, view.NewDetailView(detail))
}

// SubmitRating 成功后重新加载详情以显示新的平均分；失败时详情保持原样
func (d *DetailController) SubmitRating(ctx context.Context, store session.TokenStore, id, rating string, region *view.Region[view.DetailView]) string {
	token, ok := store.Get()
	if !ok {
		return MsgRateNeedsLogin
	}
	value, err := strconv.Atoi(strings.TrimSpace(rating))
	if err != nil {
		return MsgSelectRating
	}

	if err := d.api.Rate(ctx, token, id, model.Rating{Rating: value}); err != nil {
		return failure(err, MsgRateFailed)
	}

	d.LoadRecipe(ctx, id, region)
	return MsgRateOK
}
