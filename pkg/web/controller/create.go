package controller

import (
	"context"

	"recipehub-web/pkg/core/recipe/model"
	"recipehub-web/pkg/core/recipe/repository/dao"
	"recipehub-web/pkg/web/session"
	"recipehub-web/pkg/web/view"
)

type CreateController struct {
	api dao.RecipeAPI
}

func NewCreateController(api dao.RecipeAPI) *CreateController {
	return &CreateController{api: api}
}

// Create 先检查登录，再检查必填字段，都通过才调用后端
func (cc *CreateController) Create(ctx context.Context, store session.TokenStore, fields model.DraftFields) Outcome {
	token, ok := store.Get()
	if !ok {
		return Outcome{Message: MsgCreateNeedsLogin}
	}

	draft := model.NewDraft(fields)
	if !draft.Complete() {
		return Outcome{Message: MsgMissingFields}
	}

	created, err := cc.api.Create(ctx, token, draft)
	if err != nil {
		return Outcome{Message: failure(err, MsgCreateFailed)}
	}
	return Outcome{Message: MsgCreateOK, Redirect: view.RecipeHref(created.ID.String())}
}
