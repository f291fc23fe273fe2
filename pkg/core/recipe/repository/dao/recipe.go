package dao

import (
	"context"

	"recipehub-web/pkg/core/recipe/model"
)

// RecipeAPI RecipeHub 后端的 REST 接口，token 为空表示匿名请求
type RecipeAPI interface {
	Login(ctx context.Context, creds model.Credentials) (model.LoginResult, error)
	Register(ctx context.Context, creds model.Credentials) error
	List(ctx context.Context, q model.Query) ([]model.Summary, error)
	Get(ctx context.Context, id string) (model.Detail, error)
	Create(ctx context.Context, token string, draft model.Draft) (model.Created, error)
	Rate(ctx context.Context, token, id string, rating model.Rating) error
	Health(ctx context.Context) error
}
