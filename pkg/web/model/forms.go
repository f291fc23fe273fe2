package model

import (
	recipe "recipehub-web/pkg/core/recipe/model"
)

// 页面表单/查询参数，数字字段保持字符串交给领域层宽松解析
type (
	CredentialsForm struct {
		Username string `form:"username"`
		Password string `form:"password"`
	}

	RecipeForm struct {
		Title       string `form:"title"`
		Description string `form:"description"`
		Ingredients string `form:"ingredients"`
		Steps       string `form:"steps"`
		Tags        string `form:"tags"`
		Difficulty  string `form:"difficulty"`
		PrepTime    string `form:"prep_time"`
		CookTime    string `form:"cook_time"`
		Servings    string `form:"servings"`
		ImageURL    string `form:"image_url"`
	}

	RateForm struct {
		Rating string `form:"rating"`
	}

	ListQuery struct {
		Search string `query:"search"`
		Tag    string `query:"tag"`
	}

	RecipeQuery struct {
		ID string `query:"id"`
	}

	LogoutForm struct {
		Next string `form:"next"`
	}
)

func (f RecipeForm) Fields() recipe.DraftFields {
	return recipe.DraftFields{
		Title:       f.Title,
		Description: f.Description,
		Ingredients: f.Ingredients,
		Steps:       f.Steps,
		Tags:        f.Tags,
		Difficulty:  f.Difficulty,
		PrepTime:    f.PrepTime,
		CookTime:    f.CookTime,
		Servings:    f.Servings,
		ImageURL:    f.ImageURL,
	}
}

// Query search 不去空白，与浏览器输入框的值保持一致
func (q ListQuery) Query() recipe.Query {
	return recipe.Query{Search: q.Search, Tag: q.Tag}
}
