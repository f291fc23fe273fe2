package view

import (
	"fmt"
	"net/url"

	"recipehub-web/pkg/core/recipe/model"
)

// 区域占位文案
const (
	MsgLoading         = "Loading..."
	MsgListFailed      = "Failed to load recipes"
	MsgListEmpty       = "No recipes found."
	MsgMissingRecipeID = "Missing recipe id."
	MsgRecipeFailed    = "Failed to load recipe."
)

type State int

const (
	StateIdle State = iota
	StateLoading
	StateFailed
	StateEmpty
	StateLoaded
	StateMissing
)

// NavView 导航栏登录状态
type NavView struct {
	LoggedIn bool
	Username string
	Next     string // 退出后回到的页面
}

func (n NavView) Label() string {
	if n.Username != "" {
		return "Logged in as " + n.Username
	}
	return "Logged in"
}

// Card 列表中的一张菜谱卡片
type Card struct {
	ID          string
	Title       string
	Description string
	ImageURL    string
	Meta        string
	Href        string
}

func NewCard(s model.Summary) Card {
	difficulty := s.Difficulty
	if difficulty == "" {
		difficulty = model.DefaultDifficulty
	}
	return Card{
		ID:          s.ID.String(),
		Title:       s.Title,
		Description: s.Description,
		ImageURL:    s.ImageURL,
		Meta: fmt.Sprintf("By %s • %s • Prep: %d min • Cook: %d min",
			s.Author, difficulty, s.PrepTime, s.CookTime),
		Href: RecipeHref(s.ID.String()),
	}
}

// RecipeHref 详情页相对地址
func RecipeHref(id string) string {
	return "recipe.html?id=" + url.QueryEscape(id)
}

// ListView 菜谱列表区域
type ListView struct {
	State State
	Cards []Card
}

func ListLoading() ListView { return ListView{State: StateLoading} }
func ListFailed() ListView  { return ListView{State: StateFailed} }

func NewListView(items []model.Summary) ListView {
	if len(items) == 0 {
		return ListView{State: StateEmpty}
	}
	cards := make([]Card, 0, len(items))
	for _, s := range items {
		cards = append(cards, NewCard(s))
	}
	return ListView{State: StateLoaded, Cards: cards}
}

func (v ListView) Loaded() bool { return v.State == StateLoaded }

// Message 非 Loaded 状态下区域里唯一的文字
func (v ListView) Message() string {
	switch v.State {
	case StateLoading:
		return MsgLoading
	case StateFailed:
		return MsgListFailed
	case StateEmpty:
		return MsgListEmpty
	}
	return ""
}

// DetailView 菜谱详情区域，数字已格式化
type DetailView struct {
	State       State
	Title       string
	ImageURL    string
	Author      string
	Difficulty  string
	Time        string
	Servings    int
	Rating      string
	Ingredients string
	Steps       string
}

func DetailLoading() DetailView { return DetailView{State: StateLoading} }
func DetailFailed() DetailView  { return DetailView{State: StateFailed} }
func DetailMissing() DetailView { return DetailView{State: StateMissing} }

func NewDetailView(d model.Detail) DetailView {
	return DetailView{
		State:       StateLoaded,
		Title:       d.Title,
		ImageURL:    d.ImageURL,
		Author:      d.Author,
		Difficulty:  d.Difficulty,
		Time:        fmt.Sprintf("Prep %d min, Cook %d min", d.PrepTime, d.CookTime),
		Servings:    d.Servings,
		Rating:      FormatRating(d.AvgRating, d.Votes),
		Ingredients: d.Ingredients,
		Steps:       d.Steps,
	}
}

// FormatRating 保留一位小数，例如 "4.7 (3 votes)"
func FormatRating(avg float64, votes int) string {
	return fmt.Sprintf("%.1f (%d votes)", avg, votes)
}

func (v DetailView) Loaded() bool { return v.State == StateLoaded }

func (v DetailView) Message() string {
	switch v.State {
	case StateLoading:
		return MsgLoading
	case StateFailed:
		return MsgRecipeFailed
	case StateMissing:
		return MsgMissingRecipeID
	}
	return ""
}

// 页面级视图
type (
	IndexPage struct {
		Nav    NavView
		Search string
		Tag    string
		List   ListView
	}

	AuthPage struct {
		Message  string
		Username string
	}

	CreatePage struct {
		Nav     NavView
		Message string
		Form    model.DraftFields
	}

	RecipePage struct {
		Nav         NavView
		ID          string
		Detail      DetailView
		RateMessage string
		Rating      string
	}
)

// PageTitle 详情加载成功后用菜谱标题
func (p RecipePage) PageTitle() string {
	if p.Detail.State == StateLoaded && p.Detail.Title != "" {
		return p.Detail.Title
	}
	return "Recipe"
}
