package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// DefaultDifficulty 后端在未指定时写入的难度
const DefaultDifficulty = "medium"

// RecipeID 后端返回整数 id，客户端统一按字符串处理
type RecipeID string

func (id *RecipeID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = RecipeID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("recipe id: %w", err)
	}
	*id = RecipeID(n.String())
	return nil
}

func (id RecipeID) String() string { return string(id) }

// Summary 列表接口返回的条目
type Summary struct {
	ID          RecipeID `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Author      string   `json:"author"`
	Tags        string   `json:"tags"`
	Difficulty  string   `json:"difficulty"`
	PrepTime    int      `json:"prep_time"`
	CookTime    int      `json:"cook_time"`
	ImageURL    string   `json:"image_url"`
}

// Detail 详情接口返回的完整菜谱
type Detail struct {
	Summary
	Ingredients string  `json:"ingredients"`
	Steps       string  `json:"steps"`
	Servings    int     `json:"servings"`
	AvgRating   float64 `json:"avg_rating"`
	Votes       int     `json:"votes"`
}

// Draft 新建菜谱的请求体
type Draft struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Ingredients string `json:"ingredients"`
	Steps       string `json:"steps"`
	Tags        string `json:"tags"`
	Difficulty  string `json:"difficulty"`
	PrepTime    int    `json:"prep_time"`
	CookTime    int    `json:"cook_time"`
	Servings    int    `json:"servings"`
	ImageURL    string `json:"image_url"`
}

// Complete 标题、描述、配料、步骤都不为空
func (d Draft) Complete() bool {
	return d.Title != "" && d.Description != "" && d.Ingredients != "" && d.Steps != ""
}

// DraftFields 表单原始输入，数字字段保持字符串以便宽松解析
type DraftFields struct {
	Title       string
	Description string
	Ingredients string
	Steps       string
	Tags        string
	Difficulty  string
	PrepTime    string
	CookTime    string
	Servings    string
	ImageURL    string
}

// NewDraft 去除首尾空白，数字字段为空或无法解析时取默认值 0/0/1
func NewDraft(f DraftFields) Draft {
	return Draft{
		Title:       strings.TrimSpace(f.Title),
		Description: strings.TrimSpace(f.Description),
		Ingredients: strings.TrimSpace(f.Ingredients),
		Steps:       strings.TrimSpace(f.Steps),
		Tags:        strings.TrimSpace(f.Tags),
		Difficulty:  f.Difficulty,
		PrepTime:    ParseIntOr(f.PrepTime, 0),
		CookTime:    ParseIntOr(f.CookTime, 0),
		Servings:    ParseIntOr(f.Servings, 1),
		ImageURL:    strings.TrimSpace(f.ImageURL),
	}
}

// ParseIntOr 取前导整数部分（"12 min" -> 12），没有数字时返回 def
func ParseIntOr(s string, def int) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) {
		c := s[end]
		if (c == '-' || c == '+') && end == 0 {
			end++
			continue
		}
		if c < '0' || c > '9' {
			break
		}
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return def
	}
	return n
}

// Rating 评分请求体，取值 1..5
type Rating struct {
	Rating int `json:"rating"`
}

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult 登录成功后返回的令牌
type LoginResult struct {
	Token string `json:"token"`
}

// Created 新建成功后返回的 id
type Created struct {
	ID RecipeID `json:"id"`
}

// Query 列表查询条件，空字段不会出现在请求里
type Query struct {
	Search string
	Tag    string
}
