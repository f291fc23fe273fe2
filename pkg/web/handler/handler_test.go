package handler

import (
	"bytes"
	"net"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipehub-web/pkg/core/recipe/fakeapi"
	daoimpl "recipehub-web/pkg/core/recipe/repository/dao/impl"
	"recipehub-web/pkg/web/session"
)

type env struct {
	h   *server.Hertz
	srv *fakeapi.Server
}

func newEnv(t *testing.T) *env {
	t.Helper()
	srv := fakeapi.NewTestServer(t)
	_, err := srv.Store.AddUser("ann", "secret")
	require.NoError(t, err)
	api, err := daoimpl.NewHertzRecipeAPI(srv.URL(), time.Second, 5*time.Second)
	require.NoError(t, err)

	sessions := session.NewCookieProvider(session.CookieOptions{Name: "token"})
	pages := NewPageHandler(api, sessions)
	health := NewHealthCheckHandler(api, sessions)

	h := server.New()
	h.GET("/health", health.AdvancedHealthCheck)
	h.GET("/index.html", pages.Index)
	h.GET("/login.html", pages.LoginPage)
	h.POST("/login.html", pages.Login)
	h.GET("/register.html", pages.RegisterPage)
	h.POST("/register.html", pages.Register)
	h.GET("/create.html", pages.CreatePage)
	h.POST("/create.html", pages.Create)
	h.GET("/recipe.html", pages.Recipe)
	h.POST("/recipe.html", pages.Rate)
	h.POST("/logout", pages.Logout)
	h.GET("/export.xlsx", pages.Export)
	return &env{h: h, srv: srv}
}

func (e *env) get(path string, headers ...ut.Header) *protocol.Response {
	return ut.PerformRequest(e.h.Engine, "GET", path, nil, headers...).Result()
}

func (e *env) post(path string, form url.Values, headers ...ut.Header) *protocol.Response {
	body := form.Encode()
	headers = append(headers, ut.Header{Key: "Content-Type", Value: "application/x-www-form-urlencoded"})
	return ut.PerformRequest(e.h.Engine, "POST", path, &ut.Body{Body: strings.NewReader(body), Len: len(body)}, headers...).Result()
}

// login 走一遍登录表单，返回可以带在后续请求上的 Cookie 头
func (e *env) login(t *testing.T) ut.Header {
	t.Helper()
	resp := e.post("/login.html", url.Values{"username": {"ann"}, "password": {"secret"}})
	require.Equal(t, 303, resp.StatusCode())
	var token string
	resp.Header.VisitAllCookie(func(key, value []byte) {
		if string(key) != "token" {
			return
		}
		ck := protocol.AcquireCookie()
		defer protocol.ReleaseCookie(ck)
		if ck.ParseBytes(value) == nil {
			token = string(ck.Value())
		}
	})
	require.NotEmpty(t, token)
	e.srv.ResetRequests()
	return ut.Header{Key: "Cookie", Value: "token=" + token}
}

func doc(t *testing.T, resp *protocol.Response) *goquery.Document {
	t.Helper()
	d, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	require.NoError(t, err)
	return d
}

func TestIndexPage(t *testing.T) {
	e := newEnv(t)

	resp := e.get("/index.html")
	require.Equal(t, 200, resp.StatusCode())
	d := doc(t, resp)
	assert.Equal(t, "No recipes found.", strings.TrimSpace(d.Find("#recipes-container").Text()))
	assert.Equal(t, 1, d.Find("#login-link").Length())

	_, err := e.srv.Store.AddRecipe("ann", fakeapi.Recipe{Title: "Soup", Description: "Hot", Ingredients: "w", Steps: "b"})
	require.NoError(t, err)
	_, err = e.srv.Store.AddRecipe("ann", fakeapi.Recipe{Title: "Cake", Description: "Sweet", Ingredients: "w", Steps: "b"})
	require.NoError(t, err)

	d = doc(t, e.get("/index.html?search=cake"))
	cards := d.Find("article.recipe-card")
	require.Equal(t, 1, cards.Length())
	assert.Equal(t, "recipe.html?id=2", cards.Find("a").AttrOr("href", ""))
	assert.Equal(t, "cake", d.Find("#search-input").AttrOr("value", ""))

	e.srv.FailWith(500)
	d = doc(t, e.get("/index.html"))
	assert.Equal(t, "Failed to load recipes", strings.TrimSpace(d.Find("#recipes-container").Text()))
}

func TestLoginFlow(t *testing.T) {
	e := newEnv(t)

	resp := e.post("/login.html", url.Values{"username": {""}, "password": {"x"}})
	assert.Equal(t, 200, resp.StatusCode())
	assert.Equal(t, "Enter username and password.", doc(t, resp).Find("#login-message").Text())
	assert.Empty(t, e.srv.Requests())

	resp = e.post("/login.html", url.Values{"username": {"ann"}, "password": {"bad"}})
	assert.Equal(t, "Login failed.", doc(t, resp).Find("#login-message").Text())

	resp = e.post("/login.html", url.Values{"username": {"ann"}, "password": {"secret"}})
	assert.Equal(t, 303, resp.StatusCode())
	assert.True(t, strings.HasSuffix(string(resp.Header.Peek("Location")), "/index.html"))
	assert.Equal(t, "Login successful. Redirecting...", string(resp.Body()))

	cookie := e.login(t)
	d := doc(t, e.get("/index.html", cookie))
	assert.Contains(t, d.Find("#user-info").Text(), "Logged in as ann")
	assert.Equal(t, 0, d.Find("#login-link").Length())
}

func TestRegisterFlow(t *testing.T) {
	e := newEnv(t)

	assert.Equal(t, 200, e.get("/register.html").StatusCode())

	resp := e.post("/register.html", url.Values{"username": {"bob"}, "password": {"pw"}})
	assert.Equal(t, 303, resp.StatusCode())
	assert.True(t, strings.HasSuffix(string(resp.Header.Peek("Location")), "/login.html"))

	resp = e.post("/register.html", url.Values{"username": {"bob"}, "password": {"pw"}})
	assert.Equal(t, "Registration failed.", doc(t, resp).Find("#register-message").Text())
}

func TestCreateFlow(t *testing.T) {
	e := newEnv(t)
	form := url.Values{
		"title": {"Pie"}, "description": {"Apple"}, "ingredients": {"apples"}, "steps": {"bake"},
		"difficulty": {"hard"}, "prep_time": {"10"}, "cook_time": {""}, "servings": {""},
	}

	resp := e.post("/create.html", form)
	assert.Equal(t, "You must be logged in to create recipes.", doc(t, resp).Find("#create-message").Text())

	cookie := e.login(t)

	partial := url.Values{"title": {"Pie"}}
	d := doc(t, e.post("/create.html", partial, cookie))
	assert.Equal(t, "Fill in required fields.", d.Find("#create-message").Text())
	assert.Equal(t, "Pie", d.Find("#title").AttrOr("value", ""), "form keeps typed values")
	assert.Empty(t, e.srv.Requests())

	resp = e.post("/create.html", form, cookie)
	assert.Equal(t, 303, resp.StatusCode())
	assert.True(t, strings.HasSuffix(string(resp.Header.Peek("Location")), "/recipe.html?id=1"))
	assert.Equal(t, "Recipe created! Redirecting...", string(resp.Body()))
}

func TestRecipePageAndRating(t *testing.T) {
	e := newEnv(t)
	_, err := e.srv.Store.AddRecipe("ann", fakeapi.Recipe{Title: "Pie", Description: "Apple", Ingredients: "apples", Steps: "bake", Servings: 2})
	require.NoError(t, err)

	d := doc(t, e.get("/recipe.html"))
	assert.Equal(t, "Missing recipe id.", strings.TrimSpace(d.Find("#recipe-detail").Text()))

	d = doc(t, e.get("/recipe.html?id=7"))
	assert.Equal(t, "Failed to load recipe.", strings.TrimSpace(d.Find("#recipe-detail").Text()))

	d = doc(t, e.get("/recipe.html?id=1"))
	assert.Equal(t, "Pie", d.Find("#recipe-title").Text())
	assert.Equal(t, "0.0 (0 votes)", d.Find(".rating").Text())

	resp := e.post("/recipe.html?id=1", url.Values{"rating": {"5"}})
	assert.Equal(t, "You must be logged in to rate.", doc(t, resp).Find("#rate-message").Text())

	cookie := e.login(t)
	d = doc(t, e.post("/recipe.html?id=1", url.Values{"rating": {""}}, cookie))
	assert.Equal(t, "Select a rating.", d.Find("#rate-message").Text())

	e.srv.ResetRequests()
	d = doc(t, e.post("/recipe.html?id=1", url.Values{"rating": {"5"}}, cookie))
	assert.Equal(t, "Rating submitted!", d.Find("#rate-message").Text())
	assert.Equal(t, "5.0 (1 votes)", d.Find(".rating").Text())

	reqs := e.srv.Requests()
	require.Len(t, reqs, 3, "page load, rate, reload")
	assert.Equal(t, "/recipes/1/rate", reqs[1].Path)
	assert.Equal(t, `{"rating":5}`, reqs[1].Body)
}

func TestLogout(t *testing.T) {
	e := newEnv(t)
	cookie := e.login(t)

	resp := e.post("/logout", url.Values{"next": {"/recipe.html?id=1"}}, cookie)
	assert.Equal(t, 303, resp.StatusCode())
	assert.True(t, strings.HasSuffix(string(resp.Header.Peek("Location")), "/recipe.html?id=1"))

	cleared := false
	resp.Header.VisitAllCookie(func(key, value []byte) {
		if string(key) == "token" && strings.HasPrefix(string(value), "token=;") {
			cleared = true
		}
	})
	assert.True(t, cleared, "token cookie is expired")

	resp = e.post("/logout", url.Values{"next": {"//evil.example"}})
	assert.True(t, strings.HasSuffix(string(resp.Header.Peek("Location")), "/index.html"))
}

func TestExport(t *testing.T) {
	e := newEnv(t)
	_, err := e.srv.Store.AddRecipe("ann", fakeapi.Recipe{Title: "Soup", Description: "Hot", Ingredients: "w", Steps: "b"})
	require.NoError(t, err)

	resp := e.get("/export.xlsx")
	assert.Equal(t, 200, resp.StatusCode())
	assert.Equal(t, xlsxContentType, string(resp.Header.ContentType()))
	assert.NotEmpty(t, resp.Body())

	e.srv.FailWith(500)
	resp = e.get("/export.xlsx")
	assert.Equal(t, 502, resp.StatusCode())
	assert.Equal(t, "Failed to load recipes", string(resp.Body()))
}

func TestHealth(t *testing.T) {
	e := newEnv(t)
	assert.Equal(t, 200, e.get("/health").StatusCode())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	api, err := daoimpl.NewHertzRecipeAPI("http://"+addr, 200*time.Millisecond, time.Second)
	require.NoError(t, err)

	h := server.New()
	h.GET("/health", NewHealthCheckHandler(api, session.NewCookieProvider(session.CookieOptions{})).AdvancedHealthCheck)
	resp := ut.PerformRequest(h.Engine, "GET", "/health", nil).Result()
	assert.Equal(t, 503, resp.StatusCode())
	assert.Contains(t, string(resp.Body()), `"degraded"`)
}

func TestSafeNext(t *testing.T) {
	assert.Equal(t, "/create.html", safeNext("/create.html"))
	assert.Equal(t, "/index.html", safeNext(""))
	assert.Equal(t, "/index.html", safeNext("https://evil.example"))
	assert.Equal(t, "/index.html", safeNext("//evil.example"))
}
