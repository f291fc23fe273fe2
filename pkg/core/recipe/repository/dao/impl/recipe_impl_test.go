package dao

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "recipehub-web/pkg/common/errors"
	"recipehub-web/pkg/core/recipe/fakeapi"
	"recipehub-web/pkg/core/recipe/model"
)

func newTestAPI(t *testing.T) (*HertzRecipeAPI, *fakeapi.Server) {
	t.Helper()
	srv := fakeapi.NewTestServer(t)
	api, err := NewHertzRecipeAPI(srv.URL(), time.Second, 5*time.Second)
	require.NoError(t, err)
	return api, srv
}

func login(t *testing.T, api *HertzRecipeAPI, srv *fakeapi.Server) string {
	t.Helper()
	_, err := srv.Store.AddUser("ann", "secret")
	require.NoError(t, err)
	res, err := api.Login(context.Background(), model.Credentials{Username: "ann", Password: "secret"})
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	return res.Token
}

func TestLoginAndRegister(t *testing.T) {
	api, _ := newTestAPI(t)
	ctx := context.Background()

	require.NoError(t, api.Register(ctx, model.Credentials{Username: "bob", Password: "pw"}))

	err := api.Register(ctx, model.Credentials{Username: "bob", Password: "pw"})
	assert.True(t, apperrors.IsStatus(err), "duplicate username is a 400")

	_, err = api.Login(ctx, model.Credentials{Username: "bob", Password: "wrong"})
	assert.True(t, apperrors.IsStatus(err))
	assert.Equal(t, 401, apperrors.StatusOf(err))

	res, err := api.Login(ctx, model.Credentials{Username: "bob", Password: "pw"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
}

func TestListQueryParams(t *testing.T) {
	api, srv := newTestAPI(t)
	ctx := context.Background()

	_, err := api.List(ctx, model.Query{})
	require.NoError(t, err)
	_, err = api.List(ctx, model.Query{Search: "pie crust", Tag: "dessert"})
	require.NoError(t, err)

	reqs := srv.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "", reqs[0].Query, "no search param when empty")
	assert.Contains(t, reqs[1].Query, "search=pie+crust")
	assert.Contains(t, reqs[1].Query, "tag=dessert")
}

func TestCreateGetAndRate(t *testing.T) {
	api, srv := newTestAPI(t)
	ctx := context.Background()
	token := login(t, api, srv)

	created, err := api.Create(ctx, token, model.Draft{
		Title: "Pie", Description: "Apple pie", Ingredients: "apples", Steps: "bake", Servings: 1,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	srv.ResetRequests()
	require.NoError(t, api.Rate(ctx, token, created.ID.String(), model.Rating{Rating: 5}))
	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, `{"rating":5}`, reqs[0].Body)
	assert.Equal(t, "Bearer "+token, reqs[0].Authorization)

	detail, err := api.Get(ctx, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Pie", detail.Title)
	assert.Equal(t, "ann", detail.Author)
	assert.Equal(t, "medium", detail.Difficulty)
	assert.Equal(t, 1, detail.Votes)
	assert.Equal(t, 5.0, detail.AvgRating)
}

func TestCreateWithoutTokenIsStatusError(t *testing.T) {
	api, _ := newTestAPI(t)

	_, err := api.Create(context.Background(), "", model.Draft{Title: "x", Description: "y", Ingredients: "z", Steps: "w"})
	assert.True(t, apperrors.IsStatus(err))
	assert.Equal(t, 401, apperrors.StatusOf(err))
}

func TestNon2xxIsStatusError(t *testing.T) {
	api, srv := newTestAPI(t)
	srv.FailWith(500)

	_, err := api.List(context.Background(), model.Query{})
	assert.True(t, apperrors.IsStatus(err))

	_, err = api.Get(context.Background(), "1")
	assert.Equal(t, 500, apperrors.StatusOf(err))
}

func TestUnreachableIsTransportError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	api, err := NewHertzRecipeAPI("http://"+addr, 200*time.Millisecond, time.Second)
	require.NoError(t, err)

	_, err = api.List(context.Background(), model.Query{})
	assert.True(t, apperrors.IsTransport(err))
	assert.True(t, apperrors.IsTransport(api.Health(context.Background())))
}

func TestCancelledContextSkipsRequest(t *testing.T) {
	api, srv := newTestAPI(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := api.Get(ctx, "1")
	assert.True(t, apperrors.IsTransport(err))
	assert.Empty(t, srv.Requests())
}
