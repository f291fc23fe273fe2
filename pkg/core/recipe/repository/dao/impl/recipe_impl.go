package dao

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/common/config"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	apperrors "recipehub-web/pkg/common/errors"
	"recipehub-web/pkg/core/recipe/model"
	"recipehub-web/pkg/core/recipe/repository/dao"
)

// HertzRecipeAPI 基于 hertz client 的后端访问实现
type HertzRecipeAPI struct {
	baseURL string
	client  *client.Client
	timeout time.Duration
}

var _ dao.RecipeAPI = (*HertzRecipeAPI)(nil)

// NewHertzRecipeAPI baseURL 不带结尾斜杠，timeout<=0 表示不限制单次请求时间
func NewHertzRecipeAPI(baseURL string, dialTimeout, timeout time.Duration) (*HertzRecipeAPI, error) {
	opts := []config.ClientOption{}
	if dialTimeout > 0 {
		opts = append(opts, client.WithDialTimeout(dialTimeout))
	}
	c, err := client.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("init api client: %w", err)
	}
	return &HertzRecipeAPI{baseURL: baseURL, client: c, timeout: timeout}, nil
}

func (a *HertzRecipeAPI) Login(ctx context.Context, creds model.Credentials) (model.LoginResult, error) {
	var out model.LoginResult
	err := a.do(ctx, consts.MethodPost, "/auth/login", nil, "", creds, &out)
	return out, err
}

func (a *HertzRecipeAPI) Register(ctx context.Context, creds model.Credentials) error {
	return a.do(ctx, consts.MethodPost, "/auth/register", nil, "", creds, nil)
}

// List search / tag 为空时不带对应参数
func (a *HertzRecipeAPI) List(ctx context.Context, q model.Query) ([]model.Summary, error) {
	params := url.Values{}
	if q.Search != "" {
		params.Set("search", q.Search)
	}
	if q.Tag != "" {
		params.Set("tag", q.Tag)
	}
	var out []model.Summary
	if err := a.do(ctx, consts.MethodGet, "/recipes", params, "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *HertzRecipeAPI) Get(ctx context.Context, id string) (model.Detail, error) {
	var out model.Detail
	err := a.do(ctx, consts.MethodGet, "/recipes/"+url.PathEscape(id), nil, "", nil, &out)
	return out, err
}

func (a *HertzRecipeAPI) Create(ctx context.Context, token string, draft model.Draft) (model.Created, error) {
	var out model.Created
	err := a.do(ctx, consts.MethodPost, "/recipes", nil, token, draft, &out)
	return out, err
}

// Rate 成功时不解析响应体
func (a *HertzRecipeAPI) Rate(ctx context.Context, token, id string, rating model.Rating) error {
	return a.do(ctx, consts.MethodPost, "/recipes/"+url.PathEscape(id)+"/rate", nil, token, rating, nil)
}

func (a *HertzRecipeAPI) Health(ctx context.Context) error {
	return a.do(ctx, consts.MethodGet, "/health", nil, "", nil, nil)
}

// do 发送一次请求：非 2xx 返回 StatusError（不读响应体），网络或解码失败返回 TransportError
func (a *HertzRecipeAPI) do(ctx context.Context, method, path string, params url.Values, token string, in, out interface{}) error {
	req := protocol.AcquireRequest()
	resp := protocol.AcquireResponse()
	defer func() {
		protocol.ReleaseRequest(req)
		protocol.ReleaseResponse(resp)
	}()

	uri := a.baseURL + path
	if len(params) > 0 {
		uri += "?" + params.Encode()
	}
	req.SetRequestURI(uri)
	req.SetMethod(method)
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if in != nil {
		body, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		req.Header.SetContentTypeBytes([]byte("application/json"))
		req.SetBody(body)
	}

	if err := a.send(ctx, req, resp); err != nil {
		hlog.CtxWarnf(ctx, "api %s %s failed: %v", method, path, err)
		return apperrors.NewTransportError(err)
	}

	status := resp.StatusCode()
	if status < 200 || status > 299 {
		hlog.CtxInfof(ctx, "api %s %s returned %d", method, path, status)
		return apperrors.NewStatusError(status)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		hlog.CtxWarnf(ctx, "api %s %s: bad response body: %v", method, path, err)
		return apperrors.NewTransportError(err)
	}
	return nil
}

// send 以请求上下文的 deadline 和配置的超时中较早者为准
func (a *HertzRecipeAPI) send(ctx context.Context, req *protocol.Request, resp *protocol.Response) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	deadline, ok := ctx.Deadline()
	if a.timeout > 0 {
		if d := time.Now().Add(a.timeout); !ok || d.Before(deadline) {
			deadline, ok = d, true
		}
	}
	if ok {
		return a.client.DoDeadline(ctx, req, resp, deadline)
	}
	return a.client.Do(ctx, req, resp)
}
