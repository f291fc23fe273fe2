package handler

import (
	"bytes"
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"recipehub-web/pkg/web/model"
	"recipehub-web/pkg/web/view"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Export 下载当前筛选条件下的菜谱列表
func (h *PageHandler) Export(ctx context.Context, c *app.RequestContext) {
	var q model.ListQuery
	if err := c.BindQuery(&q); err != nil {
		hlog.CtxWarnf(ctx, "bind export query: %v", err)
	}

	var buf bytes.Buffer
	n, err := h.export.Export(ctx, q.Query(), &buf)
	if err != nil {
		hlog.CtxWarnf(ctx, "export recipes: %v", err)
		c.String(consts.StatusBadGateway, view.MsgListFailed)
		return
	}
	hlog.CtxInfof(ctx, "exported %d recipes", n)
	c.Header("Content-Disposition", `attachment; filename="recipes.xlsx"`)
	c.Data(consts.StatusOK, xlsxContentType, buf.Bytes())
}
