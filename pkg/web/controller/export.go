package controller

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"recipehub-web/pkg/core/recipe/model"
	"recipehub-web/pkg/core/recipe/repository/dao"
)

const exportSheet = "Recipes"

var exportHeader = []interface{}{"ID", "Title", "Description", "Author", "Tags", "Difficulty", "Prep (min)", "Cook (min)", "Image URL"}

type ExportController struct {
	api dao.RecipeAPI
}

func NewExportController(api dao.RecipeAPI) *ExportController {
	return &ExportController{api: api}
}

// Export 按列表同样的条件查询并写出 xlsx；查询失败时不写任何内容
func (e *ExportController) Export(ctx context.Context, q model.Query, w io.Writer) (int, error) {
	items, err := e.api.List(ctx, q)
	if err != nil {
		return 0, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return 0, err
	}
	sw, err := f.NewStreamWriter(exportSheet)
	if err != nil {
		return 0, err
	}
	if err := sw.SetRow("A1", exportHeader); err != nil {
		return 0, err
	}
	for i, s := range items {
		difficulty := s.Difficulty
		if difficulty == "" {
			difficulty = model.DefaultDifficulty
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return 0, err
		}
		row := []interface{}{s.ID.String(), s.Title, s.Description, s.Author, s.Tags, difficulty, s.PrepTime, s.CookTime, s.ImageURL}
		if err := sw.SetRow(cell, row); err != nil {
			return 0, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return 0, err
	}
	if err := f.Write(w); err != nil {
		return 0, err
	}
	return len(items), nil
}
