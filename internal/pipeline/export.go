package pipeline

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"potbs/internal"
)

// ExportIndexToXLSX writes the catalog index as a review spreadsheet, one
// row per recipe summary in index order.
func ExportIndexToXLSX(idx internal.RecipeIndex, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{
		"name", "filename", "structures", "input_count", "output_count", "labor_hours", "cost",
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, rec := range idx.Recipes {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}

		set(1, rec.Name)
		set(2, rec.Filename)
		set(3, strings.Join(rec.Structures, ", "))
		set(4, rec.InputCount)
		set(5, rec.OutputCount)
		set(6, rec.LaborHours)
		set(7, rec.Cost)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}
