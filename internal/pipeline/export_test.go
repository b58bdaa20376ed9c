package pipeline

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"potbs/internal"
)

func TestExportIndexToXLSX(t *testing.T) {
	idx := internal.RecipeIndex{
		TotalRecipes: 2,
		RecipesByStructure: map[string]int{
			"Iron Mine": 1,
			"Smelter":   2,
		},
		Recipes: []internal.RecipeSummary{
			{
				Name:        "Ingot, Iron",
				Filename:    "Ingot_Iron.json",
				Structures:  []string{"Iron Mine", "Smelter"},
				InputCount:  1,
				OutputCount: 1,
				LaborHours:  0,
				Cost:        120,
			},
			{
				Name:        "Oak Plank",
				Filename:    "Oak_Plank.json",
				Structures:  []string{"Sawmill"},
				InputCount:  2,
				OutputCount: 1,
				LaborHours:  1,
				Cost:        40,
			},
		},
	}

	path := filepath.Join(t.TempDir(), "out", "recipe-index.xlsx")
	if err := ExportIndexToXLSX(idx, path); err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	sheet := f.GetSheetName(0)

	check := func(cell, want string) {
		t.Helper()
		got, err := f.GetCellValue(sheet, cell)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Fatalf("%s = %q, want %q", cell, got, want)
		}
	}

	check("A1", "name")
	check("G1", "cost")
	check("A2", "Ingot, Iron")
	check("C2", "Iron Mine, Smelter")
	check("D2", "1")
	check("G2", "120")
	check("A3", "Oak Plank")
	check("F3", "1")

	rows, err := f.GetRows(sheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header plus 2", len(rows))
	}
}
