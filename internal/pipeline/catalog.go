package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"potbs/internal"
	"potbs/internal/util"
)

func (s *Scraper) ConvertRecipes() (StageResult, error) {
	start := time.Now()

	var details []internal.RecipeDetail
	if err := readArtifact(filepath.Join(s.cfg.DataDir, RecipeDetailsFile), "recipes:details", &details); err != nil {
		return StageResult{}, err
	}

	converted := 0
	skipped := 0
	for i, detail := range details {
		rec, err := ConvertRecipe(detail)
		if err != nil {
			fmt.Printf("  skip malformed record: %v\n", err)
			skipped++
			continue
		}

		stem := util.CleanFilename(detail.Name)
		if stem == "" {
			stem = fmt.Sprintf("Recipe_%d", i)
		}
		if err := writeArtifact(filepath.Join(s.cfg.RecipesDir, stem+".json"), rec); err != nil {
			return StageResult{}, err
		}
		converted++
	}

	counts := map[string]int{"converted": converted, "skipped": skipped}
	s.recordStage("recipes:convert", start, counts)
	return StageResult{Stage: "recipes:convert", Counts: counts}, nil
}

func (s *Scraper) RepairNames() (StageResult, error) {
	start := time.Now()

	files, err := listRecipeFiles(s.cfg.RecipesDir)
	if err != nil {
		return StageResult{}, err
	}

	repairs := []internal.NameRepair{}
	unreadable := 0
	for _, name := range files {
		path := filepath.Join(s.cfg.RecipesDir, name)
		var rec internal.CanonicalRecipe
		if err := readArtifact(path, "recipes:convert", &rec); err != nil {
			fmt.Printf("  skip unreadable recipe file %s: %v\n", name, err)
			unreadable++
			continue
		}

		stem := strings.TrimSuffix(name, ".json")
		note := RepairProductName(&rec, stem, s.rules)
		if note == nil {
			continue
		}
		if err := writeArtifact(path, rec); err != nil {
			return StageResult{}, err
		}
		repairs = append(repairs, *note)
	}

	if err := writeArtifact(filepath.Join(s.cfg.DataDir, RepairReportFile), repairs); err != nil {
		return StageResult{}, err
	}

	counts := map[string]int{"checked": len(files), "repaired": len(repairs), "unreadable": unreadable}
	s.recordStage("names:repair", start, counts)
	return StageResult{Stage: "names:repair", Counts: counts}, nil
}

func (s *Scraper) BuildRecipeIndex() (StageResult, error) {
	start := time.Now()

	files, err := listRecipeFiles(s.cfg.RecipesDir)
	if err != nil {
		return StageResult{}, err
	}

	records := []IndexedRecipe{}
	skipped := 0
	for _, name := range files {
		var rec internal.CanonicalRecipe
		if err := readArtifact(filepath.Join(s.cfg.RecipesDir, name), "recipes:convert", &rec); err != nil {
			fmt.Printf("  skip unreadable recipe file %s: %v\n", name, err)
			skipped++
			continue
		}
		records = append(records, IndexedRecipe{Filename: name, Recipe: rec})
	}

	idx := BuildIndex(records)
	if err := writeArtifact(filepath.Join(s.cfg.RecipesDir, IndexFile), idx); err != nil {
		return StageResult{}, err
	}

	counts := map[string]int{
		"indexed":    idx.TotalRecipes,
		"skipped":    skipped,
		"structures": len(idx.RecipesByStructure),
	}
	s.recordStage("index:build", start, counts)
	return StageResult{Stage: "index:build", Counts: counts}, nil
}

func (s *Scraper) ExportRecipeIndex(outputPath string) (StageResult, error) {
	start := time.Now()

	var idx internal.RecipeIndex
	if err := readArtifact(filepath.Join(s.cfg.RecipesDir, IndexFile), "index:build", &idx); err != nil {
		return StageResult{}, err
	}

	if outputPath == "" {
		outputPath = filepath.Join(s.cfg.OutputDir, "recipe-index.xlsx")
	}
	if err := ExportIndexToXLSX(idx, outputPath); err != nil {
		return StageResult{}, err
	}

	counts := map[string]int{"rows": len(idx.Recipes)}
	s.recordStage("index:export", start, counts)
	return StageResult{Stage: "index:export", Counts: counts}, nil
}

// listRecipeFiles returns the per-recipe JSON filenames in dir, sorted. The
// index and temp files are not recipes and are left out. A missing dir means
// the conversion stage has not run.
func listRecipeFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s (run recipes:convert first)", ErrMissingArtifact, dir)
	}
	if err != nil {
		return nil, err
	}

	files := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".json") || name == IndexFile {
			continue
		}
		files = append(files, name)
	}
	return files, nil
}
