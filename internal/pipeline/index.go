package pipeline

import (
	"sort"

	"potbs/internal"
)

// IndexedRecipe is one canonical record with the file it came from.
type IndexedRecipe struct {
	Filename string
	Recipe   internal.CanonicalRecipe
}

// BuildIndex aggregates canonical records into the catalog index: one
// summary per recipe sorted by display name, plus per-structure counts. A
// record with a product but no name, or no product at all, shows up as
// "Unknown".
func BuildIndex(records []IndexedRecipe) internal.RecipeIndex {
	idx := internal.RecipeIndex{
		RecipesByStructure: map[string]int{},
		Recipes:            []internal.RecipeSummary{},
	}

	for _, rec := range records {
		name := "Unknown"
		outputs := 0
		if rec.Recipe.Product != nil {
			outputs = 1
			if rec.Recipe.Product.Name != "" {
				name = rec.Recipe.Product.Name
			}
		}

		structures := rec.Recipe.Buildings
		if structures == nil {
			structures = []string{}
		}

		idx.Recipes = append(idx.Recipes, internal.RecipeSummary{
			Name:        name,
			Filename:    rec.Filename,
			Structures:  structures,
			InputCount:  len(rec.Recipe.Ingredients),
			OutputCount: outputs,
			LaborHours:  rec.Recipe.Cost.Labour.Hours,
			Cost:        rec.Recipe.Cost.Gold,
		})
		for _, s := range structures {
			idx.RecipesByStructure[s]++
		}
	}

	sort.Slice(idx.Recipes, func(i, j int) bool {
		if idx.Recipes[i].Name != idx.Recipes[j].Name {
			return idx.Recipes[i].Name < idx.Recipes[j].Name
		}
		return idx.Recipes[i].Filename < idx.Recipes[j].Filename
	})
	idx.TotalRecipes = len(idx.Recipes)
	return idx
}
