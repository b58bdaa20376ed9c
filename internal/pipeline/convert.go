package pipeline

import (
	"fmt"
	"math"

	"potbs/internal"
)

// SplitHours decomposes fractional hours into whole hours plus minutes.
// Rounding the remainder can land on a full hour, which carries over so
// minutes stay below 60.
func SplitHours(hours float64) (int, int) {
	if hours <= 0 {
		return 0, 0
	}
	whole := math.Floor(hours)
	minutes := int(math.Round((hours - whole) * 60))
	if minutes == 60 {
		return int(whole) + 1, 0
	}
	return int(whole), minutes
}

// ConvertRecipe shapes a scraped detail record into the canonical catalog
// form. A record that never carried a cost row is malformed and rejected
// rather than silently defaulted; missing labour reads as zero time and a
// cost row without digits as zero gold.
func ConvertRecipe(detail internal.RecipeDetail) (internal.CanonicalRecipe, error) {
	if detail.Cost == nil {
		return internal.CanonicalRecipe{}, fmt.Errorf("recipe %q has no cost row", detail.Name)
	}

	hours := 0.0
	if detail.Labour != nil {
		hours = detail.Labour.ParsedHours
	}
	h, m := SplitHours(hours)

	rec := internal.CanonicalRecipe{
		Ingredients: append([]internal.Item{}, detail.RequiredItems...),
		Buildings:   append([]string{}, detail.Structures...),
		Cost: internal.RecipeCost{
			Labour: internal.LabourCost{Hours: h, Minutes: m},
		},
	}
	if detail.Cost.Amount != nil {
		rec.Cost.Gold = *detail.Cost.Amount
	}
	if len(detail.ProducesItems) > 0 {
		product := detail.ProducesItems[0]
		rec.Product = &product
	}
	return rec, nil
}
