package pipeline

import (
	"regexp"
	"strings"

	"potbs/internal"
	"potbs/internal/rules"
)

var rePossessive = regexp.MustCompile(`\b([A-Z][a-z]+)s\b`)

// ExpectedProductName reconstructs a product name from a recipe file stem:
// underscores back to spaces during which capitalized plurals read as
// possessives, since the apostrophe was lost when the filename was derived
// ("Admirals_Coat" comes back as "Admiral's Coat").
func ExpectedProductName(stem string) string {
	name := strings.TrimPrefix(stem, "Recipe_")
	name = strings.ReplaceAll(name, "_", " ")
	return rePossessive.ReplaceAllString(name, "${1}'s")
}

// RepairProductName compares a record's product name against the name its
// file stem implies and substitutes the reconstruction when the stored name
// is a bare quality descriptor or a truncation of it. The returned note
// records the change for the audit report; nil means the record was left
// alone. Applying the repair twice is a no-op.
func RepairProductName(rec *internal.CanonicalRecipe, stem string, r rules.Rules) *internal.NameRepair {
	if rec.Product == nil || rec.Product.Name == "" {
		return nil
	}

	stored := rec.Product.Name
	expected := ExpectedProductName(stem)
	if expected == "" || expected == stored {
		return nil
	}

	descriptor := r.IsQualityDescriptor(stored)
	truncated := len(expected) > len(stored) && strings.Contains(expected, stored)
	if !descriptor && !truncated {
		return nil
	}

	trigger := "truncated"
	if descriptor {
		trigger = "descriptor"
	}
	confidence := "low"
	if strings.Contains(expected, stored) {
		confidence = "medium"
	}

	rec.Product.Name = expected
	return &internal.NameRepair{
		Filename:   stem + ".json",
		OldName:    stored,
		NewName:    expected,
		Trigger:    trigger,
		Confidence: confidence,
	}
}
