package rules

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"potbs/internal/util"
)

type DetailField string

const (
	FieldLabour   DetailField = "labour"
	FieldCost     DetailField = "cost"
	FieldRequired DetailField = "required"
	FieldProduced DetailField = "produced"
)

// LabelRule binds one first-cell spelling to the detail field it feeds.
// Earlier rules win when a cell matches more than one.
type LabelRule struct {
	Variant string      `yaml:"variant"`
	Field   DetailField `yaml:"field"`
}

type Rules struct {
	RecipeListLabels   []string    `yaml:"recipe_list_labels"`
	DetailLabels       []LabelRule `yaml:"detail_labels"`
	StructureKeywords  []string    `yaml:"structure_keywords"`
	MaterialKeywords   []string    `yaml:"material_keywords"`
	NavigationNames    []string    `yaml:"navigation_names"`
	NavigationLinks    []string    `yaml:"navigation_links"`
	ExcludedNamespaces []string    `yaml:"excluded_namespaces"`
	QualityDescriptors []string    `yaml:"quality_descriptors"`
}

func Default() Rules {
	return Rules{
		RecipeListLabels: []string{"provides recipes:", "uses recipes:"},
		DetailLabels: []LabelRule{
			{Variant: "labor required:", Field: FieldLabour},
			{Variant: "labour required:", Field: FieldLabour},
			{Variant: "labor:", Field: FieldLabour},
			{Variant: "labour:", Field: FieldLabour},
			{Variant: "cost:", Field: FieldCost},
			{Variant: "required items:", Field: FieldRequired},
			{Variant: "inputs:", Field: FieldRequired},
			{Variant: "needs:", Field: FieldRequired},
			{Variant: "produces items:", Field: FieldProduced},
			{Variant: "outputs:", Field: FieldProduced},
			{Variant: "output:", Field: FieldProduced},
			{Variant: "produces:", Field: FieldProduced},
		},
		StructureKeywords: []string{
			"forge", "mine", "plantation", "quarry", "shipyard", "logging camp",
			"lumber mill", "distillery", "brewery", "refinery", "mill", "camp",
			"lodge", "yard", "office", "smelter", "tannery", "textile",
			"advanced", "master", "basic", "company", "assembly", "careening",
			"draughtsman", "fishing", "hunting", "powder", "sugar", "pasture",
		},
		MaterialKeywords: []string{
			"copper", "iron", "gold", "silver", "zinc", "sulfur", "coal",
			"ironwood", "oak", "teak", "fir", "granite", "limestone", "marble",
			"cotton", "sugar", "tobacco", "cacao", "coffee", "prickly pear",
			"general", "gravel", "small", "medium", "large",
		},
		NavigationNames: []string{
			"main page", "the game", "missions", "reputation", "personal equipment",
			"marks of conquest", "commendations", "alternative install", "ships",
			"ship overview", "ammunition", "economy", "community", "wiki forum",
			"wiki admins", "outfitting", "spreadsheets", "recipes", "structures",
			"recipe books", "raw materials", "manufactured goods", "shipwright materials",
			"guides", "societies", "templates", "interactive maps", "recent blog posts",
		},
		NavigationLinks: []string{
			"talk (0)", "edit", "history", "what links here",
			"related changes", "upload file", "special pages",
			"printable version", "permanent link", "page information",
		},
		ExcludedNamespaces: []string{
			"category:", "template:", "file:", "help:", "special:",
			"user:", "talk:", "main_page", "mediawiki:",
		},
		QualityDescriptors: []string{
			"First-Rate", "Well-made", "Rough", "Inferior", "Standard",
			"Improved", "Quality", "Fine", "Crude", "Master's", "Heavy",
			"Superior", "Unknown",
		},
	}
}

// Load returns the built-in rules, overlaid with a YAML file when path is
// set. Lists in the file replace the corresponding built-in list wholesale.
func Load(path string) (Rules, error) {
	base := Default()
	if strings.TrimSpace(path) == "" {
		return base, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("read scrape rules: %w", err)
	}
	var override Rules
	if err := yaml.Unmarshal(raw, &override); err != nil {
		return Rules{}, fmt.Errorf("parse scrape rules %s: %w", path, err)
	}
	return merge(base, override), nil
}

func merge(base, override Rules) Rules {
	if len(override.RecipeListLabels) > 0 {
		base.RecipeListLabels = override.RecipeListLabels
	}
	if len(override.DetailLabels) > 0 {
		base.DetailLabels = override.DetailLabels
	}
	if len(override.StructureKeywords) > 0 {
		base.StructureKeywords = override.StructureKeywords
	}
	if len(override.MaterialKeywords) > 0 {
		base.MaterialKeywords = override.MaterialKeywords
	}
	if len(override.NavigationNames) > 0 {
		base.NavigationNames = override.NavigationNames
	}
	if len(override.NavigationLinks) > 0 {
		base.NavigationLinks = override.NavigationLinks
	}
	if len(override.ExcludedNamespaces) > 0 {
		base.ExcludedNamespaces = override.ExcludedNamespaces
	}
	if len(override.QualityDescriptors) > 0 {
		base.QualityDescriptors = override.QualityDescriptors
	}
	return base
}

// MatchDetailLabel resolves a first-cell text to a detail field. Whitespace
// runs inside the cell are collapsed before comparing, case ignored.
func (r Rules) MatchDetailLabel(cellText string) (DetailField, bool) {
	label := util.NormalizeSpaces(cellText)
	for _, rule := range r.DetailLabels {
		if strings.EqualFold(label, rule.Variant) {
			return rule.Field, true
		}
	}
	return "", false
}

func (r Rules) IsRecipeListLabel(cellText string) bool {
	label := util.NormalizeSpaces(cellText)
	for _, want := range r.RecipeListLabels {
		if strings.EqualFold(label, want) {
			return true
		}
	}
	return false
}

func (r Rules) IsQualityDescriptor(name string) bool {
	for _, q := range r.QualityDescriptors {
		if name == q {
			return true
		}
	}
	return false
}
