package pipeline

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"potbs/internal"
	"potbs/internal/rules"
)

// CleanRecipeName strips the "(recipe)" disambiguation suffix some wiki
// links carry. Applied once when a draft is created, never again.
func CleanRecipeName(name string) string {
	trimmed := strings.TrimSpace(name)
	if strings.HasSuffix(strings.ToLower(trimmed), "(recipe)") {
		return strings.TrimSpace(trimmed[:len(trimmed)-len("(recipe)")])
	}
	return trimmed
}

// ExtractStructureRecipes scans a structure page for its recipe-list rows
// and returns one draft per linked recipe, deduplicated by URL within the
// page. Rows are matched on their first cell; links outside /wiki/ are
// ignored.
func ExtractStructureRecipes(doc *goquery.Document, pageURL, structureName string, r rules.Rules) []internal.RecipeDraft {
	base, err := url.Parse(pageURL)
	if err != nil {
		base = nil
	}

	drafts := []internal.RecipeDraft{}
	seen := map[string]struct{}{}
	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("th,td")
		if cells.Length() < 2 {
			return
		}
		if !r.IsRecipeListLabel(cells.Eq(0).Text()) {
			return
		}

		cells.Eq(1).Find("a[href]").Each(func(_ int, link *goquery.Selection) {
			href, _ := link.Attr("href")
			if !strings.HasPrefix(href, "/wiki/") {
				return
			}
			name := strings.TrimSpace(link.Text())
			if name == "" {
				return
			}
			abs := resolveURL(base, href)
			if _, ok := seen[abs]; ok {
				return
			}
			seen[abs] = struct{}{}
			drafts = append(drafts, internal.RecipeDraft{
				Name:      CleanRecipeName(name),
				URL:       abs,
				Structure: structureName,
			})
		})
	})
	return drafts
}

// ExtractRecipeDetail reads the labelled table rows of a recipe page. Rows
// whose first cell matches no known label are skipped; when a label repeats,
// the last occurrence wins. The second return value counts linked items that
// were dropped for lack of a parseable quantity.
func ExtractRecipeDetail(doc *goquery.Document, name, pageURL string, r rules.Rules) (internal.RecipeDetail, int) {
	detail := internal.RecipeDetail{
		Name:          name,
		URL:           pageURL,
		RequiredItems: []internal.Item{},
		ProducesItems: []internal.Item{},
	}

	dropped := 0
	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("th,td")
		if cells.Length() < 2 {
			return
		}
		field, ok := r.MatchDetailLabel(cells.Eq(0).Text())
		if !ok {
			return
		}

		value := cells.Eq(1)
		switch field {
		case rules.FieldLabour:
			labour := ParseLabour(strings.TrimSpace(value.Text()))
			detail.Labour = &labour
		case rules.FieldCost:
			cost := ParseCost(strings.TrimSpace(value.Text()))
			detail.Cost = &cost
		case rules.FieldRequired:
			items, d := ParseItems(value)
			detail.RequiredItems = items
			dropped += d
		case rules.FieldProduced:
			items, d := ParseItems(value)
			detail.ProducesItems = items
			dropped += d
		}
	})
	return detail, dropped
}

func resolveURL(base *url.URL, href string) string {
	if base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
