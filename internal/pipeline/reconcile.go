package pipeline

import (
	"sort"

	"potbs/internal"
)

// MergeDrafts folds page-local drafts into one link per URL. The first name
// seen for a URL wins; structure names accumulate as a set and come out
// sorted, as does the result, so output does not depend on draft order. The
// second return value is the number of drafts that collapsed into an
// existing entry.
func MergeDrafts(drafts []internal.RecipeDraft) ([]internal.RecipeLink, int) {
	type entry struct {
		name       string
		structures map[string]struct{}
	}

	byURL := map[string]*entry{}
	order := []string{}
	for _, d := range drafts {
		e, ok := byURL[d.URL]
		if !ok {
			e = &entry{name: d.Name, structures: map[string]struct{}{}}
			byURL[d.URL] = e
			order = append(order, d.URL)
		}
		if d.Structure != "" {
			e.structures[d.Structure] = struct{}{}
		}
	}

	links := make([]internal.RecipeLink, 0, len(byURL))
	for _, u := range order {
		e := byURL[u]
		structures := make([]string, 0, len(e.structures))
		for s := range e.structures {
			structures = append(structures, s)
		}
		sort.Strings(structures)
		links = append(links, internal.RecipeLink{Name: e.name, URL: u, Structures: structures})
	}

	sort.Slice(links, func(i, j int) bool {
		if links[i].Name != links[j].Name {
			return links[i].Name < links[j].Name
		}
		return links[i].URL < links[j].URL
	})
	return links, len(drafts) - len(links)
}
