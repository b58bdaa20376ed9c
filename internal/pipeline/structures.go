package pipeline

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"potbs/internal"
	"potbs/internal/rules"
)

var categoryContainers = []string{
	"div.mw-category",
	"div.mw-category-generated",
	"div#mw-pages",
	"div.CategoryTreeSection",
}

// ExtractStructureLinks pulls candidate structure links from a category
// page. The usual MediaWiki category containers are tried first; when that
// yields no usable links the page's plain lists are scanned instead.
// Results keep first-seen order, one entry per URL.
func ExtractStructureLinks(doc *goquery.Document, pageURL string, r rules.Rules) []internal.StructureRef {
	base, err := url.Parse(pageURL)
	if err != nil {
		base = nil
	}

	refs := []internal.StructureRef{}
	seen := map[string]struct{}{}
	collect := func(_ int, link *goquery.Selection) {
		href, ok := link.Attr("href")
		if !ok {
			return
		}
		name := strings.TrimSpace(link.Text())
		abs := resolveURL(base, href)
		if !IsValidStructureLink(abs, name, r) {
			return
		}
		if _, dup := seen[abs]; dup {
			return
		}
		seen[abs] = struct{}{}
		refs = append(refs, internal.StructureRef{Name: name, URL: abs})
	}

	for _, sel := range categoryContainers {
		if found := doc.Find(sel).First(); found.Length() > 0 {
			found.Find("a[href]").Each(collect)
			break
		}
	}
	if len(refs) == 0 {
		doc.Find("ul a[href], ol a[href]").Each(collect)
	}
	return refs
}

// IsValidStructureLink rejects anything that is not a plain article link:
// non-wiki paths, talk and edit targets, redlinks, excluded namespaces and
// navigation chrome.
func IsValidStructureLink(rawURL, name string, r rules.Rules) bool {
	if strings.TrimSpace(name) == "" {
		return false
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if !strings.HasPrefix(parsed.Path, "/wiki/") {
		return false
	}

	path := strings.ToLower(parsed.Path)
	if strings.Contains(path, "talk:") {
		return false
	}
	q := parsed.Query()
	if q.Get("redlink") == "1" || q.Get("action") == "edit" {
		return false
	}
	for _, ns := range r.ExcludedNamespaces {
		if strings.Contains(path, "/wiki/"+ns) {
			return false
		}
	}

	lowerName := strings.ToLower(name)
	for _, term := range r.NavigationLinks {
		if strings.Contains(lowerName, term) {
			return false
		}
	}
	return true
}

// FilterStructureRefs keeps entries whose names look like production
// structures and drops wiki navigation items along with anything
// unrecognized. The drop count feeds the stage summary.
func FilterStructureRefs(refs []internal.StructureRef, r rules.Rules) ([]internal.StructureRef, int) {
	kept := []internal.StructureRef{}
	dropped := 0
	for _, ref := range refs {
		switch {
		case isNavigationName(ref.Name, r):
			dropped++
		case isStructureName(ref.Name, r):
			kept = append(kept, ref)
		default:
			dropped++
		}
	}
	return kept, dropped
}

func isStructureName(name string, r rules.Rules) bool {
	lower := strings.ToLower(name)
	for _, kw := range r.StructureKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	for _, mat := range r.MaterialKeywords {
		if strings.Contains(lower, "("+mat+")") || strings.Contains(lower, " "+mat+" ") {
			return true
		}
	}
	return false
}

func isNavigationName(name string, r rules.Rules) bool {
	lower := strings.ToLower(name)
	for _, item := range r.NavigationNames {
		if strings.Contains(lower, item) {
			return true
		}
	}
	return false
}
