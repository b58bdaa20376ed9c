package pipeline

import (
	"testing"

	"potbs/internal"
	"potbs/internal/rules"
)

func TestExtractStructureLinks(t *testing.T) {
	html := `<html><body>
<div class="mw-category"><ul>
  <li><a href="/wiki/Iron_Mine">Iron Mine</a></li>
  <li><a href="/wiki/Talk:Iron_Mine">Iron Mine discussion</a></li>
  <li><a href="/wiki/Category:Forestry">Forestry</a></li>
  <li><a href="/wiki/Oak_Forest?redlink=1">Oak Forest</a></li>
  <li><a href="/wiki/Iron_Mine">Iron Mine</a></li>
  <li><a href="/wiki/Smelter?action=edit">Smelter draft</a></li>
  <li><a href="/wiki/Smelter">Smelter</a></li>
  <li><a href="/wiki/Special:RecentChanges">Recent changes</a></li>
</ul></div>
</body></html>`

	doc := docFromHTML(t, html)
	refs := ExtractStructureLinks(doc, "https://potbs.fandom.com/wiki/Category:Structures", rules.Default())

	if len(refs) != 2 {
		t.Fatalf("len=%d refs=%+v", len(refs), refs)
	}
	if refs[0].Name != "Iron Mine" || refs[0].URL != "https://potbs.fandom.com/wiki/Iron_Mine" {
		t.Fatalf("first ref bad: %+v", refs[0])
	}
	if refs[1].Name != "Smelter" {
		t.Fatalf("second ref bad: %+v", refs[1])
	}
}

func TestExtractStructureLinksListFallback(t *testing.T) {
	html := `<html><body>
<ul>
  <li><a href="/wiki/Careening_Camp">Careening Camp</a></li>
  <li><a href="/nowiki/Outside">Outside</a></li>
</ul>
</body></html>`

	doc := docFromHTML(t, html)
	refs := ExtractStructureLinks(doc, "https://potbs.fandom.com/wiki/Category:Structures", rules.Default())

	if len(refs) != 1 || refs[0].Name != "Careening Camp" {
		t.Fatalf("refs=%+v", refs)
	}
}

func TestExtractStructureLinksFallbackWhenContainerEmpty(t *testing.T) {
	html := `<html><body>
<div class="mw-category"><ul>
  <li><a href="/wiki/Category:Forestry">Forestry</a></li>
  <li><a href="/wiki/Oak_Forest?redlink=1">Oak Forest</a></li>
</ul></div>
<ul>
  <li><a href="/wiki/Careening_Camp">Careening Camp</a></li>
</ul>
</body></html>`

	doc := docFromHTML(t, html)
	refs := ExtractStructureLinks(doc, "https://potbs.fandom.com/wiki/Category:Structures", rules.Default())

	if len(refs) != 1 || refs[0].Name != "Careening Camp" {
		t.Fatalf("refs=%+v", refs)
	}
}

func TestIsValidStructureLink(t *testing.T) {
	r := rules.Default()
	cases := []struct {
		name string
		url  string
		text string
		want bool
	}{
		{name: "plain article", url: "https://x.test/wiki/Iron_Mine", text: "Iron Mine", want: true},
		{name: "outside wiki", url: "https://x.test/forum/Iron_Mine", text: "Iron Mine", want: false},
		{name: "talk page", url: "https://x.test/wiki/Talk:Iron_Mine", text: "Iron Mine", want: false},
		{name: "redlink", url: "https://x.test/wiki/Iron_Mine?redlink=1", text: "Iron Mine", want: false},
		{name: "edit link", url: "https://x.test/wiki/Iron_Mine?action=edit", text: "Iron Mine", want: false},
		{name: "category namespace", url: "https://x.test/wiki/Category:Mines", text: "Mines", want: false},
		{name: "template namespace", url: "https://x.test/wiki/Template:Infobox", text: "Infobox", want: false},
		{name: "main page", url: "https://x.test/wiki/Main_Page", text: "Main Page", want: false},
		{name: "nav text", url: "https://x.test/wiki/Iron_Mine", text: "What links here", want: false},
		{name: "empty text", url: "https://x.test/wiki/Iron_Mine", text: "  ", want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsValidStructureLink(tc.url, tc.text, r); got != tc.want {
				t.Fatalf("got %v want %v", got, tc.want)
			}
		})
	}
}

func TestFilterStructureRefs(t *testing.T) {
	refs := []internal.StructureRef{
		{Name: "Iron Mine", URL: "https://x.test/wiki/Iron_Mine"},
		{Name: "Hunting Lodge", URL: "https://x.test/wiki/Hunting_Lodge"},
		{Name: "Fishing Camp", URL: "https://x.test/wiki/Fishing_Camp"},
		{Name: "Company Office", URL: "https://x.test/wiki/Company_Office"},
		{Name: "Pasture (Medium)", URL: "https://x.test/wiki/Pasture_(Medium)"},
		{Name: "Logging Camp (Oak)", URL: "https://x.test/wiki/Logging_Camp_(Oak)"},
		{Name: "Gathering Post (Oak)", URL: "https://x.test/wiki/Gathering_Post"},
		{Name: "Shipwright Materials", URL: "https://x.test/wiki/Shipwright_Materials"},
		{Name: "Recipe Books", URL: "https://x.test/wiki/Recipe_Books"},
		{Name: "Lumberjack's Hut", URL: "https://x.test/wiki/Lumberjacks_Hut"},
		{Name: "Pirate King", URL: "https://x.test/wiki/Pirate_King"},
	}

	kept, dropped := FilterStructureRefs(refs, rules.Default())

	want := []string{
		"Iron Mine", "Hunting Lodge", "Fishing Camp", "Company Office",
		"Pasture (Medium)", "Logging Camp (Oak)", "Gathering Post (Oak)",
	}
	if len(kept) != len(want) || dropped != 4 {
		t.Fatalf("kept=%d dropped=%d %+v", len(kept), dropped, kept)
	}
	for i, name := range want {
		if kept[i].Name != name {
			t.Fatalf("kept[%d]=%q want %q", i, kept[i].Name, name)
		}
	}
}
