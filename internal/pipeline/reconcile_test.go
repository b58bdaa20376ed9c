package pipeline

import (
	"reflect"
	"testing"

	"potbs/internal"
)

func TestMergeDraftsOrderInvariant(t *testing.T) {
	d1 := internal.RecipeDraft{Name: "Ingot, Iron", URL: "https://potbs.fandom.com/wiki/Ingot,_Iron", Structure: "Iron Mine"}
	d2 := internal.RecipeDraft{Name: "Ingot, Iron", URL: "https://potbs.fandom.com/wiki/Ingot,_Iron", Structure: "Smelter"}
	d3 := internal.RecipeDraft{Name: "Oak Plank", URL: "https://potbs.fandom.com/wiki/Oak_Plank", Structure: "Sawmill"}

	a, dupA := MergeDrafts([]internal.RecipeDraft{d1, d2, d3})
	b, dupB := MergeDrafts([]internal.RecipeDraft{d3, d2, d1})

	if !reflect.DeepEqual(a, b) {
		t.Fatalf("merge depends on draft order:\n%+v\nvs\n%+v", a, b)
	}
	if dupA != 1 || dupB != 1 {
		t.Fatalf("expected 1 duplicate in both orders, got %d and %d", dupA, dupB)
	}

	want := []internal.RecipeLink{
		{Name: "Ingot, Iron", URL: "https://potbs.fandom.com/wiki/Ingot,_Iron", Structures: []string{"Iron Mine", "Smelter"}},
		{Name: "Oak Plank", URL: "https://potbs.fandom.com/wiki/Oak_Plank", Structures: []string{"Sawmill"}},
	}
	if !reflect.DeepEqual(a, want) {
		t.Fatalf("merged links = %+v, want %+v", a, want)
	}
}

func TestMergeDraftsDeduplicatesStructures(t *testing.T) {
	d := internal.RecipeDraft{Name: "Oak Plank", URL: "https://potbs.fandom.com/wiki/Oak_Plank", Structure: "Sawmill"}

	links, dup := MergeDrafts([]internal.RecipeDraft{d, d, d})
	if len(links) != 1 {
		t.Fatalf("expected 1 link, got %d", len(links))
	}
	if got := links[0].Structures; !reflect.DeepEqual(got, []string{"Sawmill"}) {
		t.Fatalf("structures = %v, want single Sawmill", got)
	}
	if dup != 2 {
		t.Fatalf("duplicates = %d, want 2", dup)
	}
}

func TestMergeDraftsFirstNameWins(t *testing.T) {
	drafts := []internal.RecipeDraft{
		{Name: "Ingot, Iron", URL: "https://potbs.fandom.com/wiki/Ingot,_Iron", Structure: "Iron Mine"},
		{Name: "Iron Ingot", URL: "https://potbs.fandom.com/wiki/Ingot,_Iron", Structure: "Smelter"},
	}

	links, _ := MergeDrafts(drafts)
	if len(links) != 1 {
		t.Fatalf("expected 1 link, got %d", len(links))
	}
	if links[0].Name != "Ingot, Iron" {
		t.Fatalf("name = %q, want first-seen name", links[0].Name)
	}
	if !reflect.DeepEqual(links[0].Structures, []string{"Iron Mine", "Smelter"}) {
		t.Fatalf("structures = %v", links[0].Structures)
	}
}

func TestMergeDraftsSkipsEmptyStructure(t *testing.T) {
	drafts := []internal.RecipeDraft{
		{Name: "Oak Plank", URL: "https://potbs.fandom.com/wiki/Oak_Plank", Structure: ""},
	}

	links, _ := MergeDrafts(drafts)
	if len(links) != 1 {
		t.Fatalf("expected 1 link, got %d", len(links))
	}
	if len(links[0].Structures) != 0 {
		t.Fatalf("structures = %v, want empty", links[0].Structures)
	}
}

func TestMergeDraftsSortsByName(t *testing.T) {
	drafts := []internal.RecipeDraft{
		{Name: "Oak Plank", URL: "https://potbs.fandom.com/wiki/Oak_Plank", Structure: "Sawmill"},
		{Name: "Cannon", URL: "https://potbs.fandom.com/wiki/Cannon", Structure: "Foundry"},
		{Name: "Ingot, Iron", URL: "https://potbs.fandom.com/wiki/Ingot,_Iron", Structure: "Smelter"},
	}

	links, _ := MergeDrafts(drafts)
	got := []string{}
	for _, l := range links {
		got = append(got, l.Name)
	}
	want := []string{"Cannon", "Ingot, Iron", "Oak Plank"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
}
