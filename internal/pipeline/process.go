package pipeline

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"potbs/internal"
	"potbs/internal/config"
	"potbs/internal/rules"
	"potbs/internal/storage"
)

// Artifact filenames, fixed relative to the configured directories.
const (
	StructuresFile         = "structures.json"
	FilteredStructuresFile = "structures_filtered.json"
	RecipeLinksFile        = "recipe_links.json"
	RecipeDetailsFile      = "recipe_details.json"
	RepairReportFile       = "name_repairs.json"
	IndexFile              = "index.json"
)

// ErrMissingArtifact marks a stage started before its input stage has run.
var ErrMissingArtifact = errors.New("missing input artifact")

// PageFetcher supplies parsed wiki pages, normally *wiki.Client.
type PageFetcher interface {
	Document(ctx context.Context, pageURL string, kind internal.PageKind, title string, refresh bool) (*goquery.Document, bool, error)
}

type Scraper struct {
	cfg     config.Config
	db      *storage.DB
	fetcher PageFetcher
	rules   rules.Rules
}

func NewScraper(cfg config.Config, db *storage.DB, fetcher PageFetcher, r rules.Rules) *Scraper {
	return &Scraper{cfg: cfg, db: db, fetcher: fetcher, rules: r}
}

type StageResult struct {
	Stage  string
	Counts map[string]int
}

func (s *Scraper) ScrapeStructures(ctx context.Context, refresh bool) (StageResult, error) {
	start := time.Now()

	doc, cached, err := s.fetcher.Document(ctx, s.cfg.CategoryURL, internal.PageCategory, "Category:Structures", refresh)
	if err != nil {
		return StageResult{}, fmt.Errorf("fetch category page: %w", err)
	}

	refs := ExtractStructureLinks(doc, s.cfg.CategoryURL, s.rules)
	if err := writeArtifact(filepath.Join(s.cfg.DataDir, StructuresFile), refs); err != nil {
		return StageResult{}, err
	}

	counts := map[string]int{"found": len(refs), "cachedPages": boolCount(cached)}
	s.recordStage("structures:scrape", start, counts)
	return StageResult{Stage: "structures:scrape", Counts: counts}, nil
}

func (s *Scraper) FilterStructures() (StageResult, error) {
	start := time.Now()

	var refs []internal.StructureRef
	if err := readArtifact(filepath.Join(s.cfg.DataDir, StructuresFile), "structures:scrape", &refs); err != nil {
		return StageResult{}, err
	}

	kept, dropped := FilterStructureRefs(refs, s.rules)
	if err := writeArtifact(filepath.Join(s.cfg.DataDir, FilteredStructuresFile), kept); err != nil {
		return StageResult{}, err
	}

	counts := map[string]int{"kept": len(kept), "dropped": dropped}
	s.recordStage("structures:filter", start, counts)
	return StageResult{Stage: "structures:filter", Counts: counts}, nil
}

func (s *Scraper) ScrapeRecipeLinks(ctx context.Context, refresh bool, limit int) (StageResult, error) {
	start := time.Now()

	var structures []internal.StructureRef
	if err := readArtifact(filepath.Join(s.cfg.DataDir, FilteredStructuresFile), "structures:filter", &structures); err != nil {
		return StageResult{}, err
	}
	if limit > 0 && len(structures) > limit {
		structures = structures[:limit]
	}

	drafts := []internal.RecipeDraft{}
	failed := 0
	for i, st := range structures {
		fmt.Printf("[%d/%d] structure %s\n", i+1, len(structures), st.Name)
		doc, _, err := s.fetcher.Document(ctx, st.URL, internal.PageStructure, st.Name, refresh)
		if err != nil {
			fmt.Printf("  fetch failed url=%s err=%v\n", st.URL, err)
			failed++
			continue
		}
		drafts = append(drafts, ExtractStructureRecipes(doc, st.URL, st.Name, s.rules)...)
	}

	links, duplicates := MergeDrafts(drafts)
	if err := writeArtifact(filepath.Join(s.cfg.DataDir, RecipeLinksFile), links); err != nil {
		return StageResult{}, err
	}

	counts := map[string]int{
		"structures": len(structures),
		"failed":     failed,
		"drafts":     len(drafts),
		"unique":     len(links),
		"duplicates": duplicates,
	}
	s.recordStage("recipes:links", start, counts)
	return StageResult{Stage: "recipes:links", Counts: counts}, nil
}

func (s *Scraper) ScrapeRecipeDetails(ctx context.Context, refresh bool, limit int) (StageResult, error) {
	start := time.Now()

	var links []internal.RecipeLink
	if err := readArtifact(filepath.Join(s.cfg.DataDir, RecipeLinksFile), "recipes:links", &links); err != nil {
		return StageResult{}, err
	}
	if limit > 0 && len(links) > limit {
		links = links[:limit]
	}

	details := []internal.RecipeDetail{}
	failed := 0
	droppedItems := 0
	for i, link := range links {
		fmt.Printf("[%d/%d] recipe %s\n", i+1, len(links), link.Name)
		doc, _, err := s.fetcher.Document(ctx, link.URL, internal.PageRecipe, link.Name, refresh)
		if err != nil {
			fmt.Printf("  fetch failed url=%s err=%v\n", link.URL, err)
			failed++
			continue
		}

		detail, dropped := ExtractRecipeDetail(doc, link.Name, link.URL, s.rules)
		detail.Structures = link.Structures
		if dropped > 0 {
			fmt.Printf("  dropped %d item(s) without quantities url=%s\n", dropped, link.URL)
			droppedItems += dropped
		}
		details = append(details, detail)
	}

	if err := writeArtifact(filepath.Join(s.cfg.DataDir, RecipeDetailsFile), details); err != nil {
		return StageResult{}, err
	}

	counts := map[string]int{
		"recipes":      len(details),
		"failed":       failed,
		"droppedItems": droppedItems,
	}
	s.recordStage("recipes:details", start, counts)
	return StageResult{Stage: "recipes:details", Counts: counts}, nil
}

func (s *Scraper) recordStage(stage string, start time.Time, counts map[string]int) {
	timings := map[string]float64{"totalMs": float64(time.Since(start).Milliseconds())}
	_ = s.db.InsertRun(traceID(), stage, timings, counts)
	_ = s.db.SetMetadata("stage."+metadataKey(stage)+".last_run", time.Now().UTC().Format(time.RFC3339))
}

func metadataKey(stage string) string {
	return strings.ReplaceAll(stage, ":", "_")
}

func readArtifact(path, producedBy string, out any) error {
	blob, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s (run %s first)", ErrMissingArtifact, path, producedBy)
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(blob, out)
}

// writeArtifact replaces a stage artifact wholesale: written to a sibling
// temp file first so readers never observe a half-written JSON document.
func writeArtifact(path string, v any) error {
	blob, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, blob, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func boolCount(b bool) int {
	if b {
		return 1
	}
	return 0
}

func traceID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("run-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}
