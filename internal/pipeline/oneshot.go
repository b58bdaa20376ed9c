package pipeline

import (
	"context"
)

// StageNames lists the pipeline stages in execution order.
var StageNames = []string{
	"structures:scrape",
	"structures:filter",
	"recipes:links",
	"recipes:details",
	"recipes:convert",
	"names:repair",
	"index:build",
	"index:export",
}

// Run executes the whole pipeline in order. Individual page failures are
// absorbed by the stages; an error here means a stage could not produce its
// artifact at all.
func (s *Scraper) Run(ctx context.Context, refresh bool, limit int) ([]StageResult, error) {
	results := []StageResult{}

	steps := []func() (StageResult, error){
		func() (StageResult, error) { return s.ScrapeStructures(ctx, refresh) },
		func() (StageResult, error) { return s.FilterStructures() },
		func() (StageResult, error) { return s.ScrapeRecipeLinks(ctx, refresh, limit) },
		func() (StageResult, error) { return s.ScrapeRecipeDetails(ctx, refresh, limit) },
		func() (StageResult, error) { return s.ConvertRecipes() },
		func() (StageResult, error) { return s.RepairNames() },
		func() (StageResult, error) { return s.BuildRecipeIndex() },
		func() (StageResult, error) { return s.ExportRecipeIndex("") },
	}

	for _, step := range steps {
		res, err := step()
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

type StageStatus struct {
	Stage   string
	LastRun string
}

type Status struct {
	Stages       []StageStatus
	FetchedPages int
	FailedPages  int
}

// StatusReport summarizes when each stage last ran and how the page cache
// looks.
func (s *Scraper) StatusReport() (Status, error) {
	status := Status{}
	for _, stage := range StageNames {
		lastRun := "never"
		value, err := s.db.GetMetadata("stage." + metadataKey(stage) + ".last_run")
		if err != nil {
			return Status{}, err
		}
		if value != nil {
			lastRun = *value
		}
		status.Stages = append(status.Stages, StageStatus{Stage: stage, LastRun: lastRun})
	}

	fetched, err := s.db.CountPagesByStatus("fetched")
	if err != nil {
		return Status{}, err
	}
	failed, err := s.db.CountPagesByStatus("failed")
	if err != nil {
		return Status{}, err
	}
	status.FetchedPages = fetched
	status.FailedPages = failed
	return status, nil
}
