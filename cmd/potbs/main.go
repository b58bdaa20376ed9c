package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"

	"potbs/internal/config"
	"potbs/internal/pipeline"
	"potbs/internal/rules"
	"potbs/internal/storage"
	"potbs/internal/wiki"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	scrapeRules, err := rules.Load(cfg.RulesPath)
	must(err)

	client := wiki.NewClient(cfg, db)
	scraper := pipeline.NewScraper(cfg, db, client, scrapeRules)
	ctx := context.Background()

	cmd := os.Args[1]
	switch cmd {
	case "structures:scrape":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		refresh := fs.Bool("refresh", false, "refetch cached pages")
		_ = fs.Parse(os.Args[2:])
		res, err := scraper.ScrapeStructures(ctx, *refresh)
		must(err)
		printResult(res)
	case "structures:filter":
		res, err := scraper.FilterStructures()
		must(err)
		printResult(res)
	case "recipes:links":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		refresh := fs.Bool("refresh", false, "refetch cached pages")
		limit := fs.Int("limit", 0, "max structures to visit (0 = all)")
		_ = fs.Parse(os.Args[2:])
		res, err := scraper.ScrapeRecipeLinks(ctx, *refresh, *limit)
		must(err)
		printResult(res)
	case "recipes:details":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		refresh := fs.Bool("refresh", false, "refetch cached pages")
		limit := fs.Int("limit", 0, "max recipes to visit (0 = all)")
		_ = fs.Parse(os.Args[2:])
		res, err := scraper.ScrapeRecipeDetails(ctx, *refresh, *limit)
		must(err)
		printResult(res)
	case "recipes:convert":
		res, err := scraper.ConvertRecipes()
		must(err)
		printResult(res)
	case "names:repair":
		res, err := scraper.RepairNames()
		must(err)
		printResult(res)
	case "index:build":
		res, err := scraper.BuildRecipeIndex()
		must(err)
		printResult(res)
	case "index:export":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		out := fs.String("out", "", "output xlsx path (default <OUTPUT_DIR>/recipe-index.xlsx)")
		_ = fs.Parse(os.Args[2:])
		res, err := scraper.ExportRecipeIndex(*out)
		must(err)
		printResult(res)
	case "run":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		refresh := fs.Bool("refresh", false, "refetch cached pages")
		limit := fs.Int("limit", 0, "max pages per fetch stage (0 = all)")
		_ = fs.Parse(os.Args[2:])
		results, err := scraper.Run(ctx, *refresh, *limit)
		for _, res := range results {
			printResult(res)
		}
		must(err)

		failed, err := db.ListPagesByStatus("failed", 50)
		must(err)
		if len(failed) > 0 {
			fmt.Printf("failed pages (%d):\n", len(failed))
			for _, page := range failed {
				fmt.Printf("  %s: %s\n", page.URL, page.LastError)
			}
		}
	case "status":
		status, err := scraper.StatusReport()
		must(err)
		for _, st := range status.Stages {
			fmt.Printf("%-18s last_run=%s\n", st.Stage, st.LastRun)
		}
		fmt.Printf("pages fetched=%d failed=%d\n", status.FetchedPages, status.FailedPages)
	default:
		usage()
		os.Exit(1)
	}
}

func printResult(res pipeline.StageResult) {
	keys := make([]string, 0, len(res.Counts))
	for k := range res.Counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Printf("%s done", res.Stage)
	for _, k := range keys {
		fmt.Printf(" %s=%d", k, res.Counts[k])
	}
	fmt.Println()
}

func usage() {
	fmt.Println("usage: potbs <command>")
	fmt.Println("commands:")
	fmt.Println("  structures:scrape [--refresh]")
	fmt.Println("  structures:filter")
	fmt.Println("  recipes:links [--refresh] [--limit=0]")
	fmt.Println("  recipes:details [--refresh] [--limit=0]")
	fmt.Println("  recipes:convert")
	fmt.Println("  names:repair")
	fmt.Println("  index:build")
	fmt.Println("  index:export [--out=./out/recipe-index.xlsx]")
	fmt.Println("  run [--refresh] [--limit=0]")
	fmt.Println("  status")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
