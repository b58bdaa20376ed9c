package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

type Config struct {
	CategoryURL string

	DBPath     string
	DataDir    string
	RecipesDir string
	OutputDir  string
	RawPageDir string
	RulesPath  string

	FetchDelayMs   int
	FetchTimeoutMs int
	FetchUserAgent string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		CategoryURL: getEnv("POTBS_CATEGORY_URL", "https://potbs.fandom.com/wiki/Category:Structures"),

		DBPath:     getEnv("DB_PATH", filepath.Join(cwd, "data", "app.db")),
		DataDir:    getEnv("DATA_DIR", filepath.Join(cwd, "data")),
		RecipesDir: getEnv("RECIPES_DIR", filepath.Join(cwd, "recipes")),
		OutputDir:  getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),
		RawPageDir: getEnv("RAW_PAGE_DIR", filepath.Join(cwd, "data", "raw")),
		RulesPath:  getEnv("SCRAPE_RULES_PATH", ""),

		FetchDelayMs:   getEnvInt("FETCH_DELAY_MS", 1000),
		FetchTimeoutMs: getEnvInt("FETCH_TIMEOUT_MS", 30000),
		FetchUserAgent: getEnv("FETCH_USER_AGENT", defaultUserAgent),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
