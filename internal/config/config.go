package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	App     AppConfig
	Store   StoreConfig
	Scraper ScraperConfig
	LLM     LLMConfig
	Redis   RedisConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
}

type StoreConfig struct {
	// JobsFile is the path of the JSON snapshot the whole pipeline shares.
	JobsFile string
}

type ScraperConfig struct {
	// IntervalHours is the cron sweep period. Zero falls back to 12.
	IntervalHours int
	// ScrapeOnMatch runs a supplementary role scrape inside the match flow.
	ScrapeOnMatch bool
}

type LLMConfig struct {
	BaseURL       string
	APIKey        string
	MatchModel    string
	AnalysisModel string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

func (r RedisConfig) Addr() string {
	host := r.Host
	if host == "" {
		host = "localhost"
	}
	port := r.Port
	if port == "" {
		port = "6379"
	}
	return host + ":" + port
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

func Load() (Config, error) {
	cfg := Config{}

	var missing []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key string) string {
		return strings.TrimSpace(os.Getenv(key))
	}
	optInt := func(key string, fallback int) int {
		raw := strings.TrimSpace(os.Getenv(key))
		if raw == "" {
			return fallback
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			return fallback
		}
		return v
	}
	optBool := func(key string) bool {
		raw := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
		return raw == "1" || raw == "true" || raw == "yes"
	}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
	}

	cfg.Store = StoreConfig{
		JobsFile: opt("JOBS_FILE"),
	}
	if cfg.Store.JobsFile == "" {
		cfg.Store.JobsFile = "data/jobs.json"
	}

	cfg.Scraper = ScraperConfig{
		IntervalHours: optInt("SCRAPER_INTERVAL_HOURS", 12),
		ScrapeOnMatch: optBool("SCRAPE_ON_MATCH"),
	}

	cfg.LLM = LLMConfig{
		BaseURL:       opt("GROQ_BASE_URL"),
		APIKey:        opt("GROQ_API_KEY"),
		MatchModel:    opt("GROQ_MATCH_MODEL"),
		AnalysisModel: opt("GROQ_ANALYSIS_MODEL"),
	}

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST"),
		Port:     opt("REDIS_PORT"),
		Password: opt("REDIS_PASSWORD"),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	return cfg, nil
}
