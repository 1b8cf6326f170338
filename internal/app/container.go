package app

import (
	"log"
	"os"

	"jobradar/internal/analyzer"
	"jobradar/internal/cache"
	"jobradar/internal/config"
	"jobradar/internal/fetch"
	"jobradar/internal/matcher"
	"jobradar/internal/scheduler"
	"jobradar/internal/scraper"
	"jobradar/internal/store"
	"jobradar/internal/ws"
)

// Container wires every long-lived collaborator once and hands them to the
// HTTP layer and the binaries.
type Container struct {
	Config    config.Config
	Logger    *log.Logger
	Store     *store.JobStore
	Cache     *cache.Redis
	Hub       *ws.Hub
	Adapters  []scraper.Adapter
	LinkedIn  *scraper.LinkedIn
	Custom    *scraper.Custom
	Scheduler *scheduler.Scheduler
	Matcher   *matcher.Matcher
	Analyzer  *analyzer.Analyzer
}

func NewContainer(cfg config.Config) (*Container, error) {
	logger := log.New(os.Stdout, "", log.LstdFlags)

	st := store.New(cfg.Store.JobsFile, logger)
	if err := st.Seed(); err != nil {
		return nil, err
	}

	ca := cache.NewRedis(cfg.Redis.Addr(), cfg.Redis.Password, logger)

	hub := ws.NewHub(logger)
	go hub.Run()
	ws.SetDefaultHub(hub)

	static := fetch.NewStaticFetcher()
	dynamic := fetch.NewDynamicFetcher(logger)

	linkedin := scraper.NewLinkedIn(dynamic, logger)
	adapters := []scraper.Adapter{
		scraper.NewMeroJob(logger),
		scraper.NewKumariJob(logger),
		scraper.NewJobAxle(dynamic, logger),
		linkedin,
	}

	sched := scheduler.New(st, adapters, linkedin, cfg.Scraper.IntervalHours, logger)
	sched.SetCache(ca)

	scorer := matcher.NewLLMScorer(cfg.LLM.BaseURL, cfg.LLM.APIKey, cfg.LLM.MatchModel, logger)
	m := matcher.New(st, scorer, linkedin, cfg.Scraper.ScrapeOnMatch, logger)

	an := analyzer.New(cfg.LLM.BaseURL, cfg.LLM.APIKey, cfg.LLM.AnalysisModel, logger)

	return &Container{
		Config:    cfg,
		Logger:    logger,
		Store:     st,
		Cache:     ca,
		Hub:       hub,
		Adapters:  adapters,
		LinkedIn:  linkedin,
		Custom:    scraper.NewCustom(static, dynamic, logger),
		Scheduler: sched,
		Matcher:   m,
		Analyzer:  an,
	}, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Scheduler != nil {
		c.Scheduler.Stop()
	}
	if c.Cache != nil {
		return c.Cache.Close()
	}
	return nil
}
