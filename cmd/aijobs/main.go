package main

import (
	"context"
	"flag"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"aijobs-engine/internal/classify"
	"aijobs-engine/internal/config"
	"aijobs-engine/internal/fetch"
	"aijobs-engine/internal/pipeline"
	"aijobs-engine/internal/policy"
	"aijobs-engine/internal/report"
	"aijobs-engine/internal/scheduler"
	"aijobs-engine/internal/scrape/ats"
	"aijobs-engine/internal/scrape/rssfeed"
	"aijobs-engine/internal/scrape/searchpage"
	"aijobs-engine/internal/scrape/types"
	"aijobs-engine/internal/scrape/vendorfeed"
	"aijobs-engine/internal/secrets"
	"aijobs-engine/internal/store"
)

func main() {
	var (
		cfgFlag    = flag.String("config", "", "path to config.yml (default: user copy under the data dir)")
		schedule   = flag.Bool("schedule", false, "keep running on the configured cron schedule")
		reprocess  = flag.Bool("reprocess", false, "re-filter the newest raw CSV instead of crawling")
		exportSite = flag.Bool("export-site", false, "export docs/jobs.json from the cumulative store and exit")
		setAPIKey  = flag.String("set-api-key", "", "store an OpenAI API key in the OS keychain and exit")
	)
	flag.Parse()

	if *setAPIKey != "" {
		if err := secrets.SetOpenAIKey(*setAPIKey); err != nil {
			log.Fatalf("store api key: %v", err)
		}
		log.Printf("OpenAI API key stored in keychain")
		return
	}

	// Engine data dir: env if provided, else local folder.
	dataDir := os.Getenv("AIJOBS_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	config.LoadEnv()

	cfgPath := *cfgFlag
	if cfgPath == "" {
		var err error
		cfgPath, err = config.EnsureUserConfig(dataDir, filepath.Join("config", "config.yml"))
		if err != nil {
			log.Fatalf("config bootstrap failed: %v", err)
		}
	}

	raw, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load failed (%s): %v", cfgPath, err)
	}
	cfg, res := config.NormalizeAndValidate(raw)
	for _, w := range res.Warnings {
		log.Printf("[config] warning: %s", w)
	}
	if !res.OK() {
		for _, e := range res.Errors {
			log.Printf("[config] error: %s", e)
		}
		log.Fatalf("config invalid (%s)", cfgPath)
	}

	// Mirror the log to a file under the data dir so scheduled runs keep a
	// trail.
	logFile, err := os.OpenFile(filepath.Join(dataDir, "aijobs.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		log.Fatalf("open log file: %v", err)
	}
	defer logFile.Close()
	log.SetOutput(io.MultiWriter(os.Stderr, logFile))

	db, err := store.Open(filepath.Join(dataDir, "aijobs.db"))
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *exportSite {
		path, err := report.ExportSiteJSON(ctx, db.Pool, "docs")
		if err != nil {
			log.Fatalf("export site data: %v", err)
		}
		log.Printf("site data exported: %s", path)
		return
	}

	p := pipeline.New(cfg, buildCrawlers(cfg), buildScorer(cfg), db.Pool)

	switch {
	case *reprocess:
		if err := p.Reprocess(ctx); err != nil {
			log.Fatalf("reprocess failed: %v", err)
		}
	case *schedule:
		if err := scheduler.RunOnSchedule(ctx, cfg.Schedule.Cron, "aijobs", p.Run); err != nil {
			log.Fatalf("scheduler failed: %v", err)
		}
	default:
		if err := p.Run(ctx); err != nil {
			log.Fatalf("run failed: %v", err)
		}
	}
}

// buildCrawlers assembles the enabled sources in registration order. Each
// source gets its own policy guard and HTTP client so one source's pacing
// never throttles another.
func buildCrawlers(cfg config.Config) []types.Crawler {
	ua := cfg.Crawler.UserAgent
	timeout := cfg.Timeout()
	retries := cfg.Crawler.MaxRetries
	robotsHC := &http.Client{Timeout: timeout}

	newClient := func(name, baseURL string, src config.SourceConfig) *fetch.Client {
		guard := policy.New(name, baseURL, ua, cfg.SourceDelay(src), cfg.Crawler.RespectRobots, robotsHC)
		return fetch.New(guard, ua, timeout, retries)
	}

	var crawlers []types.Crawler

	if src := cfg.Sources.SearchPage; src.Enabled {
		client := newClient("searchpage", src.BaseURL, src)
		crawlers = append(crawlers, searchpage.New(searchpage.Config{BaseURL: src.BaseURL}, client))
	}
	if src := cfg.Sources.VendorFeed; src.Enabled {
		client := newClient("vendorfeed", src.BaseURL, src).WithAccept("application/json")
		crawlers = append(crawlers, vendorfeed.New(vendorfeed.Config{BaseURL: src.BaseURL}, client))
	}
	if src := cfg.Sources.RSSFeed; src.Enabled {
		client := newClient("rssfeed", src.BaseURL, src).
			WithAccept("application/rss+xml, application/xml;q=0.9, */*;q=0.8")
		crawlers = append(crawlers, rssfeed.New(rssfeed.Config{BaseURL: src.BaseURL}, client))
	}
	if src := cfg.Sources.ATS; src.Enabled {
		base := src.BaseURL
		if base == "" {
			base = "https://boards-api.greenhouse.io"
		}
		client := newClient("ats", base, src.SourceConfig).WithAccept("application/json")

		atsCfg := ats.Config{}
		for _, co := range src.Companies {
			atsCfg.Companies = append(atsCfg.Companies, ats.Company{
				Name: co.Name, BoardToken: co.BoardToken, ATS: co.ATS,
			})
		}
		for _, cu := range src.CustomURLs {
			atsCfg.CustomURLs = append(atsCfg.CustomURLs, ats.CustomURL{Name: cu.Name, URL: cu.URL})
		}
		crawlers = append(crawlers, ats.New(atsCfg, client))
	}

	return crawlers
}

// buildScorer picks the relevance strategy from config. A missing OpenAI
// key returns nil; the pipeline then degrades to keeping the raw batch
// rather than losing a run's crawl.
func buildScorer(cfg config.Config) classify.Scorer {
	switch cfg.Filter.Backend {
	case "openai":
		key, err := secrets.GetOpenAIKey()
		if err != nil {
			log.Printf("[main] warning: %v; classification disabled for this run", err)
			return nil
		}
		return classify.NewOpenAIScorer(key, cfg.OpenAI.Model, cfg.Filter.MinRelevanceScore,
			cfg.Filter.Keywords, cfg.Filter.ExcludedKeywords)
	default:
		return classify.KeywordScorer{
			Keywords:         cfg.Filter.Keywords,
			ExcludedKeywords: cfg.Filter.ExcludedKeywords,
			Threshold:        cfg.Filter.MinRelevanceScore,
		}
	}
}
