package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hoanghai1803/newsclip/internal/ai"
	"github.com/hoanghai1803/newsclip/internal/api"
	"github.com/hoanghai1803/newsclip/internal/classify"
	"github.com/hoanghai1803/newsclip/internal/config"
	"github.com/hoanghai1803/newsclip/internal/keywords"
	"github.com/hoanghai1803/newsclip/internal/logging"
	"github.com/hoanghai1803/newsclip/internal/models"
	"github.com/hoanghai1803/newsclip/internal/notion"
	"github.com/hoanghai1803/newsclip/internal/pipeline"
	"github.com/hoanghai1803/newsclip/internal/relevance"
	"github.com/hoanghai1803/newsclip/internal/runmode"
	"github.com/hoanghai1803/newsclip/internal/scrape"
	"github.com/hoanghai1803/newsclip/internal/search"
	"github.com/hoanghai1803/newsclip/internal/storage"
)

type options struct {
	configPath string
	dataDir    string
	date       string
	year       int
	hours      int
	week       bool
	loop       bool
	inspect    bool
	reclassify string
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "config.toml", "path to config file")
	flag.StringVar(&opts.dataDir, "data-dir", "./data", "path to data directory")
	flag.StringVar(&opts.date, "date", "", "process one calendar day (YYYY-MM-DD)")
	flag.IntVar(&opts.year, "year", 0, "process one calendar year")
	flag.IntVar(&opts.hours, "hours", 0, "process the last N hours")
	flag.BoolVar(&opts.week, "week", false, "process the last 7 days")
	flag.BoolVar(&opts.loop, "loop", false, "run continuously")
	flag.BoolVar(&opts.inspect, "inspect", false, "print the Notion database schema and exit")
	flag.StringVar(&opts.reclassify, "reclassify", "", "reclassify the stored article with this URL and exit")
	flag.Parse()

	if err := validateModes(opts); err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}

	if err := run(opts); err != nil {
		slog.Error("newsclip failed", "error", err)
		os.Exit(1)
	}
}

// validateModes rejects more than one run selector.
func validateModes(opts options) error {
	selected := 0
	for _, set := range []bool{
		opts.date != "",
		opts.year != 0,
		opts.hours != 0,
		opts.week,
		opts.loop,
		opts.inspect,
		opts.reclassify != "",
	} {
		if set {
			selected++
		}
	}
	if selected > 1 {
		return errors.New("-date, -year, -hours, -week, -loop, -inspect and -reclassify are mutually exclusive")
	}
	return nil
}

func run(opts options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	slog.SetDefault(logging.New(cfg.Logging.Level))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.inspect {
		return inspect(ctx, cfg)
	}

	if err := os.MkdirAll(opts.dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	db, err := storage.OpenDatabase(filepath.Join(opts.dataDir, "newsclip.db"))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if err := storage.RunMigrations(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	ledger := storage.NewStore(db)

	profile, err := loadProfile(cfg.Pipeline.KeywordsFile)
	if err != nil {
		return err
	}

	oracle, err := ai.NewOracle(ctx, ai.ProviderConfig{
		Provider: cfg.AI.Provider,
		APIKey:   cfg.AI.APIKey,
		Model:    cfg.AI.Model,
		BaseURL:  cfg.AI.BaseURL,
	}, ai.LabelsFromProfile(profile))
	if err != nil {
		return fmt.Errorf("creating oracle: %w", err)
	}
	defer func() {
		if err := oracle.Close(); err != nil {
			slog.Warn("failed to close oracle", "error", err)
		}
	}()
	if oracle.Available() {
		slog.Info("classification oracle configured", "provider", cfg.AI.Provider, "model", cfg.AI.Model)
	} else {
		slog.Warn("no AI API key configured, using keyword heuristics only")
	}

	var heuristicOpts []classify.Option
	if cfg.Pipeline.HeuristicType {
		heuristicOpts = append(heuristicOpts, classify.WithTypeKeywords())
	}

	loc := cfg.Pipeline.Location()
	p := pipeline.New(pipeline.Deps{
		Searcher:        newSearcher(cfg),
		Scraper:         scrape.New(),
		Oracle:          oracle,
		Heuristic:       classify.NewHeuristic(profile, heuristicOpts...),
		Filter:          relevance.NewFilter(profile),
		Store:           newStore(cfg, ledger),
		Ledger:          ledger,
		Queries:         cfg.Search.Queries,
		PageSize:        cfg.Search.PageSize,
		MaxStart:        cfg.Search.MaxStart,
		SearchDelay:     cfg.Search.SearchDelay(),
		ArticleDelay:    cfg.Pipeline.ArticleDelay(),
		SessionWindow:   cfg.Pipeline.SessionWindow,
		IrrelevantLabel: profile.Oracle.IrrelevantLabel,
		Location:        loc,
	})

	if opts.reclassify != "" {
		cls, err := p.Reclassify(ctx, opts.reclassify)
		if err != nil {
			return err
		}
		fmt.Printf("%s -> %s / %s (%s)\n", opts.reclassify, cls.Category, cls.Type, cls.Source)
		return nil
	}

	runner := runmode.NewRunner(p, loc, runmode.WithLoop(runmode.LoopConfig{
		FirstWindowHours: cfg.Loop.FirstWindowHours,
		WindowHours:      cfg.Loop.WindowHours,
		Interval:         cfg.Loop.Interval(),
	}))

	if opts.loop {
		return loop(ctx, runner, cfg, ledger)
	}

	var summary *models.Run
	switch {
	case opts.date != "":
		var day time.Time
		if day, err = runmode.ParseDay(opts.date, loc); err != nil {
			return err
		}
		summary, err = runner.Day(ctx, day)
	case opts.year != 0:
		summary, err = runner.Year(ctx, opts.year)
	case opts.hours != 0:
		summary, err = runner.Hours(ctx, opts.hours)
	case opts.week:
		summary, err = runner.Week(ctx)
	default:
		summary, err = runner.Hours(ctx, 24)
	}
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	fmt.Printf("run %s (%s): %d fetched, %d in window, %d saved, %d duplicates, %d irrelevant, %d failed\n",
		summary.ID, summary.Mode, summary.Fetched, summary.InWindow, summary.Persisted,
		summary.Duplicates, summary.Irrelevant+summary.Rejected+summary.Excluded, summary.Failed)
	return nil
}

// loop runs continuous mode, plus the status API when enabled, until a
// signal arrives.
func loop(ctx context.Context, runner *runmode.Runner, cfg *config.Config, ledger *storage.Store) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return runner.Loop(gctx)
	})

	if cfg.Server.Enabled {
		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:           api.NewRouter(ledger),
			ReadHeaderTimeout: 10 * time.Second,
		}
		g.Go(func() error {
			slog.Info("starting status server", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("status server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		slog.Info("shutting down")
		return nil
	}
	return err
}

func inspect(ctx context.Context, cfg *config.Config) error {
	if cfg.Notion.Token == "" || cfg.Notion.DatabaseID == "" {
		return errors.New("inspect requires notion.token and notion.database_id")
	}
	client := notion.New(cfg.Notion.Token, cfg.Notion.DatabaseID, notion.WithVersion(cfg.Notion.Version))

	info, err := client.Inspect(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Database: %s\n", info.Title)
	for _, p := range info.Properties {
		fmt.Printf("  %-20s %s\n", p.Name, p.Type)
	}
	if len(info.Missing) == 0 {
		fmt.Println("All required properties are present.")
		return nil
	}
	fmt.Println("Missing or mistyped properties:")
	for _, p := range info.Missing {
		fmt.Printf("  %-20s %s\n", p.Name, p.Type)
	}
	return nil
}

func loadProfile(path string) (*keywords.Profile, error) {
	if path == "" {
		p, err := keywords.Default()
		if err != nil {
			return nil, fmt.Errorf("loading default keyword profile: %w", err)
		}
		return p, nil
	}
	p, err := keywords.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading keyword profile: %w", err)
	}
	slog.Info("loaded keyword profile", "path", path, "version", p.Version)
	return p, nil
}

func newSearcher(cfg *config.Config) search.Searcher {
	if cfg.Search.Provider == "rss" {
		return search.NewRSS(cfg.Search.RSSURLTemplate)
	}
	return search.NewNaver(cfg.Naver.ClientID, cfg.Naver.ClientSecret, "")
}

func newStore(cfg *config.Config, local *storage.Store) pipeline.Store {
	if cfg.Store.Backend == "sqlite" {
		return local
	}
	return notion.New(cfg.Notion.Token, cfg.Notion.DatabaseID, notion.WithVersion(cfg.Notion.Version))
}
