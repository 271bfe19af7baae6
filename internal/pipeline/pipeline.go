// Package pipeline runs one ingestion pass: search, merge, window, then a
// strictly sequential per-article loop of exclusion, duplicate check, scrape,
// relevance, classification, and persistence.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hoanghai1803/newsclip/internal/ai"
	"github.com/hoanghai1803/newsclip/internal/classify"
	"github.com/hoanghai1803/newsclip/internal/dedup"
	"github.com/hoanghai1803/newsclip/internal/models"
	"github.com/hoanghai1803/newsclip/internal/relevance"
	"github.com/hoanghai1803/newsclip/internal/search"
)

var (
	// ErrStoreUnavailable aborts a run whose store ping failed.
	ErrStoreUnavailable = errors.New("article store unavailable")

	// ErrNotConfigured is returned when a required dependency is missing.
	ErrNotConfigured = errors.New("pipeline dependencies not configured")
)

// Store is the persistent article store and the source of truth for
// cross-run duplicate detection.
type Store interface {
	Ping(ctx context.Context) error
	TitleExists(ctx context.Context, title string) (bool, error)
	Save(ctx context.Context, rec models.Record) error
}

// Reclassifier is implemented by stores that can relabel an existing record.
type Reclassifier interface {
	PageIDByURL(ctx context.Context, link string) (string, error)
	UpdateClassification(ctx context.Context, pageID string, rec models.Record) error
}

// Scraper fetches article details. It never fails; missing data comes back
// as empty or unknown fields.
type Scraper interface {
	Fetch(ctx context.Context, link string) models.ArticleDetails
}

// Ledger records run summaries.
type Ledger interface {
	RecordRun(ctx context.Context, run *models.Run) error
}

// Clock returns the current time.
type Clock func() time.Time

// SleepFunc pauses for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Deps lists the pipeline's collaborators and settings.
type Deps struct {
	Searcher  search.Searcher
	Scraper   Scraper
	Oracle    ai.Oracle
	Heuristic *classify.Heuristic
	Filter    *relevance.Filter
	Store     Store
	Ledger    Ledger // optional

	Queries         []string
	PageSize        int
	MaxStart        int
	SearchDelay     time.Duration
	ArticleDelay    time.Duration
	SessionWindow   int
	IrrelevantLabel string
	Location        *time.Location

	Clock Clock
	Sleep SleepFunc
}

// Plan describes one run.
type Plan struct {
	Mode   string
	Window Window
	// Sorts are the search orderings to collect with. Empty means date only.
	Sorts []search.Sort
	// Chronological processes the windowed set oldest first.
	Chronological bool
}

// Pipeline orchestrates ingestion runs. It is not safe for concurrent runs.
type Pipeline struct {
	searcher   search.Searcher
	scraper    Scraper
	oracle     ai.Oracle
	heuristic  *classify.Heuristic
	filter     *relevance.Filter
	store      Store
	ledger     Ledger
	gate       *dedup.Gate
	queries    []string
	pageSize   int
	maxStart   int
	searchWait time.Duration
	articleGap time.Duration
	windowSize int
	irrelevant string
	loc        *time.Location
	clock      Clock
	sleep      SleepFunc
}

// New creates a Pipeline. A nil Oracle is replaced with ai.Disabled.
func New(deps Deps) *Pipeline {
	p := &Pipeline{
		searcher:   deps.Searcher,
		scraper:    deps.Scraper,
		oracle:     deps.Oracle,
		heuristic:  deps.Heuristic,
		filter:     deps.Filter,
		store:      deps.Store,
		ledger:     deps.Ledger,
		queries:    deps.Queries,
		pageSize:   deps.PageSize,
		maxStart:   deps.MaxStart,
		searchWait: deps.SearchDelay,
		articleGap: deps.ArticleDelay,
		windowSize: deps.SessionWindow,
		irrelevant: deps.IrrelevantLabel,
		loc:        deps.Location,
		clock:      deps.Clock,
		sleep:      deps.Sleep,
	}
	if p.oracle == nil {
		p.oracle = ai.Disabled{}
	}
	if p.pageSize <= 0 {
		p.pageSize = 100
	}
	if p.maxStart <= 0 {
		p.maxStart = 1000
	}
	if p.windowSize <= 0 {
		p.windowSize = dedup.DefaultWindowSize
	}
	if p.loc == nil {
		p.loc = time.UTC
	}
	if p.clock == nil {
		p.clock = time.Now
	}
	if p.sleep == nil {
		p.sleep = sleepContext
	}
	if p.store != nil {
		p.gate = dedup.NewGate(p.store, p.oracle)
	}
	return p
}

func (p *Pipeline) validateDeps() error {
	switch {
	case p.searcher == nil:
		return fmt.Errorf("%w: searcher", ErrNotConfigured)
	case p.scraper == nil:
		return fmt.Errorf("%w: scraper", ErrNotConfigured)
	case p.heuristic == nil:
		return fmt.Errorf("%w: heuristic classifier", ErrNotConfigured)
	case p.filter == nil:
		return fmt.Errorf("%w: relevance filter", ErrNotConfigured)
	case p.store == nil:
		return fmt.Errorf("%w: store", ErrNotConfigured)
	case len(p.queries) == 0:
		return fmt.Errorf("%w: search queries", ErrNotConfigured)
	}
	return nil
}

// Run executes one ingestion pass and returns its summary. Only a missing
// dependency, a failed store ping, or context cancellation return an
// error; per-article failures are counted and skipped.
func (p *Pipeline) Run(ctx context.Context, plan Plan) (*models.Run, error) {
	if err := p.validateDeps(); err != nil {
		return nil, err
	}

	run := &models.Run{
		ID:          uuid.NewString(),
		Mode:        plan.Mode,
		WindowStart: plan.Window.Start,
		StartedAt:   p.clock(),
	}
	if !plan.Window.Open() {
		end := plan.Window.End
		run.WindowEnd = &end
	}

	logger := slog.With("run", run.ID, "mode", plan.Mode)
	logger.Info("starting run",
		"window_start", plan.Window.Start.Format(time.RFC3339),
		"open_ended", plan.Window.Open(),
		"oracle", p.oracle.Available(),
	)

	if err := p.store.Ping(ctx); err != nil {
		err = fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		p.finish(ctx, run, err)
		return run, err
	}
	p.record(ctx, run)

	fetched, err := p.fetch(ctx, plan)
	run.Fetched = len(fetched)
	if err != nil {
		p.finish(ctx, run, err)
		return run, err
	}

	unique := MergeByLink(fetched)
	run.Unique = len(unique)

	candidates := FilterWindow(unique, plan.Window)
	run.InWindow = len(candidates)
	if plan.Chronological {
		SortChronological(candidates)
	}
	logger.Info("collected candidates", "fetched", run.Fetched, "unique", run.Unique, "in_window", run.InWindow)

	session := dedup.NewWindow(p.windowSize)
	for i, a := range candidates {
		if i > 0 {
			if err := p.sleep(ctx, p.articleGap); err != nil {
				p.finish(ctx, run, err)
				return run, err
			}
		}
		p.tally(run, p.process(ctx, a, session))
		if err := ctx.Err(); err != nil {
			p.finish(ctx, run, err)
			return run, err
		}
	}

	p.finish(ctx, run, nil)
	logger.Info("run complete",
		"persisted", run.Persisted,
		"duplicates", run.Duplicates,
		"irrelevant", run.Irrelevant,
		"rejected", run.Rejected,
		"excluded", run.Excluded,
		"failed", run.Failed,
	)
	return run, nil
}

// fetch pages through every query and ordering. A failed request ends
// paging for that query only.
func (p *Pipeline) fetch(ctx context.Context, plan Plan) ([]models.Article, error) {
	sorts := plan.Sorts
	if len(sorts) == 0 {
		sorts = []search.Sort{search.SortDate}
	}

	var all []models.Article
	first := true
	for _, term := range p.queries {
		for _, order := range sorts {
			for start := 1; start <= p.maxStart; start += p.pageSize {
				if !first {
					if err := p.sleep(ctx, p.searchWait); err != nil {
						return all, err
					}
				}
				first = false

				page, err := p.searcher.Search(ctx, search.Query{
					Term:    term,
					Start:   start,
					Display: p.pageSize,
					Sort:    order,
				})
				if err != nil {
					if ctx.Err() != nil {
						return all, ctx.Err()
					}
					slog.Warn("search request failed", "query", term, "start", start, "sort", order, "error", err)
					break
				}
				if len(page) == 0 {
					break
				}

				if order == search.SortDate && pastWindow(page, plan.Window.Start) {
					for _, a := range page {
						if !a.PublishedAt.Before(plan.Window.Start) {
							all = append(all, a)
						}
					}
					break
				}

				all = append(all, page...)
				if len(page) < p.pageSize {
					break
				}
			}
		}
	}
	return all, nil
}

// pastWindow reports whether the oldest dated item on a page precedes start.
func pastWindow(page []models.Article, start time.Time) bool {
	var oldest time.Time
	for _, a := range page {
		if a.PublishedAt.IsZero() {
			continue
		}
		if oldest.IsZero() || a.PublishedAt.Before(oldest) {
			oldest = a.PublishedAt
		}
	}
	return !oldest.IsZero() && oldest.Before(start)
}

type outcome int

const (
	outcomePersisted outcome = iota
	outcomeExcluded
	outcomeDuplicate
	outcomeIrrelevant
	outcomeRejected
	outcomeFailed
)

func (p *Pipeline) tally(run *models.Run, o outcome) {
	switch o {
	case outcomePersisted:
		run.Persisted++
	case outcomeExcluded:
		run.Excluded++
	case outcomeDuplicate:
		run.Duplicates++
	case outcomeIrrelevant:
		run.Irrelevant++
	case outcomeRejected:
		run.Rejected++
	case outcomeFailed:
		run.Failed++
	}
}

// process takes one candidate through every per-article stage.
func (p *Pipeline) process(ctx context.Context, a models.Article, session *dedup.Window) outcome {
	title := a.Title
	logger := slog.With("title", title, "link", a.Link)

	if p.filter.Excluded(a.Link) {
		logger.Info("skipped article", "reason", relevance.ReasonExcluded)
		return outcomeExcluded
	}

	res, err := p.gate.Check(ctx, title, session)
	if err != nil {
		logger.Warn("duplicate check failed", "error", err)
		return outcomeFailed
	}
	if res.Duplicate {
		logger.Info("skipped article", "reason", "duplicate", "stage", res.Stage, "matched", res.Matched)
		return outcomeDuplicate
	}

	details := p.scraper.Fetch(ctx, a.Link)

	verdict := p.filter.Evaluate(a, details.Body)
	if !verdict.Relevant {
		logger.Info("skipped article", "reason", verdict.Reason)
		return outcomeIrrelevant
	}

	cls := p.classify(ctx, title, details.Body)
	if cls.Category == p.irrelevant {
		logger.Info("skipped article", "reason", "classified irrelevant", "source", cls.Source)
		return outcomeRejected
	}

	rec := models.Record{
		Title:       title,
		Link:        a.Link,
		Date:        a.PublishedAt.In(p.loc),
		Category:    cls.Category,
		Type:        cls.Type,
		Publishers:  []string{details.Publisher},
		Byline:      details.Byline,
		Description: a.Description,
		Summary:     cls.Summary,
	}
	if err := p.store.Save(ctx, rec); err != nil {
		if errors.Is(err, models.ErrDuplicate) {
			logger.Info("skipped article", "reason", "duplicate", "stage", "store")
			return outcomeDuplicate
		}
		logger.Warn("failed to save article", "error", err)
		return outcomeFailed
	}

	session.Add(title)
	logger.Info("saved article", "category", cls.Category, "type", cls.Type, "source", cls.Source)
	return outcomePersisted
}

// classify asks the oracle first and falls back to the keyword heuristic
// when the oracle is disabled or fails.
func (p *Pipeline) classify(ctx context.Context, title, body string) models.Classification {
	if p.oracle.Available() {
		cls, err := p.oracle.Classify(ctx, title, body)
		if err == nil && cls != nil {
			return *cls
		}
		slog.Warn("oracle classification failed, using heuristic", "title", title, "error", err)
	}
	return p.heuristic.Classify(title, body)
}

// record writes the run to the ledger. Ledger failures are logged only.
func (p *Pipeline) record(ctx context.Context, run *models.Run) {
	if p.ledger == nil {
		return
	}
	// The run context may already be cancelled; the summary is still wanted.
	if err := p.ledger.RecordRun(context.WithoutCancel(ctx), run); err != nil {
		slog.Warn("failed to record run", "run", run.ID, "error", err)
	}
}

func (p *Pipeline) finish(ctx context.Context, run *models.Run, err error) {
	finished := p.clock()
	run.FinishedAt = &finished
	if err != nil {
		run.Error = err.Error()
	}
	p.record(ctx, run)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
