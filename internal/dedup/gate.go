// Package dedup implements the two-stage duplicate check: exact title
// matching against the store, then semantic similarity against titles
// accepted earlier in the same run. Titles are compared exactly as given;
// searchers clean them once when they are fetched.
package dedup

import (
	"context"
	"fmt"
	"log/slog"
)

// Stages reported in a Result.
const (
	StageNone     = ""
	StageExact    = "exact"
	StageSemantic = "semantic"
)

// TitleIndex answers exact title lookups against persisted records.
type TitleIndex interface {
	TitleExists(ctx context.Context, title string) (bool, error)
}

// SimilarityChecker judges whether a title repeats a recent one.
type SimilarityChecker interface {
	Available() bool
	CheckSimilar(ctx context.Context, title string, recent []string) (bool, string, error)
}

// Result is the outcome of a duplicate check.
type Result struct {
	Duplicate bool
	Stage     string
	Matched   string
}

// Gate runs the duplicate checks for one candidate at a time.
type Gate struct {
	index   TitleIndex
	checker SimilarityChecker
}

// NewGate creates a Gate.
func NewGate(index TitleIndex, checker SimilarityChecker) *Gate {
	return &Gate{index: index, checker: checker}
}

// Check returns the duplicate verdict for title. Only a failed exact lookup
// is returned as an error; similarity failures count as not duplicate.
func (g *Gate) Check(ctx context.Context, title string, w *Window) (Result, error) {
	exists, err := g.index.TitleExists(ctx, title)
	if err != nil {
		return Result{}, fmt.Errorf("checking title existence: %w", err)
	}
	if exists {
		return Result{Duplicate: true, Stage: StageExact, Matched: title}, nil
	}

	if !g.checker.Available() || w.Len() == 0 {
		return Result{}, nil
	}

	dup, matched, err := g.checker.CheckSimilar(ctx, title, w.Recent())
	if err != nil {
		slog.Warn("similarity check failed, treating as new", "title", title, "error", err)
		return Result{}, nil
	}
	if !dup {
		return Result{}, nil
	}
	return Result{Duplicate: true, Stage: StageSemantic, Matched: matched}, nil
}
