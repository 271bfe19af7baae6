package dedup

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

type fakeIndex struct {
	titles map[string]bool
	err    error
	asked  []string
}

func (f *fakeIndex) TitleExists(_ context.Context, title string) (bool, error) {
	f.asked = append(f.asked, title)
	return f.titles[title], f.err
}

type fakeChecker struct {
	available bool
	dup       bool
	matched   string
	err       error
	calls     int
	recent    []string
}

func (f *fakeChecker) Available() bool { return f.available }

func (f *fakeChecker) CheckSimilar(_ context.Context, _ string, recent []string) (bool, string, error) {
	f.calls++
	f.recent = recent
	return f.dup, f.matched, f.err
}

func windowWith(titles ...string) *Window {
	w := NewWindow(0)
	for _, t := range titles {
		w.Add(t)
	}
	return w
}

func TestGateCheck(t *testing.T) {
	tests := []struct {
		name      string
		index     *fakeIndex
		checker   *fakeChecker
		window    *Window
		want      Result
		wantCalls int
	}{
		{
			name:    "exact match short-circuits",
			index:   &fakeIndex{titles: map[string]bool{"1형당뇨 신약 발표": true}},
			checker: &fakeChecker{available: true, dup: true, matched: "x"},
			window:  windowWith("다른 기사"),
			want:    Result{Duplicate: true, Stage: StageExact, Matched: "1형당뇨 신약 발표"},
		},
		{
			name:    "oracle unavailable",
			index:   &fakeIndex{},
			checker: &fakeChecker{available: false, dup: true},
			window:  windowWith("다른 기사"),
			want:    Result{},
		},
		{
			name:    "empty window skips oracle",
			index:   &fakeIndex{},
			checker: &fakeChecker{available: true, dup: true},
			window:  NewWindow(0),
			want:    Result{},
		},
		{
			name:      "semantic duplicate",
			index:     &fakeIndex{},
			checker:   &fakeChecker{available: true, dup: true, matched: "신약 승인"},
			window:    windowWith("신약 승인"),
			want:      Result{Duplicate: true, Stage: StageSemantic, Matched: "신약 승인"},
			wantCalls: 1,
		},
		{
			name:      "semantic new",
			index:     &fakeIndex{},
			checker:   &fakeChecker{available: true},
			window:    windowWith("캠프 개최"),
			want:      Result{},
			wantCalls: 1,
		},
		{
			name:      "oracle failure is not duplicate",
			index:     &fakeIndex{},
			checker:   &fakeChecker{available: true, dup: true, err: errors.New("timeout")},
			window:    windowWith("캠프 개최"),
			want:      Result{},
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGate(tt.index, tt.checker)
			got, err := g.Check(context.Background(), "1형당뇨 신약 발표", tt.window)
			if err != nil {
				t.Fatalf("Check() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Check() = %+v, want %+v", got, tt.want)
			}
			if tt.checker.calls != tt.wantCalls {
				t.Errorf("oracle calls = %d, want %d", tt.checker.calls, tt.wantCalls)
			}
		})
	}
}

func TestGateCheck_LooksUpTitleAsGiven(t *testing.T) {
	// A cleaned headline may still carry entity text; it must not be
	// unescaped again before the lookup.
	const title = "소아당뇨 &lt;캠프&gt; 개최"
	idx := &fakeIndex{titles: map[string]bool{title: true}}
	g := NewGate(idx, &fakeChecker{})

	got, err := g.Check(context.Background(), title, NewWindow(0))
	if err != nil {
		t.Fatalf("Check() error: %v", err)
	}
	if len(idx.asked) != 1 || idx.asked[0] != title {
		t.Errorf("looked up %q, want %q", idx.asked, title)
	}
	if !got.Duplicate || got.Stage != StageExact {
		t.Errorf("Check() = %+v, want exact duplicate", got)
	}
}

func TestGateCheck_IndexError(t *testing.T) {
	g := NewGate(&fakeIndex{err: errors.New("store down")}, &fakeChecker{available: true})
	if _, err := g.Check(context.Background(), "제목", NewWindow(0)); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestGateCheck_SendsRecentWindow(t *testing.T) {
	w := NewWindow(0)
	for i := range 30 {
		w.Add(fmt.Sprintf("title-%02d", i))
	}
	checker := &fakeChecker{available: true}
	g := NewGate(&fakeIndex{}, checker)

	if _, err := g.Check(context.Background(), "candidate", w); err != nil {
		t.Fatalf("Check() error: %v", err)
	}
	if len(checker.recent) != DefaultWindowSize {
		t.Fatalf("sent %d titles, want %d", len(checker.recent), DefaultWindowSize)
	}
	if checker.recent[0] != "title-10" || checker.recent[19] != "title-29" {
		t.Errorf("sent %q..%q, want title-10..title-29", checker.recent[0], checker.recent[19])
	}
}
