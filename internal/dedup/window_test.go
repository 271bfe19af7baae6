package dedup

import "testing"

func TestWindow(t *testing.T) {
	w := NewWindow(3)
	if w.Len() != 0 || len(w.Recent()) != 0 {
		t.Fatal("new window should be empty")
	}

	for _, title := range []string{"a", "b", "c", "d", "e"} {
		w.Add(title)
	}

	if w.Len() != 5 {
		t.Errorf("Len() = %d, want 5", w.Len())
	}

	recent := w.Recent()
	want := []string{"c", "d", "e"}
	if len(recent) != len(want) {
		t.Fatalf("Recent() = %v, want %v", recent, want)
	}
	for i := range want {
		if recent[i] != want[i] {
			t.Errorf("Recent()[%d] = %q, want %q", i, recent[i], want[i])
		}
	}

	// Mutating the returned slice must not affect the window.
	recent[0] = "x"
	if w.Recent()[0] != "c" {
		t.Error("Recent() returned a slice aliasing window storage")
	}

	if got := len(w.Titles()); got != 5 {
		t.Errorf("len(Titles()) = %d, want 5", got)
	}
}

func TestNewWindow_DefaultSize(t *testing.T) {
	w := NewWindow(0)
	for range 25 {
		w.Add("t")
	}
	if got := len(w.Recent()); got != DefaultWindowSize {
		t.Errorf("len(Recent()) = %d, want %d", got, DefaultWindowSize)
	}
}
