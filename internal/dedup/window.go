package dedup

// DefaultWindowSize is the number of recent titles sent to a similarity check.
const DefaultWindowSize = 20

// Window is the ordered list of titles accepted during one run. It is not
// safe for concurrent use; a run processes articles sequentially.
type Window struct {
	titles []string
	size   int
}

// NewWindow creates an empty window that exposes at most size recent titles.
// A non-positive size selects DefaultWindowSize.
func NewWindow(size int) *Window {
	if size <= 0 {
		size = DefaultWindowSize
	}
	return &Window{size: size}
}

// Add appends a title.
func (w *Window) Add(title string) {
	w.titles = append(w.titles, title)
}

// Len returns the number of titles accepted so far.
func (w *Window) Len() int {
	return len(w.titles)
}

// Recent returns a copy of the most recent titles, oldest first.
func (w *Window) Recent() []string {
	start := 0
	if len(w.titles) > w.size {
		start = len(w.titles) - w.size
	}
	return append([]string(nil), w.titles[start:]...)
}

// Titles returns a copy of every title accepted so far.
func (w *Window) Titles() []string {
	return append([]string(nil), w.titles...)
}
