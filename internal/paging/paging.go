// Package paging resolves which page of a horizontally scrolled strip is
// centered while the user drags, and when a drag has moved to another page.
package paging

import (
	"errors"
	"fmt"
	"math"
)

// DefaultBlankOffset is how far past the first page the strip can be pulled
// before it counts as crossing the window boundary.
const DefaultBlankOffset = 100

// Kind classifies a paging event.
type Kind int

const (
	// WillChange: the strip is moving over page Index.
	WillChange Kind = iota
	// DidChange: a drag settled on a page other than the one it started on.
	DidChange
	// Boundary: the strip was pulled past the first or last page; the host
	// must request a new window centered on page Index.
	Boundary
)

func (k Kind) String() string {
	switch k {
	case DidChange:
		return "did_change"
	case Boundary:
		return "boundary"
	default:
		return "will_change"
	}
}

// MarshalText encodes the kind as its name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "will_change":
		*k = WillChange
	case "did_change":
		*k = DidChange
	case "boundary":
		*k = Boundary
	default:
		return fmt.Errorf("paging: unknown event kind %q", b)
	}
	return nil
}

// Event reports a paging transition for the page at Index.
type Event struct {
	Kind  Kind `json:"kind"`
	Index int  `json:"index"`
}

// Tracker follows one drag gesture at a time over a strip of equally wide
// pages. It starts centered on the middle page.
type Tracker struct {
	pages       int
	pageWidth   float64
	blankOffset float64

	start  int
	target int
}

// NewTracker returns a tracker for n pages of the given width.
func NewTracker(pages int, pageWidth float64) (*Tracker, error) {
	if pages <= 0 {
		return nil, errors.New("paging: page count must be positive")
	}
	if pageWidth <= 0 || math.IsNaN(pageWidth) || math.IsInf(pageWidth, 0) {
		return nil, errors.New("paging: page width must be positive")
	}
	t := &Tracker{
		pages:       pages,
		pageWidth:   pageWidth,
		blankOffset: DefaultBlankOffset,
	}
	t.Reset()
	return t, nil
}

// SetBlankOffset overrides DefaultBlankOffset.
func (t *Tracker) SetBlankOffset(v float64) {
	t.blankOffset = v
}

// Pages returns the number of pages tracked.
func (t *Tracker) Pages() int { return t.pages }

// PageWidth returns the width of a single page.
func (t *Tracker) PageWidth() float64 { return t.pageWidth }

// Reset recenters the tracker on the middle page.
func (t *Tracker) Reset() {
	t.start = t.pages / 2
	t.target = t.start
}

// CenterOffset returns the scroll offset of the middle page.
func (t *Tracker) CenterOffset() float64 {
	return float64(t.pages/2) * t.pageWidth
}

// Index returns round(offsetX / pageWidth) without clamping.
func (t *Tracker) Index(offsetX float64) int {
	return int(math.Round(offsetX / t.pageWidth))
}

func (t *Tracker) clamp(i int) int {
	return min(max(i, 0), t.pages-1)
}

// BeginDrag records the page under offsetX as the drag origin.
func (t *Tracker) BeginDrag(offsetX float64) {
	t.start = t.clamp(t.Index(offsetX))
	t.target = t.start
}

// Scroll reports the page under offsetX while the strip moves.
func (t *Tracker) Scroll(offsetX float64) Event {
	switch {
	case offsetX < -t.blankOffset:
		return Event{Kind: Boundary, Index: 0}
	case offsetX > float64(t.pages)*t.pageWidth:
		return Event{Kind: Boundary, Index: t.pages - 1}
	default:
		return Event{Kind: WillChange, Index: t.clamp(t.Index(offsetX))}
	}
}

// EndDrag picks the page the strip snaps to and returns its offset. A drag
// that did not leave its origin page still flips one page in the direction
// of a non-zero velocity.
func (t *Tracker) EndDrag(offsetX, velocityX float64) float64 {
	idx := t.clamp(t.Index(offsetX))
	if idx == t.start {
		switch {
		case velocityX > 0 && idx+1 < t.pages:
			idx++
		case velocityX < 0 && idx-1 >= 0:
			idx--
		}
	}
	t.target = idx
	return float64(idx) * t.pageWidth
}

// Settle reports a DidChange event once the strip stopped on a page other
// than the drag origin.
func (t *Tracker) Settle() (Event, bool) {
	if t.target == t.start {
		return Event{}, false
	}
	return Event{Kind: DidChange, Index: t.target}, true
}
