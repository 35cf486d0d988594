package widget

import (
	"time"

	"calgrid/internal/paging"
)

// BeginDrag starts a drag gesture at the given horizontal offset.
func (v *View) BeginDrag(offsetX float64) {
	v.crossed = false
	v.tracker.BeginDrag(offsetX)
}

// Scroll reports the strip position during a drag. Crossing the first or
// last page recenters the window there, once per drag: further over-pulls
// in the same drag report a boundary at the already recentered page.
func (v *View) Scroll(offsetX float64) paging.Event {
	ev := v.tracker.Scroll(offsetX)
	switch ev.Kind {
	case paging.Boundary:
		if v.crossed {
			return paging.Event{Kind: paging.Boundary, Index: v.radius}
		}
		v.crossed = true
		v.ChangeTo(v.pageDate(ev.Index))
	case paging.WillChange:
		v.delegate.WillChangeDate(v.pageDate(ev.Index))
	}
	return ev
}

// EndDrag returns the offset the strip should snap to.
func (v *View) EndDrag(offsetX, velocityX float64) float64 {
	return v.tracker.EndDrag(offsetX, velocityX)
}

// EndScroll finishes a gesture once the strip stopped moving. If it landed
// on another page the window is recentered on that page's first day.
func (v *View) EndScroll() (paging.Event, bool) {
	ev, ok := v.tracker.Settle()
	if !ok {
		return ev, false
	}
	v.ChangeTo(v.pageDate(ev.Index))
	return ev, true
}

// CenterOffset is the scroll offset showing the reference page.
func (v *View) CenterOffset() float64 {
	return v.tracker.CenterOffset()
}

func (v *View) pageDate(i int) time.Time {
	i = min(max(i, 0), len(v.window.Pages)-1)
	return v.window.Pages[i].FirstCurrent()
}
