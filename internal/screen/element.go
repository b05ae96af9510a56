package screen

import (
	"sync"
	"time"
)

// Element is a labelled text slot such as a summary card or the clock.
type Element struct {
	mu    sync.RWMutex
	id    string
	label string
	text  string
}

// ID returns the element identifier.
func (e *Element) ID() string { return e.id }

// Label returns the caption rendered above the value.
func (e *Element) Label() string { return e.label }

// Text returns the current display text.
func (e *Element) Text() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.text
}

// SetText replaces the display text.
func (e *Element) SetText(text string) {
	e.mu.Lock()
	e.text = text
	e.mu.Unlock()
}

// Drawable is implemented by anything that can paint itself into a region.
type Drawable interface {
	Draw(width, height int, now time.Time, color bool) string
	Animating(now time.Time) bool
}

// Resizer is implemented by drawables that react to region size changes.
type Resizer interface {
	Resize(width, height int)
}

// Region is a placeholder a chart binds to.
type Region struct {
	mu       sync.RWMutex
	id       string
	width    int
	height   int
	drawable Drawable
}

// ID returns the region identifier.
func (r *Region) ID() string { return r.id }

// Attach binds d to the region, replacing any previous drawable.
func (r *Region) Attach(d Drawable) {
	r.mu.Lock()
	r.drawable = d
	r.mu.Unlock()
}

// Drawable returns the attached drawable, if any.
func (r *Region) Drawable() (Drawable, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.drawable, r.drawable != nil
}

// Size returns the region dimensions in terminal cells.
func (r *Region) Size() (int, int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.width, r.height
}

// Resize records new dimensions and forwards them to a resizable drawable.
func (r *Region) Resize(width, height int) {
	r.mu.Lock()
	r.width, r.height = width, height
	d := r.drawable
	r.mu.Unlock()
	if rs, ok := d.(Resizer); ok {
		rs.Resize(width, height)
	}
}
