package screen

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

const (
	defaultWidth  = 100
	defaultHeight = 40
	headerRows    = 8
	minRegionRows = 6
)

// Banner is a transient error notice shown at the bottom of the frame.
type Banner struct {
	ID      uint64
	Message string
}

// Option configures a Screen.
type Option func(*Screen)

// WithColor toggles ANSI colour in rendered frames.
func WithColor(enabled bool) Option {
	return func(s *Screen) { s.color = enabled }
}

// WithTitle overrides the frame heading.
func WithTitle(title string) Option {
	return func(s *Screen) {
		if strings.TrimSpace(title) != "" {
			s.title = title
		}
	}
}

// WithSize sets the initial terminal dimensions.
func WithSize(width, height int) Option {
	return func(s *Screen) {
		if width > 0 && height > 0 {
			s.width, s.height = width, height
		}
	}
}

// Screen is the composed dashboard surface. It is safe for concurrent use.
type Screen struct {
	mu         sync.RWMutex
	title      string
	color      bool
	width      int
	height     int
	elements   map[string]*Element
	cards      []string
	regions    map[string]*Region
	regionIDs  []string
	banners    []Banner
	timers     map[uint64]*time.Timer
	nextBanner uint64
	closed     bool
}

// New returns an empty screen.
func New(opts ...Option) *Screen {
	s := &Screen{
		title:    DefaultTitle,
		width:    defaultWidth,
		height:   defaultHeight,
		elements: make(map[string]*Element),
		regions:  make(map[string]*Region),
		timers:   make(map[uint64]*time.Timer),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddElement registers a text element that is not part of the card row.
func (s *Screen) AddElement(id, label string) *Element {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addElementLocked(id, label)
}

// AddCard registers a text element rendered in the summary card row.
func (s *Screen) AddCard(id, label string) *Element {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.elements[id]; !exists {
		s.cards = append(s.cards, id)
	}
	return s.addElementLocked(id, label)
}

func (s *Screen) addElementLocked(id, label string) *Element {
	if el, ok := s.elements[id]; ok {
		return el
	}
	el := &Element{id: id, label: label, text: "--"}
	s.elements[id] = el
	return el
}

// RemoveElement drops an element from the layout.
func (s *Screen) RemoveElement(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.elements, id)
	s.cards = removeID(s.cards, id)
}

// Element looks up a text element by id.
func (s *Screen) Element(id string) (*Element, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	el, ok := s.elements[id]
	return el, ok
}

// AddRegion registers a chart placeholder.
func (s *Screen) AddRegion(id string) *Region {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.regions[id]; ok {
		return r
	}
	r := &Region{id: id}
	s.regions[id] = r
	s.regionIDs = append(s.regionIDs, id)
	s.layoutLocked()
	return r
}

// RemoveRegion drops a chart placeholder from the layout.
func (s *Screen) RemoveRegion(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.regions, id)
	s.regionIDs = removeID(s.regionIDs, id)
	s.layoutLocked()
}

// Region looks up a chart placeholder by id.
func (s *Screen) Region(id string) (*Region, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.regions[id]
	return r, ok
}

// Regions returns every region in layout order.
func (s *Screen) Regions() []*Region {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Region, 0, len(s.regionIDs))
	for _, id := range s.regionIDs {
		out = append(out, s.regions[id])
	}
	return out
}

// Resize records the terminal dimensions and recomputes region sizes.
func (s *Screen) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.mu.Lock()
	s.width, s.height = width, height
	s.layoutLocked()
	s.mu.Unlock()
}

// Size returns the terminal dimensions the screen lays out for.
func (s *Screen) Size() (int, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height
}

// layoutLocked stores region sizes without notifying drawables; the chart
// registry runs the resize pass that drawables react to.
func (s *Screen) layoutLocked() {
	if len(s.regionIDs) == 0 {
		return
	}
	rows := (s.height - headerRows) / len(s.regionIDs)
	if rows < minRegionRows {
		rows = minRegionRows
	}
	for _, id := range s.regionIDs {
		r := s.regions[id]
		r.mu.Lock()
		r.width, r.height = s.width, rows
		r.mu.Unlock()
	}
}

// PushBanner shows msg until ttl elapses. Banners stack independently.
func (s *Screen) PushBanner(msg string, ttl time.Duration) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextBanner++
	id := s.nextBanner
	s.banners = append(s.banners, Banner{ID: id, Message: msg})
	if ttl > 0 && !s.closed {
		s.timers[id] = time.AfterFunc(ttl, func() { s.DismissBanner(id) })
	}
	return id
}

// DismissBanner removes a banner if it is still visible.
func (s *Screen) DismissBanner(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}
	for i, b := range s.banners {
		if b.ID == id {
			s.banners = append(s.banners[:i], s.banners[i+1:]...)
			return
		}
	}
}

// Banners returns the visible banners, oldest first.
func (s *Screen) Banners() []Banner {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Banner, len(s.banners))
	copy(out, s.banners)
	return out
}

// Close stops pending banner timers.
func (s *Screen) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}

// Animating reports whether any attached drawable is mid-transition.
func (s *Screen) Animating(now time.Time) bool {
	for _, r := range s.Regions() {
		if d, ok := r.Drawable(); ok && d.Animating(now) {
			return true
		}
	}
	return false
}

// Frame composes the full dashboard frame as text.
func (s *Screen) Frame(now time.Time) string {
	s.mu.RLock()
	title := s.title
	color := s.color
	cards := make([]*Element, 0, len(s.cards))
	for _, id := range s.cards {
		cards = append(cards, s.elements[id])
	}
	clock := s.elements[IDUpdateTime]
	banners := make([]Banner, len(s.banners))
	copy(banners, s.banners)
	s.mu.RUnlock()

	var b strings.Builder
	heading := title
	if color {
		heading = text.Colors{text.Bold, text.FgHiCyan}.Sprint(title)
	}
	b.WriteString(heading)
	if clock != nil {
		fmt.Fprintf(&b, "    %s: %s", clock.Label(), clock.Text())
	}
	b.WriteString("\n\n")

	if len(cards) > 0 {
		b.WriteString(renderCards(cards, color))
		b.WriteString("\n")
	}

	for _, r := range s.Regions() {
		d, ok := r.Drawable()
		if !ok {
			continue
		}
		w, h := r.Size()
		b.WriteString("\n")
		b.WriteString(d.Draw(w, h, now, color))
		b.WriteString("\n")
	}

	for _, banner := range banners {
		line := "! " + banner.Message
		if color {
			line = text.Colors{text.BgRed, text.FgHiWhite, text.Bold}.Sprint(" " + banner.Message + " ")
		}
		b.WriteString("\n")
		b.WriteString(line)
	}
	if len(banners) > 0 {
		b.WriteString("\n")
	}
	return b.String()
}

// Render writes one frame to w.
func (s *Screen) Render(w io.Writer, now time.Time) error {
	_, err := io.WriteString(w, s.Frame(now))
	return err
}

func renderCards(cards []*Element, color bool) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	header := make(table.Row, len(cards))
	values := make(table.Row, len(cards))
	configs := make([]table.ColumnConfig, len(cards))
	for i, el := range cards {
		header[i] = el.Label()
		values[i] = el.Text()
		configs[i] = table.ColumnConfig{Number: i + 1, Align: text.AlignCenter, AlignHeader: text.AlignCenter}
	}
	tw.AppendHeader(header)
	tw.AppendRow(values)
	tw.SetColumnConfigs(configs)
	if color {
		tw.Style().Color.Header = text.Colors{text.FgHiCyan}
		tw.Style().Color.Row = text.Colors{text.Bold, text.FgHiWhite}
	}
	return tw.Render()
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
