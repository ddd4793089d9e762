// Package nav tracks which page section the reader is looking at and where
// a navigation click should scroll to.
//
// Sections are stacked vertically below a fixed navbar. [Tracker.Current]
// maps a scroll position to the active section, switching a quarter of a
// viewport early so the highlight changes while the next heading is still
// entering the screen. [Tracker.Target] computes where to scroll for a
// section, with small per-section nudges that line the heading up under the
// navbar.
package nav

import (
	"slices"
	"sync"
	"time"

	"github.com/matzehuels/ridgeline/pkg/errors"
)

// Section IDs in page order.
const (
	Home     = "home"
	Projects = "projects"
	Clubs    = "clubs"
	Research = "research"
	Contact  = "contact"
)

// Section is one navbar entry.
type Section struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Sections lists the navbar entries in page order.
var Sections = []Section{
	{ID: Home, Label: "Home"},
	{ID: Projects, Label: "Projects"},
	{ID: Clubs, Label: "Clubs"},
	{ID: Research, Label: "Research"},
	{ID: Contact, Label: "Contact"},
}

const (
	// NavbarHeight is the height of the fixed navbar in pixels.
	NavbarHeight = 80.0

	// EarlyTrigger is the fraction of the viewport by which a section
	// activates before its top reaches the navbar.
	EarlyTrigger = 0.25

	// ObserveInterval throttles [Tracker.Observe].
	ObserveInterval = 100 * time.Millisecond
)

// fallbackScreens places a section whose offset is unknown at this many
// viewport heights down the page.
var fallbackScreens = map[string]float64{
	Projects: 1,
	Clubs:    3,
	Research: 5,
	Contact:  7,
}

// nudges are added to the scroll target of a section.
var nudges = map[string]float64{
	Projects: 35,
	Clubs:    85,
	Research: 70,
	Contact:  -10,
}

// Tracker holds section offsets and the active section. It is safe for
// concurrent use.
type Tracker struct {
	mu       sync.Mutex
	offsets  map[string]float64
	active   string
	lastSeen time.Time
}

// NewTracker returns a tracker with the given section top offsets in pixels.
// Sections may be omitted; see [Tracker.Current].
func NewTracker(offsets map[string]float64) (*Tracker, error) {
	t := &Tracker{offsets: make(map[string]float64, len(offsets)), active: Home}
	for id, y := range offsets {
		if err := t.SetOffset(id, y); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Valid reports whether id names a section.
func Valid(id string) bool {
	return slices.ContainsFunc(Sections, func(s Section) bool { return s.ID == id })
}

// Anchor returns the URL fragment path for a section, e.g. "/#clubs".
func Anchor(id string) string { return "/#" + id }

// SetOffset records the top offset of a section.
func (t *Tracker) SetOffset(id string, y float64) error {
	if !Valid(id) {
		return errors.New(errors.ErrCodeInvalidInput, "unknown section %q", id)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.offsets[id] = y
	return nil
}

// position returns where a section starts counting as reached: its offset
// minus the navbar. An unknown offset, or one that lands exactly on the
// navbar, falls back to a multiple of the viewport height.
func (t *Tracker) position(id string, vh float64) float64 {
	if y, ok := t.offsets[id]; ok && y-NavbarHeight != 0 {
		return y - NavbarHeight
	}
	return vh * fallbackScreens[id]
}

// Current returns the section active at scrollY for a viewport of height
// vh. The last section whose position minus the early trigger has been
// passed wins; above all of them the page is at home.
func (t *Tracker) Current(scrollY, vh float64) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current(scrollY, vh)
}

func (t *Tracker) current(scrollY, vh float64) string {
	early := vh * EarlyTrigger
	for _, id := range []string{Contact, Research, Clubs, Projects} {
		if scrollY >= t.position(id, vh)-early {
			return id
		}
	}
	return Home
}

// Target returns the scroll position for a section. The section's offset
// must be known.
func (t *Tracker) Target(id string) (float64, error) {
	if !Valid(id) {
		return 0, errors.New(errors.ErrCodeInvalidInput, "unknown section %q", id)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	y, ok := t.offsets[id]
	if !ok {
		return 0, errors.New(errors.ErrCodeNotFound, "section %q has no known offset", id)
	}
	return y - NavbarHeight + nudges[id], nil
}

// Observe feeds a scroll event at now. Events closer than
// [ObserveInterval] to the last accepted one are dropped. It returns the
// active section and whether it changed.
func (t *Tracker) Observe(now time.Time, scrollY, vh float64) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.lastSeen.IsZero() && now.Sub(t.lastSeen) < ObserveInterval {
		return t.active, false
	}
	t.lastSeen = now
	next := t.current(scrollY, vh)
	if next == t.active {
		return t.active, false
	}
	t.active = next
	return next, true
}

// Active returns the section set by the last accepted [Tracker.Observe].
func (t *Tracker) Active() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// Reset returns to the top of the page.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active = Home
	t.lastSeen = time.Time{}
}
