package pages

import (
	"fmt"
	"strings"
)

// Page identifies one of the fixed top-level pages.
type Page int

const (
	Home Page = iota
	History
	Planner
	Settings
)

// Order is the navigation cycle used by swipes.
var Order = []Page{Home, History, Planner, Settings}

var pageInfo = [...]struct {
	id, title, label, icon string
}{
	Home:     {"home", "ChunDiet", "Home", "🏠"},
	History:  {"history", "History", "History", "📊"},
	Planner:  {"planner", "AI Planner", "Planner", "🧠"},
	Settings: {"settings", "Settings", "Settings", "⚙️"},
}

func (p Page) valid() bool { return p >= Home && p <= Settings }

func (p Page) String() string {
	if !p.valid() {
		return fmt.Sprintf("page(%d)", int(p))
	}
	return pageInfo[p].id
}

// Title is the header shown while the page is active. Unknown pages fall
// back to the home title.
func (p Page) Title() string {
	if !p.valid() {
		p = Home
	}
	return pageInfo[p].title
}

func (p Page) Label() string {
	if !p.valid() {
		return ""
	}
	return pageInfo[p].label
}

func (p Page) Icon() string {
	if !p.valid() {
		return ""
	}
	return pageInfo[p].icon
}

// Next is the page a left swipe leads to, wrapping settings → home.
func (p Page) Next() Page {
	return Order[(p.index()+1)%len(Order)]
}

// Prev is the page a right swipe leads to, wrapping home → settings.
func (p Page) Prev() Page {
	return Order[(p.index()-1+len(Order))%len(Order)]
}

func (p Page) index() int {
	for i, o := range Order {
		if o == p {
			return i
		}
	}
	return 0
}

// Parse resolves a page id such as "planner".
func Parse(raw string) (Page, error) {
	id := strings.ToLower(strings.TrimSpace(raw))
	for _, p := range Order {
		if pageInfo[p].id == id {
			return p, nil
		}
	}
	return Home, fmt.Errorf("%w: %q", ErrUnknownPage, raw)
}
