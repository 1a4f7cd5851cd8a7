// Package nav models the floating tab bar: the set of tabs, which one is
// active for a route, and per-client navigation state.
package nav

import (
	"errors"
	"strings"
	"sync"
)

// ErrUnknownRoute is returned for a destination that matches no tab.
var ErrUnknownRoute = errors.New("unknown route")

// Tab is one tab bar item.
type Tab struct {
	Name  string `json:"name"`
	Route string `json:"route"`
	Icon  string `json:"icon"`
	Label string `json:"label"`
}

const (
	RouteHome      = "/(home)"
	RouteChallenge = "/wordChallenge"
)

// DefaultTabs are the tabs shown by the app.
var DefaultTabs = []Tab{
	{Name: "(home)", Route: RouteHome, Icon: "house", Label: "Home"},
	{Name: "wordChallenge", Route: RouteChallenge, Icon: "gamecontroller", Label: "Play"},
}

// Navigator receives navigation requests. Implementations must not block.
type Navigator interface {
	Navigate(route string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(route string)

func (f NavigatorFunc) Navigate(route string) { f(route) }

// Active reports whether tab is the active one for pathname: the tab route
// itself or any path nested below it.
func Active(tab Tab, pathname string) bool {
	return pathname == tab.Route || strings.HasPrefix(pathname, tab.Route+"/")
}

// Tracker holds the current route of one client and forwards changes to a
// Navigator.
type Tracker struct {
	mu      sync.Mutex
	tabs    []Tab
	current string
	out     Navigator
}

// NewTracker starts on the first tab. out may be nil.
func NewTracker(tabs []Tab, out Navigator) *Tracker {
	if len(tabs) == 0 {
		tabs = DefaultTabs
	}
	return &Tracker{tabs: tabs, current: tabs[0].Route, out: out}
}

// Navigate switches to route, which must belong to one of the tabs.
func (t *Tracker) Navigate(route string) error {
	var match bool
	for _, tab := range t.tabs {
		if Active(tab, route) {
			match = true
			break
		}
	}
	if !match {
		return ErrUnknownRoute
	}
	t.mu.Lock()
	t.current = route
	out := t.out
	t.mu.Unlock()
	if out != nil {
		out.Navigate(route)
	}
	return nil
}

// Current returns the active route.
func (t *Tracker) Current() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// TabState is a tab plus whether it is active.
type TabState struct {
	Tab
	Active bool `json:"active"`
}

// Tabs returns the tab bar rendered for the current route.
func (t *Tracker) Tabs() []TabState {
	cur := t.Current()
	out := make([]TabState, 0, len(t.tabs))
	for _, tab := range t.tabs {
		out = append(out, TabState{Tab: tab, Active: Active(tab, cur)})
	}
	return out
}
