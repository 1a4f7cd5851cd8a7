package nav

import (
	"errors"
	"testing"
)

func TestTrackerNavigate(t *testing.T) {
	var got []string
	tr := NewTracker(nil, NavigatorFunc(func(route string) { got = append(got, route) }))
	if tr.Current() != RouteHome {
		t.Fatalf("initial route = %q", tr.Current())
	}
	if err := tr.Navigate("/wordChallenge/"); err != nil {
		t.Fatal(err)
	}
	if tr.Current() != "/wordChallenge/" || len(got) != 1 {
		t.Fatalf("route = %q, forwarded = %v", tr.Current(), got)
	}
	tabs := tr.Tabs()
	if tabs[0].Active || !tabs[1].Active {
		t.Fatalf("unexpected active tabs: %+v", tabs)
	}
}

func TestTrackerRejectsUnknownRoute(t *testing.T) {
	tr := NewTracker(DefaultTabs, nil)
	if err := tr.Navigate("/settings"); !errors.Is(err, ErrUnknownRoute) {
		t.Fatalf("expected ErrUnknownRoute, got %v", err)
	}
	if tr.Current() != RouteHome {
		t.Fatalf("route changed to %q", tr.Current())
	}
}

func TestActiveMatchesWholeSegments(t *testing.T) {
	challenge := DefaultTabs[1]
	cases := []struct {
		path string
		want bool
	}{
		{"/wordChallenge", true},
		{"/wordChallenge/", true},
		{"/wordChallenge/results", true},
		{"/wordChallengeXYZ", false},
		{"/(home)", false},
	}
	for _, c := range cases {
		if got := Active(challenge, c.path); got != c.want {
			t.Errorf("Active(%q) = %v, want %v", c.path, got, c.want)
		}
	}

	tr := NewTracker(DefaultTabs, nil)
	if err := tr.Navigate("/wordChallengeXYZ"); !errors.Is(err, ErrUnknownRoute) {
		t.Fatalf("expected ErrUnknownRoute, got %v", err)
	}
	if tr.Current() != RouteHome {
		t.Fatalf("route changed to %q", tr.Current())
	}
}
