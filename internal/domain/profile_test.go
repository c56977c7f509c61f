package domain

import "testing"

func TestFormatDistance(t *testing.T) {
	cases := []struct {
		km   float64
		want string
	}{
		{0, "<1 km"},
		{0.4, "<1 km"},
		{0.99, "<1 km"},
		{1, "1.0 km"},
		{2.34, "2.3 km"},
		{9.94, "9.9 km"},
		{10, "10 km"},
		{10.4, "10 km"},
		{10.5, "11 km"},
		{10.6, "11 km"},
		{247.8, "248 km"},
	}
	for _, tc := range cases {
		if got := FormatDistance(tc.km); got != tc.want {
			t.Errorf("FormatDistance(%v) = %q, want %q", tc.km, got, tc.want)
		}
	}
}

func TestDispatchMode(t *testing.T) {
	if got := FilterDating.DispatchMode(); got != ModeDating {
		t.Errorf("dating filter dispatched as %q", got)
	}
	if got := FilterFriends.DispatchMode(); got != ModeFriends {
		t.Errorf("friends filter dispatched as %q", got)
	}
	// "all" intentionally dispatches as friends.
	if got := FilterAll.DispatchMode(); got != ModeFriends {
		t.Errorf("all filter dispatched as %q, want %q", got, ModeFriends)
	}
}

func TestIsOnboarded(t *testing.T) {
	avatar := "https://cdn.example.com/a.jpg"
	empty := ""

	p := Profile{}
	if p.IsOnboarded() {
		t.Error("empty profile should not be onboarded")
	}
	p.Name = "Sam"
	if p.IsOnboarded() {
		t.Error("profile without avatar should not be onboarded")
	}
	p.AvatarURL = &empty
	if p.IsOnboarded() {
		t.Error("profile with empty avatar should not be onboarded")
	}
	p.AvatarURL = &avatar
	if !p.IsOnboarded() {
		t.Error("profile with name and avatar should be onboarded")
	}
}

func TestMatchOtherUser(t *testing.T) {
	m := Match{UserA: "a", UserB: "b"}
	if got := m.OtherUser("a"); got != "b" {
		t.Errorf("OtherUser(a) = %q", got)
	}
	if got := m.OtherUser("b"); got != "a" {
		t.Errorf("OtherUser(b) = %q", got)
	}
	if !m.HasUser("a") || !m.HasUser("b") || m.HasUser("c") {
		t.Error("HasUser gave wrong membership")
	}
}
