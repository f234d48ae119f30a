package tui

import "testing"

func TestResolveUnauthenticated(t *testing.T) {
	// Public screens pass through
	if got := Resolve(RouteLogin, false); got != RouteLogin {
		t.Errorf("login -> %s", got)
	}
	if got := Resolve(RouteRegister, false); got != RouteRegister {
		t.Errorf("register -> %s", got)
	}

	// Every protected route bounces to login
	for _, r := range protectedRoutes {
		if got := Resolve(r, false); got != RouteLogin {
			t.Errorf("%s while logged out -> %s, want login", r, got)
		}
	}

	// Unknown paths bounce to login too
	if got := Resolve(Route("no-such-page"), false); got != RouteLogin {
		t.Errorf("unknown -> %s, want login", got)
	}
}

func TestResolveAuthenticated(t *testing.T) {
	for _, r := range protectedRoutes {
		if got := Resolve(r, true); got != r {
			t.Errorf("%s while logged in -> %s", r, got)
		}
	}

	// Unknown paths land on the dashboard
	if got := Resolve(Route("no-such-page"), true); got != RouteDashboard {
		t.Errorf("unknown -> %s, want dashboard", got)
	}

	// Public screens are tolerated, not blocked
	if got := Resolve(RouteLogin, true); got != RouteLogin {
		t.Errorf("login while logged in -> %s", got)
	}
}

func TestRouteClassification(t *testing.T) {
	if !RouteLogin.Public() || RouteLogin.Protected() {
		t.Error("login misclassified")
	}
	if RouteDashboard.Public() || !RouteDashboard.Protected() {
		t.Error("dashboard misclassified")
	}
	if Route("bogus").Public() || Route("bogus").Protected() {
		t.Error("bogus route classified as known")
	}
}
