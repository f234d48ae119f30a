package tui

// Route identifies one screen of the console
type Route string

const (
	RouteLogin      Route = "login"
	RouteRegister   Route = "register"
	RouteDashboard  Route = "dashboard"
	RouteStudents   Route = "students"
	RouteAddStudent Route = "add-student"
	RouteAttendance Route = "attendance"
	RouteClasses    Route = "classes"
	RouteReports    Route = "reports"
	RouteSettings   Route = "settings"
)

// protectedRoutes is the private tree in sidebar order
var protectedRoutes = []Route{
	RouteDashboard,
	RouteStudents,
	RouteAddStudent,
	RouteAttendance,
	RouteClasses,
	RouteReports,
	RouteSettings,
}

// Public reports whether the route belongs to the public tree
func (r Route) Public() bool {
	return r == RouteLogin || r == RouteRegister
}

// Protected reports whether the route requires an authenticated session
func (r Route) Protected() bool {
	for _, p := range protectedRoutes {
		if r == p {
			return true
		}
	}
	return false
}

// Title is the screen heading
func (r Route) Title() string {
	switch r {
	case RouteLogin:
		return "Login"
	case RouteRegister:
		return "Register"
	case RouteDashboard:
		return "Dashboard"
	case RouteStudents:
		return "Students"
	case RouteAddStudent:
		return "Add Student"
	case RouteAttendance:
		return "Attendance"
	case RouteClasses:
		return "Classes"
	case RouteReports:
		return "Reports"
	case RouteSettings:
		return "Settings"
	default:
		return string(r)
	}
}

// Resolve is the route guard: given a requested route and the current
// authentication state it returns the route that may actually render.
// Unauthenticated sessions only ever see login/register, everything else
// bounces to login. Authenticated sessions see the private tree; unknown
// routes land on the dashboard, and the public screens are tolerated but
// not blocked. The screen Resolve returns is the only one constructed, so
// a protected page can never run its fetch while logged out.
func Resolve(r Route, authenticated bool) Route {
	if !authenticated {
		if r.Public() {
			return r
		}
		return RouteLogin
	}
	if r.Public() || r.Protected() {
		return r
	}
	return RouteDashboard
}
