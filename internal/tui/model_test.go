package tui

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/SaitejaKommi/FaceSense-Dashboard/internal/api"
	"github.com/SaitejaKommi/FaceSense-Dashboard/internal/config"
	"github.com/SaitejaKommi/FaceSense-Dashboard/internal/model"
	"github.com/SaitejaKommi/FaceSense-Dashboard/internal/session"
)

func testModel(t *testing.T, authenticated bool) (Model, *atomic.Int64) {
	t.Helper()

	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)

	store := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
	if authenticated {
		if err := store.Login("tok-abc", "admin"); err != nil {
			t.Fatal(err)
		}
	}

	cfg := config.DefaultConfig()
	client := api.NewClient(srv.URL, store)
	return NewModel(cfg, store, client, nil), &hits
}

func TestInitialRouteFollowsSession(t *testing.T) {
	m, _ := testModel(t, false)
	if m.route != RouteLogin {
		t.Fatalf("logged out start route = %s, want login", m.route)
	}

	m, _ = testModel(t, true)
	if m.route != RouteDashboard {
		t.Fatalf("restored session start route = %s, want dashboard", m.route)
	}
}

func TestNavigateBlockedWhileLoggedOut(t *testing.T) {
	m, hits := testModel(t, false)

	for _, r := range protectedRoutes {
		next, _ := m.navigate(r)
		if next.route != RouteLogin {
			t.Errorf("navigate(%s) while logged out -> %s", r, next.route)
		}
	}
	// No protected screen was constructed, so nothing fetched
	if n := hits.Load(); n != 0 {
		t.Errorf("protected fetch ran while logged out: %d requests", n)
	}
}

func TestStaleResultDropped(t *testing.T) {
	m, _ := testModel(t, true)
	m.fetchGen = 3

	// A response from generation 2 arrives after a newer fetch started
	next, _ := m.Update(dashboardLoadedMsg{
		gen:     2,
		summary: &model.Summary{Students: 99},
		records: []model.AttendanceRecord{{ID: "a1", Status: "Present"}},
	})
	got := next.(Model)
	if got.summary != nil || got.attendance != nil {
		t.Error("stale fetch result was applied")
	}

	// The current generation lands
	next, _ = m.Update(dashboardLoadedMsg{
		gen:     3,
		summary: &model.Summary{Students: 12},
		records: []model.AttendanceRecord{{ID: "a1", Status: "Present"}},
	})
	got = next.(Model)
	if got.summary == nil || got.summary.Students != 12 {
		t.Error("current fetch result was not applied")
	}
}

func TestResultAfterLogoutDropped(t *testing.T) {
	m, _ := testModel(t, true)
	m.fetchGen = 1

	next, _ := m.logout()
	got := next.(Model)
	if got.route != RouteLogin {
		t.Fatalf("after logout route = %s", got.route)
	}

	// An in-flight fetch from before the logout resolves now
	next, _ = got.Update(studentsLoadedMsg{
		gen:      1,
		students: []model.Student{{ID: "s1", Name: "Asha"}},
	})
	got = next.(Model)
	if got.students != nil {
		t.Error("fetch result applied after logout")
	}
}

func TestLogoutClearsPageData(t *testing.T) {
	m, _ := testModel(t, true)
	m.summary = &model.Summary{Students: 5}
	m.students = []model.Student{{ID: "s1"}}
	m.attendance = []model.AttendanceRecord{{ID: "a1"}}
	m.rebuildStudentTable()

	next, _ := m.logout()
	got := next.(Model)
	if got.summary != nil || got.students != nil || got.attendance != nil || got.studentTable != nil {
		t.Error("logout left page data behind")
	}
	if got.session.IsAuthenticated() {
		t.Error("session still authenticated after logout")
	}
}

func TestAttendanceFilterCycles(t *testing.T) {
	m, _ := testModel(t, true)
	m.rebuildAttendanceTable()
	m.attendance = []model.AttendanceRecord{
		{ID: "a1", Status: "Present"},
		{ID: "a2", Status: "Absent"},
		{ID: "a3", Status: "present"},
	}
	m.applyAttendanceFilter()
	if got := len(m.attTable.Rows()); got != 3 {
		t.Fatalf("unfiltered rows = %d", got)
	}

	m.cycleAttFilter() // -> Present
	if m.attFilter != model.StatusPresent {
		t.Fatalf("filter = %q", m.attFilter)
	}
	if got := len(m.attTable.Rows()); got != 2 {
		t.Errorf("Present rows = %d, want 2", got)
	}

	m.cycleAttFilter() // -> Absent
	if got := len(m.attTable.Rows()); got != 1 {
		t.Errorf("Absent rows = %d, want 1", got)
	}

	// Full cycle comes back to all
	for i := 0; i < 3; i++ {
		m.cycleAttFilter()
	}
	if m.attFilter != "" || len(m.attTable.Rows()) != 3 {
		t.Errorf("cycle did not return to all: filter=%q rows=%d", m.attFilter, len(m.attTable.Rows()))
	}
}

func TestStudentSearchFilters(t *testing.T) {
	m, _ := testModel(t, true)
	m.rebuildStudentTable()
	m.students = []model.Student{
		{ID: "s1", Name: "Asha Rao", Roll: "42", ClassName: "CSE-A"},
		{ID: "s2", Name: "Ravi Kumar", Roll: "7", ClassName: "CSE-B"},
	}

	m.search = "asha"
	m.applyStudentSearch()
	rows := m.studentTable.Rows()
	if len(rows) != 1 || rows[0].ID != "s1" {
		t.Errorf("search by name = %+v", rows)
	}

	// Roll and class match too
	m.search = "cse-b"
	m.applyStudentSearch()
	rows = m.studentTable.Rows()
	if len(rows) != 1 || rows[0].ID != "s2" {
		t.Errorf("search by class = %+v", rows)
	}

	m.search = ""
	m.applyStudentSearch()
	if len(m.studentTable.Rows()) != 2 {
		t.Error("clearing search did not restore rows")
	}
}

func TestFormScreensGetBlinkCommand(t *testing.T) {
	m, hits := testModel(t, true)

	for _, r := range []Route{RouteAddStudent, RouteSettings} {
		next, cmd := m.navigate(r)
		if got := next.route; got != r {
			t.Fatalf("navigate(%s) -> %s", r, got)
		}
		if cmd == nil {
			t.Errorf("navigate(%s) returned no command, want cursor blink", r)
		}
	}
	// Neither form screen fetches anything
	if n := hits.Load(); n != 0 {
		t.Errorf("form screens issued %d requests", n)
	}
}

func TestSearchBoxKeepsGlobalKeys(t *testing.T) {
	m, _ := testModel(t, true)
	m.route = RouteStudents
	m.pane = PaneContent
	m.rebuildStudentTable()
	m.students = []model.Student{
		{ID: "s1", Name: "Ravi Qureshi", Roll: "7", ClassName: "CSE-B"},
	}
	m.studentTable.SetRows(m.students)

	press := func(mm Model, r rune) (Model, tea.Cmd) {
		next, cmd := mm.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		return next.(Model), cmd
	}

	cur, _ := press(m, '/')
	if !cur.searching {
		t.Fatal("/ did not open the search box")
	}

	// r, q and L are global shortcuts elsewhere but plain text while the
	// search box has focus
	for _, r := range "RqL" {
		var cmd tea.Cmd
		cur, cmd = press(cur, r)
		if cmd != nil {
			if _, quit := cmd().(tea.QuitMsg); quit {
				t.Fatalf("typing %q quit the app", r)
			}
		}
	}

	if got := cur.search; got != "RqL" {
		t.Errorf("search = %q, want letters to reach the box", got)
	}
	if !cur.session.IsAuthenticated() {
		t.Error("typing L in the search box logged the user out")
	}
	if cur.pageLoading {
		t.Error("typing r in the search box triggered a refresh")
	}
	if cur.route != RouteStudents {
		t.Errorf("route = %s, want students", cur.route)
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	m, _ := testModel(t, true)
	m.cfg.ConfirmDelete = true
	m.route = RouteStudents
	m.pane = PaneContent
	m.rebuildStudentTable()
	m.studentTable.SetRows([]model.Student{{ID: "s1", Name: "Asha"}})

	next, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	got := next.(Model)
	if got.confirmDelete != "s1" {
		t.Fatalf("confirmDelete = %q, want s1", got.confirmDelete)
	}
	if cmd != nil {
		t.Error("delete ran before confirmation")
	}

	// 'n' cancels
	next, cmd = got.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	got = next.(Model)
	if got.confirmDelete != "" {
		t.Error("confirmation not cleared on n")
	}
	if cmd != nil {
		t.Error("delete ran after cancel")
	}
}
