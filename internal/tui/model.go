package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/SaitejaKommi/FaceSense-Dashboard/internal/api"
	"github.com/SaitejaKommi/FaceSense-Dashboard/internal/cache"
	"github.com/SaitejaKommi/FaceSense-Dashboard/internal/config"
	"github.com/SaitejaKommi/FaceSense-Dashboard/internal/logger"
	"github.com/SaitejaKommi/FaceSense-Dashboard/internal/model"
	"github.com/SaitejaKommi/FaceSense-Dashboard/internal/session"
	"github.com/SaitejaKommi/FaceSense-Dashboard/internal/table"
)

// Pane represents which pane is focused
type Pane int

const (
	PaneSidebar Pane = iota
	PaneContent
)

// actionBuf receives table action dispatches. It lives behind a pointer so
// the callbacks keep working across bubbletea's value copies of Model.
type actionBuf struct {
	deleteID string
}

// Model is the main TUI model
type Model struct {
	session *session.Store
	client  *api.Client
	cache   *cache.Cache
	cfg     *config.Config

	route  Route
	pane   Pane
	width  int
	height int

	// fetchGen guards against late responses: results tagged with an older
	// generation, or arriving after logout, are dropped.
	fetchGen int

	// Auth forms (login / register / add-student / settings share the slice)
	inputs   []textinput.Model
	focusIdx int
	authBusy bool
	authErr  string

	// Sidebar
	navCursor int

	// Page state
	pageLoading bool
	pageErr     string
	fromCache   bool

	summary    *model.Summary
	attendance []model.AttendanceRecord
	students   []model.Student
	classes    []model.ClassInfo

	// Attendance status filter ("" = all) and students search term
	attFilter   string
	search      string
	searching   bool
	searchInput textinput.Model

	attTable     *table.Model[model.AttendanceRecord]
	studentTable *table.Model[model.Student]
	classTable   *table.Model[model.ClassInfo]

	actions       *actionBuf
	confirmDelete string // student id awaiting y/n

	message string
}

// NewModel creates the TUI model. The cache may be nil; everything still
// works, there is just no offline fallback.
func NewModel(cfg *config.Config, store *session.Store, client *api.Client, snap *cache.Cache) Model {
	logger.Info("Initializing TUI model")

	m := Model{
		session: store,
		client:  client,
		cache:   snap,
		cfg:     cfg,
		pane:    PaneSidebar,
		actions: &actionBuf{},
	}

	// The guard decides the first screen: a restored session lands on the
	// dashboard, everyone else on login.
	m.route = Resolve(RouteDashboard, store.IsAuthenticated())
	if m.route.Protected() {
		m.pageLoading = true
	}
	m.buildForm()
	return m
}

// Init issues the first screen's fetch (if any). Init runs on a copy of the
// model, so it must not bump the generation; NewModel already set the
// loading flag for a restored session.
func (m Model) Init() tea.Cmd {
	if m.route.Protected() {
		return m.fetchForRoute()
	}
	return textinput.Blink
}

// navigate resolves the requested route through the guard and, only for the
// resolved protected screen, kicks off its data fetch. This ordering is what
// keeps protected fetches from ever running while logged out.
func (m Model) navigate(r Route) (Model, tea.Cmd) {
	m.route = Resolve(r, m.session.IsAuthenticated())
	m.pageErr = ""
	m.message = ""
	m.confirmDelete = ""
	m.searching = false
	m.buildForm()

	if m.route.Protected() {
		if cmd := m.startFetch(); cmd != nil {
			return m, cmd
		}
		// Protected form screens (add-student, settings) have no fetch
		// but do have a focused input
		return m, textinput.Blink
	}
	return m, textinput.Blink
}

// startFetch bumps the generation and returns the current screen's fetch
// command. Callers must keep the mutated model, so the command is always
// captured before m is returned.
func (m *Model) startFetch() tea.Cmd {
	switch m.route {
	case RouteDashboard, RouteStudents, RouteAttendance, RouteReports, RouteClasses:
		m.fetchGen++
		m.pageLoading = true
		return m.fetchForRoute()
	default:
		return nil
	}
}

// fetchForRoute returns the current screen's fetch command at the current
// generation. Screens without remote data return nil.
func (m Model) fetchForRoute() tea.Cmd {
	switch m.route {
	case RouteDashboard:
		return m.fetchDashboard()
	case RouteStudents:
		return m.fetchStudents()
	case RouteAttendance, RouteReports:
		return m.fetchAttendance()
	case RouteClasses:
		return m.fetchClasses()
	default:
		return nil
	}
}

// stale reports whether a fetch result should be dropped: an older
// generation, or the user logged out while it was in flight.
func (m Model) stale(gen int) bool {
	return gen != m.fetchGen || !m.session.IsAuthenticated()
}

// buildForm prepares the text inputs for form screens
func (m *Model) buildForm() {
	m.inputs = nil
	m.focusIdx = 0
	m.authErr = ""
	m.authBusy = false

	newInput := func(placeholder string, password bool) textinput.Model {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.CharLimit = 128
		ti.Width = 40
		if password {
			ti.EchoMode = textinput.EchoPassword
		}
		return ti
	}

	switch m.route {
	case RouteLogin:
		m.inputs = []textinput.Model{
			newInput("Username", false),
			newInput("Password", true),
		}
	case RouteRegister:
		m.inputs = []textinput.Model{
			newInput("Username", false),
			newInput("Password", true),
			newInput("Confirm password", true),
		}
	case RouteAddStudent:
		m.inputs = []textinput.Model{
			newInput("Student name", false),
			newInput("Roll number", false),
			newInput("Class (e.g. CSE-A)", false),
		}
	case RouteSettings:
		ti := newInput("Server URL", false)
		ti.SetValue(m.cfg.ServerURL)
		m.inputs = []textinput.Model{ti}
	}

	if len(m.inputs) > 0 {
		m.inputs[0].Focus()
	}
}

// Messages

type loginResultMsg struct {
	token    string
	username string
	err      error
}

type dashboardLoadedMsg struct {
	gen       int
	summary   *model.Summary
	records   []model.AttendanceRecord
	fromCache bool
	err       error
}

type studentsLoadedMsg struct {
	gen       int
	students  []model.Student
	fromCache bool
	err       error
}

type attendanceLoadedMsg struct {
	gen       int
	records   []model.AttendanceRecord
	fromCache bool
	err       error
}

type classesLoadedMsg struct {
	gen     int
	classes []model.ClassInfo
	err     error
}

type studentDeletedMsg struct {
	gen int
	id  string
	err error
}

type studentAddedMsg struct {
	gen  int
	name string
	err  error
}

type exportDoneMsg struct {
	path string
	n    int64
	err  error
}

func fetchCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// Commands

func (m Model) loginCmd(username, password string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := fetchCtx()
		defer cancel()
		tok, err := client.Login(ctx, username, password)
		if err != nil {
			return loginResultMsg{err: err}
		}
		return loginResultMsg{token: tok.AccessToken, username: username}
	}
}

func (m Model) registerCmd(username, password string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := fetchCtx()
		defer cancel()
		tok, err := client.Register(ctx, username, password, "")
		if err != nil {
			return loginResultMsg{err: err}
		}
		return loginResultMsg{token: tok.AccessToken, username: username}
	}
}

func (m Model) fetchDashboard() tea.Cmd {
	gen := m.fetchGen
	client := m.client
	snap := m.cache
	return func() tea.Msg {
		ctx, cancel := fetchCtx()
		defer cancel()

		summary, err := client.Summary(ctx)
		var records []model.AttendanceRecord
		if err == nil {
			records, err = client.TodayAttendance(ctx)
		}
		if err != nil {
			// API unreachable or refused: show the last snapshot if we have one
			if snap != nil {
				if cached, fetched, cerr := snap.Attendance(ctx); cerr == nil && !fetched.IsZero() {
					return dashboardLoadedMsg{gen: gen, records: cached, fromCache: true, err: err}
				}
			}
			return dashboardLoadedMsg{gen: gen, err: err}
		}

		if snap != nil {
			if cerr := snap.SaveAttendance(ctx, records); cerr != nil {
				logger.Warn("Failed to cache attendance", logger.F("error", cerr))
			}
		}
		return dashboardLoadedMsg{gen: gen, summary: summary, records: records}
	}
}

func (m Model) fetchStudents() tea.Cmd {
	gen := m.fetchGen
	client := m.client
	snap := m.cache
	return func() tea.Msg {
		ctx, cancel := fetchCtx()
		defer cancel()

		students, err := client.ListStudents(ctx)
		if err != nil {
			if snap != nil {
				if cached, fetched, cerr := snap.Students(ctx); cerr == nil && !fetched.IsZero() {
					return studentsLoadedMsg{gen: gen, students: cached, fromCache: true, err: err}
				}
			}
			return studentsLoadedMsg{gen: gen, err: err}
		}

		if snap != nil {
			if cerr := snap.SaveStudents(ctx, students); cerr != nil {
				logger.Warn("Failed to cache students", logger.F("error", cerr))
			}
		}
		return studentsLoadedMsg{gen: gen, students: students}
	}
}

func (m Model) fetchAttendance() tea.Cmd {
	gen := m.fetchGen
	client := m.client
	return func() tea.Msg {
		ctx, cancel := fetchCtx()
		defer cancel()

		records, err := client.TodayAttendance(ctx)
		if err != nil {
			return attendanceLoadedMsg{gen: gen, err: err}
		}
		return attendanceLoadedMsg{gen: gen, records: records}
	}
}

func (m Model) fetchClasses() tea.Cmd {
	gen := m.fetchGen
	client := m.client
	return func() tea.Msg {
		ctx, cancel := fetchCtx()
		defer cancel()

		classes, err := client.ListClasses(ctx)
		if err != nil {
			return classesLoadedMsg{gen: gen, err: err}
		}
		return classesLoadedMsg{gen: gen, classes: classes}
	}
}

func (m Model) deleteStudentCmd(id string) tea.Cmd {
	gen := m.fetchGen
	client := m.client
	return func() tea.Msg {
		ctx, cancel := fetchCtx()
		defer cancel()
		err := client.DeleteStudent(ctx, id)
		return studentDeletedMsg{gen: gen, id: id, err: err}
	}
}

func (m Model) addStudentCmd(in model.StudentIn) tea.Cmd {
	gen := m.fetchGen
	client := m.client
	return func() tea.Msg {
		ctx, cancel := fetchCtx()
		defer cancel()
		_, err := client.CreateStudent(ctx, in)
		return studentAddedMsg{gen: gen, name: in.Name, err: err}
	}
}

func (m Model) exportCmd(format string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := fetchCtx()
		defer cancel()

		home, err := os.UserHomeDir()
		if err != nil {
			return exportDoneMsg{err: err}
		}
		path := filepath.Join(home, fmt.Sprintf("attendance-%s.%s",
			time.Now().Format("2006-01-02"), exportExt(format)))

		f, err := os.Create(path)
		if err != nil {
			return exportDoneMsg{err: err}
		}
		defer f.Close()

		n, err := client.ExportAttendance(ctx, format, f)
		if err != nil {
			os.Remove(path)
			return exportDoneMsg{err: err}
		}
		return exportDoneMsg{path: path, n: n}
	}
}

func exportExt(format string) string {
	switch format {
	case "excel":
		return "xls"
	case "pdf":
		return "pdf"
	default:
		return "csv"
	}
}

// Table construction

func (m *Model) rebuildAttendanceTable() {
	cols := []table.Column[model.AttendanceRecord]{
		{
			Key: "timestamp", Label: "Date & Time", Sortable: true,
			Value: func(r model.AttendanceRecord) any {
				if r.Timestamp.IsZero() {
					return nil
				}
				return r.Timestamp.Format("2006-01-02 15:04")
			},
		},
		{
			Key: "student_name", Label: "Student Name", Sortable: true,
			Value: func(r model.AttendanceRecord) any {
				if r.StudentName == "" {
					return nil
				}
				return r.StudentName
			},
		},
		{
			Key: "student_roll", Label: "Roll Number", Sortable: true,
			Value: func(r model.AttendanceRecord) any {
				if r.StudentRoll == "" {
					return nil
				}
				return r.StudentRoll
			},
		},
		{
			Key: "status", Label: "Status", Sortable: true,
			Value: func(r model.AttendanceRecord) any { return model.NormalizeStatus(r.Status) },
		},
	}
	m.attTable = table.New(cols, table.Options[model.AttendanceRecord]{
		ID: func(r model.AttendanceRecord) string { return r.ID },
	})
}

func (m *Model) rebuildStudentTable() {
	buf := m.actions
	cols := []table.Column[model.Student]{
		{
			Key: "name", Label: "Student Name", Sortable: true,
			Value: func(s model.Student) any { return s.Name },
		},
		{
			Key: "roll", Label: "Roll Number", Sortable: true,
			Value: func(s model.Student) any { return s.Roll },
		},
		{
			Key: "class_name", Label: "Class", Sortable: true,
			Value: func(s model.Student) any {
				if s.ClassName == "" {
					return nil
				}
				return s.ClassName
			},
		},
		{
			Key: "created_at", Label: "Enrolled", Sortable: true,
			Value: func(s model.Student) any {
				if s.CreatedAt.IsZero() {
					return nil
				}
				return s.CreatedAt.Format("2006-01-02")
			},
		},
	}
	m.studentTable = table.New(cols, table.Options[model.Student]{
		ID:       func(s model.Student) string { return s.ID },
		OnDelete: func(id string) { buf.deleteID = id },
	})
}

// attFilters is the cycle order for the attendance status filter
var attFilters = []string{"", model.StatusPresent, model.StatusAbsent, model.StatusLate, model.StatusLeave}

// cycleAttFilter advances the attendance status filter and reapplies it
func (m *Model) cycleAttFilter() {
	for i, f := range attFilters {
		if f == m.attFilter {
			m.attFilter = attFilters[(i+1)%len(attFilters)]
			m.applyAttendanceFilter()
			return
		}
	}
	m.attFilter = ""
	m.applyAttendanceFilter()
}

func (m *Model) applyAttendanceFilter() {
	if m.attTable == nil {
		return
	}
	m.attTable.SetRows(model.FilterByStatus(m.attendance, m.attFilter))
}

// applyStudentSearch narrows the student table to rows matching the search
// term on name, roll or class
func (m *Model) applyStudentSearch() {
	if m.studentTable == nil {
		return
	}
	term := strings.ToLower(strings.TrimSpace(m.search))
	if term == "" {
		m.studentTable.SetRows(m.students)
		return
	}
	filtered := []model.Student{}
	for _, s := range m.students {
		hay := strings.ToLower(s.Name + " " + s.Roll + " " + s.ClassName)
		if strings.Contains(hay, term) {
			filtered = append(filtered, s)
		}
	}
	m.studentTable.SetRows(filtered)
}

func (m *Model) rebuildClassTable() {
	cols := []table.Column[model.ClassInfo]{
		{
			Key: "name", Label: "Class", Sortable: true,
			Value: func(c model.ClassInfo) any { return c.Name },
		},
		{
			Key: "students", Label: "Students", Sortable: true,
			Value: func(c model.ClassInfo) any { return c.Students },
		},
	}
	m.classTable = table.New(cols, table.Options[model.ClassInfo]{
		ID: func(c model.ClassInfo) string { return c.ID },
	})
}
