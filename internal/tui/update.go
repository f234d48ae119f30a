package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/SaitejaKommi/FaceSense-Dashboard/internal/logger"
	"github.com/SaitejaKommi/FaceSense-Dashboard/internal/model"
)

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.attTable != nil {
			m.attTable.SetWidth(m.contentWidth())
		}
		if m.studentTable != nil {
			m.studentTable.SetWidth(m.contentWidth())
		}
		if m.classTable != nil {
			m.classTable.SetWidth(m.contentWidth())
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case loginResultMsg:
		return m.handleLoginResult(msg)

	case dashboardLoadedMsg:
		if m.stale(msg.gen) {
			return m, nil
		}
		m.pageLoading = false
		m.fromCache = msg.fromCache
		if msg.err != nil && !msg.fromCache {
			m.pageErr = msg.err.Error()
			return m, nil
		}
		m.pageErr = ""
		m.summary = msg.summary
		m.attendance = msg.records
		if m.attTable == nil {
			m.rebuildAttendanceTable()
		}
		m.attTable.SetWidth(m.contentWidth())
		m.attTable.SetRows(msg.records)
		m.attTable.SetLoading(false)
		return m, nil

	case studentsLoadedMsg:
		if m.stale(msg.gen) {
			return m, nil
		}
		m.pageLoading = false
		m.fromCache = msg.fromCache
		if msg.err != nil && !msg.fromCache {
			m.pageErr = msg.err.Error()
			return m, nil
		}
		m.pageErr = ""
		m.students = msg.students
		if m.studentTable == nil {
			m.rebuildStudentTable()
		}
		m.studentTable.SetWidth(m.contentWidth())
		m.studentTable.SetLoading(false)
		m.applyStudentSearch()
		return m, nil

	case attendanceLoadedMsg:
		if m.stale(msg.gen) {
			return m, nil
		}
		m.pageLoading = false
		m.fromCache = msg.fromCache
		if msg.err != nil {
			m.pageErr = msg.err.Error()
			return m, nil
		}
		m.pageErr = ""
		m.attendance = msg.records
		if m.attTable == nil {
			m.rebuildAttendanceTable()
		}
		m.attTable.SetWidth(m.contentWidth())
		m.attTable.SetLoading(false)
		m.applyAttendanceFilter()
		return m, nil

	case classesLoadedMsg:
		if m.stale(msg.gen) {
			return m, nil
		}
		m.pageLoading = false
		if msg.err != nil {
			m.pageErr = msg.err.Error()
			return m, nil
		}
		m.pageErr = ""
		m.classes = msg.classes
		if m.classTable == nil {
			m.rebuildClassTable()
		}
		m.classTable.SetWidth(m.contentWidth())
		m.classTable.SetRows(msg.classes)
		m.classTable.SetLoading(false)
		return m, nil

	case studentDeletedMsg:
		if m.stale(msg.gen) {
			return m, nil
		}
		if msg.err != nil {
			m.pageErr = msg.err.Error()
			return m, nil
		}
		m.message = "Student deleted"
		logger.Info("Student deleted", logger.F("id", msg.id))
		cmd := m.startFetch()
		return m, cmd

	case studentAddedMsg:
		if m.stale(msg.gen) {
			return m, nil
		}
		m.authBusy = false
		if msg.err != nil {
			m.authErr = msg.err.Error()
			return m, nil
		}
		m.message = "Added " + msg.name
		return m.navigate(RouteStudents)

	case exportDoneMsg:
		if msg.err != nil {
			m.pageErr = msg.err.Error()
			return m, nil
		}
		m.message = "Exported to " + msg.path
		return m, nil
	}

	return m, nil
}

func (m Model) handleLoginResult(msg loginResultMsg) (tea.Model, tea.Cmd) {
	m.authBusy = false
	if msg.err != nil {
		m.authErr = msg.err.Error()
		logger.Warn("Authentication failed", logger.F("error", msg.err))
		return m, nil
	}
	if err := m.session.Login(msg.token, msg.username); err != nil {
		// Session is live in memory even if the file write failed
		logger.Error("Failed to persist session", logger.F("error", err))
		m.message = "Warning: session not saved to disk"
	}
	logger.Info("Logged in", logger.F("username", msg.username))
	return m.navigate(RouteDashboard)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// A pending delete confirmation swallows everything except y/n/esc
	if m.confirmDelete != "" {
		switch msg.String() {
		case "y", "Y":
			id := m.confirmDelete
			m.confirmDelete = ""
			return m, m.deleteStudentCmd(id)
		case "n", "N", "esc":
			m.confirmDelete = ""
			return m, nil
		}
		return m, nil
	}

	if m.route.Public() {
		return m.handlePublicKey(msg)
	}
	return m.handlePrivateKey(msg)
}

// handlePublicKey drives the login and register forms
func (m Model) handlePublicKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "tab", "down":
		m.cycleFocus(1)
		return m, textinput.Blink

	case "shift+tab", "up":
		m.cycleFocus(-1)
		return m, textinput.Blink

	case "ctrl+r":
		// Toggle between login and register
		if m.route == RouteLogin {
			return m.navigate(RouteRegister)
		}
		return m.navigate(RouteLogin)

	case "enter":
		if m.focusIdx < len(m.inputs)-1 {
			m.cycleFocus(1)
			return m, textinput.Blink
		}
		return m.submitAuthForm()
	}

	return m.updateFocusedInput(msg)
}

func (m Model) submitAuthForm() (tea.Model, tea.Cmd) {
	if m.authBusy {
		return m, nil
	}
	username := strings.TrimSpace(m.inputs[0].Value())
	password := m.inputs[1].Value()
	if username == "" || password == "" {
		m.authErr = "Username and password are required"
		return m, nil
	}

	if m.route == RouteRegister {
		if m.inputs[2].Value() != password {
			m.authErr = "Passwords do not match"
			return m, nil
		}
		m.authBusy = true
		m.authErr = ""
		return m, m.registerCmd(username, password)
	}

	m.authBusy = true
	m.authErr = ""
	return m, m.loginCmd(username, password)
}

// handlePrivateKey drives the sidebar plus the focused screen
func (m Model) handlePrivateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Form screens need the raw keystrokes
	if m.route == RouteAddStudent || m.route == RouteSettings {
		return m.handleFormScreenKey(msg)
	}

	// A focused search box also gets the raw keystrokes: letters like
	// r, q or L are text here, not global shortcuts
	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Logout):
		return m.logout()

	case key.Matches(msg, keys.Refresh):
		cmd := m.startFetch()
		return m, cmd

	case key.Matches(msg, keys.Tab):
		if m.pane == PaneSidebar {
			m.pane = PaneContent
		} else {
			m.pane = PaneSidebar
		}
		return m, nil
	}

	if m.pane == PaneSidebar {
		switch {
		case key.Matches(msg, keys.Up):
			if m.navCursor > 0 {
				m.navCursor--
			}
			return m, nil
		case key.Matches(msg, keys.Down):
			if m.navCursor < len(protectedRoutes)-1 {
				m.navCursor++
			}
			return m, nil
		case key.Matches(msg, keys.Enter):
			next, cmd := m.navigate(protectedRoutes[m.navCursor])
			if next.route != RouteAddStudent && next.route != RouteSettings {
				next.pane = PaneContent
			}
			return next, cmd
		}
		return m, nil
	}

	return m.handleContentKey(msg)
}

// handleContentKey forwards keys to the active table and drains any action
// the table dispatched
func (m Model) handleContentKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.route {
	case RouteDashboard:
		if m.attTable != nil {
			m.attTable.Update(msg)
		}
		return m, nil

	case RouteAttendance:
		if msg.String() == "f" {
			m.cycleAttFilter()
			return m, nil
		}
		if m.attTable != nil {
			m.attTable.Update(msg)
		}
		return m, nil

	case RouteStudents:
		if m.studentTable == nil {
			return m, nil
		}
		if msg.String() == "/" {
			m.searching = true
			m.searchInput = textinput.New()
			m.searchInput.Placeholder = "Search name, roll or class"
			m.searchInput.SetValue(m.search)
			m.searchInput.Focus()
			return m, textinput.Blink
		}
		m.actions.deleteID = ""
		m.studentTable.Update(msg)
		if id := m.actions.deleteID; id != "" {
			m.actions.deleteID = ""
			if m.cfg.ConfirmDelete {
				m.confirmDelete = id
				return m, nil
			}
			return m, m.deleteStudentCmd(id)
		}
		return m, nil

	case RouteClasses:
		if m.classTable != nil {
			m.classTable.Update(msg)
		}
		return m, nil

	case RouteReports:
		switch msg.String() {
		case "c":
			m.message = "Exporting CSV..."
			return m, m.exportCmd("csv")
		case "x":
			m.message = "Exporting Excel..."
			return m, m.exportCmd("excel")
		}
		if m.attTable != nil {
			m.attTable.Update(msg)
		}
		return m, nil
	}

	return m, nil
}

// handleSearchKey drives the students search input. Each keystroke narrows
// the table live; esc clears the search, enter keeps it.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.searching = false
		m.search = ""
		m.applyStudentSearch()
		return m, nil
	case "enter":
		m.searching = false
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.search = m.searchInput.Value()
	m.applyStudentSearch()
	return m, cmd
}

// handleFormScreenKey drives the add-student and settings forms
func (m Model) handleFormScreenKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.pane = PaneSidebar
		return m.navigate(RouteDashboard)

	case "tab", "down":
		m.cycleFocus(1)
		return m, textinput.Blink

	case "shift+tab", "up":
		m.cycleFocus(-1)
		return m, textinput.Blink

	case "enter":
		if m.focusIdx < len(m.inputs)-1 {
			m.cycleFocus(1)
			return m, textinput.Blink
		}
		if m.route == RouteSettings {
			return m.saveSettings()
		}
		return m.submitAddStudent()
	}

	return m.updateFocusedInput(msg)
}

func (m Model) submitAddStudent() (tea.Model, tea.Cmd) {
	if m.authBusy {
		return m, nil
	}
	in := model.StudentIn{
		Name:      strings.TrimSpace(m.inputs[0].Value()),
		Roll:      strings.TrimSpace(m.inputs[1].Value()),
		ClassName: strings.TrimSpace(m.inputs[2].Value()),
	}
	if in.Name == "" || in.Roll == "" {
		m.authErr = "Name and roll number are required"
		return m, nil
	}
	m.authBusy = true
	m.authErr = ""
	m.fetchGen++
	return m, m.addStudentCmd(in)
}

func (m Model) saveSettings() (tea.Model, tea.Cmd) {
	url := strings.TrimSpace(m.inputs[0].Value())
	if url == "" {
		m.authErr = "Server URL is required"
		return m, nil
	}
	m.cfg.ServerURL = url
	if err := m.cfg.Save(); err != nil {
		m.authErr = err.Error()
		return m, nil
	}
	m.message = "Settings saved (restart to apply)"
	m.pane = PaneSidebar
	return m.navigate(RouteDashboard)
}

// logout clears the session and every piece of page data, then bumps the
// generation so in-flight fetches are discarded when they land
func (m Model) logout() (tea.Model, tea.Cmd) {
	username := m.session.Username()
	if err := m.session.Logout(); err != nil {
		logger.Warn("Logout cleanup failed", logger.F("error", err))
	}
	logger.Info("Logged out", logger.F("username", username))

	m.fetchGen++
	m.summary = nil
	m.attendance = nil
	m.students = nil
	m.classes = nil
	m.attTable = nil
	m.studentTable = nil
	m.classTable = nil
	m.pageErr = ""
	m.message = ""
	m.pane = PaneSidebar
	m.navCursor = 0
	return m.navigate(RouteLogin)
}

func (m *Model) cycleFocus(delta int) {
	if len(m.inputs) == 0 {
		return
	}
	m.inputs[m.focusIdx].Blur()
	m.focusIdx = (m.focusIdx + delta + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focusIdx].Focus()
}

func (m Model) updateFocusedInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if len(m.inputs) == 0 {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focusIdx], cmd = m.inputs[m.focusIdx].Update(msg)
	return m, cmd
}

func (m Model) contentWidth() int {
	w := m.width - 24
	if w < 40 {
		w = 40
	}
	return w
}
