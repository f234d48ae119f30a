package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/SaitejaKommi/FaceSense-Dashboard/internal/model"
)

// View renders the whole screen
func (m Model) View() string {
	if m.route.Public() {
		return m.viewPublic()
	}
	return m.viewPrivate()
}

// viewPublic renders the login/register card centered on screen
func (m Model) viewPublic() string {
	var b strings.Builder

	b.WriteString(HeaderStyle.Render("FaceSense " + m.route.Title()))
	b.WriteString("\n\n")

	labels := map[Route][]string{
		RouteLogin:    {"Username", "Password"},
		RouteRegister: {"Username", "Password", "Confirm"},
	}[m.route]

	for i, in := range m.inputs {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}
		b.WriteString(fmt.Sprintf("%-10s %s\n", label, in.View()))
	}

	b.WriteString("\n")
	if m.authBusy {
		b.WriteString(HelpStyle.Render("Signing in..."))
	} else if m.authErr != "" {
		b.WriteString(ErrorStyle.Render(m.authErr))
	}
	b.WriteString("\n\n")

	toggle := "ctrl+r: register"
	if m.route == RouteRegister {
		toggle = "ctrl+r: back to login"
	}
	b.WriteString(HelpStyle.Render("enter: submit • tab: next field • " + toggle + " • ctrl+c: quit"))

	card := ModalStyle.Render(b.String())
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, card)
	}
	return card
}

// viewPrivate renders sidebar + content + status bar
func (m Model) viewPrivate() string {
	sidebar := m.viewSidebar()
	content := ContentStyle.Render(m.viewContent())

	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, content)
	return lipgloss.JoinVertical(lipgloss.Left, body, m.viewStatusBar())
}

func (m Model) viewSidebar() string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render("FaceSense"))
	b.WriteString("\n\n")

	for i, r := range protectedRoutes {
		label := r.Title()
		switch {
		case r == m.route:
			b.WriteString(NavItemSelectedStyle.Render("▸ " + label))
		case m.pane == PaneSidebar && i == m.navCursor:
			b.WriteString(NavItemStyle.Foreground(Primary).Render("› " + label))
		default:
			b.WriteString(NavItemStyle.Render("  " + label))
		}
		b.WriteString("\n")
	}

	return SidebarStyle.Render(b.String())
}

func (m Model) viewStatusBar() string {
	left := "logged in as " + m.session.Username()
	if m.fromCache {
		left += " • offline data"
	}

	mid := ""
	switch {
	case m.pageErr != "":
		mid = ErrorStyle.Render(m.pageErr)
	case m.message != "":
		mid = m.message
	}

	help := "tab: pane • r: refresh • L: logout • q: quit"
	line := left
	if mid != "" {
		line += "  |  " + mid
	}
	line += "  |  " + help
	return StatusBarStyle.Render(line)
}

func (m Model) viewContent() string {
	if m.confirmDelete != "" {
		return m.viewDeleteConfirm()
	}

	switch m.route {
	case RouteDashboard:
		return m.viewDashboard()
	case RouteStudents:
		return m.viewStudents()
	case RouteAddStudent:
		return m.viewAddStudent()
	case RouteAttendance:
		return m.viewAttendance()
	case RouteClasses:
		return m.viewClasses()
	case RouteReports:
		return m.viewReports()
	case RouteSettings:
		return m.viewSettings()
	}
	return ""
}

func (m Model) viewDeleteConfirm() string {
	name := m.confirmDelete
	for _, s := range m.students {
		if s.ID == m.confirmDelete {
			name = s.Name
			break
		}
	}
	return ModalStyle.Render(fmt.Sprintf("Delete %s?\n\n(y)es / (n)o", name))
}

func (m Model) viewDashboard() string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render("Dashboard"))
	b.WriteString("\n\n")

	if m.pageLoading {
		b.WriteString("Loading...")
		return b.String()
	}

	total := 0
	if m.summary != nil {
		total = m.summary.Students
	}
	stats := model.Stats(m.attendance, total)
	if total == 0 {
		total = stats.Total
	}

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		statCard("Total Students", fmt.Sprintf("%d", total)),
		" ",
		statCard("Present Today", fmt.Sprintf("%d", stats.Present)),
		" ",
		statCard("Absent Today", fmt.Sprintf("%d", stats.Absent)),
		" ",
		statCard("Attendance Rate", fmt.Sprintf("%d%%", stats.Rate)),
	)
	b.WriteString(cards)
	b.WriteString("\n\n")

	b.WriteString(HeaderStyle.Render("Today's Attendance"))
	b.WriteString("\n")
	if m.attTable != nil {
		b.WriteString(m.attTable.View())
	}
	return b.String()
}

func statCard(label, value string) string {
	return CardStyle.Render(
		lipgloss.JoinVertical(lipgloss.Center,
			StatValueStyle.Render(value),
			HelpStyle.Render(label),
		))
}

func (m Model) viewStudents() string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render("Students"))
	b.WriteString("\n\n")

	if m.pageLoading {
		b.WriteString("Loading...")
		return b.String()
	}
	switch {
	case m.searching:
		b.WriteString("Search: " + m.searchInput.View() + "\n\n")
	case m.search != "":
		b.WriteString(HelpStyle.Render("filter: "+m.search+" (/ to edit)") + "\n\n")
	default:
		b.WriteString(HelpStyle.Render("/: search") + "\n\n")
	}
	if m.studentTable != nil {
		b.WriteString(m.studentTable.View())
	}
	return b.String()
}

func (m Model) viewAddStudent() string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render("Add Student"))
	b.WriteString("\n\n")

	labels := []string{"Name", "Roll", "Class"}
	for i, in := range m.inputs {
		b.WriteString(fmt.Sprintf("%-8s %s\n", labels[i], in.View()))
	}
	b.WriteString("\n")
	if m.authBusy {
		b.WriteString(HelpStyle.Render("Saving..."))
	} else if m.authErr != "" {
		b.WriteString(ErrorStyle.Render(m.authErr))
	}
	b.WriteString("\n\n")
	b.WriteString(HelpStyle.Render("enter: save • esc: cancel"))
	return b.String()
}

func (m Model) viewAttendance() string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render("Attendance"))
	b.WriteString("\n\n")

	if m.pageLoading {
		b.WriteString("Loading...")
		return b.String()
	}

	filter := m.attFilter
	if filter == "" {
		filter = "All"
	}
	stats := model.Stats(m.attendance, 0)
	b.WriteString(HelpStyle.Render(fmt.Sprintf(
		"f: filter [%s]  •  %d present, %d absent, %d late (%d%%)",
		filter, stats.Present, stats.Absent, stats.Late, stats.Rate)))
	b.WriteString("\n\n")

	if m.attTable != nil {
		b.WriteString(m.attTable.View())
	}
	return b.String()
}

func (m Model) viewClasses() string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render("Classes"))
	b.WriteString("\n\n")

	if m.pageLoading {
		b.WriteString("Loading...")
		return b.String()
	}
	if m.classTable != nil {
		b.WriteString(m.classTable.View())
	}
	return b.String()
}

func (m Model) viewReports() string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render("Reports"))
	b.WriteString("\n\n")
	b.WriteString(HelpStyle.Render("c: export CSV • x: export Excel"))
	b.WriteString("\n\n")

	if m.pageLoading {
		b.WriteString("Loading...")
		return b.String()
	}

	stats := model.Stats(m.attendance, 0)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		statCard("Present", fmt.Sprintf("%d", stats.Present)),
		" ",
		statCard("Absent", fmt.Sprintf("%d", stats.Absent)),
		" ",
		statCard("Late", fmt.Sprintf("%d", stats.Late)),
		" ",
		statCard("Rate", fmt.Sprintf("%d%%", stats.Rate)),
	))
	b.WriteString("\n\n")
	if m.attTable != nil {
		b.WriteString(m.attTable.View())
	}
	return b.String()
}

func (m Model) viewSettings() string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render("Settings"))
	b.WriteString("\n\n")

	b.WriteString("Server URL " + m.inputs[0].View() + "\n\n")
	if m.authErr != "" {
		b.WriteString(ErrorStyle.Render(m.authErr))
		b.WriteString("\n\n")
	}
	b.WriteString(HelpStyle.Render("enter: save • esc: cancel"))
	return b.String()
}
