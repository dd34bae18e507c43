package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/leafkeep/internal/reminder"
)

type remindersModel struct {
	coord  *reminder.Coordinator
	width  int
	height int

	reminders []reminder.Reminder
}

func newRemindersModel(c *reminder.Coordinator) remindersModel {
	return remindersModel{coord: c}
}

func (m *remindersModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m remindersModel) refresh() tea.Cmd {
	return func() tea.Msg {
		upcoming, err := m.coord.Upcoming()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return remindersDataMsg{reminders: upcoming}
	}
}

func (m remindersModel) update(msg tea.Msg) (remindersModel, tea.Cmd) {
	if msg, ok := msg.(remindersDataMsg); ok {
		m.reminders = msg.reminders
	}
	return m, nil
}

func (m remindersModel) view() string {
	w := m.width - 4
	title := titleStyle.Render("Upcoming Reminders")

	if len(m.reminders) == 0 {
		return panelStyle.Width(w).Render(strings.Join([]string{
			title,
			"",
			mutedStyle.Render("Nothing scheduled. Reminders are set when a plant's next watering is in the future."),
		}, "\n"))
	}

	now := time.Now()
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-18s %-28s %s", "Fires", "Plant", "In")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 56))))

	for _, r := range m.reminders {
		until := r.FireAt.Sub(now)
		var rel string
		switch {
		case until < 0:
			rel = errorStyle.Render("pending")
		case until < 24*time.Hour:
			rel = warningStyle.Render(fmt.Sprintf("%dh", int(until.Hours())))
		default:
			rel = highlightStyle.Render(fmt.Sprintf("%dd", int(until.Hours()/24)))
		}
		rows = append(rows, fmt.Sprintf("  %-18s %-28s %s",
			r.FireAt.Local().Format("Mon Jan 02 15:04"), r.Body, rel,
		))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  Reminders fire at 09:00 local time on the due date"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
