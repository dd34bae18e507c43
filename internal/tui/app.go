package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/leafkeep/internal/care"
	"github.com/sadopc/leafkeep/internal/export"
	"github.com/sadopc/leafkeep/internal/gemini"
	"github.com/sadopc/leafkeep/internal/plants"
	"github.com/sadopc/leafkeep/internal/reminder"
	"github.com/sadopc/leafkeep/internal/store"
)

// App is the root Bubble Tea model.
type App struct {
	store  *store.Store
	svc    *plants.Service
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	plantsView plantsModel
	add        addModel
	history    historyModel
	reminders  remindersModel
	settings   settingsModel

	help   help.Model
	status string
}

func NewApp(s *store.Store, svc *plants.Service, coord *reminder.Coordinator, identifier Identifier, loc *gemini.Context) App {
	h := help.New()
	h.ShowAll = false

	return App{
		store:      s,
		svc:        svc,
		activeView: viewPlants,
		plantsView: newPlantsModel(svc),
		add:        newAddModel(svc, identifier, loc),
		history:    newHistoryModel(s),
		reminders:  newRemindersModel(coord),
		settings:   newSettingsModel(s),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.plantsView.Init(),
		tickCmd(),
	)
}

// tickCmd keeps due badges fresh across midnight without any key press.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.plantsView.setSize(a.width, contentHeight)
		a.add.setSize(a.width, contentHeight)
		a.history.setSize(a.width, contentHeight)
		a.reminders.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		// Export picker
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			return a.switchTo(viewPlants)
		case key.Matches(msg, keys.Tab2):
			return a.switchTo(viewAdd)
		case key.Matches(msg, keys.Tab3):
			return a.switchTo(viewHistory)
		case key.Matches(msg, keys.Tab4):
			return a.switchTo(viewReminders)
		case key.Matches(msg, keys.Tab5):
			return a.switchTo(viewSettings)
		case key.Matches(msg, keys.Tab):
			return a.switchTo((a.activeView + 1) % 5)
		}

	case switchViewMsg:
		return a.switchTo(msg.view)

	case tickMsg:
		return a, tickCmd()

	case statusMsg:
		a.status = msg.text
		// Also let the active view react (the add flow aborts identify).
		model, cmd := a.updateActiveView(msg)
		return model, cmd

	case wateredMsg:
		a.status = msg.plant.Name + " watered"
		return a.updateActiveView(msg)

	case undoneMsg:
		a.status = "Watering undone for " + msg.plant.Name
		return a.updateActiveView(msg)

	case plantDeletedMsg:
		a.status = "Deleted " + msg.name
		return a.updateActiveView(msg)

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.exportPicking = false
		return a, nil

	case importDoneMsg:
		a.status = fmt.Sprintf("Imported %d plants", msg.count)
		a.exportPicking = false
		return a.switchTo(viewPlants)
	}

	return a.updateActiveView(msg)
}

func (a App) switchTo(v viewState) (tea.Model, tea.Cmd) {
	a.activeView = v
	switch v {
	case viewPlants:
		return a, a.plantsView.refresh()
	case viewAdd:
		return a, a.add.Init()
	case viewHistory:
		return a, a.history.refresh()
	case viewReminders:
		return a, a.reminders.refresh()
	case viewSettings:
		return a, a.settings.refresh()
	}
	return a, nil
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewPlants:
		a.plantsView, cmd = a.plantsView.update(msg)
	case viewAdd:
		a.add, cmd = a.add.update(msg)
	case viewHistory:
		a.history, cmd = a.history.update(msg)
	case viewReminders:
		a.reminders, cmd = a.reminders.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewPlants:
		return a.plantsView.formActive
	case viewAdd:
		return a.add.capturing()
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewPlants:
		content = a.plantsView.view()
	case viewAdd:
		content = a.add.view()
	case viewHistory:
		content = a.history.view()
	case viewReminders:
		content = a.reminders.view()
	case viewSettings:
		content = a.settings.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("leafkeep")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		status = mutedStyle.Render(" " + a.status)
	}

	// Overdue indicator in footer
	overdueInfo := ""
	now := time.Now()
	overdue := 0
	for _, p := range a.plantsView.plants {
		if care.Overdue(p, now) {
			overdue++
		}
	}
	if overdue > 0 {
		overdueInfo = errorStyle.Render(fmt.Sprintf(" ● %d overdue", overdue))
	}

	left := footerStyle.Render(helpView)
	right := overdueInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export / Import")
	options := []string{"Export CSV", "Export JSON backup", "Import JSON backup"}
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range options {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: select  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < 2 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		if a.exportCursor == 2 {
			return a, a.doImport()
		}
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int) tea.Cmd {
	return func() tea.Msg {
		list, err := a.store.Plants()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}

		home, _ := os.UserHomeDir()
		dateStr := time.Now().Format("2006-01-02")

		var path string
		if format == 0 {
			path = filepath.Join(home, fmt.Sprintf("leafkeep-plants-%s.csv", dateStr))
			if err := export.ToCSV(list, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		} else {
			history, err := a.store.History()
			if err != nil {
				return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
			}
			path = filepath.Join(home, fmt.Sprintf("leafkeep-backup-%s.json", dateStr))
			if err := export.ToJSON(list, history, path); err != nil {
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		}

		return exportDoneMsg{path: path}
	}
}

// doImport restores the most recent JSON backup found in the home directory.
func (a App) doImport() tea.Cmd {
	return func() tea.Msg {
		home, _ := os.UserHomeDir()
		matches, err := filepath.Glob(filepath.Join(home, "leafkeep-backup-*.json"))
		if err != nil || len(matches) == 0 {
			return statusMsg{text: "No leafkeep-backup-*.json found in home directory", isError: true}
		}
		sort.Strings(matches)
		path := matches[len(matches)-1]

		list, history, err := export.FromJSON(path)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Import error: %v", err), isError: true}
		}
		if err := a.svc.ReplaceAll(list, history); err != nil {
			return statusMsg{text: fmt.Sprintf("Import error: %v", err), isError: true}
		}
		return importDoneMsg{count: len(list)}
	}
}
