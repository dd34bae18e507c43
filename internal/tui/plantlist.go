package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/leafkeep/internal/care"
	"github.com/sadopc/leafkeep/internal/plants"
	"github.com/sadopc/leafkeep/internal/store"
)

// switchViewMsg asks the app shell to activate another view.
type switchViewMsg struct {
	view viewState
}

type plantsModel struct {
	svc    *plants.Service
	width  int
	height int

	plants []store.Plant
	cursor int

	// Detail drilldown state
	viewingDetail bool
	detail        *store.Plant
	detailHistory []store.WateringEvent
	canUndo       bool

	// Last-watered edit form
	formActive bool
	form       *huh.Form
	formDate   *string
}

func newPlantsModel(svc *plants.Service) plantsModel {
	date := ""
	return plantsModel{
		svc:      svc,
		formDate: &date,
	}
}

func (m plantsModel) Init() tea.Cmd {
	return m.refresh()
}

func (m *plantsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m plantsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		list, err := m.svc.List()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return plantsDataMsg{plants: list}
	}
}

func (m plantsModel) loadDetail(id string) tea.Cmd {
	return func() tea.Msg {
		p, err := m.svc.Get(id)
		if err != nil {
			if errors.Is(err, plants.ErrNotFound) {
				return plantDetailMsg{plant: nil}
			}
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		history, _ := m.svc.History(id)
		return plantDetailMsg{plant: p, history: history, canUndo: m.svc.CanUndo(id)}
	}
}

func (m plantsModel) update(msg tea.Msg) (plantsModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case plantsDataMsg:
		m.plants = msg.plants
		if m.cursor >= len(m.plants) {
			m.cursor = max(0, len(m.plants)-1)
		}
		return m, nil

	case plantDetailMsg:
		if msg.plant == nil {
			m.viewingDetail = false
			m.detail = nil
			return m, m.refresh()
		}
		m.viewingDetail = true
		m.detail = msg.plant
		m.detailHistory = msg.history
		m.canUndo = msg.canUndo
		return m, nil

	case wateredMsg:
		return m, tea.Batch(m.refresh(), m.loadDetail(msg.plant.ID))

	case undoneMsg:
		return m, tea.Batch(m.refresh(), m.loadDetail(msg.plant.ID))

	case plantDeletedMsg:
		m.viewingDetail = false
		m.detail = nil
		return m, m.refresh()

	case tea.KeyMsg:
		if m.viewingDetail {
			return m.updateDetail(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m plantsModel) updateList(msg tea.KeyMsg) (plantsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.plants)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Enter):
		if len(m.plants) > 0 {
			return m, m.loadDetail(m.plants[m.cursor].ID)
		}
	case key.Matches(msg, keys.New):
		return m, func() tea.Msg { return switchViewMsg{view: viewAdd} }
	case key.Matches(msg, keys.Water):
		if len(m.plants) > 0 {
			return m, m.water(m.plants[m.cursor].ID, false)
		}
	case key.Matches(msg, keys.Defer):
		if len(m.plants) > 0 {
			return m, m.water(m.plants[m.cursor].ID, true)
		}
	case key.Matches(msg, keys.Delete):
		if len(m.plants) > 0 {
			return m, m.deletePlant(m.plants[m.cursor])
		}
	}
	return m, nil
}

func (m plantsModel) updateDetail(msg tea.KeyMsg) (plantsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back):
		m.viewingDetail = false
		m.detail = nil
		return m, m.refresh()
	case key.Matches(msg, keys.Water):
		return m, m.water(m.detail.ID, false)
	case key.Matches(msg, keys.Defer):
		return m, m.water(m.detail.ID, true)
	case key.Matches(msg, keys.Undo):
		if m.canUndo {
			return m, m.undo()
		}
	case key.Matches(msg, keys.Edit):
		return m.showDateForm()
	case key.Matches(msg, keys.Delete):
		return m, m.deletePlant(*m.detail)
	}
	return m, nil
}

func (m plantsModel) water(id string, soilWasWet bool) tea.Cmd {
	return func() tea.Msg {
		p, err := m.svc.Water(id, soilWasWet)
		if err != nil {
			if errors.Is(err, plants.ErrNotFound) {
				return statusMsg{text: "Plant no longer exists"}
			}
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return wateredMsg{plant: p}
	}
}

func (m plantsModel) undo() tea.Cmd {
	return func() tea.Msg {
		p, err := m.svc.Undo()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Undo failed: %v", err), isError: true}
		}
		return undoneMsg{plant: p}
	}
}

func (m plantsModel) deletePlant(p store.Plant) tea.Cmd {
	return func() tea.Msg {
		if err := m.svc.Delete(p.ID); err != nil {
			return statusMsg{text: fmt.Sprintf("Delete failed: %v", err), isError: true}
		}
		return plantDeletedMsg{name: p.Name}
	}
}

func (m plantsModel) showDateForm() (plantsModel, tea.Cmd) {
	*m.formDate = m.detail.LastWatered.Local().Format("2006-01-02")

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Last watered (YYYY-MM-DD)").
				Value(m.formDate).
				Validate(func(s string) error {
					_, err := time.ParseInLocation("2006-01-02", s, time.Local)
					return err
				}),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m plantsModel) updateForm(msg tea.Msg) (plantsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		when, err := time.ParseInLocation("2006-01-02", *m.formDate, time.Local)
		if err != nil {
			return m, nil
		}
		id := m.detail.ID
		return m, func() tea.Msg {
			p, err := m.svc.SetLastWatered(id, when)
			if err != nil {
				return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
			}
			return wateredMsg{plant: p}
		}
	}

	return m, cmd
}

func (m plantsModel) view() string {
	if m.formActive && m.form != nil {
		title := titleStyle.Render("Edit Last Watered")
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())
		return panelStyle.Width(m.width - 4).Render(content)
	}
	if m.viewingDetail && m.detail != nil {
		return m.renderDetail()
	}
	return m.renderList()
}

func (m plantsModel) renderList() string {
	w := m.width - 4
	title := titleStyle.Render("Plants")

	if len(m.plants) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No plants yet. Press n to add your first plant."),
		)
		return panelStyle.Width(w).Render(content)
	}

	now := time.Now()
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for i, p := range m.plants {
		dot := successStyle.Render("●")
		due := care.DescribeDue(p.NextWatering, now)
		dueStr := highlightStyle.Render(due)
		if care.Overdue(p, now) {
			dot = errorStyle.Render("●")
			dueStr = errorStyle.Render(due)
		}

		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}

		name := p.Name
		if p.Species != "" {
			name += mutedStyle.Render("  (" + p.Species + ")")
		}
		rows = append(rows, fmt.Sprintf("%s%s %s  %s", style.Render(cursor), dot, style.Render(fmt.Sprintf("%-28s", name)), dueStr))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: details  w: water  f: defer  n: new  d: delete"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
