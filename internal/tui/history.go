package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/leafkeep/internal/store"
)

// historyModel renders the watering ledger: a per-day bar chart over a 7-day
// window plus the raw event list for that window.
type historyModel struct {
	store  *store.Store
	width  int
	height int

	events []store.WateringEvent
	plants []store.Plant
	offset int // 7-day blocks back from today (0 = current)

	chart barchart.Model
}

func newHistoryModel(s *store.Store) historyModel {
	return historyModel{
		store: s,
		chart: barchart.New(60, 10),
	}
}

func (h *historyModel) setSize(w, ht int) {
	h.width = w
	h.height = ht
}

func (h historyModel) refresh() tea.Cmd {
	return func() tea.Msg {
		events, err := h.store.History()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		plants, err := h.store.Plants()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return historyDataMsg{events: events, plants: plants}
	}
}

func (h historyModel) dateRange() (time.Time, time.Time) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	end := today.AddDate(0, 0, 1-7*h.offset)
	return end.AddDate(0, 0, -7), end
}

func (h historyModel) update(msg tea.Msg) (historyModel, tea.Cmd) {
	switch msg := msg.(type) {
	case historyDataMsg:
		h.events = msg.events
		h.plants = msg.plants
		h.buildChart()
		return h, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			h.offset++
			h.buildChart()
			return h, nil
		case key.Matches(msg, keys.Right):
			if h.offset > 0 {
				h.offset--
			}
			h.buildChart()
			return h, nil
		}
	}
	return h, nil
}

func (h historyModel) plantName(id string) string {
	for _, p := range h.plants {
		if p.ID == id {
			return p.Name
		}
	}
	return "(deleted)"
}

// plantColor assigns a stable palette color per plant for chart segments.
func (h historyModel) plantColor(id string) lipgloss.Color {
	palette := []lipgloss.Color{colorPrimary, colorSecondary, colorAccent, colorHighlight, colorWarning}
	for i, p := range h.plants {
		if p.ID == id {
			return palette[i%len(palette)]
		}
	}
	return colorMuted
}

func (h *historyModel) buildChart() {
	chartWidth := h.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 10
	if h.height > 30 {
		chartHeight = 14
	}

	h.chart = barchart.New(chartWidth, chartHeight)

	from, to := h.dateRange()

	var bars []barchart.BarData
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		label := d.Format("Mon 02")
		next := d.AddDate(0, 0, 1)

		// One segment per plant watered that day.
		counts := make(map[string]int)
		var order []string
		for _, e := range h.events {
			local := e.Date.Local()
			if local.Before(d) || !local.Before(next) {
				continue
			}
			if counts[e.PlantID] == 0 {
				order = append(order, e.PlantID)
			}
			counts[e.PlantID]++
		}

		var values []barchart.BarValue
		for _, id := range order {
			values = append(values, barchart.BarValue{
				Name:  h.plantName(id),
				Value: float64(counts[id]),
				Style: lipgloss.NewStyle().Foreground(h.plantColor(id)),
			})
		}
		if len(values) == 0 {
			values = []barchart.BarValue{{Name: "", Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}}
		}

		bars = append(bars, barchart.BarData{Label: label, Values: values})
	}

	h.chart.PushAll(bars)
	h.chart.Draw()
}

func (h historyModel) view() string {
	w := h.width - 4

	from, to := h.dateRange()
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s to %s", from.Format("Jan 02"), to.AddDate(0, 0, -1).Format("Jan 02, 2006")))

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Watering History"), "  ", dateLabel,
	)

	nav := mutedStyle.Render("  ←/→: navigate weeks")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", h.chart.View(), "", h.renderLegend(), "", h.renderEventTable(w), "", nav,
		),
	)
}

func (h historyModel) renderEventTable(w int) string {
	from, to := h.dateRange()

	var inRange []store.WateringEvent
	for _, e := range h.events {
		local := e.Date.Local()
		if !local.Before(from) && local.Before(to) {
			inRange = append(inRange, e)
		}
	}
	if len(inRange) == 0 {
		return mutedStyle.Render("  No waterings in this period")
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-14s %-24s %s", "When", "Plant", "Action")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 54))))

	for i := len(inRange) - 1; i >= 0; i-- {
		e := inRange[i]
		action := successStyle.Render("watered")
		if e.SoilWasWet {
			action = warningStyle.Render(fmt.Sprintf("deferred %d days", e.DeferredDays))
		}
		dot := lipgloss.NewStyle().Foreground(h.plantColor(e.PlantID)).Render("●")
		rows = append(rows, fmt.Sprintf("  %-14s %s %-22s %s",
			formatDateTime(e.Date), dot, h.plantName(e.PlantID), action,
		))
	}

	return strings.Join(rows, "\n")
}

func (h historyModel) renderLegend() string {
	seen := make(map[string]bool)
	var items []string
	for _, e := range h.events {
		if seen[e.PlantID] {
			continue
		}
		seen[e.PlantID] = true
		dot := lipgloss.NewStyle().Foreground(h.plantColor(e.PlantID)).Render("●")
		items = append(items, fmt.Sprintf("%s %s", dot, h.plantName(e.PlantID)))
	}
	if len(items) == 0 {
		return ""
	}
	return "  " + strings.Join(items, "  ")
}
