package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/leafkeep/internal/care"
)

func (m plantsModel) renderDetail() string {
	w := m.width - 4
	p := m.detail
	now := time.Now()

	var rows []string

	name := titleStyle.Render(p.Name)
	if p.Species != "" {
		name += subtitleStyle.Render("  " + p.Species)
	}
	rows = append(rows, name)
	rows = append(rows, "")

	// Watering
	due := care.DescribeDue(p.NextWatering, now)
	dueStyled := highlightStyle.Render(due)
	if care.Overdue(*p, now) {
		dueStyled = errorStyle.Render(due)
	}
	rows = append(rows, fmt.Sprintf("  %-16s %s  %s", "Next watering", dueStyled, mutedStyle.Render(formatDate(p.NextWatering))))
	rows = append(rows, fmt.Sprintf("  %-16s every %d days", "Frequency", p.WateringFrequencyDays))
	rows = append(rows, fmt.Sprintf("  %-16s %s", "Last watered", formatDate(p.LastWatered)))
	rows = append(rows, fmt.Sprintf("  %-16s %s", "Added", formatDate(p.AddedDate)))

	if m.canUndo {
		rows = append(rows, "")
		rows = append(rows, accentStyle.Render("  ↶ Undoable watering — press u to revert"))
	}

	// Recent history
	if len(m.detailHistory) > 0 {
		rows = append(rows, "")
		rows = append(rows, titleStyle.Render("Recent waterings"))
		start := max(0, len(m.detailHistory)-5)
		for i := len(m.detailHistory) - 1; i >= start; i-- {
			e := m.detailHistory[i]
			line := fmt.Sprintf("  %s  watered", formatDateTime(e.Date))
			if e.SoilWasWet {
				line = fmt.Sprintf("  %s  deferred %d days (soil wet)", formatDateTime(e.Date), e.DeferredDays)
			}
			rows = append(rows, mutedStyle.Render(line))
		}
	}

	// Care notes
	if sections := noteSections(p.Notes); len(sections) > 0 {
		rows = append(rows, "")
		rows = append(rows, titleStyle.Render("Care notes"))
		for _, s := range sections {
			rows = append(rows, highlightStyle.Render("  "+strings.ToUpper(s.Title)))
			for _, line := range s.Content {
				rows = append(rows, "  "+line)
			}
		}
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  w: water  f: defer  u: undo  e: edit date  d: delete  esc: back"))

	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// noteSection is a titled block of care notes for display.
type noteSection struct {
	Title   string
	Content []string
}

// noteSections splits free-text care notes into titled sections. A line
// ending with a colon, or a short all-caps line, opens a section. Advice
// sections are skipped: they describe the identification photo, which is
// stale by the time the detail view is read.
func noteSections(notes string) []noteSection {
	if notes == "" {
		return nil
	}

	var sections []noteSection
	var current *noteSection

	for _, line := range strings.Split(notes, "\n") {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(strings.ToLower(trimmed), "advice") {
			if current != nil {
				sections = append(sections, *current)
			}
			current = nil
			continue
		}

		isTitle := strings.HasSuffix(trimmed, ":") ||
			(trimmed != "" && len(trimmed) < 30 && trimmed == strings.ToUpper(trimmed))

		switch {
		case isTitle:
			if current != nil {
				sections = append(sections, *current)
			}
			current = &noteSection{Title: strings.TrimSuffix(trimmed, ":")}
		case trimmed != "" && current != nil:
			current.Content = append(current.Content, trimmed)
		case trimmed != "":
			if len(sections) == 0 || sections[len(sections)-1].Title != "Notes" {
				sections = append(sections, noteSection{Title: "Notes", Content: []string{trimmed}})
			} else {
				sections[len(sections)-1].Content = append(sections[len(sections)-1].Content, trimmed)
			}
		}
	}

	if current != nil && len(current.Content) > 0 {
		sections = append(sections, *current)
	}
	return sections
}
