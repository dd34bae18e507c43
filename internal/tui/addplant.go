package tui

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/leafkeep/internal/care"
	"github.com/sadopc/leafkeep/internal/gemini"
	"github.com/sadopc/leafkeep/internal/plants"
)

// addState is the identification flow state. Modeling it explicitly keeps
// illegal transitions (saving with no photo, confirming with no assessment)
// unrepresentable.
type addState int

const (
	addNoPhoto addState = iota
	addIdentifying
	addRejected
	addLowPending
	addFormEditing
	addSaved
)

type addModel struct {
	svc        *plants.Service
	identifier Identifier
	loc        *gemini.Context

	width  int
	height int

	state      addState
	imagePath  string
	assessment care.CareAssessment

	photoForm *huh.Form
	formPath  *string

	form        *huh.Form
	formName    *string
	formSpecies *string
	formDays    *string
	formNotes   *string

	confirmCursor int
}

func newAddModel(svc *plants.Service, identifier Identifier, loc *gemini.Context) addModel {
	path, name, species, days, notes := "", "", "", "7", ""
	m := addModel{
		svc:         svc,
		identifier:  identifier,
		loc:         loc,
		formPath:    &path,
		formName:    &name,
		formSpecies: &species,
		formDays:    &days,
		formNotes:   &notes,
	}
	m.resetPhotoForm()
	return m
}

func (m *addModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

// capturing reports whether a form owns the keyboard.
func (m addModel) capturing() bool {
	return m.state == addNoPhoto || m.state == addFormEditing
}

func (m *addModel) resetPhotoForm() {
	*m.formPath = ""
	m.state = addNoPhoto
	m.photoForm = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Photo path (JPEG)").
				Description("Point at a photo of your plant; leave empty to skip identification.").
				Value(m.formPath),
		),
	).WithShowHelp(true).WithShowErrors(true)
}

func (m addModel) Init() tea.Cmd {
	return m.photoForm.Init()
}

func (m addModel) identify(path string) tea.Cmd {
	return func() tea.Msg {
		jpeg, err := os.ReadFile(path)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Cannot read photo: %v", err), isError: true}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
		defer cancel()
		return identifyDoneMsg{assessment: m.identifier.Identify(ctx, jpeg, m.loc)}
	}
}

func (m addModel) update(msg tea.Msg) (addModel, tea.Cmd) {
	switch msg := msg.(type) {
	case identifyDoneMsg:
		return m.applyAssessment(msg.assessment)

	case statusMsg:
		// A failed photo read aborts identification.
		if m.state == addIdentifying {
			m.resetPhotoForm()
			return m, m.photoForm.Init()
		}
		return m, nil

	case plantSavedMsg:
		m.state = addSaved
		reset := m.reset()
		return m, tea.Batch(
			reset,
			func() tea.Msg { return switchViewMsg{view: viewPlants} },
			func() tea.Msg { return statusMsg{text: "Added " + msg.plant.Name} },
		)

	case tea.KeyMsg:
		switch m.state {
		case addNoPhoto:
			return m.updatePhotoForm(msg)
		case addRejected:
			if key.Matches(msg, keys.Enter) || key.Matches(msg, keys.Back) {
				m.resetPhotoForm()
				return m, m.photoForm.Init()
			}
		case addLowPending:
			return m.updateConfirm(msg)
		case addFormEditing:
			return m.updatePlantForm(msg)
		}
	}

	// Forms also consume non-key messages (blink, etc.).
	switch m.state {
	case addNoPhoto:
		return m.updatePhotoForm(msg)
	case addFormEditing:
		return m.updatePlantForm(msg)
	}
	return m, nil
}

func (m addModel) updatePhotoForm(msg tea.Msg) (addModel, tea.Cmd) {
	form, cmd := m.photoForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.photoForm = f
	}

	if m.photoForm.State == huh.StateCompleted {
		path := strings.TrimSpace(*m.formPath)
		if path == "" {
			// No photo: skip identification, go straight to the form.
			m.assessment = care.CareAssessment{}
			m.populateForm(false)
			return m, m.form.Init()
		}
		m.imagePath = path
		m.state = addIdentifying
		return m, m.identify(path)
	}
	return m, cmd
}

func (m addModel) applyAssessment(a care.CareAssessment) (addModel, tea.Cmd) {
	m.assessment = a

	switch a.Tier {
	case care.TierRejected:
		m.state = addRejected
		return m, nil
	case care.TierLowConfidence:
		m.state = addLowPending
		m.confirmCursor = 0
		return m, nil
	default:
		m.populateForm(true)
		return m, m.form.Init()
	}
}

func (m addModel) updateConfirm(msg tea.KeyMsg) (addModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if m.confirmCursor > 0 {
			m.confirmCursor--
		}
	case key.Matches(msg, keys.Down):
		if m.confirmCursor < 1 {
			m.confirmCursor++
		}
	case key.Matches(msg, keys.Enter):
		if m.confirmCursor == 0 {
			// Continue anyway: explicit user confirmation accepts a
			// low-confidence assessment.
			m.populateForm(true)
			return m, m.form.Init()
		}
		m.resetPhotoForm()
		return m, m.photoForm.Init()
	case key.Matches(msg, keys.Back):
		m.resetPhotoForm()
		return m, m.photoForm.Init()
	}
	return m, nil
}

// populateForm seeds the plant form, from the assessment when one was
// accepted.
func (m *addModel) populateForm(fromAssessment bool) {
	*m.formName = ""
	*m.formSpecies = ""
	*m.formDays = "7"
	*m.formNotes = ""

	if fromAssessment {
		*m.formSpecies = m.assessment.CommonName
		if m.assessment.WateringFrequencyDays != nil {
			*m.formDays = strconv.Itoa(*m.assessment.WateringFrequencyDays)
		}
		*m.formNotes = care.ComposeNotes(m.assessment)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(m.formName).Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return plants.ErrNameRequired
				}
				return nil
			}),
			huh.NewInput().Title("Species").Value(m.formSpecies),
			huh.NewInput().Title("Watering interval (days)").Value(m.formDays),
			huh.NewText().Title("Care notes").Value(m.formNotes),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.state = addFormEditing
}

func (m addModel) updatePlantForm(msg tea.Msg) (addModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.resetPhotoForm()
			return m, m.photoForm.Init()
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.save()
	}
	return m, cmd
}

func (m addModel) save() tea.Cmd {
	profile := plants.Profile{
		Name:     *m.formName,
		Species:  *m.formSpecies,
		ImageRef: m.imagePath,
		Notes:    *m.formNotes,
	}
	if days, err := strconv.Atoi(strings.TrimSpace(*m.formDays)); err == nil && days > 0 {
		profile.WateringFrequencyDays = &days
	}

	return func() tea.Msg {
		p, err := m.svc.Create(profile)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Save failed: %v", err), isError: true}
		}
		return plantSavedMsg{plant: p}
	}
}

// reset returns the model to the start of the flow for the next plant.
func (m *addModel) reset() tea.Cmd {
	m.imagePath = ""
	m.assessment = care.CareAssessment{}
	m.resetPhotoForm()
	return m.photoForm.Init()
}

func (m addModel) view() string {
	w := m.width - 4

	switch m.state {
	case addIdentifying:
		content := lipgloss.JoinVertical(lipgloss.Center,
			titleStyle.Render("Identifying..."),
			"",
			mutedStyle.Render("Sending photo to the identification service"),
		)
		return activePanelStyle.Width(w).Render(content)

	case addRejected:
		content := lipgloss.JoinVertical(lipgloss.Left,
			errorStyle.Render("Not a plant"),
			"",
			"Could not identify a plant in this photo.",
			mutedStyle.Render("Take a clear photo of a live plant and try again."),
			"",
			mutedStyle.Render("  enter: retry  esc: back"),
		)
		return panelStyle.Width(w).Render(content)

	case addLowPending:
		return m.renderConfirm(w)

	case addFormEditing:
		var rows []string
		rows = append(rows, titleStyle.Render("New Plant"))
		if m.assessment.CommonName != "" || m.assessment.ScientificName != "" {
			rows = append(rows, m.renderAssessmentSummary())
		}
		rows = append(rows, "")
		rows = append(rows, m.form.View())
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))

	default:
		content := lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Add Plant"),
			"",
			m.photoForm.View(),
		)
		return panelStyle.Width(w).Render(content)
	}
}

func (m addModel) renderConfirm(w int) string {
	pct := int(m.assessment.Confidence * 100)

	var rows []string
	rows = append(rows, warningStyle.Render(fmt.Sprintf("Only %d%% confident", pct)))
	rows = append(rows, "")
	if m.assessment.Advice != "" {
		rows = append(rows, m.assessment.Advice)
	} else if len(m.assessment.ImprovementSuggestions) > 0 {
		rows = append(rows, m.assessment.ImprovementSuggestions...)
	} else {
		rows = append(rows,
			"For better results:",
			"• Move closer to the plant",
			"• Better lighting",
			"• Focus on leaves clearly",
		)
	}
	rows = append(rows, "")

	options := []string{"Continue Anyway", "Retake Photo"}
	for i, opt := range options {
		cursor := "  "
		style := normalItemStyle
		if i == m.confirmCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+opt))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: select  esc: back"))

	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m addModel) renderAssessmentSummary() string {
	title := m.assessment.CommonName
	if title == "" {
		title = m.assessment.ScientificName
	}

	line := highlightStyle.Render(title)
	if m.assessment.ScientificName != "" && m.assessment.ScientificName != title {
		line += subtitleStyle.Render("  " + m.assessment.ScientificName)
	}
	line += mutedStyle.Render(fmt.Sprintf("  %d%% confident", int(m.assessment.Confidence*100)))
	return line
}
