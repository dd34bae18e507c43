package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/leafkeep/internal/care"
)

func keyPress(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func acceptedAssessment() care.CareAssessment {
	days := 5
	return care.CareAssessment{
		IsPlant: true, Confidence: 0.9, Tier: care.TierAccepted,
		ScientificName: "Epipremnum aureum", CommonName: "Pothos",
		WateringFrequencyDays: &days,
		SunlightNeeds:         "bright indirect",
	}
}

// ============================================================
// Identification flow transitions
// ============================================================

func TestAddFlowStartsAtPhotoForm(t *testing.T) {
	m := newAddModel(nil, nil, nil)

	if m.state != addNoPhoto {
		t.Fatalf("initial state = %v, want addNoPhoto", m.state)
	}
	if !m.capturing() {
		t.Fatal("photo form must capture input")
	}
}

func TestAddFlowAcceptedGoesToForm(t *testing.T) {
	m := newAddModel(nil, nil, nil)

	m, _ = m.update(identifyDoneMsg{assessment: acceptedAssessment()})

	if m.state != addFormEditing {
		t.Fatalf("state = %v, want addFormEditing", m.state)
	}
	if *m.formSpecies != "Pothos" {
		t.Fatalf("species not seeded: %q", *m.formSpecies)
	}
	if *m.formDays != "5" {
		t.Fatalf("interval not seeded: %q", *m.formDays)
	}
	if *m.formName != "" {
		t.Fatalf("name must be left for the user, got %q", *m.formName)
	}
	if *m.formNotes == "" {
		t.Fatal("notes must be composed from the assessment")
	}
}

func TestAddFlowRejectedBlocksSave(t *testing.T) {
	m := newAddModel(nil, nil, nil)

	a := care.CareAssessment{IsPlant: false, Confidence: 0.9, Tier: care.TierRejected}
	m, _ = m.update(identifyDoneMsg{assessment: a})

	if m.state != addRejected {
		t.Fatalf("state = %v, want addRejected", m.state)
	}
	if m.capturing() {
		t.Fatal("rejected screen must not capture input as a form")
	}

	// Enter returns to the photo form for a retry.
	m, _ = m.update(keyPress("enter"))
	if m.state != addNoPhoto {
		t.Fatalf("state after retry = %v, want addNoPhoto", m.state)
	}
}

func TestAddFlowLowConfidenceNeedsConfirmation(t *testing.T) {
	m := newAddModel(nil, nil, nil)

	a := acceptedAssessment()
	a.Confidence = 0.45
	a.Tier = care.TierLowConfidence
	m, _ = m.update(identifyDoneMsg{assessment: a})

	if m.state != addLowPending {
		t.Fatalf("state = %v, want addLowPending", m.state)
	}

	// Continue anyway: cursor starts on the accept option.
	m, _ = m.update(keyPress("enter"))
	if m.state != addFormEditing {
		t.Fatalf("state after confirm = %v, want addFormEditing", m.state)
	}
	if *m.formSpecies != "Pothos" {
		t.Fatal("confirmed low-confidence assessment must seed the form")
	}
}

func TestAddFlowLowConfidenceRetake(t *testing.T) {
	m := newAddModel(nil, nil, nil)

	a := acceptedAssessment()
	a.Confidence = 0.3
	a.Tier = care.TierLowConfidence
	m, _ = m.update(identifyDoneMsg{assessment: a})

	m, _ = m.update(keyPress("down"))
	m, _ = m.update(keyPress("enter"))

	if m.state != addNoPhoto {
		t.Fatalf("retake must return to the photo form, state = %v", m.state)
	}
}

func TestAddFlowEscCancelsConfirm(t *testing.T) {
	m := newAddModel(nil, nil, nil)

	a := acceptedAssessment()
	a.Tier = care.TierLowConfidence
	m, _ = m.update(identifyDoneMsg{assessment: a})

	m, _ = m.update(keyPress("esc"))
	if m.state != addNoPhoto {
		t.Fatalf("esc must abandon the assessment, state = %v", m.state)
	}
}

func TestAddFlowIdentifyErrorResets(t *testing.T) {
	m := newAddModel(nil, nil, nil)
	m.state = addIdentifying

	m, _ = m.update(statusMsg{text: "Cannot read photo: no such file", isError: true})

	if m.state != addNoPhoto {
		t.Fatalf("failed identify must reset the flow, state = %v", m.state)
	}
}
