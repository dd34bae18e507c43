package tui

import (
	"testing"
)

// ============================================================
// Care note sectioning
// ============================================================

func TestNoteSectionsEmpty(t *testing.T) {
	if got := noteSections(""); got != nil {
		t.Fatalf("expected nil for empty notes, got %+v", got)
	}
}

func TestNoteSectionsColonTitles(t *testing.T) {
	notes := "Watering:\nAllow soil to dry.\nLight:\nBright indirect."

	got := noteSections(notes)

	if len(got) != 2 {
		t.Fatalf("expected 2 sections, got %d: %+v", len(got), got)
	}
	if got[0].Title != "Watering" || got[1].Title != "Light" {
		t.Fatalf("colon suffix stripped from titles, got %q and %q", got[0].Title, got[1].Title)
	}
}

func TestNoteSectionsKeyValueLinesAreContent(t *testing.T) {
	// ComposeNotes emits "Sunlight: bright indirect" style lines; these are
	// content, not section titles.
	notes := "Sunlight: bright indirect\nCare level: easy"

	got := noteSections(notes)

	if len(got) != 1 || got[0].Title != "Notes" {
		t.Fatalf("key-value lines must fold into Notes: %+v", got)
	}
	if len(got[0].Content) != 2 {
		t.Fatalf("content lost: %+v", got[0])
	}
}

func TestNoteSectionsTitledBlocks(t *testing.T) {
	notes := "WATERING\nAllow soil to dry between waterings.\nWater deeply.\nLIGHT\nBright indirect light."

	got := noteSections(notes)

	if len(got) != 2 {
		t.Fatalf("expected 2 sections, got %d: %+v", len(got), got)
	}
	if got[0].Title != "WATERING" || len(got[0].Content) != 2 {
		t.Fatalf("watering section wrong: %+v", got[0])
	}
	if got[1].Title != "LIGHT" || len(got[1].Content) != 1 {
		t.Fatalf("light section wrong: %+v", got[1])
	}
}

func TestNoteSectionsOrphanContent(t *testing.T) {
	notes := "Just a plain description with no structure."

	got := noteSections(notes)

	if len(got) != 1 || got[0].Title != "Notes" {
		t.Fatalf("orphan content must land in a Notes section: %+v", got)
	}
	if len(got[0].Content) != 1 {
		t.Fatalf("content lost: %+v", got[0])
	}
}

func TestNoteSectionsSkipsAdvice(t *testing.T) {
	notes := "WATERING\nWater weekly.\nAdvice: the photo shows slight browning."

	got := noteSections(notes)

	for _, s := range got {
		for _, line := range s.Content {
			if line == "Advice: the photo shows slight browning." {
				t.Fatal("advice lines must be dropped from the detail view")
			}
		}
	}
	if len(got) != 1 || got[0].Title != "WATERING" {
		t.Fatalf("watering section must survive: %+v", got)
	}
}

func TestNoteSectionsEmptyTitledBlockDropped(t *testing.T) {
	notes := "WATERING\nWater weekly.\nLIGHT\n"

	got := noteSections(notes)

	// A trailing title with no content renders nothing.
	if len(got) != 1 {
		t.Fatalf("expected only the watering section, got %+v", got)
	}
}
