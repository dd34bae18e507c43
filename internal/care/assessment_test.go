package care

import (
	"errors"
	"strings"
	"testing"
)

const validDoc = `{
	"identification": {
		"isPlant": true,
		"confidence": 0.92,
		"scientificName": "Monstera deliciosa",
		"commonName": "Swiss Cheese Plant"
	},
	"derivedSummary": {
		"wateringFrequencyDays": 7,
		"sunlightNeeds": "bright indirect",
		"careLevel": "easy"
	},
	"notes": {
		"description": "Iconic split leaves.",
		"advice": "Leaves look healthy."
	}
}`

// ============================================================
// Fence stripping and parsing
// ============================================================

func TestNormalizePlainJSON(t *testing.T) {
	a, err := Normalize(validDoc)
	if err != nil {
		t.Fatal(err)
	}
	if a.CommonName != "Swiss Cheese Plant" || a.ScientificName != "Monstera deliciosa" {
		t.Fatalf("names not extracted: %+v", a)
	}
	if a.WateringFrequencyDays == nil || *a.WateringFrequencyDays != 7 {
		t.Fatalf("watering days not extracted: %v", a.WateringFrequencyDays)
	}
	if a.Tier != TierAccepted {
		t.Fatalf("tier = %v, want accepted", a.Tier)
	}
}

func TestNormalizeStripsFences(t *testing.T) {
	fenced := "```json\n" + validDoc + "\n```"
	a, err := Normalize(fenced)
	if err != nil {
		t.Fatal(err)
	}
	if a.CommonName != "Swiss Cheese Plant" {
		t.Fatalf("fenced document not parsed: %+v", a)
	}

	// Bare fences without the json tag
	bare := "```\n" + validDoc + "\n```"
	if _, err := Normalize(bare); err != nil {
		t.Fatalf("bare fences: %v", err)
	}
}

func TestNormalizeMalformed(t *testing.T) {
	for _, raw := range []string{
		"I could not identify this plant.",
		"```json\nnot json at all\n```",
		`{"identification": {"isPlant": tru`,
		"",
	} {
		_, err := Normalize(raw)
		if !errors.Is(err, ErrMalformedResponse) {
			t.Errorf("Normalize(%q): err = %v, want ErrMalformedResponse", raw, err)
		}
	}
}

func TestNormalizeMissingFieldsAreUnknown(t *testing.T) {
	a, err := Normalize(`{"identification": {"isPlant": true, "confidence": 0.8}}`)
	if err != nil {
		t.Fatal(err)
	}
	if a.WateringFrequencyDays != nil {
		t.Fatal("missing watering days must stay nil, not default")
	}
	if a.ScientificName != "" || a.CommonName != "" {
		t.Fatalf("missing names must be empty: %+v", a)
	}
	if a.Tier != TierAccepted {
		t.Fatalf("a document without care fields is still valid, tier = %v", a.Tier)
	}
}

func TestNormalizeFractionalDaysRounded(t *testing.T) {
	a, err := Normalize(`{"identification": {"isPlant": true, "confidence": 0.9}, "derivedSummary": {"wateringFrequencyDays": 6.6}}`)
	if err != nil {
		t.Fatal(err)
	}
	if a.WateringFrequencyDays == nil || *a.WateringFrequencyDays != 7 {
		t.Fatalf("6.6 days should round to 7, got %v", a.WateringFrequencyDays)
	}
}

// ============================================================
// Confidence tiers
// ============================================================

func TestConfidenceTiers(t *testing.T) {
	cases := []struct {
		isPlant    bool
		confidence float64
		want       Tier
	}{
		{false, 0.99, TierRejected},
		{true, -0.1, TierRejected},
		{true, 0.0, TierLowConfidence},
		{true, 0.45, TierLowConfidence},
		{true, 0.59, TierLowConfidence},
		{true, 0.6, TierAccepted},
		{true, 1.0, TierAccepted},
	}
	for _, tc := range cases {
		if got := classify(tc.isPlant, tc.confidence); got != tc.want {
			t.Errorf("classify(%v, %v) = %v, want %v", tc.isPlant, tc.confidence, got, tc.want)
		}
	}
}

func TestNormalizeClampsOverrangeConfidence(t *testing.T) {
	a, err := Normalize(`{"identification": {"isPlant": true, "confidence": 1.7}}`)
	if err != nil {
		t.Fatal(err)
	}
	if a.Confidence != 1 {
		t.Fatalf("confidence = %v, want clamped to 1", a.Confidence)
	}
	if a.Tier != TierAccepted {
		t.Fatalf("tier = %v, want accepted", a.Tier)
	}
}

// ============================================================
// Fallback
// ============================================================

func TestFallbackFromFixedSet(t *testing.T) {
	names := make(map[string]bool)
	for _, f := range fallbacks {
		names[f.CommonName] = true
	}

	for i := 0; i < 50; i++ {
		a := Fallback()
		if !names[a.CommonName] {
			t.Fatalf("fallback %q not in the fixed set", a.CommonName)
		}
		if a.Tier != TierAccepted {
			t.Fatalf("fallback tier = %v, want accepted", a.Tier)
		}
		if a.WateringFrequencyDays == nil {
			t.Fatal("fallback must carry a watering interval")
		}
	}
}

func TestFallbackCopiesDaysPointer(t *testing.T) {
	a := Fallback()
	*a.WateringFrequencyDays = 999

	for _, f := range fallbacks {
		if *f.WateringFrequencyDays == 999 {
			t.Fatal("mutating a fallback result leaked into the fixed set")
		}
	}
}

// ============================================================
// ComposeNotes
// ============================================================

func TestComposeNotes(t *testing.T) {
	a := CareAssessment{
		ScientificName: "Ficus lyrata",
		SunlightNeeds:  "bright indirect",
		CareLevel:      "moderate",
		Description:    "Large violin-shaped leaves.",
		Advice:         "Rotate weekly for even growth.",
	}

	notes := ComposeNotes(a)

	for _, want := range []string{
		"Ficus lyrata",
		"Sunlight: bright indirect",
		"Care level: moderate",
		"Large violin-shaped leaves.",
		"Rotate weekly for even growth.",
	} {
		if !strings.Contains(notes, want) {
			t.Errorf("notes missing %q:\n%s", want, notes)
		}
	}
}

func TestComposeNotesEmptyAssessment(t *testing.T) {
	if notes := ComposeNotes(CareAssessment{}); notes != "" {
		t.Fatalf("expected empty notes, got %q", notes)
	}
}
