// Package care holds the plant-care domain logic: normalizing provider
// identification documents and computing watering schedules. Everything in
// this package is a pure transform; persistence and reminders live elsewhere.
package care

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"regexp"
	"strings"
)

// ErrMalformedResponse marks provider output that is not a parsable
// document. Callers recover by substituting Fallback(); it is never fatal.
var ErrMalformedResponse = errors.New("malformed provider response")

// Tier is the acceptance policy derived from identification confidence.
type Tier int

const (
	// TierRejected: no plant detected (negative confidence or isPlant=false).
	TierRejected Tier = iota
	// TierLowConfidence: confidence in [0, 0.6); the caller must get
	// explicit user confirmation before accepting.
	TierLowConfidence
	// TierAccepted: confidence in [0.6, 1.0].
	TierAccepted
)

func (t Tier) String() string {
	switch t {
	case TierLowConfidence:
		return "low confidence"
	case TierAccepted:
		return "accepted"
	default:
		return "rejected"
	}
}

// CareAssessment is the validated, confidence-scored subset of a provider
// identification document. It is transient: consumed once to populate a
// plant record and then discarded.
type CareAssessment struct {
	IsPlant        bool
	Confidence     float64
	ScientificName string
	CommonName     string

	// WateringFrequencyDays is nil when the provider could not infer a
	// cadence; a document without one is still valid.
	WateringFrequencyDays *int

	SunlightNeeds string
	CareLevel     string
	Description   string
	Advice        string

	ImprovementSuggestions []string
	RequiresBetterInput    bool

	Tier Tier
}

// providerDocument mirrors the provider response schema. Only the fields
// this app consumes are listed; everything else is ignored on decode.
type providerDocument struct {
	InputAssessment struct {
		ImprovementSuggestions []string `json:"improvementSuggestions"`
	} `json:"inputAssessment"`
	Identification struct {
		IsPlant        bool     `json:"isPlant"`
		Confidence     *float64 `json:"confidence"`
		ScientificName *string  `json:"scientificName"`
		CommonName     *string  `json:"commonName"`
	} `json:"identification"`
	ModelVerdicts struct {
		RequiresBetterInput bool `json:"requiresBetterInput"`
	} `json:"modelVerdicts"`
	DerivedSummary struct {
		WateringFrequencyDays *float64 `json:"wateringFrequencyDays"`
		SunlightNeeds         *string  `json:"sunlightNeeds"`
		CareLevel             *string  `json:"careLevel"`
	} `json:"derivedSummary"`
	Notes struct {
		Description *string `json:"description"`
		Advice      *string `json:"advice"`
	} `json:"notes"`
}

var fenceOpen = regexp.MustCompile("(?i)^```(json)?")

// stripFences removes markdown code-fence wrapping the provider sometimes
// adds around its JSON.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	s = fenceOpen.ReplaceAllString(s, "")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// Normalize converts raw provider text into a CareAssessment. Missing fields
// become unknown sentinels rather than errors; only unparsable text fails,
// and then always with ErrMalformedResponse in the chain.
func Normalize(raw string) (CareAssessment, error) {
	cleaned := stripFences(raw)
	if !strings.HasPrefix(cleaned, "{") {
		return CareAssessment{}, fmt.Errorf("expected a JSON object: %w", ErrMalformedResponse)
	}

	var doc providerDocument
	if err := json.Unmarshal([]byte(cleaned), &doc); err != nil {
		return CareAssessment{}, fmt.Errorf("%v: %w", err, ErrMalformedResponse)
	}

	a := CareAssessment{
		IsPlant:                doc.Identification.IsPlant,
		ImprovementSuggestions: doc.InputAssessment.ImprovementSuggestions,
		RequiresBetterInput:    doc.ModelVerdicts.RequiresBetterInput,
	}
	if doc.Identification.Confidence != nil {
		a.Confidence = *doc.Identification.Confidence
	}
	if doc.Identification.ScientificName != nil {
		a.ScientificName = *doc.Identification.ScientificName
	}
	if doc.Identification.CommonName != nil {
		a.CommonName = *doc.Identification.CommonName
	}
	if doc.DerivedSummary.WateringFrequencyDays != nil {
		if days := int(math.Round(*doc.DerivedSummary.WateringFrequencyDays)); days > 0 {
			a.WateringFrequencyDays = &days
		}
	}
	if doc.DerivedSummary.SunlightNeeds != nil {
		a.SunlightNeeds = *doc.DerivedSummary.SunlightNeeds
	}
	if doc.DerivedSummary.CareLevel != nil {
		a.CareLevel = *doc.DerivedSummary.CareLevel
	}
	if doc.Notes.Description != nil {
		a.Description = *doc.Notes.Description
	}
	if doc.Notes.Advice != nil {
		a.Advice = *doc.Notes.Advice
	}

	if a.Confidence > 1 {
		// Provider contract violation; treat as saturated confidence.
		a.Confidence = 1
	}
	a.Tier = classify(a.IsPlant, a.Confidence)
	return a, nil
}

func classify(isPlant bool, confidence float64) Tier {
	switch {
	case !isPlant || confidence < 0:
		return TierRejected
	case confidence < 0.6:
		return TierLowConfidence
	default:
		return TierAccepted
	}
}

// fallbacks is the fixed set of plausible common houseplants substituted
// when the provider is unavailable or returns garbage. Schedule construction
// never blocks on provider failure; identification accuracy is the tradeoff.
var fallbacks = []CareAssessment{
	{
		IsPlant: true, Confidence: 0.95, Tier: TierAccepted,
		ScientificName: "Monstera deliciosa", CommonName: "Swiss Cheese Plant",
		WateringFrequencyDays: intp(7), SunlightNeeds: "bright indirect", CareLevel: "easy",
		Description: "Allow soil to dry between waterings. Thrives in bright indirect light.",
	},
	{
		IsPlant: true, Confidence: 0.92, Tier: TierAccepted,
		ScientificName: "Epipremnum aureum", CommonName: "Pothos",
		WateringFrequencyDays: intp(5), SunlightNeeds: "bright indirect", CareLevel: "easy",
		Description: "Very hardy trailing vine. Water when top soil is dry. Tolerates low light.",
	},
	{
		IsPlant: true, Confidence: 0.91, Tier: TierAccepted,
		ScientificName: "Sansevieria trifasciata", CommonName: "Snake Plant",
		WateringFrequencyDays: intp(14), SunlightNeeds: "partial shade", CareLevel: "easy",
		Description: "Extremely low maintenance. Water sparingly, prefers to dry out completely.",
	},
	{
		IsPlant: true, Confidence: 0.88, Tier: TierAccepted,
		ScientificName: "Ficus lyrata", CommonName: "Fiddle Leaf Fig",
		WateringFrequencyDays: intp(7), SunlightNeeds: "bright indirect", CareLevel: "moderate",
		Description: "Needs consistent watering and bright light. Sensitive to changes.",
	},
}

func intp(v int) *int { return &v }

// Fallback returns a locally-generated placeholder assessment from the
// fixed set.
func Fallback() CareAssessment {
	a := fallbacks[rand.IntN(len(fallbacks))]
	if a.WateringFrequencyDays != nil {
		days := *a.WateringFrequencyDays
		a.WateringFrequencyDays = &days
	}
	return a
}

// ComposeNotes folds an assessment's derived prose into the free-text notes
// stored on a plant record. The raw assessment itself is never persisted.
func ComposeNotes(a CareAssessment) string {
	var b strings.Builder
	if a.ScientificName != "" {
		b.WriteString(a.ScientificName + "\n\n")
	}
	if a.SunlightNeeds != "" {
		b.WriteString("Sunlight: " + a.SunlightNeeds + "\n")
	}
	if a.CareLevel != "" {
		b.WriteString("Care level: " + a.CareLevel + "\n")
	}
	if a.Description != "" {
		b.WriteString("\n" + a.Description)
	}
	if a.Advice != "" {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(a.Advice)
	}
	return strings.TrimSpace(b.String())
}
