package gemini

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/leafkeep/internal/care"
)

const providerDoc = `{
	"identification": {
		"isPlant": true,
		"confidence": 0.9,
		"scientificName": "Epipremnum aureum",
		"commonName": "Pothos"
	},
	"derivedSummary": {
		"wateringFrequencyDays": 5,
		"sunlightNeeds": "bright indirect",
		"careLevel": "easy"
	}
}`

func newTestClient(t *testing.T) *Client {
	t.Helper()
	c := New("test-key", "")
	httpmock.ActivateNonDefault(c.http)
	t.Cleanup(httpmock.DeactivateAndReset)
	return c
}

func endpointURL(c *Client) string {
	return fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
}

func candidateResponse(text string) map[string]any {
	return map[string]any{
		"candidates": []map[string]any{{
			"content": map[string]any{
				"parts": []map[string]any{{"text": text}},
			},
		}},
	}
}

// ============================================================
// Identify
// ============================================================

func TestIdentifySuccess(t *testing.T) {
	c := newTestClient(t)
	httpmock.RegisterResponder("POST", endpointURL(c),
		httpmock.NewJsonResponderOrPanic(200, candidateResponse(providerDoc)))

	a := c.Identify(context.Background(), []byte("jpeg-bytes"), nil)

	assert.Equal(t, "Pothos", a.CommonName)
	assert.Equal(t, care.TierAccepted, a.Tier)
	require.NotNil(t, a.WateringFrequencyDays)
	assert.Equal(t, 5, *a.WateringFrequencyDays)
}

func TestIdentifyFencedResponse(t *testing.T) {
	c := newTestClient(t)
	httpmock.RegisterResponder("POST", endpointURL(c),
		httpmock.NewJsonResponderOrPanic(200, candidateResponse("```json\n"+providerDoc+"\n```")))

	a := c.Identify(context.Background(), []byte("jpeg-bytes"), nil)

	assert.Equal(t, "Pothos", a.CommonName)
}

func TestIdentifyMalformedFallsBack(t *testing.T) {
	c := newTestClient(t)
	httpmock.RegisterResponder("POST", endpointURL(c),
		httpmock.NewJsonResponderOrPanic(200, candidateResponse("Sorry, I cannot help with that.")))

	a := c.Identify(context.Background(), []byte("jpeg-bytes"), nil)

	// Fallbacks are always accepted assessments with an interval.
	assert.Equal(t, care.TierAccepted, a.Tier)
	assert.True(t, a.IsPlant)
	require.NotNil(t, a.WateringFrequencyDays)
}

func TestIdentifyServerErrorFallsBack(t *testing.T) {
	c := newTestClient(t)
	httpmock.RegisterResponder("POST", endpointURL(c),
		httpmock.NewStringResponder(500, "internal error"))

	a := c.Identify(context.Background(), []byte("jpeg-bytes"), nil)

	assert.True(t, a.IsPlant)
	assert.Equal(t, care.TierAccepted, a.Tier)
}

func TestIdentifyNoAPIKeyFallsBack(t *testing.T) {
	c := New("", "")

	a := c.Identify(context.Background(), []byte("jpeg-bytes"), nil)

	assert.True(t, a.IsPlant)
	require.NotNil(t, a.WateringFrequencyDays)
}

func TestIdentifyCachesByImageHash(t *testing.T) {
	c := newTestClient(t)
	httpmock.RegisterResponder("POST", endpointURL(c),
		httpmock.NewJsonResponderOrPanic(200, candidateResponse(providerDoc)))

	img := []byte("same-photo")
	first := c.Identify(context.Background(), img, nil)
	second := c.Identify(context.Background(), img, nil)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, httpmock.GetTotalCallCount(), "second identify must hit the cache")

	// A different photo misses the cache.
	c.Identify(context.Background(), []byte("other-photo"), nil)
	assert.Equal(t, 2, httpmock.GetTotalCallCount())
}

func TestIdentifyFallbackNotCached(t *testing.T) {
	c := newTestClient(t)
	httpmock.RegisterResponder("POST", endpointURL(c),
		httpmock.NewStringResponder(503, "unavailable"))

	img := []byte("photo")
	c.Identify(context.Background(), img, nil)
	c.Identify(context.Background(), img, nil)

	// Failures retry on each call instead of pinning a fallback for a day.
	assert.Equal(t, 2, httpmock.GetTotalCallCount())
}

// ============================================================
// Prompt context
// ============================================================

func TestBuildPromptAppendsLocation(t *testing.T) {
	base := buildPrompt(nil)
	withLoc := buildPrompt(&Context{Season: "summer", City: "Lisbon", Country: "Portugal"})

	assert.Contains(t, withLoc, base)
	assert.Contains(t, withLoc, "summer")
	assert.Contains(t, withLoc, "Lisbon")
	assert.Contains(t, withLoc, "Portugal")
}

func TestSeason(t *testing.T) {
	cases := []struct {
		lat   float64
		month time.Month
		want  string
	}{
		{52.5, time.July, "summer"},
		{52.5, time.January, "winter"},
		{52.5, time.April, "spring"},
		{52.5, time.October, "fall"},
		{-33.9, time.July, "winter"},
		{-33.9, time.January, "summer"},
		{-33.9, time.April, "fall"},
		{-33.9, time.October, "spring"},
		{0, time.July, "summer"}, // equator treated as northern
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Season(tc.lat, tc.month), "lat %v month %v", tc.lat, tc.month)
	}
}
