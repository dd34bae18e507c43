// Package gemini calls the Generative Language API to identify a plant
// photo and produce a care assessment. The provider is strictly optional:
// any transport, status or parse failure yields a fallback assessment so
// schedule construction never blocks on provider availability.
package gemini

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/sadopc/leafkeep/internal/care"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-3-flash-preview"

	cacheTTL = 24 * time.Hour
)

type Client struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client

	// cache keys identification results by image hash so re-identifying
	// the same photo skips the provider.
	cache *gocache.Cache
}

func New(apiKey, model string) *Client {
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 60 * time.Second},
		cache:   gocache.New(cacheTTL, 10*time.Minute),
	}
}

// Wire types for the generateContent endpoint.

type generateRequest struct {
	Contents         []requestContent `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type requestContent struct {
	Parts []requestPart `json:"parts"`
}

type requestPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Identify sends the JPEG image to the provider and normalizes the reply.
// A rejected or low-confidence assessment is a valid result and is returned
// as-is; provider failure of any kind returns care.Fallback() instead of an
// error. The caller decides what to do with the tier.
func (c *Client) Identify(ctx context.Context, jpeg []byte, loc *Context) care.CareAssessment {
	if c.apiKey == "" {
		return care.Fallback()
	}

	key := imageKey(jpeg)
	if cached, ok := c.cache.Get(key); ok {
		return cached.(care.CareAssessment)
	}

	text, err := c.generate(ctx, jpeg, loc)
	if err != nil {
		return care.Fallback()
	}

	assessment, err := care.Normalize(text)
	if err != nil {
		return care.Fallback()
	}

	c.cache.Set(key, assessment, cacheTTL)
	return assessment
}

func (c *Client) generate(ctx context.Context, jpeg []byte, loc *Context) (string, error) {
	reqBody := generateRequest{
		Contents: []requestContent{{
			Parts: []requestPart{
				{Text: buildPrompt(loc)},
				{InlineData: &inlineData{
					MIMEType: "image/jpeg",
					Data:     base64.StdEncoding.EncodeToString(jpeg),
				}},
			},
		}},
		GenerationConfig: generationConfig{
			Temperature:     0.1,
			MaxOutputTokens: 2048,
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("call provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var gr generateResponse
	if err := json.Unmarshal(body, &gr); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response")
	}

	var text string
	for _, p := range gr.Candidates[0].Content.Parts {
		text += p.Text
	}
	return text, nil
}

func imageKey(jpeg []byte) string {
	sum := sha256.Sum256(jpeg)
	return hex.EncodeToString(sum[:])
}
