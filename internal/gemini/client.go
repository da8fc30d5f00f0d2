// Package gemini implements the LLM metadata source: structured technical
// analysis of extracted paper text via the Gemini REST API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/larocca/refdesk/internal/reference"
)

const (
	// BaseURL is the Gemini generateContent API base URL.
	BaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// DefaultTimeout is the default HTTP request timeout. Analysis of a
	// full paper can take a while.
	DefaultTimeout = 2 * time.Minute

	// RateLimit caps analysis request throughput.
	RateLimit = 1.0

	// MaxInputChars bounds how much extracted text is sent per request.
	MaxInputChars = 30000
)

// DefaultModels is the ordered candidate list. A "model not found"
// response falls through to the next entry; a credential failure aborts
// the whole chain.
var DefaultModels = []string{
	"gemini-2.0-flash-exp",
	"gemini-1.5-flash",
	"gemini-1.5-pro",
	"gemini-pro",
}

// Client is a rate-limited HTTP client for the Gemini API. The API key is
// injected at construction; there is no ambient credential state.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	apiKey     string
	baseURL    string
	models     []string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithModels overrides the candidate model list.
func WithModels(models []string) ClientOption {
	return func(c *Client) {
		c.models = models
	}
}

// NewClient creates a new Gemini client with the given API key.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		apiKey:     apiKey,
		baseURL:    BaseURL,
		models:     DefaultModels,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Analyze sends extracted paper text for structured review and returns the
// parsed technical review. The text is truncated to MaxInputChars. Models
// are tried in order; ErrInvalidCredential aborts immediately.
func (c *Client) Analyze(ctx context.Context, text string) (reference.TechnicalReview, error) {
	if c.apiKey == "" {
		return reference.TechnicalReview{}, fmt.Errorf("%w: no API key configured", ErrInvalidCredential)
	}

	prompt := buildPrompt(text)

	var lastErr error
	for _, model := range c.models {
		review, err := c.analyzeWithModel(ctx, model, prompt)
		if err == nil {
			return review, nil
		}
		if IsAuthError(err) {
			return reference.TechnicalReview{}, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
		}
		if ctx.Err() != nil {
			return reference.TechnicalReview{}, ctx.Err()
		}
		lastErr = err
	}

	return reference.TechnicalReview{}, fmt.Errorf("all models failed: %w", lastErr)
}

// analyzeWithModel issues one generateContent request.
func (c *Client) analyzeWithModel(ctx context.Context, model, prompt string) (reference.TechnicalReview, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return reference.TechnicalReview{}, err
	}

	reqBody := generateRequest{
		Contents: []content{{
			Role:  "user",
			Parts: []part{{Text: prompt}},
		}},
		GenerationConfig: generationConfig{
			Temperature:     0.6,
			TopP:            0.95,
			MaxOutputTokens: 4096,
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return reference.TechnicalReview{}, fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return reference.TechnicalReview{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return reference.TechnicalReview{}, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode, Model: model}
		var errBody struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errBody); decodeErr == nil {
			apiErr.Message = errBody.Error.Message
		}
		if resp.StatusCode == http.StatusNotFound {
			return reference.TechnicalReview{}, fmt.Errorf("%w: %v", ErrModelNotFound, apiErr)
		}
		return reference.TechnicalReview{}, apiErr
	}

	var result generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return reference.TechnicalReview{}, fmt.Errorf("decoding response: %w", err)
	}

	return parseReview(result.Text())
}

// parseReview extracts and decodes the review JSON from model output.
func parseReview(text string) (reference.TechnicalReview, error) {
	if text == "" {
		return reference.TechnicalReview{}, fmt.Errorf("%w: empty response", ErrParse)
	}

	obj := ExtractJSONObject(text)
	if obj == "" {
		return reference.TechnicalReview{}, fmt.Errorf("%w: no JSON object in response", ErrParse)
	}

	var raw struct {
		Summary          string `json:"summary"`
		ResearchQuestion string `json:"researchQuestion"`
		Methodology      string `json:"methodology"`
		KeyFindings      string `json:"keyFindings"`
		Strengths        string `json:"strengths"`
		Weaknesses       string `json:"weaknesses"`
		Contributions    string `json:"contributions"`
		FutureWork       string `json:"futureWork"`
		Rating           int    `json:"rating"`
	}
	if err := json.Unmarshal([]byte(obj), &raw); err != nil {
		return reference.TechnicalReview{}, fmt.Errorf("%w: %v", ErrParse, err)
	}

	return reference.TechnicalReview{
		Summary:          raw.Summary,
		ResearchQuestion: raw.ResearchQuestion,
		Methodology:      raw.Methodology,
		KeyFindings:      raw.KeyFindings,
		Strengths:        raw.Strengths,
		Weaknesses:       raw.Weaknesses,
		Contributions:    raw.Contributions,
		FutureWork:       raw.FutureWork,
		Rating:           clampRating(raw.Rating),
	}, nil
}

// clampRating forces the rating into [0, 5].
func clampRating(r int) int {
	if r < 0 {
		return 0
	}
	if r > 5 {
		return 5
	}
	return r
}

// buildPrompt assembles the analysis prompt, truncating the source text.
func buildPrompt(text string) string {
	if len(text) > MaxInputChars {
		text = text[:MaxInputChars]
	}
	return `You are an expert academic reviewer. Analyze the following academic paper text and extract the key technical details.

Return the result ONLY as a valid JSON object with the following keys:
- summary: A concise summary of the paper (max 150 words).
- researchQuestion: The main problem or research question being addressed.
- methodology: The methods, algorithms, or approaches used.
- keyFindings: The main results, discoveries, or conclusions.
- strengths: The strong points of the paper.
- weaknesses: The limitations or weak points.
- contributions: How this paper advances the field.
- futureWork: Suggested future research directions mentioned in the paper.
- rating: An integer rating from 1 to 5 based on the quality and impact of the paper.

If a field cannot be found, return an empty string for it. Do not include any markdown formatting in the response, just the raw JSON string.

Paper Text:
` + text
}

// generateRequest is the generateContent request body.
type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

// generateResponse is the generateContent response body.
type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Text returns the text of the first candidate part, or "".
func (r generateResponse) Text() string {
	if len(r.Candidates) == 0 || len(r.Candidates[0].Content.Parts) == 0 {
		return ""
	}
	return r.Candidates[0].Content.Parts[0].Text
}
