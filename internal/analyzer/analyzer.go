// Package analyzer calls the LLM collaborator that reviews a resume and
// infers the candidate's role category. The collaborator's JSON payload is
// passed through untouched; only roleCategory is read out of it, to seed the
// background warm-up scrape.
package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// ErrNotConfigured is returned before any network call when no API key is
// present.
var ErrNotConfigured = errors.New("analyzer API key missing")

const analysisSystemPrompt = `You are an expert technical recruiter and AI-driven resume analyst.
Analyze the user's CV provided below. You have two critical tasks:
1. Evaluate the CV against current global market trends for their inferred profession/category.
2. Extract the user's information faithfully into a highly structured JSON schema.

Respond STRICTLY with a valid JSON object matching this exact structure:
{
  "analysis": {
    "score": number,
    "roleCategory": string,
    "marketFitSummary": string,
    "categories": [
      {
        "name": string,
        "score": number,
        "sourceCited": string,
        "good": string[],
        "improvements": string[]
      }
    ]
  },
  "extractedCv": {
    "basics": { "name": string, "label": string, "location": string, "email": string, "phone": string, "summary": string, "links": { "github": string, "linkedin": string, "portfolio": string } },
    "skills": { "programming": string[], "frameworks": string[], "devOps": string[], "cloud": string[], "databases": string[] },
    "experience": [ { "role": string, "company": string, "duration": string, "bullets": string[] } ],
    "education": [ { "institution": string, "location": string, "degree": string, "duration": string } ]
  }
}`

// Analysis carries the collaborator's verbatim payload plus the one field the
// server itself acts on.
type Analysis struct {
	RoleCategory string
	Payload      json.RawMessage
}

type Analyzer struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
	logger  *log.Logger
}

func New(baseURL, apiKey, model string, logger *log.Logger) *Analyzer {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.groq.com/openai/v1"
	}
	if strings.TrimSpace(model) == "" {
		model = "llama-3.3-70b-versatile"
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Analyzer{
		baseURL: baseURL,
		apiKey:  strings.TrimSpace(apiKey),
		model:   model,
		client:  &http.Client{Timeout: 90 * time.Second},
		logger:  logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages       []chatMessage  `json:"messages"`
	Model          string         `json:"model"`
	Temperature    float64        `json:"temperature"`
	ResponseFormat map[string]any `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Analyze submits the resume transcript and returns the raw analysis payload
// with the inferred role category pulled out of it. A payload that is valid
// JSON but lacks analysis.roleCategory is not an error; the role is simply
// empty and no warm-up follows.
func (a *Analyzer) Analyze(ctx context.Context, resumeText string) (Analysis, error) {
	if a == nil || a.client == nil {
		return Analysis{}, fmt.Errorf("nil analyzer")
	}
	if a.apiKey == "" {
		return Analysis{}, ErrNotConfigured
	}

	reqBody := chatRequest{
		Messages: []chatMessage{
			{Role: "system", Content: analysisSystemPrompt},
			{Role: "user", Content: "User CV Transcript:\n" + resumeText},
		},
		Model:          a.model,
		Temperature:    0.1,
		ResponseFormat: map[string]any{"type": "json_object"},
	}
	b, err := json.Marshal(reqBody)
	if err != nil {
		return Analysis{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/chat/completions", bytes.NewReader(b))
	if err != nil {
		return Analysis{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return Analysis{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return Analysis{}, fmt.Errorf("analyzer returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(rb)))
	}

	var cr chatResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 5<<20)).Decode(&cr); err != nil {
		return Analysis{}, fmt.Errorf("decode analyzer response: %w", err)
	}
	if len(cr.Choices) == 0 {
		return Analysis{}, fmt.Errorf("analyzer returned no choices")
	}

	content := strings.TrimSpace(cr.Choices[0].Message.Content)
	if content == "" {
		content = "{}"
	}
	if !json.Valid([]byte(content)) {
		return Analysis{}, fmt.Errorf("analyzer content is not valid JSON: %.200s", content)
	}

	return Analysis{
		RoleCategory: extractRoleCategory([]byte(content)),
		Payload:      json.RawMessage(content),
	}, nil
}

func extractRoleCategory(payload []byte) string {
	var probe struct {
		Analysis struct {
			RoleCategory string `json:"roleCategory"`
		} `json:"analysis"`
	}
	if err := json.Unmarshal(payload, &probe); err != nil {
		return ""
	}
	return strings.TrimSpace(probe.Analysis.RoleCategory)
}
