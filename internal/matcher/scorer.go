package matcher

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

// ErrScorerNotConfigured is returned before any network call when no API key
// is present.
var ErrScorerNotConfigured = errors.New("scorer API key missing")

// PromptJob is the condensed projection of a job record sent to the scorer,
// bounding payload size.
type PromptJob struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Description string `json:"description"`
}

// ScoredMatch is one entry of the scorer's response.
type ScoredMatch struct {
	JobID           string `json:"jobId"`
	MatchPercentage int    `json:"matchPercentage"`
	Reason          string `json:"reason"`
}

// Scorer assigns match percentages between a resume and a condensed job list.
type Scorer interface {
	Score(ctx context.Context, resumeText string, jobs []PromptJob) ([]ScoredMatch, error)
}

const scorerSystemPrompt = `You are an expert technical recruiter and AI job matching assistant. Your task is to evaluate a candidate's resume against a list of open job positions.

Compare the provided resume against the provided jobs. Calculate a match percentage (0-100) based on skills, experience, and role alignment.
Return a valid JSON array of all matching jobs, sorted highest percentage to lowest.
Include ONLY jobs with a match percentage > 0%. (No arbitrary limit, return as many as possible).

The JSON MUST follow this exact schema:
{
  "matches": [
    {
      "jobId": "the_job_id_from_provided_list",
      "matchPercentage": 85,
      "reason": "1-2 short sentences explaining why the candidate is a strong fit based on their specific skills."
    }
  ]
}
No markdown wrapping, just raw JSON.`

// LLMScorer talks to an OpenAI-compatible chat-completions endpoint.
type LLMScorer struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
	logger  *log.Logger
}

func NewLLMScorer(baseURL, apiKey, model string, logger *log.Logger) *LLMScorer {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.groq.com/openai/v1"
	}
	if strings.TrimSpace(model) == "" {
		model = "llama-3.1-8b-instant"
	}
	if logger == nil {
		logger = log.Default()
	}
	return &LLMScorer{
		baseURL: baseURL,
		apiKey:  strings.TrimSpace(apiKey),
		model:   model,
		client:  &http.Client{Timeout: 60 * time.Second},
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

// Score sends the fixed instruction contract plus the condensed job list and
// normalizes the model's reply. The temperature stays at 0.1 to keep scoring
// close to deterministic.
func (s *LLMScorer) Score(ctx context.Context, resumeText string, jobs []PromptJob) ([]ScoredMatch, error) {
	if s == nil || s.client == nil {
		return nil, fmt.Errorf("nil scorer")
	}
	if s.apiKey == "" {
		return nil, ErrScorerNotConfigured
	}

	jobsJSON, err := json.Marshal(jobs)
	if err != nil {
		return nil, err
	}

	reqBody := chatRequest{
		Messages: []chatMessage{
			{Role: "system", Content: scorerSystemPrompt},
			{Role: "user", Content: fmt.Sprintf("CANDIDATE RESUME TEXT:\n%s\n\nAVAILABLE JOBS:\n%s\n\nReturn ONLY the JSON.", resumeText, jobsJSON)},
		},
		Model:          s.model,
		Temperature:    0.1,
		ResponseFormat: map[string]any{"type": "json_object"},
	}
	b, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("scorer returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(rb)))
	}

	var cr chatResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 5<<20)).Decode(&cr); err != nil {
		return nil, fmt.Errorf("decode scorer response: %w", err)
	}
	if len(cr.Choices) == 0 {
		return nil, fmt.Errorf("scorer returned no choices")
	}

	return parseMatches(cr.Choices[0].Message.Content)
}

// parseMatches tolerates both a bare array and an object wrapping the array
// under "matches".
func parseMatches(content string) ([]ScoredMatch, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("scorer returned empty content")
	}

	var bare []ScoredMatch
	if err := json.Unmarshal([]byte(content), &bare); err == nil {
		return bare, nil
	}

	var wrapped struct {
		Matches []ScoredMatch `json:"matches"`
	}
	if err := json.Unmarshal([]byte(content), &wrapped); err == nil && wrapped.Matches != nil {
		return wrapped.Matches, nil
	}

	return nil, fmt.Errorf("scorer response not parseable as match list: %.200s", content)
}
