package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const extractionPrompt = `You extract restaurant facts from a review.
Return ONLY a JSON object with these keys:
name, category, phone, address, business_days (array of strings),
wifi (bool), parking (bool), menus (array of strings), price_range,
mood (one short descriptive sentence), taste (one short descriptive sentence).
Use empty strings or empty arrays for facts the review does not mention,
except name and address which must always be filled.

Review source: %s
Review text:
%s`

// OllamaAnalyzer runs the extraction prompt against a local Ollama chat model
// with JSON output format enforced.
type OllamaAnalyzer struct {
	BaseURL   string
	ModelName string
	Client    *http.Client
}

var _ Analyzer = &OllamaAnalyzer{}

func NewOllamaAnalyzer(baseURL, modelName string) *OllamaAnalyzer {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if modelName == "" {
		modelName = "llama3"
	}
	return &OllamaAnalyzer{
		BaseURL:   baseURL,
		ModelName: modelName,
		Client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Format   string          `json:"format,omitempty"`
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatResponse struct {
	Model   string        `json:"model"`
	Message ollamaMessage `json:"message"`
	Done    bool          `json:"done"`
}

func (a *OllamaAnalyzer) Analyze(ctx context.Context, review Review) (*Result, error) {
	reqPayload := ollamaChatRequest{
		Model: a.ModelName,
		Messages: []ollamaMessage{
			{Role: "user", Content: fmt.Sprintf(extractionPrompt, review.Source, review.Text)},
		},
		Stream: false,
		Format: "json",
	}

	payloadBytes, err := json.Marshal(reqPayload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := a.BaseURL + "/api/chat"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var chatResp ollamaChatResponse
	if err := json.Unmarshal(bodyBytes, &chatResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	var result Result
	if err := json.Unmarshal([]byte(chatResp.Message.Content), &result); err != nil {
		return nil, fmt.Errorf("model returned non-JSON analysis: %w", err)
	}
	if result.Name == "" || result.Address == "" {
		return nil, fmt.Errorf("analysis missing name or address for %s", review.URL)
	}

	return &result, nil
}
