package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// GeminiProvider generates embeddings with Google's text-embedding-004
// (768 dimensions).
type GeminiProvider struct {
	ApiKey string
}

var _ Provider = &GeminiProvider{}

func NewGeminiProvider(apiKey string) *GeminiProvider {
	return &GeminiProvider{
		ApiKey: apiKey,
	}
}

type geminiRequestPart struct {
	Text string `json:"text"`
}

type geminiRequestContent struct {
	Parts []geminiRequestPart `json:"parts"`
}

type geminiRequest struct {
	Model    string               `json:"model"`
	Content  geminiRequestContent `json:"content"`
	TaskType string               `json:"taskType,omitempty"`
}

type geminiResponse struct {
	Embedding struct {
		Values []float32 `json:"values"`
	} `json:"embedding"`
}

func (p *GeminiProvider) Embed(ctx context.Context, req Request) (*Response, error) {
	moodVec, err := p.embedText(ctx, req.Mood)
	if err != nil {
		return nil, fmt.Errorf("embed mood: %w", err)
	}
	tasteVec, err := p.embedText(ctx, req.Taste)
	if err != nil {
		return nil, fmt.Errorf("embed taste: %w", err)
	}
	categoryVec, err := p.embedText(ctx, req.Category)
	if err != nil {
		return nil, fmt.Errorf("embed category: %w", err)
	}

	return &Response{
		MoodVector:     moodVec,
		TasteVector:    tasteVec,
		CategoryVector: categoryVec,
	}, nil
}

func (p *GeminiProvider) embedText(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, nil
	}

	modelName := "text-embedding-004"

	geminiReq := geminiRequest{
		Model: modelName,
		Content: geminiRequestContent{
			Parts: []geminiRequestPart{{Text: text}},
		},
		TaskType: "RETRIEVAL_DOCUMENT",
	}
	geminiReqJson, err := json.Marshal(geminiReq)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf(
		"https://generativelanguage.googleapis.com/v1/models/%s:embedContent",
		modelName,
	)

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewBuffer(geminiReqJson))
	if err != nil {
		return nil, err
	}

	req.Header.Set("x-goog-api-key", p.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	res, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	resByte, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error from gemini response, code %d, body %s", res.StatusCode, string(resByte))
	}

	var geminiRes geminiResponse
	if err := json.Unmarshal(resByte, &geminiRes); err != nil {
		return nil, err
	}

	return normalizeVector(geminiRes.Embedding.Values), nil
}
