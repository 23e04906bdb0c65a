package services

import (
	"HaloBackend/models"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// MaxAnalyzedChars is the longest input passed to the classifier.
const MaxAnalyzedChars = 512

// TextAnalyzer classifies text with an external model. Analyze never fails: any
// error is reported inside the returned Analysis.
type TextAnalyzer interface {
	Analyze(ctx context.Context, text string) models.Analysis
}

// HuggingFaceAnalyzer calls a text-classification model on the Hugging Face
// Inference API.
type HuggingFaceAnalyzer struct {
	Endpoint string
	Token    string
	Client   *http.Client
	logger   *logrus.Entry
}

func NewHuggingFaceAnalyzer(baseURL, model, token string, timeout time.Duration, logger *logrus.Logger) *HuggingFaceAnalyzer {
	return &HuggingFaceAnalyzer{
		Endpoint: strings.TrimRight(baseURL, "/") + "/" + model,
		Token:    token,
		Client:   &http.Client{Timeout: timeout},
		logger:   logger.WithField("component", "nlp"),
	}
}

type inferenceRequest struct {
	Inputs string `json:"inputs"`
}

type inferenceError struct {
	Error string `json:"error"`
}

func (a *HuggingFaceAnalyzer) Analyze(ctx context.Context, text string) models.Analysis {
	pipe, err := a.classify(ctx, TruncateText(text, MaxAnalyzedChars))
	if err != nil {
		a.logger.WithError(err).Warn("text analysis failed")
		return models.Analysis{Error: err.Error()}
	}
	return models.Analysis{Pipe: pipe}
}

func (a *HuggingFaceAnalyzer) classify(ctx context.Context, text string) ([]models.LabelScore, error) {
	payload, err := json.Marshal(inferenceRequest{Inputs: text})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if a.Token != "" {
		req.Header.Set("Authorization", "Bearer "+a.Token)
	}

	resp, err := a.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr inferenceError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("model error (status %d): %s", resp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("model error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return decodeLabelScores(body)
}

// decodeLabelScores accepts both the batched [[...]] and the flat [...] response shapes.
func decodeLabelScores(body []byte) ([]models.LabelScore, error) {
	var nested [][]models.LabelScore
	if err := json.Unmarshal(body, &nested); err == nil {
		if len(nested) == 0 {
			return []models.LabelScore{}, nil
		}
		return nested[0], nil
	}
	var flat []models.LabelScore
	if err := json.Unmarshal(body, &flat); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return flat, nil
}

// TruncateText cuts text to at most max characters.
func TruncateText(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}
