package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/fintrack/fintrack-api/utils"
)

// ============================================================================
// CLAUDE AI SERVICE
// Thin client for the Anthropic Messages API. Used for the advisor chat
// and for coaching insight generation; all the "intelligence" lives on
// the hosted model.
// ============================================================================

type ClaudeAIService struct {
	apiKey     string
	model      string
	maxTokens  int
	httpClient *http.Client
}

type ClaudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	System    string          `json:"system,omitempty"`
	Messages  []ClaudeMessage `json:"messages"`
}

type ClaudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ClaudeResponse struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Role    string `json:"role"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Model      string `json:"model"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

func NewClaudeAIService() *ClaudeAIService {
	model := os.Getenv("ANTHROPIC_MODEL")
	if model == "" {
		model = "claude-3-5-sonnet-latest"
	}

	return &ClaudeAIService{
		apiKey:     os.Getenv("ANTHROPIC_API_KEY"),
		model:      model,
		maxTokens:  1024,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Available reports whether an API key is configured. Callers fall back
// to rule-based output when it is not.
func (s *ClaudeAIService) Available() bool {
	return s.apiKey != ""
}

// ChatContext is the financial snapshot serialized into the advisor
// prompt so answers reference the user's actual data.
type ChatContext struct {
	Currency           string      `json:"currency"`
	Accounts           interface{} `json:"accounts"`
	RecentTransactions interface{} `json:"recent_transactions"`
	Budgets            interface{} `json:"budgets"`
}

// Chat answers a free-form question grounded in the user's data.
func (s *ClaudeAIService) Chat(ctx context.Context, chatCtx ChatContext, message string) (string, error) {
	if !s.Available() {
		return "", fmt.Errorf("ANTHROPIC_API_KEY not set")
	}

	data, err := json.Marshal(chatCtx)
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat context: %w", err)
	}

	systemPrompt := fmt.Sprintf(`You are a helpful, friendly financial advisor assistant.
The user's preferred currency is %s: ALWAYS format monetary values in that currency.

The user's financial data:
%s

Rules:
1. Be concise but helpful (keep responses under 150 words unless more detail is needed).
2. Use the actual data provided to give specific, personalized advice.
3. If asked about balance, calculate totals from the accounts data.
4. Be encouraging and positive while being honest about financial health.
5. Suggest actionable next steps when appropriate.`, chatCtx.Currency, string(data))

	requestBody := ClaudeRequest{
		Model:     s.model,
		MaxTokens: s.maxTokens,
		System:    systemPrompt,
		Messages: []ClaudeMessage{
			{Role: "user", Content: message},
		},
	}

	return s.executeRequest(ctx, requestBody)
}

// CoachingInsight is the shape the model is asked to return for the
// insights feed.
type CoachingInsight struct {
	Type        string `json:"type"` // coaching | kudo
	Title       string `json:"title"`
	Description string `json:"description"`
}

// GenerateCoachingInsights asks the model for 2-3 coaching/kudo entries
// based on a per-category spending summary.
func (s *ClaudeAIService) GenerateCoachingInsights(ctx context.Context, currency string, spendingSummary interface{}) ([]CoachingInsight, error) {
	if !s.Available() {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY not set")
	}

	data, err := json.Marshal(spendingSummary)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal spending summary: %w", err)
	}

	prompt := fmt.Sprintf(`I am a personal finance AI agent. Analyze the following spending data:
Currency: %s
Category Stats: %s

Generate 2-3 specific, actionable financial insights focusing on:
- Spending shifts (Coaching)
- Success stories where spending decreased (Kudo)
- Actionable advice

Return ONLY a JSON array:
[{"type": "coaching" | "kudo", "title": "Title", "description": "Description"}]
No markdown, no extra text, and NO emojis.`, currency, string(data))

	requestBody := ClaudeRequest{
		Model:     s.model,
		MaxTokens: s.maxTokens,
		Messages: []ClaudeMessage{
			{Role: "user", Content: prompt},
		},
	}

	raw, err := s.executeRequest(ctx, requestBody)
	if err != nil {
		return nil, err
	}

	// Strip markdown fences the model sometimes adds despite instructions.
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")

	var insights []CoachingInsight
	if err := json.Unmarshal([]byte(strings.TrimSpace(cleaned)), &insights); err != nil {
		return nil, fmt.Errorf("failed to parse insights response: %w", err)
	}

	out := insights[:0]
	for _, in := range insights {
		if in.Type != "coaching" && in.Type != "kudo" {
			continue
		}
		out = append(out, in)
	}
	return out, nil
}

func (s *ClaudeAIService) executeRequest(ctx context.Context, requestBody ClaudeRequest) (string, error) {
	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		"POST",
		"https://api.anthropic.com/v1/messages",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var claudeResp ClaudeResponse
	if err := json.Unmarshal(body, &claudeResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if len(claudeResp.Content) == 0 {
		return "", fmt.Errorf("empty response from Claude")
	}

	utils.SafeDebug("[Claude AI] Model: %s | Tokens: In %d / Out %d | Cost: $%.5f",
		claudeResp.Model,
		claudeResp.Usage.InputTokens,
		claudeResp.Usage.OutputTokens,
		s.EstimateCost(claudeResp.Usage.InputTokens, claudeResp.Usage.OutputTokens),
	)

	return claudeResp.Content[0].Text, nil
}

// Approximate Claude 3.5 Sonnet pricing.
const (
	InputTokenPrice  = 0.000003 // $3 per million
	OutputTokenPrice = 0.000015 // $15 per million
)

func (s *ClaudeAIService) EstimateCost(inputTokens int, outputTokens int) float64 {
	return float64(inputTokens)*InputTokenPrice + float64(outputTokens)*OutputTokenPrice
}
