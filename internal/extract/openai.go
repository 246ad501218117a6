package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"quote-service/internal/quote/model"
)

const extractPrompt = `You extract purchase items from procurement requests for surgical and medical instruments.
The text may contain greetings, sign-offs, signatures and small talk: ignore them.
Each requested product becomes one item. Keep product names exactly as written, including
multi-word proper names (e.g. "Afastador Senn Mueller", "Pinça Kelly Curva 14cm") and sizes.
Quantity is the number of units requested; use 1 when none is given.

Return ONLY a JSON object:
{"items": [{"name": "product name", "quantity": 1}]}`

// OpenAIOptions configures the LLM extractor.
type OpenAIOptions struct {
	APIKey  string
	Model   string
	BaseURL string        // optional, for proxies and tests
	Timeout time.Duration // per request
	RPS     float64       // requests per second; <= 0 disables the limiter
}

// OpenAI extracts items with a chat completion.
type OpenAI struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	limiter *rate.Limiter
}

func NewOpenAI(opt OpenAIOptions) *OpenAI {
	cfg := openai.DefaultConfig(opt.APIKey)
	if opt.BaseURL != "" {
		cfg.BaseURL = opt.BaseURL
	}
	name := opt.Model
	if name == "" {
		name = "gpt-4o-mini"
	}
	o := &OpenAI{
		client:  openai.NewClientWithConfig(cfg),
		model:   name,
		timeout: opt.Timeout,
	}
	if opt.RPS > 0 {
		o.limiter = rate.NewLimiter(rate.Limit(opt.RPS), max(1, int(opt.RPS)))
	}
	return o
}

type llmItems struct {
	Items []struct {
		Name     string          `json:"name"`
		Quantity json.RawMessage `json:"quantity"`
	} `json:"items"`
}

func (o *OpenAI) Extract(ctx context.Context, text string) ([]model.QueryTerm, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	if o.limiter != nil {
		if err := o.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: extractPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: 0,
	})
	if err != nil {
		return nil, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices")
	}
	return parseItems(resp.Choices[0].Message.Content)
}

// parseItems reads the JSON object out of the model reply, tolerating
// surrounding prose or code fences.
func parseItems(raw string) ([]model.QueryTerm, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return nil, fmt.Errorf("no JSON object in model reply")
	}
	var res llmItems
	if err := json.Unmarshal([]byte(raw[start:end+1]), &res); err != nil {
		return nil, fmt.Errorf("decode model reply: %w", err)
	}
	out := make([]model.QueryTerm, 0, len(res.Items))
	for _, it := range res.Items {
		out = append(out, model.QueryTerm{Text: it.Name, Quantity: quantity(it.Quantity)})
	}
	return sanitize(out), nil
}

// quantity accepts 3, 3.0 and "3".
func quantity(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 1
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return int(f)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		var n int
		if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d", &n); err == nil {
			return n
		}
	}
	return 1
}
