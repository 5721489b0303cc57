package insights

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const defaultEndpoint = "https://api.openai.com/v1/chat/completions"

// OpenAIProvider generates commentary through the OpenAI chat completions
// API. Every call is bounded by the client timeout; any failure (transport,
// status, malformed body) surfaces as an error so the caller can fall back.
type OpenAIProvider struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewOpenAIProvider builds a provider with the given key and model. A zero
// timeout defaults to 30 seconds.
func NewOpenAIProvider(apiKey, model string, timeout time.Duration) *OpenAIProvider {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIProvider{
		apiKey:   apiKey,
		model:    model,
		endpoint: defaultEndpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type insightsPayload struct {
	TradingNotes    []string `json:"trading_notes"`
	RiskAssessment  string   `json:"risk_assessment"`
	Recommendations []string `json:"execution_recommendations"`
	MarketContext   string   `json:"market_context"`
}

// Summarize asks the model for structured commentary on the metrics.
func (p *OpenAIProvider) Summarize(m Metrics) (Insights, error) {
	if p.apiKey == "" {
		return Insights{}, fmt.Errorf("no API key configured")
	}

	body, err := json.Marshal(chatRequest{
		Model:       p.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt(m)}},
		Temperature: 0.7,
		MaxTokens:   1000,
	})
	if err != nil {
		return Insights{}, err
	}

	req, err := http.NewRequest(http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return Insights{}, err
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return Insights{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Insights{}, fmt.Errorf("insights API status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Insights{}, fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return Insights{}, fmt.Errorf("no choices in response")
	}
	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return Insights{}, fmt.Errorf("empty response content")
	}

	var payload insightsPayload
	if err := json.Unmarshal([]byte(stripFences(content)), &payload); err != nil {
		return Insights{}, fmt.Errorf("parse insights JSON: %w", err)
	}
	return Insights{
		Asset:           m.Asset,
		TradingNotes:    payload.TradingNotes,
		RiskAssessment:  payload.RiskAssessment,
		Recommendations: payload.Recommendations,
		MarketContext:   payload.MarketContext,
	}, nil
}

// stripFences tolerates models that wrap the JSON in markdown code fences.
func stripFences(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	if i := strings.LastIndex(trimmed, "```"); i >= 0 {
		trimmed = trimmed[:i]
	}
	return strings.TrimSpace(trimmed)
}

func prompt(m Metrics) string {
	return fmt.Sprintf(`You are a quantitative trading analyst specializing in cryptocurrency momentum strategies. Analyze this trading strategy performance and provide actionable insights.

ASSET: %s
PERFORMANCE METRICS:
- Total Return: %.2f%%
- Sharpe Ratio: %.2f
- Win Rate: %.1f%%
- Max Drawdown: %.2f%%
- Trading Days: %d
- Profit Factor: %.2f

CURRENT MARKET DATA:
- Current Price: $%.2f
- Long MA: $%.2f
- Short MA: $%.2f
- RS vs baseline (short MA): %.2f
- RS vs baseline (long MA): %.2f
- ATR(14): $%.2f
- Volatility: %.2f%%

Please provide:
1. 3-5 specific trading notes (execution tips, market conditions, risk factors)
2. Risk assessment (1-2 sentences on risk level and key concerns)
3. 2-3 execution recommendations (entry/exit strategies, position sizing)
4. Market context (1-2 sentences on current market conditions and outlook)

IMPORTANT: Respond with ONLY valid JSON in this exact format (no markdown, no explanations, no code blocks):
{
  "trading_notes": ["note1", "note2", "note3"],
  "risk_assessment": "brief risk summary",
  "execution_recommendations": ["rec1", "rec2"],
  "market_context": "market outlook"
}`,
		m.Asset, m.TotalReturn, m.SharpeRatio, m.WinRate, m.MaxDrawdown,
		m.TradingDays, m.ProfitFactor, m.CurrentPrice, m.MALong, m.MAShort,
		m.RSMAShort, m.RSMALong, m.ATR, m.Volatility)
}
