// Package ai talks to an OpenAI-compatible chat completion API to answer
// free-text questions about scam prevention. The advisor degrades to
// canned Vietnamese replies when unconfigured or when the upstream fails,
// so the chat pipeline always has something to send.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const defaultBaseURL = "https://api.openai.com/v1"

const systemPrompt = `Bạn là trợ lý AI chuyên về phòng chống lừa đảo tại Việt Nam.

Nhiệm vụ của bạn:
- Tư vấn cách nhận biết các chiêu thức lừa đảo phổ biến
- Phân tích thông tin nghi ngờ (số điện thoại, tin nhắn, email)
- Đưa ra cảnh báo và khuyến nghị cụ thể
- Hướng dẫn cách báo cáo và xử lý khi gặp lừa đảo

Phong cách giao tiếp:
- Thân thiện, dễ hiểu, không dùng thuật ngữ phức tạp
- Cụ thể, có ví dụ minh họa
- Luôn khuyến khích người dùng cảnh giác
- Trả lời ngắn gọn, súc tích (3-5 câu)

Lưu ý:
- KHÔNG đưa ra lời khuyên pháp lý chính thức
- KHÔNG khẳng định 100% ai đó là lừa đảo nếu chưa có bằng chứng rõ ràng
- LUÔN khuyên người dùng kiểm chứng kỹ và báo cơ quan chức năng`

// Canned replies used when the advisor cannot answer.
const (
	UnconfiguredReply = "Trợ lý AI chưa được cấu hình. Bạn vẫn có thể gửi số điện thoại hoặc số tài khoản để tra cứu cảnh báo lừa đảo."
	UnavailableReply  = "Trợ lý AI đang tạm thời gián đoạn, bạn vui lòng thử lại sau. Trong lúc chờ, hãy gửi số điện thoại hoặc số tài khoản để tra cứu cảnh báo."
)

// maxHistoryTurns bounds how much prior conversation is replayed per call.
const maxHistoryTurns = 5

// AdvisorConfig contains configuration for the advisor.
type AdvisorConfig struct {
	// APIKey authenticates against the completion API; empty disables the
	// advisor
	APIKey string
	// BaseURL of an OpenAI-compatible API (default: api.openai.com/v1)
	BaseURL string
	// Model name (default: gpt-4o-mini)
	Model string
	// Temperature for chat replies (default: 0.7)
	Temperature float64
	// MaxTokens per reply (default: 500)
	MaxTokens int
	// Timeout per request (default: 30s)
	Timeout time.Duration
	// Logger for request diagnostics
	Logger *zap.Logger
}

// Turn is one prior exchange replayed as conversation context.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Advisor is the chat completion client.
type Advisor struct {
	config     AdvisorConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewAdvisor creates an advisor. An empty API key yields a working advisor
// whose Advise always returns UnconfiguredReply.
func NewAdvisor(config AdvisorConfig) *Advisor {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.Model == "" {
		config.Model = "gpt-4o-mini"
	}
	if config.Temperature <= 0 {
		config.Temperature = 0.7
	}
	if config.MaxTokens <= 0 {
		config.MaxTokens = 500
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Advisor{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		logger:     logger.Named("ai"),
	}
}

// Configured reports whether an API key is present.
func (a *Advisor) Configured() bool {
	return a.config.APIKey != ""
}

type chatRequest struct {
	Model       string  `json:"model"`
	Messages    []Turn  `json:"messages"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Chat sends one user message, with up to five prior turns of context, and
// returns the model's reply.
func (a *Advisor) Chat(ctx context.Context, message string, history []Turn) (string, error) {
	if !a.Configured() {
		return "", fmt.Errorf("advisor not configured")
	}

	messages := make([]Turn, 0, len(history)+2)
	messages = append(messages, Turn{Role: "system", Content: systemPrompt})
	if len(history) > maxHistoryTurns {
		history = history[len(history)-maxHistoryTurns:]
	}
	messages = append(messages, history...)
	messages = append(messages, Turn{Role: "user", Content: message})

	reqBody := chatRequest{
		Model:       a.config.Model,
		Messages:    messages,
		Temperature: a.config.Temperature,
		MaxTokens:   a.config.MaxTokens,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.config.APIKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("completion response malformed: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("completion rejected: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}

// Advise is the resilient form of Chat used by the message pipeline. It
// never fails: unconfigured and upstream errors map to canned replies.
func (a *Advisor) Advise(ctx context.Context, message string, history []Turn) string {
	if !a.Configured() {
		return UnconfiguredReply
	}

	reply, err := a.Chat(ctx, message, history)
	if err != nil {
		a.logger.Warn("advisor fell back to canned reply", zap.Error(err))
		return UnavailableReply
	}
	return reply
}
