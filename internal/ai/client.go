package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/meubolso/statement-extractor/internal/models"
)

// Sentinel errors for the distinct upstream failure categories. The
// HTTP layer maps each to its own status code and user-facing message.
var (
	ErrMissingAPIKey      = errors.New("ai: gateway API key is not configured")
	ErrRateLimited        = errors.New("ai: gateway rate limit exceeded")
	ErrQuotaExhausted     = errors.New("ai: gateway credits exhausted")
	ErrUnexpectedResponse = errors.New("ai: unexpected gateway response")
)

// toolName is the single function the model is forced to call.
const toolName = "extract_transactions"

// Config holds the gateway connection settings.
type Config struct {
	GatewayURL string
	APIKey     string
	Model      string
	Timeout    time.Duration
}

// Client talks to a chat-completions style gateway and constrains the
// model to respond through a tool call, so the output shape is fixed
// by schema instead of parsed out of free text.
type Client struct {
	cfg    Config
	httpc  *http.Client
	logger *slog.Logger
}

// NewClient creates a gateway client. A nil logger falls back to the
// default slog logger.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		httpc:  &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// ExtractionArgs is the argument payload of the extract_transactions
// tool call. Transactions are candidates: untrusted until validated.
type ExtractionArgs struct {
	Transactions    []models.CandidateTransaction `json:"transactions"`
	ExtractionNotes string                        `json:"extraction_notes,omitempty"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type toolFunction struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters"`
}

type tool struct {
	Type     string       `json:"type"`
	Function toolFunction `json:"function"`
}

type toolChoice struct {
	Type     string `json:"type"`
	Function struct {
		Name string `json:"name"`
	} `json:"function"`
}

type chatRequest struct {
	Model      string     `json:"model"`
	Messages   []message  `json:"messages"`
	Tools      []tool     `json:"tools"`
	ToolChoice toolChoice `json:"tool_choice"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			ToolCalls []struct {
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"message"`
	} `json:"choices"`
}

// ExtractTransactions sends the recovered statement text to the
// gateway and returns the model's candidate transactions. The caller
// is responsible for validating every candidate.
func (c *Client) ExtractTransactions(ctx context.Context, statementText string) (*ExtractionArgs, error) {
	if c.cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	reqBody := chatRequest{
		Model: c.cfg.Model,
		Messages: []message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: "Extract all transactions from this bank statement:\n\n" + statementText},
		},
		Tools: []tool{{
			Type: "function",
			Function: toolFunction{
				Name:        toolName,
				Description: "Record the transactions found in a bank statement",
				Parameters:  json.RawMessage(extractionSchema),
			},
		}},
	}
	reqBody.ToolChoice.Type = "function"
	reqBody.ToolChoice.Function.Name = toolName

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("ai: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.GatewayURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("ai: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrUnexpectedResponse, err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case http.StatusPaymentRequired:
		return nil, ErrQuotaExhausted
	default:
		c.logger.Error("gateway returned non-OK status",
			"status", resp.StatusCode, "body", truncateForLog(body))
		return nil, fmt.Errorf("%w: status %d", ErrUnexpectedResponse, resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		c.logger.Error("gateway response is not valid JSON", "body", truncateForLog(body))
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
	}

	args, ok := findToolCall(&parsed)
	if !ok {
		// Logged for operators; the raw payload is never returned to users.
		c.logger.Error("gateway response missing tool call", "body", truncateForLog(body))
		return nil, fmt.Errorf("%w: missing %s tool call", ErrUnexpectedResponse, toolName)
	}

	var out ExtractionArgs
	if err := json.Unmarshal([]byte(args), &out); err != nil {
		c.logger.Error("tool call arguments are not valid JSON", "arguments", truncateForLog([]byte(args)))
		return nil, fmt.Errorf("%w: tool arguments: %v", ErrUnexpectedResponse, err)
	}
	return &out, nil
}

func findToolCall(resp *chatResponse) (string, bool) {
	for _, choice := range resp.Choices {
		for _, call := range choice.Message.ToolCalls {
			if call.Function.Name == toolName {
				return call.Function.Arguments, true
			}
		}
	}
	return "", false
}

func truncateForLog(body []byte) string {
	const max = 2048
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
