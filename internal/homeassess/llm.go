package homeassess

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	DefaultTemperature = 0.2
	DefaultMaxTokens   = 8192
)

var ErrGatewayNotConfigured = errors.New("ANTHROPIC_API_KEY not configured")

type FailureClass string

const (
	FailureEmpty     FailureClass = "empty"
	FailureParse     FailureClass = "parse"
	FailureTimeout   FailureClass = "timeout"
	FailureRateLimit FailureClass = "rate_limit"
	FailureServer    FailureClass = "server"
	FailureClient    FailureClass = "client"
)

// GatewayError wraps every failure of a model call.
type GatewayError struct {
	Op    string
	Class FailureClass
	Err   error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("%s failed (%s): %v", e.Op, e.Class, e.Err)
}

func (e *GatewayError) Unwrap() error { return e.Err }

type GenerateRequest struct {
	System      string
	Prompt      string
	Images      []InlineImage
	Schema      string
	Temperature float64
	MaxTokens   int
}

type Gateway interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

type AnthropicMessager interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

type AnthropicClientCreator func(apiKey string) AnthropicMessager

func defaultAnthropicCreator(apiKey string) AnthropicMessager {
	c := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &c.Messages
}

var newAnthropicClient AnthropicClientCreator = defaultAnthropicCreator

type AnthropicGateway struct {
	messages AnthropicMessager
	model    anthropic.Model
}

func NewAnthropicGateway(apiKey, model string) (*AnthropicGateway, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, ErrGatewayNotConfigured
	}
	m := anthropic.ModelClaudeSonnet4_20250514
	if model = strings.TrimSpace(model); model != "" {
		m = anthropic.Model(model)
	}
	return &AnthropicGateway{messages: newAnthropicClient(apiKey), model: m}, nil
}

func (a *AnthropicGateway) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	if req.MaxTokens <= 0 {
		req.MaxTokens = DefaultMaxTokens
	}
	prompt := req.Prompt
	if req.Schema != "" {
		prompt += "\n\nThe response must be a single JSON object conforming to this JSON Schema:\n" + req.Schema
	}
	blocks := []anthropic.ContentBlockParamUnion{anthropic.NewTextBlock(prompt)}
	for _, img := range req.Images {
		blocks = append(blocks, anthropic.NewImageBlockBase64(img.MIMEType, img.Base64()))
	}

	resp, err := a.messages.New(ctx, anthropic.MessageNewParams{
		Model:       a.model,
		MaxTokens:   int64(req.MaxTokens),
		System:      []anthropic.TextBlockParam{{Text: req.System}},
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(blocks...)},
		Temperature: anthropic.Float(req.Temperature),
	})
	if err != nil {
		return "", &GatewayError{Op: "generate", Class: classifyTransportError(err), Err: err}
	}
	var sb strings.Builder
	for _, b := range resp.Content {
		if b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", &GatewayError{Op: "generate", Class: FailureEmpty, Err: errors.New("model returned an empty response")}
	}
	return text, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		parts := strings.SplitN(s, "\n", 2)
		if len(parts) == 2 {
			s = parts[1]
		}
		s = strings.TrimPrefix(s, "json")
		s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}
	return s
}

func classifyTransportError(err error) FailureClass {
	if errors.Is(err, context.DeadlineExceeded) {
		return FailureTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return FailureTimeout
	}
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == 429:
			return FailureRateLimit
		case apiErr.StatusCode >= 500:
			return FailureServer
		case apiErr.StatusCode >= 400:
			return FailureClient
		}
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "429"):
		return FailureRateLimit
	case strings.Contains(msg, "status code: 5") || strings.Contains(msg, "server error"):
		return FailureServer
	case strings.Contains(msg, "status code: 4"):
		return FailureClient
	default:
		return FailureServer
	}
}
