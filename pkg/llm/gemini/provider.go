// Package gemini 提供 Google Gemini LLM 供应商实现。
package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kart-io/medisearch/pkg/infra/tracing"
	"github.com/kart-io/medisearch/pkg/llm"
	"github.com/kart-io/medisearch/pkg/utils/httpclient"
)

const ProviderName = "gemini"

const tracerName = "github.com/kart-io/medisearch/pkg/llm/gemini"

func init() {
	llm.RegisterChatProvider(ProviderName, func(config map[string]any) (llm.ChatProvider, error) {
		return NewProvider(config)
	})
}

// Config Gemini 供应商配置。
type Config struct {
	// BaseURL API 基础地址。
	BaseURL string `json:"base_url" mapstructure:"base_url"`

	// APIKey Google AI API 密钥。
	APIKey string `json:"-" mapstructure:"api_key"`

	// ChatModel 用于对话的模型。
	ChatModel string `json:"chat_model" mapstructure:"chat_model"`

	// Timeout 请求超时时间。
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`

	// Temperature 采样温度，0 表示使用模型默认值。
	Temperature float64 `json:"temperature" mapstructure:"temperature"`
}

// DefaultConfig 返回默认配置。
func DefaultConfig() *Config {
	return &Config{
		BaseURL:   "https://generativelanguage.googleapis.com/v1beta",
		ChatModel: "gemini-2.5-flash",
		Timeout:   60 * time.Second,
	}
}

// Provider Gemini 供应商实现。
type Provider struct {
	config *Config
	client *httpclient.Client
}

var _ llm.StructuredProvider = (*Provider)(nil)

// NewProvider 从配置 map 创建 Gemini 供应商。
func NewProvider(configMap map[string]any) (*Provider, error) {
	cfg := DefaultConfig()

	if v, ok := configMap["base_url"].(string); ok && v != "" {
		cfg.BaseURL = strings.TrimRight(v, "/")
	}
	if v, ok := configMap["api_key"].(string); ok && v != "" {
		cfg.APIKey = v
	}
	if v, ok := configMap["chat_model"].(string); ok && v != "" {
		cfg.ChatModel = v
	}
	if v, ok := configMap["timeout"].(time.Duration); ok && v > 0 {
		cfg.Timeout = v
	}
	if v, ok := configMap["temperature"].(float64); ok && v > 0 {
		cfg.Temperature = v
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: api_key is required")
	}

	return NewProviderWithConfig(cfg), nil
}

// NewProviderWithConfig 使用结构化配置创建 Gemini 供应商。
func NewProviderWithConfig(cfg *Config) *Provider {
	return &Provider{
		config: cfg,
		client: httpclient.NewClient(cfg.Timeout),
	}
}

// Name 返回供应商名称。
func (p *Provider) Name() string {
	return ProviderName
}

// generateRequest Gemini generateContent API 请求体。
type generateRequest struct {
	Contents          []content         `json:"contents"`
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature      float64     `json:"temperature,omitempty"`
	ResponseMIMEType string      `json:"responseMimeType,omitempty"`
	ResponseSchema   *llm.Schema `json:"responseSchema,omitempty"`
}

// generateResponse Gemini generateContent API 响应体。
type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text    string `json:"text"`
				Thought bool   `json:"thought,omitempty"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
	} `json:"usageMetadata"`
}

// text 拼接首个候选的全部文本片段，无候选时返回空串。
func (r *generateResponse) text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, pt := range r.Candidates[0].Content.Parts {
		if pt.Thought {
			continue
		}
		sb.WriteString(pt.Text)
	}
	return sb.String()
}

// Chat 进行多轮对话。
func (p *Provider) Chat(ctx context.Context, messages []llm.Message) (string, error) {
	req := generateRequest{GenerationConfig: p.generationConfig()}
	for _, msg := range messages {
		switch msg.Role {
		case llm.RoleSystem:
			req.SystemInstruction = &content{Parts: []part{{Text: msg.Content}}}
		case llm.RoleUser:
			req.Contents = append(req.Contents, content{Role: "user", Parts: []part{{Text: msg.Content}}})
		case llm.RoleAssistant:
			req.Contents = append(req.Contents, content{Role: "model", Parts: []part{{Text: msg.Content}}})
		}
	}
	return p.generate(ctx, "gemini.chat", &req)
}

// Generate 根据提示生成文本。
func (p *Provider) Generate(ctx context.Context, prompt string, systemPrompt string) (string, error) {
	req := p.singleTurn(prompt, systemPrompt)
	return p.generate(ctx, "gemini.generate", req)
}

// GenerateJSON 以 application/json 输出并按 schema 约束结果。
func (p *Provider) GenerateJSON(ctx context.Context, prompt string, systemPrompt string, schema *llm.Schema) (string, error) {
	req := p.singleTurn(prompt, systemPrompt)
	req.GenerationConfig.ResponseMIMEType = "application/json"
	req.GenerationConfig.ResponseSchema = schema
	return p.generate(ctx, "gemini.generate_json", req)
}

func (p *Provider) singleTurn(prompt, systemPrompt string) *generateRequest {
	req := &generateRequest{
		Contents:         []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig: p.generationConfig(),
	}
	if systemPrompt != "" {
		req.SystemInstruction = &content{Parts: []part{{Text: systemPrompt}}}
	}
	return req
}

func (p *Provider) generationConfig() *generationConfig {
	return &generationConfig{Temperature: p.config.Temperature}
}

func (p *Provider) generate(ctx context.Context, spanName string, req *generateRequest) (text string, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, spanName,
		attribute.String("gen_ai.system", ProviderName),
		attribute.String("gen_ai.request.model", p.config.ChatModel),
	)
	defer func() { tracing.End(span, err) }()

	url := fmt.Sprintf("%s/models/%s:generateContent", p.config.BaseURL, p.config.ChatModel)

	var resp generateResponse
	if err = p.client.PostJSON(ctx, url, req, &resp, httpclient.WithHeader("x-goog-api-key", p.config.APIKey)); err != nil {
		return "", fmt.Errorf("gemini: generateContent: %w", err)
	}

	span.SetAttributes(
		attribute.Int("gen_ai.usage.input_tokens", resp.UsageMetadata.PromptTokenCount),
		attribute.Int("gen_ai.usage.output_tokens", resp.UsageMetadata.CandidatesTokenCount),
	)
	if resp.PromptFeedback.BlockReason != "" {
		span.SetAttributes(attribute.String("gen_ai.block_reason", resp.PromptFeedback.BlockReason))
	}
	return resp.text(), nil
}
