// Package llm 提供 LLM 供应商配置选项。
package llm

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/kart-io/medisearch/pkg/options"
)

var _ options.IOptions = (*ProviderOptions)(nil)

// APIKeyEnv 未显式配置 API 密钥时读取的环境变量。
const APIKeyEnv = "GEMINI_API_KEY"

// ProviderOptions 定义 LLM 供应商配置。
type ProviderOptions struct {
	// Provider 供应商名称。
	Provider string `json:"provider" mapstructure:"provider"`

	// BaseURL API 基础地址。
	BaseURL string `json:"base-url" mapstructure:"base-url"`

	// APIKey API 密钥。
	APIKey string `json:"-" mapstructure:"api-key"`

	// Model 使用的模型名称。
	Model string `json:"model" mapstructure:"model"`

	// Timeout 请求超时时间。
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`

	// Temperature 采样温度，0 表示使用模型默认值。
	Temperature float64 `json:"temperature" mapstructure:"temperature"`
}

// NewProviderOptions 创建默认 LLM 供应商配置。
func NewProviderOptions() *ProviderOptions {
	return &ProviderOptions{
		Provider: "gemini",
		BaseURL:  "https://generativelanguage.googleapis.com/v1beta",
		Model:    "gemini-2.5-flash",
		Timeout:  60 * time.Second,
	}
}

// ToConfigMap 转换为配置 map，用于供应商工厂。
func (o *ProviderOptions) ToConfigMap() map[string]any {
	return map[string]any{
		"base_url":    o.BaseURL,
		"api_key":     o.APIKey,
		"chat_model":  o.Model,
		"timeout":     o.Timeout,
		"temperature": o.Temperature,
	}
}

// AddFlags 将 LLM 供应商选项注册到指定的 FlagSet。
func (o *ProviderOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	p := options.Join(append(prefixes, "llm")...)
	fs.StringVar(&o.Provider, p+"provider", o.Provider, "LLM provider name.")
	fs.StringVar(&o.BaseURL, p+"base-url", o.BaseURL, "LLM API base URL.")
	fs.StringVar(&o.APIKey, p+"api-key", o.APIKey, "LLM API key (falls back to $"+APIKeyEnv+").")
	fs.StringVar(&o.Model, p+"model", o.Model, "LLM model name.")
	fs.DurationVar(&o.Timeout, p+"timeout", o.Timeout, "LLM request timeout.")
	fs.Float64Var(&o.Temperature, p+"temperature", o.Temperature, "Sampling temperature, 0 keeps the model default.")
}

// Complete 从环境变量补全 API 密钥。
func (o *ProviderOptions) Complete() error {
	if o.APIKey == "" {
		o.APIKey = os.Getenv(APIKeyEnv)
	}
	return nil
}

// Validate 校验 LLM 供应商选项。
func (o *ProviderOptions) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error
	if o.Provider == "" {
		errs = append(errs, fmt.Errorf("llm.provider is required"))
	}
	if o.BaseURL == "" {
		errs = append(errs, fmt.Errorf("llm.base-url is required"))
	}
	if o.Model == "" {
		errs = append(errs, fmt.Errorf("llm.model is required"))
	}
	if o.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("llm.timeout must be positive"))
	}
	if o.Temperature < 0 || o.Temperature > 2 {
		errs = append(errs, fmt.Errorf("llm.temperature must be within [0, 2]"))
	}
	return errs
}
