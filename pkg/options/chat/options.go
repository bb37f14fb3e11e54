// Package chat 提供对话流程的调优选项。
package chat

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/kart-io/medisearch/pkg/options"
)

var _ options.IOptions = (*Options)(nil)

// Options 对话流程配置。
type Options struct {
	// HistoryWindow 作为上下文保留的最近消息数。
	HistoryWindow int `json:"history-window" mapstructure:"history-window"`

	// ChatSearchLimit 对话时检索的结果数。
	ChatSearchLimit int `json:"chat-search-limit" mapstructure:"chat-search-limit"`

	// SearchLimit 直接搜索接口返回的结果数。
	SearchLimit int `json:"search-limit" mapstructure:"search-limit"`

	// AnalyticsLimit 查询日志接口返回的最大条数。
	AnalyticsLimit int `json:"analytics-limit" mapstructure:"analytics-limit"`

	// ScoreDivisor 相关度归一化除数，经验值，与语料和权重配置相关。
	ScoreDivisor float64 `json:"score-divisor" mapstructure:"score-divisor"`

	// MaxMessagesPerSession 单会话保留的消息上限，0 表示不限制。
	MaxMessagesPerSession int `json:"max-messages-per-session" mapstructure:"max-messages-per-session"`

	// MaxQueryLogs 保留的查询日志上限，0 表示不限制。
	MaxQueryLogs int `json:"max-query-logs" mapstructure:"max-query-logs"`

	// EntityExtraction 是否在检索前抽取医学实体。
	EntityExtraction bool `json:"entity-extraction" mapstructure:"entity-extraction"`
}

// NewOptions 创建默认对话配置。
func NewOptions() *Options {
	return &Options{
		HistoryWindow:    6,
		ChatSearchLimit:  5,
		SearchLimit:      10,
		AnalyticsLimit:   100,
		ScoreDivisor:     10,
		EntityExtraction: true,
	}
}

// AddFlags 将对话选项注册到指定的 FlagSet。
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	p := options.Join(append(prefixes, "chat")...)
	fs.IntVar(&o.HistoryWindow, p+"history-window", o.HistoryWindow, "Number of prior messages kept as conversation context.")
	fs.IntVar(&o.ChatSearchLimit, p+"chat-search-limit", o.ChatSearchLimit, "Number of conditions retrieved per chat turn.")
	fs.IntVar(&o.SearchLimit, p+"search-limit", o.SearchLimit, "Number of conditions returned by the search endpoint.")
	fs.IntVar(&o.AnalyticsLimit, p+"analytics-limit", o.AnalyticsLimit, "Maximum number of query logs returned by analytics.")
	fs.Float64Var(&o.ScoreDivisor, p+"score-divisor", o.ScoreDivisor, "Divisor mapping raw relevance scores into [0,1].")
	fs.IntVar(&o.MaxMessagesPerSession, p+"max-messages-per-session", o.MaxMessagesPerSession, "Messages kept per session, 0 keeps everything.")
	fs.IntVar(&o.MaxQueryLogs, p+"max-query-logs", o.MaxQueryLogs, "Query logs kept, 0 keeps everything.")
	fs.BoolVar(&o.EntityExtraction, p+"entity-extraction", o.EntityExtraction, "Extract medical terms before searching.")
}

// Validate 校验对话选项。
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error
	if o.HistoryWindow < 0 {
		errs = append(errs, fmt.Errorf("chat.history-window cannot be negative"))
	}
	if o.ChatSearchLimit <= 0 {
		errs = append(errs, fmt.Errorf("chat.chat-search-limit must be positive"))
	}
	if o.SearchLimit <= 0 {
		errs = append(errs, fmt.Errorf("chat.search-limit must be positive"))
	}
	if o.AnalyticsLimit <= 0 {
		errs = append(errs, fmt.Errorf("chat.analytics-limit must be positive"))
	}
	if o.ScoreDivisor <= 0 {
		errs = append(errs, fmt.Errorf("chat.score-divisor must be positive"))
	}
	if o.MaxMessagesPerSession < 0 || o.MaxQueryLogs < 0 {
		errs = append(errs, fmt.Errorf("chat retention caps cannot be negative"))
	}
	return errs
}
