package errors

import "net/http"

// MediSearch service errors: 20
// Code format: AABBCCC
// - AA: 20 (MediSearch service)
// - BB: category
// - CCC: sequence
//
// MessageEN is the text returned to clients in the error body.

var (
	// Request errors (category 01)
	ErrInvalidChatRequest = Register(&Errno{
		Code:      MakeCode(ServiceMediSearch, CategoryRequest, 1),
		HTTP:      http.StatusBadRequest,
		MessageEN: "Invalid request data",
		MessageZH: "请求数据无效",
	})
	ErrQueryRequired = Register(&Errno{
		Code:      MakeCode(ServiceMediSearch, CategoryRequest, 2),
		HTTP:      http.StatusBadRequest,
		MessageEN: "Query parameter 'q' is required",
		MessageZH: "缺少查询参数 q",
	})
	ErrExportFormat = Register(&Errno{
		Code:      MakeCode(ServiceMediSearch, CategoryRequest, 3),
		HTTP:      http.StatusBadRequest,
		MessageEN: "Unsupported export format. Use 'text' or 'json'.",
		MessageZH: "不支持的导出格式，请使用 text 或 json",
	})

	// Internal errors (category 07)
	ErrChatFailed = Register(&Errno{
		Code:      MakeCode(ServiceMediSearch, CategoryInternal, 1),
		HTTP:      http.StatusInternalServerError,
		MessageEN: "Failed to process your message. Please try again.",
		MessageZH: "消息处理失败，请重试",
	})
	ErrSearchFailed = Register(&Errno{
		Code:      MakeCode(ServiceMediSearch, CategoryInternal, 2),
		HTTP:      http.StatusInternalServerError,
		MessageEN: "Search failed. Please try again.",
		MessageZH: "搜索失败，请重试",
	})
	ErrHistoryFailed = Register(&Errno{
		Code:      MakeCode(ServiceMediSearch, CategoryInternal, 3),
		HTTP:      http.StatusInternalServerError,
		MessageEN: "Failed to fetch chat history.",
		MessageZH: "获取对话历史失败",
	})
	ErrAnalyticsFailed = Register(&Errno{
		Code:      MakeCode(ServiceMediSearch, CategoryInternal, 4),
		HTTP:      http.StatusInternalServerError,
		MessageEN: "Failed to fetch analytics.",
		MessageZH: "获取统计数据失败",
	})
	ErrExportFailed = Register(&Errno{
		Code:      MakeCode(ServiceMediSearch, CategoryInternal, 5),
		HTTP:      http.StatusInternalServerError,
		MessageEN: "Failed to export chat history.",
		MessageZH: "导出对话历史失败",
	})
)
