// Package handler provides HTTP handlers for the MediSearch service.
package handler

import (
	stderrors "errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kart-io/medisearch/internal/medisearch/biz"
	"github.com/kart-io/medisearch/internal/medisearch/metrics"
	"github.com/kart-io/medisearch/pkg/errors"
	"github.com/kart-io/medisearch/pkg/utils/response"
	"github.com/kart-io/medisearch/pkg/validator"
)

// isoMillis matches the timestamp layout browsers produce for Date values.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// Handler serves the MediSearch API.
type Handler struct {
	service *biz.ChatService
	conn    biz.ConnectivityProvider
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewHandler creates a Handler.
func NewHandler(service *biz.ChatService, conn biz.ConnectivityProvider, m *metrics.Metrics) *Handler {
	if m == nil {
		m = metrics.Default()
	}
	return &Handler{
		service: service,
		conn:    conn,
		metrics: m,
		now:     time.Now,
	}
}

// ChatRequest is the body of POST /chat. SessionID must be present but may
// be empty.
type ChatRequest struct {
	Message   string  `json:"message" validate:"required"`
	SessionID *string `json:"sessionId" validate:"required"`
}

// Chat runs one conversation turn.
func (h *Handler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, errors.ErrInvalidChatRequest)
		return
	}
	if verrs := validator.Struct(&req, c.GetHeader("Accept-Language")); verrs != nil {
		response.Fail(c, errors.ErrInvalidChatRequest.WithMessage(verrs.First()))
		return
	}

	reply, err := h.service.Chat(c.Request.Context(), req.Message, *req.SessionID)
	if err != nil {
		fail(c, err, errors.ErrChatFailed)
		return
	}
	response.OK(c, reply)
}

// Search runs a standalone condition search.
func (h *Handler) Search(c *gin.Context) {
	results, err := h.service.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		fail(c, err, errors.ErrSearchFailed)
		return
	}
	response.OK(c, gin.H{"results": results})
}

// History returns the messages of a session in chronological order.
func (h *Handler) History(c *gin.Context) {
	msgs, err := h.service.History(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		fail(c, err, errors.ErrHistoryFailed)
		return
	}
	response.OK(c, gin.H{"messages": msgs})
}

// Analytics returns the most recent query logs.
func (h *Handler) Analytics(c *gin.Context) {
	queries, err := h.service.Analytics(c.Request.Context())
	if err != nil {
		fail(c, err, errors.ErrAnalyticsFailed)
		return
	}
	response.OK(c, gin.H{"queries": queries})
}

// Export downloads the history of a session as text or JSON.
func (h *Handler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", biz.ExportText)
	file, err := h.service.Export(c.Request.Context(), c.Param("sessionId"), format, h.now())
	if err != nil {
		fail(c, err, errors.ErrExportFailed)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	c.Data(http.StatusOK, file.ContentType, file.Body)
}

// Health reports liveness and search engine connectivity.
func (h *Handler) Health(c *gin.Context) {
	response.OK(c, gin.H{
		"status":                "ok",
		"searchEngineConnected": h.conn != nil && h.conn.Connected(),
		"timestamp":             h.now().UTC().Format(isoMillis),
	})
}

// Metrics writes the service counters in the Prometheus text format.
func (h *Handler) Metrics(c *gin.Context) {
	c.Data(http.StatusOK, "text/plain; version=0.0.4; charset=utf-8", []byte(h.metrics.Export()))
}

// fail reports client errors as they are and replaces anything else with
// the endpoint's generic failure, keeping the cause for the log.
func fail(c *gin.Context, err error, generic *errors.Errno) {
	var e *errors.Errno
	if stderrors.As(err, &e) && e.HTTPStatus() < http.StatusInternalServerError {
		response.Fail(c, e)
		return
	}
	response.Fail(c, generic.WithCause(err))
}
