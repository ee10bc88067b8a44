// Package server exposes the USSD payment flow over the carrier's HTTP
// callback contract.
package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Veraticus/rentflow/internal/ussd"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// Routes served by the router.
const (
	CallbackPath = "/ussd/callback"
	HealthPath   = "/healthz"
)

// Responder answers one carrier callback.
type Responder interface {
	Handle(ctx context.Context, req ussd.Request) ussd.Prompt
}

// HealthCheck reports whether the server's dependencies are usable.
type HealthCheck func(ctx context.Context) error

// Handler serves the callback and health endpoints.
type Handler struct {
	responder Responder
	health    HealthCheck
	logger    *slog.Logger
}

// NewHandler creates a handler. health may be nil.
func NewHandler(responder Responder, health HealthCheck, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		responder: responder,
		health:    health,
		logger:    logger.With("component", "server"),
	}
}

// callbackForm is the carrier's form body. text is checked separately
// because an empty value is legal and required would reject it.
type callbackForm struct {
	SessionID   string `form:"sessionId" binding:"required"`
	ServiceCode string `form:"serviceCode" binding:"required"`
	PhoneNumber string `form:"phoneNumber" binding:"required"`
	Text        string `form:"text"`
}

// Callback handles POST /ussd/callback.
func (h *Handler) Callback(c *gin.Context) {
	ctx := c.Request.Context()

	if c.ContentType() != binding.MIMEPOSTForm {
		h.logger.WarnContext(ctx, "Rejected callback with unexpected content type",
			"content_type", c.ContentType())
		h.reply(c, ussd.GenericFailure())
		return
	}

	var form callbackForm
	if err := c.ShouldBindWith(&form, binding.Form); err != nil {
		h.logger.WarnContext(ctx, "Rejected malformed callback", "error", err)
		h.reply(c, ussd.GenericFailure())
		return
	}
	if _, ok := c.GetPostForm("text"); !ok {
		h.logger.WarnContext(ctx, "Rejected callback without text field", "session_id", form.SessionID)
		h.reply(c, ussd.GenericFailure())
		return
	}

	prompt := h.responder.Handle(ctx, ussd.Request{
		SessionID:   form.SessionID,
		ServiceCode: form.ServiceCode,
		PhoneNumber: form.PhoneNumber,
		Text:        form.Text,
	})
	h.reply(c, prompt)
}

// Health handles GET /healthz.
func (h *Handler) Health(c *gin.Context) {
	if h.health != nil {
		if err := h.health(c.Request.Context()); err != nil {
			h.logger.ErrorContext(c.Request.Context(), "Health check failed", "error", err)
			c.String(http.StatusServiceUnavailable, "unavailable")
			return
		}
	}
	c.String(http.StatusOK, "ok")
}

func (h *Handler) reply(c *gin.Context, prompt ussd.Prompt) {
	c.String(http.StatusOK, prompt.String())
}

// NewRouter wires the handler into a gin engine with request logging and
// panic recovery.
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(requestLogger(h.logger), recoverWithGenericFailure(h.logger))

	router.POST(CallbackPath, h.Callback)
	router.GET(HealthPath, h.Health)

	return router
}
