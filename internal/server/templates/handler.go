// Copyright (C) 2024 the quixsi maintainers
// See root-dir/LICENSE for more information

package templates

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/quixsi/tablefinder/internal/controller"
	"github.com/quixsi/tablefinder/internal/model"
	"github.com/quixsi/tablefinder/internal/view"
)

// SessionKey is the gin context key holding the session id.
const SessionKey = "session"

func NewLookupHandler(ctrl *controller.Controller, mapURL string) *LookupHandler {
	return &LookupHandler{
		ctrl:     ctrl,
		renderer: view.NewRenderer(),
		mapURL:   mapURL,
		logger:   slog.Default().WithGroup("http"),
	}
}

type LookupHandler struct {
	ctrl     *controller.Controller
	renderer *view.Renderer
	mapURL   string
	logger   *slog.Logger
}

func (h *LookupHandler) Render(c *gin.Context) {
	var span trace.Span
	ctx := c.Request.Context()
	ctx, span = tracer.Start(ctx, "LookupHandler.Render")
	defer span.End()

	session, err := h.ctrl.Session(ctx, sessionID(c))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.logger.ErrorContext(ctx, "could not load session", "error", err)
		c.String(http.StatusInternalServerError, "could not load session")
		return
	}
	h.render(c, session, false)
}

func (h *LookupHandler) SelectMode(c *gin.Context) {
	mode, err := model.ParseSearchMode(c.PostForm("mode"))
	if err != nil {
		h.logger.WarnContext(c.Request.Context(), "invalid mode", "error", err)
		c.String(http.StatusBadRequest, "invalid mode")
		return
	}
	h.dispatch(c, "LookupHandler.SelectMode", controller.TabSelected{Mode: mode}, false)
}

// NormalizeCode answers keystrokes in the code input with the sanitized
// field.
func (h *LookupHandler) NormalizeCode(c *gin.Context) {
	h.dispatch(c, "LookupHandler.NormalizeCode", controller.CodeTyped{Raw: c.PostForm("code")}, true)
}

func (h *LookupHandler) SearchCode(c *gin.Context) {
	h.dispatch(c, "LookupHandler.SearchCode", controller.SearchCode{Code: c.PostForm("code")}, false)
}

func (h *LookupHandler) SearchName(c *gin.Context) {
	h.dispatch(c, "LookupHandler.SearchName", controller.SearchName{Name: c.PostForm("name")}, false)
}

// Submit searches in the active mode, like pressing Enter anywhere on the
// page.
func (h *LookupHandler) Submit(c *gin.Context) {
	h.dispatch(c, "LookupHandler.Submit", controller.Submit{
		Code: c.PostForm("code"),
		Name: c.PostForm("name"),
	}, false)
}

func (h *LookupHandler) Map(c *gin.Context) {
	c.Redirect(http.StatusFound, h.mapURL)
}

func (h *LookupHandler) dispatch(c *gin.Context, name string, e controller.Event, codeField bool) {
	var span trace.Span
	ctx := c.Request.Context()
	ctx, span = tracer.Start(ctx, name)
	defer span.End()

	session, err := h.ctrl.Dispatch(ctx, sessionID(c), e)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.logger.ErrorContext(ctx, "could not handle event", "error", err)
		c.String(http.StatusInternalServerError, "could not handle request")
		return
	}

	if !isHTMX(c) {
		// post/redirect/get, the state lives in the session
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	h.render(c, session, codeField)
}

func (h *LookupHandler) render(c *gin.Context, session *model.Session, codeField bool) {
	ctx := c.Request.Context()
	page := view.NewPage(session.State, h.mapURL)

	var (
		buf bytes.Buffer
		err error
	)
	switch {
	case codeField:
		err = h.renderer.CodeField(&buf, page)
	case isHTMX(c):
		err = h.renderer.Fragment(&buf, page)
	default:
		err = h.renderer.Page(&buf, page)
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to execute template", "error", err)
		c.String(http.StatusInternalServerError, "could not render page")
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func sessionID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(SessionKey); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

func isHTMX(c *gin.Context) bool {
	return c.GetHeader("Hx-Request") == "true"
}
