package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Noah-Bakr/Teach-Team-sub001/internal/dto"
	"github.com/Noah-Bakr/Teach-Team-sub001/internal/review"
	"github.com/Noah-Bakr/Teach-Team-sub001/internal/service"
	"github.com/Noah-Bakr/Teach-Team-sub001/pkg/response"
)

// ── applicant error codes ──

const (
	codeApplicantNotFound = 20001
	codeRankInvalid       = 20002
	codeCommentTooLong    = 20003
	codeAlreadyApplied    = 20004
	codeInvalidSortKey    = 20005
)

const (
	streamWriteWait  = 10 * time.Second
	streamPongWait   = 60 * time.Second
	streamPingPeriod = streamPongWait * 9 / 10
)

// streamMessage is one websocket frame of the applicant stream.
type streamMessage struct {
	Type string                  `json:"type"`
	Data []dto.ApplicantResponse `json:"data"`
}

// ApplicantHandler candidate applications and lecturer review endpoints
type ApplicantHandler struct {
	applicantSvc service.ApplicantService
	upgrader     websocket.Upgrader
	logger       *zap.Logger

	// streams is cancelled by CloseStreams; every open Stream ends with it.
	streams      context.Context
	closeStreams context.CancelFunc
}

// NewApplicantHandler creates an ApplicantHandler. Websocket upgrades are
// accepted from allowOrigins and from same-host requests without Origin.
func NewApplicantHandler(applicantSvc service.ApplicantService, allowOrigins []string, logger *zap.Logger) *ApplicantHandler {
	origins := make(map[string]bool, len(allowOrigins))
	for _, o := range allowOrigins {
		origins[strings.TrimRight(o, "/")] = true
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	streams, closeStreams := context.WithCancel(context.Background())
	return &ApplicantHandler{
		applicantSvc: applicantSvc,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origins[origin]
			},
		},
		logger:       logger,
		streams:      streams,
		closeStreams: closeStreams,
	}
}

// CloseStreams sends a close frame on every open applicant stream and
// rejects new ones. http.Server.Shutdown does not track hijacked
// connections, so the server registers this with RegisterOnShutdown.
func (h *ApplicantHandler) CloseStreams() {
	h.closeStreams()
}

// Apply candidate application
// POST /api/v1/applications
func (h *ApplicantHandler) Apply(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ApplyRequest
	if !bindJSON(c, &req) {
		return
	}

	applicant, err := h.applicantSvc.Apply(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleApplicantError(c, err)
		return
	}

	response.Created(c, applicant)
}

// MyApplications the caller's own applications
// GET /api/v1/applications/me
func (h *ApplicantHandler) MyApplications(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	response.OK(c, gin.H{"list": h.applicantSvc.Mine(c.Request.Context(), userID)})
}

// ListApplicants filtered and sorted table
// GET /api/v1/applicants?q=&sort=
func (h *ApplicantHandler) ListApplicants(c *gin.Context) {
	var req dto.ApplicantListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, response.CodeInvalidParams, "invalid parameters")
		return
	}

	applicants, err := h.applicantSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleApplicantError(c, err)
		return
	}

	response.OK(c, gin.H{"list": applicants})
}

// SelectedApplicants cards for selected applicants with inline errors
// GET /api/v1/applicants/selected
func (h *ApplicantHandler) SelectedApplicants(c *gin.Context) {
	response.OK(c, gin.H{"list": h.applicantSvc.Selected(c.Request.Context())})
}

// ToggleSelected select or deselect an applicant
// POST /api/v1/applicants/:id/toggle
func (h *ApplicantHandler) ToggleSelected(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	actorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	applicant, err := h.applicantSvc.ToggleSelected(c.Request.Context(), id, actorID)
	if err != nil {
		h.handleApplicantError(c, err)
		return
	}

	response.OK(c, applicant)
}

// SetRank set the reviewer rank
// PUT /api/v1/applicants/:id/rank
func (h *ApplicantHandler) SetRank(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	actorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.SetRankRequest
	if !bindJSON(c, &req) {
		return
	}

	applicant, err := h.applicantSvc.SetRank(c.Request.Context(), id, req.Rank, actorID)
	if err != nil {
		h.handleApplicantError(c, err)
		return
	}

	response.OK(c, applicant)
}

// SetComment set the reviewer comment
// PUT /api/v1/applicants/:id/comment
func (h *ApplicantHandler) SetComment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	actorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.SetCommentRequest
	if !bindJSON(c, &req) {
		return
	}

	applicant, err := h.applicantSvc.SetComment(c.Request.Context(), id, req.Comment, actorID)
	if err != nil {
		h.handleApplicantError(c, err)
		return
	}

	response.OK(c, applicant)
}

// Stream pushes the full applicant table on connect and after every change.
// GET /api/v1/applicants/stream (websocket)
func (h *ApplicantHandler) Stream(c *gin.Context) {
	if h.streams.Err() != nil {
		response.Error(c, http.StatusServiceUnavailable, response.CodeInternal, "server is shutting down")
		return
	}
	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer ws.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()
	stopOnClose := context.AfterFunc(h.streams, cancel)
	defer stopOnClose()

	// subscribe before the initial frame so no change is missed
	updates := h.applicantSvc.Watch(ctx)

	initial, err := h.applicantSvc.List(ctx, &dto.ApplicantListRequest{})
	if err != nil {
		return
	}
	if err := h.send(ws, streamMessage{Type: "snapshot", Data: initial}); err != nil {
		return
	}

	// the reader only watches for close frames and pongs
	ws.SetReadLimit(512)
	_ = ws.SetReadDeadline(time.Now().Add(streamPongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(streamPongWait))
	})
	go func() {
		defer cancel()
		for {
			if _, _, err := ws.NextReader(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(streamPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = ws.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(streamWriteWait))
			return
		case table, ok := <-updates:
			if !ok {
				return
			}
			if err := h.send(ws, streamMessage{Type: "update", Data: table}); err != nil {
				return
			}
		case <-ticker.C:
			if err := ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(streamWriteWait)); err != nil {
				return
			}
		}
	}
}

func (h *ApplicantHandler) send(ws *websocket.Conn, msg streamMessage) error {
	_ = ws.SetWriteDeadline(time.Now().Add(streamWriteWait))
	if err := ws.WriteJSON(msg); err != nil {
		h.logger.Debug("websocket write failed", zap.Error(err))
		return err
	}
	return nil
}

// handleApplicantError maps review and application errors.
func (h *ApplicantHandler) handleApplicantError(c *gin.Context, err error) {
	var verr *review.ValidationError
	switch {
	case errors.As(err, &verr):
		code := codeRankInvalid
		if verr.Field == review.FieldComment {
			code = codeCommentTooLong
		}
		response.Unprocessable(c, code, verr.Message, gin.H{
			"applicant_id": verr.ApplicantID,
			"field":        verr.Field,
		})
	case errors.Is(err, review.ErrApplicantNotFound):
		response.NotFound(c, codeApplicantNotFound, "applicant not found")
	case errors.Is(err, service.ErrAlreadyApplied):
		response.Conflict(c, codeAlreadyApplied, "already applied for this course")
	case errors.Is(err, service.ErrInvalidSortKey):
		response.BadRequest(c, codeInvalidSortKey, "sort must be one of none, course, availability")
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 13001, "course not found")
	default:
		response.InternalError(c)
	}
}
