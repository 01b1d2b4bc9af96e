package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rafiql/voice-session-service/src/models"
	"github.com/rafiql/voice-session-service/src/schemas"
	"github.com/rafiql/voice-session-service/src/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SessionController exposes the session lifecycle over HTTP
type SessionController struct {
	Service *service.SessionService
	Logger  *logrus.Logger
}

func NewSessionController(service *service.SessionService, logger *logrus.Logger) *SessionController {
	return &SessionController{
		Service: service,
		Logger:  logger,
	}
}

func (c *SessionController) sendError(ctx *gin.Context, errResp *schemas.ErrorResponse) {
	ctx.JSON(errResp.Status, errResp)
	c.Logger.Error(errResp.Title + ": " + errResp.Detail)
}

// @Summary Create session
// @Description Starts tracking a new voice-call session with status active
// @Tags sessions
// @Accept json
// @Produce json
// @Param CreateSessionRequest body schemas.CreateSessionRequest true "Create Session Request"
// @Success 200 {object} schemas.SessionResponse
// @Failure 400 {object} schemas.ErrorResponse
// @Failure 500 {object} schemas.ErrorResponse
// @Router /sessions [post]
func (c *SessionController) Create(ctx *gin.Context) {
	var req schemas.CreateSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.sendError(ctx, schemas.NewBadRequestError("Invalid JSON format: "+err.Error(), "/sessions"))
		return
	}

	session, err := c.Service.Create(ctx.Request.Context(), req.CallerPhone, req.BusinessID, req.AIConfig)
	if err != nil {
		c.sendError(ctx, schemas.NewInternalError(err.Error(), "/sessions"))
		return
	}

	ctx.JSON(http.StatusOK, schemas.NewSessionResponse(session))
}

// @Summary Get session
// @Description Fetches one session by id
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} schemas.SessionResponse
// @Failure 404 {object} schemas.ErrorResponse
// @Failure 500 {object} schemas.ErrorResponse
// @Router /sessions/{id} [get]
func (c *SessionController) Get(ctx *gin.Context) {
	id := ctx.Param("id")
	instance := "/sessions/" + id

	session, err := c.Service.Get(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrSessionNotFound) {
			c.sendError(ctx, schemas.NewNotFoundError(fmt.Sprintf("session with ID %s not found", id), instance))
			return
		}
		c.sendError(ctx, schemas.NewInternalError(err.Error(), instance))
		return
	}

	ctx.JSON(http.StatusOK, schemas.NewSessionResponse(session))
}

// @Summary List sessions
// @Description Lists sessions ordered by id ascending, with conjunctive filters and keyset pagination
// @Tags sessions
// @Produce json
// @Param business_id query string false "Filter by business id"
// @Param status query string false "Filter by status"
// @Param cursor query string false "Exclusive lower bound on id"
// @Param limit query int false "Page size, max 50" default(10)
// @Success 200 {array} schemas.SessionResponse
// @Failure 400 {object} schemas.ErrorResponse
// @Failure 500 {object} schemas.ErrorResponse
// @Router /sessions [get]
func (c *SessionController) List(ctx *gin.Context) {
	filter := service.ListFilter{
		BusinessID: ctx.Query("business_id"),
		Cursor:     ctx.Query("cursor"),
		Limit:      service.DefaultListLimit,
	}

	if raw := ctx.Query("status"); raw != "" {
		status, err := models.ParseStatus(raw)
		if err != nil {
			c.sendError(ctx, schemas.InvalidStatusError("Invalid status: "+raw, "/sessions"))
			return
		}
		filter.Status = status
	}

	if raw := ctx.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > service.MaxListLimit {
			c.sendError(ctx, schemas.NewBadRequestError(
				fmt.Sprintf("limit must be an integer between 1 and %d", service.MaxListLimit), "/sessions"))
			return
		}
		filter.Limit = limit
	}

	sessions, err := c.Service.List(ctx.Request.Context(), filter)
	if err != nil {
		c.sendError(ctx, schemas.NewInternalError(err.Error(), "/sessions"))
		return
	}

	ctx.JSON(http.StatusOK, schemas.NewSessionListResponse(sessions))
}

// @Summary Update session status
// @Description Moves a session to a new status; transitions are unrestricted but the status must be a known value
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param UpdateStatusRequest body schemas.UpdateStatusRequest true "Update Status Request"
// @Success 200 {object} schemas.SessionResponse
// @Failure 400 {object} schemas.ErrorResponse
// @Failure 404 {object} schemas.ErrorResponse
// @Failure 500 {object} schemas.ErrorResponse
// @Router /sessions/{id}/status [patch]
func (c *SessionController) UpdateStatus(ctx *gin.Context) {
	id := ctx.Param("id")
	instance := "/sessions/" + id + "/status"

	var req schemas.UpdateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.sendError(ctx, schemas.NewBadRequestError("Invalid JSON format: "+err.Error(), instance))
		return
	}

	status, err := models.ParseStatus(req.Status)
	if err != nil {
		c.sendError(ctx, schemas.InvalidStatusError("Invalid status: "+req.Status, instance))
		return
	}

	session, err := c.Service.UpdateStatus(ctx.Request.Context(), id, status)
	if err != nil {
		if errors.Is(err, models.ErrSessionNotFound) {
			c.sendError(ctx, schemas.NewNotFoundError(fmt.Sprintf("session with ID %s not found", id), instance))
			return
		}
		c.sendError(ctx, schemas.NewInternalError(err.Error(), instance))
		return
	}

	ctx.JSON(http.StatusOK, schemas.NewSessionResponse(session))
}

// @Summary End session
// @Description Terminates a session, records outcome and summary, and emits a call.completed event
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param EndSessionRequest body schemas.EndSessionRequest true "End Session Request"
// @Success 200 {object} schemas.SessionResponse
// @Failure 400 {object} schemas.ErrorResponse
// @Failure 404 {object} schemas.ErrorResponse
// @Failure 500 {object} schemas.ErrorResponse
// @Router /sessions/{id}/end [post]
func (c *SessionController) End(ctx *gin.Context) {
	id := ctx.Param("id")
	instance := "/sessions/" + id + "/end"

	var req schemas.EndSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.sendError(ctx, schemas.NewBadRequestError("Invalid JSON format: "+err.Error(), instance))
		return
	}

	session, err := c.Service.End(ctx.Request.Context(), id, req.Outcome, req.Summary)
	if err != nil {
		if errors.Is(err, models.ErrSessionNotFound) {
			c.sendError(ctx, schemas.NewNotFoundError(fmt.Sprintf("session with ID %s not found", id), instance))
			return
		}
		c.sendError(ctx, schemas.NewInternalError(err.Error(), instance))
		return
	}

	ctx.JSON(http.StatusOK, schemas.NewSessionResponse(session))
}
