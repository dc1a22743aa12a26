package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/smallbiznis/feedbackrelay/internal/audit/domain"
	"github.com/smallbiznis/feedbackrelay/internal/observability/logger"
	"go.uber.org/zap"
)

type syncResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type webhookListResponse struct {
	Data []auditdomain.WebhookPayload `json:"data"`
}

func (s *Server) SyncForms(c *gin.Context) {
	ctx := c.Request.Context()
	n, err := s.catalogSvc.SyncFormDefinitions(ctx)
	if err != nil {
		logger.FromContext(ctx).Error("manual form definition sync failed", zap.Error(err))
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, syncResponse{
		Status:  "completed",
		Message: fmt.Sprintf("Synced %d feedback form definitions", n),
	})
}

func (s *Server) SyncInterviews(c *gin.Context) {
	ctx := c.Request.Context()
	n, err := s.catalogSvc.SyncInterviewTypes(ctx)
	if err != nil {
		logger.FromContext(ctx).Error("manual interview sync failed", zap.Error(err))
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, syncResponse{
		Status:  "completed",
		Message: fmt.Sprintf("Synced %d interviews", n),
	})
}

func (s *Server) SyncSlackUsers(c *gin.Context) {
	ctx := c.Request.Context()
	res, err := s.directorySvc.Sync(ctx)
	if err != nil {
		logger.FromContext(ctx).Error("manual slack user sync failed", zap.Error(err))
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, syncResponse{
		Status:  "completed",
		Message: fmt.Sprintf("Synced %d of %d slack users", res.Stored, res.Seen),
	})
}

func (s *Server) GetStats(c *gin.Context) {
	stats, err := s.adminSvc.Stats(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) ListWebhookPayloads(c *gin.Context) {
	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		limit = parsed
	}

	items, err := s.auditSvc.List(c.Request.Context(), auditdomain.ListRequest{
		ScheduleID: strings.TrimSpace(c.Query("schedule_id")),
		Limit:      limit,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, webhookListResponse{Data: items})
}
