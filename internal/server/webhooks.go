package server

import (
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/feedbackrelay/internal/apperr"
	interactiondomain "github.com/smallbiznis/feedbackrelay/internal/interaction/domain"
	"github.com/smallbiznis/feedbackrelay/internal/observability/logger"
	"github.com/smallbiznis/feedbackrelay/internal/signature"
	webhookdomain "github.com/smallbiznis/feedbackrelay/internal/webhook/domain"
	"go.uber.org/zap"
)

// HandleAshbyWebhook acknowledges pings with 200 and every processed or
// ignored event with 204.
func (s *Server) HandleAshbyWebhook(c *gin.Context) {
	body, err := readBody(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	result, err := s.webhookSvc.Ingest(c.Request.Context(), body, c.GetHeader(signature.HeaderAshby))
	if result.Action != "" {
		c.Set("webhook_action", result.Action)
	}
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if result.Outcome == webhookdomain.OutcomePing {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}
	c.Status(http.StatusNoContent)
}

// HandleSlackInteraction answers 200 for every well-formed callback; the
// actual work happens out of band.
func (s *Server) HandleSlackInteraction(c *gin.Context) {
	ctx := c.Request.Context()
	body, err := readBody(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if secret := s.cfg.Slack.SigningSecret; secret != "" {
		if err := signature.VerifySlack(
			secret,
			c.GetHeader(signature.HeaderSlackTimestamp),
			body,
			c.GetHeader(signature.HeaderSlackSignature),
			s.clock.Now(),
		); err != nil {
			AbortWithError(c, apperr.Authentication("server.HandleSlackInteraction", err))
			return
		}
	}

	form, err := url.ParseQuery(string(body))
	if err != nil {
		AbortWithError(c, apperr.MalformedInput("server.HandleSlackInteraction", err))
		return
	}
	payload, err := interactiondomain.ParsePayload(form.Get("payload"))
	if err != nil {
		AbortWithError(c, apperr.MalformedInput("server.HandleSlackInteraction", err))
		return
	}
	c.Set("interaction_type", payload.Type)

	if err := s.interactionSvc.Handle(ctx, payload); err != nil {
		logger.FromContext(ctx).Warn("interaction handling failed",
			zap.String("interaction_type", payload.Type),
			zap.Error(err),
		)
	}
	c.Status(http.StatusOK)
}

func readBody(c *gin.Context) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, apperr.MalformedInput("server.readBody", errors.New("request body too large"))
		}
		return nil, apperr.MalformedInput("server.readBody", err)
	}
	return body, nil
}
