package ratelimit

import (
	"context"
	"fmt"
	"strings"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/feedbackrelay/internal/config"
)

const keyWebhookClient = "feedbackrelay:webhook:%s"

// WebhookLimiter bounds inbound webhooks per client. A nil or disabled
// limiter allows everything.
type WebhookLimiter struct {
	bucket *TokenBucket
	rate   float64
	burst  int
}

func NewWebhookLimiter(cfg config.Config, client *redis.Client) *WebhookLimiter {
	perMinute := cfg.RateLimit.WebhookPerMinute
	if client == nil || perMinute <= 0 {
		return nil
	}
	return &WebhookLimiter{
		bucket: NewTokenBucket(client),
		rate:   float64(perMinute) / 60,
		burst:  perMinute,
	}
}

func (l *WebhookLimiter) Enabled() bool {
	return l != nil && l.bucket != nil
}

func (l *WebhookLimiter) Allow(ctx context.Context, clientKey string) (*RateLimitResult, error) {
	if !l.Enabled() {
		return &RateLimitResult{Allowed: true}, nil
	}
	clientKey = strings.TrimSpace(clientKey)
	if clientKey == "" {
		clientKey = "unknown"
	}
	return l.bucket.Allow(ctx, fmt.Sprintf(keyWebhookClient, clientKey), l.rate, l.burst)
}
