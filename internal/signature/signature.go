// Package signature authenticates inbound webhook and interaction requests.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// HeaderAshby carries the tracking-system webhook signature.
	HeaderAshby = "Ashby-Signature"

	// HeaderSlackSignature and HeaderSlackTimestamp sign interaction callbacks.
	HeaderSlackSignature = "X-Slack-Signature"
	HeaderSlackTimestamp = "X-Slack-Request-Timestamp"

	prefix = "sha256="

	// SlackTolerance bounds how old a signed interaction request may be.
	SlackTolerance = 5 * time.Minute
)

// Expected returns "sha256=" followed by the hex HMAC-SHA256 of body under secret.
func Expected(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return prefix + hex.EncodeToString(mac.Sum(nil))
}

// Verify compares the full supplied string, prefix included, in constant time.
func Verify(secret string, body []byte, supplied string) bool {
	if supplied == "" || secret == "" {
		return false
	}
	return hmac.Equal([]byte(Expected(secret, body)), []byte(supplied))
}

// IsPing reports whether a decoded webhook is the connectivity check.
func IsPing(payload map[string]any) bool {
	if payload == nil {
		return false
	}
	if action, ok := payload["action"].(string); ok && action == "ping" {
		return true
	}
	if kind, ok := payload["type"].(string); ok && kind == "ping" {
		return true
	}
	return false
}

// VerifySlack checks a v0 request signature over "v0:{ts}:{body}".
func VerifySlack(secret, timestamp string, body []byte, supplied string, now time.Time) error {
	if secret == "" {
		return fmt.Errorf("signing secret not configured")
	}
	if timestamp == "" || supplied == "" {
		return ErrMissingSignature
	}
	ts, err := strconv.ParseInt(strings.TrimSpace(timestamp), 10, 64)
	if err != nil {
		return ErrInvalidTimestamp
	}
	age := now.Sub(time.Unix(ts, 0))
	if age < 0 {
		age = -age
	}
	if age > SlackTolerance {
		return ErrStaleTimestamp
	}

	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "v0:%s:", timestamp)
	mac.Write(body)
	expected := "v0=" + hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(supplied)) {
		return ErrInvalidSignature
	}
	return nil
}
