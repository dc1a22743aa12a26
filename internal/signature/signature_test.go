package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestVerify(t *testing.T) {
	secret := "whsec_test"
	body := []byte(`{"action":"interviewScheduleUpdate","data":{}}`)
	good := Expected(secret, body)

	if !Verify(secret, body, good) {
		t.Fatalf("expected valid signature")
	}

	tampered := append([]byte{}, body...)
	tampered[3] ^= 0x01
	if Verify(secret, tampered, good) {
		t.Fatalf("single byte change in body must fail")
	}
	if Verify(secret+"x", body, good) {
		t.Fatalf("different secret must fail")
	}
	if Verify("whsec_tesu", body, good) {
		t.Fatalf("single byte change in secret must fail")
	}
	if Verify(secret, body, strings.TrimPrefix(good, "sha256=")) {
		t.Fatalf("digest without prefix must fail")
	}
	if Verify(secret, body, "") {
		t.Fatalf("empty signature must fail")
	}
	if Verify(secret, body, strings.ToUpper(good)) {
		t.Fatalf("case altered signature must fail")
	}
}

func TestExpectedFormat(t *testing.T) {
	got := Expected("k", []byte("b"))
	if !strings.HasPrefix(got, "sha256=") || len(got) != len("sha256=")+64 {
		t.Fatalf("unexpected signature format %q", got)
	}
}

func TestIsPing(t *testing.T) {
	cases := []struct {
		payload map[string]any
		want    bool
	}{
		{map[string]any{"action": "ping"}, true},
		{map[string]any{"type": "ping"}, true},
		{map[string]any{"action": "interviewScheduleUpdate"}, false},
		{map[string]any{"action": "interviewScheduleUpdate", "ping": true}, false},
		{map[string]any{"action": 1}, false},
		{nil, false},
	}
	for i, tc := range cases {
		if got := IsPing(tc.payload); got != tc.want {
			t.Fatalf("case %d: IsPing = %v, want %v", i, got, tc.want)
		}
	}
}

func slackSign(secret, ts string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "v0:%s:", ts)
	mac.Write(body)
	return "v0=" + hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySlack(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ts := strconv.FormatInt(now.Unix(), 10)
	body := []byte("payload=%7B%7D")
	sig := slackSign("shh", ts, body)

	if err := VerifySlack("shh", ts, body, sig, now); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
	if err := VerifySlack("shh", ts, body, sig, now.Add(6*time.Minute)); !errors.Is(err, ErrStaleTimestamp) {
		t.Fatalf("expected stale timestamp, got %v", err)
	}
	if err := VerifySlack("shh", ts, []byte("payload=x"), sig, now); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected invalid signature, got %v", err)
	}
	if err := VerifySlack("shh", "", body, sig, now); !errors.Is(err, ErrMissingSignature) {
		t.Fatalf("expected missing signature, got %v", err)
	}
	if err := VerifySlack("shh", "abc", body, sig, now); !errors.Is(err, ErrInvalidTimestamp) {
		t.Fatalf("expected invalid timestamp, got %v", err)
	}
}
