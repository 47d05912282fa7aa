// Package webhook delivers signed event payloads to tenant-configured
// endpoints.
package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// SignatureHeader carries the hex HMAC-SHA256 of the request body keyed
// by the tenant's webhook secret.
const SignatureHeader = "X-Shopyard-Signature"

type Sender struct {
	client *http.Client
	log    *zap.Logger
}

func NewSender(log *zap.Logger) *Sender {
	return &Sender{
		client: &http.Client{Timeout: 12 * time.Second},
		log:    log.Named("webhook"),
	}
}

// Send posts payload as JSON to url, signing the body when secret is
// non-empty. Non-2xx responses are errors so the dispatcher logs them.
func (s *Sender) Send(ctx context.Context, url, secret string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.Header.Set(SignatureHeader, Sign(body, secret))
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook endpoint returned %d", resp.StatusCode)
	}

	s.log.Debug("webhook delivered", zap.String("url", url), zap.Int("status", resp.StatusCode))
	return nil
}

// Sign computes the hex HMAC-SHA256 of body.
func Sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature compares a received signature against the expected one
// in constant time.
func VerifySignature(body []byte, secret, signature string) bool {
	return hmac.Equal([]byte(Sign(body, secret)), []byte(signature))
}
