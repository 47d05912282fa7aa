// Package attestation forwards order proofs to an external notary
// endpoint. Delivery is best effort; the order is committed before the
// proof leaves the process.
package attestation

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopyard/shopyard/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const keyHeader = "X-Attestation-Key"

// Proof is the payload forwarded to the notary.
type Proof struct {
	OrderNumber string `json:"order_number"`
	TenantID    string `json:"tenant_id"`
	TotalCents  int64  `json:"total_cents"`
	CreatedAt   string `json:"created_at"`
	Hash        string `json:"hash"`
}

// HashOrder derives the proof hash from the order's identifying fields.
// createdAt must be RFC3339 so the hash is reproducible from stored data.
func HashOrder(number string, totalCents int64, createdAt, email, tenantID string) string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%s|%d|%s|%s|%s", number, totalCents, createdAt, email, tenantID))
	return hex.EncodeToString(sum[:])
}

type Client struct {
	endpoint string
	key      string
	client   *http.Client
	log      *zap.Logger
}

func NewClient(cfg config.Config, log *zap.Logger) *Client {
	return &Client{
		endpoint: cfg.Attestation.Endpoint,
		key:      cfg.Attestation.Key,
		client:   &http.Client{Timeout: 5 * time.Second},
		log:      log.Named("attestation"),
	}
}

// Enabled reports whether an endpoint is configured.
func (c *Client) Enabled() bool {
	return c.endpoint != ""
}

func (c *Client) Submit(ctx context.Context, proof Proof) error {
	if !c.Enabled() {
		return nil
	}

	body, err := json.Marshal(proof)
	if err != nil {
		return fmt.Errorf("marshal proof: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.key != "" {
		req.Header.Set(keyHeader, c.key)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("submit proof: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("attestation endpoint returned %d", resp.StatusCode)
	}

	c.log.Debug("proof submitted", zap.String("order_number", proof.OrderNumber))
	return nil
}

var Module = fx.Module("attestation",
	fx.Provide(NewClient),
)
