// Package httpclient holds the outbound adapters for the two external
// collaborators: the reward-token value ledger and the claim registry. Both
// speak plain JSON over HTTP and surface failures as errors for the
// application layer to classify.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/domain/entities"
	"github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/ports"
)

const errorBodyLimit = 4096

// LedgerClient implements ports.ValueLedger against the ledger service's
// HTTP API.
type LedgerClient struct {
	baseURL string
	client  *http.Client
}

func NewLedgerClient(baseURL string, client *http.Client) *LedgerClient {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &LedgerClient{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client:  client,
	}
}

func (c *LedgerClient) Transfer(ctx context.Context, fromAccount string, toAccount string, amount uint64) error {
	body, err := json.Marshal(transferRequest{
		FromAccount: fromAccount,
		ToAccount:   toAccount,
		Amount:      amount,
	})
	if err != nil {
		return fmt.Errorf("marshal ledger transfer: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transfers", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build ledger transfer request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("ledger transfer request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return fmt.Errorf("ledger transfer returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}

type transferRequest struct {
	FromAccount string `json:"from_account"`
	ToAccount   string `json:"to_account"`
	Amount      uint64 `json:"amount"`
}

// RegistryClient implements ports.ClaimRegistry against the claim registry's
// HTTP API.
type RegistryClient struct {
	baseURL string
	client  *http.Client
}

func NewRegistryClient(baseURL string, client *http.Client) *RegistryClient {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &RegistryClient{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client:  client,
	}
}

func (c *RegistryClient) SetClaimStatus(ctx context.Context, claimID string, status entities.ClaimStatus) error {
	body, err := json.Marshal(claimStatusRequest{Status: string(status)})
	if err != nil {
		return fmt.Errorf("marshal claim status: %w", err)
	}
	endpoint := c.baseURL + "/claims/" + url.PathEscape(strings.TrimSpace(claimID)) + "/status"
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build claim status request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("claim status request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return fmt.Errorf("claim status returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}

type claimStatusRequest struct {
	Status string `json:"status"`
}

var _ ports.ValueLedger = (*LedgerClient)(nil)
var _ ports.ClaimRegistry = (*RegistryClient)(nil)
