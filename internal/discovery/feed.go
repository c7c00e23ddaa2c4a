package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// Client fetches candidate token addresses for an owner from a third-party
// indexing API. The upstream is treated as an opaque source of addresses; an
// empty result is valid.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient builds a feed client. An empty baseURL disables discovery: every
// lookup returns an empty candidate list (the aggregator still checks the
// wrapped native-currency token).
func NewClient(baseURL string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
}

// feedToken accepts both bare address strings and {"address": ...} objects,
// so the upstream response shape can vary.
type feedToken struct {
	Address string
}

func (t *feedToken) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		t.Address = plain
		return nil
	}
	var obj struct {
		Address string `json:"address"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	t.Address = obj.Address
	return nil
}

type feedResponse struct {
	Tokens []feedToken `json:"tokens"`
}

// TokenAddresses returns the candidate token addresses for the owner.
// Addresses that do not parse are skipped, not fatal.
func (c *Client) TokenAddresses(ctx context.Context, owner common.Address) ([]common.Address, error) {
	if c.baseURL == "" {
		return nil, nil
	}

	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse feed url: %w", err)
	}
	query := endpoint.Query()
	query.Set("owner", owner.Hex())
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch token feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token feed status %d", resp.StatusCode)
	}

	var payload feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode token feed: %w", err)
	}

	addresses := make([]common.Address, 0, len(payload.Tokens))
	for _, item := range payload.Tokens {
		if !common.IsHexAddress(item.Address) {
			c.logger.Debug("skipping malformed feed address", zap.String("address", item.Address))
			continue
		}
		addresses = append(addresses, common.HexToAddress(item.Address))
	}

	return addresses, nil
}
