// Package gamestate talks to the live game-state collaborator that exposes
// the authoritative per-location visit counts. The snapshot is only available
// in certain viewing contexts; callers fall back to cached aggregation when
// the client is absent or the fetch fails.
package gamestate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.SugaredLogger
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        zap.S().Named("gamestate_client"),
	}
}

// Snapshot fetches the current per-location primary counts. Transient errors
// (network, 5xx) are retried with exponential backoff; client errors abort.
func (c *Client) Snapshot(ctx context.Context) (map[string]int, error) {
	operation := func() (map[string]int, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/destinations", nil)
		if err != nil {
			return nil, backoff.Permanent(err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode >= http.StatusInternalServerError:
			return nil, fmt.Errorf("game state returned %d", resp.StatusCode)
		case resp.StatusCode != http.StatusOK:
			return nil, backoff.Permanent(fmt.Errorf("game state returned %d", resp.StatusCode))
		}

		var counts map[string]int
		if err := json.NewDecoder(resp.Body).Decode(&counts); err != nil {
			return nil, backoff.Permanent(fmt.Errorf("failed to decode game state snapshot: %w", err))
		}
		return counts, nil
	}

	counts, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxElapsedTime(30*time.Second),
	)
	if err != nil {
		return nil, err
	}

	c.log.Debugw("fetched live snapshot", "locations", len(counts))
	return counts, nil
}
