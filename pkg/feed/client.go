// Package feed holds the client side of the feed observer contract. The
// observer pushes entry batches into the ingest endpoint on its own; this
// client only covers the reverse direction, the "re-scrape now" hook.
package feed

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

// Trigger asks the observer to re-scrape the journal immediately.
type Trigger interface {
	Trigger(ctx context.Context) error
}

type Client struct {
	triggerURL string
	httpClient *http.Client
	log        *zap.SugaredLogger
}

func NewClient(triggerURL string, timeout time.Duration) *Client {
	return &Client{
		triggerURL: triggerURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        zap.S().Named("feed_client"),
	}
}

// Trigger fires the observer hook. Transient failures are retried; the
// observer tolerates duplicate triggers the same way the pipeline tolerates
// duplicate batches.
func (c *Client) Trigger(ctx context.Context) error {
	operation := func() (struct{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.triggerURL, nil)
		if err != nil {
			return struct{}{}, backoff.Permanent(err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return struct{}{}, err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError {
			return struct{}{}, fmt.Errorf("observer returned %d", resp.StatusCode)
		}
		if resp.StatusCode >= http.StatusBadRequest {
			return struct{}{}, backoff.Permanent(fmt.Errorf("observer returned %d", resp.StatusCode))
		}
		return struct{}{}, nil
	}

	_, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxElapsedTime(time.Minute),
	)
	if err != nil {
		return err
	}

	c.log.Debug("observer re-scrape triggered")
	return nil
}
