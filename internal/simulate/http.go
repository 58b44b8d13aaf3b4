package simulate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// HTTP status codes the simulator cares about.
const (
	statusOK       = 200
	statusAccepted = 202
)

// HTTPClient wraps http.Client with timeout.
type HTTPClient struct {
	client *http.Client
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body.
func (c *HTTPClient) Post(ctx context.Context, url string, body any) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// readResponseBody reads and closes the response body.
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// submitSettlements submits settlements concurrently using a worker pool.
func submitSettlements(ctx context.Context, cfg *Config, settlements []Settlement, stats *Stats) error {
	log.Printf("submitting %d settlements with %d workers...", len(settlements), cfg.Workers)

	client := newHTTPClient(cfg.Timeout)
	url := cfg.BaseURL + "/settlements"

	var (
		accepted  int64
		duplicate int64
		failed    int64
		submitted int64
	)

	settlementChan := make(chan Settlement, cfg.Workers*2)
	var wg sync.WaitGroup

	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for s := range settlementChan {
				select {
				case <-ctx.Done():
					return
				default:
				}
				result := submitSingleSettlement(ctx, client, url, s)

				atomic.AddInt64(&submitted, 1)
				switch result {
				case "accepted":
					atomic.AddInt64(&accepted, 1)
				case "duplicate":
					atomic.AddInt64(&duplicate, 1)
				default:
					atomic.AddInt64(&failed, 1)
				}

				if cfg.Verbose {
					total := atomic.LoadInt64(&submitted)
					if total%500 == 0 {
						log.Printf("progress: %d/%d submitted (accepted: %d, duplicate: %d, failed: %d)",
							total, len(settlements),
							atomic.LoadInt64(&accepted), atomic.LoadInt64(&duplicate), atomic.LoadInt64(&failed))
					}
				}
			}
		}()
	}

	go func() {
		defer close(settlementChan)
		for _, s := range settlements {
			select {
			case <-ctx.Done():
				return
			case settlementChan <- s:
			}
		}
	}()

	wg.Wait()

	stats.SettlementsSubmitted = int(atomic.LoadInt64(&submitted))
	stats.SettlementsAccepted = int(atomic.LoadInt64(&accepted))
	stats.SettlementsDuplicate = int(atomic.LoadInt64(&duplicate))
	stats.SettlementsFailed = int(atomic.LoadInt64(&failed))

	log.Printf("settlement submission completed: accepted=%d duplicate=%d failed=%d",
		stats.SettlementsAccepted, stats.SettlementsDuplicate, stats.SettlementsFailed)
	return nil
}

// submitSingleSettlement submits one settlement and classifies the outcome.
func submitSingleSettlement(ctx context.Context, client *HTTPClient, url string, s Settlement) string {
	resp, err := client.Post(ctx, url, s)
	if err != nil {
		return "failed"
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return "failed"
	}

	switch resp.StatusCode {
	case statusAccepted:
		return "accepted"
	case statusOK:
		var ack AckResponse
		if err := json.Unmarshal(body, &ack); err == nil && ack.Duplicate {
			return "duplicate"
		}
		return "duplicate"
	default:
		return "failed"
	}
}
