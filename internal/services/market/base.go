package market

import (
	"context"
	"fmt"
	"time"

	xhttp "CryptoDash/pkg/http"
)

const defaultTimeout = 4 * time.Second

// httpBase holds the shared plumbing of the market data clients.
type httpBase struct {
	name     string
	baseURL  string
	headers  map[string]string
	attempts int
	client   *xhttp.Client
}

func newHTTPBase(name, baseURL string, timeout time.Duration, attempts int, headers map[string]string) *httpBase {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if attempts < 1 {
		attempts = 1
	}
	return &httpBase{
		name:     name,
		baseURL:  baseURL,
		headers:  headers,
		attempts: attempts,
		client:   xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

func (b *httpBase) getJSON(ctx context.Context, path string, query map[string][]string, dest interface{}) error {
	if b.client == nil || b.baseURL == "" {
		return fmt.Errorf("%s client not initialized", b.name)
	}
	err := b.client.GetJSON(ctx, &xhttp.RequestOptions{
		URL:         b.baseURL + path,
		Headers:     b.headers,
		QueryParams: query,
	}, dest)
	if err != nil {
		return fmt.Errorf("%s get %s: %w", b.name, path, err)
	}
	return nil
}

// getJSONWithRetry retries transient failures with a linear backoff while the
// context allows it.
func (b *httpBase) getJSONWithRetry(ctx context.Context, path string, query map[string][]string, dest interface{}) error {
	var err error
	for i := 1; i <= b.attempts; i++ {
		err = b.getJSON(ctx, path, query, dest)
		if err == nil || i == b.attempts {
			break
		}
		select {
		case <-time.After(time.Duration(i) * 100 * time.Millisecond):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}
