package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"fxconvert/internal/domain"
)

type ExchangeRateClient struct {
	http    *http.Client
	baseURL string
}

type pairResponse struct {
	Result         string   `json:"result"`
	ConversionRate *float64 `json:"conversion_rate"`
	ErrorType      string   `json:"error-type"`
}

// GetPairRate fetches the unit rate for from/to. Failures wrap the upstream errors
// declared in the domain package.
func (c *ExchangeRateClient) GetPairRate(ctx context.Context, from string, to string) (float64, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return 0, fmt.Errorf("failed to parse base URL: %w", err)
	}

	u.Path = strings.TrimSuffix(u.Path, "/") + "/pair/" + url.PathEscape(from) + "/" + url.PathEscape(to)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request for pair %q/%q: %w", from, to, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// *url.Error embeds the request URL, which contains the API key.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return 0, fmt.Errorf("failed to execute request for pair %q/%q: %w: %w", from, to, domain.ErrUpstreamUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("unexpected status for pair %q/%q: %w", from, to, &domain.UpstreamStatusError{StatusCode: resp.StatusCode})
	}

	var body pairResponse
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("failed to decode response for pair %q/%q: %w", from, to, err)
	}

	if body.Result != "success" {
		return 0, fmt.Errorf("api returned non-success result for pair %q/%q: %w", from, to,
			&domain.UpstreamResultError{Result: body.Result, ErrorType: body.ErrorType})
	}

	if body.ConversionRate == nil {
		return 0, fmt.Errorf("pair %q/%q: %w", from, to, domain.ErrRateUnavailable)
	}

	return *body.ConversionRate, nil
}

// NewExchangeRateClient expects baseURL to already carry the API key,
// e.g. https://v6.exchangerate-api.com/v6/<key>.
func NewExchangeRateClient(httpClient *http.Client, baseURL string) *ExchangeRateClient {
	return &ExchangeRateClient{http: httpClient, baseURL: baseURL}
}
