package fxrates

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/langowen/currency_converter/internal/entities"
	"github.com/pkg/errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type HTTPClient struct {
	client *http.Client
	url    string
	apiKey string
}

func NewHTTPClient(apiURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{},
		url:    apiURL,
		apiKey: apiKey,
	}
}

type latestResponse struct {
	Success   bool               `json:"success"`
	Base      string             `json:"base"`
	Timestamp int64              `json:"timestamp"`
	Rates     map[string]float64 `json:"rates"`
	Error     string             `json:"error"`
	// fxratesapi reports failures in "description" alongside "error".
	Description string `json:"description"`
}

// GetRates fetches one quote of every symbol against base.
func (c *HTTPClient) GetRates(ctx context.Context, base entities.Code, symbols []entities.Code) (*entities.Quote, error) {
	const op = "fxrates.GetRates"

	apiURL, err := c.getURL(base, symbols)
	if err != nil {
		return nil, errors.Wrap(wrapProvider(err), op)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, errors.Wrapf(wrapProvider(err), "%s: create request", op)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(wrapProvider(err), "%s: get", op)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(entities.ErrProvider, "%s: bad status: %s", op, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(wrapProvider(err), "%s: read body", op)
	}

	var result latestResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, errors.Wrapf(wrapProvider(err), "%s: json unmarshal", op)
	}

	if !result.Success {
		return nil, errors.Wrapf(entities.ErrProvider, "%s: api error: %s %s", op, result.Error, result.Description)
	}

	quoteBase := entities.Code(result.Base)
	if quoteBase == "" {
		quoteBase = base
	}
	if quoteBase != base {
		return nil, errors.Wrapf(entities.ErrProvider, "%s: asked for base %s, got %s", op, base, quoteBase)
	}

	rates := make(map[entities.Code]float64, len(result.Rates))
	for code, value := range result.Rates {
		rates[entities.Code(code)] = value
	}

	fetchedAt := time.Now()
	if result.Timestamp > 0 {
		fetchedAt = time.Unix(result.Timestamp, 0)
	}

	return &entities.Quote{
		Base:      quoteBase,
		Rates:     rates,
		FetchedAt: fetchedAt,
	}, nil
}

func (c *HTTPClient) getURL(base entities.Code, symbols []entities.Code) (string, error) {
	currencies := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if s != base {
			currencies = append(currencies, string(s))
		}
	}
	if len(currencies) == 0 {
		return "", fmt.Errorf("empty currency list for base %s", base)
	}

	u, err := url.Parse(c.url)
	if err != nil {
		return "", err
	}

	q := u.Query()
	q.Set("api_key", c.apiKey)
	q.Set("base", string(base))
	q.Set("currencies", strings.Join(currencies, ","))
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// wrapProvider tags err as a provider failure while keeping it matchable.
func wrapProvider(err error) error {
	return fmt.Errorf("%w: %w", entities.ErrProvider, err)
}
