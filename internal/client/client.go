// Package client talks to a running converter over its local channel.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"github.com/langowen/currency_converter/internal/currency_converter/service"
	"github.com/langowen/currency_converter/internal/entities"
	"github.com/pkg/errors"
	"io"
	"net"
	"net/http"
	"time"
)

// ErrUnavailable means the service could not be reached.
var ErrUnavailable = errors.New("service not available")

// ResponseError carries the "error" field of a service response.
type ResponseError struct {
	StatusCode int
	Message    string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("service error (%d): %s", e.StatusCode, e.Message)
}

type Client struct {
	http    *http.Client
	baseURL string
}

// New dials network/address for every request, e.g. ("unix", "/tmp/currency_converter.sock")
// or ("tcp", "127.0.0.1:5555").
func New(network, address string, timeout time.Duration) *Client {
	transport := &http.Transport{
		DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, network, address)
		},
	}

	return &Client{
		http:    &http.Client{Transport: transport, Timeout: timeout},
		baseURL: "http://currency-converter",
	}
}

type request struct {
	Action service.Action `json:"action"`
	Data   any            `json:"data,omitempty"`
}

func (c *Client) ConvertCurrency(ctx context.Context, source, target string, amount float64) (*service.ConvertResult, error) {
	var out service.ConvertResult
	err := c.send(ctx, service.ActionConvert, map[string]any{
		"source_currency": source,
		"target_currency": target,
		"amount":          amount,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetExchangeRates(ctx context.Context, code string) (map[entities.Code]float64, error) {
	var out map[entities.Code]float64
	if err := c.send(ctx, service.ActionRates, map[string]any{"currency_code": code}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetSupportedCurrencies(ctx context.Context) (map[entities.Code]string, error) {
	var out map[entities.Code]string
	if err := c.send(ctx, service.ActionSupported, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Send issues a raw action, returning the undecoded response body.
func (c *Client) Send(ctx context.Context, action string, data any) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.send(ctx, service.Action(action), data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) send(ctx context.Context, action service.Action, data any, out any) error {
	const op = "client.send"

	body, err := json.Marshal(request{Action: action, Data: data})
	if err != nil {
		return errors.Wrap(err, op)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/", bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, op)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(ErrUnavailable, "%s: %v", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, op)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(raw, &errResp); err != nil || errResp.Error == "" {
			errResp.Error = resp.Status
		}
		return &ResponseError{StatusCode: resp.StatusCode, Message: errResp.Error}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Wrap(err, op)
	}

	return nil
}
