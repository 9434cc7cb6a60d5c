package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
)

const (
	CoinGecko = "COINGECKO"
)

// BaseProvider contains common fields and methods for external HTTP providers.
type BaseProvider struct {
	Name    string
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// MakeRequest issues an HTTP request with JSON body handling and provider auth.
func (p *BaseProvider) MakeRequest(ctx context.Context, method, url string, body interface{}, extraHeaders map[string]string) (*http.Response, error) {
	var req *http.Request
	var err error

	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		req, err = http.NewRequestWithContext(ctx, method, url, bytes.NewBuffer(jsonBody))
		if err != nil {
			return nil, err
		}
	} else {
		req, err = http.NewRequestWithContext(ctx, method, url, nil)
	}

	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if p.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.APIKey)
	}
	// Allows for overwriting pre-set keys
	for k, v := range extraHeaders {
		req.Header.Set(k, v)
	}

	return p.Client.Do(req)
}
