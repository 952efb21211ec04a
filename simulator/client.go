package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/romainsacchi/carculator/api"
	"github.com/romainsacchi/carculator/core/model"
)

type apiClient struct {
	base  string
	token string
	http  *http.Client
}

func newAPIClient(base, token string, timeout time.Duration) *apiClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &apiClient{
		base:  strings.TrimSuffix(base, "/"),
		token: token,
		http:  &http.Client{Timeout: timeout},
	}
}

// Calculate posts one fleet and returns the per-vehicle outcomes. A 422
// still carries a full response body, so it is not an error here.
func (c *apiClient) Calculate(ctx context.Context, country string, fleet []model.Request) (*api.CalculationResponse, error) {
	body, err := json.Marshal(api.CalculationRequest{Country: country, Fleet: fleet})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/api/v1/calculations", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusUnprocessableEntity {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	var out api.CalculationResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

func tally(res *api.CalculationResponse) (accepted, rejected int) {
	for _, r := range res.Results {
		if r.Error == "" {
			accepted++
		} else {
			rejected++
		}
	}
	return accepted, rejected
}
