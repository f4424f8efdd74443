package gate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

var _ Gate = new(httpGate)

type httpGate struct {
	client *http.Client
	url    string
}

func NewHttpGate(url string) *httpGate {
	return &httpGate{
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		url: url,
	}
}

func (g *httpGate) Check(ctx context.Context, usesAI bool) (Decision, error) {
	url := fmt.Sprintf("%s?ai=%t", g.url, usesAI)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Decision{}, err
	}
	res, err := g.client.Do(req)
	if err != nil {
		return Decision{}, err
	}
	defer res.Body.Close()
	if res.StatusCode >= 500 {
		return Decision{}, fmt.Errorf("gate unavailable, status %d", res.StatusCode)
	}
	var decision Decision
	if err := json.NewDecoder(res.Body).Decode(&decision); err != nil {
		return Decision{}, err
	}
	return decision, nil
}
