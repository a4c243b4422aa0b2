package ratewatch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/easymove/remit/internal/fx"
)

// Source yields mid-market rates against USD for the currencies it
// knows about. Returned map keys are uppercase ISO-style codes.
type Source interface {
	Fetch(ctx context.Context) (map[string]decimal.Decimal, error)
	Name() string
}

// HTTPSource fetches rates from a JSON feed of the common
// exchange-rate-API shape: {"base":"USD","rates":{"EUR":0.85,...}}.
type HTTPSource struct {
	url    string
	client *http.Client
}

// NewHTTPSource creates an HTTP feed source.
func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &HTTPSource{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (s *HTTPSource) Name() string { return "feed" }

type feedResponse struct {
	Base  string                     `json:"base"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

// Fetch retrieves the feed. Feeds quote units of currency per USD, the
// same orientation the currency table uses.
func (s *HTTPSource) Fetch(ctx context.Context) (map[string]decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rate feed returned status %d", resp.StatusCode)
	}

	var body feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding rate feed: %w", err)
	}
	if body.Base != "" && !strings.EqualFold(body.Base, "USD") {
		return nil, fmt.Errorf("rate feed base %q is not USD", body.Base)
	}

	rates := make(map[string]decimal.Decimal, len(body.Rates)+1)
	for code, rate := range body.Rates {
		if rate.LessThanOrEqual(decimal.Zero) {
			continue
		}
		rates[strings.ToUpper(code)] = rate
	}
	rates["USD"] = decimal.NewFromInt(1)
	return rates, nil
}

// StaticSource serves the built-in currency table. Used as a fallback
// when no feed URL is configured.
type StaticSource struct {
	table *fx.Table
}

// NewStaticSource creates a source backed by the given table.
func NewStaticSource(table *fx.Table) *StaticSource {
	return &StaticSource{table: table}
}

func (s *StaticSource) Name() string { return "static" }

func (s *StaticSource) Fetch(ctx context.Context) (map[string]decimal.Decimal, error) {
	rates := make(map[string]decimal.Decimal)
	for _, code := range s.table.Codes() {
		rates[code] = s.table.RateOf(code)
	}
	return rates, nil
}
