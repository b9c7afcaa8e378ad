package photo

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"pnodev/internal/core/apperror"
	"pnodev/pkg/logger"
)

// DefaultPexelsURL is the Pexels API root.
const DefaultPexelsURL = "https://api.pexels.com/v1/"

// defaultMaxPage bounds the random curated page.
const defaultMaxPage = 100

// Pexels fetches a random curated photo from the Pexels API.
type Pexels struct {
	baseURL string
	apiKey  string
	client  *http.Client
	maxPage int

	mu  sync.Mutex
	rng *rand.Rand
}

// PexelsOption configures the client.
type PexelsOption func(*Pexels)

// WithBaseURL points the client at another server (tests).
func WithBaseURL(u string) PexelsOption {
	return func(p *Pexels) { p.baseURL = u }
}

// WithHTTPClient replaces the instrumented default client.
func WithHTTPClient(c *http.Client) PexelsOption {
	return func(p *Pexels) { p.client = c }
}

// WithRand makes page selection reproducible.
func WithRand(rng *rand.Rand) PexelsOption {
	return func(p *Pexels) { p.rng = rng }
}

// WithMaxPage bounds the random page number.
func WithMaxPage(n int) PexelsOption {
	return func(p *Pexels) {
		if n > 0 {
			p.maxPage = n
		}
	}
}

// NewPexels creates a client authenticated with apiKey.
func NewPexels(apiKey string, opts ...PexelsOption) *Pexels {
	p := &Pexels{
		baseURL: DefaultPexelsURL,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout:   15 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		maxPage: defaultMaxPage,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type curatedResponse struct {
	Page   int `json:"page"`
	Photos []struct {
		ID  int64 `json:"id"`
		Src struct {
			Original string `json:"original"`
			Large    string `json:"large"`
		} `json:"src"`
	} `json:"photos"`
}

// RandomImage returns the original-size URL of one curated photo. query is
// unused by the curated endpoint.
func (p *Pexels) RandomImage(ctx context.Context, _ string) (string, error) {
	p.mu.Lock()
	page := p.rng.Intn(p.maxPage) + 1
	p.mu.Unlock()

	endpoint, err := url.JoinPath(p.baseURL, "curated")
	if err != nil {
		return "", apperror.NewProvider("pexels", err)
	}
	q := url.Values{}
	q.Set("per_page", "1")
	q.Set("page", strconv.Itoa(page))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return "", apperror.NewProvider("pexels", err)
	}
	req.Header.Set("Authorization", p.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", apperror.NewProvider("pexels", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apperror.NewProvider("pexels", fmt.Errorf("unexpected status %d", resp.StatusCode)).
			WithDetail("page", page)
	}

	var body curatedResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", apperror.NewProvider("pexels", fmt.Errorf("decode response: %w", err))
	}
	if len(body.Photos) == 0 {
		return "", apperror.NewProvider("pexels", fmt.Errorf("no photos on page %d", page))
	}

	src := body.Photos[0].Src.Original
	if src == "" {
		src = body.Photos[0].Src.Large
	}
	logger.Debug(ctx, "pexels photo selected", "page", page, "photo_id", body.Photos[0].ID)
	return src, nil
}
