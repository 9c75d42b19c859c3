// Package dictionary validates guesses against an external dictionary API.
// Lookups fail open: when the API cannot answer, the word is accepted so a
// flaky network never blocks play.
package dictionary

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// DefaultBaseURL is the free dictionary API used when none is configured.
const DefaultBaseURL = "https://api.dictionaryapi.dev/api/v2/entries/en"

// Client checks words against a dictionary HTTP API, caching verdicts
// per process. Concurrent checks of the same word share one request.
type Client struct {
	baseURL string
	hc      *http.Client
	log     zerolog.Logger

	mu    sync.Mutex
	cache map[string]bool

	group singleflight.Group
}

// New builds a client. An empty baseURL selects DefaultBaseURL.
func New(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: timeout},
		log:     log,
		cache:   make(map[string]bool),
	}
}

type verdict struct {
	valid     bool
	cacheable bool
}

// Check reports whether word is a real five-letter word. Definitive answers
// (known word, unknown word, wrong shape) are cached; transport failures are
// accepted without caching so a later check can retry.
func (c *Client) Check(ctx context.Context, word string) bool {
	key := strings.ToUpper(strings.TrimSpace(word))

	c.mu.Lock()
	if valid, ok := c.cache[key]; ok {
		c.mu.Unlock()
		return valid
	}
	c.mu.Unlock()

	if len(key) != 5 {
		c.store(key, false)
		return false
	}

	v, _, _ := c.group.Do(key, func() (interface{}, error) {
		return c.lookup(ctx, key), nil
	})
	res := v.(verdict)
	if res.cacheable {
		c.store(key, res.valid)
	}
	return res.valid
}

func (c *Client) lookup(ctx context.Context, word string) verdict {
	url := fmt.Sprintf("%s/%s", c.baseURL, strings.ToLower(word))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		c.log.Warn().Err(err).Str("word", word).Msg("dictionary request build failed, accepting word")
		return verdict{valid: true}
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("word", word).Msg("dictionary lookup failed, accepting word")
		return verdict{valid: true}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return verdict{valid: true, cacheable: true}
	case resp.StatusCode == http.StatusNotFound:
		return verdict{valid: false, cacheable: true}
	default:
		c.log.Warn().Int("status", resp.StatusCode).Str("word", word).Msg("dictionary returned unexpected status, accepting word")
		return verdict{valid: true}
	}
}

func (c *Client) store(word string, valid bool) {
	c.mu.Lock()
	c.cache[word] = valid
	c.mu.Unlock()
}
