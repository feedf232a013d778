package sisu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/sisugv/sisugv/pkg/buildinfo"
	"github.com/sisugv/sisugv/pkg/cache"
	"github.com/sisugv/sisugv/pkg/observability"
)

const (
	// DefaultBaseURL is the public Sisu API of Tampere University.
	DefaultBaseURL = "https://sis-tuni.funidata.fi/kori/api"

	// DefaultUniversityID scopes group lookups to Tampere University.
	DefaultUniversityID = "tuni-university-root-id"

	httpTimeout       = 30 * time.Second
	defaultRetryDelay = time.Second
	memoSize          = 2048
	maxBodySize       = 32 << 20
)

// Cache namespaces, also reported to the cache hooks.
const (
	nsModule     = "module"
	nsModuleGrp  = "module-group"
	nsCourseUnit = "course-unit"
)

// Config configures a [Client]. The zero value talks to the default API
// without persistent caching or retries.
type Config struct {
	BaseURL          string        // API root, default DefaultBaseURL
	UniversityID     string        // default DefaultUniversityID
	CurriculumPrefix string        // curriculum period prefix, default "uta-lvv"
	Language         string        // preferred name language, falls back to fi then en
	Cache            cache.Cache   // response cache, default NullCache
	TTL              time.Duration // cache entry lifetime, default cache.DefaultTTL
	Refresh          bool          // skip cache reads
	Retries          int           // extra attempts for transient failures
	RetryDelay       time.Duration // initial backoff, doubled per attempt
	HTTPClient       *http.Client
	Logger           *log.Logger
}

// Client fetches curricula from the Sisu API.
//
// Responses are stored as raw JSON in the configured cache and decoded
// values are memoized in memory for the lifetime of the client.
type Client struct {
	http         *http.Client
	baseURL      string
	universityID string
	prefix       string
	lang         string
	cache        cache.Cache
	keyer        cache.Keyer
	ttl          time.Duration
	refresh      bool
	retries      int
	retryDelay   time.Duration
	logger       *log.Logger
	memo         *lru.Cache[string, any]
}

// NewClient creates a client from cfg, filling in defaults.
func NewClient(cfg Config) *Client {
	c := &Client{
		http:         cfg.HTTPClient,
		baseURL:      cfg.BaseURL,
		universityID: cfg.UniversityID,
		prefix:       cfg.CurriculumPrefix,
		lang:         cfg.Language,
		cache:        cfg.Cache,
		ttl:          cfg.TTL,
		refresh:      cfg.Refresh,
		retries:      max(cfg.Retries, 0),
		retryDelay:   cfg.RetryDelay,
		logger:       cfg.Logger,
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: httpTimeout}
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.universityID == "" {
		c.universityID = DefaultUniversityID
	}
	if c.cache == nil {
		c.cache = cache.NewNullCache()
	}
	if c.ttl <= 0 {
		c.ttl = cache.DefaultTTL
	}
	if c.retryDelay <= 0 {
		c.retryDelay = defaultRetryDelay
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard)
	}
	c.keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), cache.ScopeFor(c.baseURL, c.universityID))
	c.memo, _ = lru.New[string, any](memoSize)
	return c
}

// Module fetches a module version by its id.
func (c *Client) Module(ctx context.Context, id string) (*ModuleVersion, error) {
	u := c.baseURL + "/modules/" + url.PathEscape(id)
	return fetchJSON[*ModuleVersion](ctx, c, nsModule, id, u)
}

// ModuleGroup fetches every version of a module group.
func (c *Client) ModuleGroup(ctx context.Context, groupID string) ([]ModuleVersion, error) {
	return fetchJSON[[]ModuleVersion](ctx, c, nsModuleGrp, groupID, c.groupURL("/modules/by-group-id", groupID))
}

// CourseUnitGroup fetches every version of a course unit group.
func (c *Client) CourseUnitGroup(ctx context.Context, groupID string) ([]CourseUnitVersion, error) {
	return fetchJSON[[]CourseUnitVersion](ctx, c, nsCourseUnit, groupID, c.groupURL("/course-units/by-group-id", groupID))
}

func (c *Client) groupURL(path, groupID string) string {
	q := url.Values{}
	q.Set("groupId", groupID)
	q.Set("universityId", c.universityID)
	return c.baseURL + path + "?" + q.Encode()
}

// fetchJSON returns the decoded response for (namespace, id), looking in
// the memo, then the cache, then the API.
func fetchJSON[T any](ctx context.Context, c *Client, namespace, id, u string) (T, error) {
	var zero T
	key := c.keyer.HTTPKey(namespace, id)
	if v, ok := c.memo.Get(key); ok {
		return v.(T), nil
	}

	hooks := observability.Cache()
	if !c.refresh {
		data, ok, err := c.cache.Get(ctx, key)
		switch {
		case err != nil:
			c.logger.Debug("cache read failed", "key", namespace+":"+id, "err", err)
		case ok:
			if v, err := decode[T](data); err == nil {
				hooks.OnCacheHit(ctx, namespace)
				c.memo.Add(key, v)
				return v, nil
			}
			c.logger.Debug("discarding undecodable cache entry", "key", namespace+":"+id)
		}
		hooks.OnCacheMiss(ctx, namespace)
	}

	var data []byte
	err := cache.Retry(ctx, c.retries+1, c.retryDelay, func() error {
		var err error
		data, err = c.get(ctx, u)
		if err != nil && cache.IsRetryable(err) {
			c.logger.Debug("transient API failure", "url", u, "err", err)
		}
		return err
	})
	if err != nil {
		return zero, err
	}

	v, err := decode[T](data)
	if err != nil {
		return zero, fmt.Errorf("decode %s %s: %w", namespace, id, err)
	}
	if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("cache write failed", "key", namespace+":"+id, "err", err)
	} else {
		hooks.OnCacheSet(ctx, namespace, len(data))
	}
	c.memo.Add(key, v)
	return v, nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", buildinfo.UserAgent())

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, path)
	c.logger.Debug("GET", "url", rawURL)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, cache.Retryable(fmt.Errorf("%w: %v", cache.ErrNetwork, err))
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, cache.Retryable(fmt.Errorf("%w: read body: %v", cache.ErrNetwork, err))
	}
	return data, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return cache.ErrNotFound
	case code == http.StatusTooManyRequests || code >= 500:
		return cache.Retryable(fmt.Errorf("%w: status %d", cache.ErrNetwork, code))
	default:
		return fmt.Errorf("%w: status %d", cache.ErrNetwork, code)
	}
}

// isNotFound reports whether err means the resource does not exist.
func isNotFound(err error) bool {
	return errors.Is(err, cache.ErrNotFound)
}
