package marvel

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/comicstore/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL        = "https://gateway.marvel.com/v1/public"
	thumbnailVariant      = "standard_xlarge"
	maxPageSize           = 100
	errorBodyReadLimit    = 1024
	responseBodyReadLimit = 8 << 20
)

var errKeysRequired = errors.New("marvel public and private keys are required")

// Client wraps the Marvel comics endpoint used by the catalog sync.
type Client struct {
	httpClient *http.Client
	baseURL    string
	publicKey  string
	privateKey string
	limiter    *rate.Limiter
	now        func() time.Time
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the public API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimSpace(baseURL); trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithRateLimit caps outgoing requests per second. Zero or negative disables throttling.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithClock overrides the timestamp source used to sign requests.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// NewClient builds the Marvel client from the public/private key pair.
func NewClient(publicKey, privateKey string, opts ...Option) (*Client, error) {
	publicKey = strings.TrimSpace(publicKey)
	privateKey = strings.TrimSpace(privateKey)
	if publicKey == "" || privateKey == "" {
		return nil, errKeysRequired
	}

	client := &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    defaultBaseURL,
		publicKey:  publicKey,
		privateKey: privateKey,
		now:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// Comic is the normalized catalog record extracted from one API result.
type Comic struct {
	MarvelID    int64
	Title       string
	Description string
	Price       decimal.Decimal
	Picture     string
}

// Page is one slice of the comics listing.
type Page struct {
	Offset int
	Limit  int
	Total  int
	Comics []Comic
}

// ListComics fetches one page of comics starting at offset.
func (c *Client) ListComics(ctx context.Context, offset, limit int) (*Page, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "marvel client not configured")
	}
	if offset < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "offset must not be negative")
	}
	if limit <= 0 || limit > maxPageSize {
		limit = maxPageSize
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "wait for marvel rate limit")
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.comicsURL(offset, limit), nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build comics request")
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute comics request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency,
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))),
			"comics request failed")
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read comics response")
	}
	return parsePage(body)
}

func (c *Client) comicsURL(offset, limit int) string {
	ts := strconv.FormatInt(c.now().UnixNano(), 10)
	q := url.Values{}
	q.Set("ts", ts)
	q.Set("apikey", c.publicKey)
	q.Set("hash", signature(ts, c.privateKey, c.publicKey))
	q.Set("offset", strconv.Itoa(offset))
	q.Set("limit", strconv.Itoa(limit))
	q.Set("orderBy", "-modified")
	return strings.TrimRight(c.baseURL, "/") + "/comics?" + q.Encode()
}

// signature is the md5(ts+privateKey+publicKey) digest the API expects.
func signature(ts, privateKey, publicKey string) string {
	sum := md5.Sum([]byte(ts + privateKey + publicKey))
	return hex.EncodeToString(sum[:])
}

func parsePage(body []byte) (*Page, error) {
	if !gjson.ValidBytes(body) {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "decode comics response: invalid json")
	}
	root := gjson.ParseBytes(body)
	data := root.Get("data")
	if !data.Exists() {
		return nil, pkgerrors.Newf(pkgerrors.CodeDependency, "comics response missing data (code %s)", root.Get("code").String())
	}

	results := data.Get("results").Array()
	page := &Page{
		Offset: int(data.Get("offset").Int()),
		Limit:  int(data.Get("limit").Int()),
		Total:  int(data.Get("total").Int()),
		Comics: make([]Comic, 0, len(results)),
	}
	for _, result := range results {
		comic, ok := parseComic(result)
		if !ok {
			continue
		}
		page.Comics = append(page.Comics, comic)
	}
	return page, nil
}

func parseComic(result gjson.Result) (Comic, bool) {
	id := result.Get("id").Int()
	if id <= 0 {
		return Comic{}, false
	}

	price := decimal.Zero
	if raw := result.Get(`prices.#(type=="printPrice").price`); raw.Exists() {
		price = decimal.NewFromFloat(raw.Float())
	} else if raw := result.Get("prices.0.price"); raw.Exists() {
		price = decimal.NewFromFloat(raw.Float())
	}

	picture := ""
	if path := result.Get("thumbnail.path").String(); path != "" {
		picture = fmt.Sprintf("%s/%s.%s", path, thumbnailVariant, result.Get("thumbnail.extension").String())
	}

	return Comic{
		MarvelID:    id,
		Title:       truncate(result.Get("title").String(), 120),
		Description: result.Get("description").String(),
		Price:       price.Round(2),
		Picture:     picture,
	}, true
}

func truncate(value string, max int) string {
	runes := []rune(strings.TrimSpace(value))
	if len(runes) <= max {
		return string(runes)
	}
	return string(runes[:max])
}
