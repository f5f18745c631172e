package extract

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"pricewatch/internal/metrics"
	domain "pricewatch/pkg/types"
)

const (
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/98.0.4758.102 Safari/537.36"
	defaultAcceptLanguage = "en-US,en;q=0.9"
	defaultFetchTimeout   = 30 * time.Second
)

// priceSelectors are tried in order; the first candidate whose text parses
// as a nonnegative decimal wins. The page's markup changes over time, which
// is why there are this many.
var priceSelectors = []string{
	"#priceblock_ourprice",
	"#priceblock_dealprice",
	".a-price .a-offscreen",
	".a-price-whole",
	".a-size-medium.a-color-price",
}

// imageSelectors are tried in order for a representative product image.
var imageSelectors = []string{
	"img#landingImage",
	"img#imgBlkFront",
}

// PageExtractor implements Extractor by fetching the listing page over HTTP
// and parsing its markup.
type PageExtractor struct {
	client         *http.Client
	userAgent      string
	acceptLanguage string
	limiter        *rate.Limiter
}

// PageOption configures the PageExtractor.
type PageOption func(*PageExtractor)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(c *http.Client) PageOption {
	return func(p *PageExtractor) {
		p.client = c
	}
}

// WithUserAgent overrides the browser-identifying User-Agent header.
func WithUserAgent(ua string) PageOption {
	return func(p *PageExtractor) {
		p.userAgent = ua
	}
}

// WithAcceptLanguage overrides the Accept-Language hint.
func WithAcceptLanguage(al string) PageOption {
	return func(p *PageExtractor) {
		p.acceptLanguage = al
	}
}

// WithRateLimiter injects a limiter applied before every outbound fetch.
// When set, Extract blocks until the limiter grants a slot or the context
// is done.
func WithRateLimiter(l *rate.Limiter) PageOption {
	return func(p *PageExtractor) {
		p.limiter = l
	}
}

// NewPageExtractor creates a PageExtractor with a bounded fetch timeout.
func NewPageExtractor(opts ...PageOption) *PageExtractor {
	p := &PageExtractor{
		client:         &http.Client{Timeout: defaultFetchTimeout},
		userAgent:      defaultUserAgent,
		acceptLanguage: defaultAcceptLanguage,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Extract fetches url with a single GET (redirects followed, no retry) and
// parses out the product name, price, resolved URL, and image reference.
func (p *PageExtractor) Extract(ctx context.Context, url string) (*ProductPage, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating fetch request: %w", err)
	}
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept-Language", p.acceptLanguage)

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()
	metrics.FetchDuration.Observe(time.Since(start).Seconds())

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{URL: url, Status: resp.StatusCode}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing page markup: %w", err)
	}

	page := &ProductPage{
		Name:        extractName(doc),
		Price:       extractPrice(doc),
		ResolvedURL: resp.Request.URL.String(),
		ImageURL:    extractImage(doc),
	}

	return page, nil
}

func extractName(doc *goquery.Document) string {
	title := strings.TrimSpace(doc.Find("span#productTitle").First().Text())
	if title == "" {
		return domain.NameNotFound
	}
	return title
}

func extractPrice(doc *goquery.Document) *float64 {
	for _, sel := range priceSelectors {
		text := strings.TrimSpace(doc.Find(sel).First().Text())
		if text == "" {
			continue
		}
		if price, ok := ParsePrice(text); ok {
			return &price
		}
	}
	return nil
}

func extractImage(doc *goquery.Document) string {
	for _, sel := range imageSelectors {
		if src, ok := doc.Find(sel).First().Attr("src"); ok && src != "" {
			return src
		}
	}
	return ""
}

// ParsePrice strips every non-digit, non-decimal-point character from text
// and parses the remainder as a nonnegative decimal. Returns false when
// nothing parseable remains.
func ParsePrice(text string) (float64, bool) {
	var b strings.Builder
	for _, r := range text {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}

	price, err := strconv.ParseFloat(b.String(), 64)
	if err != nil || price < 0 {
		return 0, false
	}
	return price, true
}
