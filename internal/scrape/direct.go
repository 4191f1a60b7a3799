package scrape

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	"github.com/sells-group/harvest-cli/internal/model"
)

// maxBodyBytes caps how much HTML is read from a page.
const maxBodyBytes = 1024 * 1024

// DirectScraper fetches HTML with a browser-like header set and reduces
// it to visible text. Second tier of the chain; free, no API calls.
type DirectScraper struct {
	client   *http.Client
	minChars int
}

// NewDirectScraper creates a DirectScraper. Pages whose visible text is
// shorter than minChars are rejected.
func NewDirectScraper(minChars int) *DirectScraper {
	return &DirectScraper{
		client: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 10 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		minChars: minChars,
	}
}

func (d *DirectScraper) Name() string { return "direct" }

// Scrape performs a GET with browser-like headers, follows redirects,
// strips structural regions, and extracts the visible text.
func (d *DirectScraper) Scrape(ctx context.Context, targetURL string) (*model.RawContent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "direct: create request")
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "direct: fetch")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("direct: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, eris.Wrap(err, "direct: read body")
	}

	text, err := visibleText(body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}

	if len(text) <= d.minChars {
		return nil, eris.Errorf("direct: content too short (%d chars)", len(text))
	}

	return &model.RawContent{
		Text:      text,
		SourceURL: targetURL,
		Strategy:  d.Name(),
	}, nil
}

// visibleText parses HTML, removes structural chrome, and returns the
// remaining text one node per line.
func visibleText(body []byte, contentType string) (string, error) {
	// Decode to UTF-8 if needed.
	enc, _, _ := charset.DetermineEncoding(body, contentType)
	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		if !utf8.Valid(body) {
			return "", eris.Wrap(err, "direct: decode body")
		}
		decoded = body
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(decoded))
	if err != nil {
		return "", eris.Wrap(err, "direct: parse html")
	}

	doc.Find("script,style,noscript,nav,footer,header").Each(func(_ int, s *goquery.Selection) {
		s.Remove()
	})

	var b strings.Builder
	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}
	root.Each(func(_ int, s *goquery.Selection) {
		for _, n := range s.Nodes {
			writeTextNodes(&b, n)
		}
	})

	return strings.TrimSpace(b.String()), nil
}

// writeTextNodes walks the node tree appending each non-empty text node
// on its own line.
func writeTextNodes(b *strings.Builder, n *html.Node) {
	if n.Type == html.TextNode {
		if txt := strings.TrimSpace(n.Data); txt != "" {
			b.WriteString(txt)
			b.WriteByte('\n')
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeTextNodes(b, c)
	}
}
