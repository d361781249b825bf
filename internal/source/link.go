package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// maxPageBytes caps how much of a linked page is read
const maxPageBytes = 5 << 20

// LinkLoader turns a URL into a link source
type LinkLoader struct {
	httpClient *http.Client
	userAgent  string
}

// NewLinkLoader creates a LinkLoader with a 20 second timeout
func NewLinkLoader() *LinkLoader {
	return &LinkLoader{
		httpClient: &http.Client{Timeout: 20 * time.Second},
		userAgent:  "LeeAI-Studio/1.0",
	}
}

// Load records the URL and, when the page can be fetched, appends its text.
// An unreachable page still produces a source holding only the URL line.
func (l *LinkLoader) Load(ctx context.Context, name, rawURL string) (Source, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return Source{}, fmt.Errorf("link is empty")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = rawURL
	}

	content := "[Source URL]: " + rawURL
	text, err := l.fetchText(ctx, rawURL)
	if err != nil {
		log.Printf("Could not fetch %s: %v", rawURL, err)
	} else if text != "" {
		content += "\n\n" + text
	}

	return Source{ID: uuid.New(), Name: name, Kind: KindLink, Content: content}, nil
}

func (l *LinkLoader) fetchText(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", l.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,application/rss+xml,application/atom+xml;q=0.8,text/plain;q=0.8")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("bad status: %s", resp.Status)
	}

	ctype := resp.Header.Get("Content-Type")
	body := io.LimitReader(resp.Body, maxPageBytes)
	if strings.HasPrefix(ctype, "text/plain") {
		data, err := io.ReadAll(body)
		if err != nil {
			return "", fmt.Errorf("reading page: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	if isFeed(ctype) {
		return feedText(body)
	}
	if ctype != "" && !strings.Contains(ctype, "html") {
		return "", fmt.Errorf("unsupported content-type: %s", ctype)
	}
	return htmlText(body, ctype)
}

var (
	skipTags = map[string]bool{
		"script": true, "style": true, "noscript": true, "head": true,
		"iframe": true, "svg": true, "canvas": true, "template": true,
	}
	blockTags = map[string]bool{
		"p": true, "div": true, "li": true, "section": true, "article": true,
		"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
		"header": true, "footer": true, "br": true, "ul": true, "ol": true,
		"tr": true, "table": true, "blockquote": true,
	}
)

// htmlText decodes r using the charset from contentType (or the document's
// meta tag) and returns its visible text, one block per line.
func htmlText(r io.Reader, contentType string) (string, error) {
	decoded, err := charset.NewReader(r, contentType)
	if err != nil {
		decoded = r
	}

	var text strings.Builder
	newline := func() {
		if n := text.Len(); n > 0 && text.String()[n-1] != '\n' {
			text.WriteByte('\n')
		}
	}

	skipDepth := 0
	tokenizer := html.NewTokenizer(decoded)
	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			if tokenizer.Err() == io.EOF {
				break
			}
			return "", fmt.Errorf("tokenizer error: %w", tokenizer.Err())
		}

		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := tokenizer.TagName()
			tag := strings.ToLower(string(name))
			if skipTags[tag] && tt == html.StartTagToken {
				skipDepth++
			}
			if blockTags[tag] {
				newline()
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			tag := strings.ToLower(string(name))
			if skipTags[tag] && skipDepth > 0 {
				skipDepth--
			}
			if blockTags[tag] {
				newline()
			}
		case html.TextToken:
			if skipDepth > 0 {
				continue
			}
			fields := bytes.Fields(tokenizer.Text())
			if len(fields) == 0 {
				continue
			}
			if n := text.Len(); n > 0 && text.String()[n-1] != '\n' {
				text.WriteByte(' ')
			}
			text.Write(bytes.Join(fields, []byte(" ")))
		}
	}

	return strings.TrimSpace(text.String()), nil
}
