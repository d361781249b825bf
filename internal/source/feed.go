package source

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"
)

// maxFeedItems caps how many feed entries end up in a source
const maxFeedItems = 50

// feed is an RSS 2.0 channel or an Atom feed
type feed struct {
	XMLName xml.Name

	// RSS
	Title       string     `xml:"channel>title"`
	Description string     `xml:"channel>description"`
	Items       []feedItem `xml:"channel>item"`

	// Atom
	AtomTitle    string      `xml:"title"`
	AtomSubtitle string      `xml:"subtitle"`
	Entries      []atomEntry `xml:"entry"`
}

type feedItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
}

type atomEntry struct {
	Title   string `xml:"title"`
	Summary string `xml:"summary"`
	Content string `xml:"content"`
	Updated string `xml:"updated"`
	Link    struct {
		Href string `xml:"href,attr"`
	} `xml:"link"`
}

// isFeed reports whether a content type carries RSS or Atom
func isFeed(contentType string) bool {
	ct := strings.ToLower(contentType)
	if strings.Contains(ct, "rss") || strings.Contains(ct, "atom") {
		return true
	}
	return strings.Contains(ct, "xml") && !strings.Contains(ct, "html")
}

// feedText lists the feed entries as text: title, date, link and a
// tag-free summary for each
func feedText(r io.Reader) (string, error) {
	var f feed
	if err := xml.NewDecoder(r).Decode(&f); err != nil {
		return "", fmt.Errorf("parsing feed: %w", err)
	}

	items := f.Items
	title, desc := f.Title, f.Description
	if f.XMLName.Local == "feed" {
		title, desc = f.AtomTitle, f.AtomSubtitle
		items = make([]feedItem, len(f.Entries))
		for i, e := range f.Entries {
			summary := e.Summary
			if summary == "" {
				summary = e.Content
			}
			items[i] = feedItem{Title: e.Title, Link: e.Link.Href, Description: summary, PubDate: e.Updated}
		}
	}
	if len(items) == 0 {
		return "", fmt.Errorf("feed has no items")
	}
	if len(items) > maxFeedItems {
		items = items[:maxFeedItems]
	}

	var b strings.Builder
	if title = strings.TrimSpace(title); title != "" {
		b.WriteString(title + "\n")
	}
	if desc = strings.TrimSpace(desc); desc != "" {
		b.WriteString(desc + "\n")
	}
	for _, item := range items {
		b.WriteString("\n- " + strings.TrimSpace(item.Title))
		if date, err := parseFeedDate(strings.TrimSpace(item.PubDate)); err == nil {
			b.WriteString(" (" + date.Format("2 Jan 2006") + ")")
		}
		b.WriteByte('\n')
		if link := strings.TrimSpace(item.Link); link != "" {
			b.WriteString("  " + link + "\n")
		}
		// Descriptions are usually escaped HTML
		if summary, err := htmlText(strings.NewReader(item.Description), "text/html; charset=utf-8"); err == nil && summary != "" {
			b.WriteString("  " + strings.ReplaceAll(summary, "\n", " ") + "\n")
		}
	}
	return strings.TrimSpace(b.String()), nil
}

// parseFeedDate parses the date formats seen in RSS and Atom feeds
func parseFeedDate(s string) (time.Time, error) {
	formats := []string{
		time.RFC1123Z,
		time.RFC1123,
		"Mon, 2 Jan 2006 15:04:05 -0700",
		"Mon, 2 Jan 2006 15:04:05 MST",
		time.RFC3339,
		"2006-01-02 15:04:05",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", s)
}
