package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

func TestNewText(t *testing.T) {
	src, ok := NewText("", "  Mitochondria make ATP.  ")
	if !ok {
		t.Fatal("Expected text source")
	}
	if src.Name != "Pasted text" {
		t.Errorf("Expected default name, got %q", src.Name)
	}
	if src.Content != "Mitochondria make ATP." {
		t.Errorf("Expected trimmed content, got %q", src.Content)
	}
	if src.Kind != KindText || src.ID == uuid.Nil {
		t.Errorf("Unexpected source %+v", src)
	}

	if _, ok := NewText("notes", " \n "); ok {
		t.Error("Expected blank text to be rejected")
	}
}

func TestBuildContext(t *testing.T) {
	tests := []struct {
		name    string
		sources []Source
		want    string
	}{
		{"no sources", nil, ""},
		{"single", []Source{{Name: "a", Content: "alpha"}}, "[Source 1: a]\nalpha"},
		{
			"several",
			[]Source{{Name: "a", Content: "alpha"}, {Name: "b", Content: "beta"}},
			"[Source 1: a]\nalpha\n\n---\n\n[Source 2: b]\nbeta",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildContext(tt.sources); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestLinkLoader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/page":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write([]byte(`<html><head><title>T</title><style>p{}</style></head>
<body><h1>Cells</h1><script>alert(1)</script><p>The   cell is the
unit of life.</p><ul><li>Nucleus</li><li>Ribosome</li></ul></body></html>`))
		case "/latin1":
			w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
			w.Write([]byte("<p>caf\xe9</p>"))
		case "/plain":
			w.Header().Set("Content-Type", "text/plain")
			w.Write([]byte("  just text \n"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	loader := NewLinkLoader()
	ctx := context.Background()

	src, err := loader.Load(ctx, "", server.URL+"/page")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := "[Source URL]: " + server.URL + "/page\n\nCells\nThe cell is the unit of life.\nNucleus\nRibosome"
	if src.Content != want {
		t.Errorf("Expected content %q, got %q", want, src.Content)
	}
	if src.Name != server.URL+"/page" || src.Kind != KindLink {
		t.Errorf("Unexpected source %+v", src)
	}

	src, _ = loader.Load(ctx, "cafe", server.URL+"/latin1")
	if !strings.HasSuffix(src.Content, "café") {
		t.Errorf("Expected decoded latin-1 text, got %q", src.Content)
	}

	src, _ = loader.Load(ctx, "plain", server.URL+"/plain")
	if !strings.HasSuffix(src.Content, "\n\njust text") {
		t.Errorf("Expected plain text body, got %q", src.Content)
	}

	src, err = loader.Load(ctx, "gone", server.URL+"/missing")
	if err != nil {
		t.Fatalf("Expected unreachable page to still load, got %v", err)
	}
	if src.Content != "[Source URL]: "+server.URL+"/missing" {
		t.Errorf("Expected URL line only, got %q", src.Content)
	}

	if _, err := loader.Load(ctx, "", "  "); err == nil {
		t.Error("Expected error for empty link")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	txt := filepath.Join(dir, "notes.md")
	os.WriteFile(txt, []byte("# Notes\nOsmosis moves water.\n"), 0644)

	page := filepath.Join(dir, "page.html")
	os.WriteFile(page, []byte("<html><body><p>Diffusion</p><p>Osmosis</p></body></html>"), 0644)

	sheet := filepath.Join(dir, "terms.xlsx")
	f := excelize.NewFile()
	f.SetCellValue("Sheet1", "A1", "Term")
	f.SetCellValue("Sheet1", "B1", "Meaning")
	f.SetCellValue("Sheet1", "A2", "ATP")
	f.SetCellValue("Sheet1", "B2", "Energy carrier")
	if err := f.SaveAs(sheet); err != nil {
		t.Fatalf("Failed to write xlsx: %v", err)
	}
	f.Close()

	empty := filepath.Join(dir, "empty.txt")
	os.WriteFile(empty, []byte("   "), 0644)

	broken := filepath.Join(dir, "broken.pdf")
	os.WriteFile(broken, []byte("not a pdf"), 0644)

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{name: "markdown", path: txt, want: "# Notes\nOsmosis moves water."},
		{name: "html", path: page, want: "Diffusion\nOsmosis"},
		{name: "xlsx", path: sheet, want: "Sheet1\n| Term | Meaning |\n| ATP | Energy carrier |"},
		{name: "empty", path: empty, wantErr: true},
		{name: "broken pdf", path: broken, wantErr: true},
		{name: "missing", path: filepath.Join(dir, "nope.txt"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := LoadFile(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error, got source %+v", src)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadFile failed: %v", err)
			}
			if src.Content != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, src.Content)
			}
			if src.Name != filepath.Base(tt.path) || src.Kind != KindFile {
				t.Errorf("Unexpected source %+v", src)
			}
		})
	}
}

func TestLoadAllKeepsOrder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "b.txt")
	os.WriteFile(path, []byte("from file"), 0644)

	loader := NewLoader()
	sources, err := loader.LoadAll(context.Background(), []Spec{
		{Kind: KindText, Name: "a", Value: "first"},
		{Kind: KindFile, Value: path},
		{Kind: KindText, Name: "c", Value: "third"},
	})
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}

	names := []string{"a", "b.txt", "c"}
	if len(sources) != len(names) {
		t.Fatalf("Expected %d sources, got %d", len(names), len(sources))
	}
	for i, name := range names {
		if sources[i].Name != name {
			t.Errorf("Source %d: expected %q, got %q", i, name, sources[i].Name)
		}
	}

	_, err = loader.LoadAll(context.Background(), []Spec{
		{Kind: KindText, Name: "ok", Value: "fine"},
		{Kind: KindFile, Value: filepath.Join(dir, "missing.txt")},
	})
	if err == nil || !strings.Contains(err.Error(), "loading source 2") {
		t.Errorf("Expected failure naming source 2, got %v", err)
	}

	if _, err := loader.Load(context.Background(), Spec{Kind: "video"}); err == nil {
		t.Error("Expected error for unknown kind")
	}
}

func TestFeedText(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "rss",
			body: `<?xml version="1.0"?>
<rss version="2.0"><channel>
<title>Biology Weekly</title>
<description>News about cells</description>
<item>
  <title>Ribosomes explained</title>
  <link>https://example.com/ribosomes</link>
  <description>&lt;p&gt;How proteins &lt;b&gt;get built&lt;/b&gt;&lt;/p&gt;</description>
  <pubDate>Mon, 02 Jan 2006 15:04:05 -0700</pubDate>
</item>
<item><title>No date</title></item>
</channel></rss>`,
			want: "Biology Weekly\nNews about cells\n\n- Ribosomes explained (2 Jan 2006)\n  https://example.com/ribosomes\n  How proteins get built\n\n- No date",
		},
		{
			name: "atom",
			body: `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
<title>Chem Notes</title>
<entry>
  <title>Bonds</title>
  <link href="https://example.com/bonds"/>
  <updated>2024-03-01T10:00:00Z</updated>
  <summary>Covalent and ionic</summary>
</entry>
</feed>`,
			want: "Chem Notes\n\n- Bonds (1 Mar 2024)\n  https://example.com/bonds\n  Covalent and ionic",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := feedText(strings.NewReader(tt.body))
			if err != nil {
				t.Fatalf("feedText failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}

	if _, err := feedText(strings.NewReader(`<rss><channel><title>Empty</title></channel></rss>`)); err == nil {
		t.Error("Expected error for feed without items")
	}
	if _, err := feedText(strings.NewReader("not xml")); err == nil {
		t.Error("Expected error for invalid feed")
	}
}

func TestIsFeed(t *testing.T) {
	tests := map[string]bool{
		"application/rss+xml":     true,
		"application/atom+xml":    true,
		"text/xml; charset=utf-8": true,
		"application/xhtml+xml":   false,
		"text/html":               false,
		"text/plain":              false,
	}
	for ct, want := range tests {
		if got := isFeed(ct); got != want {
			t.Errorf("isFeed(%q): expected %v, got %v", ct, want, got)
		}
	}
}

func TestLinkLoaderFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(`<rss><channel><title>Feed</title><item><title>Only item</title></item></channel></rss>`))
	}))
	defer server.Close()

	src, err := NewLinkLoader().Load(context.Background(), "feed", server.URL)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := "[Source URL]: " + server.URL + "\n\nFeed\n\n- Only item"
	if src.Content != want {
		t.Errorf("Expected content %q, got %q", want, src.Content)
	}
}
