package cache

import (
	"context"
	"crypto/sha256"
	"fmt"
	"strings"
	"time"

	"github.com/pep299/leeai-studio/internal/model"
)

// Cache interface defines cache operations
type Cache interface {
	Get(ctx context.Context, key string) (*CacheEntry, error)
	Set(ctx context.Context, key string, entry *CacheEntry) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Clear(ctx context.Context) error
	GetStats(ctx context.Context) (*Stats, error)
	// Purge drops expired entries and reports how many were removed
	Purge(ctx context.Context) (int, error)
	Close() error
}

// CacheEntry is one generated result
type CacheEntry struct {
	Key          string         `json:"key"`
	Tool         model.ToolType `json:"tool"`
	QuestionType string         `json:"question_type,omitempty"`
	Count        int            `json:"count,omitempty"`
	Content      string         `json:"content"`
	CreatedAt    time.Time      `json:"created_at"`
	ExpiresAt    time.Time      `json:"expires_at"`
	AccessedAt   time.Time      `json:"accessed_at"`
	AccessCount  int            `json:"access_count"`
}

// Stats represents cache statistics
type Stats struct {
	Backend        string        `json:"backend"`
	TotalEntries   int           `json:"total_entries"`
	HitCount       int64         `json:"hit_count"`
	MissCount      int64         `json:"miss_count"`
	HitRate        float64       `json:"hit_rate"`
	MemoryUsage    int64         `json:"memory_usage_bytes"`
	OldestEntry    time.Time     `json:"oldest_entry"`
	AverageAge     time.Duration `json:"average_age"`
	ExpiredEntries int           `json:"expired_entries"`

	// ByTool counts stored results per tool
	ByTool map[model.ToolType]int `json:"by_tool,omitempty"`
}

// hitRate is the share of lookups that found a result
func hitRate(hits, misses int64) float64 {
	if hits+misses == 0 {
		return 0
	}
	return float64(hits) / float64(hits+misses)
}

// countTool adds n results for tool to the per-tool breakdown
func (s *Stats) countTool(tool model.ToolType, n int) {
	if tool == "" || n == 0 {
		return
	}
	if s.ByTool == nil {
		s.ByTool = make(map[model.ToolType]int)
	}
	s.ByTool[tool] += n
}

// Options selects and configures a backend
type Options struct {
	Type       string
	Duration   time.Duration
	SQLitePath string
	Bucket     string
}

// Manager handles cache operations with convenience methods
type Manager struct {
	cache Cache
}

// NewManager creates a new cache manager
func NewManager(ctx context.Context, opts Options) (*Manager, error) {
	var cache Cache

	switch opts.Type {
	case "memory", "":
		cache = NewMemoryCache(opts.Duration)
	case "sqlite":
		var err error
		cache, err = NewSQLiteCache(opts.SQLitePath, opts.Duration)
		if err != nil {
			return nil, fmt.Errorf("creating sqlite cache: %w", err)
		}
	case "cloud-storage":
		var err error
		cache, err = NewCloudStorageCache(ctx, opts.Bucket, opts.Duration)
		if err != nil {
			return nil, fmt.Errorf("creating cloud storage cache: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported cache type: %s", opts.Type)
	}

	return &Manager{cache: cache}, nil
}

// NewManagerWith wraps an existing backend
func NewManagerWith(c Cache) *Manager {
	return &Manager{cache: c}
}

// GetGenerated returns the cached text for req
func (m *Manager) GetGenerated(ctx context.Context, req model.GenerateRequest) (string, error) {
	entry, err := m.cache.Get(ctx, GenerateKey(req))
	if err != nil {
		return "", err
	}
	return entry.Content, nil
}

// SetGenerated caches the text generated for req
func (m *Manager) SetGenerated(ctx context.Context, req model.GenerateRequest, content string) error {
	entry := &CacheEntry{
		Tool:    req.ToolType,
		Content: content,
	}
	if req.ToolType == model.ToolQuiz {
		entry.QuestionType = string(req.Questions())
		entry.Count = req.QuizCount()
	}
	return m.cache.Set(ctx, GenerateKey(req), entry)
}

// IsCached checks if a request already has a cached result
func (m *Manager) IsCached(ctx context.Context, req model.GenerateRequest) (bool, error) {
	return m.cache.Exists(ctx, GenerateKey(req))
}

// GetStats returns cache statistics
func (m *Manager) GetStats(ctx context.Context) (*Stats, error) {
	return m.cache.GetStats(ctx)
}

// Clear clears all cached entries
func (m *Manager) Clear(ctx context.Context) error {
	return m.cache.Clear(ctx)
}

// Purge drops expired entries
func (m *Manager) Purge(ctx context.Context) (int, error) {
	return m.cache.Purge(ctx)
}

// Close closes the cache
func (m *Manager) Close() error {
	return m.cache.Close()
}

// GenerateKey derives the cache key of a request. Quiz settings only take
// part for quizzes, so a stray count on a flashcards request still hits.
func GenerateKey(req model.GenerateRequest) string {
	var b strings.Builder
	b.WriteString(string(req.ToolType))
	b.WriteByte(0)
	if req.ToolType == model.ToolQuiz {
		fmt.Fprintf(&b, "%d\x00%s\x00", req.QuizCount(), req.Questions())
	}
	b.WriteString(strings.TrimSpace(req.Context))

	hash := sha256.Sum256([]byte(b.String()))
	return fmt.Sprintf("gen:%x", hash)
}

// Common cache errors
var (
	ErrCacheMiss = fmt.Errorf("cache miss")
)
