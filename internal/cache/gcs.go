package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"github.com/pep299/leeai-studio/internal/model"
)

// DefaultBucket is used when no bucket is configured
const DefaultBucket = "leeai-studio-cache"

// CloudStorageCache implements cache using Google Cloud Storage with JSON format
type CloudStorageCache struct {
	client     *storage.Client
	bucketName string
	duration   time.Duration
	prefix     string
}

// NewCloudStorageCache creates a new Cloud Storage cache
func NewCloudStorageCache(ctx context.Context, bucketName string, duration time.Duration) (*CloudStorageCache, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}
	return newCloudStorageCache(client, bucketName, duration), nil
}

func newCloudStorageCache(client *storage.Client, bucketName string, duration time.Duration) *CloudStorageCache {
	if bucketName == "" {
		bucketName = DefaultBucket
	}
	return &CloudStorageCache{
		client:     client,
		bucketName: bucketName,
		duration:   duration,
		prefix:     "generations/",
	}
}

func (c *CloudStorageCache) object(key string) *storage.ObjectHandle {
	// ':' is legal in object names but awkward in gsutil paths
	name := c.prefix + strings.ReplaceAll(key, ":", "_") + ".json"
	return c.client.Bucket(c.bucketName).Object(name)
}

// Get retrieves an entry from Cloud Storage
func (c *CloudStorageCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	reader, err := c.object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("opening object reader: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading object data: %w", err)
	}

	var entry CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("unmarshaling cache entry: %w", err)
	}

	if time.Now().After(entry.ExpiresAt) {
		if err := c.Delete(ctx, key); err != nil {
			log.Printf("Warning: failed to delete expired cache entry %s: %v", key, err)
		}
		return nil, ErrCacheMiss
	}

	entry.AccessedAt = time.Now()
	entry.AccessCount++
	return &entry, nil
}

// Set stores an entry in Cloud Storage
func (c *CloudStorageCache) Set(ctx context.Context, key string, entry *CacheEntry) error {
	stored := stamp(key, *entry, time.Now(), c.duration)

	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("marshaling cache entry: %w", err)
	}

	writer := c.object(key).NewWriter(ctx)
	writer.ContentType = "application/json"
	writer.Metadata = map[string]string{
		"expires_at": stored.ExpiresAt.Format(time.RFC3339),
		"tool":       string(stored.Tool),
	}

	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return fmt.Errorf("writing object data: %w", err)
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("closing object writer: %w", err)
	}

	return nil
}

// Delete removes an entry from Cloud Storage
func (c *CloudStorageCache) Delete(ctx context.Context, key string) error {
	if err := c.object(key).Delete(ctx); err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("deleting object: %w", err)
	}
	return nil
}

// Exists checks if an unexpired entry exists in Cloud Storage
func (c *CloudStorageCache) Exists(ctx context.Context, key string) (bool, error) {
	attrs, err := c.object(key).Attrs(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("getting object attributes: %w", err)
	}
	return !expired(attrs, time.Now()), nil
}

// expired reads the expiry stamped into object metadata by Set
func expired(attrs *storage.ObjectAttrs, now time.Time) bool {
	raw, ok := attrs.Metadata["expires_at"]
	if !ok {
		return false
	}
	at, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return false
	}
	return now.After(at)
}

// each calls fn for every object under the cache prefix
func (c *CloudStorageCache) each(ctx context.Context, fn func(*storage.ObjectAttrs) error) error {
	it := c.client.Bucket(c.bucketName).Objects(ctx, &storage.Query{Prefix: c.prefix})
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return fmt.Errorf("listing objects: %w", err)
		}
		if err := fn(attrs); err != nil {
			return err
		}
	}
}

// Clear removes all entries from Cloud Storage with the cache prefix
func (c *CloudStorageCache) Clear(ctx context.Context) error {
	bucket := c.client.Bucket(c.bucketName)
	return c.each(ctx, func(attrs *storage.ObjectAttrs) error {
		if err := bucket.Object(attrs.Name).Delete(ctx); err != nil {
			return fmt.Errorf("deleting object %s: %w", attrs.Name, err)
		}
		return nil
	})
}

// Purge removes expired entries
func (c *CloudStorageCache) Purge(ctx context.Context) (int, error) {
	bucket := c.client.Bucket(c.bucketName)
	now := time.Now()
	removed := 0
	err := c.each(ctx, func(attrs *storage.ObjectAttrs) error {
		if !expired(attrs, now) {
			return nil
		}
		if err := bucket.Object(attrs.Name).Delete(ctx); err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
			return fmt.Errorf("deleting object %s: %w", attrs.Name, err)
		}
		removed++
		return nil
	})
	return removed, err
}

// GetStats returns cache statistics for Cloud Storage. Hit counts are not
// tracked for this backend.
func (c *CloudStorageCache) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{Backend: "cloud-storage"}

	var totalAge time.Duration
	now := time.Now()
	err := c.each(ctx, func(attrs *storage.ObjectAttrs) error {
		stats.TotalEntries++
		stats.countTool(model.ToolType(attrs.Metadata["tool"]), 1)
		stats.MemoryUsage += attrs.Size
		if stats.OldestEntry.IsZero() || attrs.Created.Before(stats.OldestEntry) {
			stats.OldestEntry = attrs.Created
		}
		totalAge += now.Sub(attrs.Created)
		if expired(attrs, now) {
			stats.ExpiredEntries++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if stats.TotalEntries > 0 {
		stats.AverageAge = totalAge / time.Duration(stats.TotalEntries)
	}
	return stats, nil
}

// Close closes the Cloud Storage client
func (c *CloudStorageCache) Close() error {
	return c.client.Close()
}
