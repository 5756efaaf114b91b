package cache

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	entryPrefix = "export-"
	exportFile  = "harvester_logs.txt"
	metaFile    = "meta.json"
)

// ExportCache keeps plain-text audit log exports on disk, one directory per
// query string.
type ExportCache struct {
	dir     string
	maxSize int64         // max total cache size in bytes
	ttl     time.Duration // entry freshness
	now     func() time.Time
}

// Meta is stored next to each export.
type Meta struct {
	Query    string    `json:"query"`
	RunID    string    `json:"run_id,omitempty"`
	Lines    int       `json:"lines"`
	StoredAt time.Time `json:"stored_at"`
}

// Entry is a cached export with computed fields.
type Entry struct {
	Meta
	Key  string
	Size int64
	Path string
}

func NewExportCache(dir string, maxSizeMB int, ttl time.Duration) (*ExportCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create export cache dir")
	}
	return &ExportCache{
		dir:     dir,
		maxSize: int64(maxSizeMB) * 1024 * 1024,
		ttl:     ttl,
		now:     time.Now,
	}, nil
}

// Key is the SHA-256 of the query string.
func Key(q string) string {
	sum := sha256.Sum256([]byte(q))
	return hex.EncodeToString(sum[:])
}

func (c *ExportCache) entryDir(key string) string {
	return filepath.Join(c.dir, entryPrefix+key)
}

func (c *ExportCache) fresh(m Meta) bool {
	return c.ttl <= 0 || c.now().Sub(m.StoredAt) < c.ttl
}

// Store writes the export read from r and returns its metadata.
func (c *ExportCache) Store(q, runID string, r io.Reader) (Meta, error) {
	dir := c.entryDir(Key(q))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Meta{}, errors.Wrap(err, "create export dir")
	}

	out, err := os.Create(filepath.Join(dir, exportFile))
	if err != nil {
		return Meta{}, errors.Wrap(err, "create export file")
	}
	lines, err := copyCountingLines(out, r)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.RemoveAll(dir)
		return Meta{}, errors.Wrap(err, "write export")
	}

	meta := Meta{Query: q, RunID: runID, Lines: lines, StoredAt: c.now().UTC()}
	if err := c.writeMeta(dir, meta); err != nil {
		return Meta{}, err
	}
	return meta, nil
}

func copyCountingLines(w io.Writer, r io.Reader) (int, error) {
	br := bufio.NewReader(r)
	lines := 0
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			lines++
			if _, werr := io.WriteString(w, line); werr != nil {
				return lines, werr
			}
		}
		if err == io.EOF {
			return lines, nil
		}
		if err != nil {
			return lines, err
		}
	}
}

// Get returns a fresh cached export of q.
func (c *ExportCache) Get(q string) (string, Meta, bool) {
	dir := c.entryDir(Key(q))
	meta, err := c.readMeta(dir)
	if err != nil || meta.Query != q || !c.fresh(*meta) {
		return "", Meta{}, false
	}
	data, err := ioutil.ReadFile(filepath.Join(dir, exportFile))
	if err != nil {
		return "", Meta{}, false
	}
	return string(data), *meta, true
}

func (c *ExportCache) writeMeta(dir string, meta Meta) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return errors.Wrap(err, "encode export meta")
	}
	return errors.Wrap(ioutil.WriteFile(filepath.Join(dir, metaFile), data, 0o644), "write export meta")
}

func (c *ExportCache) readMeta(dir string) (*Meta, error) {
	data, err := ioutil.ReadFile(filepath.Join(dir, metaFile))
	if err != nil {
		return nil, err
	}
	var meta Meta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// ListEntries scans the cache directory and returns all entries, newest
// first.
func (c *ExportCache) ListEntries() ([]Entry, error) {
	dirEntries, err := ioutil.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "read export cache dir")
	}
	var result []Entry
	for _, e := range dirEntries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), entryPrefix) {
			continue
		}
		path := filepath.Join(c.dir, e.Name())
		entry := Entry{
			Key:  strings.TrimPrefix(e.Name(), entryPrefix),
			Path: path,
			Size: dirSize(path),
		}
		if meta, err := c.readMeta(path); err == nil {
			entry.Meta = *meta
		} else {
			entry.StoredAt = e.ModTime()
		}
		result = append(result, entry)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StoredAt.After(result[j].StoredAt)
	})
	return result, nil
}

// Evict removes expired entries, then the oldest ones until the cache fits
// its size cap.
func (c *ExportCache) Evict() error {
	entries, err := c.ListEntries()
	if err != nil {
		return err
	}

	var total int64
	remaining := entries[:0]
	for _, e := range entries {
		if !c.fresh(e.Meta) {
			if err := os.RemoveAll(e.Path); err != nil {
				return errors.Wrap(err, "evict expired export")
			}
			continue
		}
		total += e.Size
		remaining = append(remaining, e)
	}

	// remaining is newest first.
	for i := len(remaining) - 1; i >= 0 && total > c.maxSize; i-- {
		if err := os.RemoveAll(remaining[i].Path); err != nil {
			return errors.Wrap(err, "evict export")
		}
		total -= remaining[i].Size
	}
	return nil
}

// DeleteEntry removes a single cache entry by key.
func (c *ExportCache) DeleteEntry(key string) error {
	return os.RemoveAll(c.entryDir(key))
}

// DeleteAll removes all cache entries.
func (c *ExportCache) DeleteAll() error {
	entries, err := c.ListEntries()
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := os.RemoveAll(e.Path); err != nil {
			return errors.Wrap(err, "delete export")
		}
	}
	return nil
}

// TotalSize returns total cache size in bytes.
func (c *ExportCache) TotalSize() (int64, error) {
	if _, err := os.Stat(c.dir); os.IsNotExist(err) {
		return 0, nil
	}
	return dirSize(c.dir), nil
}

func dirSize(path string) int64 {
	var size int64
	filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	return size
}
