package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/obsidian-intel/unit734/internal/domain"
)

// FileEvidenceCache stores generated evidence records in an index file
// keyed by request hash, with image bytes on disk named by content
// hash. Records survive restarts; identical requests never pay for a
// second render.
type FileEvidenceCache struct {
	dir   string
	mu    sync.RWMutex
	index map[string]cachedEvidence
}

type cachedEvidence struct {
	Record    domain.GeneratedEvidence `json:"record"`
	ImageFile string                   `json:"image_file,omitempty"`
}

func NewFileEvidenceCache(dir string) (*FileEvidenceCache, error) {
	c := &FileEvidenceCache{
		dir:   dir,
		index: make(map[string]cachedEvidence),
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create evidence dir: %w", err)
	}
	if err := c.loadIndex(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *FileEvidenceCache) indexPath() string {
	return filepath.Join(c.dir, "index.json")
}

func (c *FileEvidenceCache) loadIndex() error {
	data, err := os.ReadFile(c.indexPath())
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read evidence index: %w", err)
	}
	if err := json.Unmarshal(data, &c.index); err != nil {
		return fmt.Errorf("parse evidence index: %w", err)
	}
	return nil
}

func (c *FileEvidenceCache) saveIndexLocked() error {
	data, err := json.MarshalIndent(c.index, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal evidence index: %w", err)
	}
	tmp := c.indexPath() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write evidence index temp: %w", err)
	}
	if err := os.Rename(tmp, c.indexPath()); err != nil {
		return fmt.Errorf("replace evidence index: %w", err)
	}
	return nil
}

func (c *FileEvidenceCache) Get(ctx context.Context, requestID string) (*domain.GeneratedEvidence, bool, error) {
	c.mu.RLock()
	cached, ok := c.index[requestID]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}

	ev := cached.Record
	if cached.ImageFile != "" {
		img, err := os.ReadFile(filepath.Join(c.dir, cached.ImageFile))
		if err != nil {
			return nil, false, fmt.Errorf("read evidence image: %w", err)
		}
		ev.ImageBytes = img
	}
	return &ev, true, nil
}

func (c *FileEvidenceCache) Put(ctx context.Context, ev *domain.GeneratedEvidence) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	cached := cachedEvidence{Record: *ev}
	cached.Record.ImageBytes = nil

	if len(ev.ImageBytes) > 0 {
		sum := sha256.Sum256(ev.ImageBytes)
		cached.ImageFile = hex.EncodeToString(sum[:12]) + ".png"
		path := filepath.Join(c.dir, cached.ImageFile)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			tmp := path + ".tmp"
			if err := os.WriteFile(tmp, ev.ImageBytes, 0o644); err != nil {
				return fmt.Errorf("write evidence image temp: %w", err)
			}
			if err := os.Rename(tmp, path); err != nil {
				return fmt.Errorf("replace evidence image: %w", err)
			}
		}
	}

	c.index[ev.RequestID] = cached
	return c.saveIndexLocked()
}
