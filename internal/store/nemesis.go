package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/obsidian-intel/unit734/internal/domain"
)

// FileNemesisStore keeps the single cross-session detective profile in
// one JSON file. Writes go through a temp file and an atomic rename so
// a crash never leaves a torn record.
type FileNemesisStore struct {
	path string
	mu   sync.Mutex
}

func NewFileNemesisStore(path string) *FileNemesisStore {
	return &FileNemesisStore{path: path}
}

// Load returns the stored record, or a fresh one when no file exists.
func (s *FileNemesisStore) Load(ctx context.Context) (*domain.NemesisRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return domain.NewNemesisRecord(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read nemesis file: %w", err)
	}

	var rec domain.NemesisRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse nemesis file: %w", err)
	}

	if rec.PillarBreaches == nil {
		rec.PillarBreaches = make(map[domain.Pillar]int)
	}
	if rec.TacticRecords == nil {
		rec.TacticRecords = make(map[domain.DeceptionTactic]domain.TacticEffectiveness)
	}
	if rec.Detective.TacticCounts == nil {
		rec.Detective.TacticCounts = make(map[domain.PlayerTactic]int)
	}
	return &rec, nil
}

func (s *FileNemesisStore) Save(ctx context.Context, rec *domain.NemesisRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal nemesis record: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create nemesis dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write nemesis temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace nemesis file: %w", err)
	}
	return nil
}

func (s *FileNemesisStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove nemesis file: %w", err)
	}
	return nil
}
