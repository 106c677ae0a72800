package store

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/obsidian-intel/unit734/internal/domain"
)

// FileTranscriptStore appends ledger entries as JSON lines, one file
// per session. The format is append-only so replays can rebuild a
// ledger from disk.
type FileTranscriptStore struct {
	dir string
	mu  sync.Mutex
}

func NewFileTranscriptStore(dir string) (*FileTranscriptStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create transcript dir: %w", err)
	}
	return &FileTranscriptStore{dir: dir}, nil
}

func (s *FileTranscriptStore) path(sessionID uuid.UUID) string {
	return filepath.Join(s.dir, sessionID.String()+".jsonl")
}

func (s *FileTranscriptStore) Append(ctx context.Context, sessionID uuid.UUID, entry domain.LedgerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal transcript entry: %w", err)
	}

	f, err := os.OpenFile(s.path(sessionID), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open transcript file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("append transcript entry: %w", err)
	}
	return nil
}

func (s *FileTranscriptStore) Read(ctx context.Context, sessionID uuid.UUID) ([]domain.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path(sessionID))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("open transcript file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var entries []domain.LedgerEntry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var entry domain.LedgerEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			return nil, fmt.Errorf("parse transcript line: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan transcript file: %w", err)
	}
	return entries, nil
}
