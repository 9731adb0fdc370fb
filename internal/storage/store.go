package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

const hostIDFile = "host_id"

// Store provides file-based storage for the little state hostmon keeps
// across restarts. Samples are never persisted.
type Store struct {
	dataDir string
	mu      sync.Mutex
}

// NewStore creates a Store rooted at dataDir, ensuring the directory exists.
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dataDir, err)
	}
	return &Store{dataDir: dataDir}, nil
}

// HostID returns the persisted host id, generating one if it doesn't exist
// or is not a valid UUID.
func (s *Store) HostID() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dataDir, hostIDFile)
	data, err := os.ReadFile(path)
	if err == nil {
		id := strings.TrimSpace(string(data))
		if _, perr := uuid.Parse(id); perr == nil {
			return id, nil
		}
	}

	id := uuid.New().String()
	if err := os.WriteFile(path, []byte(id), 0o600); err != nil {
		return "", fmt.Errorf("write host id: %w", err)
	}
	return id, nil
}
