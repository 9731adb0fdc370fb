package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

func TestHostID_StableAcrossStores(t *testing.T) {
	dir := t.TempDir()

	s1, err := NewStore(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	id1, err := s1.HostID()
	if err != nil {
		t.Fatalf("host id: %v", err)
	}
	if _, err := uuid.Parse(id1); err != nil {
		t.Fatalf("host id %q is not a uuid: %v", id1, err)
	}

	s2, err := NewStore(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	id2, err := s2.HostID()
	if err != nil {
		t.Fatalf("host id: %v", err)
	}
	if id1 != id2 {
		t.Fatalf("expected stable id, got %q then %q", id1, id2)
	}
}

func TestHostID_ReplacesGarbage(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, hostIDFile), []byte("not-a-uuid"), 0o600); err != nil {
		t.Fatalf("seed: %v", err)
	}

	s, err := NewStore(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	id, err := s.HostID()
	if err != nil {
		t.Fatalf("host id: %v", err)
	}
	if id == "not-a-uuid" {
		t.Fatalf("expected a fresh uuid")
	}
}
