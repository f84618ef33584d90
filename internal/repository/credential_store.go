package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zihao-lin/photoframe/internal/domain"
)

const (
	tokenFilename   = "tokens.json"
	sessionFilename = "session.json"
)

// Store persists the vendor token document and the session config as whole
// JSON documents on disk. Writes overwrite the full document; callers merge
// in memory first. A missing file reads as absent, never as an error.
type Store struct {
	dir string
}

// NewStore creates the data directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// LoadTokens returns the raw token document. The blob is opaque here; only
// the token provider interprets it.
func (s *Store) LoadTokens() ([]byte, bool, error) {
	return s.readFile(tokenFilename)
}

func (s *Store) SaveTokens(doc []byte) error {
	return s.writeFile(tokenFilename, doc)
}

func (s *Store) DeleteTokens() error {
	return s.removeFile(tokenFilename)
}

func (s *Store) LoadSession() (*domain.SessionConfig, bool, error) {
	raw, ok, err := s.readFile(sessionFilename)
	if err != nil || !ok {
		return nil, false, err
	}
	var cfg domain.SessionConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, false, fmt.Errorf("decode session config: %w", err)
	}
	return &cfg, true, nil
}

func (s *Store) SaveSession(cfg *domain.SessionConfig) error {
	raw, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session config: %w", err)
	}
	return s.writeFile(sessionFilename, raw)
}

func (s *Store) DeleteSession() error {
	return s.removeFile(sessionFilename)
}

func (s *Store) readFile(name string) ([]byte, bool, error) {
	raw, err := os.ReadFile(filepath.Join(s.dir, name))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", name, err)
	}
	return raw, true, nil
}

// writeFile writes via a temp file and rename so a crash mid-write never
// leaves a truncated document behind.
func (s *Store) writeFile(name string, data []byte) error {
	target := filepath.Join(s.dir, name)
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", name, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}

func (s *Store) removeFile(name string) error {
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", name, err)
	}
	return nil
}
