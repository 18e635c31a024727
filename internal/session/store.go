package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Fixed storage keys. Token and identity are always written and cleared
// together, never independently.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// Store persists session state between runs.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(keys ...string) error
}

// FileStore keeps the session document as a small JSON file, created
// with 0600 since it holds a bearer token.
type FileStore struct {
	path string
}

// DefaultSessionPath returns ~/.tanggap/session.json.
func DefaultSessionPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".tanggap", "session.json"), nil
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) load() map[string]string {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return map[string]string{}
	}
	var doc map[string]string
	if err := json.Unmarshal(raw, &doc); err != nil || doc == nil {
		return map[string]string{}
	}
	return doc
}

func (s *FileStore) save(doc map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

func (s *FileStore) Get(key string) (string, bool) {
	v, ok := s.load()[key]
	return v, ok && v != ""
}

func (s *FileStore) Set(key, value string) error {
	doc := s.load()
	doc[key] = value
	return s.save(doc)
}

func (s *FileStore) Delete(keys ...string) error {
	doc := s.load()
	for _, k := range keys {
		delete(doc, k)
	}
	if len(doc) == 0 {
		if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return nil
	}
	return s.save(doc)
}
