package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Repository provides load and atomic-save access to the persisted record,
// so the cycle logic never touches a fixed path directly.
type Repository interface {
	Load() (Record, error)
	Save(Record) error
}

// FileRepository stores the record at a single path on disk.
type FileRepository struct {
	Path string
}

// NewFileRepository creates a repository for the record at path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{Path: path}
}

// Load implements Repository.
func (f *FileRepository) Load() (Record, error) {
	return Load(f.Path)
}

// Save implements Repository. The record is written to a temp file in the
// same directory and renamed into place, so a crash mid-write never leaves
// a truncated record behind.
func (f *FileRepository) Save(rec Record) error {
	data, err := marshalFor(f.Path, rec)
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.Path)
	tmp, err := os.CreateTemp(dir, ".hostwatch-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, f.Path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

func marshalFor(path string, rec Record) ([]byte, error) {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return yaml.Marshal(&rec)
	default:
		data, err := json.MarshalIndent(&rec, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
}

// MemoryRepository is an in-memory Repository for tests.
type MemoryRepository struct {
	Record Record
	Saves  int
	Err    error
}

// Load implements Repository.
func (m *MemoryRepository) Load() (Record, error) {
	if m.Err != nil {
		return Record{}, m.Err
	}
	rec := m.Record
	ApplyDefaults(&rec)
	return rec, nil
}

// Save implements Repository.
func (m *MemoryRepository) Save(rec Record) error {
	if m.Err != nil {
		return m.Err
	}
	m.Record = rec
	m.Saves++
	return nil
}
