package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"popcorn/internal/providers"
	"regexp"
	"sync"

	"github.com/spf13/afero"
)

var validKey = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// FileStore keeps one file per key inside a directory. Writes go to a
// temporary file that is synced and renamed over the old one.
type FileStore struct {
	mu         sync.Mutex
	fs         afero.Fs
	dir        string
	ext        string
	compressor CompressorInterface
	logger     providers.Logger
}

func NewFileStore(fsys afero.Fs, dir string, compressor CompressorInterface, logger providers.Logger) (*FileStore, error) {
	ext := ".json"
	if compressor == nil {
		compressor = plainCompression{}
	} else {
		ext = ".json.zst"
	}
	if err := fsys.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &FileStore{
		fs:         fsys,
		dir:        dir,
		ext:        ext,
		compressor: compressor,
		logger:     logger,
	}, nil
}

func (f *FileStore) path(key string) (string, error) {
	if !validKey.MatchString(key) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(f.dir, key+f.ext), nil
}

func (f *FileStore) Get(key string) ([]byte, error) {
	fileName, err := f.path(key)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := afero.ReadFile(f.fs, fileName)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return f.compressor.Decompress(data)
}

func (f *FileStore) Set(key string, value []byte) error {
	fileName, err := f.path(key)
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(value)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	tmpFile := fileName + ".tmp"
	file, err := f.fs.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		f.fs.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		f.fs.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		f.fs.Remove(tmpFile)
		return err
	}

	if err = f.fs.Rename(tmpFile, fileName); err != nil {
		return err
	}
	f.logger.Debugf(providers.TypeApp, "Persisted %s to %s", key, fileName)
	return nil
}

func (f *FileStore) Close() {
	f.compressor.Close()
}
