package storage

import (
	"fmt"
	"popcorn/internal/models"
	"popcorn/internal/providers"
	"popcorn/internal/structures"

	"github.com/spf13/afero"
)

const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// NewKeyValueStore opens the backend named by storage.driver. The returned
// func releases it.
func NewKeyValueStore(conf *structures.Config, logger providers.Logger) (models.KeyValueStoreInterface, func(), error) {
	switch conf.Storage.Driver {
	case DriverSQLite:
		store, err := NewSQLiteStore(conf.Storage.Path, logger)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case DriverFile, "":
		var compressor CompressorInterface
		if conf.Storage.Compress {
			c, err := NewZstdCompressor()
			if err != nil {
				return nil, nil, err
			}
			compressor = c
		}
		store, err := NewFileStore(afero.NewOsFs(), conf.Storage.Path, compressor, logger)
		if err != nil {
			if compressor != nil {
				compressor.Close()
			}
			return nil, nil, err
		}
		logger.Infof(providers.TypeApp, "File storage ready at %s", conf.Storage.Path)
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", conf.Storage.Driver)
	}
}
