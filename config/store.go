package config

import (
	"context"
	"fmt"

	"github.com/AzielCF/wap-gatekeeper/infrastructure/storage"
	pkgError "github.com/AzielCF/wap-gatekeeper/pkg/error"
	"github.com/sirupsen/logrus"
)

// Store loads and saves configuration documents on disk.
type Store struct {
	files *storage.Files
}

func NewStore(files *storage.Files) *Store {
	if files == nil {
		files = storage.NewFiles(nil)
	}
	return &Store{files: files}
}

// Load fails with NotFoundError when path does not exist and ParseError when
// the content is not a YAML mapping.
func (s *Store) Load(ctx context.Context, path string) (*Document, error) {
	exists, err := s.files.Exists(ctx, path)
	if err != nil {
		return nil, pkgError.IOError(fmt.Sprintf("failed to stat configuration %s: %v", path, err))
	}
	if !exists {
		return nil, pkgError.NotFoundError(fmt.Sprintf("configuration file %s does not exist", path))
	}

	data, err := s.files.Read(ctx, path)
	if err != nil {
		return nil, pkgError.IOError(fmt.Sprintf("failed to read configuration %s: %v", path, err))
	}
	return Parse(data)
}

// Save overwrites the whole file at path.
func (s *Store) Save(ctx context.Context, doc *Document, path string) error {
	data, err := doc.Marshal()
	if err != nil {
		return pkgError.IOError(err.Error())
	}
	if err := s.files.WriteAtomic(ctx, path, data); err != nil {
		return pkgError.IOError(fmt.Sprintf("failed to save configuration %s: %v", path, err))
	}
	logrus.Debugf("[CONFIG] Saved configuration to %s", path)
	return nil
}
