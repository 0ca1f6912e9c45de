package pendingstore

import (
	"context"
	"fmt"

	"github.com/AzielCF/wap-gatekeeper/config"
	domainAccess "github.com/AzielCF/wap-gatekeeper/domains/access"
	"github.com/AzielCF/wap-gatekeeper/infrastructure/storage"
	pkgError "github.com/AzielCF/wap-gatekeeper/pkg/error"
	"github.com/sirupsen/logrus"
)

// FileStore keeps one queue in a YAML file holding a single field.
type FileStore[E domainAccess.Entry] struct {
	files *storage.Files
	path  string
	field string
}

var _ domainAccess.IPendingStore[domainAccess.UserEntry] = (*FileStore[domainAccess.UserEntry])(nil)

func NewFileStore[E domainAccess.Entry](files *storage.Files, path, field string) *FileStore[E] {
	if files == nil {
		files = storage.NewFiles(nil)
	}
	return &FileStore[E]{files: files, path: path, field: field}
}

// FileFactory resolves the queue file from the document's pending_*_file key.
func FileFactory[E domainAccess.Entry](files *storage.Files) domainAccess.PendingStoreFactory[E] {
	return func(doc *config.Document, d domainAccess.Descriptor) (domainAccess.IPendingStore[E], error) {
		path := doc.String(d.PendingFileKey)
		if path == "" {
			return nil, pkgError.ValidationError(fmt.Sprintf("%s is not set in the configuration", d.PendingFileKey))
		}
		return NewFileStore[E](files, path, d.PendingField), nil
	}
}

func (s *FileStore[E]) Read(ctx context.Context) ([]E, error) {
	exists, err := s.files.Exists(ctx, s.path)
	if err != nil {
		return nil, pkgError.IOError(fmt.Sprintf("failed to stat %s: %v", s.path, err))
	}
	if !exists {
		return nil, nil
	}

	data, err := s.files.Read(ctx, s.path)
	if err != nil {
		return nil, pkgError.IOError(fmt.Sprintf("failed to read %s: %v", s.path, err))
	}
	return decodeQueue[E](data, s.field)
}

func (s *FileStore[E]) Write(ctx context.Context, entries []E) error {
	data, err := encodeQueue(entries, s.field)
	if err != nil {
		return err
	}
	if err := s.files.WriteAtomic(ctx, s.path, data); err != nil {
		return pkgError.IOError(fmt.Sprintf("failed to write %s: %v", s.path, err))
	}
	logrus.Debugf("[PENDING] Wrote %d entries to %s", len(entries), s.path)
	return nil
}

// Truncate clears the queue. A missing file reports TruncateNothingToClear
// and is not created.
func (s *FileStore[E]) Truncate(ctx context.Context) (domainAccess.TruncateOutcome, error) {
	exists, err := s.files.Exists(ctx, s.path)
	if err != nil {
		return domainAccess.TruncateNothingToClear, pkgError.IOError(fmt.Sprintf("failed to stat %s: %v", s.path, err))
	}
	if !exists {
		return domainAccess.TruncateNothingToClear, nil
	}
	if err := s.Write(ctx, nil); err != nil {
		return domainAccess.TruncateCleared, err
	}
	return domainAccess.TruncateCleared, nil
}
