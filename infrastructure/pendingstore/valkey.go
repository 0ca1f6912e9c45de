package pendingstore

import (
	"context"
	"fmt"

	"github.com/AzielCF/wap-gatekeeper/config"
	domainAccess "github.com/AzielCF/wap-gatekeeper/domains/access"
	"github.com/AzielCF/wap-gatekeeper/infrastructure/valkey"
	"github.com/sirupsen/logrus"
)

// ValkeyStore keeps one queue as a YAML blob under a single key. A missing
// key is an empty queue, the same way a missing file is.
type ValkeyStore[E domainAccess.Entry] struct {
	client *valkey.Client
	key    string
	field  string
}

func NewValkeyStore[E domainAccess.Entry](client *valkey.Client, key, field string) *ValkeyStore[E] {
	return &ValkeyStore[E]{client: client, key: key, field: field}
}

// ValkeyFactory stores each domain under <prefix>pending:<domain>; the
// document's file paths are ignored.
func ValkeyFactory[E domainAccess.Entry](client *valkey.Client) domainAccess.PendingStoreFactory[E] {
	return func(_ *config.Document, d domainAccess.Descriptor) (domainAccess.IPendingStore[E], error) {
		return NewValkeyStore[E](client, client.Key("pending", string(d.Domain)), d.PendingField), nil
	}
}

func (s *ValkeyStore[E]) Read(ctx context.Context) ([]E, error) {
	inner := s.client.Inner()
	data, err := inner.Do(ctx, inner.B().Get().Key(s.key).Build()).AsBytes()
	if err != nil {
		if valkey.IsNil(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", s.key, err)
	}
	return decodeQueue[E](data, s.field)
}

func (s *ValkeyStore[E]) Write(ctx context.Context, entries []E) error {
	data, err := encodeQueue(entries, s.field)
	if err != nil {
		return err
	}
	inner := s.client.Inner()
	if err := inner.Do(ctx, inner.B().Set().Key(s.key).Value(string(data)).Build()).Error(); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.key, err)
	}
	logrus.Debugf("[PENDING] Wrote %d entries to %s", len(entries), s.key)
	return nil
}

func (s *ValkeyStore[E]) Truncate(ctx context.Context) (domainAccess.TruncateOutcome, error) {
	inner := s.client.Inner()
	n, err := inner.Do(ctx, inner.B().Exists().Key(s.key).Build()).AsInt64()
	if err != nil {
		return domainAccess.TruncateNothingToClear, fmt.Errorf("failed to check %s: %w", s.key, err)
	}
	if n == 0 {
		return domainAccess.TruncateNothingToClear, nil
	}
	if err := s.Write(ctx, nil); err != nil {
		return domainAccess.TruncateCleared, err
	}
	return domainAccess.TruncateCleared, nil
}
